package integration_test

const (
	dbName            = "cinema_booking"
	dbUser            = "test_user"
	dbPassword        = "test_password"
	dbImageName       = "postgres:17-alpine"
	cacheImageName    = "redis:7"
	brokerImageName   = "rabbitmq:3.13-alpine"
	brokerUser        = "guest"
	brokerPassword    = "guest"
	testJWTSecret     = "integration-secret-at-least-32-chars"
	testRateLimit     = 5
	testBookingsQueue = "booking.confirmed.test"

	// User related constants
	TestUserLogin    = "john_doe"
	TestUserName     = "John Doe"
	TestUserEmail    = "john@example.com"
	TestUserPassword = "Secret123"

	// Catalogue related constants, see testdata/catalogue_up.sql
	TestShowtimeId      = 1
	TestOtherShowtimeId = 2
	TestMovieTitle      = "Inception"
	TestTheaterName     = "Cinema City"
	TestHallName        = "Hall 1"
)
