package api

import (
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
	Details   *string   `json:"details,omitempty"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
	Database   string     `json:"database"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type RegisterRequest struct {
	Login    string `json:"login" validate:"required,login"`
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

type LoginRequest struct {
	Login    string `json:"login" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

type UserResponse struct {
	Id             int       `json:"id"`
	Login          string    `json:"login"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Avatar         string    `json:"avatar"`
	FavoriteGenres []string  `json:"favoriteGenres"`
	Language       string    `json:"language"`
	Theme          string    `json:"theme"`
	IsAdmin        bool      `json:"isAdmin"`
	CreatedAt      time.Time `json:"createdAt"`
}

// UpdateProfileRequest changes only the fields that are present.
type UpdateProfileRequest struct {
	Name           *string   `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Avatar         *string   `json:"avatar,omitempty" validate:"omitempty,max=2048"`
	FavoriteGenres *[]string `json:"favoriteGenres,omitempty" validate:"omitempty,max=20,unique,dive,min=1,max=50"`
	Language       *string   `json:"language,omitempty" validate:"omitempty,oneof=en uk"`
	Theme          *string   `json:"theme,omitempty" validate:"omitempty,oneof=light dark"`
}

type CheckAvailabilityParams struct {
	Login *string `json:"login,omitempty" validate:"required_without=Email,omitempty,min=1,max=32"`
	Email *string `json:"email,omitempty" validate:"required_without=Login,omitempty,min=1,max=254"`
}

type CheckAvailabilityResponse struct {
	Available bool `json:"available"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

type GetMoviesParams struct {
	Page     *int    `json:"page,omitempty" validate:"omitempty,min=1,max=10000000"`
	PageSize *int    `json:"pageSize,omitempty" validate:"omitempty,min=1,max=100"`
	Term     *string `json:"term,omitempty" validate:"omitempty,max=100"`
	Sort     *string `json:"sort,omitempty" validate:"omitempty,oneof=id title year rating -id -title -year -rating"`
}

type MovieSummary struct {
	Id          int             `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Year        int             `json:"year"`
	DurationMin int             `json:"durationMin"`
	Rating      decimal.Decimal `json:"rating"`
	Director    string          `json:"director"`
	PosterUrl   string          `json:"posterUrl"`
	Genres      []string        `json:"genres"`
}

type MovieListResponse struct {
	Movies   []MovieSummary `json:"movies"`
	Metadata *Metadata      `json:"metadata"`
}

type MovieDetailResponse struct {
	MovieSummary
	BackdropUrl string `json:"backdropUrl"`
	TrailerUrl  string `json:"trailerUrl"`
}

type Genre struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

type GenreListResponse struct {
	Genres []Genre `json:"genres"`
}

type City struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

type CityListResponse struct {
	Cities []City `json:"cities"`
}

type GetTheatersParams struct {
	CityId *int `json:"cityId,omitempty" validate:"omitempty,min=1"`
}

type Hall struct {
	Id         int    `json:"id"`
	Name       string `json:"name"`
	TotalSeats int    `json:"totalSeats"`
}

type Theater struct {
	Id      int    `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	City    City   `json:"city"`
	Halls   []Hall `json:"halls"`
}

type TheaterListResponse struct {
	Theaters []Theater `json:"theaters"`
}

type GetShowtimesParams struct {
	MovieId *int                `json:"movieId,omitempty" validate:"omitempty,min=1"`
	CityId  *int                `json:"cityId,omitempty" validate:"omitempty,min=1"`
	Date    *openapi_types.Date `json:"date,omitempty"`
}

type ShowtimeMovie struct {
	Id          int    `json:"id"`
	Title       string `json:"title"`
	PosterUrl   string `json:"posterUrl"`
	DurationMin int    `json:"durationMin"`
}

type ShowtimeTheater struct {
	Id      int    `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	City    City   `json:"city"`
}

type ShowtimeHall struct {
	Id      int             `json:"id"`
	Name    string          `json:"name"`
	Theater ShowtimeTheater `json:"theater"`
}

type Showtime struct {
	Id        int             `json:"id"`
	StartTime time.Time       `json:"startTime"`
	Price     decimal.Decimal `json:"price"`
	Movie     ShowtimeMovie   `json:"movie"`
	Hall      ShowtimeHall    `json:"hall"`
}

type ShowtimeListResponse struct {
	Showtimes []Showtime `json:"showtimes"`
}

type AvailabilityShowtime struct {
	Id        int             `json:"id"`
	StartTime time.Time       `json:"startTime"`
	Price     decimal.Decimal `json:"price"`
	Movie     ShowtimeMovie   `json:"movie"`
}

type Seat struct {
	SeatId     int    `json:"seatId"`
	RowNum     int    `json:"rowNum"`
	SeatNum    int    `json:"seatNum"`
	Type       string `json:"type"`
	IsOccupied bool   `json:"isOccupied"`
}

type AvailabilityResponse struct {
	Showtime AvailabilityShowtime `json:"showtime"`
	Hall     ShowtimeHall         `json:"hall"`
	Seats    []Seat               `json:"seats"`
}

type CreateBookingRequest struct {
	ShowtimeId    int      `json:"showtimeId" validate:"required,min=1"`
	SelectedSeats []string `json:"selectedSeats" validate:"required,min=1,max=10,unique,dive,seat_coord"`
}

type CreateBookingResponse struct {
	BookingId int       `json:"bookingId"`
	Reference uuid.UUID `json:"reference"`
}

type BookingSeat struct {
	SeatId  int    `json:"seatId"`
	RowNum  int    `json:"rowNum"`
	SeatNum int    `json:"seatNum"`
	Type    string `json:"type"`
}

type BookingTicket struct {
	Id    int             `json:"id"`
	Seat  BookingSeat     `json:"seat"`
	Price decimal.Decimal `json:"price"`
}

type Booking struct {
	Id         int             `json:"id"`
	Reference  uuid.UUID       `json:"reference"`
	CreatedAt  time.Time       `json:"createdAt"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Showtime   Showtime        `json:"showtime"`
	Tickets    []BookingTicket `json:"tickets"`
}

type GetUserBookingsParams struct {
	Page     *int `json:"page,omitempty" validate:"omitempty,min=1,max=10000000"`
	PageSize *int `json:"pageSize,omitempty" validate:"omitempty,min=1,max=100"`
}

type UserBookingsResponse struct {
	Bookings []Booking `json:"bookings"`
	Metadata Metadata  `json:"metadata"`
}
