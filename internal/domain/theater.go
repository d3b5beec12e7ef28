package domain

import "context"

type City struct {
	ID   int
	Name string
}

type Theater struct {
	ID      int
	Name    string
	Address string
	City    City
	Halls   []Hall
}

type Hall struct {
	ID         int
	TheaterID  int
	Name       string
	TotalSeats int
}

type TheaterRepository interface {
	GetCities(ctx context.Context) ([]City, error)
	GetTheaters(ctx context.Context, cityID *int) ([]Theater, error)
}
