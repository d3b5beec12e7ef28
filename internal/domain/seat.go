package domain

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// SeatCoordinate addresses a seat inside a hall. On the wire it is "<row>-<number>".
type SeatCoordinate struct {
	Row    int
	Number int
}

func (c SeatCoordinate) String() string {
	return fmt.Sprintf("%d-%d", c.Row, c.Number)
}

// ParseSeatCoordinate parses the "<row>-<number>" form. Both parts are positive decimal
// integers without sign or leading zeros that fit in 32 bits.
func ParseSeatCoordinate(s string) (SeatCoordinate, error) {
	row, num, found := strings.Cut(s, "-")
	if !found {
		return SeatCoordinate{}, fmt.Errorf("%w: seat %q must be in <row>-<number> form", ErrInvalidRequest, s)
	}

	r, ok := parseSeatPart(row)
	if !ok {
		return SeatCoordinate{}, fmt.Errorf("%w: seat %q has an invalid row", ErrInvalidRequest, s)
	}

	n, ok := parseSeatPart(num)
	if !ok {
		return SeatCoordinate{}, fmt.Errorf("%w: seat %q has an invalid number", ErrInvalidRequest, s)
	}

	return SeatCoordinate{Row: r, Number: n}, nil
}

func parseSeatPart(part string) (int, bool) {
	if part == "" || part[0] < '1' || part[0] > '9' {
		return 0, false
	}

	for i := 1; i < len(part); i++ {
		if part[i] < '0' || part[i] > '9' {
			return 0, false
		}
	}

	v, err := strconv.ParseInt(part, 10, 32)
	if err != nil {
		return 0, false
	}

	return int(v), true
}

// ParseSeatCoordinates parses a non-empty selection and rejects repeated coordinates.
func ParseSeatCoordinates(selected []string) ([]SeatCoordinate, error) {
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: at least one seat must be selected", ErrInvalidRequest)
	}

	coords := make([]SeatCoordinate, 0, len(selected))
	seen := make(map[SeatCoordinate]struct{}, len(selected))

	for _, s := range selected {
		c, err := ParseSeatCoordinate(s)
		if err != nil {
			return nil, err
		}

		if _, ok := seen[c]; ok {
			return nil, fmt.Errorf("%w: seat %s selected more than once", ErrInvalidRequest, c)
		}

		seen[c] = struct{}{}
		coords = append(coords, c)
	}

	return coords, nil
}

type Seat struct {
	ID       int
	HallID   int
	Row      int
	Number   int
	Type     string
	Occupied bool
}

func (s Seat) Coordinate() SeatCoordinate {
	return SeatCoordinate{Row: s.Row, Number: s.Number}
}

// ShowtimeSeats is the seat layout of a showtime's hall.
type ShowtimeSeats struct {
	Showtime ShowtimeDetail
	Seats    []Seat
}

// MarkOccupied flags every seat that is bound to one of the given tickets.
func (s *ShowtimeSeats) MarkOccupied(tickets []Ticket) {
	occupied := make(map[int]struct{}, len(tickets))
	for _, t := range tickets {
		occupied[t.SeatID] = struct{}{}
	}

	for i := range s.Seats {
		_, ok := occupied[s.Seats[i].ID]
		s.Seats[i].Occupied = ok
	}
}

type SeatRepository interface {
	GetSeatsByShowtime(ctx context.Context, showtimeID int) (*ShowtimeSeats, error)
}
