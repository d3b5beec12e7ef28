package domain

import "errors"

var (
	ErrRecordNotFound     = errors.New("record not found")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrSeatConflict       = errors.New("seat(s) are already booked for this showtime")
	ErrTransactionFailure = errors.New("booking transaction failed, please try again")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid login credentials")
)
