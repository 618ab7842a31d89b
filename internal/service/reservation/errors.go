package reservation

import "errors"

var (
	ErrUnknownSeat         = errors.New("seat does not exist")
	ErrSeatNotBookable     = errors.New("seat is not bookable")
	ErrBadDay              = errors.New("day must be YYYY-MM-DD")
	ErrSeatTaken           = errors.New("seat already reserved for that day")
	ErrReservationNotFound = errors.New("reservation not found")
)
