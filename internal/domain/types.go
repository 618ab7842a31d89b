package domain

import "time"

// DayLayout is the wire and storage format for calendar days.
// Reservations carry no time-of-day.
const DayLayout = "2006-01-02"

type SeatStatus string

const (
	SeatAvailable   SeatStatus = "available"
	SeatSelected    SeatStatus = "selected"
	SeatUnavailable SeatStatus = "unavailable"
	SeatMine        SeatStatus = "mine"
)

// Reservation is the persisted record: one seat booked for one calendar day.
// The store enforces at most one active reservation per (seat, day).
type Reservation struct {
	ID     string `json:"id"`
	SeatID string `json:"seat_id"`
	Day    string `json:"day"`
}

// LocalReservationRecord is the subset of a Reservation a client remembers
// owning. It lives in client-durable storage and is not authoritative over
// the persisted record; it exists only to tell "reserved by me" apart from
// "reserved by someone else". It can silently diverge from the store
// when the client clears storage or switches devices.
type LocalReservationRecord struct {
	ID     string `json:"id"`
	SeatID string `json:"seat_id"`
	Day    string `json:"day"`
}

type Seat struct {
	ID     string     `json:"id"`
	Status SeatStatus `json:"status"`
}

// ParseDay validates a calendar-day string.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DayLayout, s)
}
