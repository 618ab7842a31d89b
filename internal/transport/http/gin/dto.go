package httpgin

import (
	"github.com/brunorochagarcia/reservademesa/internal/domain"
	"github.com/brunorochagarcia/reservademesa/internal/notify"
	"github.com/brunorochagarcia/reservademesa/internal/session"
)

type CreateReservationRequest struct {
	SeatID string `json:"seat_id" binding:"required"`
	Day    string `json:"day" binding:"required"`
}

type RescheduleReservationRequest struct {
	Day string `json:"day" binding:"required"`
}

type ViewDayRequest struct {
	Day string `json:"day" binding:"required"`
}

type PickDayRequest struct {
	Day string `json:"day" binding:"required"`
}

type GotoReservationRequest struct {
	SeatID string `json:"seat_id" binding:"required"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ReservationResponse struct {
	ID     string `json:"id"`
	SeatID string `json:"seat_id"`
	Day    string `json:"day"`
}

type DaySeatsResponse struct {
	Day  string          `json:"day"`
	Rows [][]domain.Seat `json:"rows"`
}

// SessionResponse carries the full projected view plus the notices produced
// since the last response, so the client can render toasts.
type SessionResponse struct {
	View    session.View                    `json:"view"`
	Records []domain.LocalReservationRecord `json:"records"`
	Notices []notify.Notice                 `json:"notices"`
}
