package httpgin

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brunorochagarcia/reservademesa/internal/service/query"
	"github.com/brunorochagarcia/reservademesa/internal/service/reservation"
	"github.com/brunorochagarcia/reservademesa/internal/session"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"bad day", reservation.ErrBadDay, http.StatusBadRequest},
		{"unknown seat", reservation.ErrUnknownSeat, http.StatusBadRequest},
		{"not bookable", reservation.ErrSeatNotBookable, http.StatusBadRequest},
		{"query bad day", query.ErrBadDay, http.StatusBadRequest},
		{"session bad day", session.ErrBadDay, http.StatusBadRequest},
		{"incomplete input", session.ErrIncompleteInput, http.StatusBadRequest},
		{"invalid state", session.ErrInvalidState, http.StatusConflict},
		{"mutation in flight", session.ErrMutationInFlight, http.StatusConflict},
		{"seat taken", reservation.ErrSeatTaken, http.StatusConflict},
		{"not found", reservation.ErrReservationNotFound, http.StatusNotFound},
		{"rate limited", errors.New("rate limited, retry in 10s"), http.StatusTooManyRequests},
		{"unexpected", errors.New("pg down"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusFor(tc.err))
		})
	}
}

func TestStatusFor_Wrapped(t *testing.T) {
	err := fmt.Errorf("session.Confirm:%w", fmt.Errorf("reservation.Service.Create:%w", reservation.ErrSeatTaken))
	assert.Equal(t, http.StatusConflict, statusFor(err))
}

func TestIsRateLimitedErr(t *testing.T) {
	assert.True(t, isRateLimitedErr(errors.New("rate limited, retry in 3s")))
	assert.False(t, isRateLimitedErr(errors.New("seat taken")))
	assert.False(t, isRateLimitedErr(nil))
}
