package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/brunorochagarcia/reservademesa/internal/domain"
)

func TestReservationsForDay_ValidatesDay(t *testing.T) {
	svc := New(nil, nil, domain.DefaultInventory(), Config{})

	_, err := svc.ReservationsForDay(context.Background(), "2024/06/10")
	assert.ErrorIs(t, err, ErrBadDay)
}

func TestSeatMapForDay_ValidatesDay(t *testing.T) {
	svc := New(nil, nil, domain.DefaultInventory(), Config{})

	_, err := svc.SeatMapForDay(context.Background(), "")
	assert.ErrorIs(t, err, ErrBadDay)
}

func TestNew_DefaultsTTL(t *testing.T) {
	svc := New(nil, nil, domain.DefaultInventory(), Config{})
	assert.Equal(t, 15*time.Second, svc.cfg.DayListTTL)
}
