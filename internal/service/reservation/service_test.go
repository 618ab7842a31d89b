package reservation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brunorochagarcia/reservademesa/internal/domain"
)

// Validation runs before any store or limiter work, so these paths are
// exercisable without infrastructure.
func TestCreate_ValidatesInput(t *testing.T) {
	svc := New(nil, nil, nil, nil, domain.DefaultInventory(), Config{})

	cases := []struct {
		name    string
		seatID  string
		day     string
		wantErr error
	}{
		{"unknown seat", "9Z", "2024-06-10", ErrUnknownSeat},
		{"screen seat", "2F", "2024-06-10", ErrSeatNotBookable},
		{"bad day", "1A", "10/06/2024", ErrBadDay},
		{"empty day", "1A", "", ErrBadDay},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.seatID, tc.day, "")
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestReschedule_ValidatesDay(t *testing.T) {
	svc := New(nil, nil, nil, nil, domain.DefaultInventory(), Config{})

	err := svc.Reschedule(context.Background(), "some-id", "June 12")
	assert.ErrorIs(t, err, ErrBadDay)
}

func TestNew_DefaultsMaxTxAttempts(t *testing.T) {
	svc := New(nil, nil, nil, nil, domain.DefaultInventory(), Config{})
	assert.Equal(t, 3, svc.cfg.MaxTxAttempts)
}
