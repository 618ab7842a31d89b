package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInventory_Contains(t *testing.T) {
	inv := DefaultInventory()

	assert.True(t, inv.Contains("1A"))
	assert.True(t, inv.Contains("2F"))
	assert.False(t, inv.Contains("9Z"))
	assert.False(t, inv.Contains(""))
}

func TestInventory_Bookable(t *testing.T) {
	inv := DefaultInventory()

	assert.True(t, inv.Bookable("1A"))
	assert.False(t, inv.Bookable(inv.ScreenSeat))
	assert.False(t, inv.Bookable("9Z"))
}

func TestInventory_LayoutShape(t *testing.T) {
	inv := DefaultInventory()

	layout := inv.Layout(map[string]SeatStatus{"1A": SeatSelected})

	assert.Len(t, layout, len(inv.Rows))
	for i, row := range layout {
		assert.Len(t, row, len(inv.Rows[i]))
	}
	assert.Equal(t, SeatSelected, layout[0][0].Status)
	assert.Equal(t, "1A", layout[0][0].ID)
}

func TestInventory_LayoutMissingStatusDefaultsAvailable(t *testing.T) {
	inv := DefaultInventory()

	layout := inv.Layout(nil)

	assert.Equal(t, SeatAvailable, layout[0][1].Status)
}

func TestParseDay(t *testing.T) {
	cases := []struct {
		in      string
		wantErr bool
	}{
		{in: "2024-06-10"},
		{in: "2024-13-01", wantErr: true},
		{in: "10-06-2024", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range cases {
		_, err := ParseDay(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
		} else {
			assert.NoError(t, err, tc.in)
		}
	}
}
