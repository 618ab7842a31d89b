package domain

// Inventory is the fixed, ordered seat layout. Seats are defined once at
// process start and never created or destroyed at runtime. ScreenSeat names
// the one seat that is permanently unavailable and excluded from booking.
type Inventory struct {
	Rows       [][]string
	ScreenSeat string
}

// DefaultInventory mirrors the Seatly floor plan.
func DefaultInventory() Inventory {
	return Inventory{
		Rows: [][]string{
			{"1A", "1B", "1C", "1D", "1E", "1F"},
			{"2A", "2B", "2C", "2D", "2E", "2F"},
			{"3A", "3B", "3C", "3D", "3E", "3F"},
			{"4A", "4B", "4C"},
			{"5A", "5B", "5C", "5D"},
		},
		ScreenSeat: "2F",
	}
}

// Contains reports whether the seat id belongs to the layout.
func (inv Inventory) Contains(seatID string) bool {
	for _, row := range inv.Rows {
		for _, id := range row {
			if id == seatID {
				return true
			}
		}
	}
	return false
}

// Bookable reports whether the seat exists and is not the screen seat.
func (inv Inventory) Bookable(seatID string) bool {
	return seatID != inv.ScreenSeat && inv.Contains(seatID)
}

// Layout renders the inventory as display rows with one status per seat.
// Seats missing from statuses come out available.
func (inv Inventory) Layout(statuses map[string]SeatStatus) [][]Seat {
	out := make([][]Seat, 0, len(inv.Rows))
	for _, row := range inv.Rows {
		seats := make([]Seat, 0, len(row))
		for _, id := range row {
			st, ok := statuses[id]
			if !ok {
				st = SeatAvailable
			}
			seats = append(seats, Seat{ID: id, Status: st})
		}
		out = append(out, seats)
	}
	return out
}

// SeatIDs returns all seat ids in layout order.
func (inv Inventory) SeatIDs() []string {
	var out []string
	for _, row := range inv.Rows {
		out = append(out, row...)
	}
	return out
}
