package domain

// Project derives the display status of every seat in the inventory from the
// reservations known for the viewed day, the client's remembered records and
// the current selection. It is a pure function: it is re-run on every state
// change rather than patched incrementally, so its output depends only on
// its arguments.
//
// Per seat, first match wins:
//  1. the screen seat is always unavailable;
//  2. a seat reserved on the viewed day is mine when a local record matches
//     (seat, viewed day), otherwise unavailable;
//  3. the selected seat is selected;
//  4. everything else is available.
func Project(
	inv Inventory,
	reservations []Reservation,
	records []LocalReservationRecord,
	viewedDay string,
	selectedSeat string,
) map[string]SeatStatus {
	reserved := make(map[string]struct{}, len(reservations))
	for _, r := range reservations {
		reserved[r.SeatID] = struct{}{}
	}

	mine := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if rec.Day == viewedDay {
			mine[rec.SeatID] = struct{}{}
		}
	}

	out := make(map[string]SeatStatus)
	for _, row := range inv.Rows {
		for _, id := range row {
			switch {
			case id == inv.ScreenSeat:
				out[id] = SeatUnavailable
			case hasKey(reserved, id):
				if hasKey(mine, id) {
					out[id] = SeatMine
				} else {
					out[id] = SeatUnavailable
				}
			case id == selectedSeat:
				out[id] = SeatSelected
			default:
				out[id] = SeatAvailable
			}
		}
	}

	return out
}

func hasKey(m map[string]struct{}, k string) bool {
	_, ok := m[k]
	return ok
}
