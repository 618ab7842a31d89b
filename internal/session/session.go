// Package session implements the reservation edit flow: which panel is open,
// which seat is selected, and the create / reschedule / cancel operations
// against the reservation store, kept in sync with the client's remembered
// records. Seat statuses are never stored; they are re-derived through
// domain.Project from the session's state on every read.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/brunorochagarcia/reservademesa/internal/domain"
	"github.com/brunorochagarcia/reservademesa/internal/notify"
)

type PanelState string

const (
	StateClosed       PanelState = "closed"
	StateViewing      PanelState = "viewing"
	StateRescheduling PanelState = "rescheduling"
	StateBooking      PanelState = "booking"
)

var (
	ErrIncompleteInput  = errors.New("seat and day must both be chosen")
	ErrMutationInFlight = errors.New("another operation is in flight")
	ErrInvalidState     = errors.New("operation not allowed in current panel state")
	ErrBadDay           = errors.New("day must be YYYY-MM-DD")
	ErrUnknownSeat      = errors.New("seat does not exist")
)

// Store is the persistent reservation store as the session sees it.
type Store interface {
	ListDay(ctx context.Context, day string) ([]domain.Reservation, error)
	Create(ctx context.Context, seatID, day string) (domain.Reservation, error)
	Reschedule(ctx context.Context, id, newDay string) error
	Cancel(ctx context.Context, id string) error
}

// Remembrance is the client-durable record list. It is read once when the
// session starts and overwritten wholesale after every successful mutation.
type Remembrance interface {
	Load(ctx context.Context) ([]domain.LocalReservationRecord, error)
	Save(ctx context.Context, records []domain.LocalReservationRecord) error
}

// Session holds one client's view state: the viewed day, the reservation
// list fetched for it, the remembered records, and the edit panel. All
// methods are safe for concurrent use; the lock is released around store
// calls so a day change can supersede a fetch still in flight.
type Session struct {
	inv      domain.Inventory
	store    Store
	rem      Remembrance
	notifier notify.Notifier

	mu           sync.Mutex
	viewedDay    string
	selectedSeat string
	pendingDay   string
	state        PanelState
	reservations []domain.Reservation
	records      []domain.LocalReservationRecord
	fetchSeq     uint64
	pendingOpen  string
	busy         bool
}

// View is a read-only snapshot of the session for rendering.
type View struct {
	ViewedDay    string          `json:"viewed_day"`
	Panel        PanelState      `json:"panel"`
	SelectedSeat string          `json:"selected_seat,omitempty"`
	PendingDay   string          `json:"pending_day,omitempty"`
	Rows         [][]domain.Seat `json:"rows"`
}

// New starts a session viewing the given day. The remembrance list is read
// once here; afterwards the in-memory copy is the source of truth and is
// written through on every successful mutation.
func New(
	ctx context.Context,
	inv domain.Inventory,
	store Store,
	rem Remembrance,
	notifier notify.Notifier,
	day string,
) (*Session, error) {
	const op = "session.New"

	if _, err := domain.ParseDay(day); err != nil {
		return nil, fmt.Errorf("%s:%w", op, ErrBadDay)
	}

	records, err := rem.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	s := &Session{
		inv:      inv,
		store:    store,
		rem:      rem,
		notifier: notifier,
		state:    StateClosed,
		records:  records,
	}

	if err := s.ViewDay(ctx, day); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return s, nil
}

// ViewDay switches the viewed day. The panel always closes: "selected" is
// defined relative to the viewed day's reservation list, so a selection does
// not survive a day change. The fetch runs outside the lock; if another
// ViewDay starts meanwhile, this fetch's result is discarded
// (last-requested-day-wins).
func (s *Session) ViewDay(ctx context.Context, day string) error {
	const op = "session.ViewDay"

	if _, err := domain.ParseDay(day); err != nil {
		return fmt.Errorf("%s:%w", op, ErrBadDay)
	}

	s.mu.Lock()
	s.state = StateClosed
	s.selectedSeat = ""
	s.pendingDay = ""
	s.viewedDay = day
	s.reservations = nil
	s.fetchSeq++
	seq := s.fetchSeq
	s.mu.Unlock()

	list, err := s.store.ListDay(ctx, day)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.fetchSeq {
		// superseded by a newer day change
		return nil
	}

	if err != nil {
		s.notifier.Error(ctx, "Could not load reservations", "Reservations for "+day+" are unavailable right now. Please try again.")
		return fmt.Errorf("%s:%w", op, err)
	}

	s.reservations = list

	if s.pendingOpen != "" {
		s.selectedSeat = s.pendingOpen
		s.state = StateViewing
		s.pendingOpen = ""
	}

	return nil
}

// ClickSeat feeds a seat click into the state machine. Clicking a seat
// reserved by someone else (or the screen seat) does nothing; clicking the
// already selected seat toggles the panel closed; a seat of mine opens the
// viewing panel; a free seat opens the booking panel with no day picked yet.
func (s *Session) ClickSeat(seatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.inv.Contains(seatID) {
		return ErrUnknownSeat
	}

	if seatID == s.selectedSeat {
		s.closeLocked()
		return nil
	}

	statuses := s.projectLocked()
	switch statuses[seatID] {
	case domain.SeatUnavailable:
		return nil
	case domain.SeatMine:
		s.selectedSeat = seatID
		s.pendingDay = ""
		s.state = StateViewing
	default:
		s.selectedSeat = seatID
		s.pendingDay = ""
		s.state = StateBooking
	}

	return nil
}

// PickDay records the pending day chosen in the booking or rescheduling
// panel.
func (s *Session) PickDay(day string) error {
	const op = "session.PickDay"

	if _, err := domain.ParseDay(day); err != nil {
		return fmt.Errorf("%s:%w", op, ErrBadDay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateBooking && s.state != StateRescheduling {
		return fmt.Errorf("%s:%w", op, ErrInvalidState)
	}

	s.pendingDay = day

	return nil
}

// BeginReschedule moves the viewing panel into date-picking mode.
func (s *Session) BeginReschedule() error {
	const op = "session.BeginReschedule"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateViewing {
		return fmt.Errorf("%s:%w", op, ErrInvalidState)
	}

	s.state = StateRescheduling
	s.pendingDay = ""

	return nil
}

// Back returns from date-picking to the viewing panel.
func (s *Session) Back() error {
	const op = "session.Back"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRescheduling {
		return fmt.Errorf("%s:%w", op, ErrInvalidState)
	}

	s.state = StateViewing
	s.pendingDay = ""

	return nil
}

// Close dismisses the panel from any state.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

// Confirm books the selected seat for the pending day. Only valid in the
// booking panel. With no seat or no day picked it notifies and stays put.
// On store failure nothing local changes and the panel stays open so the
// user can retry.
func (s *Session) Confirm(ctx context.Context) error {
	const op = "session.Confirm"

	s.mu.Lock()

	if s.state != StateBooking {
		s.mu.Unlock()
		return fmt.Errorf("%s:%w", op, ErrInvalidState)
	}

	if s.selectedSeat == "" || s.pendingDay == "" {
		s.notifier.Error(ctx, "Reservation incomplete", "Pick a seat and a date before confirming.")
		s.mu.Unlock()
		return fmt.Errorf("%s:%w", op, ErrIncompleteInput)
	}

	if s.busy {
		s.mu.Unlock()
		return fmt.Errorf("%s:%w", op, ErrMutationInFlight)
	}

	s.busy = true
	seat, day := s.selectedSeat, s.pendingDay
	s.mu.Unlock()

	res, err := s.store.Create(ctx, seat, day)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false

	if err != nil {
		s.notifier.Error(ctx, "Reservation failed", "Could not reserve seat "+seat+". Please try again.")
		return fmt.Errorf("%s:%w", op, err)
	}

	s.records = append(s.records, domain.LocalReservationRecord{
		ID:     res.ID,
		SeatID: res.SeatID,
		Day:    res.Day,
	})
	_ = s.rem.Save(ctx, s.records)

	if res.Day == s.viewedDay {
		s.reservations = append(s.reservations, res)
	}

	s.closeLocked()
	s.notifier.Info(ctx, "Reservation confirmed", "Seat "+seat+" is yours for "+day+".")

	return nil
}

// Reschedule moves the selected seat's reservation to the pending day. Only
// valid in the rescheduling panel. When no local record matches the seat and
// the viewed day, the store is not called and the panel closes silently.
func (s *Session) Reschedule(ctx context.Context) error {
	const op = "session.Reschedule"

	s.mu.Lock()

	if s.state != StateRescheduling {
		s.mu.Unlock()
		return fmt.Errorf("%s:%w", op, ErrInvalidState)
	}

	if s.pendingDay == "" {
		s.notifier.Error(ctx, "Reschedule incomplete", "Pick a new date before confirming.")
		s.mu.Unlock()
		return fmt.Errorf("%s:%w", op, ErrIncompleteInput)
	}

	if s.busy {
		s.mu.Unlock()
		return fmt.Errorf("%s:%w", op, ErrMutationInFlight)
	}

	rec, ok := s.recordForLocked(s.selectedSeat, s.viewedDay)
	if !ok {
		s.closeLocked()
		s.mu.Unlock()
		return nil
	}

	s.busy = true
	seat, newDay := s.selectedSeat, s.pendingDay
	s.mu.Unlock()

	err := s.store.Reschedule(ctx, rec.ID, newDay)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false

	if err != nil {
		s.notifier.Error(ctx, "Reschedule failed", "Could not move seat "+seat+". Please try again.")
		return fmt.Errorf("%s:%w", op, err)
	}

	for i := range s.records {
		if s.records[i].ID == rec.ID {
			s.records[i].Day = newDay
			break
		}
	}
	_ = s.rem.Save(ctx, s.records)

	s.dropReservationLocked(seat)
	if newDay == s.viewedDay {
		s.reservations = append(s.reservations, domain.Reservation{ID: rec.ID, SeatID: seat, Day: newDay})
	}

	s.closeLocked()
	s.notifier.Info(ctx, "Reservation moved", "Seat "+seat+" is now reserved for "+newDay+".")

	return nil
}

// Cancel deletes the selected seat's reservation. Only valid in the viewing
// panel. When no local record matches the seat and the viewed day, the
// store is not called and the panel closes silently.
func (s *Session) Cancel(ctx context.Context) error {
	const op = "session.Cancel"

	s.mu.Lock()

	if s.state != StateViewing {
		s.mu.Unlock()
		return fmt.Errorf("%s:%w", op, ErrInvalidState)
	}

	if s.busy {
		s.mu.Unlock()
		return fmt.Errorf("%s:%w", op, ErrMutationInFlight)
	}

	rec, ok := s.recordForLocked(s.selectedSeat, s.viewedDay)
	if !ok {
		s.closeLocked()
		s.mu.Unlock()
		return nil
	}

	s.busy = true
	seat, day := s.selectedSeat, s.viewedDay
	s.mu.Unlock()

	err := s.store.Cancel(ctx, rec.ID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false

	if err != nil {
		s.notifier.Error(ctx, "Cancellation failed", "Could not cancel seat "+seat+". Please try again.")
		return fmt.Errorf("%s:%w", op, err)
	}

	kept := s.records[:0]
	for _, r := range s.records {
		if r.ID != rec.ID {
			kept = append(kept, r)
		}
	}
	s.records = kept
	_ = s.rem.Save(ctx, s.records)

	s.dropReservationLocked(seat)

	s.closeLocked()
	s.notifier.Info(ctx, "Reservation cancelled", "Seat "+seat+" is free again for "+day+".")

	return nil
}

// OpenMyReservation jumps to one of the client's remembered reservations.
// When its day differs from the viewed day, the day changes first (with its
// refetch) and the viewing panel opens only once that fetch settles; the
// target seat is carried as a pending intent because the new day's list is
// not known until fetched.
func (s *Session) OpenMyReservation(ctx context.Context, seatID string) error {
	const op = "session.OpenMyReservation"

	s.mu.Lock()

	var rec domain.LocalReservationRecord
	found := false
	for _, r := range s.records {
		if r.SeatID == seatID {
			rec = r
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return nil
	}

	if rec.Day == s.viewedDay {
		s.selectedSeat = seatID
		s.pendingDay = ""
		s.state = StateViewing
		s.mu.Unlock()
		return nil
	}

	s.pendingOpen = seatID
	s.mu.Unlock()

	if err := s.ViewDay(ctx, rec.Day); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

// Snapshot renders the current session state, re-deriving every seat status
// through the projection.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return View{
		ViewedDay:    s.viewedDay,
		Panel:        s.state,
		SelectedSeat: s.selectedSeat,
		PendingDay:   s.pendingDay,
		Rows:         s.inv.Layout(s.projectLocked()),
	}
}

// Records returns a copy of the remembered reservation list.
func (s *Session) Records() []domain.LocalReservationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.LocalReservationRecord, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Session) projectLocked() map[string]domain.SeatStatus {
	return domain.Project(s.inv, s.reservations, s.records, s.viewedDay, s.selectedSeat)
}

func (s *Session) closeLocked() {
	s.state = StateClosed
	s.selectedSeat = ""
	s.pendingDay = ""
}

func (s *Session) recordForLocked(seatID, day string) (domain.LocalReservationRecord, bool) {
	for _, r := range s.records {
		if r.SeatID == seatID && r.Day == day {
			return r, true
		}
	}
	return domain.LocalReservationRecord{}, false
}

func (s *Session) dropReservationLocked(seatID string) {
	kept := s.reservations[:0]
	for _, r := range s.reservations {
		if r.SeatID != seatID {
			kept = append(kept, r)
		}
	}
	s.reservations = kept
}
