package reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/brunorochagarcia/reservademesa/internal/domain"
	"github.com/brunorochagarcia/reservademesa/internal/repository"
	postgresrepo "github.com/brunorochagarcia/reservademesa/internal/repository/postgres"
	redisrepo "github.com/brunorochagarcia/reservademesa/internal/repository/redis"
	"github.com/brunorochagarcia/reservademesa/internal/uow"
)

type Config struct {
	// MaxTxAttempts bounds retries of a serializable transaction that fails
	// with a serialization error. This retries the store call, not the
	// operation: the caller still sees one create/update/delete.
	MaxTxAttempts int
}

// Service owns the three mutating operations against the reservation store.
// Every mutation runs in a serializable transaction; after commit it
// invalidates the day cache and broadcasts a day-changed event so open seat
// maps can refetch.
type Service struct {
	store   *postgresrepo.Store
	cache   *redisrepo.Cache
	pubsub  *redisrepo.DaysPubSub
	limiter *redisrepo.SlidingWindowLimiter
	uow     *uow.UoW
	inv     domain.Inventory
	cfg     Config
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisrepo.DaysPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	inv domain.Inventory,
	cfg Config,
) *Service {
	if cfg.MaxTxAttempts <= 0 {
		cfg.MaxTxAttempts = 3
	}

	return &Service{
		store:   store,
		cache:   cache,
		pubsub:  pubsub,
		limiter: limiter,
		uow:     uow.NewUoW(store),
		inv:     inv,
		cfg:     cfg,
	}
}

// Create books a seat for a day.
//
// Parameters:
//   - ctx: request-scoped context.
//   - seatID: seat to book, must exist in the inventory and not be the
//     screen seat.
//   - day: calendar day, YYYY-MM-DD.
//   - rlKey: rate-limit key for the caller; empty disables limiting.
//
// Returns:
//   - domain.Reservation: the created reservation with its assigned id.
//   - error: reservation.ErrSeatTaken if (seat, day) is already reserved.
func (s *Service) Create(ctx context.Context, seatID, day, rlKey string) (domain.Reservation, error) {
	const op = "service.reservation.Create"

	if err := s.validateSeatAndDay(seatID, day); err != nil {
		return domain.Reservation{}, fmt.Errorf("%s:%w", op, err)
	}

	if s.limiter != nil && rlKey != "" {
		ok, _, retry, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			return domain.Reservation{}, fmt.Errorf("%s:%w", op, err)
		}
		if !ok {
			return domain.Reservation{}, fmt.Errorf("%s: rate limited, retry in %s", op, retry)
		}
	}

	res := domain.Reservation{
		ID:     uuid.New().String(),
		SeatID: seatID,
		Day:    day,
	}

	err := s.doRetryable(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Reservations().With(tx).Create(ctx, res); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s:%w", op, ErrSeatTaken)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateDay(ctx, day)
			_ = s.pubsub.PublishDayChanged(ctx, day)
		})

		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}

	return res, nil
}

// Reschedule moves a reservation to a new day.
//
// Returns:
//   - error: reservation.ErrReservationNotFound if the id is unknown.
//   - error: reservation.ErrSeatTaken if the seat is already reserved on the
//     new day.
func (s *Service) Reschedule(ctx context.Context, id, newDay string) error {
	const op = "service.reservation.Reschedule"

	if _, err := domain.ParseDay(newDay); err != nil {
		return fmt.Errorf("%s:%w", op, ErrBadDay)
	}

	return s.doRetryable(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		repo := s.store.Reservations().With(tx)

		oldDay, err := repo.GetDay(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrReservationNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		if err := repo.UpdateDay(ctx, id, newDay); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s:%w", op, ErrSeatTaken)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateDay(ctx, oldDay)
			_ = s.cache.InvalidateDay(ctx, newDay)
			_ = s.pubsub.PublishDayChanged(ctx, oldDay)
			_ = s.pubsub.PublishDayChanged(ctx, newDay)
		})

		return nil
	})
}

// Cancel deletes a reservation.
//
// Returns:
//   - error: reservation.ErrReservationNotFound if the id is unknown.
func (s *Service) Cancel(ctx context.Context, id string) error {
	const op = "service.reservation.Cancel"

	return s.doRetryable(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		day, err := s.store.Reservations().With(tx).Delete(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrReservationNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateDay(ctx, day)
			_ = s.pubsub.PublishDayChanged(ctx, day)
		})

		return nil
	})
}

func (s *Service) validateSeatAndDay(seatID, day string) error {
	if !s.inv.Contains(seatID) {
		return ErrUnknownSeat
	}

	if seatID == s.inv.ScreenSeat {
		return ErrSeatNotBookable
	}

	if _, err := domain.ParseDay(day); err != nil {
		return ErrBadDay
	}

	return nil
}

func (s *Service) doRetryable(
	ctx context.Context,
	fn func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error,
) error {
	var err error
	for attempt := 0; attempt < s.cfg.MaxTxAttempts; attempt++ {
		err = s.uow.Do(ctx, fn)
		if err == nil || !postgresrepo.IsRetryable(err) {
			return err
		}
	}

	return err
}
