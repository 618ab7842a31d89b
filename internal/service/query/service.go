package query

import (
	"context"
	"fmt"
	"time"

	"github.com/brunorochagarcia/reservademesa/internal/domain"
	postgresrepo "github.com/brunorochagarcia/reservademesa/internal/repository/postgres"
	redisrepo "github.com/brunorochagarcia/reservademesa/internal/repository/redis"
)

type Config struct {
	DayListTTL time.Duration
}

// Service is the read side: per-day reservation lists behind a short-lived
// cache, and the anonymous seat map derived from them.
type Service struct {
	store *postgresrepo.Store
	cache *redisrepo.Cache
	inv   domain.Inventory
	cfg   Config
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, inv domain.Inventory, cfg Config) *Service {
	if cfg.DayListTTL <= 0 {
		cfg.DayListTTL = 15 * time.Second
	}

	return &Service{
		store: store,
		cache: cache,
		inv:   inv,
		cfg:   cfg,
	}
}

// ReservationsForDay lists all active reservations for a day, through the
// cache. Mutations invalidate the cached day after commit, so a stale entry
// lives at most DayListTTL.
func (s *Service) ReservationsForDay(ctx context.Context, day string) ([]domain.Reservation, error) {
	const op = "service.query.ReservationsForDay"

	if _, err := domain.ParseDay(day); err != nil {
		return nil, fmt.Errorf("%s:%w", op, ErrBadDay)
	}

	key := redisrepo.KeyDayReservations(day)

	list, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		key,
		s.cfg.DayListTTL,
		func(ctx context.Context) ([]domain.Reservation, error) {
			return s.store.Reservations().ListByDay(ctx, day)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return list, nil
}

// SeatMapForDay projects the anonymous seat map for a day: no local records
// and no selection, so every reserved seat shows unavailable.
func (s *Service) SeatMapForDay(ctx context.Context, day string) ([][]domain.Seat, error) {
	const op = "service.query.SeatMapForDay"

	list, err := s.ReservationsForDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	statuses := domain.Project(s.inv, list, nil, day, "")

	return s.inv.Layout(statuses), nil
}
