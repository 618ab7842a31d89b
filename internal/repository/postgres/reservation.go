package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brunorochagarcia/reservademesa/internal/domain"
	"github.com/brunorochagarcia/reservademesa/internal/repository"
)

type ReservationRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *ReservationRepo) With(db DB) *ReservationRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *ReservationRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// ListByDay returns all active reservations for one calendar day, in seat
// order.
//
// Returns:
//   - []domain.Reservation: the reservations for the day; empty when none.
func (r *ReservationRepo) ListByDay(ctx context.Context, day string) ([]domain.Reservation, error) {
	const op = "postgres.ReservationRepo.ListByDay"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, seat_id, day
       	 FROM reservations
      	 WHERE day = $1
      	 ORDER BY seat_id`,
		day,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(&res.ID, &res.SeatID, &res.Day); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}

		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// Create inserts a reservation.
//
// Returns:
//   - error: repository.ErrConflict when (seat, day) is already reserved.
func (r *ReservationRepo) Create(ctx context.Context, res domain.Reservation) error {
	const op = "postgres.ReservationRepo.Create"

	db := r.handle()

	if _, err := db.Exec(ctx,
		`INSERT INTO reservations(id, seat_id, day)
       	 VALUES ($1, $2, $3)`,
		res.ID, res.SeatID, res.Day,
	); err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return nil
}

// GetDay returns the day a reservation currently sits on.
//
// Returns:
//   - error: repository.ErrNotFound when the id is unknown.
func (r *ReservationRepo) GetDay(ctx context.Context, id string) (string, error) {
	const op = "postgres.ReservationRepo.GetDay"

	db := r.handle()

	var day string
	if err := db.QueryRow(ctx,
		`SELECT day FROM reservations WHERE id = $1`,
		id,
	).Scan(&day); err != nil {
		return "", fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return day, nil
}

// UpdateDay moves a reservation to a new day.
//
// Returns:
//   - error: repository.ErrNotFound when the id is unknown.
//   - error: repository.ErrConflict when (seat, new day) is already reserved.
func (r *ReservationRepo) UpdateDay(ctx context.Context, id, newDay string) error {
	const op = "postgres.ReservationRepo.UpdateDay"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE reservations SET day = $2 WHERE id = $1`,
		id, newDay,
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}

// Delete removes a reservation and reports the day it was on.
//
// Returns:
//   - error: repository.ErrNotFound when the id is unknown.
func (r *ReservationRepo) Delete(ctx context.Context, id string) (string, error) {
	const op = "postgres.ReservationRepo.Delete"

	db := r.handle()

	var day string
	if err := db.QueryRow(ctx,
		`DELETE FROM reservations WHERE id = $1 RETURNING day`,
		id,
	).Scan(&day); err != nil {
		return "", fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return day, nil
}
