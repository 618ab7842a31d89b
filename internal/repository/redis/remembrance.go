package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/brunorochagarcia/reservademesa/internal/domain"
)

// RemembranceStore is the client-durable "my reservations" storage: a JSON
// array of local records per client id. A session reads it once at startup
// and writes the whole list back after every successful mutation; it is
// never authoritative over the reservation store.
type RemembranceStore struct {
	rdb *redis.Client
}

func NewRemembranceStore(rdb *redis.Client) *RemembranceStore {
	return &RemembranceStore{rdb: rdb}
}

func (s *RemembranceStore) Load(ctx context.Context, clientID string) ([]domain.LocalReservationRecord, error) {
	const op = "redis.RemembranceStore.Load"

	v, err := s.rdb.Get(ctx, KeyRemembrance(clientID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	var out []domain.LocalReservationRecord
	if err := json.Unmarshal([]byte(v), &out); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

func (s *RemembranceStore) Save(ctx context.Context, clientID string, records []domain.LocalReservationRecord) error {
	const op = "redis.RemembranceStore.Save"

	if records == nil {
		records = []domain.LocalReservationRecord{}
	}

	b, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	// no TTL: remembrance survives until the client clears it
	if err := s.rdb.Set(ctx, KeyRemembrance(clientID), b, 0).Err(); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}
