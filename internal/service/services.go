package service

import (
	"github.com/brunorochagarcia/reservademesa/internal/domain"
	postgres "github.com/brunorochagarcia/reservademesa/internal/repository/postgres"
	redis "github.com/brunorochagarcia/reservademesa/internal/repository/redis"
	"github.com/brunorochagarcia/reservademesa/internal/service/query"
	"github.com/brunorochagarcia/reservademesa/internal/service/reservation"
)

type Services struct {
	Reservation *reservation.Service
	Query       *query.Service
}

type Config struct {
	Reservation reservation.Config
	Query       query.Config
}

func NewServices(
	store *postgres.Store,
	cache *redis.Cache,
	pubsub *redis.DaysPubSub,
	limiter *redis.SlidingWindowLimiter,
	inv domain.Inventory,
	cfg Config,
) *Services {
	return &Services{
		Reservation: reservation.New(store, cache, pubsub, limiter, inv, cfg.Reservation),
		Query:       query.New(store, cache, inv, cfg.Query),
	}
}
