package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/brunorochagarcia/reservademesa/internal/config"
	"github.com/brunorochagarcia/reservademesa/internal/domain"
	"github.com/brunorochagarcia/reservademesa/internal/notify"
	"github.com/brunorochagarcia/reservademesa/internal/postgres"
	"github.com/brunorochagarcia/reservademesa/internal/redis"
	postgresrepo "github.com/brunorochagarcia/reservademesa/internal/repository/postgres"
	redisrepo "github.com/brunorochagarcia/reservademesa/internal/repository/redis"
	"github.com/brunorochagarcia/reservademesa/internal/service"
	"github.com/brunorochagarcia/reservademesa/internal/session"
	httpgin "github.com/brunorochagarcia/reservademesa/internal/transport/http/gin"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	sessions   *session.Manager
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.Name,
		cfg.Postgres.SSLMode,
	)

	pgxPool, err := postgres.New(context.Background(), postgres.Config{DSN: dsn})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	rdb, err := redis.New(context.Background(), redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	store := postgresrepo.NewStore(pgxPool)
	if err := store.EnsureSchema(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	cache := redisrepo.New(rdb)
	pubsub := redisrepo.NewDaysPubSub(rdb)
	limiter := redisrepo.NewSlidingWindowLimiter(rdb, "create", 10, 1*time.Minute)
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, 2*time.Hour)
	remembrance := redisrepo.NewRemembranceStore(rdb)

	inv := domain.DefaultInventory()

	services := service.NewServices(store, cache, pubsub, limiter, inv, service.Config{})

	factory := sessionFactory(services, remembrance, inv, logger)
	sessions := session.NewManager(factory, cfg.Session.IdleTTL)

	router := httpgin.NewRouter(services, sessions, pubsub, idempotencyStore, logger)

	return &App{
		cfg:      cfg,
		logger:   logger,
		sessions: sessions,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := a.sessions.Run(gCtx); err != nil && err != context.Canceled {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}

// sessionFactory binds a new session to its client: the remembrance key, the
// rate-limit key and a notifier that both logs and buffers notices for the
// next HTTP response. New sessions start on today's date.
func sessionFactory(
	svcs *service.Services,
	remembrance *redisrepo.RemembranceStore,
	inv domain.Inventory,
	logger *slog.Logger,
) session.Factory {
	return func(ctx context.Context, clientID string) (*session.Session, *notify.Buffer, error) {
		buf := notify.NewBuffer()
		notifier := notify.Multi{notify.NewLog(logger.With("client_id", clientID)), buf}

		s, err := session.New(
			ctx,
			inv,
			&sessionStore{svcs: svcs, rlKey: "client:" + clientID},
			&boundRemembrance{store: remembrance, clientID: clientID},
			notifier,
			time.Now().Format(domain.DayLayout),
		)
		if err != nil {
			return nil, nil, err
		}

		return s, buf, nil
	}
}

// sessionStore adapts the services to the session's narrow store contract.
type sessionStore struct {
	svcs  *service.Services
	rlKey string
}

func (s *sessionStore) ListDay(ctx context.Context, day string) ([]domain.Reservation, error) {
	return s.svcs.Query.ReservationsForDay(ctx, day)
}

func (s *sessionStore) Create(ctx context.Context, seatID, day string) (domain.Reservation, error) {
	return s.svcs.Reservation.Create(ctx, seatID, day, s.rlKey)
}

func (s *sessionStore) Reschedule(ctx context.Context, id, newDay string) error {
	return s.svcs.Reservation.Reschedule(ctx, id, newDay)
}

func (s *sessionStore) Cancel(ctx context.Context, id string) error {
	return s.svcs.Reservation.Cancel(ctx, id)
}

// boundRemembrance fixes the remembrance store to one client's key.
type boundRemembrance struct {
	store    *redisrepo.RemembranceStore
	clientID string
}

func (b *boundRemembrance) Load(ctx context.Context) ([]domain.LocalReservationRecord, error) {
	return b.store.Load(ctx, b.clientID)
}

func (b *boundRemembrance) Save(ctx context.Context, records []domain.LocalReservationRecord) error {
	return b.store.Save(ctx, b.clientID, records)
}
