package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	redisrepo "github.com/brunorochagarcia/reservademesa/internal/repository/redis"
	"github.com/brunorochagarcia/reservademesa/internal/service"
	"github.com/brunorochagarcia/reservademesa/internal/service/query"
	"github.com/brunorochagarcia/reservademesa/internal/service/reservation"
	"github.com/brunorochagarcia/reservademesa/internal/session"
)

func NewRouter(
	svcs *service.Services,
	sessions *session.Manager,
	pubsub *redisrepo.DaysPubSub,
	idem *redisrepo.IdempotencyStore,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public day views
	r.GET("/days/:date/seats", handleDaySeats(svcs))
	r.GET("/days/:date/reservations", handleDayReservations(svcs))
	r.GET("/days/:date/stream", handleDayStream(pubsub))

	// Raw reservation store API
	r.POST("/reservations", handleCreateReservation(svcs, idem))
	r.PATCH("/reservations/:id", handleRescheduleReservation(svcs))
	r.DELETE("/reservations/:id", handleCancelReservation(svcs))

	// Session (UI flow) API, keyed by X-Client-ID
	s := r.Group("/session")
	{
		s.GET("", handleSessionView(sessions))
		s.PUT("/day", handleSessionViewDay(sessions))
		s.POST("/seats/:id/click", handleSessionClick(sessions))
		s.PUT("/pick-day", handleSessionPickDay(sessions))
		s.POST("/reschedule", handleSessionBeginReschedule(sessions))
		s.POST("/back", handleSessionBack(sessions))
		s.POST("/close", handleSessionClose(sessions))
		s.POST("/confirm", handleSessionConfirm(sessions))
		s.POST("/reschedule/confirm", handleSessionReschedule(sessions))
		s.POST("/cancel", handleSessionCancel(sessions))
		s.POST("/goto", handleSessionGoto(sessions))
	}

	return r
}

// --- Public day views ---

// @Summary  Seat map for a day
// @Param    date  path  string  true  "Day (YYYY-MM-DD)"
// @Success  200  {object}  DaySeatsResponse
// @Failure  400  {object}  ErrorResponse
// @Router   /days/{date}/seats [get]
func handleDaySeats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		day := c.Param("date")
		rows, err := svcs.Query.SeatMapForDay(c.Request.Context(), day)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, DaySeatsResponse{Day: day, Rows: rows}, "public, max-age=15", true)
	}
}

// @Summary  Reservations for a day
// @Param    date  path  string  true  "Day (YYYY-MM-DD)"
// @Success  200  {array}  ReservationResponse
// @Failure  400  {object}  ErrorResponse
// @Router   /days/{date}/reservations [get]
func handleDayReservations(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svcs.Query.ReservationsForDay(c.Request.Context(), c.Param("date"))
		if err != nil {
			respondErr(c, err)
			return
		}
		out := make([]ReservationResponse, 0, len(list))
		for _, res := range list {
			out = append(out, ReservationResponse(res))
		}
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=15", true)
	}
}

// --- Raw reservation store API ---

// @Summary  Create reservation (idempotent)
// @Param    req  body  CreateReservationRequest  true  "payload"
// @Header   201  {string}  Idempotency-Key  "echo"
// @Success  201  {object}  ReservationResponse
// @Failure  400  {object}  ErrorResponse
// @Failure  409  {object}  ErrorResponse  "seat already reserved"
// @Failure  429  {object}  ErrorResponse  "rate limited"
// @Router   /reservations [post]
func handleCreateReservation(svcs *service.Services, idem *redisrepo.IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateReservationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemConfirm(clientID(c), idemKey)

			if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
				return
			}

			locked, err := idem.AcquireLock(c.Request.Context(), idemStorageKey, 60*time.Second)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(http.StatusConflict, ErrorResponse{Error: "idempotency key in progress"})
				return
			}
		}

		res, err := svcs.Reservation.Create(c.Request.Context(), req.SeatID, req.Day, "ip:"+c.ClientIP())
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			respondErr(c, err)
			return
		}

		resp := ReservationResponse(res)

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(resp)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, resp)
	}
}

// @Summary  Move a reservation to a new day
// @Param    id   path  string                        true  "Reservation ID (uuid)"
// @Param    req  body  RescheduleReservationRequest  true  "payload"
// @Success  204
// @Failure  404  {object}  ErrorResponse
// @Failure  409  {object}  ErrorResponse
// @Router   /reservations/{id} [patch]
func handleRescheduleReservation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RescheduleReservationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if err := svcs.Reservation.Reschedule(c.Request.Context(), c.Param("id"), req.Day); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Cancel a reservation
// @Param    id  path  string  true  "Reservation ID (uuid)"
// @Success  204
// @Failure  404  {object}  ErrorResponse
// @Router   /reservations/{id} [delete]
func handleCancelReservation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svcs.Reservation.Cancel(c.Request.Context(), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// --- Session (UI flow) API ---

// @Summary  Current session view
// @Param    X-Client-ID  header  string  true  "Client id"
// @Success  200  {object}  SessionResponse
// @Router   /session [get]
func handleSessionView(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		withSession(c, sessions, func(s *session.Session) error { return nil })
	}
}

// @Summary  Switch the viewed day (closes any open panel)
// @Param    req  body  ViewDayRequest  true  "payload"
// @Success  200  {object}  SessionResponse
// @Router   /session/day [put]
func handleSessionViewDay(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ViewDayRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		withSession(c, sessions, func(s *session.Session) error {
			return s.ViewDay(c.Request.Context(), req.Day)
		})
	}
}

// @Summary  Click a seat
// @Param    id  path  string  true  "Seat id"
// @Success  200  {object}  SessionResponse
// @Router   /session/seats/{id}/click [post]
func handleSessionClick(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		withSession(c, sessions, func(s *session.Session) error {
			return s.ClickSeat(c.Param("id"))
		})
	}
}

// @Summary  Pick the pending day in the open panel
// @Param    req  body  PickDayRequest  true  "payload"
// @Success  200  {object}  SessionResponse
// @Router   /session/pick-day [put]
func handleSessionPickDay(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PickDayRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		withSession(c, sessions, func(s *session.Session) error {
			return s.PickDay(req.Day)
		})
	}
}

// @Summary  Start rescheduling the viewed reservation
// @Success  200  {object}  SessionResponse
// @Router   /session/reschedule [post]
func handleSessionBeginReschedule(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		withSession(c, sessions, func(s *session.Session) error {
			return s.BeginReschedule()
		})
	}
}

// @Summary  Back from rescheduling to viewing
// @Success  200  {object}  SessionResponse
// @Router   /session/back [post]
func handleSessionBack(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		withSession(c, sessions, func(s *session.Session) error {
			return s.Back()
		})
	}
}

// @Summary  Close the panel
// @Success  200  {object}  SessionResponse
// @Router   /session/close [post]
func handleSessionClose(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		withSession(c, sessions, func(s *session.Session) error {
			s.Close()
			return nil
		})
	}
}

// @Summary  Confirm the booking panel
// @Success  200  {object}  SessionResponse
// @Router   /session/confirm [post]
func handleSessionConfirm(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		withSession(c, sessions, func(s *session.Session) error {
			return s.Confirm(c.Request.Context())
		})
	}
}

// @Summary  Confirm the reschedule panel
// @Success  200  {object}  SessionResponse
// @Router   /session/reschedule/confirm [post]
func handleSessionReschedule(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		withSession(c, sessions, func(s *session.Session) error {
			return s.Reschedule(c.Request.Context())
		})
	}
}

// @Summary  Cancel the viewed reservation
// @Success  200  {object}  SessionResponse
// @Router   /session/cancel [post]
func handleSessionCancel(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		withSession(c, sessions, func(s *session.Session) error {
			return s.Cancel(c.Request.Context())
		})
	}
}

// @Summary  Jump to one of my reservations
// @Param    req  body  GotoReservationRequest  true  "payload"
// @Success  200  {object}  SessionResponse
// @Router   /session/goto [post]
func handleSessionGoto(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GotoReservationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		withSession(c, sessions, func(s *session.Session) error {
			return s.OpenMyReservation(c.Request.Context(), req.SeatID)
		})
	}
}

// --- Helpers ---

func clientID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader("X-Client-ID")); id != "" {
		return id
	}
	return ""
}

// withSession runs one state-machine event and always answers with the
// re-projected view plus any notices the event produced, so the error path
// carries its toast too.
func withSession(c *gin.Context, sessions *session.Manager, fn func(s *session.Session) error) {
	id := clientID(c)
	if id == "" {
		badRequest(c, "missing X-Client-ID header")
		return
	}

	s, notices, err := sessions.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}

	status := http.StatusOK
	if err := fn(s); err != nil {
		status = statusFor(err)
	}

	c.JSON(status, SessionResponse{
		View:    s.Snapshot(),
		Records: s.Records(),
		Notices: notices.Drain(),
	})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func isRateLimitedErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "rate limited")
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, reservation.ErrUnknownSeat),
		errors.Is(err, reservation.ErrSeatNotBookable),
		errors.Is(err, reservation.ErrBadDay),
		errors.Is(err, query.ErrBadDay),
		errors.Is(err, session.ErrUnknownSeat),
		errors.Is(err, session.ErrBadDay),
		errors.Is(err, session.ErrIncompleteInput):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrInvalidState),
		errors.Is(err, session.ErrMutationInFlight),
		errors.Is(err, reservation.ErrSeatTaken):
		return http.StatusConflict
	case errors.Is(err, reservation.ErrReservationNotFound):
		return http.StatusNotFound
	case isRateLimitedErr(err):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	status := statusFor(err)
	if status == http.StatusTooManyRequests {
		c.Header("Retry-After", "60")
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}

	c.JSON(status, ErrorResponse{Error: msg})
}
