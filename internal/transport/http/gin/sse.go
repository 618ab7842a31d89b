package httpgin

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brunorochagarcia/reservademesa/internal/domain"
	redisrepo "github.com/brunorochagarcia/reservademesa/internal/repository/redis"
)

// @Summary  Stream day-changed events
// @Param    date  path  string  true  "Day (YYYY-MM-DD)"
// @Success  200  {string}  string  "text/event-stream"
// @Router   /days/{date}/stream [get]
func handleDayStream(pubsub *redisrepo.DaysPubSub) gin.HandlerFunc {
	return func(c *gin.Context) {
		day := c.Param("date")
		if _, err := domain.ParseDay(day); err != nil {
			badRequest(c, "invalid date")
			return
		}

		flusher, ok := c.Writer.(http.Flusher)
		if !ok {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "streaming unsupported"})
			return
		}

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		flusher.Flush()

		// blocks until the client disconnects
		_ = pubsub.Subscribe(c.Request.Context(), func(_ context.Context, changed string) {
			if changed != day {
				return
			}
			fmt.Fprintf(c.Writer, "event: day_changed\ndata: %s\n\n", changed)
			flusher.Flush()
		})
	}
}
