package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/gagyebu-app/gagyebu/internal/middleware"
	"github.com/gagyebu-app/gagyebu/internal/platform/stream"
	"github.com/gin-gonic/gin"
)

// ChangeSubscriber delivers collection-changed events for one user until the
// context is cancelled.
type ChangeSubscriber interface {
	Subscribe(ctx context.Context, userID string, handler func(stream.ChangeEvent)) error
}

// eventsHandler streams change events to the client over SSE so other open
// sessions of the same user can re-pull their data after a mutation.
type eventsHandler struct {
	subscriber ChangeSubscriber
}

// registerEventRoutes registers the live-sync event stream. A nil subscriber
// means no broker is configured and the route is simply absent.
func registerEventRoutes(rg *gin.RouterGroup, subscriber ChangeSubscriber) {
	if subscriber == nil {
		return
	}
	h := &eventsHandler{subscriber: subscriber}
	rg.GET("/events", h.streamEvents)
}

// streamEvents godoc
// @Summary Stream change notifications
// @Description Server-sent events; one "change" event per mutated collection set
// @Tags events
// @Produce  text/event-stream
// @Success 200 {string} string "SSE stream"
// @Security BearerAuth
// @Router /events [get]
func (h *eventsHandler) streamEvents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	events := make(chan stream.ChangeEvent, 8)
	go func() {
		err := h.subscriber.Subscribe(ctx, userID, func(event stream.ChangeEvent) {
			select {
			case events <- event:
			case <-ctx.Done():
			}
		})
		if err != nil && ctx.Err() == nil {
			logger.Warn("event subscription ended", slog.String("error", err.Error()))
		}
		cancel()
	}()

	c.Stream(func(w io.Writer) bool {
		select {
		case event := <-events:
			c.SSEvent("change", event)
			return true
		case <-ctx.Done():
			return false
		}
	})
}
