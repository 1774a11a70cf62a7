package subscription

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-dashboard/internal/models"
)

type subscriber interface {
	Subscribe(ctx context.Context, data models.UserSubData)
}

type Handler struct {
	Service subscriber
	logger  zerolog.Logger
}

func NewHandler(svc subscriber, logger zerolog.Logger) *Handler {
	logger = logger.With().Str("component", "SubscriptionHandler").Logger()
	return &Handler{Service: svc, logger: logger}
}

// Subscribe
// @Summary Subscribe to weather updates
// @Description Subscribe an email to scheduled weather digests for a city. A welcome email is sent in the background.
// @Tags subscription
// @Accept json
// @Accept application/x-www-form-urlencoded
// @Produce json
// @Param request body models.UserSubData true "Subscriber"
// @Success 200
// @Failure 400
// @Router /subscribe [post]
func (h *Handler) Subscribe(c *gin.Context) {
	var userData models.UserSubData
	if err := c.ShouldBind(&userData); err != nil {
		h.logger.Debug().Err(err).Msg("failed to bind user data")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and city required"})
		return
	}

	h.Service.Subscribe(c.Request.Context(), userData)

	c.JSON(http.StatusOK, gin.H{"message": "Subscribed successfully"})
}
