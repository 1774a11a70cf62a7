package weather

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-dashboard/internal/models"
)

type favoritesService interface {
	List(ctx context.Context) []models.WeatherSnapshot
	Add(ctx context.Context, city string) models.WeatherSnapshot
	Remove(ctx context.Context, city string)
}

type Handler struct {
	Service favoritesService
	logger  zerolog.Logger
}

func NewHandler(svc favoritesService, logger zerolog.Logger) *Handler {
	logger = logger.With().Str("component", "WeatherHandler").Logger()
	return &Handler{Service: svc, logger: logger}
}

// GetWeather
// @Summary Weather for all favorite cities
// @Description Returns the current weather for every favorite city, in the order they were added.
// @Tags weather
// @Produce json
// @Success 200 {array} models.WeatherSnapshot
// @Router /weather [get]
func (h *Handler) GetWeather(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.List(c.Request.Context()))
}

// AddCity
// @Summary Add a favorite city
// @Description Resolves the city through the weather provider and stores the resolved name.
// @Tags weather
// @Accept json
// @Accept application/x-www-form-urlencoded
// @Produce json
// @Param request body models.CityRequest true "City to add"
// @Success 200 {object} models.WeatherSnapshot
// @Failure 400
// @Router /weather [post]
func (h *Handler) AddCity(c *gin.Context) {
	var req models.CityRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Debug().Err(err).Msg("failed to bind city")
		c.JSON(http.StatusBadRequest, gin.H{"error": "City required"})
		return
	}

	c.JSON(http.StatusOK, h.Service.Add(c.Request.Context(), req.City))
}

// DeleteCity
// @Summary Remove a favorite city
// @Description Removes the exact city name from favorites. Removing an unknown city succeeds.
// @Tags weather
// @Produce json
// @Param city path string true "City name"
// @Success 200
// @Router /weather/{city} [delete]
func (h *Handler) DeleteCity(c *gin.Context) {
	h.Service.Remove(c.Request.Context(), c.Param("city"))
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}
