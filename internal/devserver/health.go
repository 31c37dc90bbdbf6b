package devserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Version string `json:"version"`
}

// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  healthResponse
// @Router       /api/health [get]
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:  "healthy",
		Message: "CineAI dev API is running",
		Version: version,
	})
}

// Readiness only differs from liveness when accounts live in Mongo; the
// in-memory backend is always ready.
//
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  healthResponse
// @Failure      503  {object}  errorResponse
// @Router       /api/health/ready [get]
func (s *Server) handleReady(c echo.Context) error {
	if s.ping != nil {
		if err := s.ping(c.Request().Context()); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "storage unavailable")
		}
	}
	return c.JSON(http.StatusOK, healthResponse{
		Status:  "ready",
		Message: "application is ready to serve requests",
		Version: version,
	})
}
