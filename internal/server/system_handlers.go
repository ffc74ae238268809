package server

import (
	"net/http"

	"github.com/batmanbrucewayne25/virtualnumbercc-sub002/internal/api"
	"github.com/batmanbrucewayne25/virtualnumbercc-sub002/internal/email"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} api.HealthResponse
// @Router       /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
}

// @Summary      Queue a test email
// @Tags         system
// @Produce      json
// @Param        email query string true "Recipient email"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /test-email [get]
func TestEmail(emailService *email.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		testEmail := c.Query("email")
		if testEmail == "" {
			api.Error(c, http.StatusBadRequest, "email parameter required")
			return
		}

		if err := emailService.Send(c.Request.Context(), "test", testEmail, "Test User", "Test Email from NumDesk", "Email is working!"); err != nil {
			api.Error(c, http.StatusInternalServerError, err.Error())
			return
		}

		api.Message(c, http.StatusOK, "Email queued successfully")
	}
}

// @Summary      Prometheus metrics
// @Description  Exposes Prometheus metrics in text format
// @Tags         system
// @Produce      text/plain
// @Success      200 {string} string
// @Router       /metrics [get]
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
