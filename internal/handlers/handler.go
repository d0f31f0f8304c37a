package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jsvasan/health-registration-api/internal/apperr"
	"github.com/jsvasan/health-registration-api/internal/services"
)

// Handler bundles the services the HTTP layer depends on. All route
// handlers are methods on this struct.
type Handler struct {
	Registrations *services.RegistrationService
	Admin         *services.AdminService
	JWTSecret     string
	Logger        *zap.Logger
}

func NewHandler(registrations *services.RegistrationService, admin *services.AdminService, jwtSecret string, logger *zap.Logger) *Handler {
	return &Handler{
		Registrations: registrations,
		Admin:         admin,
		JWTSecret:     jwtSecret,
		Logger:        logger,
	}
}

// fail maps an application error to its HTTP status with the response
// shape {"error": reason}. Unexpected errors become 500 and are logged
// with the request path for context.
func (h *Handler) fail(c *gin.Context, err error) {
	status := apperr.StatusOf(err)
	if status == 500 {
		h.Logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
