package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jsvasan/health-registration-api/internal/middleware"
)

// NewRouter wires all routes under /api with CORS configured for the
// given origin ("*" allows any).
func NewRouter(h *Handler, allowedOrigin string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	if allowedOrigin == "*" {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = []string{allowedOrigin}
	}
	r.Use(cors.New(corsConfig))

	api := r.Group("/api")
	{
		api.POST("/registrations", h.SubmitRegistration)
		api.GET("/registrations", h.GetRegistrations)
		api.GET("/registrations/export", middleware.AdminAuth(h.JWTSecret), h.ExportRegistrations)
		api.GET("/registrations/:id", h.GetRegistration)
		api.PUT("/registrations/:id", h.UpdateRegistration)
		api.DELETE("/registrations/:id", h.DeleteRegistration)

		api.POST("/admin/register", h.RegisterAdmin)
		api.GET("/admin", h.GetAdmin)
		api.DELETE("/admin/delete", h.DeleteAdmin)
		api.POST("/admin/verify-password", h.VerifyPassword)
		api.PUT("/admin/additional-emails", h.SetAdditionalEmails)
	}

	return r
}
