package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jsvasan/health-registration-api/internal/utils"
)

type registerAdminPayload struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterAdmin handles POST /admin/register. One-time: fails once an
// admin exists.
func (h *Handler) RegisterAdmin(c *gin.Context) {
	var payload registerAdminPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	admin, err := h.Admin.Register(c.Request.Context(), payload.Name, payload.Phone, payload.Email, payload.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	// PasswordHash carries json:"-" so the hash never leaves the server.
	c.JSON(http.StatusOK, admin)
}

// GetAdmin handles GET /admin. Returns null when no admin is registered.
func (h *Handler) GetAdmin(c *gin.Context) {
	admin, err := h.Admin.Get(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, admin)
}

type deleteAdminPayload struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// DeleteAdmin handles DELETE /admin/delete.
func (h *Handler) DeleteAdmin(c *gin.Context) {
	var payload deleteAdminPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.Admin.Delete(c.Request.Context(), payload.Email, payload.Password); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Admin deleted successfully"})
}

type verifyPasswordPayload struct {
	Password string `json:"password"`
}

// VerifyPassword handles POST /admin/verify-password. On success it also
// issues a short-lived session token for the export endpoint.
func (h *Handler) VerifyPassword(c *gin.Context) {
	var payload verifyPasswordPayload
	if err := c.ShouldBindJSON(&payload); err != nil || payload.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password is required"})
		return
	}

	admin, err := h.Admin.Authenticate(c.Request.Context(), payload.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := gin.H{"message": "Password verified", "verified": true}
	token, err := utils.GenerateAdminToken(h.JWTSecret, admin.ID.Hex())
	if err != nil {
		h.Logger.Warn("could not issue admin token", zap.Error(err))
	} else {
		resp["token"] = token
	}
	c.JSON(http.StatusOK, resp)
}

type additionalEmailsPayload struct {
	Password         string   `json:"password"`
	AdditionalEmails []string `json:"additional_emails"`
}

// SetAdditionalEmails handles PUT /admin/additional-emails.
func (h *Handler) SetAdditionalEmails(c *gin.Context) {
	var payload additionalEmailsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	admin, err := h.Admin.SetAdditionalEmails(c.Request.Context(), payload.Password, payload.AdditionalEmails)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":           "Additional emails updated successfully",
		"additional_emails": admin.AdditionalEmails,
	})
}
