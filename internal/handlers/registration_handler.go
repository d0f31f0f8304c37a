package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsvasan/health-registration-api/internal/export"
	"github.com/jsvasan/health-registration-api/internal/models"
)

type registrationPayload struct {
	PersonalInfo models.PersonalInfo `json:"personalInfo" binding:"required"`
	Buddies      []models.Buddy      `json:"buddies"`
	NextOfKin    []models.NextOfKin  `json:"nextOfKin"`
}

func (p *registrationPayload) toModel() *models.Registration {
	return &models.Registration{
		PersonalInfo: p.PersonalInfo,
		Buddies:      p.Buddies,
		NextOfKin:    p.NextOfKin,
	}
}

type submitResponse struct {
	models.Registration
	WasUpdate bool `json:"wasUpdate"`
}

// SubmitRegistration handles POST /registrations: upsert keyed by the
// registrant's phone number.
func (h *Handler) SubmitRegistration(c *gin.Context) {
	var payload registrationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	reg, wasUpdate, err := h.Registrations.Submit(c.Request.Context(), payload.toModel())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, submitResponse{Registration: *reg, WasUpdate: wasUpdate})
}

// GetRegistrations handles GET /registrations.
func (h *Handler) GetRegistrations(c *gin.Context) {
	regs, err := h.Registrations.GetAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, regs)
}

// GetRegistration handles GET /registrations/:id.
func (h *Handler) GetRegistration(c *gin.Context) {
	reg, err := h.Registrations.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reg)
}

type updateRegistrationPayload struct {
	Password     string              `json:"password"`
	PersonalInfo models.PersonalInfo `json:"personalInfo" binding:"required"`
	Buddies      []models.Buddy      `json:"buddies"`
	NextOfKin    []models.NextOfKin  `json:"nextOfKin"`
}

// UpdateRegistration handles PUT /registrations/:id (admin password in
// body).
func (h *Handler) UpdateRegistration(c *gin.Context) {
	var payload updateRegistrationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	reg := &models.Registration{
		PersonalInfo: payload.PersonalInfo,
		Buddies:      payload.Buddies,
		NextOfKin:    payload.NextOfKin,
	}
	updated, err := h.Registrations.UpdateByID(c.Request.Context(), c.Param("id"), payload.Password, reg)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

type deleteRegistrationPayload struct {
	Password string `json:"password"`
}

// DeleteRegistration handles DELETE /registrations/:id (admin password in
// body).
func (h *Handler) DeleteRegistration(c *gin.Context) {
	var payload deleteRegistrationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	id := c.Param("id")
	if err := h.Registrations.DeleteByID(c.Request.Context(), id, payload.Password); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Registration deleted successfully", "deleted_id": id})
}

// ExportRegistrations handles GET /registrations/export (Bearer token):
// streams an xlsx workbook of every stored registration.
func (h *Handler) ExportRegistrations(c *gin.Context) {
	regs, err := h.Registrations.GetAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	content, err := export.Registrations(regs, time.Now())
	if err != nil {
		h.fail(c, err)
		return
	}

	filename := export.Filename()
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}
