package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jsvasan/health-registration-api/internal/apperr"
	"github.com/jsvasan/health-registration-api/internal/models"
	"github.com/jsvasan/health-registration-api/internal/store"
	"github.com/jsvasan/health-registration-api/internal/utils"
)

const maxAdditionalEmails = 2

// AdminService owns the single-admin lifecycle: registration, password
// verification, deletion and the additional notification addresses.
type AdminService struct {
	admins   store.AdminStore
	notifier Notifier
	logger   *zap.Logger
}

func NewAdminService(admins store.AdminStore, notifier Notifier, logger *zap.Logger) *AdminService {
	return &AdminService{admins: admins, notifier: notifier, logger: logger}
}

// Register creates the sole admin. Fails with a conflict once one exists.
// The plaintext password is hashed before storage and sent back to the
// admin's own address in a one-time confirmation email.
func (s *AdminService) Register(ctx context.Context, name, phone, email, password string) (*models.Admin, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(phone) == "" {
		return nil, apperr.Validation("Name and phone are required")
	}
	if !ValidEmail(email) {
		return nil, apperr.Validation("Invalid email address")
	}
	if password == "" {
		return nil, apperr.Validation("Password is required")
	}

	_, err := s.admins.FindOne(ctx)
	if err == nil {
		return nil, apperr.Conflict("Admin already exists. Only one admin is allowed.")
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Internal("failed to check for existing admin: %v", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal("failed to hash password: %v", err)
	}

	admin := &models.Admin{
		Name:             name,
		Phone:            phone,
		Email:            email,
		PasswordHash:     hash,
		AdditionalEmails: []string{},
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.admins.Insert(ctx, admin); err != nil {
		return nil, apperr.Internal("failed to create admin: %v", err)
	}

	s.logger.Info("admin registered", zap.String("email", admin.Email))
	s.notifier.NotifyAdminCreated(admin, password)
	return admin, nil
}

// Get returns the admin, or nil when none is registered.
func (s *AdminService) Get(ctx context.Context) (*models.Admin, error) {
	admin, err := s.admins.FindOne(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, apperr.Internal("failed to fetch admin: %v", err)
	}
	return admin, nil
}

// Authenticate verifies the given password against the sole admin record.
func (s *AdminService) Authenticate(ctx context.Context, password string) (*models.Admin, error) {
	admin, err := s.admins.FindOne(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("No admin registered")
		}
		return nil, apperr.Internal("failed to fetch admin: %v", err)
	}
	if !utils.CheckPasswordHash(password, admin.PasswordHash) {
		return nil, apperr.Auth("Invalid password")
	}
	return admin, nil
}

// Delete removes the admin matching email after verifying the password,
// returning the system to the no-admin state.
func (s *AdminService) Delete(ctx context.Context, email, password string) error {
	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("No admin found with this email")
		}
		return apperr.Internal("failed to fetch admin: %v", err)
	}
	if !utils.CheckPasswordHash(password, admin.PasswordHash) {
		return apperr.Auth("Invalid password")
	}
	if err := s.admins.Delete(ctx, admin.ID.Hex()); err != nil {
		return apperr.Internal("failed to delete admin: %v", err)
	}
	s.logger.Info("admin deleted", zap.String("email", email))
	return nil
}

// SetAdditionalEmails replaces the additional notification addresses
// (at most two, each syntax-checked) after verifying the password.
func (s *AdminService) SetAdditionalEmails(ctx context.Context, password string, emails []string) (*models.Admin, error) {
	admin, err := s.Authenticate(ctx, password)
	if err != nil {
		return nil, err
	}
	if len(emails) > maxAdditionalEmails {
		return nil, apperr.Validation("Maximum %d additional emails allowed", maxAdditionalEmails)
	}
	for _, email := range emails {
		if !ValidEmail(email) {
			return nil, apperr.Validation("Invalid email address: %s", email)
		}
	}
	if emails == nil {
		// Keep the stored shape a list so GET /admin never serializes null.
		emails = []string{}
	}
	if err := s.admins.UpdateAdditionalEmails(ctx, admin.ID.Hex(), emails); err != nil {
		return nil, apperr.Internal("failed to update additional emails: %v", err)
	}
	admin.AdditionalEmails = emails
	return admin, nil
}
