package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/jsvasan/health-registration-api/internal/apperr"
	"github.com/jsvasan/health-registration-api/internal/models"
	"github.com/jsvasan/health-registration-api/internal/store"
)

// Responses are capped to avoid unbounded payloads.
const maxListResults = 1000

// RegistrationService implements the upsert-by-phone workflow and the
// admin-gated query surface.
type RegistrationService struct {
	registrations store.RegistrationStore
	admin         *AdminService
	notifier      Notifier
	logger        *zap.Logger
}

func NewRegistrationService(registrations store.RegistrationStore, admin *AdminService, notifier Notifier, logger *zap.Logger) *RegistrationService {
	return &RegistrationService{
		registrations: registrations,
		admin:         admin,
		notifier:      notifier,
		logger:        logger,
	}
}

// Submit upserts a registration keyed by registrant phone. An existing
// document is updated in place, preserving its original createdAt; a new
// phone creates a fresh document. Returns whether the write was an update.
//
// The lookup-then-write is not wrapped in a transaction; two concurrent
// submissions for the same phone can produce two documents. Accepted at
// expected load.
func (s *RegistrationService) Submit(ctx context.Context, reg *models.Registration) (*models.Registration, bool, error) {
	if err := ValidateRegistration(reg); err != nil {
		return nil, false, err
	}

	now := time.Now().UTC()
	existing, err := s.registrations.FindByPhone(ctx, reg.PersonalInfo.RegistrantPhone)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, false, apperr.Internal("failed to look up registration: %v", err)
	}

	wasUpdate := existing != nil
	if wasUpdate {
		reg.ID = existing.ID
		reg.CreatedAt = existing.CreatedAt
		reg.UpdatedAt = now
		if err := s.registrations.Update(ctx, reg); err != nil {
			return nil, false, apperr.Internal("failed to update registration: %v", err)
		}
	} else {
		reg.CreatedAt = now
		reg.UpdatedAt = now
		if err := s.registrations.Insert(ctx, reg); err != nil {
			return nil, false, apperr.Internal("failed to create registration: %v", err)
		}
	}

	s.logger.Info("registration submitted",
		zap.String("id", reg.ID.Hex()),
		zap.Bool("was_update", wasUpdate))
	s.notifyAdmin(ctx, reg, nil)
	return reg, wasUpdate, nil
}

// GetAll returns every stored registration, capped at 1000.
func (s *RegistrationService) GetAll(ctx context.Context) ([]models.Registration, error) {
	regs, err := s.registrations.FindAll(ctx, maxListResults)
	if err != nil {
		return nil, apperr.Internal("failed to fetch registrations: %v", err)
	}
	return regs, nil
}

// GetByID fetches one registration. A malformed id is a validation error,
// a well-formed but absent id is not-found.
func (s *RegistrationService) GetByID(ctx context.Context, id string) (*models.Registration, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, apperr.Validation("Invalid registration ID")
	}
	reg, err := s.registrations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("Registration not found")
		}
		return nil, apperr.Internal("failed to fetch registration: %v", err)
	}
	return reg, nil
}

// UpdateByID replaces a registration's fields after admin authentication,
// re-running the validation contract. On success the notification fans out
// to the admin addresses plus the registration's own buddy and next-of-kin
// addresses.
func (s *RegistrationService) UpdateByID(ctx context.Context, id, password string, reg *models.Registration) (*models.Registration, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, apperr.Validation("Invalid registration ID")
	}
	if _, err := s.admin.Authenticate(ctx, password); err != nil {
		return nil, err
	}
	if err := ValidateRegistration(reg); err != nil {
		return nil, err
	}

	existing, err := s.registrations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("Registration not found")
		}
		return nil, apperr.Internal("failed to fetch registration: %v", err)
	}

	// An edit must not move this document onto another registrant's phone;
	// that would break uniqueness-by-phone deterministically.
	if reg.PersonalInfo.RegistrantPhone != existing.PersonalInfo.RegistrantPhone {
		other, err := s.registrations.FindByPhone(ctx, reg.PersonalInfo.RegistrantPhone)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Internal("failed to look up registration: %v", err)
		}
		if other != nil && other.ID != existing.ID {
			return nil, apperr.Conflict("Another registration already uses this phone number")
		}
	}

	reg.ID = existing.ID
	reg.CreatedAt = existing.CreatedAt
	reg.UpdatedAt = time.Now().UTC()
	if err := s.registrations.Update(ctx, reg); err != nil {
		return nil, apperr.Internal("failed to update registration: %v", err)
	}

	s.logger.Info("registration updated by admin", zap.String("id", id))
	s.notifyAdmin(ctx, reg, reg.ContactEmails())
	return reg, nil
}

// DeleteByID removes a registration after admin authentication.
func (s *RegistrationService) DeleteByID(ctx context.Context, id, password string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return apperr.Validation("Invalid registration ID")
	}
	if _, err := s.admin.Authenticate(ctx, password); err != nil {
		return err
	}
	if err := s.registrations.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("Registration not found")
		}
		return apperr.Internal("failed to delete registration: %v", err)
	}
	s.logger.Info("registration deleted by admin", zap.String("id", id))
	return nil
}

// notifyAdmin hands the registration to the dispatcher addressed to the
// admin's notification emails plus any extra recipients. Dispatch outcome
// never affects the caller; a missing admin just means nobody to notify.
func (s *RegistrationService) notifyAdmin(ctx context.Context, reg *models.Registration, extraRecipients []string) {
	admin, err := s.admin.Get(ctx)
	if err != nil || admin == nil {
		s.logger.Debug("notification skipped: no admin registered")
		return
	}
	recipients := append(admin.NotificationEmails(), extraRecipients...)
	s.notifier.NotifyRegistration(reg, recipients, true)
}
