// Package store holds the persistence interfaces and their MongoDB
// implementations. Services depend on the interfaces only.
package store

import (
	"context"
	"errors"

	"github.com/jsvasan/health-registration-api/internal/models"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("document not found")

// RegistrationStore is the capability set the registration workflow needs:
// find-one (by id and by phone), find-many, insert, update, delete.
type RegistrationStore interface {
	FindByPhone(ctx context.Context, phone string) (*models.Registration, error)
	FindByID(ctx context.Context, id string) (*models.Registration, error)
	FindAll(ctx context.Context, limit int64) ([]models.Registration, error)
	Insert(ctx context.Context, reg *models.Registration) error
	Update(ctx context.Context, reg *models.Registration) error
	Delete(ctx context.Context, id string) error
}

// AdminStore holds the single admin record. FindOne returns ErrNotFound
// while no admin is registered.
type AdminStore interface {
	FindOne(ctx context.Context) (*models.Admin, error)
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	Insert(ctx context.Context, admin *models.Admin) error
	UpdateAdditionalEmails(ctx context.Context, id string, emails []string) error
	Delete(ctx context.Context, id string) error
}
