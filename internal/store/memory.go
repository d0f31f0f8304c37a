package store

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jsvasan/health-registration-api/internal/models"
)

// MemoryRegistrationStore is an in-memory RegistrationStore used by tests.
type MemoryRegistrationStore struct {
	mu   sync.RWMutex
	docs map[string]models.Registration
}

func NewMemoryRegistrationStore() *MemoryRegistrationStore {
	return &MemoryRegistrationStore{docs: make(map[string]models.Registration)}
}

func (s *MemoryRegistrationStore) FindByPhone(_ context.Context, phone string) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, reg := range s.docs {
		if reg.PersonalInfo.RegistrantPhone == phone {
			r := reg
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryRegistrationStore) FindByID(_ context.Context, id string) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	r := reg
	return &r, nil
}

func (s *MemoryRegistrationStore) FindAll(_ context.Context, limit int64) ([]models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	regs := make([]models.Registration, 0, len(s.docs))
	for _, reg := range s.docs {
		if int64(len(regs)) >= limit {
			break
		}
		regs = append(regs, reg)
	}
	return regs, nil
}

func (s *MemoryRegistrationStore) Insert(_ context.Context, reg *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if reg.ID.IsZero() {
		reg.ID = primitive.NewObjectID()
	}
	s.docs[reg.ID.Hex()] = *reg
	return nil
}

func (s *MemoryRegistrationStore) Update(_ context.Context, reg *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[reg.ID.Hex()]; !ok {
		return ErrNotFound
	}
	s.docs[reg.ID.Hex()] = *reg
	return nil
}

func (s *MemoryRegistrationStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return ErrNotFound
	}
	delete(s.docs, id)
	return nil
}

// MemoryAdminStore is an in-memory AdminStore used by tests.
type MemoryAdminStore struct {
	mu    sync.RWMutex
	admin *models.Admin
}

func NewMemoryAdminStore() *MemoryAdminStore {
	return &MemoryAdminStore{}
}

func (s *MemoryAdminStore) FindOne(_ context.Context) (*models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.admin == nil {
		return nil, ErrNotFound
	}
	a := *s.admin
	return &a, nil
}

func (s *MemoryAdminStore) FindByEmail(_ context.Context, email string) (*models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.admin == nil || s.admin.Email != email {
		return nil, ErrNotFound
	}
	a := *s.admin
	return &a, nil
}

func (s *MemoryAdminStore) Insert(_ context.Context, admin *models.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if admin.ID.IsZero() {
		admin.ID = primitive.NewObjectID()
	}
	a := *admin
	s.admin = &a
	return nil
}

func (s *MemoryAdminStore) UpdateAdditionalEmails(_ context.Context, id string, emails []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.admin == nil || s.admin.ID.Hex() != id {
		return ErrNotFound
	}
	s.admin.AdditionalEmails = emails
	return nil
}

func (s *MemoryAdminStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.admin == nil || s.admin.ID.Hex() != id {
		return ErrNotFound
	}
	s.admin = nil
	return nil
}
