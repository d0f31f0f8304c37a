package services

import (
	"regexp"
	"strings"

	"github.com/jsvasan/health-registration-api/internal/apperr"
	"github.com/jsvasan/health-registration-api/internal/models"
)

// Buddy policy: 1-2 inclusive, at least one mandatory.
const (
	minBuddies   = 1
	maxBuddies   = 2
	minNextOfKin = 1
	maxNextOfKin = 3
)

// local@domain with a dot-separated domain label.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidEmail reports whether s is a syntactically valid email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidateRegistration enforces the full registration contract: contact
// counts, email syntax on every email field, and required text fields.
// Nothing is persisted when it fails.
func ValidateRegistration(reg *models.Registration) error {
	if strings.TrimSpace(reg.PersonalInfo.RegistrantName) == "" {
		return apperr.Validation("Registrant name is required")
	}
	if strings.TrimSpace(reg.PersonalInfo.RegistrantPhone) == "" {
		return apperr.Validation("Registrant phone is required")
	}
	if strings.TrimSpace(reg.PersonalInfo.BloodGroup) == "" {
		return apperr.Validation("Blood group is required")
	}
	if len(reg.Buddies) < minBuddies || len(reg.Buddies) > maxBuddies {
		return apperr.Validation("Between %d and %d buddies are required", minBuddies, maxBuddies)
	}
	if len(reg.NextOfKin) < minNextOfKin || len(reg.NextOfKin) > maxNextOfKin {
		return apperr.Validation("Between %d and %d next of kin contacts are required", minNextOfKin, maxNextOfKin)
	}
	for _, b := range reg.Buddies {
		if !ValidEmail(b.Email) {
			return apperr.Validation("Invalid buddy email: %s", b.Email)
		}
	}
	for _, k := range reg.NextOfKin {
		if !ValidEmail(k.Email) {
			return apperr.Validation("Invalid next of kin email: %s", k.Email)
		}
	}
	return nil
}
