package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin is the single authorized operator. At most one admin document
// exists; registration is rejected while one is present.
type Admin struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"`
	Phone            string             `bson:"phone" json:"phone"`
	Email            string             `bson:"email" json:"email"`
	PasswordHash     string             `bson:"passwordHash" json:"-"` // Never serialized
	AdditionalEmails []string           `bson:"additionalEmails" json:"additional_emails"`
	CreatedAt        time.Time          `bson:"createdAt" json:"created_at"`
}

// NotificationEmails returns the primary address plus any additional
// addresses, primary first.
func (a *Admin) NotificationEmails() []string {
	emails := make([]string, 0, 1+len(a.AdditionalEmails))
	emails = append(emails, a.Email)
	emails = append(emails, a.AdditionalEmails...)
	return emails
}
