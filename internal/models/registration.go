package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PersonalInfo carries the registrant's own details. registrantPhone is the
// upsert key: a second submission with the same phone replaces the first.
type PersonalInfo struct {
	RegistrantName      string `bson:"registrantName" json:"registrantName"`
	RegistrantAptNumber string `bson:"registrantAptNumber" json:"registrantAptNumber"`
	DateOfBirth         string `bson:"dateOfBirth" json:"dateOfBirth"` // DD/MM/YYYY
	RegistrantPhone     string `bson:"registrantPhone" json:"registrantPhone"`
	BloodGroup          string `bson:"bloodGroup" json:"bloodGroup"`
	InsurancePolicy     string `bson:"insurancePolicy" json:"insurancePolicy"`
	InsuranceCompany    string `bson:"insuranceCompany" json:"insuranceCompany"`
	DoctorName          string `bson:"doctorName" json:"doctorName"`
	DoctorContact       string `bson:"doctorContact" json:"doctorContact"`
	HospitalName        string `bson:"hospitalName" json:"hospitalName"`
	HospitalNumber      string `bson:"hospitalNumber" json:"hospitalNumber"`
	CurrentAilments     string `bson:"currentAilments" json:"currentAilments"`
}

// Buddy is a resident-designated local emergency contact.
type Buddy struct {
	Name      string `bson:"name" json:"name"`
	Phone     string `bson:"phone" json:"phone"`
	Email     string `bson:"email" json:"email"`
	AptNumber string `bson:"aptNumber" json:"aptNumber"`
}

// NextOfKin is a family emergency contact, distinct from a Buddy.
type NextOfKin struct {
	Name  string `bson:"name" json:"name"`
	Phone string `bson:"phone" json:"phone"`
	Email string `bson:"email" json:"email"`
}

type Registration struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PersonalInfo PersonalInfo       `bson:"personalInfo" json:"personalInfo"`
	Buddies      []Buddy            `bson:"buddies" json:"buddies"`
	NextOfKin    []NextOfKin        `bson:"nextOfKin" json:"nextOfKin"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ContactEmails returns every buddy and next-of-kin email, deduplicated,
// empty strings skipped. Used when an admin edit fans the notification out
// to the registrant's own contacts.
func (r *Registration) ContactEmails() []string {
	seen := make(map[string]bool)
	var emails []string
	for _, b := range r.Buddies {
		if b.Email != "" && !seen[b.Email] {
			seen[b.Email] = true
			emails = append(emails, b.Email)
		}
	}
	for _, k := range r.NextOfKin {
		if k.Email != "" && !seen[k.Email] {
			seen[k.Email] = true
			emails = append(emails, k.Email)
		}
	}
	return emails
}
