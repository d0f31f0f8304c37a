package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jsvasan/health-registration-api/internal/export"
	"github.com/jsvasan/health-registration-api/internal/mail"
	"github.com/jsvasan/health-registration-api/internal/models"
	"github.com/jsvasan/health-registration-api/internal/utils"
)

// Notifier is the hand-off point between the write path and outbound
// email. Implementations must never block or fail the caller.
type Notifier interface {
	NotifyRegistration(reg *models.Registration, recipients []string, attachExport bool)
	NotifyAdminCreated(admin *models.Admin, plainPassword string)
}

const notificationQueueSize = 64

type notificationJob struct {
	message mail.Message
}

// NotificationService renders and sends registration emails. Jobs are
// queued on a buffered channel and drained by a single worker goroutine;
// a slow or failing mail transport cannot block the write path.
type NotificationService struct {
	sender mail.Sender
	logger *zap.Logger
	queue  chan notificationJob
	wg     sync.WaitGroup
}

func NewNotificationService(sender mail.Sender, logger *zap.Logger) *NotificationService {
	s := &NotificationService{
		sender: sender,
		logger: logger,
		queue:  make(chan notificationJob, notificationQueueSize),
	}
	s.wg.Add(1)
	go s.worker()
	return s
}

// Close stops accepting jobs and waits for the queue to drain.
func (s *NotificationService) Close() {
	close(s.queue)
	s.wg.Wait()
}

func (s *NotificationService) worker() {
	defer s.wg.Done()
	for job := range s.queue {
		if err := s.sender.Send(context.Background(), job.message); err != nil {
			s.logger.Error("notification send failed",
				zap.Strings("to", job.message.To),
				zap.Error(err))
		}
	}
}

// enqueue never blocks: when the queue is full the job is dropped with a
// warning rather than stalling the HTTP write path.
func (s *NotificationService) enqueue(msg mail.Message) {
	select {
	case s.queue <- notificationJob{message: msg}:
	default:
		s.logger.Warn("notification queue full, dropping message",
			zap.Strings("to", msg.To))
	}
}

// NotifyRegistration sends the registration summary to each recipient as a
// separate message, optionally attaching an xlsx snapshot. One failing
// recipient does not block delivery to the others.
func (s *NotificationService) NotifyRegistration(reg *models.Registration, recipients []string, attachExport bool) {
	html, err := renderRegistrationEmail(reg)
	if err != nil {
		s.logger.Error("failed to render registration email", zap.Error(err))
		return
	}

	var attachments []mail.Attachment
	if attachExport {
		content, err := export.Registrations([]models.Registration{*reg}, time.Now())
		if err != nil {
			// Send the summary without the attachment rather than nothing.
			s.logger.Error("failed to build spreadsheet attachment", zap.Error(err))
		} else {
			attachments = append(attachments, mail.Attachment{
				Filename:    export.Filename(),
				Content:     content,
				ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			})
		}
	}

	subject := fmt.Sprintf("Health Registration: %s", reg.PersonalInfo.RegistrantName)
	for _, recipient := range recipients {
		s.enqueue(mail.Message{
			To:          []string{recipient},
			Subject:     subject,
			HTML:        html,
			Attachments: attachments,
		})
	}
}

// NotifyAdminCreated sends the one-time confirmation email containing the
// admin's just-chosen password.
func (s *NotificationService) NotifyAdminCreated(admin *models.Admin, plainPassword string) {
	html, err := renderAdminWelcomeEmail(admin, plainPassword)
	if err != nil {
		s.logger.Error("failed to render admin welcome email", zap.Error(err))
		return
	}
	s.enqueue(mail.Message{
		To:      []string{admin.Email},
		Subject: "Health Registration Admin Account Created",
		HTML:    html,
	})
}

var registrationEmailTmpl = template.Must(template.New("registration").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Health Registration Submitted</h2>
  <h3>Personal Information</h3>
  <table cellpadding="4">
    <tr><td><b>Name</b></td><td>{{.PersonalInfo.RegistrantName}}</td></tr>
    <tr><td><b>Apartment</b></td><td>{{.PersonalInfo.RegistrantAptNumber}}</td></tr>
    <tr><td><b>Date of Birth</b></td><td>{{.PersonalInfo.DateOfBirth}}</td></tr>
    <tr><td><b>Age</b></td><td>{{.Age}}</td></tr>
    <tr><td><b>Phone</b></td><td>{{.PersonalInfo.RegistrantPhone}}</td></tr>
    <tr><td><b>Blood Group</b></td><td>{{.PersonalInfo.BloodGroup}}</td></tr>
    <tr><td><b>Insurance Policy</b></td><td>{{.PersonalInfo.InsurancePolicy}}</td></tr>
    <tr><td><b>Insurance Company</b></td><td>{{.PersonalInfo.InsuranceCompany}}</td></tr>
    <tr><td><b>Doctor</b></td><td>{{.PersonalInfo.DoctorName}} {{.PersonalInfo.DoctorContact}}</td></tr>
    <tr><td><b>Hospital</b></td><td>{{.PersonalInfo.HospitalName}} {{.PersonalInfo.HospitalNumber}}</td></tr>
    <tr><td><b>Current Ailments</b></td><td>{{.PersonalInfo.CurrentAilments}}</td></tr>
  </table>
  <h3>Buddies</h3>
  {{range $i, $b := .Buddies}}
  <p><b>Buddy {{inc $i}}:</b> {{$b.Name}}, {{$b.Phone}}, {{$b.Email}}, Apt {{$b.AptNumber}}</p>
  {{end}}
  <h3>Next of Kin</h3>
  {{range $i, $k := .NextOfKin}}
  <p><b>Next of Kin {{inc $i}}:</b> {{$k.Name}}, {{$k.Phone}}, {{$k.Email}}</p>
  {{end}}
  <p style="color: #888;">Registered at {{.CreatedAtFormatted}}</p>
</body>
</html>
`))

var adminWelcomeTmpl = template.Must(template.New("adminWelcome").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Admin Account Created</h2>
  <p>Hello {{.Name}},</p>
  <p>Your admin account for the Health Registration system has been created.</p>
  <table cellpadding="4">
    <tr><td><b>Email</b></td><td>{{.Email}}</td></tr>
    <tr><td><b>Phone</b></td><td>{{.Phone}}</td></tr>
    <tr><td><b>Password</b></td><td>{{.Password}}</td></tr>
  </table>
  <p>Keep this email safe. The password above is required for all
  administrative operations.</p>
</body>
</html>
`))

type registrationEmailData struct {
	*models.Registration
	Age                string
	CreatedAtFormatted string
}

func renderRegistrationEmail(reg *models.Registration) (string, error) {
	data := registrationEmailData{
		Registration:       reg,
		Age:                utils.AgeFromDOB(reg.PersonalInfo.DateOfBirth, time.Now()),
		CreatedAtFormatted: reg.CreatedAt.UTC().Format("2 Jan 2006 15:04 MST"),
	}
	var buf bytes.Buffer
	if err := registrationEmailTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type adminWelcomeData struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

func renderAdminWelcomeEmail(admin *models.Admin, plainPassword string) (string, error) {
	var buf bytes.Buffer
	err := adminWelcomeTmpl.Execute(&buf, adminWelcomeData{
		Name:     admin.Name,
		Email:    admin.Email,
		Phone:    admin.Phone,
		Password: plainPassword,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
