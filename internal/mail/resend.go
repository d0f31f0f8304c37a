package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// ResendSender sends emails via the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
	logger *zap.Logger
}

// NewResendSender creates a new ResendSender with the given API key and
// default from address.
func NewResendSender(apiKey, from string, logger *zap.Logger) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
		logger: logger,
	}
}

// Send sends a single email via Resend.
func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	from := msg.From
	if from == "" {
		from = s.from
	}

	params := &resend.SendEmailRequest{
		From:    from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	}
	for _, att := range msg.Attachments {
		params.Attachments = append(params.Attachments, &resend.Attachment{
			Filename:    att.Filename,
			Content:     att.Content,
			ContentType: att.ContentType,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}

	s.logger.Info("email sent",
		zap.String("message_id", sent.Id),
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}
