// Package mail abstracts the outbound email transport.
package mail

import "context"

// Attachment is a file attached to an outbound message.
type Attachment struct {
	Filename    string
	Content     []byte
	ContentType string
}

// Message is a single outbound email.
type Message struct {
	From        string
	To          []string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Sender delivers a single message. Implementations own their network
// timeout.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
