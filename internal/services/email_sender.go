package services

import "context"

// Email is an outgoing message. HTML is optional; Text is always sent.
type Email struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type EmailSender interface {
	Send(ctx context.Context, msg Email) error
}
