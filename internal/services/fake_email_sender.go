package services

import (
	"context"
	"sync"
)

// FakeEmailSender records messages instead of sending them.
type FakeEmailSender struct {
	mu   sync.Mutex
	sent []Email
}

func NewFakeEmailSender() *FakeEmailSender {
	return &FakeEmailSender{}
}

func (f *FakeEmailSender) Send(ctx context.Context, msg Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

// Sent returns a copy of every recorded message in send order.
func (f *FakeEmailSender) Sent() []Email {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Email, len(f.sent))
	copy(out, f.sent)
	return out
}

func (f *FakeEmailSender) Last() (Email, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return Email{}, false
	}
	return f.sent[len(f.sent)-1], true
}

func (f *FakeEmailSender) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
}
