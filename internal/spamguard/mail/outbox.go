package mail

import (
	"context"
	"sync"
)

// Message is a captured outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Outbox is an in-memory Mailer. Err, when set, is returned by every Send
// and nothing is captured.
type Outbox struct {
	mu   sync.Mutex
	sent []Message
	Err  error
}

func (o *Outbox) Send(_ context.Context, to, subject, htmlBody string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.Err != nil {
		return o.Err
	}
	o.sent = append(o.sent, Message{To: to, Subject: subject, Body: htmlBody})
	return nil
}

// Sent returns a copy of every captured message in send order.
func (o *Outbox) Sent() []Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Message(nil), o.sent...)
}

// Last returns the most recent message sent to addr.
func (o *Outbox) Last(addr string) (Message, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.sent) - 1; i >= 0; i-- {
		if o.sent[i].To == addr {
			return o.sent[i], true
		}
	}
	return Message{}, false
}
