// Package notification delivers user facing events: sales, reviews,
// verification steps and premium grants.
package notification

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

const (
	// KindDealCompleted tells a seller one of their listings sold.
	KindDealCompleted = "deal_completed"
	// KindReviewReceived tells a user someone rated them.
	KindReviewReceived = "review_received"
	// KindVerificationUpdated confirms a verification step.
	KindVerificationUpdated = "verification_updated"
	// KindPremiumGranted announces a premium period.
	KindPremiumGranted = "premium_granted"
)

// Message is one event addressed to a user. Destination is the user id.
type Message struct {
	Kind        string `json:"kind"`
	Destination string `json:"destination"`
	Body        string `json:"body"`
}

// Notifier delivers messages. Callers treat delivery as best effort.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LogNotifier writes each message to the structured log.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(ctx context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.InfoContext(ctx, "notification",
		slog.String("kind", message.Kind),
		slog.String("destination", message.Destination),
		slog.String("body", message.Body))
	return nil
}

// Fanout sends to every notifier in order and joins their errors. Nil
// entries are skipped.
type Fanout []Notifier

func (f Fanout) Send(ctx context.Context, message Message) error {
	var errs []error
	for _, n := range f {
		if n == nil {
			continue
		}
		if err := n.Send(ctx, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps sent messages in memory. Tests use it to assert delivery.
type Recorder struct {
	mu       sync.Mutex
	Messages []Message
}

func (r *Recorder) Send(_ context.Context, message Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, message)
	return nil
}

// Last returns the most recent message, if any.
func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Messages) == 0 {
		return Message{}, false
	}
	return r.Messages[len(r.Messages)-1], true
}
