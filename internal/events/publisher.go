package events

import (
	"encoding/json"
	"fmt"
	"sync"

	"auction-house/utils"
)

// Publisher delivers domain events to interested subscribers. Publishing is
// fire-and-forget: a failed delivery must never fail the operation that
// produced the event.
type Publisher interface {
	Publish(subject string, payload any)
}

// AuctionSubject builds the subject for auction-scoped events,
// e.g. "auction.42.bid_placed".
func AuctionSubject(auctionID, kind string) string {
	return fmt.Sprintf("auction.%s.%s", auctionID, kind)
}

// UserSubject builds the subject for user-scoped events,
// e.g. "user.7.outbid".
func UserSubject(userID, kind string) string {
	return fmt.Sprintf("user.%s.%s", userID, kind)
}

// LogPublisher writes events to the application log. It is the fallback when
// no NATS URL is configured.
type LogPublisher struct{}

// NewLogPublisher creates a log-backed publisher.
func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

// Publish logs the event at debug level.
func (p *LogPublisher) Publish(subject string, payload any) {
	utils.Debug("event published", map[string]any{
		"subject": subject,
		"payload": payload,
	})
}

// Event is a captured publication, used by MemoryPublisher.
type Event struct {
	Subject string
	Payload any
}

// MemoryPublisher records events in memory so tests can assert on them.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

// NewMemoryPublisher creates an in-memory publisher.
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

// Publish appends the event to the in-memory record.
func (p *MemoryPublisher) Publish(subject string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, Event{Subject: subject, Payload: payload})
}

// Events returns a copy of everything published so far.
func (p *MemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

// BySubject returns the events published to exactly the given subject.
func (p *MemoryPublisher) BySubject(subject string) []Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []Event
	for _, e := range p.events {
		if e.Subject == subject {
			out = append(out, e)
		}
	}
	return out
}

// marshalPayload encodes an event payload for the wire, logging instead of
// failing when the payload cannot be encoded.
func marshalPayload(subject string, payload any) ([]byte, bool) {
	data, err := json.Marshal(payload)
	if err != nil {
		utils.Error("failed to encode event payload", map[string]any{
			"subject": subject,
			"error":   err.Error(),
		})
		return nil, false
	}
	return data, true
}
