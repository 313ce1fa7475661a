package events

// Notifier delivers user-facing notifications (outbid, won, funds released).
// Like Publisher it is best-effort: delivery problems never fail the caller.
type Notifier interface {
	Notify(userID, kind, message string, metadata map[string]any)
}

// PublisherNotifier routes notifications through the event publisher on the
// user's subject, so downstream consumers (mail, websocket fan-out) can pick
// them up.
type PublisherNotifier struct {
	publisher Publisher
}

// NewPublisherNotifier creates a notifier backed by the given publisher.
func NewPublisherNotifier(publisher Publisher) *PublisherNotifier {
	return &PublisherNotifier{publisher: publisher}
}

// Notify publishes the notification on "user.<id>.<kind>".
func (n *PublisherNotifier) Notify(userID, kind, message string, metadata map[string]any) {
	payload := map[string]any{
		"user_id": userID,
		"kind":    kind,
		"message": message,
	}
	for k, v := range metadata {
		payload[k] = v
	}
	n.publisher.Publish(UserSubject(userID, kind), payload)
}
