package events

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"auction-house/utils"
)

// NATSPublisher publishes events to a NATS server.
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher connects to the NATS server at url. The connection retries
// in the background so a broker restart does not take the service down.
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("auction-house"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			utils.Warn("nats disconnected", map[string]any{"error": fmt.Sprint(err)})
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			utils.Info("nats reconnected", map[string]any{"url": nc.ConnectedUrl()})
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("events.NewNATSPublisher: connect %q: %w", url, err)
	}
	return &NATSPublisher{conn: conn}, nil
}

// Publish sends the event as JSON. Failures are logged and swallowed.
func (p *NATSPublisher) Publish(subject string, payload any) {
	data, ok := marshalPayload(subject, payload)
	if !ok {
		return
	}
	if err := p.conn.Publish(subject, data); err != nil {
		utils.Error("failed to publish event", map[string]any{
			"subject": subject,
			"error":   err.Error(),
		})
	}
}

// Close drains and closes the underlying connection.
func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}
