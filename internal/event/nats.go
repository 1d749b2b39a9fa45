package event

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	nats "github.com/nats-io/nats.go"
)

// SubjectPrefix is prepended to the event kind to form the NATS subject.
const SubjectPrefix = "combat."

// Envelope wraps an Event for out-of-process consumers.
type Envelope struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	EventType string    `json:"event_type"`
	Event     Event     `json:"event"`
}

// Publisher is the subset of *nats.Conn used by the NATS listener.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// ConnectNATS connects to a NATS server for event fan-out.
func ConnectNATS(url, name string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", url, err)
	}
	return nc, nil
}

// NATSListener returns a Listener that publishes every event as a JSON
// envelope on combat.<kind>. Publish errors are logged and dropped.
func NATSListener(pub Publisher, source string) Listener {
	return func(ev Event) {
		env := Envelope{
			ID:        uuid.NewString(),
			Timestamp: time.Now().UTC(),
			Source:    source,
			EventType: ev.Kind.String(),
			Event:     ev,
		}
		data, err := json.Marshal(env)
		if err != nil {
			slog.Warn("marshal combat event", "kind", ev.Kind, "error", err)
			return
		}
		if err := pub.Publish(SubjectPrefix+env.EventType, data); err != nil {
			slog.Warn("publish combat event", "kind", ev.Kind, "error", err)
		}
	}
}
