package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"curamind-be/internal/pkg/logger"
	"curamind-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Publisher writes events to the EVENTS stream under events.<TYPE>.
type Publisher struct {
	nc *nats.Conn
	js jetstream.JetStream
}

func NewPublisher(url string, log logger.ILogger) (*Publisher, error) {
	nc, js, err := connect(url)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := js.CreateOrUpdateStream(ctx, streamConfig()); err != nil {
		// An existing stream with a different retention cannot be updated in place.
		log.Warn("NATS", "Failed to ensure stream", map[string]interface{}{
			"stream": streamName,
			"error":  err.Error(),
		})
	}

	return &Publisher{nc: nc, js: js}, nil
}

func streamConfig() jetstream.StreamConfig {
	return jetstream.StreamConfig{
		Name:      streamName,
		Subjects:  []string{subjectPrefix + ">"},
		Storage:   jetstream.FileStorage,
		Retention: jetstream.WorkQueuePolicy,
		MaxAge:    7 * 24 * time.Hour,
	}
}

// encodeEvent flattens the event into its wire payload. occurred_at is
// added unless the caller already set it.
func encodeEvent(event events.Event) (string, []byte, error) {
	payload := make(map[string]interface{}, len(event.Payload())+1)
	for k, v := range event.Payload() {
		payload[k] = v
	}
	if _, ok := payload["occurred_at"]; !ok {
		payload["occurred_at"] = event.Timestamp().UTC().Format(time.RFC3339Nano)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", nil, fmt.Errorf("marshal %s payload: %w", event.EventType(), err)
	}
	return subjectPrefix + event.EventType(), data, nil
}

func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	subject, data, err := encodeEvent(event)
	if err != nil {
		return err
	}
	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}
	return nil
}

func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
