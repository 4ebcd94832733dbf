package messaging

import (
	"context"
	"sync"
	"time"
)

// Event types published by the domain services.
const (
	EventAppointmentScheduled     = "appointment.scheduled"
	EventAppointmentUpdated       = "appointment.updated"
	EventAppointmentStatusChanged = "appointment.status_changed"
	EventAppointmentDeleted       = "appointment.deleted"
	EventMedicalRecordCreated     = "medical_record.created"
	EventMedicalRecordUpdated     = "medical_record.updated"
)

// Message is the envelope written to the broker.
type Message struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// Publisher defines the interface for publishing domain events
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload interface{}) error
}

type nopPublisher struct{}

// NewNopPublisher returns a publisher that drops every event.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, string, interface{}) error {
	return nil
}

// Recorder keeps published messages in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(_ context.Context, eventType string, payload interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Type: eventType, OccurredAt: time.Now().UTC(), Payload: payload})
	return nil
}

// Types returns the event types in publish order.
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, 0, len(r.messages))
	for _, m := range r.messages {
		types = append(types, m.Type)
	}
	return types
}
