package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventInfo    EventType = "info"
	EventWarn    EventType = "warn"
	EventSuccess EventType = "success"
	EventError   EventType = "error"
)

// Event is the payload of every backend event and log line.
type Event struct {
	ID         string            `json:"id"`
	Type       EventType         `json:"type"`
	Message    string            `json:"message"`
	Timestamp  time.Time         `json:"timestamp"`
	SessionKey string            `json:"sessionKey,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type contextKey string

const sessionContextKey contextKey = "commitsugar/events/session"

// WithSession returns a derived context annotated with the given session key
// so event emitters can automatically scope payloads.
func WithSession(ctx context.Context, sessionKey string) context.Context {
	if strings.TrimSpace(sessionKey) == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionContextKey, sessionKey)
}

// SessionFromContext extracts the session key associated with ctx.
func SessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(sessionContextKey).(string); ok {
		return v
	}
	return ""
}

func CreateEvent(eventType EventType, message string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewInfo creates an info Event.
func NewInfo(message string) Event {
	return CreateEvent(EventInfo, message)
}

// NewWarn creates a warn Event.
func NewWarn(message string) Event {
	return CreateEvent(EventWarn, message)
}

// NewError creates an error Event.
func NewError(message string) Event {
	return CreateEvent(EventError, message)
}

// NewSuccess creates a success Event.
func NewSuccess(message string) Event {
	return CreateEvent(EventSuccess, message)
}

// WithMeta returns a copy of evt with key set in its metadata.
func (e Event) WithMeta(key, value string) Event {
	meta := make(map[string]string, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		meta[k] = v
	}
	meta[key] = value
	e.Metadata = meta
	return e
}
