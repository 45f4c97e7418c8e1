package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Logger builds and stores audit events.
type Logger struct {
	storage   Storage
	orgID     IDExtractor
	actorID   IDExtractor
	requestID func(context.Context) string
	now       func() time.Time
}

// NewLogger creates a logger writing to storage.
func NewLogger(storage Storage, opts ...Option) *Logger {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}
	l := &Logger{storage: storage, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Log records a successful action.
func (l *Logger) Log(ctx context.Context, action string, opts ...EventOption) error {
	event := l.newEvent(ctx, action, ResultSuccess)
	return l.store(ctx, event, opts)
}

// LogError records a failed action together with its error.
func (l *Logger) LogError(ctx context.Context, action string, err error, opts ...EventOption) error {
	event := l.newEvent(ctx, action, ResultError)
	if err != nil {
		event.Error = err.Error()
	}
	return l.store(ctx, event, opts)
}

func (l *Logger) store(ctx context.Context, event Event, opts []EventOption) error {
	for _, opt := range opts {
		opt(&event)
	}
	if err := event.Validate(); err != nil {
		return err
	}
	if err := l.storage.Store(ctx, event); err != nil {
		return errors.Join(ErrStorageFailed, err)
	}
	return nil
}

func (l *Logger) newEvent(ctx context.Context, action string, result Result) Event {
	event := Event{
		ID:        uuid.New(),
		Action:    action,
		Result:    result,
		CreatedAt: l.now().UTC(),
	}
	if l.orgID != nil {
		if id, ok := l.orgID(ctx); ok {
			event.OrgID = uuid.NullUUID{UUID: id, Valid: true}
		}
	}
	if l.actorID != nil {
		if id, ok := l.actorID(ctx); ok {
			event.ActorID = uuid.NullUUID{UUID: id, Valid: true}
		}
	}
	if l.requestID != nil {
		event.RequestID = l.requestID(ctx)
	}
	return event
}
