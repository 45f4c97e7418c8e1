package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// IDExtractor pulls an id out of the request context.
type IDExtractor func(context.Context) (uuid.UUID, bool)

// Option configures a Logger.
type Option func(*Logger)

func WithOrgIDExtractor(fn IDExtractor) Option {
	return func(l *Logger) { l.orgID = fn }
}

func WithActorIDExtractor(fn IDExtractor) Option {
	return func(l *Logger) { l.actorID = fn }
}

func WithRequestIDExtractor(fn func(context.Context) string) Option {
	return func(l *Logger) { l.requestID = fn }
}

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		if now != nil {
			l.now = now
		}
	}
}

// WithResource sets the resource type and id.
func WithResource(resource, id string) EventOption {
	return func(e *Event) {
		e.Resource = resource
		e.ResourceID = id
	}
}

// WithOrgID sets the tenant explicitly, overriding the context value.
func WithOrgID(id uuid.UUID) EventOption {
	return func(e *Event) { e.OrgID = uuid.NullUUID{UUID: id, Valid: true} }
}

// WithActorID sets the actor explicitly, overriding the context value.
func WithActorID(id uuid.UUID) EventOption {
	return func(e *Event) { e.ActorID = uuid.NullUUID{UUID: id, Valid: true} }
}

// WithMetadata adds one metadata entry.
func WithMetadata(key string, value any) EventOption {
	return func(e *Event) {
		if e.Metadata == nil {
			e.Metadata = make(map[string]any)
		}
		e.Metadata[key] = value
	}
}

// WithResult overrides the result.
func WithResult(result Result) EventOption {
	return func(e *Event) { e.Result = result }
}
