package logger

import (
	"log/slog"

	"github.com/google/uuid"
)

// Error records err under "error". A nil error yields an empty Attr,
// which slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

func UserID(id uuid.UUID) slog.Attr {
	return slog.String("user_id", id.String())
}

func OrgID(id uuid.UUID) slog.Attr {
	return slog.String("org_id", id.String())
}

func InvitationID(id uuid.UUID) slog.Attr {
	return slog.String("invitation_id", id.String())
}

func RoleID(id uuid.UUID) slog.Attr {
	return slog.String("role_id", id.String())
}

// RequestID records the request id; empty ids are dropped.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func Event(name string) slog.Attr {
	return slog.String("event", name)
}
