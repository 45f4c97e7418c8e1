package email_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/email"
)

func TestMessage_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		msg     email.Message
		wantErr bool
	}{
		{name: "html only", msg: email.Message{To: "a@example.com", Subject: "hi", HTMLBody: "<p>hi</p>"}},
		{name: "text only", msg: email.Message{To: "a@example.com", Subject: "hi", TextBody: "hi"}},
		{name: "missing body", msg: email.Message{To: "a@example.com", Subject: "hi"}, wantErr: true},
		{name: "bad address", msg: email.Message{To: "nope", Subject: "hi", TextBody: "hi"}, wantErr: true},
		{name: "missing subject", msg: email.Message{To: "a@example.com", TextBody: "hi"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.msg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, email.ErrInvalidMessage)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewPostmarkSender(t *testing.T) {
	t.Parallel()

	_, err := email.NewPostmarkSender(email.Config{SenderEmail: "a@example.com"})
	assert.ErrorIs(t, err, email.ErrInvalidConfig)

	_, err = email.NewPostmarkSender(email.Config{PostmarkServerToken: "t", SenderEmail: "bad"})
	assert.ErrorIs(t, err, email.ErrInvalidConfig)

	_, err = email.NewPostmarkSender(email.Config{PostmarkServerToken: "t", SenderEmail: "a@example.com", SupportEmail: "bad"})
	assert.ErrorIs(t, err, email.ErrInvalidConfig)

	s, err := email.NewPostmarkSender(email.Config{PostmarkServerToken: "t", SenderEmail: "a@example.com"})
	require.NoError(t, err)
	assert.NotNil(t, s)

	err = s.Send(context.Background(), email.Message{})
	assert.ErrorIs(t, err, email.ErrInvalidMessage)
}

func TestConfig_Enabled(t *testing.T) {
	t.Parallel()

	assert.False(t, email.Config{}.Enabled())
	assert.True(t, email.Config{PostmarkServerToken: "t"}.Enabled())
}

func TestLogSender(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := email.NewLogSender(slog.New(slog.NewJSONHandler(&buf, nil)))

	err := s.Send(context.Background(), email.Message{To: "a@example.com", Subject: "hi", TextBody: "body"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"to":"a@example.com"`)

	err = s.Send(context.Background(), email.Message{To: "a@example.com"})
	assert.ErrorIs(t, err, email.ErrInvalidMessage)
}

func TestInvitationMessage(t *testing.T) {
	t.Parallel()

	msg, err := email.InvitationMessage(email.InvitationData{
		To:               "new@example.com",
		OrganizationName: "Acme <Corp>",
		InviterEmail:     "owner@example.com",
		AcceptURL:        "https://app.example.com/invitations/abc",
		ExpiresAt:        time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "new@example.com", msg.To)
	assert.Equal(t, email.TagInvitation, msg.Tag)
	assert.Contains(t, msg.Subject, "Acme <Corp>")
	assert.Contains(t, msg.HTMLBody, "Acme &lt;Corp&gt;")
	assert.Contains(t, msg.HTMLBody, `href="https://app.example.com/invitations/abc"`)
	assert.Contains(t, msg.HTMLBody, "owner@example.com has invited you")
	assert.Contains(t, msg.TextBody, "https://app.example.com/invitations/abc")
}

func TestInvitationMessage_InvalidRecipient(t *testing.T) {
	t.Parallel()

	_, err := email.InvitationMessage(email.InvitationData{To: "bad", OrganizationName: "Acme"})
	assert.ErrorIs(t, err, email.ErrInvalidMessage)
}
