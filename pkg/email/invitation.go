package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// TagInvitation marks invitation messages for delivery analytics.
const TagInvitation = "invitation"

// InvitationData is rendered into an invitation email.
type InvitationData struct {
	To               string
	OrganizationName string
	InviterEmail     string
	AcceptURL        string
	ExpiresAt        time.Time
}

var invitationHTML = template.Must(template.New("invitation").Parse(`<!DOCTYPE html>
<html>
<body>
<p>{{if .InviterEmail}}{{.InviterEmail}} has invited you{{else}}You have been invited{{end}} to join <strong>{{.OrganizationName}}</strong>.</p>
<p><a href="{{.AcceptURL}}">Accept the invitation</a></p>
<p>This invitation expires on {{.ExpiresAt.Format "January 2, 2006 15:04 MST"}}.</p>
</body>
</html>
`))

// InvitationMessage renders an invitation email.
func InvitationMessage(d InvitationData) (Message, error) {
	var buf bytes.Buffer
	if err := invitationHTML.Execute(&buf, d); err != nil {
		return Message{}, fmt.Errorf("render invitation email: %w", err)
	}

	msg := Message{
		To:       d.To,
		Subject:  fmt.Sprintf("You're invited to join %s", d.OrganizationName),
		HTMLBody: buf.String(),
		TextBody: fmt.Sprintf("You have been invited to join %s.\nAccept: %s\nExpires: %s\n",
			d.OrganizationName, d.AcceptURL, d.ExpiresAt.Format(time.RFC1123)),
		Tag: TagInvitation,
	}
	return msg, msg.Validate()
}
