// Package email delivers transactional email.
//
// Sender is the single delivery contract. Production deployments use the
// Postmark-backed sender; development and tests use LogSender, which
// writes each message to a slog.Logger instead of the network.
//
// Messages are validated before delivery. Rendering helpers such as
// InvitationMessage build a ready-to-send Message from domain data.
//
//	sender, err := email.NewPostmarkSender(cfg)
//	msg, err := email.InvitationMessage(email.InvitationData{...})
//	err = sender.Send(ctx, msg)
package email
