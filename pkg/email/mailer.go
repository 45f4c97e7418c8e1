package email

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
)

// Sender delivers a message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is a single outbound email.
type Message struct {
	To       string `json:"to" validate:"required,email"`
	Subject  string `json:"subject" validate:"required,max=998"`
	HTMLBody string `json:"html_body" validate:"required_without=TextBody"`
	TextBody string `json:"text_body" validate:"required_without=HTMLBody"`
	Tag      string `json:"tag,omitempty" validate:"max=1000"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the message before delivery.
func (m Message) Validate() error {
	if err := validate.Struct(m); err != nil {
		return errors.Join(ErrInvalidMessage, err)
	}
	return nil
}

func validEmail(addr string) bool {
	return validate.Var(addr, "required,email") == nil
}
