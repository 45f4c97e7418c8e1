package email

// Config holds email delivery settings. The Postmark server token is
// optional so development environments can run with LogSender.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL" envDefault:"no-reply@localhost"`
	SupportEmail         string `env:"SUPPORT_EMAIL"`
}

// Enabled reports whether real delivery is configured.
func (c Config) Enabled() bool {
	return c.PostmarkServerToken != ""
}
