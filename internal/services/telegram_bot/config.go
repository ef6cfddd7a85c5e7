package telegram_bot

import "time"

const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

type Config struct {
	Token         string        `yaml:"token" validate:"required"`
	Mode          string        `yaml:"mode" validate:"omitempty,oneof=polling webhook"`
	PublicURL     string        `yaml:"public_url" validate:"required_if=Mode webhook,omitempty,url"`
	WebhookSecret string        `yaml:"webhook_secret"`
	PollTimeout   time.Duration `yaml:"poll_timeout"`
	// URL overrides the Bot API server.
	URL string `yaml:"url"`
}
