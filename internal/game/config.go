package game

import "time"

type Config struct {
	InstagramAccount string        `yaml:"instagram_account" validate:"required"`
	UnsurePhrases    []string      `yaml:"unsure_phrases"`
	DiceDelay        time.Duration `yaml:"dice_delay" validate:"gte=0"`
	// SessionTTL is how long an idle dialogue is kept. Negative keeps it forever.
	SessionTTL       time.Duration `yaml:"session_ttl"`
	Roller           string        `yaml:"roller" validate:"omitempty,oneof=telegram local"`
}

var DefaultUnsurePhrases = []string{"не знаю", "не понимаю", "нет идей", "don't know", "dont know", "no idea", "not sure"}

const (
	DefaultDiceDelay  = 4 * time.Second
	DefaultSessionTTL = 72 * time.Hour
)

func (c *Config) phrases() []string {
	if len(c.UnsurePhrases) == 0 {
		return DefaultUnsurePhrases
	}
	return c.UnsurePhrases
}
