package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"wishbot/internal/admin"
	"wishbot/internal/assets"
	"wishbot/internal/game"
	"wishbot/internal/repository"
	"wishbot/internal/services/http_server"
	"wishbot/internal/services/telegram_bot"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type GameConfig struct {
	Game   game.Config   `yaml:",inline"`
	Assets assets.Config `yaml:",inline"`
}

type Config struct {
	BotConfig        *telegram_bot.Config `yaml:"bot" validate:"required"`
	GameConfig       *GameConfig          `yaml:"game" validate:"required"`
	AdminConfig      *admin.Config        `yaml:"admin"`
	RepoConfig       *repository.Config   `yaml:"repo" validate:"required"`
	HttpServerConfig *http_server.Config  `yaml:"http"`
}

// LoadConfigFromFile reads the yaml config. ${VAR} placeholders are expanded from the environment,
// which is first populated from .env when there is one.
func LoadConfigFromFile(path string) (cfg *Config, err error) {
	if err = godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if _, err = os.Stat(path); err != nil {
		return nil, err
	}

	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(bytes)
}

func Parse(bytes []byte) (cfg *Config, err error) {
	if err = yaml.Unmarshal([]byte(os.ExpandEnv(string(bytes))), &cfg); err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if err = cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.setDefaults()

	if err = validator.New().Struct(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if token := os.Getenv("BOT_TOKEN"); token != "" {
		if c.BotConfig == nil {
			c.BotConfig = &telegram_bot.Config{}
		}
		c.BotConfig.Token = token
	}
	if account := os.Getenv("INSTAGRAM_ACCOUNT"); account != "" {
		if c.GameConfig == nil {
			c.GameConfig = &GameConfig{}
		}
		c.GameConfig.Game.InstagramAccount = account
	}
	if raw := os.Getenv("ADMIN_IDS"); raw != "" {
		ids, err := parseIds(raw)
		if err != nil {
			return fmt.Errorf("ADMIN_IDS: %w", err)
		}
		if c.AdminConfig == nil {
			c.AdminConfig = &admin.Config{}
		}
		c.AdminConfig.Ids = ids
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.BotConfig != nil && c.BotConfig.Mode == "" {
		c.BotConfig.Mode = telegram_bot.ModePolling
	}
	if c.GameConfig != nil {
		if c.GameConfig.Game.DiceDelay == 0 {
			c.GameConfig.Game.DiceDelay = game.DefaultDiceDelay
		}
		if c.GameConfig.Game.SessionTTL == 0 {
			c.GameConfig.Game.SessionTTL = game.DefaultSessionTTL
		}
	}
	if c.AdminConfig == nil {
		c.AdminConfig = &admin.Config{}
	}
	if c.RepoConfig == nil {
		c.RepoConfig = &repository.Config{Driver: "sqlite", Dsn: "wishbot.db"}
	}
}

func parseIds(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
