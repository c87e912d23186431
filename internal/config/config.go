// Package config loads the relay configuration. Environment variables are
// authoritative; an optional YAML/JSON file supplies the same settings for
// deployments that prefer files. Credentials are validated once at startup
// and the process refuses to serve without them.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPort = 8000

	// Rotation policy for the optional file log.
	LogMaxSizeMB  = 5
	LogMaxBackups = 3
)

type Config struct {
	System   SystemConfig   `json:"system"`
	Telegram TelegramConfig `json:"telegram"`
}

type SystemConfig struct {
	Port  int  `json:"port"`
	Debug bool `json:"debug"`
	// LogPath enables the rotating file log when non-empty.
	LogPath string `json:"log_path"`
}

type TelegramConfig struct {
	BotToken string `json:"bot_token"`
	ChatID   int64  `json:"chat_id"`

	// APIURL overrides the Bot API endpoint (tests, proxies). Empty means
	// the production endpoint.
	APIURL string `json:"api_url,omitempty"`

	// SendTimeout is a Go duration string bounding one outbound call.
	// Empty keeps the 10s default.
	SendTimeout string `json:"send_timeout,omitempty"`
}

func Default() *Config {
	return &Config{System: SystemConfig{Port: DefaultPort}}
}

// applyEnv overlays environment variables onto cfg. Unset variables leave
// file/default values alone.
func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv("PORT"); ok {
		p, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("PORT: invalid integer %q", v)
		}
		cfg.System.Port = p
	}
	if v, ok := os.LookupEnv("DEBUG"); ok {
		cfg.System.Debug = strings.EqualFold(strings.TrimSpace(v), "true")
	}
	if v, ok := os.LookupEnv("LOG_PATH"); ok {
		cfg.System.LogPath = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv("TELEGRAM_BOT_TOKEN"); ok {
		cfg.Telegram.BotToken = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv("TELEGRAM_CHAT_ID"); ok {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("TELEGRAM_CHAT_ID: invalid chat id %q", v)
		}
		cfg.Telegram.ChatID = id
	}
	return nil
}

// Validate enforces the startup invariants. A failure here is fatal: the
// process must not start serving traffic.
func (c *Config) Validate() error {
	if c.System.Port <= 0 || c.System.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.System.Port)
	}
	if strings.TrimSpace(c.Telegram.BotToken) == "" {
		return errors.New("TELEGRAM_BOT_TOKEN must be set")
	}
	if c.Telegram.ChatID == 0 {
		return errors.New("TELEGRAM_CHAT_ID must be set")
	}
	if _, err := c.Telegram.SendTimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// SendTimeoutDuration parses the optional send timeout. Zero means "use
// the dispatcher default".
func (t TelegramConfig) SendTimeoutDuration() (time.Duration, error) {
	s := strings.TrimSpace(t.SendTimeout)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("telegram.send_timeout: invalid duration %q: %w", t.SendTimeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("telegram.send_timeout: duration must be >= 0")
	}
	return d, nil
}

// LogLevel maps the debug flag to a logging level name.
func (c *Config) LogLevel() string {
	if c.System.Debug {
		return "DEBUG"
	}
	return "INFO"
}
