// Package config loads voicepanel settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds voicepanel settings.
type Config struct {
	BaseURL      string        `env:"VOICEPANEL_URL" envDefault:"http://localhost:8080"`
	RelayURL     string        `env:"VOICEPANEL_RELAY_URL"`
	Domain       string        `env:"NGROK_URL"`
	Timeout      time.Duration `env:"VOICEPANEL_TIMEOUT" envDefault:"30s"`
	DefaultPhone string        `env:"VOICEPANEL_DEFAULT_PHONE"`
	Twilio       Twilio
}

// Twilio holds the Twilio account settings.
type Twilio struct {
	AccountSID  string `env:"TWILIO_ACCOUNT_SID"`
	AuthToken   string `env:"TWILIO_AUTH_TOKEN"`
	PhoneNumber string `env:"TWILIO_PHONE_NUMBER"`
	BaseURL     string `env:"TWILIO_API_BASE_URL"`
}

// Load reads the given dotenv files, when present, then parses the
// environment. Variables already set win over file values.
func Load(files ...string) (Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// RelayEndpoint returns the ConversationRelay websocket URL: RelayURL when
// set, else the /ws endpoint on Domain.
func (c Config) RelayEndpoint() (string, error) {
	if c.RelayURL != "" {
		return c.RelayURL, nil
	}
	if c.Domain == "" {
		return "", fmt.Errorf("set VOICEPANEL_RELAY_URL or NGROK_URL")
	}
	domain := strings.TrimPrefix(strings.TrimPrefix(c.Domain, "https://"), "http://")
	return "wss://" + strings.TrimRight(domain, "/") + "/ws", nil
}

// Validate reports the missing Twilio settings.
func (t Twilio) Validate() error {
	var missing []string
	if t.AccountSID == "" {
		missing = append(missing, "TWILIO_ACCOUNT_SID")
	}
	if t.AuthToken == "" {
		missing = append(missing, "TWILIO_AUTH_TOKEN")
	}
	if t.PhoneNumber == "" {
		missing = append(missing, "TWILIO_PHONE_NUMBER")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	return nil
}
