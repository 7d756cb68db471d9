package daichi

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joshp123/gohome-daichi/internal/config"
)

// Config defines runtime configuration for the Daichi client.
type Config struct {
	BaseURL  string
	Username string
	Password string
	ClientID string
	Timeout  time.Duration
}

// ConfigFromSettings builds a runtime config from the hub config, reading the
// password from its secret file.
func ConfigFromSettings(cfg config.DaichiConfig) (Config, error) {
	if cfg.Username == "" {
		return Config{}, fmt.Errorf("daichi username is required")
	}
	if cfg.PasswordFile == "" {
		return Config{}, fmt.Errorf("daichi password_file is required")
	}

	password, err := readSecretFile(cfg.PasswordFile)
	if err != nil {
		return Config{}, fmt.Errorf("read daichi password: %w", err)
	}

	return Config{
		BaseURL:  cfg.BaseURL,
		Username: cfg.Username,
		Password: password,
		ClientID: cfg.ClientID,
		Timeout:  cfg.Timeout,
	}, nil
}

// Credentials normalizes c into what the token exchange needs. Empty fields
// fall back to the hub defaults.
func (c Config) Credentials() (Credentials, error) {
	if c.Username == "" || c.Password == "" {
		return Credentials{}, fmt.Errorf("daichi username and password are required")
	}

	baseURL := strings.TrimSpace(c.BaseURL)
	if baseURL == "" {
		baseURL = config.DefaultDaichiBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if _, err := resolve(baseURL, tokenEndpoint); err != nil {
		return Credentials{}, err
	}

	clientID := strings.TrimSpace(c.ClientID)
	if clientID == "" {
		clientID = config.DefaultDaichiClientID
	}

	return Credentials{
		Username: c.Username,
		Password: c.Password,
		ClientID: clientID,
		BaseURL:  baseURL,
	}, nil
}

func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
