package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Settings holds runtime settings read from FFRELEASE_* environment
// variables. Only the GitHub token is also read unprefixed, as GITHUB_TOKEN,
// when FFRELEASE_GITHUB_TOKEN is not set.
type Settings struct {
	GitHubToken string        `envconfig:"FFRELEASE_GITHUB_TOKEN"`
	APIURL      string        `envconfig:"FFRELEASE_API_URL" default:"https://api.github.com"`
	Prefer32Bit bool          `envconfig:"FFRELEASE_PREFER_32BIT"`
	LogLevel    string        `envconfig:"FFRELEASE_LOG_LEVEL" default:"info"`
	LogFile     string        `envconfig:"FFRELEASE_LOG_FILE"`
	MaxPages    int           `envconfig:"FFRELEASE_MAX_PAGES" default:"5"`
	Timeout     time.Duration `envconfig:"FFRELEASE_TIMEOUT" default:"30s"`
	AppsFile    string        `envconfig:"FFRELEASE_APPS"`
}

// sharedSettings are variables other tools read too.
type sharedSettings struct {
	GitHubToken string `envconfig:"GITHUB_TOKEN"`
}

// Prefer32BitAPKs reports whether 32-bit builds should win over 64-bit ones.
func (s *Settings) Prefer32BitAPKs() bool {
	return s.Prefer32Bit
}

// LoadSettings loads envFile (or ./.env when envFile is empty and the
// file exists) into the environment, then reads Settings from it.
// Variables already set in the environment take precedence.
func LoadSettings(envFile string) (*Settings, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	// tags carry the full names; an empty prefix leaves no unprefixed fallback
	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	if s.GitHubToken == "" {
		var shared sharedSettings
		if err := envconfig.Process("", &shared); err != nil {
			return nil, fmt.Errorf("invalid settings: %w", err)
		}
		s.GitHubToken = shared.GitHubToken
	}

	if s.MaxPages <= 0 {
		return nil, fmt.Errorf("invalid settings: FFRELEASE_MAX_PAGES must be positive, got %d", s.MaxPages)
	}
	if s.Timeout <= 0 {
		return nil, fmt.Errorf("invalid settings: FFRELEASE_TIMEOUT must be positive, got %s", s.Timeout)
	}

	return &s, nil
}
