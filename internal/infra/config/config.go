// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Game     GameConfig     `yaml:"game"`
	Sources  []SourceConfig `yaml:"sources" validate:"required,min=1,dive"`
	Spotify  SpotifyConfig  `yaml:"spotify"`
	Messages MessagesConfig `yaml:"messages"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GameConfig holds the default game settings applied to new sessions.
type GameConfig struct {
	ListeningDurationSec int  `yaml:"listening_duration_sec" default:"30" validate:"gte=1,lte=600"`
	PauseDurationSec     int  `yaml:"pause_duration_sec" default:"5" validate:"gte=0,lte=120"`
	UserCooldownSec      int  `yaml:"user_cooldown_sec" default:"3" validate:"gte=0,lte=60"`
	RoundLimit           int  `yaml:"round_limit" validate:"gte=0"`
	AllowMissingTracks   bool `yaml:"allow_missing_tracks"`
}

// ListeningDuration returns the listening window as a duration.
func (g GameConfig) ListeningDuration() time.Duration {
	return time.Duration(g.ListeningDurationSec) * time.Second
}

// PauseDuration returns the inter-round break as a duration.
func (g GameConfig) PauseDuration() time.Duration {
	return time.Duration(g.PauseDurationSec) * time.Second
}

// UserCooldown returns the per-user debounce as a duration.
func (g GameConfig) UserCooldown() time.Duration {
	return time.Duration(g.UserCooldownSec) * time.Second
}

// SourceConfig represents a single track source configuration.
type SourceConfig struct {
	Type        string         `yaml:"type" validate:"required"`
	DisplayName string         `yaml:"display_name"`
	Settings    map[string]any `yaml:"settings"`
}

// SpotifyConfig represents Spotify API credentials. Required only when
// a spotify source is configured.
type SpotifyConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RefreshToken string `yaml:"refresh_token"`
}

// MessagesConfig represents user-facing announcement templates.
type MessagesConfig struct {
	NextRound     string `yaml:"next_round"`
	TitleFound    string `yaml:"title_found"`
	AuthorFound   string `yaml:"author_found"`
	SummaryHeader string `yaml:"summary_header"`
}

// LoggingConfig represents logger settings.
type LoggingConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Output string `yaml:"output" default:"stdout"`
}

// Load loads configuration from a YAML file. Environment variables take
// precedence over file values for credentials.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Spotify.ClientSecret = v
	}
	if v := os.Getenv("SPOTIFY_REFRESH_TOKEN"); v != "" {
		c.Spotify.RefreshToken = v
	}
}

// Validate checks structural constraints plus cross-field requirements
// the tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	for _, src := range c.Sources {
		if src.Type != "spotify" {
			continue
		}
		if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" || c.Spotify.RefreshToken == "" {
			return errors.New("spotify source configured but credentials are missing")
		}
	}
	return nil
}
