package source

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/quizbox/blindtest/internal/infra/config"
	"github.com/quizbox/blindtest/internal/infra/itunes"
	"github.com/quizbox/blindtest/internal/infra/spotify"
)

// spotifySettings are the spotify provider settings.
type spotifySettings struct {
	Market string `mapstructure:"market" default:"US" validate:"omitempty,len=2"`
}

// itunesSettings are the itunes provider settings.
type itunesSettings struct {
	Country string `mapstructure:"country" default:"US" validate:"omitempty,len=2"`
	Limit   int    `mapstructure:"limit" default:"5" validate:"gte=1,lte=25"`
}

var settingsValidator = validator.New()

// decodeSettings decodes a provider settings map into out, applying
// defaults and validating the result.
func decodeSettings(settings map[string]any, out any) error {
	if err := mapstructure.Decode(settings, out); err != nil {
		return errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(out); err != nil {
		return errors.Wrap(err, "failed to set setting defaults")
	}
	if err := settingsValidator.Struct(out); err != nil {
		return errors.Wrap(err, "invalid settings")
	}
	return nil
}

// NewFromConfig creates a provider chain from configuration.
func NewFromConfig(ctx context.Context, cfg *config.Config) (*Chain, error) {
	if len(cfg.Sources) == 0 {
		return nil, errors.New("no track sources configured")
	}

	var providers []Provider
	for i, scfg := range cfg.Sources {
		var resolver Resolver
		var err error

		switch scfg.Type {
		case "spotify":
			var settings spotifySettings
			if err = decodeSettings(scfg.Settings, &settings); err == nil {
				resolver, err = spotify.New(ctx, spotify.Config{
					ClientID:     cfg.Spotify.ClientID,
					ClientSecret: cfg.Spotify.ClientSecret,
					RefreshToken: cfg.Spotify.RefreshToken,
					Market:       settings.Market,
				})
			}

		case "itunes":
			var settings itunesSettings
			if err = decodeSettings(scfg.Settings, &settings); err == nil {
				resolver, err = itunes.New(itunes.Config{
					Country: settings.Country,
					Limit:   settings.Limit,
				})
			}

		default:
			return nil, errors.Newf("unsupported source type: %s (source index %d)", scfg.Type, i)
		}

		if err != nil {
			return nil, errors.Wrapf(err, "failed to create source (index %d, type %s)", i, scfg.Type)
		}

		name := scfg.DisplayName
		if name == "" {
			name = scfg.Type
		}
		providers = append(providers, Provider{Source: resolver, DisplayName: name})
		zlog.Info().Msgf("registered track source: index=%d type=%s display_name=%s", i+1, scfg.Type, name)
	}

	return NewChain(providers...), nil
}
