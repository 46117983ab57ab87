package game

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

// Options holds per-session game settings. Zero durations are replaced
// with defaults by Normalize.
type Options struct {
	// ListeningDuration is the answer-collection window per round.
	ListeningDuration time.Duration `default:"30s" validate:"gt=0"`

	// PauseDuration is the break between rounds.
	PauseDuration time.Duration `default:"5s" validate:"gte=0"`

	// UserCooldown is the per-user debounce after an evaluated guess.
	UserCooldown time.Duration `default:"3s" validate:"gte=0"`

	// RoundLimit caps the number of rounds. Zero means one round per
	// resolved track. It may never exceed the requested song count.
	RoundLimit int `validate:"gte=0"`

	// AllowMissingTracks lets the game proceed with the resolved subset
	// when some song queries fail to resolve.
	AllowMissingTracks bool
}

var optionsValidator = validator.New()

// Normalize fills unset fields with defaults and validates the result.
func (o *Options) Normalize() error {
	if err := defaults.Set(o); err != nil {
		return errors.Wrap(err, "failed to set option defaults")
	}
	if err := optionsValidator.Struct(o); err != nil {
		return errors.Wrap(err, "invalid game options")
	}
	return nil
}
