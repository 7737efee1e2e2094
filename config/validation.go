package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks structural constraints (tags) and the semantic rules the
// tags cannot express.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return err
	}

	if cfg.Poll.InitialDelay > cfg.Poll.MaxDelay {
		return fmt.Errorf("poll initial delay %s exceeds max delay %s",
			cfg.Poll.InitialDelay, cfg.Poll.MaxDelay)
	}

	return nil
}
