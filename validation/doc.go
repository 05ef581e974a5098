// Package validation validates configuration and input values.
//
// Struct tags are checked with go-playground/validator. Besides the built-in
// tags, "regexp" requires a string (or every string of a slice, with dive) to
// compile as a regular expression:
//
//	type Config struct {
//	    SkipPattern string   `mapstructure:"skip_pattern" validate:"omitempty,regexp"`
//	    Extra       []string `mapstructure:"extra" validate:"dive,regexp"`
//	}
//	err := validation.ValidateStruct(cfg)
//
// Programmatic checks collect field errors into one AppError:
//
//	err := validation.New().Required("name", name).RequiredUUID("id", id).Validate()
package validation
