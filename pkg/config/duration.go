package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that also unmarshals from strings like "30m"
// in YAML documents and environment variables. Plain yaml.v3 only decodes
// integers into time.Duration, which makes config files unreadable; use
// this type for duration fields in file-loadable structs.
type Duration time.Duration

// Std returns the value as a standard time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// UnmarshalText implements encoding.TextUnmarshaler for env parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrParsingConfig, err)
	}
	*d = Duration(parsed)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler, accepting both "1h30m" strings
// and integer nanosecond values.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var asInt int64
	if err := node.Decode(&asInt); err == nil {
		*d = Duration(asInt)
		return nil
	}

	var asString string
	if err := node.Decode(&asString); err != nil {
		return fmt.Errorf("%w: duration must be a string or integer", ErrParsingConfig)
	}
	return d.UnmarshalText([]byte(asString))
}

// MarshalYAML renders the duration in its human-readable form.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}
