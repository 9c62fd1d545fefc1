package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile populates the configuration struct from a YAML file based on
// `yaml` field tags. Unknown keys in the file are rejected so typos surface
// at startup instead of silently falling back to defaults.
//
// File values are not cached: the file is read on every call, and the
// result is independent of any environment-loaded configuration of the
// same type.
func LoadFile[T any](path string, v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadingConfigFile, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	return nil
}

// MustLoadFile works like LoadFile but panics on failure.
func MustLoadFile[T any](path string, v *T) {
	if err := LoadFile(path, v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration file: %v", err))
	}
}
