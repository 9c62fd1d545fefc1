// Package config loads typed configuration structs from the environment or
// from a YAML file.
//
// Load parses `env` tags via github.com/caarlos0/env, reading a .env file
// first when one exists, and caches the result per struct type so every
// component sees the same configuration. LoadFile parses `yaml` tags from a
// file and rejects unknown keys.
//
//	var cfg session.Config
//	config.MustLoad(&cfg)             // from environment
//	config.MustLoadFile("app.yaml", &cfg) // from a file
package config
