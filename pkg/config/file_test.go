package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sessionkit/sessionkit/pkg/config"
)

type fileConfig struct {
	CookieName string          `yaml:"cookieName"`
	Expiration config.Duration `yaml:"expiration"`
	AutoStart  string          `yaml:"autoStart"`
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfigFile(t, `
cookieName: mysid
expiration: 14h
autoStart: smart
`)

	var cfg fileConfig
	require.NoError(t, config.LoadFile(path, &cfg))

	assert.Equal(t, "mysid", cfg.CookieName)
	assert.Equal(t, 14*time.Hour, cfg.Expiration.Std())
	assert.Equal(t, "smart", cfg.AutoStart)
}

func TestLoadFile_UnknownKeyRejected(t *testing.T) {
	path := writeConfigFile(t, `
cookieName: mysid
cokieDomain: typo.example.com
`)

	var cfg fileConfig
	err := config.LoadFile(path, &cfg)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoadFile_MissingFile(t *testing.T) {
	var cfg fileConfig
	err := config.LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), &cfg)
	assert.ErrorIs(t, err, config.ErrReadingConfigFile)
}

func TestLoadFile_NilPointer(t *testing.T) {
	err := config.LoadFile[fileConfig]("whatever.yaml", nil)
	assert.ErrorIs(t, err, config.ErrNilPointer)
}
