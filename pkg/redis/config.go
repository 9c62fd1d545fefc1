package redis

import "github.com/sessionkit/sessionkit/pkg/config"

// Config describes how to reach the Redis server backing session storage.
type Config struct {
	// ConnectionURL in the form "redis://:password@localhost:6379/0"
	ConnectionURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0" yaml:"connectionURL"`

	// RetryAttempts is how many times Connect retries before giving up
	RetryAttempts int `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3" yaml:"retryAttempts"`

	// RetryInterval is the pause between attempts
	RetryInterval config.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s" yaml:"retryInterval"`

	// ConnectTimeout bounds the whole connection phase
	ConnectTimeout config.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s" yaml:"connectTimeout"`
}
