// Package redis connects to the Redis server that backs session storage.
//
// Connect wraps the go-redis client with retrying connection establishment
// driven by Config, whose fields load from environment variables or a YAML
// file. Healthcheck exposes a probe for liveness / readiness endpoints.
//
//	cfg := redis.Config{ConnectionURL: "redis://localhost:6379/0", RetryAttempts: 3,
//	    RetryInterval: 5 * time.Second, ConnectTimeout: 30 * time.Second}
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    // terminate: sessions have nowhere to live
//	}
//	store := session.NewRedisStore(client, session.JSON, "")
package redis
