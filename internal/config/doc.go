// Package config loads the API configuration from the environment.
//
// Values are read into typed structs with caarlos0/env. A dotenv file is
// loaded first when present (CONFIG_FILE, default ./config/config.env), so
// local development can keep secrets out of the shell profile:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Configuration Groups
//
//   - ServerConfig: port, environment, timeouts, CORS origins
//   - DatabaseConfig: SurrealDB connection and startup migration
//   - JWTConfig: signing secret, token and cookie lifetimes
//   - RevocationConfig: Redis URL or in-memory cache size for logged-out tokens
//   - RateLimitConfig: per-client token bucket
package config
