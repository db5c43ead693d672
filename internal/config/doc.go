// Package config manages application configuration for the MoimLog API.
//
// The config package loads and validates configuration from environment
// variables. All configuration is centralized here to provide a single
// source of truth.
//
// # Configuration Loading
//
//	cfg, err := config.Load()
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Configuration Groups
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS origins)
//   - DatabaseConfig: SurrealDB connection settings
//   - JWTConfig: JWT signing and validation settings
//   - RateLimitConfig: request rate limiting settings
//
// # Environment Variables
//
// Key environment variables:
//
//	SERVER_PORT          - HTTP server port (default: 8080)
//	SERVER_ENV           - development, production, or test
//	DB_HOST, DB_PORT     - SurrealDB endpoint
//	DB_NAMESPACE, DB_DATABASE, DB_USER, DB_PASSWORD
//	JWT_PRIVATE_KEY_PATH - RSA private key for signing tokens
//	JWT_PUBLIC_KEY_PATH  - RSA public key for validating tokens
//	JWT_EXPIRATION_MINS  - access token lifetime
//	CORS_ALLOWED_ORIGINS - comma-separated origin list
package config
