// Package config manages application configuration for the Taskboard API.
//
// The config package loads and validates configuration from environment
// variables. All configuration is centralized here to provide a single
// source of truth.
//
// # Configuration Loading
//
//	cfg, err := config.Load()
//	if err := cfg.Validate(); err != nil {
//	    // report every missing/invalid value at once
//	}
//
// In development, a .env file in the working directory is loaded first
// (see cmd/server).
//
// # Configuration Groups
//
//   - ServerConfig: HTTP server settings (port, env, timeouts, CORS)
//   - DatabaseConfig: SurrealDB connection settings
//   - JWTConfig: JWT signing and validation settings
//
// # Environment Variables
//
//	SERVER_PORT           - HTTP server port (default: 8080)
//	SERVER_ENV            - development | production | test
//	CORS_ALLOWED_ORIGINS  - comma-separated origin list
//	DB_HOST / DB_PORT     - SurrealDB endpoint
//	DB_NAMESPACE / DB_DATABASE
//	DB_USER / DB_PASSWORD
//	JWT_PRIVATE_KEY_PATH  - RSA private key (PEM)
//	JWT_PUBLIC_KEY_PATH   - RSA public key (PEM)
//	JWT_EXPIRATION_MINS   - access token lifetime (default: 60)
//	JWT_ISSUER            - iss claim value
package config
