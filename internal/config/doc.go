// Package config handles configuration loading, parsing, and validation
// from environment variables, an optional .env file and an optional YAML
// config file. Environment variables use the PALACE_ prefix, for example
// PALACE_DATABASE_URL or PALACE_AUTH_JWT_SECRET.
package config
