// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv for .env files and
// github.com/caarlos0/env/v11 for struct parsing. Infrastructure packages
// (pg, redis, httpserver, email) each export a tagged Config struct; the
// service composes them into one struct and calls Load once at startup.
package config
