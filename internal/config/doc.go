// Package config loads and validates application configuration from
// environment variables and an optional config file. Environment
// variables (REAGENCY_ prefix) take precedence over file values, which
// take precedence over defaults.
package config
