package constants

import "errors"

// CLI configuration errors.
var (
	ErrNoSessionConfigured = errors.New("no session configured, use 'hefs login' to add one")
	ErrEmptySession        = errors.New("session token must not be empty")
	ErrInvalidOutputFormat = errors.New("invalid output format")
	ErrUnknownConfigKey    = errors.New("unknown config key")
)
