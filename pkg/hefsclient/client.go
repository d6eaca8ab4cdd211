// Package hefsclient provides the main entry point for creating project directory API clients
package hefsclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/edqe14/hefs/internal/client"
	"github.com/edqe14/hefs/internal/constants"
	"github.com/edqe14/hefs/pkg/hefs"
)

// New creates a new API client and starts hydrating its caches. A nil config
// connects anonymously to the production API.
func New(ctx context.Context, config *hefs.Config) (hefs.Client, error) {
	if config == nil {
		config = &hefs.Config{}
	}

	config.BaseURL = NormalizeBaseURL(config.BaseURL)

	c, err := client.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

// NewWithBaseURL creates a client for baseURL with default settings.
func NewWithBaseURL(ctx context.Context, baseURL string) (hefs.Client, error) {
	return New(ctx, &hefs.Config{BaseURL: baseURL})
}

// NewWithSession creates a client that authenticates with a session token.
func NewWithSession(ctx context.Context, baseURL, session string) (hefs.Client, error) {
	return New(ctx, &hefs.Config{
		BaseURL: baseURL,
		Session: session,
	})
}

// NormalizeBaseURL trims trailing slashes, adds https:// when no scheme is
// given and falls back to the production API.
func NormalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return constants.DefaultBaseURL
	}

	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	return baseURL
}
