package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/edqe14/hefs/internal/constants"
	"github.com/edqe14/hefs/internal/http"
	"github.com/edqe14/hefs/pkg/hefs"
)

// Static errors for err113 compliance.
var (
	ErrBaseURLRequired = errors.New("base URL is required")
	ErrEmptyResponse   = errors.New("empty response")
)

// Client implements hefs.Client. It owns one manager per entity kind and
// runs the startup hydration sequence in the background.
type Client struct {
	*readiness

	httpClient    *http.Client
	responseCache hefs.Cache
	config        hefs.Config
	logger        hefs.Logger

	endpointsMutex sync.RWMutex
	endpoints      hefs.Endpoints

	guilds      *GuildManager
	projects    *ProjectManager
	submissions *SubmissionManager
	admin       *AdminManager

	cancel    context.CancelFunc
	hydrated  chan struct{}
	closeOnce sync.Once
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *hefs.Config, logger hefs.Logger, cache hefs.Cache) []http.Option {
	httpOpts := []http.Option{
		http.WithLogger(logger),
		http.WithCookies(config.Session, config.Cookies),
		http.WithHeaders(config.Headers),
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	if cache != nil {
		var options *hefs.CacheOptions
		if config.ResponseCache != nil {
			options = config.ResponseCache.Options
		}

		httpOpts = append(httpOpts, http.WithResponseCache(cache, options))
	}

	return httpOpts
}

// New creates a client and starts hydration. ctx bounds the background
// hydration; Close cancels it.
func New(ctx context.Context, config *hefs.Config) (*Client, error) {
	if config == nil || config.BaseURL == "" {
		return nil, ErrBaseURLRequired
	}

	logger := config.Logger
	if logger == nil {
		logger = hefs.NopLogger{}
	}

	var responseCache hefs.Cache

	if config.ResponseCache != nil && config.ResponseCache.Type != hefs.CacheTypeNone {
		var err error

		responseCache, err = hefs.NewCacheFromConfig(config.ResponseCache)
		if err != nil {
			return nil, fmt.Errorf("creating response cache: %w", err)
		}
	}

	httpClient := http.NewClient(config.BaseURL, createHTTPClientOptions(config, logger, responseCache)...)

	hydrateCtx, cancel := context.WithCancel(ctx)

	client := &Client{
		readiness:     newReadiness(),
		httpClient:    httpClient,
		responseCache: responseCache,
		config:        *config,
		logger:        logger,
		endpoints:     hefs.DefaultEndpoints().Merge(config.Endpoints),
		cancel:        cancel,
		hydrated:      make(chan struct{}),
	}

	// Managers must all exist before any hydration starts, since decoding a
	// project resolves its guild through the client.
	client.guilds = newGuildManager(client)
	client.projects = newProjectManager(client)
	client.submissions = newSubmissionManager(client)
	client.admin = newAdminManager(client)

	client.setHydrating()

	go client.guilds.hydrate(hydrateCtx)
	go client.projects.hydrate(hydrateCtx)
	go client.admin.hydrate(hydrateCtx)
	go client.coordinate(hydrateCtx)

	return client, nil
}

// coordinate waits for the foundational managers, links guilds to their
// projects and optionally loads every project's submissions.
func (c *Client) coordinate(ctx context.Context) {
	defer close(c.hydrated)
	defer c.markReady()

	for _, manager := range []hefs.Readiness{c.guilds, c.projects, c.admin} {
		err := manager.AwaitReady(ctx)
		if err != nil {
			c.reportError(fmt.Errorf("hydrating client: %w", err))

			return
		}
	}

	if !c.config.DisableHydration {
		c.linkGuildProjects()
	}

	if c.config.FetchSubmissionsOnStart {
		// Failures are already reported one by one.
		_, _ = c.submissions.fetchForProjects(ctx, c.projects.Cache().Values(), true, !c.config.DisableHydration, c.reportError)
	}

	c.logger.Info("client ready", map[string]interface{}{
		"guilds":      c.guilds.Cache().Len(),
		"projects":    c.projects.Cache().Len(),
		"submissions": c.submissions.Cache().Len(),
	})
}

// linkGuildProjects attaches to every cached guild the cached projects that
// belong to it. Projects decoded before their guild was cached are
// re-resolved first.
func (c *Client) linkGuildProjects() {
	c.projects.writes.Lock()
	defer c.projects.writes.Unlock()

	projects := c.projects.Cache().Values()

	for _, project := range projects {
		if project.Guild == nil {
			project.Guild = c.guilds.Resolve(hefs.GuildID(project.GuildID))
		}
	}

	c.guilds.writes.Lock()
	defer c.guilds.writes.Unlock()

	for _, guild := range c.guilds.Cache().Values() {
		owned := make([]*hefs.Project, 0)

		for _, project := range projects {
			if project.Guild == guild {
				owned = append(owned, project)
			}
		}

		guild.Projects = newGuildProjects(c, guild, owned...)
	}
}

// reportError forwards a background failure to the logger and OnError.
func (c *Client) reportError(err error) {
	c.logger.Error("background request failed", map[string]interface{}{
		"error": err.Error(),
	})

	if c.config.OnError != nil {
		c.config.OnError(err)
	}
}

// endpoint formats the named template with id. An empty id addresses the
// collection.
func (c *Client) endpoint(name hefs.EndpointName, id string) string {
	c.endpointsMutex.RLock()
	template := c.endpoints.Get(name)
	c.endpointsMutex.RUnlock()

	return hefs.FormatEndpoint(template, id)
}

// Guilds implements hefs.Client.Guilds.
func (c *Client) Guilds() hefs.GuildsClient {
	return c.guilds
}

// Projects implements hefs.Client.Projects.
func (c *Client) Projects() hefs.ProjectsClient {
	return c.projects
}

// Submissions implements hefs.Client.Submissions.
func (c *Client) Submissions() hefs.SubmissionsClient {
	return c.submissions
}

// Admin implements hefs.Client.Admin.
func (c *Client) Admin() hefs.AdminClient {
	return c.admin
}

// BaseURL implements hefs.Client.BaseURL.
func (c *Client) BaseURL() string {
	return c.httpClient.BaseURL()
}

// Endpoints implements hefs.Client.Endpoints.
func (c *Client) Endpoints() hefs.Endpoints {
	c.endpointsMutex.RLock()
	defer c.endpointsMutex.RUnlock()

	return c.endpoints
}

// SetEndpoint implements hefs.Client.SetEndpoint.
func (c *Client) SetEndpoint(name hefs.EndpointName, value string) error {
	c.endpointsMutex.Lock()
	defer c.endpointsMutex.Unlock()

	err := c.endpoints.Set(name, value)
	if err != nil {
		return fmt.Errorf("setting endpoint: %w", err)
	}

	return nil
}

// Close implements hefs.Client.Close.
func (c *Client) Close() error {
	var err error

	c.closeOnce.Do(func() {
		c.cancel()
		<-c.hydrated

		err = hefs.CloseCache(c.responseCache)
	})

	if err != nil {
		return fmt.Errorf("closing client: %w", err)
	}

	return nil
}
