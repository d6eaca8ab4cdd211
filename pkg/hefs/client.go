package hefs

import (
	"context"
	"time"
)

// State is the hydration state of a manager or of the client.
type State int32

const (
	StateUninitialized State = iota
	StateHydrating
	StateReady
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateHydrating:
		return "hydrating"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Readiness is implemented by the client and by every manager.
type Readiness interface {
	// State returns the current hydration state.
	State() State
	// IsReady reports whether the ready transition has happened.
	IsReady() bool
	// AwaitReady blocks until ready or until ctx is done.
	AwaitReady(ctx context.Context) error
}

// GuildsClient manages the guild cache.
type GuildsClient interface {
	Readiness
	Cache() *Collection[*Guild]
	Resolve(guild Resolvable[*Guild]) *Guild
	ResolveID(guild Resolvable[*Guild]) (string, bool)
	Fetch(ctx context.Context, id string, opts ...FetchOption) (*Guild, error)
	FetchAll(ctx context.Context, opts ...FetchOption) ([]*Guild, error)
	Create(ctx context.Context, config *GuildConfig, opts ...FetchOption) (*Guild, error)
	Edit(ctx context.Context, guild *Guild, config *GuildConfig) (*Guild, error)
	Delete(ctx context.Context, guild *Guild) error
}

// ProjectsClient manages the project cache.
type ProjectsClient interface {
	Readiness
	Cache() *Collection[*Project]
	Resolve(project Resolvable[*Project]) *Project
	ResolveID(project Resolvable[*Project]) (string, bool)
	Fetch(ctx context.Context, id string, opts ...FetchOption) (*Project, error)
	FetchAll(ctx context.Context, opts ...FetchOption) ([]*Project, error)
	FetchSubmissions(ctx context.Context, project Resolvable[*Project], opts ...FetchOption) ([]*Submission, error)
	Create(ctx context.Context, config *ProjectConfig, opts ...FetchOption) (*Project, error)
	Edit(ctx context.Context, project *Project, config *ProjectConfig) (*Project, error)
	Delete(ctx context.Context, project *Project) error
}

// SubmissionsClient manages the submission cache. It never hydrates itself.
type SubmissionsClient interface {
	Readiness
	Cache() *Collection[*Submission]
	Resolve(submission Resolvable[*Submission]) *Submission
	ResolveID(submission Resolvable[*Submission]) (string, bool)
	Fetch(ctx context.Context, id string, opts ...FetchOption) (*Submission, error)
	FetchAll(ctx context.Context, opts ...FetchOption) ([]*Submission, error)
	Create(ctx context.Context, configs []*SubmissionConfig, opts ...FetchOption) ([]*Submission, error)
	Edit(ctx context.Context, submission *Submission, config *SubmissionConfig) (*Submission, error)
	Delete(ctx context.Context, submission *Submission) error
}

// AdminClient manages server settings keyed by property name.
type AdminClient interface {
	Readiness
	Cache() *Collection[*Setting]
	Resolve(setting Resolvable[*Setting]) *Setting
	ResolveID(setting Resolvable[*Setting]) (string, bool)
	Fetch(ctx context.Context, property string, opts ...FetchOption) (*Setting, error)
}

// GuildProjectsClient is the set of projects owned by one guild.
type GuildProjectsClient interface {
	Guild() *Guild
	Cache() *Collection[*Project]
	Resolve(project Resolvable[*Project]) *Project
	ResolveID(project Resolvable[*Project]) (string, bool)
	Create(ctx context.Context, config *ProjectConfig, opts ...FetchOption) (*Project, error)
}

// ProjectSubmissionsClient is the set of submissions owned by one project.
type ProjectSubmissionsClient interface {
	Project() *Project
	Cache() *Collection[*Submission]
	Resolve(submission Resolvable[*Submission]) *Submission
	ResolveID(submission Resolvable[*Submission]) (string, bool)
	Create(ctx context.Context, configs []*SubmissionConfig, opts ...FetchOption) ([]*Submission, error)
}

// Client is the entry point to the API.
type Client interface {
	Readiness
	Guilds() GuildsClient
	Projects() ProjectsClient
	Submissions() SubmissionsClient
	Admin() AdminClient

	// BaseURL returns the API base URL without a trailing slash.
	BaseURL() string
	// Endpoints returns a copy of the active URL templates.
	Endpoints() Endpoints
	// SetEndpoint overrides one URL template.
	SetEndpoint(name EndpointName, value string) error
	// Close stops background hydration and releases the response cache.
	Close() error
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// ErrorHandler receives failures from background work that no caller awaits,
// such as startup hydration.
type ErrorHandler func(err error)

// Config represents client configuration.
//
// # Hydration
//
// On construction the guild and project managers fetch their collections
// and the admin manager fetches the whitelist when a Session is set. The
// client then links every guild to its projects. DisableHydration skips all
// of these requests. FetchSubmissionsOnStart additionally fetches the
// submissions of every project before the client reports ready.
//
// # Retries
//
// Requests are not retried unless RetryMax is positive.
type Config struct {
	// BaseURL of the API. Defaults to the production endpoint.
	BaseURL string
	// Session is sent as the next-auth session cookie.
	Session string
	// Headers are added to every request.
	Headers map[string]string
	// Cookies are merged with the session cookie.
	Cookies map[string]string
	// DisableHydration skips every eager request made at startup.
	DisableHydration bool
	// FetchSubmissionsOnStart fetches the submissions of every project at startup.
	FetchSubmissionsOnStart bool
	// Endpoints overrides individual URL templates. Empty fields keep the default.
	Endpoints *Endpoints

	// HTTPTimeout bounds a single request. Zero uses the transport default.
	HTTPTimeout time.Duration
	// RetryMax is the number of retries for 5xx, 429 and connection errors.
	RetryMax int
	// RetryWaitMin is the minimum backoff between retries.
	RetryWaitMin time.Duration
	// RetryWaitMax is the maximum backoff between retries.
	RetryWaitMax time.Duration
	// UserAgent overrides the default User-Agent header.
	UserAgent string
	// Debug logs every request and response at debug level.
	Debug bool
	// Logger receives library logs. Defaults to NopLogger.
	Logger Logger
	// OnError receives background failures.
	OnError ErrorHandler
	// ResponseCache enables conditional GETs backed by the configured store.
	ResponseCache *CacheConfig
}
