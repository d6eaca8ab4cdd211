package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// API defaults.
const (
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://holoen.fans/api"

	// SessionCookieName carries the session credential.
	SessionCookieName = "next-auth.session-token"

	// DefaultUserAgent is sent when the config does not override it.
	DefaultUserAgent = "hefs-go/1"

	// RequestIDHeader carries a per-request correlation id.
	RequestIDHeader = "X-Request-ID"

	// WhitelistProperty is the only setting the admin endpoints expose.
	WhitelistProperty = "whitelist"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second
)

// Retry limits. Retries are off unless RetryMax is configured.
const (
	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Concurrency limits.
const (
	// DefaultConcurrencyLimit bounds concurrent per-project submission fetches.
	DefaultConcurrencyLimit = 3
)

// HTTP status bounds.
const (
	// HTTPStatusOKMin is the lowest successful status code.
	HTTPStatusOKMin = 200

	// HTTPStatusOKMax is the highest successful status code.
	HTTPStatusOKMax = 299
)

// Response cache defaults.
const (
	// DefaultCacheSize is the default number of cached responses.
	DefaultCacheSize = 500

	// DefaultCacheTTL is how long a cached response may be revalidated.
	DefaultCacheTTL = 10 * time.Minute

	// DefaultCleanupInterval is how often expired entries are swept.
	DefaultCleanupInterval = time.Minute

	// DefaultNATSBucket is the JetStream KV bucket for shared responses.
	DefaultNATSBucket = "hefs-responses"
)

// Format constants.
const (
	// FormatJSON selects JSON output.
	FormatJSON = "json"

	// FormatYAML selects YAML output.
	FormatYAML = "yaml"

	// FormatTable selects table output.
	FormatTable = "table"

	// JSONIndentSize is the indent width for pretty output.
	JSONIndentSize = 2

	// StringTruncationLimit bounds long text in table cells.
	StringTruncationLimit = 48

	// NotAvailable is shown for empty table cells.
	NotAvailable = "N/A"
)
