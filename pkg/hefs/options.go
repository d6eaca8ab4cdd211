package hefs

// FetchOption customizes a single fetch or create call.
type FetchOption func(*FetchOptions)

// FetchOptions is the resolved form of a FetchOption list.
type FetchOptions struct {
	// Force skips the cache and always issues a request.
	Force bool
	// Cache stores the results in the manager's cache. Defaults to true.
	Cache bool
}

// WithForce always issues a request, even for cached entries.
func WithForce() FetchOption {
	return func(o *FetchOptions) { o.Force = true }
}

// WithoutCache leaves the manager's cache untouched.
func WithoutCache() FetchOption {
	return func(o *FetchOptions) { o.Cache = false }
}

// ApplyFetchOptions resolves opts over the defaults.
func ApplyFetchOptions(opts ...FetchOption) FetchOptions {
	resolved := FetchOptions{Cache: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&resolved)
		}
	}

	return resolved
}
