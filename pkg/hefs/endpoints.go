package hefs

import (
	"fmt"
	"net/url"
	"strings"
)

// EndpointName identifies one overridable URL template.
type EndpointName string

const (
	EndpointWhitelist   EndpointName = "whitelist"
	EndpointProjects    EndpointName = "projects"
	EndpointGuilds      EndpointName = "guilds"
	EndpointSubmissions EndpointName = "submissions"
	EndpointInvite      EndpointName = "invite"
)

// Endpoints holds the URL templates. A template's first "%s" is replaced by
// an identifier; an empty identifier addresses the collection.
type Endpoints struct {
	Whitelist   string `json:"whitelist"   yaml:"whitelist"`
	Projects    string `json:"projects"    yaml:"projects"`
	Guilds      string `json:"guilds"      yaml:"guilds"`
	Submissions string `json:"submissions" yaml:"submissions"`
	Invite      string `json:"invite"      yaml:"invite"`
}

// DefaultEndpoints returns the production URL templates.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Whitelist:   "/admin/setting?s=whitelist",
		Projects:    "/projects/%s",
		Guilds:      "/guilds/%s",
		Submissions: "/submissions/%s",
		Invite:      "https://discord.gg/%s",
	}
}

// Merge returns e with every non-empty template of overrides applied.
func (e Endpoints) Merge(overrides *Endpoints) Endpoints {
	if overrides == nil {
		return e
	}

	for _, name := range []EndpointName{EndpointWhitelist, EndpointProjects, EndpointGuilds, EndpointSubmissions, EndpointInvite} {
		if value := overrides.Get(name); value != "" {
			_ = e.Set(name, value)
		}
	}

	return e
}

// Get returns the template for name, or "" for an unknown name.
func (e *Endpoints) Get(name EndpointName) string {
	switch name {
	case EndpointWhitelist:
		return e.Whitelist
	case EndpointProjects:
		return e.Projects
	case EndpointGuilds:
		return e.Guilds
	case EndpointSubmissions:
		return e.Submissions
	case EndpointInvite:
		return e.Invite
	default:
		return ""
	}
}

// Set replaces the template for name.
func (e *Endpoints) Set(name EndpointName, value string) error {
	if name == "" || value == "" {
		return ErrEmptyEndpoint
	}

	switch name {
	case EndpointWhitelist:
		e.Whitelist = value
	case EndpointProjects:
		e.Projects = value
	case EndpointGuilds:
		e.Guilds = value
	case EndpointSubmissions:
		e.Submissions = value
	case EndpointInvite:
		e.Invite = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownEndpoint, name)
	}

	return nil
}

// FormatEndpoint substitutes id for the first "%s" in template. The id is
// path-escaped. Templates without a verb are returned unchanged.
func FormatEndpoint(template, id string) string {
	before, after, found := strings.Cut(template, "%s")
	if !found {
		return template
	}

	return before + url.PathEscape(id) + after
}
