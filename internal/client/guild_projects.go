package client

import (
	"context"

	"github.com/edqe14/hefs/pkg/hefs"
)

// GuildProjects implements hefs.GuildProjectsClient.
type GuildProjects struct {
	entityCache[*hefs.Project]

	guild  *hefs.Guild
	client *Client
}

func newGuildProjects(client *Client, guild *hefs.Guild, projects ...*hefs.Project) *GuildProjects {
	return &GuildProjects{
		entityCache: newEntityCache(projects...),
		guild:       guild,
		client:      client,
	}
}

// Guild returns the owning guild.
func (g *GuildProjects) Guild() *hefs.Guild {
	return g.guild
}

// Create creates a project owned by this guild. Any identifier in config is
// dropped and the guild is set to this guild.
func (g *GuildProjects) Create(ctx context.Context, config *hefs.ProjectConfig, opts ...hefs.FetchOption) (*hefs.Project, error) {
	if config == nil {
		return nil, &hefs.ValidationError{Op: "creating guild project", Reason: "project config must not be nil"}
	}

	payload := *config
	payload.ID = ""
	payload.Guild = g.guild.ID

	project, err := g.client.projects.Create(ctx, &payload, opts...)
	if err != nil {
		return nil, err
	}

	if hefs.ApplyFetchOptions(opts...).Cache {
		g.cache.Set(project.ID, project)
	}

	return project, nil
}
