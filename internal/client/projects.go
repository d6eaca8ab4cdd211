package client

import (
	"context"
	"fmt"

	"github.com/edqe14/hefs/pkg/hefs"
)

// ProjectManager implements hefs.ProjectsClient.
type ProjectManager struct {
	*readiness
	entityCache[*hefs.Project]

	client *Client
}

func newProjectManager(client *Client) *ProjectManager {
	return &ProjectManager{
		readiness:   newReadiness(),
		entityCache: newEntityCache[*hefs.Project](),
		client:      client,
	}
}

func (m *ProjectManager) hydrate(ctx context.Context) {
	m.setHydrating()
	defer m.markReady()

	if m.client.config.DisableHydration {
		return
	}

	_, err := m.FetchAll(ctx, hefs.WithForce())
	if err != nil {
		m.client.reportError(fmt.Errorf("hydrating projects: %w", err))
	}
}

// Fetch implements hefs.ProjectsClient.Fetch.
func (m *ProjectManager) Fetch(ctx context.Context, id string, opts ...hefs.FetchOption) (*hefs.Project, error) {
	if id == "" {
		return nil, &hefs.ValidationError{Op: "fetching project", Reason: "id must not be empty"}
	}

	options := hefs.ApplyFetchOptions(opts...)

	if !options.Force {
		if project, ok := m.cache.Get(id); ok {
			return project, nil
		}
	}

	resp, err := m.client.httpClient.Get(ctx, m.client.endpoint(hefs.EndpointProjects, id), nil)
	if err != nil {
		return nil, fmt.Errorf("getting project: %w", err)
	}

	config, err := decodeOne[hefs.ProjectConfig](resp.Body, "project")
	if err != nil {
		return nil, err
	}

	if config.ID == "" {
		config.ID = hefs.FlexibleID(id)
	}

	if !options.Cache {
		return m.build(config), nil
	}

	return m.store(config), nil
}

// FetchAll implements hefs.ProjectsClient.FetchAll.
func (m *ProjectManager) FetchAll(ctx context.Context, opts ...hefs.FetchOption) ([]*hefs.Project, error) {
	options := hefs.ApplyFetchOptions(opts...)

	if !options.Force {
		return m.cache.Values(), nil
	}

	resp, err := m.client.httpClient.Get(ctx, m.client.endpoint(hefs.EndpointProjects, ""), nil)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	configs, err := decodeList(resp.Body, "project", projectConfigID, m.client.logger)
	if err != nil {
		return nil, err
	}

	projects := make([]*hefs.Project, 0, len(configs))

	for _, config := range configs {
		if options.Cache {
			projects = append(projects, m.store(config))
		} else {
			projects = append(projects, m.build(config))
		}
	}

	return projects, nil
}

// FetchSubmissions implements hefs.ProjectsClient.FetchSubmissions. It
// always issues a request. Projects missing from the cache are addressed by
// their raw identifier.
func (m *ProjectManager) FetchSubmissions(
	ctx context.Context,
	project hefs.Resolvable[*hefs.Project],
	opts ...hefs.FetchOption,
) ([]*hefs.Submission, error) {
	resolved := m.Resolve(project)

	id := project.Key()
	if resolved != nil {
		id = resolved.ID
	}

	if id == "" {
		return nil, &hefs.ValidationError{Op: "fetching submissions", Reason: "project id must not be empty"}
	}

	options := hefs.ApplyFetchOptions(opts...)

	return m.client.submissions.fetchForProject(ctx, id, options.Cache, options.Cache)
}

// Create implements hefs.ProjectsClient.Create.
func (m *ProjectManager) Create(ctx context.Context, config *hefs.ProjectConfig, opts ...hefs.FetchOption) (*hefs.Project, error) {
	if config == nil {
		return nil, &hefs.ValidationError{Op: "creating project", Reason: "project config must not be nil"}
	}

	options := hefs.ApplyFetchOptions(opts...)

	payload := *config
	payload.ID = ""

	resp, err := m.client.httpClient.Post(ctx, m.client.endpoint(hefs.EndpointProjects, ""), &payload)
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	created, err := decodeOne[hefs.ProjectConfig](resp.Body, "project")
	if err != nil {
		return nil, err
	}

	if !options.Cache || created.ID == "" {
		return m.build(created), nil
	}

	return m.store(created), nil
}

// Edit implements hefs.ProjectsClient.Edit.
func (m *ProjectManager) Edit(ctx context.Context, project *hefs.Project, config *hefs.ProjectConfig) (*hefs.Project, error) {
	if project == nil || config == nil {
		return nil, &hefs.ValidationError{Op: "editing project", Reason: "project and config must not be nil"}
	}

	resp, err := m.client.httpClient.Patch(ctx, m.client.endpoint(hefs.EndpointProjects, project.ID), config)
	if err != nil {
		return nil, fmt.Errorf("editing project %s: %w", project.ID, err)
	}

	updated, err := decodeOne[hefs.ProjectConfig](resp.Body, "project")
	if err != nil {
		return nil, err
	}

	m.writes.Lock()
	defer m.writes.Unlock()

	previous := project.Guild
	project.Apply(*updated)
	m.relink(project, previous)

	return project, nil
}

// Delete implements hefs.ProjectsClient.Delete.
func (m *ProjectManager) Delete(ctx context.Context, project *hefs.Project) error {
	if project == nil {
		return &hefs.ValidationError{Op: "deleting project", Reason: "project must not be nil"}
	}

	_, err := m.client.httpClient.Delete(ctx, m.client.endpoint(hefs.EndpointProjects, project.ID))
	if err != nil {
		return fmt.Errorf("deleting project %s: %w", project.ID, err)
	}

	m.writes.Lock()
	defer m.writes.Unlock()

	m.cache.Delete(project.ID)
	m.relink(project, project.Guild)

	return nil
}

func (m *ProjectManager) build(config *hefs.ProjectConfig) *hefs.Project {
	project := hefs.NewProject(*config, m.client)
	project.Submissions = newProjectSubmissions(m.client, project)

	return project
}

// store overwrites the cached project in place or caches a new one, and
// keeps the owning guild's project set in step.
func (m *ProjectManager) store(config *hefs.ProjectConfig) *hefs.Project {
	m.writes.Lock()
	defer m.writes.Unlock()

	if project, ok := m.cache.Get(config.ID.String()); ok {
		previous := project.Guild
		project.Apply(*config)
		m.relink(project, previous)

		return project
	}

	project := m.build(config)
	m.cache.Set(project.ID, project)
	m.relink(project, nil)

	return project
}

// relink moves project out of previous's project set and into the set of
// its current guild, if it is still cached. Must be called with writes held.
func (m *ProjectManager) relink(project *hefs.Project, previous *hefs.Guild) {
	guilds := m.client.guilds

	guilds.writes.Lock()
	defer guilds.writes.Unlock()

	if previous != nil && previous.Projects != nil && previous != project.Guild {
		previous.Projects.Cache().Delete(project.ID)
	}

	if cached, ok := m.cache.Get(project.ID); !ok || cached != project {
		if project.Guild != nil && project.Guild.Projects != nil {
			if owned, found := project.Guild.Projects.Cache().Get(project.ID); found && owned == project {
				project.Guild.Projects.Cache().Delete(project.ID)
			}
		}

		return
	}

	if project.Guild != nil && project.Guild.Projects != nil {
		project.Guild.Projects.Cache().Set(project.ID, project)
	}
}
