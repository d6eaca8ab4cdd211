package client

import (
	"context"
	"fmt"

	"github.com/edqe14/hefs/pkg/hefs"
)

// GuildManager implements hefs.GuildsClient.
type GuildManager struct {
	*readiness
	entityCache[*hefs.Guild]

	client *Client
}

func newGuildManager(client *Client) *GuildManager {
	return &GuildManager{
		readiness:   newReadiness(),
		entityCache: newEntityCache[*hefs.Guild](),
		client:      client,
	}
}

func (m *GuildManager) hydrate(ctx context.Context) {
	m.setHydrating()
	defer m.markReady()

	if m.client.config.DisableHydration {
		return
	}

	_, err := m.FetchAll(ctx, hefs.WithForce())
	if err != nil {
		m.client.reportError(fmt.Errorf("hydrating guilds: %w", err))
	}
}

// Fetch implements hefs.GuildsClient.Fetch.
func (m *GuildManager) Fetch(ctx context.Context, id string, opts ...hefs.FetchOption) (*hefs.Guild, error) {
	if id == "" {
		return nil, &hefs.ValidationError{Op: "fetching guild", Reason: "id must not be empty"}
	}

	options := hefs.ApplyFetchOptions(opts...)

	if !options.Force {
		if guild, ok := m.cache.Get(id); ok {
			return guild, nil
		}
	}

	resp, err := m.client.httpClient.Get(ctx, m.client.endpoint(hefs.EndpointGuilds, id), nil)
	if err != nil {
		return nil, fmt.Errorf("getting guild: %w", err)
	}

	config, err := decodeOne[hefs.GuildConfig](resp.Body, "guild")
	if err != nil {
		return nil, err
	}

	if config.ID == "" {
		config.ID = id
	}

	if !options.Cache {
		return m.build(config), nil
	}

	return m.store(config), nil
}

// FetchAll implements hefs.GuildsClient.FetchAll.
func (m *GuildManager) FetchAll(ctx context.Context, opts ...hefs.FetchOption) ([]*hefs.Guild, error) {
	options := hefs.ApplyFetchOptions(opts...)

	if !options.Force {
		return m.cache.Values(), nil
	}

	resp, err := m.client.httpClient.Get(ctx, m.client.endpoint(hefs.EndpointGuilds, ""), nil)
	if err != nil {
		return nil, fmt.Errorf("listing guilds: %w", err)
	}

	configs, err := decodeList(resp.Body, "guild", guildConfigID, m.client.logger)
	if err != nil {
		return nil, err
	}

	guilds := make([]*hefs.Guild, 0, len(configs))

	for _, config := range configs {
		if options.Cache {
			guilds = append(guilds, m.store(config))
		} else {
			guilds = append(guilds, m.build(config))
		}
	}

	return guilds, nil
}

// Create implements hefs.GuildsClient.Create.
func (m *GuildManager) Create(ctx context.Context, config *hefs.GuildConfig, opts ...hefs.FetchOption) (*hefs.Guild, error) {
	if config == nil {
		return nil, &hefs.ValidationError{Op: "creating guild", Reason: "guild config must not be nil"}
	}

	options := hefs.ApplyFetchOptions(opts...)

	payload := *config
	payload.ID = ""

	resp, err := m.client.httpClient.Post(ctx, m.client.endpoint(hefs.EndpointGuilds, ""), &payload)
	if err != nil {
		return nil, fmt.Errorf("creating guild: %w", err)
	}

	created, err := decodeOne[hefs.GuildConfig](resp.Body, "guild")
	if err != nil {
		return nil, err
	}

	if !options.Cache || created.ID == "" {
		return m.build(created), nil
	}

	return m.store(created), nil
}

// Edit implements hefs.GuildsClient.Edit.
func (m *GuildManager) Edit(ctx context.Context, guild *hefs.Guild, config *hefs.GuildConfig) (*hefs.Guild, error) {
	if guild == nil || config == nil {
		return nil, &hefs.ValidationError{Op: "editing guild", Reason: "guild and config must not be nil"}
	}

	resp, err := m.client.httpClient.Patch(ctx, m.client.endpoint(hefs.EndpointGuilds, guild.ID), config)
	if err != nil {
		return nil, fmt.Errorf("editing guild %s: %w", guild.ID, err)
	}

	updated, err := decodeOne[hefs.GuildConfig](resp.Body, "guild")
	if err != nil {
		return nil, err
	}

	m.writes.Lock()
	defer m.writes.Unlock()

	guild.Apply(*updated)

	return guild, nil
}

// Delete implements hefs.GuildsClient.Delete.
func (m *GuildManager) Delete(ctx context.Context, guild *hefs.Guild) error {
	if guild == nil {
		return &hefs.ValidationError{Op: "deleting guild", Reason: "guild must not be nil"}
	}

	_, err := m.client.httpClient.Delete(ctx, m.client.endpoint(hefs.EndpointGuilds, guild.ID))
	if err != nil {
		return fmt.Errorf("deleting guild %s: %w", guild.ID, err)
	}

	m.cache.Delete(guild.ID)

	return nil
}

func (m *GuildManager) build(config *hefs.GuildConfig) *hefs.Guild {
	guild := hefs.NewGuild(*config, m.client)
	guild.Projects = newGuildProjects(m.client, guild)

	return guild
}

// store overwrites the cached guild in place, keeping references held by
// projects valid, or caches a new one.
func (m *GuildManager) store(config *hefs.GuildConfig) *hefs.Guild {
	m.writes.Lock()
	defer m.writes.Unlock()

	if guild, ok := m.cache.Get(config.ID); ok {
		guild.Apply(*config)

		return guild
	}

	guild := m.build(config)
	m.cache.Set(guild.ID, guild)

	return guild
}
