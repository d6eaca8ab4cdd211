package client

import (
	"context"
	"fmt"

	"github.com/edqe14/hefs/internal/constants"
	"github.com/edqe14/hefs/pkg/hefs"
)

// settingEndpoints maps each known property to the endpoint serving it.
var settingEndpoints = map[string]hefs.EndpointName{
	constants.WhitelistProperty: hefs.EndpointWhitelist,
}

// AdminManager implements hefs.AdminClient.
type AdminManager struct {
	*readiness
	entityCache[*hefs.Setting]

	client *Client
}

func newAdminManager(client *Client) *AdminManager {
	return &AdminManager{
		readiness:   newReadiness(),
		entityCache: newEntityCache[*hefs.Setting](),
		client:      client,
	}
}

// hydrate loads the whitelist. Settings are only served to an authenticated
// session.
func (m *AdminManager) hydrate(ctx context.Context) {
	m.setHydrating()
	defer m.markReady()

	if m.client.config.DisableHydration || m.client.config.Session == "" {
		return
	}

	_, err := m.Fetch(ctx, constants.WhitelistProperty, hefs.WithForce())
	if err != nil {
		m.client.reportError(fmt.Errorf("hydrating settings: %w", err))
	}
}

// Fetch implements hefs.AdminClient.Fetch.
func (m *AdminManager) Fetch(ctx context.Context, property string, opts ...hefs.FetchOption) (*hefs.Setting, error) {
	if property == "" {
		return nil, &hefs.ValidationError{Op: "fetching setting", Reason: "property must not be empty"}
	}

	options := hefs.ApplyFetchOptions(opts...)

	if !options.Force {
		if setting, ok := m.cache.Get(property); ok {
			return setting, nil
		}
	}

	name, ok := settingEndpoints[property]
	if !ok {
		return nil, fmt.Errorf("fetching setting %q: %w", property, hefs.ErrUnknownProperty)
	}

	resp, err := m.client.httpClient.Get(ctx, m.client.endpoint(name, ""), nil)
	if err != nil {
		return nil, fmt.Errorf("getting setting %s: %w", property, err)
	}

	config, err := decodeOne[hefs.SettingConfig](resp.Body, "setting")
	if err != nil {
		return nil, err
	}

	if config.ID == "" {
		config.ID = property
	}

	setting := hefs.NewSetting(*config, m.client)

	if options.Cache {
		m.cache.Set(property, setting)
	}

	return setting, nil
}
