package client

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edqe14/hefs/pkg/hefs"
)

func TestGuildManager_Resolve(t *testing.T) {
	t.Parallel()

	stub := newHydratedStub(t)
	client := newTestClient(t, stub, nil)
	guilds := client.Guilds()

	alpha := guilds.Resolve(hefs.GuildID("g1"))
	require.NotNil(t, alpha)
	assert.Equal(t, "Alpha", alpha.Name)
	assert.Equal(t, "https://discord.gg/abc", alpha.Invite)
	assert.Equal(t, time.Date(2021, 7, 31, 0, 0, 0, 0, time.UTC), alpha.Debut)
	assert.Equal(t, "Alpha", alpha.String())

	t.Run("same instance for known ids", func(t *testing.T) {
		t.Parallel()

		assert.Same(t, alpha, guilds.Resolve(hefs.GuildID("g1")))
	})

	t.Run("nil for unknown ids", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, guilds.Resolve(hefs.GuildID("missing")))
		assert.Nil(t, guilds.Resolve(hefs.Ref((*hefs.Guild)(nil))))

		_, ok := guilds.ResolveID(hefs.Ref((*hefs.Guild)(nil)))
		assert.False(t, ok)

		id, ok := guilds.ResolveID(hefs.GuildID("missing"))
		assert.False(t, ok)
		assert.Empty(t, id)
	})

	t.Run("live entities resolve to themselves", func(t *testing.T) {
		t.Parallel()

		detached := hefs.NewGuild(hefs.GuildConfig{ID: "x", Name: "Detached"}, nil)
		assert.Same(t, detached, guilds.Resolve(detached.Ref()))
		assert.Same(t, alpha, guilds.Resolve(guilds.Resolve(alpha.Ref()).Ref()))

		id, ok := guilds.ResolveID(detached.Ref())
		assert.True(t, ok)
		assert.Equal(t, "x", id)
	})

	t.Run("ResolveID of a cached id", func(t *testing.T) {
		t.Parallel()

		id, ok := guilds.ResolveID(hefs.GuildID("g2"))
		assert.True(t, ok)
		assert.Equal(t, "g2", id)
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestGuildManager_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("cached id performs no request", func(t *testing.T) {
		t.Parallel()

		stub := newHydratedStub(t)
		client := newTestClient(t, stub, nil)
		before := client.Guilds().Resolve(hefs.GuildID("g1"))

		guild, err := client.Guilds().Fetch(context.Background(), "g1")
		require.NoError(t, err)
		assert.Same(t, before, guild)
		assert.Zero(t, stub.callCount(http.MethodGet, "/guilds/g1"))
	})

	t.Run("forced fetch requests and overwrites", func(t *testing.T) {
		t.Parallel()

		stub := newHydratedStub(t)
		stub.respond(http.MethodGet, "/guilds/g1", http.StatusOK, `{"_id": "g1", "name": "Alpha Prime", "invite": "xyz"}`)
		client := newTestClient(t, stub, nil)
		before := client.Guilds().Resolve(hefs.GuildID("g1"))

		guild, err := client.Guilds().Fetch(context.Background(), "g1", hefs.WithForce())
		require.NoError(t, err)
		assert.Equal(t, 1, stub.callCount(http.MethodGet, "/guilds/g1"))
		assert.Equal(t, "Alpha Prime", guild.Name)
		assert.Equal(t, "https://discord.gg/xyz", guild.Invite)
		assert.Same(t, guild, client.Guilds().Resolve(hefs.GuildID("g1")))
		assert.Same(t, before, guild, "cached instance is updated in place")
		assert.True(t, guild.Debut.IsZero(), "fields missing from the response are cleared")
	})

	t.Run("uncached id is fetched and cached", func(t *testing.T) {
		t.Parallel()

		stub := newAPIStub(t)
		stub.respond(http.MethodGet, "/guilds/g3", http.StatusOK, `{"_id": "g3", "name": "Gamma", "invite": "ggg"}`)
		client := newTestClient(t, stub, disableHydration)

		guild, err := client.Guilds().Fetch(context.Background(), "g3")
		require.NoError(t, err)
		assert.Same(t, guild, client.Guilds().Resolve(hefs.GuildID("g3")))
		require.NotNil(t, guild.Projects)
		assert.Same(t, guild, guild.Projects.Guild())
	})

	t.Run("WithoutCache leaves the cache untouched", func(t *testing.T) {
		t.Parallel()

		stub := newAPIStub(t)
		stub.respond(http.MethodGet, "/guilds/g3", http.StatusOK, `{"_id": "g3", "name": "Gamma"}`)
		client := newTestClient(t, stub, disableHydration)

		guild, err := client.Guilds().Fetch(context.Background(), "g3", hefs.WithoutCache())
		require.NoError(t, err)
		assert.Equal(t, "Gamma", guild.Name)
		assert.False(t, client.Guilds().Cache().Has("g3"))
	})

	t.Run("404 rejects and keeps the cache", func(t *testing.T) {
		t.Parallel()

		stub := newHydratedStub(t)
		client := newTestClient(t, stub, nil)

		guild, err := client.Guilds().Fetch(context.Background(), "nope")
		require.Error(t, err)
		assert.Nil(t, guild)
		assert.True(t, hefs.IsNotFound(err))
		assert.Equal(t, []string{"g1", "g2"}, client.Guilds().Cache().Keys())
	})

	t.Run("empty id is a validation error", func(t *testing.T) {
		t.Parallel()

		stub := newAPIStub(t)
		client := newTestClient(t, stub, disableHydration)

		_, err := client.Guilds().Fetch(context.Background(), "")
		require.Error(t, err)
		assert.True(t, hefs.IsValidation(err))
	})
}

func TestGuildManager_FetchAll(t *testing.T) {
	t.Parallel()

	stub := newHydratedStub(t)
	client := newTestClient(t, stub, nil)

	snapshot, err := client.Guilds().FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, snapshot, 2)
	assert.Equal(t, 1, stub.callCount(http.MethodGet, "/guilds/"), "snapshot performs no request")

	forced, err := client.Guilds().FetchAll(context.Background(), hefs.WithForce())
	require.NoError(t, err)
	assert.Len(t, forced, 2)
	assert.Equal(t, 2, stub.callCount(http.MethodGet, "/guilds/"))
	assert.Same(t, snapshot[0], forced[0])
}

func TestGuildManager_CreateEditDelete(t *testing.T) {
	t.Parallel()

	stub := newAPIStub(t)
	stub.respond(http.MethodPost, "/guilds/", http.StatusCreated, `{"_id": "g9", "name": "Nine", "invite": "nine"}`)
	stub.respond(http.MethodPatch, "/guilds/g9", http.StatusOK, `{"_id": "g9", "name": "Nine v2", "invite": "nine2"}`)
	stub.respond(http.MethodDelete, "/guilds/g9", http.StatusNoContent, ``)
	client := newTestClient(t, stub, disableHydration)
	ctx := context.Background()

	_, err := client.Guilds().Create(ctx, nil)
	require.Error(t, err)
	assert.True(t, hefs.IsValidation(err))
	assert.Zero(t, stub.callCount(http.MethodPost, "/guilds/"))

	guild, err := client.Guilds().Create(ctx, &hefs.GuildConfig{ID: "ignored", Name: "Nine", Invite: "nine"})
	require.NoError(t, err)
	assert.Equal(t, "g9", guild.ID)
	assert.Same(t, guild, client.Guilds().Resolve(hefs.GuildID("g9")))

	var sent map[string]interface{}
	decodeJSON(t, stub.lastBody(http.MethodPost, "/guilds/"), &sent)
	assert.NotContains(t, sent, "_id")
	assert.Equal(t, "Nine", sent["name"])

	edited, err := guild.Edit(ctx, &hefs.GuildConfig{Name: "Nine v2"})
	require.NoError(t, err)
	assert.Same(t, guild, edited)

	var patch map[string]interface{}
	decodeJSON(t, stub.lastBody(http.MethodPatch, "/guilds/g9"), &patch)
	assert.Equal(t, map[string]interface{}{"name": "Nine v2"}, patch, "a partial edit sends only the given field")
	assert.Equal(t, "Nine v2", guild.Name)
	assert.Equal(t, "https://discord.gg/nine2", guild.Invite)

	_, err = guild.Edit(ctx, nil)
	assert.True(t, hefs.IsValidation(err))

	require.NoError(t, guild.Delete(ctx))
	assert.Nil(t, client.Guilds().Resolve(hefs.GuildID("g9")))
	assert.False(t, client.Guilds().Cache().Has("g9"))
}

func TestGuildManager_DeleteFailureKeepsCache(t *testing.T) {
	t.Parallel()

	stub := newHydratedStub(t)
	stub.respond(http.MethodDelete, "/guilds/g1", http.StatusForbidden, `{"error":"forbidden"}`)
	client := newTestClient(t, stub, nil)

	guild := client.Guilds().Resolve(hefs.GuildID("g1"))
	require.NotNil(t, guild)

	err := guild.Delete(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, hefs.StatusCode(err))
	assert.True(t, client.Guilds().Cache().Has("g1"))
}

func TestGuildManager_ConcurrentFetchLastWriterWins(t *testing.T) {
	t.Parallel()

	var counter atomic.Int64

	stub := newAPIStub(t)
	stub.handle(http.MethodGet, "/guilds/g1", func(w http.ResponseWriter, _ *http.Request) {
		n := counter.Add(1)
		_, _ = fmt.Fprintf(w, `{"_id": "g1", "name": "version %d", "invite": "abc"}`, n)
	})
	client := newTestClient(t, stub, disableHydration)

	const workers = 8

	var waitGroup sync.WaitGroup

	results := make([]*hefs.Guild, workers)

	for i := 0; i < workers; i++ {
		waitGroup.Add(1)

		go func(index int) {
			defer waitGroup.Done()

			guild, err := client.Guilds().Fetch(context.Background(), "g1", hefs.WithForce())
			assert.NoError(t, err)

			results[index] = guild
		}(i)
	}

	waitGroup.Wait()

	assert.Equal(t, workers, stub.callCount(http.MethodGet, "/guilds/g1"))
	assert.Equal(t, 1, client.Guilds().Cache().Len())

	cached := client.Guilds().Resolve(hefs.GuildID("g1"))
	require.NotNil(t, cached)
	assert.Regexp(t, `^version [1-8]$`, cached.Name)

	for _, guild := range results {
		assert.Same(t, cached, guild)
	}
}
