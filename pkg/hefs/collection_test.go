package hefs_test

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edqe14/hefs/pkg/hefs"
)

func guild(id string) *hefs.Guild {
	return hefs.NewGuild(hefs.GuildConfig{ID: id, Name: "Guild " + id}, nil)
}

func TestCollection(t *testing.T) {
	t.Parallel()

	a, b, c := guild("a"), guild("b"), guild("c")
	collection := hefs.NewCollection(a, b)

	assert.Equal(t, 2, collection.Len())
	assert.Equal(t, []string{"a", "b"}, collection.Keys())

	got, ok := collection.Get("b")
	assert.True(t, ok)
	assert.Same(t, b, got)

	_, ok = collection.Get("missing")
	assert.False(t, ok)

	collection.Set("c", c)
	collection.Set("a", guild("a"))
	assert.Equal(t, []string{"a", "b", "c"}, collection.Keys(), "re-setting keeps the position")

	first, ok := collection.First()
	assert.True(t, ok)
	assert.NotSame(t, a, first, "the last writer wins")

	filtered := collection.Filter(func(g *hefs.Guild) bool { return g.ID != "b" })
	assert.Len(t, filtered, 2)
	assert.Equal(t, 3, collection.Len(), "filter does not mutate")

	assert.True(t, collection.Delete("b"))
	assert.False(t, collection.Delete("b"))
	assert.False(t, collection.Has("b"))
	assert.Equal(t, []string{"a", "c"}, collection.Keys())

	collection.Clear()
	assert.Zero(t, collection.Len())

	_, ok = collection.First()
	assert.False(t, ok)
}

func TestCollection_SnapshotsAreCopies(t *testing.T) {
	t.Parallel()

	collection := hefs.NewCollection(guild("a"))

	keys := collection.Keys()
	keys[0] = "changed"

	values := collection.Values()
	values[0] = nil

	assert.Equal(t, []string{"a"}, collection.Keys())
	assert.NotNil(t, collection.Values()[0])
}

func TestCollection_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	collection := hefs.NewCollection[*hefs.Guild]()

	var waitGroup sync.WaitGroup

	for i := 0; i < 16; i++ {
		waitGroup.Add(1)

		go func(n int) {
			defer waitGroup.Done()

			id := strconv.Itoa(n % 4)
			collection.Set(id, guild(id))
			_ = collection.Values()
			_, _ = collection.Get(id)
		}(i)
	}

	waitGroup.Wait()

	assert.Equal(t, 4, collection.Len())
}
