package hefs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/edqe14/hefs/internal/constants"
)

// CacheType selects the response cache backend.
type CacheType string

const (
	CacheTypeMemory CacheType = "memory"
	CacheTypeNATS   CacheType = "nats"
	CacheTypeNone   CacheType = "none"
)

// CacheConfig configures the conditional-GET response cache. The zero Type
// means memory.
type CacheConfig struct {
	Type   CacheType
	Memory *MemoryCacheConfig
	NATS   *NATSKVConfig
	// Options apply to every backend. Nil uses DefaultCacheOptions.
	Options *CacheOptions
}

// MemoryCacheConfig bounds the in-process response cache.
type MemoryCacheConfig struct {
	// MaxSize is the number of responses kept. Zero uses DefaultCacheSize.
	MaxSize int
	// CleanupInterval is how often expired responses are swept. Zero uses
	// DefaultCleanupInterval.
	CleanupInterval time.Duration
}

// DefaultCacheConfig keeps up to DefaultCacheSize responses in memory.
func DefaultCacheConfig() *CacheConfig {
	return MemoryResponseCache(constants.DefaultCacheSize, constants.DefaultCleanupInterval)
}

// MemoryResponseCache returns a config for an in-process response cache.
func MemoryResponseCache(maxSize int, cleanupInterval time.Duration) *CacheConfig {
	return &CacheConfig{
		Type:    CacheTypeMemory,
		Memory:  &MemoryCacheConfig{MaxSize: maxSize, CleanupInterval: cleanupInterval},
		Options: DefaultCacheOptions(),
	}
}

// NATSResponseCache returns a config for a response cache shared through a
// JetStream key-value bucket.
func NATSResponseCache(config *NATSKVConfig) *CacheConfig {
	return &CacheConfig{
		Type:    CacheTypeNATS,
		NATS:    config,
		Options: DefaultCacheOptions(),
	}
}

// NewCacheFromConfig opens the backend described by config. A nil config
// uses DefaultCacheConfig.
func NewCacheFromConfig(config *CacheConfig) (Cache, error) {
	if config == nil {
		config = DefaultCacheConfig()
	}

	switch config.Type {
	case "", CacheTypeMemory:
		return newMemoryCacheFromConfig(config.Memory), nil
	case CacheTypeNATS:
		if config.NATS == nil {
			return nil, ErrNATSConfigRequired
		}

		return NewNATSKVCache(config.NATS)
	case CacheTypeNone:
		return NoOpCache{}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedCacheType, config.Type)
}

func newMemoryCacheFromConfig(config *MemoryCacheConfig) *MemoryCache {
	size, interval := constants.DefaultCacheSize, constants.DefaultCleanupInterval

	if config != nil {
		if config.MaxSize > 0 {
			size = config.MaxSize
		}

		if config.CleanupInterval > 0 {
			interval = config.CleanupInterval
		}
	}

	cache := NewMemoryCache(size)
	cache.StartCleanup(interval)

	return cache
}

// NoOpCache stores nothing. Every lookup misses.
type NoOpCache struct{}

func (NoOpCache) Get(context.Context, string) (*CacheEntry, error) { return nil, ErrCacheDisabled }
func (NoOpCache) Set(context.Context, string, *CacheEntry) error   { return nil }
func (NoOpCache) Delete(context.Context, string) error             { return nil }
func (NoOpCache) Clear(context.Context) error                      { return nil }
func (NoOpCache) Has(context.Context, string) bool                 { return false }

// CacheChain layers caches, fastest first. A hit in a later layer is copied
// into the earlier ones. Writes go to every layer.
type CacheChain struct {
	layers []Cache
}

// NewCacheChain layers caches in lookup order.
func NewCacheChain(layers ...Cache) *CacheChain {
	return &CacheChain{layers: layers}
}

func (c *CacheChain) Get(ctx context.Context, key string) (*CacheEntry, error) {
	for depth, layer := range c.layers {
		entry, err := layer.Get(ctx, key)
		if err != nil {
			continue
		}

		for _, faster := range c.layers[:depth] {
			_ = faster.Set(ctx, key, entry)
		}

		return entry, nil
	}

	return nil, ErrKeyNotFoundInAnyCache
}

func (c *CacheChain) Set(ctx context.Context, key string, entry *CacheEntry) error {
	return c.each(func(layer Cache) error { return layer.Set(ctx, key, entry) })
}

func (c *CacheChain) Delete(ctx context.Context, key string) error {
	return c.each(func(layer Cache) error { return layer.Delete(ctx, key) })
}

func (c *CacheChain) Clear(ctx context.Context) error {
	return c.each(func(layer Cache) error { return layer.Clear(ctx) })
}

func (c *CacheChain) Has(ctx context.Context, key string) bool {
	for _, layer := range c.layers {
		if layer.Has(ctx, key) {
			return true
		}
	}

	return false
}

// Close releases every layer that holds resources.
func (c *CacheChain) Close() error {
	return c.each(CloseCache)
}

// each applies fn to every layer and joins the failures.
func (c *CacheChain) each(fn func(Cache) error) error {
	errs := make([]error, 0, len(c.layers))
	for _, layer := range c.layers {
		errs = append(errs, fn(layer))
	}

	return errors.Join(errs...)
}

// CloseCache closes cache when it implements io.Closer.
func CloseCache(cache Cache) error {
	if closer, ok := cache.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("closing response cache: %w", err)
		}
	}

	return nil
}
