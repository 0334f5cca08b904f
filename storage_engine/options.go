package storageengine

import (
	"KzDB/types"

	"go.uber.org/zap"
)

const (
	KiB = 1 << 10
	MiB = 1 << 20
)

// Options configures Open.
type Options struct {
	// PoolSize is the number of frames in the buffer pool.
	PoolSize int
	// VictimCacheBytes bounds the second-tier cache of evicted pages, 0 disables it.
	VictimCacheBytes int64
	Logger           *zap.Logger
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		PoolSize:         types.BufferPoolSize,
		VictimCacheBytes: 32 * MiB,
		Logger:           zap.NewNop(),
	}
}

type Option func(*Options)

func WithPoolSize(frames int) Option {
	return func(o *Options) { o.PoolSize = frames }
}

func WithVictimCacheBytes(n int64) Option {
	return func(o *Options) { o.VictimCacheBytes = n }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}
