package checkpoint

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Flusher makes everything written so far durable. The storage engine is one.
type Flusher interface {
	Flush() error
}

// Checkpoint records the last successful flush.
type Checkpoint struct {
	Seq       uint64        `json:"seq"`
	Timestamp time.Time     `json:"timestamp"`
	Took      time.Duration `json:"took"`
}

// CheckpointManager flushes a Flusher on a fixed interval.
type CheckpointManager struct {
	target   Flusher
	interval time.Duration
	logger   *zap.Logger

	last   Checkpoint
	failed uint64
	mu     sync.Mutex
}
