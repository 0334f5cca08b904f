package checkpoint

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

/*
The checkpoint manager bounds how much work a crash can lose. Each checkpoint
flushes every dirty page and then page 0, so the file on disk is always the
state as of the last successful checkpoint or later.
*/

func NewCheckpointManager(target Flusher, interval time.Duration, logger *zap.Logger) (*CheckpointManager, error) {
	if interval <= 0 {
		return nil, errors.Errorf("checkpoint: interval must be positive, got %s", interval)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckpointManager{target: target, interval: interval, logger: logger}, nil
}

// SaveCheckpoint flushes the target now.
func (cm *CheckpointManager) SaveCheckpoint() (Checkpoint, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	start := time.Now()
	if err := cm.target.Flush(); err != nil {
		cm.failed++
		return cm.last, errors.WithMessage(err, "checkpoint failed")
	}

	cm.last = Checkpoint{
		Seq:       cm.last.Seq + 1,
		Timestamp: start,
		Took:      time.Since(start),
	}
	cm.logger.Debug("checkpoint saved",
		zap.Uint64("seq", cm.last.Seq),
		zap.Duration("took", cm.last.Took))
	return cm.last, nil
}

// LastCheckpoint returns the most recent successful checkpoint, zero if none.
func (cm *CheckpointManager) LastCheckpoint() Checkpoint {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.last
}

// Failures returns how many checkpoints have failed.
func (cm *CheckpointManager) Failures() uint64 {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.failed
}

// Run checkpoints every interval until ctx is done. A failed checkpoint is
// logged and retried on the next tick.
func (cm *CheckpointManager) Run(ctx context.Context) error {
	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := cm.SaveCheckpoint(); err != nil {
				cm.logger.Error("checkpoint", zap.Error(err))
			}
		}
	}
}
