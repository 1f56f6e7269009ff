package task

import (
	"context"
	"fmt"

	"github.com/ClareAI/astra-voice-bridge/pkg/logger"
	"go.uber.org/zap"
)

// ChannelBus is the default in-process task bus: a buffered channel drained
// by a small worker pool. Publishing never blocks the webhook path; if the
// buffer is ever full the publish fails and the placeholder script's own
// fallback recovers the caller.
type ChannelBus struct {
	tasks   chan UtteranceTask
	workers int
}

// NewChannelBus creates an in-process bus with the given worker count.
func NewChannelBus(workers int) *ChannelBus {
	if workers <= 0 {
		workers = 1
	}
	return &ChannelBus{
		tasks:   make(chan UtteranceTask, 256),
		workers: workers,
	}
}

// Publish enqueues a task without blocking.
func (b *ChannelBus) Publish(ctx context.Context, task UtteranceTask) error {
	select {
	case b.tasks <- task:
		logger.Base().Debug("task published",
			zap.String("task_id", task.TaskID),
			zap.String("call_sid", task.CallSID))
		return nil
	default:
		return fmt.Errorf("task queue full, dropping task %s", task.TaskID)
	}
}

// Subscribe starts the worker pool. Workers run until the context is
// cancelled; tasks already started run to completion.
func (b *ChannelBus) Subscribe(ctx context.Context, handler func(UtteranceTask)) error {
	for i := 0; i < b.workers; i++ {
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case t := <-b.tasks:
					handler(t)
				}
			}
		}()
	}
	logger.Base().Info("task workers started", zap.Int("workers", b.workers))
	return nil
}
