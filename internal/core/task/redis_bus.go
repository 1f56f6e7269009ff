package task

import (
	"context"
	"encoding/json"

	"github.com/ClareAI/astra-voice-bridge/pkg/logger"
	"github.com/ClareAI/astra-voice-bridge/pkg/redis"
	"go.uber.org/zap"
)

const (
	TaskChannel = "astra:voice:utterance:tasks"
)

// RedisBus implements the Bus interface using Redis Pub/Sub. It lets several
// replicas share one task channel; note the conversation store stays
// per-process, so continuity across replicas remains best-effort.
type RedisBus struct {
	redisSvc redis.RedisServiceInterface
}

// NewRedisBus creates a new Redis-based task bus
func NewRedisBus(redisSvc redis.RedisServiceInterface) *RedisBus {
	return &RedisBus{redisSvc: redisSvc}
}

// Publish sends a task to the bus
func (b *RedisBus) Publish(ctx context.Context, task UtteranceTask) error {
	logger.Base().Debug("publishing task",
		zap.String("task_id", task.TaskID),
		zap.String("call_sid", task.CallSID))
	return b.redisSvc.Publish(ctx, TaskChannel, task)
}

// Subscribe listens for tasks on the bus
func (b *RedisBus) Subscribe(ctx context.Context, handler func(UtteranceTask)) error {
	logger.Base().Info("subscribing to utterance tasks")
	return b.redisSvc.Subscribe(ctx, TaskChannel, func(payload string) {
		var t UtteranceTask
		if err := json.Unmarshal([]byte(payload), &t); err != nil {
			logger.Base().Error("failed to unmarshal task payload", zap.Error(err))
			return
		}
		handler(t)
	})
}
