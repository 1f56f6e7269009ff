package task

import (
	"context"
)

// UtteranceTask is the unit of asynchronous work behind one recognized span
// of caller speech. It snapshots everything the orchestrator needs so the
// webhook response can be flushed before any upstream work starts. Tasks are
// never deduplicated: re-sending an identical speech-result event schedules
// a fresh task.
type UtteranceTask struct {
	TaskID  string `json:"task_id"`
	CallSID string `json:"call_sid"`
	Caller  string `json:"caller"`
	Query   string `json:"query"`
}

// Bus decouples the webhook responder from the orchestrator. Publish must
// return without waiting on task execution.
type Bus interface {
	Publish(ctx context.Context, task UtteranceTask) error
	Subscribe(ctx context.Context, handler func(UtteranceTask)) error
}
