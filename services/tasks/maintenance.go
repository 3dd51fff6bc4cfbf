package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TypeSessionSweep = "session:sweep"

// SweepPayload carries the scheduling metadata of one sweep run.
type SweepPayload struct {
	ScheduledFor time.Time `json:"scheduledFor"`
}

// NewSessionSweepTask builds a session-sweep task that fires at the given
// time. The worker re-enqueues the next run after each sweep.
func NewSessionSweepTask(fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(SweepPayload{ScheduledFor: fireAt})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSessionSweep, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}
