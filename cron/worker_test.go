package cron

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"mediquery/services/tasks"

	"github.com/hibiken/asynq"
)

type stubSweeper struct {
	removed int
	calls   int
}

func (s *stubSweeper) Sweep() int {
	s.calls++
	return s.removed
}

type stubEnqueuer struct {
	enqueued []*asynq.Task
	err      error
}

func (s *stubEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.enqueued = append(s.enqueued, task)
	return &asynq.TaskInfo{}, nil
}

func TestSweepTaskSweepsAndReschedules(t *testing.T) {
	sweeper := &stubSweeper{removed: 2}
	queue := &stubEnqueuer{}
	handler := handleSweepTask(sweeper, queue)

	task, _, err := tasks.NewSessionSweepTask(time.Now())
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := handler(context.Background(), task); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if sweeper.calls != 1 {
		t.Fatalf("expected one sweep, got %d", sweeper.calls)
	}
	if len(queue.enqueued) != 1 {
		t.Fatalf("expected the successor sweep to be enqueued, got %d tasks", len(queue.enqueued))
	}

	next := queue.enqueued[0]
	if next.Type() != tasks.TypeSessionSweep {
		t.Fatalf("unexpected task type %q", next.Type())
	}
	var payload tasks.SweepPayload
	if err := json.Unmarshal(next.Payload(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if !payload.ScheduledFor.After(time.Now().Add(30 * time.Second)) {
		t.Fatalf("successor scheduled too soon: %v", payload.ScheduledFor)
	}
}
