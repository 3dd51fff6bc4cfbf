package cron

import (
	"context"
	"time"

	"mediquery/config"
	"mediquery/services/tasks"
	"mediquery/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// sweepInterval spaces consecutive session sweeps.
const sweepInterval = time.Minute

// sweeper evicts idle sessions and reports how many were removed. Satisfied
// by the session registry.
type sweeper interface {
	Sweep() int
}

// enqueuer schedules the next sweep run. Satisfied by *asynq.Client.
type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// InitMaintenanceWorker runs the async maintenance worker in background. Each
// sweep evicts idle sessions and schedules its own successor, so the queue
// always holds exactly one pending sweep.
func InitMaintenanceWorker(reg sweeper) {
	logger := utils.GetLogger()
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)
	client := asynq.NewClient(redisOpts)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSessionSweep, handleSweepTask(reg, client))

	if err := enqueueSweep(context.Background(), client, time.Now().Add(sweepInterval)); err != nil {
		logger.Warn("Failed to schedule initial session sweep", zap.Error(err))
	}

	go func() {
		logger.Info("Starting maintenance worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Warn("Maintenance worker failed to start",
					zap.Int("attempt", attempts),
					zap.Error(err))
				if attempts == maxAttempts {
					logger.Fatal("Maintenance worker exhausted retries")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleSweepTask(reg sweeper, client enqueuer) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		removed := reg.Sweep()
		if removed > 0 {
			utils.GetLogger().Info("Evicted idle sessions", zap.Int("removed", removed))
		}
		return enqueueSweep(ctx, client, time.Now().Add(sweepInterval))
	}
}

func enqueueSweep(ctx context.Context, client enqueuer, fireAt time.Time) error {
	task, opts, err := tasks.NewSessionSweepTask(fireAt)
	if err != nil {
		return err
	}
	_, err = client.EnqueueContext(ctx, task, opts...)
	return err
}
