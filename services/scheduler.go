package services

import (
	"context"
	"time"

	"github.com/madflojo/tasks"
	"go.uber.org/zap"
)

type SchedulerService interface {
	// ScheduleDispatch queues a one-shot run of the given dispatch func.
	// The task is dropped after its single run whether it succeeds or not;
	// a failed dispatch parks the record for manual review, it is never
	// retried from here.
	ScheduleDispatch(withdrawalID string, run func(ctx context.Context) error)
}

func NewSchedulerService(scheduler *tasks.Scheduler, log *zap.Logger) SchedulerService {
	return &schedulerService{
		service: service{
			log: log,
		},
		scheduler: scheduler,
	}
}

type schedulerService struct {
	service
	scheduler *tasks.Scheduler
}

func (s *schedulerService) ScheduleDispatch(withdrawalID string, run func(ctx context.Context) error) {
	s.scheduler.AddWithID(withdrawalID, &tasks.Task{
		TaskContext: tasks.TaskContext{Context: context.Background()},
		RunOnce:     true,
		Interval:    1 * time.Second,
		FuncWithTaskContext: func(t tasks.TaskContext) error {
			s.log.Info("dispatching approved withdrawal...", zap.String("withdrawal_id", withdrawalID))
			if err := run(t.Context); err != nil {
				s.log.Error("dispatching withdrawal", zap.String("withdrawal_id", withdrawalID), zap.Error(err))
			}
			return nil
		},
	})
}
