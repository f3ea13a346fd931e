package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultPollInterval интервал опроса статуса по умолчанию
const DefaultPollInterval = 5 * time.Second

// TaskPoller ожидает завершения удалённых задач
type TaskPoller struct {
	source   TaskStatusSource
	interval time.Duration
	logger   *zap.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewTaskPoller создаёт новый экземпляр TaskPoller
func NewTaskPoller(source TaskStatusSource, interval time.Duration, logger *zap.Logger) *TaskPoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &TaskPoller{
		source:   source,
		interval: interval,
		logger:   logger,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// WaitForTasks опрашивает задачи, пока все не дойдут до финального состояния
// или не истечёт timeout (0 означает без ограничения). Возвращает false по таймауту.
// Незавершённые задачи не отменяются и продолжают выполняться удалённо.
func (p *TaskPoller) WaitForTasks(ctx context.Context, taskIDs []string, timeout time.Duration) (bool, error) {
	start := p.now()
	pending := make(map[string]struct{}, len(taskIDs))
	for _, id := range taskIDs {
		pending[id] = struct{}{}
	}

	for {
		for _, id := range taskIDs {
			if _, ok := pending[id]; !ok {
				continue
			}
			finished, err := p.checkTask(ctx, id)
			if err != nil {
				return false, err
			}
			if finished {
				delete(pending, id)
			}
		}

		elapsed := p.now().Sub(start)
		if len(pending) == 0 {
			p.logger.Info("Tasks completed",
				zap.Strings("task_ids", taskIDs),
				zap.Duration("elapsed", elapsed),
			)
			return true, nil
		}

		wait := p.interval
		if timeout > 0 {
			if elapsed >= timeout {
				break
			}
			if remaining := timeout - elapsed; remaining < wait {
				wait = remaining
			}
		}

		p.logger.Debug("Waiting for tasks",
			zap.Int("pending", len(pending)),
			zap.Duration("elapsed", elapsed),
		)

		if err := p.sleep(ctx, wait); err != nil {
			return false, err
		}
	}

	p.logger.Warn(fmt.Sprintf("Stopped waiting for %d tasks after %s", len(taskIDs), timeout),
		zap.Strings("task_ids", taskIDs),
		zap.Duration("timeout", timeout),
	)
	return false, nil
}

// checkTask возвращает true, если задача завершена, отменена или упала
func (p *TaskPoller) checkTask(ctx context.Context, taskID string) (bool, error) {
	task, err := p.source.TaskStatus(ctx, taskID)
	if err != nil {
		return false, fmt.Errorf("failed to get task status: %w", err)
	}

	if !task.State.IsValid() {
		return false, fmt.Errorf("task %s has unknown state %q", taskID, task.State)
	}
	if !task.Finished() {
		return false, nil
	}

	if task.Unsuccessful() && task.ErrorMessage != "" {
		p.logger.Warn(task.ErrorMessage,
			zap.String("task_id", taskID),
			zap.String("state", task.State.String()),
		)
	}

	return true, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
