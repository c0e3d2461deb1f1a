package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/danpilch/railpal/internal/config"
)

const tickInterval = 30 * time.Second

type StatusChecker interface {
	CheckStatus(ctx context.Context, trainNumber string, now time.Time) error
	ResetNotificationState()
}

// Task is one watched train and the next time it is due.
type Task struct {
	TrainNumber string
	Interval    time.Duration
	Next        time.Time
}

type Scheduler struct {
	watch   []config.WatchConfig
	monitor StatusChecker
	logger  *logrus.Logger

	mu         sync.Mutex
	tasks      []Task
	currentDay int
	stopCh     chan struct{}
	wg         sync.WaitGroup
}

func NewScheduler(watch []config.WatchConfig, monitor StatusChecker, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		watch:   watch,
		monitor: monitor,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
}

func (s *Scheduler) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	now := time.Now()
	s.setupDailyTasks(now)
	s.tick(ctx, now)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped: context cancelled")
			return
		case <-s.stopCh:
			s.logger.Info("scheduler stopped: stop signal received")
			return
		case t := <-ticker.C:
			s.tick(ctx, t)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	if now.Day() != s.currentDay {
		s.logger.Info("day changed, resetting tasks")
		s.monitor.ResetNotificationState()
		s.setupDailyTasks(now)
	}

	s.mu.Lock()
	var due []Task
	for _, task := range s.tasks {
		if !now.Before(task.Next) {
			due = append(due, task)
		}
	}
	s.mu.Unlock()

	for _, task := range due {
		s.executeTask(ctx, task, now)
		s.reschedule(task.TrainNumber, now.Add(task.Interval))
	}
}

func (s *Scheduler) reschedule(trainNumber string, next time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].TrainNumber == trainNumber {
			s.tasks[i].Next = next
		}
	}
}

func (s *Scheduler) setupDailyTasks(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentDay = now.Day()
	s.tasks = nil

	for _, w := range s.watch {
		if !w.IsActiveDay(now.Weekday()) {
			s.logger.WithFields(logrus.Fields{
				"train":   w.TrainNumber,
				"weekday": now.Weekday().String(),
			}).Debug("train not watched today")
			continue
		}
		s.tasks = append(s.tasks, Task{
			TrainNumber: w.TrainNumber,
			Interval:    w.Interval,
			Next:        now,
		})
	}

	s.logger.WithFields(logrus.Fields{
		"weekday":     now.Weekday().String(),
		"total_tasks": len(s.tasks),
	}).Info("daily tasks scheduled")
}

// Tasks returns a copy of the current task list.
func (s *Scheduler) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Task(nil), s.tasks...)
}

func (s *Scheduler) executeTask(ctx context.Context, task Task, now time.Time) {
	s.logger.WithFields(logrus.Fields{
		"train":          task.TrainNumber,
		"scheduled_time": task.Next.Format("15:04"),
	}).Debug("executing task")

	if err := s.monitor.CheckStatus(ctx, task.TrainNumber, now); err != nil {
		s.logger.WithFields(logrus.Fields{
			"train": task.TrainNumber,
			"error": err,
		}).Error("task execution failed")
	}
}
