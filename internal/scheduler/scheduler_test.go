package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/danpilch/railpal/internal/config"
)

type fakeChecker struct {
	checks  []string
	resets  int
	err     error
	onCheck func()
}

func (f *fakeChecker) CheckStatus(ctx context.Context, trainNumber string, now time.Time) error {
	f.checks = append(f.checks, trainNumber)
	if f.onCheck != nil {
		f.onCheck()
	}
	return f.err
}

func (f *fakeChecker) ResetNotificationState() {
	f.resets++
}

// 2024-03-04 is a Monday.
var monday = time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)

func TestTickRunsDueTasks(t *testing.T) {
	checker := &fakeChecker{}
	logger, _ := test.NewNullLogger()
	s := NewScheduler([]config.WatchConfig{
		{TrainNumber: "12951", Interval: 5 * time.Minute},
		{TrainNumber: "12301", Interval: 10 * time.Minute},
		{TrainNumber: "22691", Interval: 5 * time.Minute, Days: []string{"sunday"}},
	}, checker, logger)

	s.setupDailyTasks(monday)
	if len(s.Tasks()) != 2 {
		t.Fatalf("Expected 2 tasks on monday, got %d", len(s.Tasks()))
	}

	ctx := context.Background()
	s.tick(ctx, monday)
	s.tick(ctx, monday.Add(1*time.Minute))
	s.tick(ctx, monday.Add(5*time.Minute))
	s.tick(ctx, monday.Add(10*time.Minute))

	want := []string{"12951", "12301", "12951", "12951", "12301"}
	if len(checker.checks) != len(want) {
		t.Fatalf("Expected checks %v, got %v", want, checker.checks)
	}
	for i := range want {
		if checker.checks[i] != want[i] {
			t.Errorf("check[%d] = %s, want %s", i, checker.checks[i], want[i])
		}
	}
}

func TestTickResetsOnDayChange(t *testing.T) {
	checker := &fakeChecker{}
	logger, _ := test.NewNullLogger()
	s := NewScheduler([]config.WatchConfig{
		{TrainNumber: "22691", Interval: time.Hour, Days: []string{"tuesday"}},
	}, checker, logger)

	s.setupDailyTasks(monday)
	s.tick(context.Background(), monday)
	if len(checker.checks) != 0 {
		t.Fatalf("Expected no checks on monday, got %v", checker.checks)
	}

	s.tick(context.Background(), monday.Add(24*time.Hour))
	if checker.resets != 1 {
		t.Errorf("Expected 1 reset, got %d", checker.resets)
	}
	if len(checker.checks) != 1 {
		t.Errorf("Expected 1 check on tuesday, got %v", checker.checks)
	}
}

func TestTickSurvivesFailures(t *testing.T) {
	checker := &fakeChecker{err: errors.New("boom")}
	logger, hook := test.NewNullLogger()
	s := NewScheduler([]config.WatchConfig{{TrainNumber: "12951", Interval: time.Minute}}, checker, logger)

	s.setupDailyTasks(monday)
	s.tick(context.Background(), monday)
	s.tick(context.Background(), monday.Add(time.Minute))

	if len(checker.checks) != 2 {
		t.Errorf("Expected task to keep running after failure, got %d checks", len(checker.checks))
	}
	if hook.LastEntry() == nil || hook.LastEntry().Message != "task execution failed" {
		t.Errorf("Expected failure to be logged, got %+v", hook.LastEntry())
	}
}

func TestTasksReadableDuringCheck(t *testing.T) {
	checker := &fakeChecker{}
	logger, _ := test.NewNullLogger()
	s := NewScheduler([]config.WatchConfig{{TrainNumber: "12951", Interval: 5 * time.Minute}}, checker, logger)

	var seen []Task
	checker.onCheck = func() {
		done := make(chan []Task, 1)
		go func() { done <- s.Tasks() }()
		select {
		case seen = <-done:
		case <-time.After(time.Second):
			t.Fatal("Tasks blocked while a status check was running")
		}
	}

	s.setupDailyTasks(monday)
	s.tick(context.Background(), monday)

	if len(seen) != 1 || !seen[0].Next.Equal(monday) {
		t.Errorf("Expected the pending task during the check, got %+v", seen)
	}
	if next := s.Tasks()[0].Next; !next.Equal(monday.Add(5 * time.Minute)) {
		t.Errorf("Expected task rescheduled to %s, got %s", monday.Add(5*time.Minute), next)
	}
}

func TestStartStop(t *testing.T) {
	checker := &fakeChecker{}
	logger, _ := test.NewNullLogger()
	s := NewScheduler(nil, checker, logger)

	s.Start(context.Background())
	s.Stop()
}
