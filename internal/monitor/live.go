package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/danpilch/railpal/internal/railway"
)

// delayBucketMinutes groups delays so a train drifting from 6 to 8 minutes
// late does not notify twice.
const delayBucketMinutes = 5

type Reconciler interface {
	Reconcile(ctx context.Context, trainNumber, journeyDate string) (*railway.LiveStatusView, error)
}

type Notifier interface {
	SendLiveStatus(trainNumber, trainName, statusMessage string) error
	SendTrainDelay(trainNumber, trainName string, delayMinutes int, station string) error
}

// LiveMonitor polls a train's reconciled status and notifies on changes.
type LiveMonitor struct {
	reconciler Reconciler
	notifier   Notifier
	logger     *logrus.Logger

	mu             sync.Mutex
	lastStatus     map[string]string
	notifiedDelays map[string]int
}

func NewLiveMonitor(reconciler Reconciler, notifier Notifier, logger *logrus.Logger) *LiveMonitor {
	return &LiveMonitor{
		reconciler:     reconciler,
		notifier:       notifier,
		logger:         logger,
		lastStatus:     make(map[string]string),
		notifiedDelays: make(map[string]int),
	}
}

func (m *LiveMonitor) ResetNotificationState() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastStatus = make(map[string]string)
	m.notifiedDelays = make(map[string]int)
}

// CheckStatus reconciles trainNumber for the journey date of now and sends
// notifications for a changed status message or a new delay bucket.
func (m *LiveMonitor) CheckStatus(ctx context.Context, trainNumber string, now time.Time) error {
	date := now.Format("2006-01-02")

	view, err := m.reconciler.Reconcile(ctx, trainNumber, date)
	if err != nil {
		if errors.Is(err, railway.ErrScheduleNotFound) {
			m.logger.WithFields(logrus.Fields{
				"train": trainNumber,
				"date":  date,
			}).Warn("no schedule for watched train")
			return nil
		}
		return fmt.Errorf("reconciling train %s: %w", trainNumber, err)
	}

	if err := m.handleStatus(view); err != nil {
		return err
	}
	return m.handleDelay(view)
}

func (m *LiveMonitor) handleStatus(view *railway.LiveStatusView) error {
	m.mu.Lock()
	changed := m.lastStatus[view.TrainNumber] != view.StatusMessage
	m.lastStatus[view.TrainNumber] = view.StatusMessage
	m.mu.Unlock()

	if !changed {
		m.logger.WithFields(logrus.Fields{
			"train":  view.TrainNumber,
			"status": view.StatusMessage,
		}).Debug("status unchanged")
		return nil
	}

	m.logger.WithFields(logrus.Fields{
		"train":  view.TrainNumber,
		"status": view.StatusMessage,
	}).Info("train status changed")

	return m.notifier.SendLiveStatus(view.TrainNumber, view.TrainName, view.StatusMessage)
}

func (m *LiveMonitor) handleDelay(view *railway.LiveStatusView) error {
	if view.DelayMinutes == nil || *view.DelayMinutes <= 0 {
		return nil
	}
	delayMins := *view.DelayMinutes
	delayBucket := delayMins / delayBucketMinutes * delayBucketMinutes

	m.mu.Lock()
	lastBucket := m.notifiedDelays[view.TrainNumber]
	shouldNotify := delayBucket > lastBucket
	if shouldNotify {
		m.notifiedDelays[view.TrainNumber] = delayBucket
	}
	m.mu.Unlock()

	if !shouldNotify {
		m.logger.WithFields(logrus.Fields{
			"train":  view.TrainNumber,
			"delay":  delayMins,
			"bucket": delayBucket,
		}).Debug("delay already notified for this bucket")
		return nil
	}

	station := ""
	if view.CurrentStationCode != nil && *view.CurrentStationCode != railway.UnknownStationCode {
		station = *view.CurrentStationCode
	}

	m.logger.WithFields(logrus.Fields{
		"train":         view.TrainNumber,
		"delay_minutes": delayMins,
		"station":       station,
	}).Warn("train delayed")

	return m.notifier.SendTrainDelay(view.TrainNumber, view.TrainName, delayMins, station)
}
