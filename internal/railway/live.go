package railway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/danpilch/railpal/internal/api/railradar"
	"github.com/danpilch/railpal/internal/timefmt"
)

const (
	journeyDateLayout    = "2006-01-02"
	journeyDateLenient   = "2006-1-2"
	DefaultFetchTimeout  = 10 * time.Second
	DefaultDelayMinutes  = 0
	UnknownStationCode   = NotAvailable
	UnknownStatus        = "UNKNOWN"
	StatusAtStation      = "AT_STATION"
	StatusRunningBetween = "RUNNING_BETWEEN"
)

const (
	MessageNoLiveData     = "No live data available."
	MessageRunningBetween = "Train is currently running between stations."
	MessageUnavailable    = "Train status is currently unavailable."
	messageAtStation      = "Train is currently standing at %s."
)

// RouteStop is one stop of a train's route, flagged when the train is there.
type RouteStop struct {
	StationCode        string          `json:"stationCode"`
	StationName        string          `json:"stationName"`
	ScheduledArrival   timefmt.Minutes `json:"scheduledArrivalMinutes"`
	ScheduledDeparture timefmt.Minutes `json:"scheduledDepartureMinutes"`
	IsCurrent          bool            `json:"isCurrent"`
}

// LiveStatusView merges a train's schedule with its live position.
// CurrentStationCode and DelayMinutes are nil when live data is unavailable.
type LiveStatusView struct {
	TrainNumber        string      `json:"trainNumber"`
	TrainName          string      `json:"trainName"`
	SourceName         string      `json:"source"`
	DestinationName    string      `json:"destination"`
	JourneyDate        string      `json:"journeyDate"`
	CurrentStationCode *string     `json:"currentStation"`
	DelayMinutes       *int        `json:"delay"`
	StatusMessage      string      `json:"statusMessage"`
	Route              []RouteStop `json:"route"`
}

// ScheduleFetcher is the static schedule capability.
type ScheduleFetcher interface {
	TrainSchedule(ctx context.Context, trainNumber, journeyDate string) (*railradar.ScheduleResponse, error)
}

// LiveFetcher is the live position capability.
type LiveFetcher interface {
	TrainLive(ctx context.Context, trainNumber, journeyDate string) (*railradar.LiveResponse, error)
}

// Reconciler builds LiveStatusViews. Schedule data is authoritative and
// required; live data is best effort.
type Reconciler struct {
	schedule     ScheduleFetcher
	live         LiveFetcher
	fetchTimeout time.Duration
	logger       *logrus.Logger
}

// NewReconciler returns a Reconciler that bounds each upstream fetch by
// fetchTimeout, or DefaultFetchTimeout when it is not positive.
func NewReconciler(schedule ScheduleFetcher, live LiveFetcher, fetchTimeout time.Duration, logger *logrus.Logger) *Reconciler {
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	return &Reconciler{
		schedule:     schedule,
		live:         live,
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}
}

// liveState is the outcome of the live fetch after degradation.
type liveState struct {
	stationCode *string
	delay       *int
	message     string
}

// Reconcile fetches the schedule, then the live position, then merges them.
// It returns either a complete view or an error, never a partial view.
func (r *Reconciler) Reconcile(ctx context.Context, trainNumber, journeyDate string) (*LiveStatusView, error) {
	date := NormalizeJourneyDate(journeyDate)
	log := r.logger.WithFields(logrus.Fields{
		"train": trainNumber,
		"date":  date,
	})

	sched, err := r.fetchSchedule(ctx, trainNumber, date)
	if err != nil {
		log.WithField("error", err).Warn("schedule unavailable")
		return nil, err
	}

	live, err := r.fetchLive(ctx, trainNumber, date)
	if err != nil {
		log.WithField("error", err).Error("live fetch failed")
		return nil, err
	}

	view := merge(sched, live, date)

	log.WithFields(logrus.Fields{
		"status": view.StatusMessage,
		"stops":  len(view.Route),
	}).Info("live status reconciled")

	return view, nil
}

func (r *Reconciler) fetchSchedule(ctx context.Context, trainNumber, date string) (*railradar.ScheduleResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()

	resp, err := r.schedule.TrainSchedule(ctx, trainNumber, date)
	if err != nil {
		if errors.Is(err, railradar.ErrUnexpectedStatus) {
			return nil, fmt.Errorf("train %s: %w: %w", trainNumber, ErrScheduleNotFound, err)
		}
		return nil, fmt.Errorf("fetching schedule: %w: %w", ErrReconciliationFailed, err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("train %s: %w", trainNumber, ErrScheduleNotFound)
	}
	if resp.Data.Train == nil || resp.Data.Route == nil {
		return nil, fmt.Errorf("schedule missing train or route: %w: %w", ErrReconciliationFailed, ErrMalformedResponse)
	}
	return resp, nil
}

func (r *Reconciler) fetchLive(ctx context.Context, trainNumber, date string) (liveState, error) {
	ctx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()

	noLive := liveState{message: MessageNoLiveData}

	resp, err := r.live.TrainLive(ctx, trainNumber, date)
	if err != nil {
		if errors.Is(err, railradar.ErrUnexpectedStatus) {
			r.logger.WithFields(logrus.Fields{
				"train": trainNumber,
				"error": err,
			}).Debug("live data degraded")
			return noLive, nil
		}
		return liveState{}, fmt.Errorf("fetching live position: %w: %w", ErrReconciliationFailed, err)
	}
	if !resp.Success {
		return noLive, nil
	}

	if resp.Data == nil || resp.Data.CurrentLocation.Null {
		return liveState{}, fmt.Errorf("live response missing location: %w: %w", ErrReconciliationFailed, ErrMalformedResponse)
	}

	loc := resp.Data.CurrentLocation
	code := loc.StationCode.Or(UnknownStationCode)
	delay := DefaultDelayMinutes
	if resp.Data.OverallDelayMinutes.Valid {
		delay = resp.Data.OverallDelayMinutes.Value
	}

	return liveState{
		stationCode: &code,
		delay:       &delay,
		message:     StatusMessage(loc.Status.Or(UnknownStatus), code),
	}, nil
}

func merge(sched *railradar.ScheduleResponse, live liveState, date string) *LiveStatusView {
	train := sched.Data.Train
	return &LiveStatusView{
		TrainNumber:        train.Number.Or(NotAvailable),
		TrainName:          train.Name,
		SourceName:         train.Source.Name,
		DestinationName:    train.Destination.Name,
		JourneyDate:        date,
		CurrentStationCode: live.stationCode,
		DelayMinutes:       live.delay,
		StatusMessage:      live.message,
		Route:              MarkCurrent(sched.Data.Route, live.stationCode),
	}
}

// StatusMessage renders a live status enumeration for display.
func StatusMessage(status, stationCode string) string {
	switch status {
	case StatusAtStation:
		return fmt.Sprintf(messageAtStation, stationCode)
	case StatusRunningBetween:
		return MessageRunningBetween
	default:
		return MessageUnavailable
	}
}

// MarkCurrent converts route into RouteStops, flagging every stop whose code
// equals current. A nil or unknown current code flags nothing.
func MarkCurrent(route []railradar.ScheduleStop, current *string) []RouteStop {
	stops := make([]RouteStop, len(route))
	for i, s := range route {
		stops[i] = RouteStop{
			StationCode:        s.Station.Code,
			StationName:        s.Station.Name,
			ScheduledArrival:   s.ArrivalMinutes,
			ScheduledDeparture: s.DepartureMinutes,
			IsCurrent:          current != nil && *current != UnknownStationCode && s.Station.Code == *current,
		}
	}
	return stops
}

// NormalizeJourneyDate canonicalizes a YYYY-M-D date to YYYY-MM-DD and
// returns anything unparsable unchanged.
func NormalizeJourneyDate(date string) string {
	t, err := time.Parse(journeyDateLenient, date)
	if err != nil {
		return date
	}
	return t.Format(journeyDateLayout)
}
