package railway

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/danpilch/railpal/internal/api/railradar"
	"github.com/danpilch/railpal/internal/timefmt"
)

const (
	// AllTrainTypes disables the type filter.
	AllTrainTypes = "ALL"
	// DefaultStopsAt applies when upstream omits a stopsAt flag.
	DefaultStopsAt = true
	// NotAvailable fills text fields upstream did not supply.
	NotAvailable = timefmt.NotAvailable
)

// TrainSummary is one train running between two stations.
type TrainSummary struct {
	Number      string `json:"number"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Departure   string `json:"departure"`
	Arrival     string `json:"arrival"`
	Duration    string `json:"duration"`
	RunningDays string `json:"days"`
}

// TrainsBetweenFetcher is the between-stations capability.
type TrainsBetweenFetcher interface {
	TrainsBetween(ctx context.Context, from, to string) (*railradar.TrainsBetweenResponse, error)
}

// TrainLister builds normalized train lists between two station codes.
type TrainLister struct {
	fetcher TrainsBetweenFetcher
	logger  *logrus.Logger
}

// NewTrainLister returns a TrainLister backed by fetcher.
func NewTrainLister(fetcher TrainsBetweenFetcher, logger *logrus.Logger) *TrainLister {
	return &TrainLister{fetcher: fetcher, logger: logger}
}

// ListTrains returns the trains that stop at both from and to, optionally
// restricted to trainType. An empty list is not an error.
func (l *TrainLister) ListTrains(ctx context.Context, from, to, trainType string) ([]TrainSummary, error) {
	l.logger.WithFields(logrus.Fields{
		"from": from,
		"to":   to,
		"type": trainType,
	}).Debug("fetching trains between stations")

	resp, err := l.fetcher.TrainsBetween(ctx, from, to)
	if err != nil {
		return nil, upstreamError("fetching trains between stations", err)
	}

	raw := resp.Data.TrainsBetweenStationsResult
	if len(raw) == 0 {
		raw = resp.Data.Trains
	}

	trains := make([]TrainSummary, 0, len(raw))
	skipped := 0
	for _, t := range raw {
		if !stopsAt(t.FromStationSchedule) || !stopsAt(t.ToStationSchedule) {
			skipped++
			continue
		}
		trains = append(trains, summarize(t))
	}

	if !isAllTypes(trainType) {
		trains = FilterByType(trains, trainType)
	}

	l.logger.WithFields(logrus.Fields{
		"from":      from,
		"to":        to,
		"type":      trainType,
		"upstream":  len(raw),
		"passed":    skipped,
		"remaining": len(trains),
	}).Info("train list built")

	return trains, nil
}

// FilterByType keeps trains whose type equals trainType, ignoring case.
func FilterByType(trains []TrainSummary, trainType string) []TrainSummary {
	filtered := make([]TrainSummary, 0, len(trains))
	for _, t := range trains {
		if strings.EqualFold(t.Type, trainType) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func isAllTypes(trainType string) bool {
	return trainType == "" || strings.EqualFold(trainType, AllTrainTypes)
}

func stopsAt(s *railradar.StopSchedule) bool {
	if s == nil || s.StopsAt == nil {
		return DefaultStopsAt
	}
	return *s.StopsAt
}

func summarize(t railradar.TrainBetween) TrainSummary {
	var from, to railradar.StopSchedule
	if t.FromStationSchedule != nil {
		from = *t.FromStationSchedule
	}
	if t.ToStationSchedule != nil {
		to = *t.ToStationSchedule
	}

	return TrainSummary{
		Number:      t.TrainNumber.Or(NotAvailable),
		Name:        t.TrainName.Or(NotAvailable),
		Type:        t.Type.Or(NotAvailable),
		Departure:   timefmt.Clock(from.DepartureMinutes),
		Arrival:     timefmt.Clock(to.ArrivalMinutes),
		Duration:    timefmt.Duration(t.TravelTimeMinutes),
		RunningDays: t.RunningDaysBitmap.Or(NotAvailable),
	}
}
