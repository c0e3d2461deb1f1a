package railway

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/danpilch/railpal/internal/api/railradar"
)

// NonPassengerKeywords mark search hits that are infrastructure co-located
// with a station (sheds, yards, depots) rather than somewhere to board.
var NonPassengerKeywords = []string{"shed", "yard", "depot", "loco", "cab", "goods"}

// FallbackPolicy decides what Resolve does when every candidate is excluded.
type FallbackPolicy string

const (
	// FallbackFirstCandidate returns the first unfiltered candidate.
	FallbackFirstCandidate FallbackPolicy = "first"
	// FallbackStrict reports ErrNotFound instead.
	FallbackStrict FallbackPolicy = "strict"
)

// StationSearcher is the station search capability.
type StationSearcher interface {
	SearchStations(ctx context.Context, query string) (*railradar.StationSearchResponse, error)
}

// StationResolver turns a free-text station name into a station code.
//
// Selection is first-match in upstream order after exclusion, not a best
// string match, so a query like "delhi" may resolve to a smaller station
// that upstream happens to rank first.
type StationResolver struct {
	search   StationSearcher
	keywords []string
	fallback FallbackPolicy
	logger   *logrus.Logger
}

// NewStationResolver returns a resolver excluding NonPassengerKeywords. An
// empty fallback means FallbackFirstCandidate.
func NewStationResolver(search StationSearcher, fallback FallbackPolicy, logger *logrus.Logger) *StationResolver {
	if fallback == "" {
		fallback = FallbackFirstCandidate
	}
	return &StationResolver{
		search:   search,
		keywords: NonPassengerKeywords,
		fallback: fallback,
		logger:   logger,
	}
}

// Resolve returns the station code best matching name.
func (r *StationResolver) Resolve(ctx context.Context, name string) (string, error) {
	resp, err := r.search.SearchStations(ctx, name)
	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"station": name,
			"error":   err,
		}).Error("station search failed")
		return "", upstreamError("searching stations", err)
	}

	stations := resp.Data.Stations
	if len(stations) == 0 {
		r.logger.WithField("station", name).Warn("no stations found")
		return "", fmt.Errorf("station %q: %w", name, ErrNotFound)
	}

	chosen, ok := r.choose(stations)
	if !ok {
		r.logger.WithFields(logrus.Fields{
			"station":    name,
			"candidates": len(stations),
		}).Warn("only non-passenger stations found")
		return "", fmt.Errorf("station %q: %w", name, ErrNotFound)
	}

	r.logger.WithFields(logrus.Fields{
		"station": name,
		"code":    chosen.Code,
		"match":   chosen.Name,
	}).Info("station resolved")

	return chosen.Code, nil
}

func (r *StationResolver) choose(stations []railradar.StationCandidate) (railradar.StationCandidate, bool) {
	for _, s := range stations {
		if !IsNonPassenger(s.Name, r.keywords) {
			return s, true
		}
	}
	if r.fallback == FallbackStrict {
		return railradar.StationCandidate{}, false
	}
	return stations[0], true
}

// IsNonPassenger reports whether name contains any of keywords, ignoring case.
func IsNonPassenger(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
