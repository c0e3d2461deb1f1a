package railway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/danpilch/railpal/internal/api/railradar"
)

// TrainDetail is the upstream train record, passed through undecoded.
type TrainDetail map[string]json.RawMessage

// Has reports whether upstream supplied field.
func (d TrainDetail) Has(field string) bool {
	_, ok := d[field]
	return ok
}

// DetailFetcher is the train detail capability.
type DetailFetcher interface {
	TrainDetail(ctx context.Context, trainNumber string) (*railradar.DetailResponse, error)
}

// DetailLookup fetches and unwraps single train records.
type DetailLookup struct {
	fetcher DetailFetcher
	logger  *logrus.Logger
}

// NewDetailLookup returns a DetailLookup backed by fetcher.
func NewDetailLookup(fetcher DetailFetcher, logger *logrus.Logger) *DetailLookup {
	return &DetailLookup{fetcher: fetcher, logger: logger}
}

// Lookup returns the detail record of trainNumber.
func (l *DetailLookup) Lookup(ctx context.Context, trainNumber string) (TrainDetail, error) {
	l.logger.WithField("train", trainNumber).Debug("fetching train details")

	resp, err := l.fetcher.TrainDetail(ctx, trainNumber)
	if err != nil {
		return nil, upstreamError("fetching train details", err)
	}
	if !resp.Success || resp.Data.Train == nil {
		return nil, fmt.Errorf("train %s: %w", trainNumber, ErrNotFound)
	}

	return TrainDetail(resp.Data.Train), nil
}
