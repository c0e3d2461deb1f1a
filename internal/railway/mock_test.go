package railway

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/danpilch/railpal/internal/api/railradar"
)

// MockClient implements every upstream capability from canned JSON bodies or errors.
type MockClient struct {
	t *testing.T

	stations    string
	between     string
	schedule    string
	live        string
	detail      string
	stationsErr error
	betweenErr  error
	scheduleErr error
	liveErr     error
	detailErr   error

	liveCalls int
}

func (m *MockClient) decode(body string, out any) {
	m.t.Helper()
	if err := json.Unmarshal([]byte(body), out); err != nil {
		m.t.Fatalf("bad fixture: %v", err)
	}
}

func (m *MockClient) SearchStations(ctx context.Context, query string) (*railradar.StationSearchResponse, error) {
	if m.stationsErr != nil {
		return nil, m.stationsErr
	}
	var resp railradar.StationSearchResponse
	m.decode(m.stations, &resp)
	return &resp, nil
}

func (m *MockClient) TrainsBetween(ctx context.Context, from, to string) (*railradar.TrainsBetweenResponse, error) {
	if m.betweenErr != nil {
		return nil, m.betweenErr
	}
	var resp railradar.TrainsBetweenResponse
	m.decode(m.between, &resp)
	return &resp, nil
}

func (m *MockClient) TrainSchedule(ctx context.Context, trainNumber, journeyDate string) (*railradar.ScheduleResponse, error) {
	if _, ok := ctx.Deadline(); !ok {
		m.t.Error("Expected schedule fetch to carry a deadline")
	}
	if m.scheduleErr != nil {
		return nil, m.scheduleErr
	}
	var resp railradar.ScheduleResponse
	m.decode(m.schedule, &resp)
	return &resp, nil
}

func (m *MockClient) TrainLive(ctx context.Context, trainNumber, journeyDate string) (*railradar.LiveResponse, error) {
	m.liveCalls++
	if _, ok := ctx.Deadline(); !ok {
		m.t.Error("Expected live fetch to carry a deadline")
	}
	if m.liveErr != nil {
		return nil, m.liveErr
	}
	var resp railradar.LiveResponse
	m.decode(m.live, &resp)
	return &resp, nil
}

func (m *MockClient) TrainDetail(ctx context.Context, trainNumber string) (*railradar.DetailResponse, error) {
	if m.detailErr != nil {
		return nil, m.detailErr
	}
	var resp railradar.DetailResponse
	m.decode(m.detail, &resp)
	return &resp, nil
}

func nullLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}
