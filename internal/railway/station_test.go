package railway

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/danpilch/railpal/internal/api/railradar"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		stations string
		fallback FallbackPolicy
		wantCode string
		wantErr  error
	}{
		{
			name:     "first passenger station wins",
			stations: `{"data":{"stations":[{"code":"NDLS","name":"New Delhi"},{"code":"DLI","name":"Old Delhi"}]}}`,
			wantCode: "NDLS",
		},
		{
			name:     "skips sheds and yards regardless of case",
			stations: `{"data":{"stations":[{"code":"NDSH","name":"New Delhi Loco SHED"},{"code":"NDYD","name":"New Delhi Yard"},{"code":"NDLS","name":"New Delhi"}]}}`,
			wantCode: "NDLS",
		},
		{
			name:     "skips goods and cab sidings",
			stations: `{"data":{"stations":[{"code":"KGS","name":"Kanpur Goods"},{"code":"KCB","name":"Kanpur Cabin"},{"code":"CNB","name":"Kanpur Central"}]}}`,
			wantCode: "CNB",
		},
		{
			name:     "falls back to first when all excluded",
			stations: `{"data":{"stations":[{"code":"TKD","name":"Tughlakabad Depot"},{"code":"TKDY","name":"Tughlakabad Yard"}]}}`,
			wantCode: "TKD",
		},
		{
			name:     "strict policy refuses all-excluded results",
			stations: `{"data":{"stations":[{"code":"TKD","name":"Tughlakabad Depot"}]}}`,
			fallback: FallbackStrict,
			wantErr:  ErrNotFound,
		},
		{
			name:     "strict policy still picks passenger station",
			stations: `{"data":{"stations":[{"code":"TKD","name":"Tughlakabad Depot"},{"code":"TKQ","name":"Tughlakabad"}]}}`,
			fallback: FallbackStrict,
			wantCode: "TKQ",
		},
		{
			name:     "empty result is not found",
			stations: `{"data":{"stations":[]}}`,
			wantErr:  ErrNotFound,
		},
		{
			name:     "absent stations is not found",
			stations: `{"success":true}`,
			wantErr:  ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockClient{t: t, stations: tt.stations}
			r := NewStationResolver(mock, tt.fallback, nullLogger())

			code, err := r.Resolve(context.Background(), "delhi")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if code != tt.wantCode {
				t.Errorf("Expected %s, got %s", tt.wantCode, code)
			}
		})
	}
}

func TestResolveUpstreamFailures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{name: "bad status", err: &railradar.StatusError{StatusCode: 503}, wantErr: ErrUpstreamUnavailable},
		{name: "transport", err: errors.New("executing request: connection refused"), wantErr: ErrUpstreamUnavailable},
		{name: "bad body", err: fmt.Errorf("%w: unexpected EOF", railradar.ErrDecode), wantErr: ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockClient{t: t, stationsErr: tt.err}
			r := NewStationResolver(mock, FallbackFirstCandidate, nullLogger())

			_, err := r.Resolve(context.Background(), "delhi")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
			if errors.Is(err, ErrNotFound) {
				t.Error("Upstream failure must not report not found")
			}
		})
	}
}

func TestIsNonPassenger(t *testing.T) {
	for _, name := range []string{"Ghaziabad Loco Shed", "TUGHLAKABAD YARD", "Electric Depot", "Goods Terminal", "West Cabin"} {
		if !IsNonPassenger(name, NonPassengerKeywords) {
			t.Errorf("Expected %q to be non-passenger", name)
		}
	}
	for _, name := range []string{"New Delhi", "Mumbai Central", "Howrah Jn"} {
		if IsNonPassenger(name, NonPassengerKeywords) {
			t.Errorf("Expected %q to be a passenger station", name)
		}
	}
}
