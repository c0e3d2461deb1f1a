package railradar

import (
	"bytes"
	"encoding/json"

	"github.com/danpilch/railpal/internal/timefmt"
)

// Text is a scalar field that upstream sends as either a JSON string or a
// bare number/bool. It keeps the textual form and records whether the field
// was present at all.
type Text struct {
	Value   string
	Present bool
}

// UnmarshalJSON stores strings unquoted and any other scalar verbatim.
func (t *Text) UnmarshalJSON(data []byte) error {
	*t = Text{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text{Value: s, Present: true}
		return nil
	}
	*t = Text{Value: string(data), Present: true}
	return nil
}

// Or returns the value, or def when the field was absent.
func (t Text) Or(def string) string {
	if !t.Present {
		return def
	}
	return t.Value
}

// StationCandidate is a single hit from the station search endpoint.
type StationCandidate struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// StationSearchResponse is the envelope of the station search endpoint.
type StationSearchResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Stations []StationCandidate `json:"stations"`
	} `json:"data"`
}

// StopSchedule is the per-endpoint timing block of a train between two stations.
// StopsAt is nil when upstream omits the flag.
type StopSchedule struct {
	StopsAt          *bool           `json:"stopsAt"`
	ArrivalMinutes   timefmt.Minutes `json:"arrivalMinutes"`
	DepartureMinutes timefmt.Minutes `json:"departureMinutes"`
}

// TrainBetween is a raw train record from the between-stations endpoint.
type TrainBetween struct {
	TrainNumber         Text            `json:"trainNumber"`
	TrainName           Text            `json:"trainName"`
	Type                Text            `json:"type"`
	FromStationSchedule *StopSchedule   `json:"fromStationSchedule"`
	ToStationSchedule   *StopSchedule   `json:"toStationSchedule"`
	TravelTimeMinutes   timefmt.Minutes `json:"travelTimeMinutes"`
	RunningDaysBitmap   Text            `json:"runningDaysBitmap"`
}

// TrainsBetweenResponse carries both list shapes the API has used over time.
type TrainsBetweenResponse struct {
	Success bool `json:"success"`
	Data    struct {
		TrainsBetweenStationsResult []TrainBetween `json:"TrainsBetweenStationsResult"`
		Trains                      []TrainBetween `json:"trains"`
	} `json:"data"`
}

// NamedStation is a station reference embedded in schedule payloads.
type NamedStation struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// TrainInfo is the train header of a schedule payload.
type TrainInfo struct {
	Number      Text         `json:"number"`
	Name        string       `json:"name"`
	Source      NamedStation `json:"source"`
	Destination NamedStation `json:"destination"`
}

// ScheduleStop is one stop of a train's static route.
type ScheduleStop struct {
	Station          NamedStation    `json:"station"`
	ArrivalMinutes   timefmt.Minutes `json:"arrivalMinutes"`
	DepartureMinutes timefmt.Minutes `json:"departureMinutes"`
}

// ScheduleResponse is the envelope of the schedule endpoint. Train and Route
// are nil when upstream omits them.
type ScheduleResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Train *TrainInfo     `json:"train"`
		Route []ScheduleStop `json:"route"`
	} `json:"data"`
}

// CurrentLocation is the live position block. Null is set when upstream
// sent an explicit null instead of an object.
type CurrentLocation struct {
	StationCode Text `json:"stationCode"`
	Status      Text `json:"status"`
	Null        bool `json:"-"`
}

func (c *CurrentLocation) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*c = CurrentLocation{Null: true}
		return nil
	}
	type plain CurrentLocation
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = CurrentLocation(p)
	return nil
}

// LiveData is the payload of a successful live response.
type LiveData struct {
	CurrentLocation     CurrentLocation `json:"currentLocation"`
	OverallDelayMinutes timefmt.Minutes `json:"overallDelayMinutes"`
}

// LiveResponse is the envelope of the live endpoint. Data is nil when
// upstream omits it.
type LiveResponse struct {
	Success bool      `json:"success"`
	Data    *LiveData `json:"data"`
}

// DetailResponse is the envelope of the train detail endpoint. The train
// record is kept undecoded.
type DetailResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Train map[string]json.RawMessage `json:"train"`
	} `json:"data"`
}
