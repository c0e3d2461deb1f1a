package timefmt

import (
	"encoding/json"
	"testing"
)

func TestClock(t *testing.T) {
	tests := []struct {
		name string
		in   Minutes
		want string
	}{
		{name: "midnight", in: MinutesOf(0), want: "00:00"},
		{name: "early morning", in: MinutesOf(125), want: "02:05"},
		{name: "last minute of day", in: MinutesOf(1439), want: "23:59"},
		{name: "next day offset keeps counting", in: MinutesOf(1500), want: "25:00"},
		{name: "missing", in: Minutes{}, want: "N/A"},
		{name: "negative offset floors the hour", in: MinutesOf(-5), want: "-1:55"},
		{name: "negative whole hour", in: MinutesOf(-60), want: "-1:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clock(tt.in); got != tt.want {
				t.Errorf("Clock(%+v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		in   Minutes
		want string
	}{
		{in: MinutesOf(0), want: "0h 0m"},
		{in: MinutesOf(135), want: "2h 15m"},
		{in: MinutesOf(59), want: "0h 59m"},
		{in: MinutesOf(1800), want: "30h 0m"},
		{in: Minutes{}, want: "0h 0m"},
		{in: MinutesOf(-5), want: "-1h 55m"},
		{in: MinutesOf(-125), want: "-3h 55m"},
	}

	for _, tt := range tests {
		if got := Duration(tt.in); got != tt.want {
			t.Errorf("Duration(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMinutesUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantValid bool
		wantValue int
	}{
		{name: "integer", raw: `{"m": 125}`, wantValid: true, wantValue: 125},
		{name: "zero", raw: `{"m": 0}`, wantValid: true, wantValue: 0},
		{name: "absent", raw: `{}`},
		{name: "null", raw: `{"m": null}`},
		{name: "fractional", raw: `{"m": 12.5}`},
		{name: "string", raw: `{"m": "125"}`},
		{name: "bool", raw: `{"m": true}`},
		{name: "object", raw: `{"m": {"h": 2}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got struct {
				M Minutes `json:"m"`
			}
			if err := json.Unmarshal([]byte(tt.raw), &got); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got.M.Valid != tt.wantValid {
				t.Fatalf("Valid = %v, want %v", got.M.Valid, tt.wantValid)
			}
			if got.M.Valid && got.M.Value != tt.wantValue {
				t.Errorf("Value = %d, want %d", got.M.Value, tt.wantValue)
			}
			if !tt.wantValid && Clock(got.M) != NotAvailable {
				t.Errorf("Clock of invalid offset = %q, want %q", Clock(got.M), NotAvailable)
			}
		})
	}
}

func TestMinutesMarshalJSON(t *testing.T) {
	out, err := json.Marshal([]Minutes{MinutesOf(90), {}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(out) != "[90,null]" {
		t.Errorf("Marshal = %s, want [90,null]", out)
	}
}
