package notify

import "testing"

func TestStatusBody(t *testing.T) {
	got := StatusBody("12951", "Mumbai Rajdhani", "Train is currently standing at KOTA.")
	want := "12951 Mumbai Rajdhani\nTrain is currently standing at KOTA."
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestDelayBody(t *testing.T) {
	tests := []struct {
		name    string
		station string
		want    string
	}{
		{name: "with station", station: "RTM", want: "Train 12951 Mumbai Rajdhani is delayed by 15 minutes.\nLast reported at: RTM"},
		{name: "without station", want: "Train 12951 Mumbai Rajdhani is delayed by 15 minutes."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DelayBody("12951", "Mumbai Rajdhani", 15, tt.station); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
