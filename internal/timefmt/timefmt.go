package timefmt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// NotAvailable is rendered in place of a clock time that upstream did not supply.
const NotAvailable = "N/A"

// Minutes is a minute offset from the start of a train's journey day.
// Upstream feeds omit it, send null or send non-integral values; any of those
// leave it invalid.
type Minutes struct {
	Value int
	Valid bool
}

// MinutesOf returns a valid offset.
func MinutesOf(v int) Minutes {
	return Minutes{Value: v, Valid: true}
}

// UnmarshalJSON accepts integral JSON numbers only.
func (m *Minutes) UnmarshalJSON(data []byte) error {
	*m = Minutes{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] == '"' || bytes.Equal(data, []byte("null")) {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return nil
	}
	v, err := strconv.Atoi(n.String())
	if err != nil {
		return nil
	}
	*m = MinutesOf(v)
	return nil
}

// MarshalJSON writes null for invalid offsets.
func (m Minutes) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(m.Value)), nil
}

// Clock renders m as zero-padded HH:MM. Hours are not wrapped at 24 since
// multi-day schedules count past midnight.
func Clock(m Minutes) string {
	if !m.Valid {
		return NotAvailable
	}
	h, mm := hoursMinutes(m.Value)
	return fmt.Sprintf("%02d:%02d", h, mm)
}

// Duration renders m as "<H>h <M>m", treating an invalid offset as zero.
func Duration(m Minutes) string {
	total := 0
	if m.Valid {
		total = m.Value
	}
	h, mm := hoursMinutes(total)
	return fmt.Sprintf("%dh %dm", h, mm)
}

// hoursMinutes splits v into floored hours and a minute remainder in [0, 60),
// so negative offsets count back from the hour before.
func hoursMinutes(v int) (int, int) {
	h, m := v/60, v%60
	if m < 0 {
		h--
		m += 60
	}
	return h, m
}
