package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ClockTime is a wall-clock time of day with minute precision and no date.
type ClockTime struct {
	minutes int
}

// Clock builds a ClockTime from hour and minute. Out-of-range values wrap
// into a single day.
func Clock(hour, minute int) ClockTime {
	m := (hour*60 + minute) % (24 * 60)
	if m < 0 {
		m += 24 * 60
	}
	return ClockTime{minutes: m}
}

// ParseClock accepts "HH:MM" only. Seconds are rejected rather than dropped
// so durations never lose precision silently.
func ParseClock(s string) (ClockTime, error) {
	if t, err := time.Parse("15:04", s); err == nil {
		return Clock(t.Hour(), t.Minute()), nil
	}
	return ClockTime{}, fmt.Errorf("invalid time %q, expected HH:MM", s)
}

// Minutes is the number of minutes since midnight.
func (c ClockTime) Minutes() int { return c.minutes }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.minutes/60, c.minutes%60)
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c ClockTime) Value() (driver.Value, error) {
	return c.String(), nil
}

func (c *ClockTime) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into ClockTime", src)
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
