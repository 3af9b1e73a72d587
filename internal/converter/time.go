package converter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// LocalTimeLayout is the wire form of booking instants: an ISO-8601 local date-time read as UTC.
const LocalTimeLayout = "2006-01-02T15:04:05"

// LocalTime serialises as LocalTimeLayout. RFC 3339 input with an offset is accepted too.
type LocalTime time.Time

func NewLocalTime(t time.Time) LocalTime {
	return LocalTime(t.UTC())
}

func (t LocalTime) Time() time.Time {
	return time.Time(t)
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).UTC().Format(LocalTimeLayout))
}

func (t *LocalTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}

	parsed, err := ParseLocalTime(raw)
	if err != nil {
		return err
	}
	*t = LocalTime(parsed)
	return nil
}

func ParseLocalTime(raw string) (time.Time, error) {
	if parsed, err := time.ParseInLocation(LocalTimeLayout, raw, time.UTC); err == nil {
		return parsed, nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q, want %s", raw, LocalTimeLayout)
	}
	return parsed.UTC(), nil
}

func localTimePtr(t *time.Time) *LocalTime {
	if t == nil {
		return nil
	}
	lt := NewLocalTime(*t)
	return &lt
}
