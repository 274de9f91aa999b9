package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the wire format of calendar dates
	DateLayout = "2006-01-02"
	// DateTimeLayout is the wire format of zone-less local date-times
	DateTimeLayout = "2006-01-02T15:04:05"
)

// localLayouts are tried in order for values without a zone offset.
// Fractional seconds are accepted by the seconds layout when parsing.
var localLayouts = []string{
	DateTimeLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	DateLayout,
}

// ParseTime parses a backend date or date-time. Values without a zone are
// interpreted in the local time zone.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(time.Local), nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// Timestamp is a local date-time as exchanged with the backend
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// MarshalJSON writes the zone-less wire form
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(DateTimeLayout))
}

// UnmarshalJSON accepts date-times, dates, RFC 3339 values and null
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	parsed, err := unmarshalTime(data)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// Date is a calendar date at local midnight
type Date struct {
	time.Time
}

// NewDate truncates t to its local calendar day
func NewDate(t time.Time) Date {
	return Date{Time: startOfDay(t)}
}

// ParseDate parses a form or wire date
func ParseDate(s string) (Date, error) {
	t, err := ParseTime(s)
	if err != nil {
		return Date{}, err
	}
	return NewDate(t), nil
}

// String returns the date in wire form, or "" for the zero date
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// EndOfDay returns the last instant of the date
func (d Date) EndOfDay() time.Time {
	return d.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// MarshalJSON writes the date in wire form
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON accepts dates, date-times and null
func (d *Date) UnmarshalJSON(data []byte) error {
	parsed, err := unmarshalTime(data)
	if err != nil {
		return err
	}
	if parsed.IsZero() {
		d.Time = time.Time{}
		return nil
	}
	d.Time = startOfDay(parsed)
	return nil
}

func unmarshalTime(data []byte) (time.Time, error) {
	if bytes.Equal(data, []byte("null")) {
		return time.Time{}, nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidTimestamp, data)
	}
	if s == "" {
		return time.Time{}, nil
	}
	return ParseTime(s)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
