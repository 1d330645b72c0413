package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status is the outcome of a single probe. The zero value means the record
// carried no status (stored as JSON null) and counts as not available.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusUnavailable Status = "unavailable"
)

// StatusFromBool maps a probe outcome to its stored status.
func StatusFromBool(up bool) Status {
	if up {
		return StatusAvailable
	}
	return StatusUnavailable
}

func (s Status) Available() bool { return s == StatusAvailable }

func (s Status) MarshalJSON() ([]byte, error) {
	if s == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

func (s *Status) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = Status(v)
	return nil
}

// ProbeRecord is one immutable entry of a site's timeline.
type ProbeRecord struct {
	Timestamp int64  `json:"timestamp"` // epoch milliseconds, UTC
	Status    Status `json:"status"`
}

// Summary is the rolled-up state of one bucket. SummaryNoData encodes as null.
type Summary string

const (
	SummaryNoData      Summary = ""
	SummaryAvailable   Summary = "available"
	SummaryPartial     Summary = "partial"
	SummaryUnavailable Summary = "unavailable"
)

func (s Summary) MarshalJSON() ([]byte, error) {
	if s == SummaryNoData {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

func (s *Summary) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = SummaryNoData
		return nil
	}
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = Summary(v)
	return nil
}

// Granularity selects the bucket width used by history queries.
type Granularity string

const (
	Hour Granularity = "hour"
	Day  Granularity = "day"
)

// ParseGranularity accepts "hour" and "day"; an empty string means hour.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case "", Hour:
		return Hour, nil
	case Day:
		return Day, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Width returns the bucket width in milliseconds.
func (g Granularity) Width() int64 {
	if g == Day {
		return (24 * time.Hour).Milliseconds()
	}
	return time.Hour.Milliseconds()
}
