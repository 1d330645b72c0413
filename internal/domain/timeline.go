package domain

import "encoding/json"

// KeyPrefix namespaces timeline keys in the backing store.
const KeyPrefix = "status:"

// Key returns the store key holding the timeline of site.
func Key(site string) string { return KeyPrefix + site }

// Timeline is a site's retained probe history, newest first.
type Timeline []ProbeRecord

// DecodeTimeline parses stored bytes. Empty input yields an empty timeline;
// so does anything that is not a JSON array of records, together with the
// parse error so callers can log it.
func DecodeTimeline(b []byte) (Timeline, error) {
	if len(b) == 0 {
		return Timeline{}, nil
	}
	var tl Timeline
	if err := json.Unmarshal(b, &tl); err != nil {
		return Timeline{}, err
	}
	if tl == nil {
		tl = Timeline{}
	}
	return tl, nil
}

// Encode serializes the timeline as a JSON array.
func (tl Timeline) Encode() ([]byte, error) {
	if tl == nil {
		tl = Timeline{}
	}
	return json.Marshal([]ProbeRecord(tl))
}

// Prepend returns a new timeline with r in front.
func (tl Timeline) Prepend(r ProbeRecord) Timeline {
	out := make(Timeline, 0, len(tl)+1)
	out = append(out, r)
	return append(out, tl...)
}
