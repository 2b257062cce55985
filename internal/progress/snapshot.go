package progress

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Snapshot is the persisted wire form of State. It is overwritten
// wholesale on each save; expanded phases are not part of it.
type Snapshot struct {
	SavedPhases   []int    `json:"savedPhases"`
	SavedProjects []string `json:"savedProjects"`
	LastUpdate    string   `json:"lastUpdate"`
}

// NewSnapshot captures the persisted fields of st at time now.
func NewSnapshot(st State, now time.Time) Snapshot {
	return Snapshot{
		SavedPhases:   st.CompletedPhases.Sorted(),
		SavedProjects: st.CompletedProjects.Sorted(),
		LastUpdate:    now.UTC().Format(time.RFC3339Nano),
	}
}

// State rebuilds a progress state from the snapshot. Expanded phases start
// empty; callers apply their own default.
func (s Snapshot) State() State {
	st := NewState()
	for _, id := range s.SavedPhases {
		st.CompletedPhases.Add(id)
	}
	for _, id := range s.SavedProjects {
		st.CompletedProjects.Add(id)
	}
	return st
}

// Encode serializes the snapshot as JSON.
func (s Snapshot) Encode() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeError is returned when stored bytes are not a snapshot object.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode snapshot: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decoded is the result of a successful decode.
type Decoded struct {
	Snapshot Snapshot

	// Coerced names the fields that were present with the wrong type and
	// were replaced by an empty value.
	Coerced []string

	// Dropped counts array elements discarded for having the wrong type.
	Dropped int
}

// DecodeSnapshot parses stored bytes. Malformed JSON or a non-object top
// level yields a *DecodeError. A savedPhases or savedProjects field that is
// not an array is coerced to empty and reported in Decoded.Coerced; array
// elements of the wrong type are dropped. A missing or non-string
// lastUpdate decodes as "".
func DecodeSnapshot(raw []byte) (Decoded, error) {
	// Valid JSON that is not an object is rejected here instead of being
	// read as an empty snapshot, so the user hears the progress was lost.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Decoded{}, &DecodeError{Err: err}
	}
	if fields == nil {
		return Decoded{}, &DecodeError{Err: fmt.Errorf("top level is null")}
	}

	var d Decoded
	d.Snapshot.SavedPhases = decodeArray[int](fields, "savedPhases", &d)
	d.Snapshot.SavedProjects = decodeArray[string](fields, "savedProjects", &d)

	if v, ok := fields["lastUpdate"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			d.Snapshot.LastUpdate = s
		}
	}
	return d, nil
}

func decodeArray[T any](fields map[string]json.RawMessage, name string, d *Decoded) []T {
	out := []T{}
	v, ok := fields[name]
	if !ok {
		return out
	}

	var elems []json.RawMessage
	if !isArray(v) || json.Unmarshal(v, &elems) != nil {
		d.Coerced = append(d.Coerced, name)
		return out
	}
	for _, e := range elems {
		var x T
		if err := json.Unmarshal(e, &x); err != nil || isNull(e) {
			d.Dropped++
			continue
		}
		out = append(out, x)
	}
	return out
}

func isArray(v json.RawMessage) bool {
	return bytes.HasPrefix(bytes.TrimSpace(v), []byte("["))
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}
