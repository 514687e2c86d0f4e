package query

import "encoding/json"

// Status is the lifecycle state of a record.
type Status int

const (
	Idle    Status = iota // No fetch has run yet
	Loading               // A fetch is in progress
	Error                 // The most recent fetch failed
	Success               // The most recent fetch succeeded
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Error:
		return "error"
	case Success:
		return "success"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the status as its string form.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Record is the cached state for one canonical key.
//
// Data survives later failures: a fetch that errors keeps the previous
// data alongside the error, so callers can keep rendering stale data
// while showing the failure.
type Record struct {
	Status Status
	Data   any
	Err    error
}

// MarshalJSON flattens the error to its message.
func (r Record) MarshalJSON() ([]byte, error) {
	var errStr string
	if r.Err != nil {
		errStr = r.Err.Error()
	}
	return json.Marshal(struct {
		Status Status `json:"status"`
		Data   any    `json:"data,omitempty"`
		Error  string `json:"error,omitempty"`
	}{r.Status, r.Data, errStr})
}
