package vouched

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Outcome records the result of a single verification attempt. Exactly one
// Outcome is produced per input row, in row order, and never mutated after
// creation.
//
// Response holds the body verbatim as json.RawMessage when it is valid JSON,
// the raw text as a string when it is not, or nil when no body was observed.
// Error holds a descriptive string, or the response payload itself for
// non-200 statuses (the body doubles as the error detail).
type Outcome struct {
	Row        int  `json:"row"`
	StatusCode *int `json:"statusCode"`
	Success    bool `json:"success"`
	Response   any  `json:"response"`
	Error      any  `json:"error"`
}

// bodyPayload classifies a response body: valid JSON stays verbatim as
// json.RawMessage so re-serializing the raw log is byte-stable, anything else
// is kept as raw text.
func bodyPayload(b []byte) any {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return nil
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	return string(b)
}

// PayloadEmpty reports whether a Response carries no content worth extracting.
func PayloadEmpty(v any) bool {
	switch p := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(p) == ""
	case json.RawMessage:
		return len(bytes.TrimSpace(p)) == 0
	default:
		return false
	}
}
