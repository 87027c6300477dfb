package scaleapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FieldError is one entry of a validation detail array: which field, what
// went wrong, and a machine-readable kind.
type FieldError struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// Location renders the loc path as a dotted string, "body.port" style.
func (e FieldError) Location() string {
	parts := make([]string, 0, len(e.Loc))
	for _, seg := range e.Loc {
		switch v := seg.(type) {
		case string:
			parts = append(parts, v)
		case float64:
			parts = append(parts, strconv.Itoa(int(v)))
		default:
			parts = append(parts, fmt.Sprint(v))
		}
	}
	return strings.Join(parts, ".")
}

// ErrorPayload is the error body convention of the hub API: a detail field
// holding either a plain string or an array of field errors.
type ErrorPayload struct {
	Detail json.RawMessage `json:"detail"`
}

// FlattenDetail turns a detail value into one display string. A string
// detail is returned as is; a field-error array joins as
// "loc: msg; loc: msg"; anything else comes back as its JSON text.
// The result is empty when there is no detail at all.
func FlattenDetail(detail json.RawMessage) string {
	trimmed := bytes.TrimSpace(detail)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}

	var fields []FieldError
	if err := json.Unmarshal(trimmed, &fields); err == nil && len(fields) > 0 {
		parts := make([]string, 0, len(fields))
		for _, fe := range fields {
			parts = append(parts, fe.Location()+": "+fe.Msg)
		}
		return strings.Join(parts, "; ")
	}

	return string(trimmed)
}

// MessageFromBody extracts the best human-readable message from an error
// response body, falling back step by step: detail string, flattened detail
// array, the raw JSON itself, then empty for the caller to substitute its
// own fallback.
func MessageFromBody(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}
	var payload ErrorPayload
	if err := json.Unmarshal(trimmed, &payload); err == nil {
		if msg := FlattenDetail(payload.Detail); msg != "" {
			return msg
		}
	}
	if json.Valid(trimmed) && !bytes.Equal(trimmed, []byte("null")) && !bytes.Equal(trimmed, []byte("{}")) {
		return string(trimmed)
	}
	return ""
}
