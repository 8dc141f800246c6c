package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrSessionExpired indicates the refresh protocol failed (no refresh token,
// or the refresh call itself was rejected). The credentials have already been
// cleared; the caller must send the user back through login.
var ErrSessionExpired = errors.New("session expired")

// StatusError is a non-2xx response surfaced to the caller unchanged.
// Fields is non-nil for validation failures, mapping field names to messages.
type StatusError struct {
	StatusCode int
	Body       []byte
	Fields     map[string][]string
}

func (e *StatusError) Error() string {
	if len(e.Fields) > 0 {
		names := make([]string, 0, len(e.Fields))
		for name := range e.Fields {
			names = append(names, name)
		}
		sort.Strings(names)

		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.Fields[name], "; ")))
		}
		return fmt.Sprintf("%s: %s", http.StatusText(e.StatusCode), strings.Join(parts, ", "))
	}
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// newStatusError builds a StatusError, decoding DRF-style field errors from
// the body when it is a JSON object of strings or arrays of strings.
func newStatusError(resp *Response) *StatusError {
	se := &StatusError{
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body, &raw); err != nil || len(raw) == 0 {
		return se
	}

	fields := make(map[string][]string, len(raw))
	for name, msg := range raw {
		var many []string
		if err := json.Unmarshal(msg, &many); err == nil {
			fields[name] = many
			continue
		}
		var one string
		if err := json.Unmarshal(msg, &one); err == nil {
			fields[name] = []string{one}
			continue
		}
		// Not a flat field-error body after all.
		return se
	}
	se.Fields = fields
	return se
}
