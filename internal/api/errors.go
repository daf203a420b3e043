package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Kind classifies a failure independently of the transport status.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuthentication
	KindNotFound
	KindNetwork
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindNotFound:
		return "not_found"
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	}
	return "unknown"
}

// ErrNotAuthenticated is wrapped by strict-mode failures raised before any request.
var ErrNotAuthenticated = errors.New("not authenticated")

// Error is the only error type returned by Client operations.
type Error struct {
	Kind Kind
	// Status is the HTTP status, 0 when no response was received.
	Status  int
	Message string
	// Fields holds field-level messages from a validation body, keyed by field.
	Fields map[string][]string
	Err    error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Field returns the first message reported for field.
func (e *Error) Field(name string) string {
	if msgs := e.Fields[name]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// KindOf returns the Kind carried by err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}

func IsKind(err error, k Kind) bool { return KindOf(err) == k }

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return KindAuthentication
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 400 && status < 500:
		return KindValidation
	}
	return KindServer
}

func validationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func networkError(msg string, err error) *Error {
	return &Error{Kind: KindNetwork, Message: fmt.Sprintf("%s: %v", msg, err), Err: err}
}

// errorFromResponse turns a non-2xx response into an *Error. The description is
// taken from message, error, detail or non_field_errors, then the first field
// error, and finally falls back to the numeric status.
func errorFromResponse(status int, body []byte) *Error {
	e := &Error{Kind: kindForStatus(status), Status: status}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		e.Message = fmt.Sprintf("HTTP %d", status)
		return e
	}

	for _, key := range []string{"message", "error", "detail", "non_field_errors"} {
		if e.Message == "" {
			e.Message = firstString(raw[key])
		}
		delete(raw, key)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		msgs := stringList(raw[k])
		if len(msgs) == 0 {
			continue
		}
		if e.Fields == nil {
			e.Fields = make(map[string][]string)
		}
		e.Fields[k] = msgs
		if e.Message == "" {
			e.Message = msgs[0]
		}
	}

	if e.Message == "" {
		e.Message = fmt.Sprintf("HTTP %d", status)
	}
	return e
}

func firstString(raw json.RawMessage) string {
	if msgs := stringList(raw); len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// stringList accepts "msg" or ["msg", ...]; anything else yields nil.
func stringList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s = strings.TrimSpace(s); s != "" {
			return []string{s}
		}
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		out := list[:0]
		for _, m := range list {
			if m = strings.TrimSpace(m); m != "" {
				out = append(out, m)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}
