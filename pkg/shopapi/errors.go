package shopapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"
)

// ErrorKind classifies a failed API call.
type ErrorKind string

const (
	KindNetwork      ErrorKind = "network"
	KindUnauthorized ErrorKind = "unauthorized"
	KindValidation   ErrorKind = "validation"
	KindNotFound     ErrorKind = "not_found"
	KindServer       ErrorKind = "server"
)

// APIError is the single error shape returned for every failed request.
type APIError struct {
	Kind    ErrorKind           `json:"kind"`
	Status  int                 `json:"status,omitempty"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
	Err     error               `json:"-"`
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("shopapi: %s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("shopapi: %s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of an APIError anywhere in err's chain, or "".
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// IsUnauthorized reports whether err is an authentication failure (401/403).
func IsUnauthorized(err error) bool { return KindOf(err) == KindUnauthorized }

// IsValidation reports whether err carries backend validation messages.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsNetwork reports whether the backend could not be reached.
func IsNetwork(err error) bool { return KindOf(err) == KindNetwork }

// IsNotFound reports whether the addressed record does not exist.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

func networkError(err error) *APIError {
	return &APIError{Kind: KindNetwork, Message: "could not reach the shop server", Err: err}
}

func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindUnauthorized
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation
	case status == http.StatusNotFound:
		return KindNotFound
	default:
		return KindServer
	}
}

// statusError builds an APIError from a non-2xx response. The backend speaks
// Django REST framework, so bodies look like {"detail": "..."},
// {"field": ["msg", ...]} or ["msg"].
func statusError(status int, body []byte) *APIError {
	e := &APIError{Kind: kindForStatus(status), Status: status}

	var obj map[string]json.RawMessage
	var list []string
	switch {
	case json.Unmarshal(body, &obj) == nil && obj != nil:
		for key, raw := range obj {
			msgs := decodeMessages(raw)
			if len(msgs) == 0 {
				continue
			}
			switch key {
			case "detail", "non_field_errors":
				e.Message = strings.Join(msgs, " ")
			default:
				if e.Fields == nil {
					e.Fields = make(map[string][]string)
				}
				e.Fields[key] = msgs
			}
		}
		if e.Message == "" && len(e.Fields) > 0 {
			e.Message = summarizeFields(e.Fields)
		}
	case json.Unmarshal(body, &list) == nil:
		e.Message = strings.Join(list, " ")
	default:
		e.Message = truncate(strings.TrimSpace(string(body)), maxMessageRunes)
	}

	if e.Message == "" {
		e.Message = strings.ToLower(http.StatusText(status))
	}
	return e
}

const maxMessageRunes = 200

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func decodeMessages(raw json.RawMessage) []string {
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil && one != "" {
		return []string{one}
	}
	return nil
}

func summarizeFields(fields map[string][]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(fields[k], " "))
	}
	return strings.Join(parts, "; ")
}
