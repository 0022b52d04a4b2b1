package engine

import (
	"fmt"
	"strings"
)

// Status is the outcome of evaluating a component. The zero value is
// StatusNotEvaluated.
type Status int

const (
	StatusNotEvaluated Status = iota
	StatusError
	StatusFailed
	StatusValid
)

var statusNames = [...]string{
	StatusNotEvaluated: "NOT_EVALUATED",
	StatusError:        "ERROR",
	StatusFailed:       "FAILED",
	StatusValid:        "VALID",
}

// String returns the upper-case status name.
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStatus parses a status name, case-insensitively.
func ParseStatus(name string) (Status, error) {
	for i, n := range statusNames {
		if strings.EqualFold(n, name) {
			return Status(i), nil
		}
	}
	return StatusNotEvaluated, fmt.Errorf("unknown validation status %q", name)
}

// Result pairs a status with a human-readable message.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// Valid returns a VALID result.
func Valid(message string) Result {
	return Result{Status: StatusValid, Message: message}
}

// Failed returns a FAILED result.
func Failed(message string) Result {
	return Result{Status: StatusFailed, Message: message}
}

// Errored returns an ERROR result.
func Errored(message string) Result {
	return Result{Status: StatusError, Message: message}
}

// IsValid reports whether the status is VALID. Every other status, including
// ERROR and NOT_EVALUATED, counts as not valid.
func (r Result) IsValid() bool {
	return r.Status == StatusValid
}

// IsEvaluated reports whether a status has been assigned.
func (r Result) IsEvaluated() bool {
	return r.Status != StatusNotEvaluated
}

// String returns the message.
func (r Result) String() string {
	return r.Message
}
