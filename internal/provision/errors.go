package provision

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAssistantExists is returned when a clinic already has an assistant.
	ErrAssistantExists = errors.New("assistant already exists for this clinic")
	// ErrNoAssistant is returned when a workflow requires an assistant
	// that has not been created yet.
	ErrNoAssistant = errors.New("no assistant found for this clinic")
	// ErrPhoneExists is returned when a clinic already has a phone number.
	ErrPhoneExists = errors.New("phone number already provisioned for this clinic")
	// ErrFileNotFound covers both a missing file reference and an
	// ownership mismatch, so callers cannot probe for other tenants' files.
	ErrFileNotFound = errors.New("file not found")
)

// AttemptFailure records one failed phone-number acquisition attempt.
type AttemptFailure struct {
	AreaCode string `json:"areaCode"`
	Reason   string `json:"reason"`
}

// NoNumberAvailableError is returned when every candidate area code
// failed to yield a phone number.
type NoNumberAvailableError struct {
	Attempts []AttemptFailure
}

func (e *NoNumberAvailableError) Error() string {
	codes := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		codes[i] = a.AreaCode
	}
	return fmt.Sprintf("no phone number available in any area code (tried %s)", strings.Join(codes, ", "))
}

// AttemptedAreaCodes lists the candidate codes in the order they were tried.
func (e *NoNumberAvailableError) AttemptedAreaCodes() []string {
	codes := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		codes[i] = a.AreaCode
	}
	return codes
}
