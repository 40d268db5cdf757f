package core

import (
	"errors"
	"fmt"
)

// InvalidICPError indicates caller input violated the ICP invariants.
// It is never retried and always surfaced immediately.
type InvalidICPError struct {
	Reason string
}

func (e *InvalidICPError) Error() string {
	return fmt.Sprintf("invalid ICP: %s", e.Reason)
}

// UpstreamUnavailableError indicates every retry against a collaborator was
// exhausted. It is a hard failure for the affected operation only.
type UpstreamUnavailableError struct {
	Collaborator string
	Err          error
}

func (e *UpstreamUnavailableError) Error() string {
	return fmt.Sprintf("%s collaborator unavailable: %v", e.Collaborator, e.Err)
}

func (e *UpstreamUnavailableError) Unwrap() error {
	return e.Err
}

// GenerationParseError indicates the generative-text collaborator returned
// content without the documented subject/body structure. Retrying will not
// fix malformed output, so it is surfaced immediately.
type GenerationParseError struct {
	Reason string
	Raw    string
}

func (e *GenerationParseError) Error() string {
	return fmt.Sprintf("unparseable generated content: %s", e.Reason)
}

// PermanentDeliveryError indicates a non-retryable provider rejection such
// as an invalid recipient address.
type PermanentDeliveryError struct {
	Recipient string
	Err       error
}

func (e *PermanentDeliveryError) Error() string {
	return fmt.Sprintf("permanent delivery failure for %s: %v", e.Recipient, e.Err)
}

func (e *PermanentDeliveryError) Unwrap() error {
	return e.Err
}

// transientError marks a collaborator failure as retryable (timeouts, 5xx,
// rate limits). Adapters classify; the retry policy consumes the marker.
type transientError struct {
	err error
}

func (e *transientError) Error() string {
	return e.err.Error()
}

func (e *transientError) Unwrap() error {
	return e.err
}

// Transient wraps err so the shared retry policy will retry it.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err carries the transient classification.
func IsTransient(err error) bool {
	var t *transientError
	return errors.As(err, &t)
}
