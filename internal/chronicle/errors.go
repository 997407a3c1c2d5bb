package chronicle

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a detection API call did not produce a usable body.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureTransport
	FailureRateLimited
	FailureStatus
	FailureDecode
)

func (k FailureKind) String() string {
	switch k {
	case FailureTransport:
		return "transport"
	case FailureRateLimited:
		return "rate-limited"
	case FailureStatus:
		return "status"
	case FailureDecode:
		return "decode"
	default:
		return "none"
	}
}

type Error struct {
	Op         string
	Kind       FailureKind
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case FailureRateLimited, FailureStatus:
		return fmt.Sprintf("%s: status=%d body=%s", e.Op, e.StatusCode, e.Body)
	default:
		if e.Err == nil {
			return fmt.Sprintf("%s: %s failure", e.Op, e.Kind)
		}
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the failure kind carried by err, or FailureNone.
func KindOf(err error) FailureKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return FailureNone
}
