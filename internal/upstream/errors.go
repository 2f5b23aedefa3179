package upstream

import (
	"errors"
	"fmt"

	"github.com/noah-isme/gema-dashboard/internal/session"
)

// Kind classifies why an upstream operation failed.
type Kind string

const (
	// KindTransport covers network failures: the request never produced a response body.
	KindTransport Kind = "transport"
	// KindDecode covers bodies that are not a well-formed envelope.
	KindDecode Kind = "decode"
	// KindApplication covers well-formed envelopes carrying success=false.
	KindApplication Kind = "application"
	// KindUnauthenticated covers authenticated operations attempted without a token.
	KindUnauthenticated Kind = "unauthenticated"
)

// Error is the single failure representation returned by every upstream operation.
type Error struct {
	Kind      Kind
	Operation string
	Status    int
	Message   string
	Err       error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %s: %v", e.Operation, e.Kind, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s: %s", e.Operation, e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Operation, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Operation, e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extracts the upstream error from err.
func AsError(err error) (*Error, bool) {
	var upstreamErr *Error
	if errors.As(err, &upstreamErr) {
		return upstreamErr, true
	}
	return nil, false
}

// IsKind reports whether err is an upstream error of the given kind.
func IsKind(err error, kind Kind) bool {
	upstreamErr, ok := AsError(err)
	return ok && upstreamErr.Kind == kind
}

// Message returns the text to surface to users for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if upstreamErr, ok := AsError(err); ok {
		switch upstreamErr.Kind {
		case KindApplication:
			if upstreamErr.Message != "" {
				return upstreamErr.Message
			}
			return "Request failed"
		case KindUnauthenticated:
			return "Please log in to continue"
		case KindDecode:
			return "Received an invalid response from the server"
		default:
			return "Something went wrong"
		}
	}
	if errors.Is(err, session.ErrUnauthenticated) {
		return "Please log in to continue"
	}
	return "Something went wrong"
}

func unauthenticated(operation string) *Error {
	return &Error{Kind: KindUnauthenticated, Operation: operation, Err: session.ErrUnauthenticated}
}
