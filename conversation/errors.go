package conversation

import (
	"errors"
	"fmt"
)

// Kind classifies client failures into the classes callers can act on.
type Kind int

const (
	// KindConfig marks caller mistakes detected before any network I/O:
	// an empty prompt, an unrecognized option, an invalid configuration.
	KindConfig Kind = iota + 1

	// KindTransport marks connection failures, timeouts, and mid-stream
	// disconnects, including errors the backend reports in-band.
	KindTransport

	// KindFormat marks replies or fragments that could not be decoded
	// into the expected shape.
	KindFormat
)

// String returns the kind name for error messages and logs.
func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindTransport:
		return "transport"
	case KindFormat:
		return "format"
	default:
		return "unknown"
	}
}

// Sentinel errors for conversation operations.
var (
	// ErrEmptyPrompt indicates the request carried no prompt text.
	ErrEmptyPrompt = errors.New("prompt must not be empty")

	// ErrUnknownOption indicates an option key outside the recognized set.
	ErrUnknownOption = errors.New("unknown option")

	// ErrInvalidOption indicates a recognized option with a value of the
	// wrong type.
	ErrInvalidOption = errors.New("invalid option value")

	// ErrUpstream indicates the backend reported an error event in-band.
	ErrUpstream = errors.New("upstream reported an error")

	// ErrStreamClosed indicates a Recv on a stream the caller already closed.
	ErrStreamClosed = errors.New("stream is closed")
)

// Error wraps a client failure with the operation that produced it and
// its failure class.
type Error struct {
	Op   string // Operation that failed ("complete", "stream", "recv")
	Kind Kind   // Failure class
	Err  error  // Underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("conversation %s: %s: %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

func isKind(err error, kind Kind) bool {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Kind == kind
	}
	return false
}

// IsConfig reports whether err is a configuration error: a caller mistake
// surfaced before any network activity.
func IsConfig(err error) bool { return isKind(err, KindConfig) }

// IsTransport reports whether err is a transport error: a connection,
// timeout, or mid-stream failure.
func IsTransport(err error) bool { return isKind(err, KindTransport) }

// IsFormat reports whether err is a format error: an undecodable reply.
func IsFormat(err error) bool { return isKind(err, KindFormat) }

// IsRetryable reports whether err is likely transient. The client never
// retries on its own; callers may re-issue the request when this is true.
// Configuration and format errors are deterministic and never retryable.
func IsRetryable(err error) bool { return IsTransport(err) }
