package simprotocol

import (
	"errors"
	"fmt"
)

// Sentinel errors for the simulator protocol.
var (
	// ErrClosed is returned exactly once by Next after the peer closes the
	// connection or the connection fails.
	ErrClosed = errors.New("connection closed")

	// ErrNotConnected indicates an operation on a connection that is no
	// longer open.
	ErrNotConnected = errors.New("not connected")

	// ErrLineTooLong indicates a protocol line exceeded MaxLineLength.
	ErrLineTooLong = errors.New("line too long")

	// ErrInvalidLine indicates an outbound line contained the line terminator.
	ErrInvalidLine = errors.New("line contains newline")

	// ErrUnsupportedScheme indicates an endpoint scheme Dial cannot handle.
	ErrUnsupportedScheme = errors.New("unsupported endpoint scheme")
)

// ParseErrorKind categorizes parsing errors.
type ParseErrorKind int

const (
	// ErrKindInvalidNumber indicates a field that is not a finite number.
	ErrKindInvalidNumber ParseErrorKind = iota
	// ErrKindInvalidScreen indicates a screen number that is not an integer.
	ErrKindInvalidScreen
	// ErrKindMissingArgument indicates a required field was not provided.
	ErrKindMissingArgument
	// ErrKindInvalidEndpoint indicates an endpoint string that cannot be dialed.
	ErrKindInvalidEndpoint
)

// ParseError represents an error that occurred while parsing a command field
// or an endpoint.
type ParseError struct {
	Kind    ParseErrorKind
	Field   string // Name of the field being parsed, if any
	Value   string // The invalid value that caused the error
	Message string // Additional context
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrKindInvalidNumber:
		return fmt.Sprintf("invalid number for %s: '%s'", e.Field, e.Value)
	case ErrKindInvalidScreen:
		return fmt.Sprintf("invalid screen number '%s'", e.Value)
	case ErrKindMissingArgument:
		return e.Message
	case ErrKindInvalidEndpoint:
		return fmt.Sprintf("invalid endpoint '%s'", e.Value)
	default:
		return fmt.Sprintf("parse error: %s", e.Value)
	}
}

// NewInvalidNumberError reports a non-numeric value for a numeric field.
func NewInvalidNumberError(field, value string) error {
	return &ParseError{Kind: ErrKindInvalidNumber, Field: field, Value: value}
}

// NewInvalidScreenError reports a malformed screen number.
func NewInvalidScreenError(value string) error {
	return &ParseError{Kind: ErrKindInvalidScreen, Field: "screen", Value: value}
}

// NewMissingArgumentError reports a missing field.
func NewMissingArgumentError(msg string) error {
	return &ParseError{Kind: ErrKindMissingArgument, Message: msg}
}

func newInvalidEndpointError(endpoint string) error {
	return &ParseError{Kind: ErrKindInvalidEndpoint, Value: endpoint}
}

// TransportError represents a failure of the underlying connection. All
// transport errors are fatal to the session.
type TransportError struct {
	Op    string // "dial", "send" or "read"
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transport %s failed: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("transport %s failed", e.Op)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// NewTransportError creates a new transport error.
func NewTransportError(op string, cause error) error {
	return &TransportError{Op: op, Cause: cause}
}

// IsDetach reports whether err means the peer went away, either by closing
// the connection or by a failed send.
func IsDetach(err error) bool {
	if errors.Is(err, ErrClosed) || errors.Is(err, ErrNotConnected) {
		return true
	}
	var te *TransportError
	return errors.As(err, &te)
}
