// Package webperr defines the error taxonomy shared by every webpkit component.
//
// Each failure is a *Error whose Kind is one of the sentinel errors below, so
// callers can branch with errors.Is(err, webperr.ErrConfig) and recover the
// numeric status code with errors.As or CodeOf.
package webperr

import (
	"errors"
	"fmt"
)

// Kind sentinels.
var (
	ErrAllocation        = errors.New("webp: allocation error")
	ErrShape             = errors.New("webp: shape error")
	ErrUnsupportedLayout = errors.New("webp: unsupported layout")
	ErrConfig            = errors.New("webp: config error")
	ErrEncoding          = errors.New("webp: encoding error")
	ErrDecoding          = errors.New("webp: decoding error")
	ErrContainer         = errors.New("webp: container error")
	ErrSequence          = errors.New("webp: sequence error")
	ErrDimension         = errors.New("webp: dimension error")
	ErrState             = errors.New("webp: state error")
	ErrAssembly          = errors.New("webp: assembly error")
)

// Error is a categorized failure with an optional native status code.
type Error struct {
	Kind error  // one of the Err* sentinels
	Op   string // operation that failed, e.g. "framecodec.Decode"
	Code int    // StatusCode or EncodeStatus value, 0 when not applicable
	Msg  string
	Err  error // underlying cause, may be nil
}

func (e *Error) Error() string {
	s := e.Kind.Error()
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Code != 0 {
		s += fmt.Sprintf(" (status %d)", e.Code)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap exposes both the kind sentinel and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// New creates an error of the given kind.
func New(kind error, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind error, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to an underlying cause.
func Wrap(kind error, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Encoding creates an EncodingError carrying an encoder status.
func Encoding(op string, code EncodeStatus, err error) *Error {
	return &Error{Kind: ErrEncoding, Op: op, Code: int(code), Msg: code.String(), Err: err}
}

// Decoding creates a DecodingError carrying a decoder status.
func Decoding(op string, code StatusCode, err error) *Error {
	return &Error{Kind: ErrDecoding, Op: op, Code: int(code), Msg: code.String(), Err: err}
}

// CodeOf returns the status code of the first *Error in err's chain.
func CodeOf(err error) (int, bool) {
	var e *Error
	if errors.As(err, &e) && e.Code != 0 {
		return e.Code, true
	}
	return 0, false
}

// KindOf returns the kind sentinel of the first *Error in err's chain, or nil.
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return nil
}
