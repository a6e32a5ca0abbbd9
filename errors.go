package sound

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// ErrorKind classifies the failure carried by an Error.
// The numeric values are stable and may be used across process boundaries.
type ErrorKind uint8

const (
	KindNone ErrorKind = iota
	KindUnknown
	KindFilesystem
	KindIO
	KindCorrupt
	KindUnsupported
	KindUnknownFormat
	KindObsolete
	KindInvalidArgument
)

const (
	// MaxOpLen is the capacity of Error.Op in bytes.
	MaxOpLen = 31
	// MaxMessageLen is the capacity of Error.Message in bytes.
	MaxMessageLen = 223
)

var kindNames = [...]string{
	KindNone:            "none",
	KindUnknown:         "unknown",
	KindFilesystem:      "filesystem",
	KindIO:              "io",
	KindCorrupt:         "corrupt",
	KindUnsupported:     "unsupported",
	KindUnknownFormat:   "unknown_format",
	KindObsolete:        "obsolete",
	KindInvalidArgument: "invalid_argument",
}

var kindDescriptions = [...]string{
	KindNone:            "Success",
	KindUnknown:         "Error",
	KindFilesystem:      "Filesystem error",
	KindIO:              "File input/output error",
	KindCorrupt:         "Corrupt data",
	KindUnsupported:     "Unsupported feature",
	KindUnknownFormat:   "Unknown file format",
	KindObsolete:        "Obsolete feature",
	KindInvalidArgument: "Invalid argument",
}

func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Description returns a human readable label for the kind.
func (k ErrorKind) Description() string {
	if int(k) < len(kindDescriptions) {
		return kindDescriptions[k]
	}

	return "Unknown status"
}

// Sentinel errors, one per kind. They match any Error of the same kind
// through errors.Is.
var (
	ErrUnknown         error = Error{Kind: KindUnknown}
	ErrFilesystem      error = Error{Kind: KindFilesystem}
	ErrIO              error = Error{Kind: KindIO}
	ErrCorrupt         error = Error{Kind: KindCorrupt}
	ErrUnsupported     error = Error{Kind: KindUnsupported}
	ErrUnknownFormat   error = Error{Kind: KindUnknownFormat}
	ErrObsolete        error = Error{Kind: KindObsolete}
	ErrInvalidArgument error = Error{Kind: KindInvalidArgument}
)

// Error is the classified error returned by every fallible operation of the
// package. The zero value has KindNone and renders as a success.
type Error struct {
	Kind    ErrorKind
	Op      string
	Message string

	cause error
}

// MakeError builds an Error. Op and message are truncated to MaxOpLen and
// MaxMessageLen bytes.
func MakeError(kind ErrorKind, op, message string) Error {
	return Error{
		Kind:    kind,
		Op:      truncate(op, MaxOpLen),
		Message: truncate(message, MaxMessageLen),
	}
}

func newError(kind ErrorKind, op string, cause error, format string, args ...any) Error {
	e := MakeError(kind, op, fmt.Sprintf(format, args...))
	e.cause = cause

	return e
}

func (e Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Description()
	}

	if e.Op == "" {
		return fmt.Sprintf("%s [%s]", msg, e.Kind)
	}

	return fmt.Sprintf("%s: %s [%s]", e.Op, msg, e.Kind)
}

// Unwrap returns the low level error that caused e, if any.
func (e Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is a kind sentinel (an Error with only Kind set)
// of the same kind, or an Error with identical fields.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok {
		return false
	}

	if t.Op == "" && t.Message == "" {
		return e.Kind == t.Kind
	}

	return e.Kind == t.Kind && e.Op == t.Op && e.Message == t.Message
}

// Fprint writes the rendering of e followed by a newline to w.
// It returns 0 on success and 1 if the write failed.
func (e Error) Fprint(w io.Writer) int {
	if w == nil {
		return 1
	}

	if _, err := fmt.Fprintln(w, e.Error()); err != nil {
		return 1
	}

	return 0
}

// PrintError writes e to the standard error stream. See Error.Fprint.
func PrintError(e Error) int {
	return e.Fprint(os.Stderr)
}

// KindOf returns the kind of err. A nil error is KindNone and an error that
// doesn't come from this package is KindUnknown.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var e Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnknown
}

// AsError converts err into an Error value. Foreign errors become KindUnknown
// errors that wrap them.
func AsError(err error) Error {
	if err == nil {
		return Error{}
	}

	var e Error
	if errors.As(err, &e) {
		return e
	}

	return newError(KindUnknown, "", err, "%v", err)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}

	return s[:n]
}
