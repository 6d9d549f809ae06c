package taskerror

import (
	"errors"
	"fmt"
	"net"
	"net/url"

	"google.golang.org/api/googleapi"
)

// Kind categorizes a task failure. Every remote-call error surfaced to the
// user is classified into exactly one kind.
type Kind string

const (
	// KindAuth indicates the credential was rejected or lacks access.
	KindAuth Kind = "AUTH"
	// KindNetwork indicates a transport-level failure before or during the call.
	KindNetwork Kind = "NETWORK"
	// KindNotFound indicates the target file, folder or range does not exist.
	KindNotFound Kind = "NOT_FOUND"
	// KindFormat indicates an unsupported download/export format.
	KindFormat Kind = "FORMAT"
	// KindValidation indicates a malformed request payload.
	KindValidation Kind = "VALIDATION"
	// KindUnknown covers everything not matched by the kinds above.
	KindUnknown Kind = "UNKNOWN"
)

// Error is the structured error carried across the task runner. Op names the
// operation that failed (list, download, write, upload, empty, stat).
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Op != "" && e.Message != "":
		return fmt.Sprintf("%s: [%s] %s", e.Op, e.Kind, e.Message)
	case e.Message != "":
		return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("[%s] %v", e.Kind, e.Err)
	default:
		return string(e.Kind)
	}
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches either the same instance or any *Error with the same kind,
// so sentinel-style checks like errors.Is(err, taskerror.New(KindAuth, ""))
// and IsKind both work.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return false
	}
	if e == target {
		return true
	}
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind != "" && e.Kind == t.Kind
}

// New creates an Error with no underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and operation to an underlying error. A nil err
// yields nil so call sites can wrap unconditionally.
func Wrap(kind Kind, op string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Message: err.Error(), Err: err}
}

// KindOf returns the kind of err, or KindUnknown when err carries none.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindUnknown
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Classify translates an error returned by a Google API call into the task
// taxonomy. Already-classified errors pass through with the original kind;
// *googleapi.Error maps by HTTP status, transport errors map to network.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var te *Error
	if errors.As(err, &te) {
		if te.Op == "" {
			return &Error{Kind: te.Kind, Op: op, Message: te.Message, Err: err}
		}
		return err
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return Wrap(kindForStatus(apiErr.Code), op, err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return Wrap(KindNetwork, op, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return Wrap(KindNetwork, op, err)
	}

	return Wrap(KindUnknown, op, err)
}

func kindForStatus(status int) Kind {
	switch status {
	case 400:
		return KindValidation
	case 401, 403:
		return KindAuth
	case 404:
		return KindNotFound
	default:
		if status >= 500 {
			return KindNetwork
		}
		return KindUnknown
	}
}
