package failure

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

// Kind classifies a failure so the caller can decide what to show the user.
type Kind string

const (
	// PreconditionNotMet means a required input or credential was missing. No remote call was made.
	PreconditionNotMet Kind = "precondition_not_met"
	// ModelOutputInvalid means the model answered but the reply does not match the expected schema.
	ModelOutputInvalid Kind = "model_output_invalid"
	// ExtractionFailed means a document could not be converted to text.
	ExtractionFailed Kind = "extraction_failed"
	// UnsupportedFormat means the document format is not one we can read.
	UnsupportedFormat Kind = "unsupported_format"
	// TransportError means the remote call itself failed.
	TransportError Kind = "transport_error"
	// Unknown is returned by KindOf for errors outside the taxonomy.
	Unknown Kind = "unknown"
)

// Error is a classified error.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() (msg string) {
	msg = e.Err.Error()
	return msg
}

// Unwrap exposes the wrapped error to errors.Is / errors.As.
func (e *Error) Unwrap() (err error) {
	err = e.Err
	return err
}

// Cause exposes the wrapped error to errors.Cause.
func (e *Error) Cause() (err error) {
	err = e.Err
	return err
}

// New creates a classified error with a message.
func New(kind Kind, message string) (err error) {
	err = &Error{Kind: kind, Err: errors.New(message)}
	return err
}

// Newf creates a classified error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) (err error) {
	err = &Error{Kind: kind, Err: errors.Errorf(format, args...)}
	return err
}

// Wrap classifies err and annotates it with message. A nil err stays nil.
func Wrap(kind Kind, err error, message string) (wrapped error) {
	if err == nil {
		return wrapped
	}
	wrapped = &Error{Kind: kind, Err: errors.Wrap(err, message)}
	return wrapped
}

// KindOf returns the kind of the outermost classified error in the chain.
func KindOf(err error) (kind Kind) {
	kind = Unknown
	var classified *Error
	if stderrors.As(err, &classified) {
		kind = classified.Kind
	}
	return kind
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) (ok bool) {
	ok = err != nil && KindOf(err) == kind
	return ok
}

// Message returns a short user-facing explanation for err.
func Message(err error) (msg string) {
	if err == nil {
		return msg
	}

	switch KindOf(err) {
	case PreconditionNotMet:
		msg = "Missing input: " + err.Error()
	case ModelOutputInvalid:
		msg = "The model reply did not match the expected format. Please run the same action again."
	case ExtractionFailed:
		msg = "Could not read text from the document: " + err.Error()
	case UnsupportedFormat:
		msg = "Unsupported document format: " + err.Error()
	case TransportError:
		msg = "The language model request failed: " + err.Error()
	default:
		msg = err.Error()
	}

	return msg
}
