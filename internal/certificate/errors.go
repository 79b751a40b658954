package certificate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies parse and fill failures.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindFileInvalid
	KindEmptyContent
	KindWrongDocumentType
	KindMissingFields
	KindTemplateUnavailable
	KindSubstitutionFailed
)

// String returns a string representation of the ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindFileInvalid:
		return "FILE_INVALID"
	case KindEmptyContent:
		return "EMPTY_CONTENT"
	case KindWrongDocumentType:
		return "WRONG_DOCUMENT_TYPE"
	case KindMissingFields:
		return "MISSING_FIELDS"
	case KindTemplateUnavailable:
		return "TEMPLATE_UNAVAILABLE"
	case KindSubstitutionFailed:
		return "SUBSTITUTION_FAILED"
	default:
		return "UNKNOWN_ERROR"
	}
}

// Error is the typed failure reported for one file.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Fields  []Field   `json:"fields,omitempty"`
	Cause   error     `json:"-"`
}

// Sentinels for errors.Is matching by kind.
var (
	ErrFileInvalid         = &Error{Kind: KindFileInvalid}
	ErrEmptyContent        = &Error{Kind: KindEmptyContent}
	ErrWrongDocumentType   = &Error{Kind: KindWrongDocumentType}
	ErrMissingFields       = &Error{Kind: KindMissingFields}
	ErrTemplateUnavailable = &Error{Kind: KindTemplateUnavailable}
	ErrSubstitutionFailed  = &Error{Kind: KindSubstitutionFailed}
	ErrUnknown             = &Error{Kind: KindUnknown}
)

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = strings.ToLower(strings.ReplaceAll(e.Kind.String(), "_", " "))
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, msg, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches sentinels of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Cause == nil
}

// Detail returns the human-readable reason without the kind prefix.
func (e *Error) Detail() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func newError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func missingFieldsError(fields []Field) *Error {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return &Error{
		Kind:    KindMissingFields,
		Message: "missing required fields: " + strings.Join(names, ", "),
		Fields:  fields,
	}
}

// KindOf returns the kind of err, KindUnknown when it is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
