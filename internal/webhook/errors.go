package webhook

import "net/http"

// Kind classifies a rejected request. The kind decides the HTTP status;
// the message travels verbatim to the caller.
type Kind int

const (
	KindAuth Kind = iota + 1
	KindNoData
	KindMissingField
	KindInvalidFormat
	KindInvalidEmail
	KindEmptyName
	KindUnknownEvent
	KindNotFound
	KindStore
)

// Failure is a classified processing failure.
type Failure struct {
	Kind    Kind
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return f.Message + ": " + f.Err.Error()
	}
	return f.Message
}

func (f *Failure) Unwrap() error { return f.Err }

// HTTPStatus maps the failure kind onto the response status.
func (f *Failure) HTTPStatus() int {
	switch f.Kind {
	case KindAuth:
		return http.StatusForbidden
	case KindNoData, KindMissingField, KindInvalidFormat, KindInvalidEmail, KindEmptyName, KindUnknownEvent:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func failf(kind Kind, msg string) *Failure {
	return &Failure{Kind: kind, Message: msg}
}

func wrapf(kind Kind, msg string, err error) *Failure {
	return &Failure{Kind: kind, Message: msg, Err: err}
}
