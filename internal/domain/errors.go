package domain

import "errors"

// Kind classifies an operation failure for the presentation layer.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindForbidden    Kind = "forbidden"
	KindUnauthorized Kind = "unauthorized"
	KindInvalidState Kind = "invalid_state"
	KindUnavailable  Kind = "unavailable"
)

type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func Errf(kind Kind, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

// KindOf returns the failure kind, or KindUnavailable for errors that did not
// originate in the domain layer (store connectivity and the like).
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnavailable
}
