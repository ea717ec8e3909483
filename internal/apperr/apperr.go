package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation          Kind = "validation"
	KindAuthentication      Kind = "authentication"
	KindOrderCreation       Kind = "order_creation"
	KindMissingApprovalLink Kind = "missing_approval_link"
	KindCapture             Kind = "capture"
	KindTimeout             Kind = "timeout"
	KindCanceled            Kind = "canceled"
	KindInternal            Kind = "internal"
)

// Error is the checkout error taxonomy. Message is shown to the user as is.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int // upstream HTTP status, 0 when the error did not come from a response
	Err        error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by kind, so errors.Is(err, ErrCapture) holds for any capture error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

var (
	ErrValidation          = &Error{Kind: KindValidation}
	ErrAuthentication      = &Error{Kind: KindAuthentication}
	ErrOrderCreation       = &Error{Kind: KindOrderCreation}
	ErrMissingApprovalLink = &Error{Kind: KindMissingApprovalLink}
	ErrCapture             = &Error{Kind: KindCapture}
)

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Message: err.Error(), Err: err}
}

// FromStatus builds an error for a failed upstream call. msg is the processor's
// human-readable message; when empty the generic "API Error: <status>" is used.
func FromStatus(kind Kind, status int, msg string) *Error {
	if msg == "" {
		msg = fmt.Sprintf("API Error: %d", status)
	}
	return &Error{Kind: kind, Message: msg, StatusCode: status}
}

// KindOf reports the kind of err. An expired or canceled context wins over
// the kind of the operation it interrupted.
func KindOf(err error) Kind {
	var e *Error
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.As(err, &e):
		return e.Kind
	default:
		return KindInternal
	}
}

var kindToStatus = map[Kind]int{
	KindValidation:          http.StatusBadRequest,
	KindAuthentication:      http.StatusBadGateway,
	KindOrderCreation:       http.StatusBadGateway,
	KindMissingApprovalLink: http.StatusBadGateway,
	KindCapture:             http.StatusBadGateway,
	KindTimeout:             http.StatusGatewayTimeout,
	KindCanceled:            http.StatusRequestTimeout,
}

func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if s, ok := kindToStatus[KindOf(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}
