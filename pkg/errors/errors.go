package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeNotFound     Code = "NOT_FOUND"
	CodeSessionFatal Code = "SESSION_FATAL"
	CodeSubscription Code = "SUBSCRIPTION_ERROR"
	CodeWriteFailed  Code = "WRITE_FAILED"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// Surface tells the rendering layer how an error is presented to the user.
type Surface string

const (
	// SurfaceBlocking replaces the whole app with a non-dismissable message.
	SurfaceBlocking Surface = "blocking"
	// SurfaceInline replaces a view's loading indicator in place.
	SurfaceInline Surface = "inline"
	// SurfaceAlert is a dismissable alert; the triggering action may be retried.
	SurfaceAlert Surface = "alert"
	// SurfaceWarning is a transient user-visible warning with no state change.
	SurfaceWarning Surface = "warning"
)

type Metadata struct {
	HTTPStatus     int
	Surface        Surface
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		HTTPStatus:     http.StatusBadRequest,
		Surface:        SurfaceWarning,
		Retryable:      false,
		PublicMessage:  "validation failed",
		DetailsAllowed: true,
	},
	CodeNotFound: {
		HTTPStatus:     http.StatusNotFound,
		Surface:        SurfaceWarning,
		Retryable:      false,
		PublicMessage:  "resource not found",
		DetailsAllowed: false,
	},
	CodeSessionFatal: {
		HTTPStatus:     http.StatusServiceUnavailable,
		Surface:        SurfaceBlocking,
		Retryable:      false,
		PublicMessage:  "could not authenticate with the service, please refresh the page",
		DetailsAllowed: true,
	},
	CodeSubscription: {
		HTTPStatus:     http.StatusBadGateway,
		Surface:        SurfaceInline,
		Retryable:      false,
		PublicMessage:  "live data is currently unavailable",
		DetailsAllowed: false,
	},
	CodeWriteFailed: {
		HTTPStatus:     http.StatusBadGateway,
		Surface:        SurfaceAlert,
		Retryable:      true,
		PublicMessage:  "the request could not be saved, please try again",
		DetailsAllowed: false,
	},
	CodeInternal: {
		HTTPStatus:     http.StatusInternalServerError,
		Surface:        SurfaceAlert,
		Retryable:      true,
		PublicMessage:  "internal error",
		DetailsAllowed: false,
	},
}

// MetadataFor resolves presentation metadata for a code, falling back to internal.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// ErrorDump flattens an error chain for structured logging.
type ErrorDump struct {
	TopMessage string   `json:"top_message"`
	Code       Code     `json:"code,omitempty"`
	Chain      []string `json:"chain,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = stdErrors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	return d
}
