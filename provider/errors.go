package provider

import (
	"errors"
	"fmt"
)

// EIP-1193 provider error codes.
const (
	CodeUserRejected      = 4001
	CodeUnauthorized      = 4100
	CodeUnsupportedMethod = 4200
	CodeDisconnected      = 4900
	CodeChainDisconnected = 4901
	CodeUnrecognizedChain = 4902
)

// JSON-RPC error codes (EIP-1474 style)
const (
	CodeInvalidParams = -32602
	CodeInternal      = -32603
)

// ErrNoProvider is returned when no wallet provider was detected.
var ErrNoProvider = errors.New("no wallet provider detected")

// RequestError is a failed provider request. Message is the provider's own text
// and is meant to be shown to the user as-is.
type RequestError struct {
	Code    int
	Message string
	Data    any

	err error
}

// NewRequestError creates a request error with the given code and message.
func NewRequestError(code int, message string) *RequestError {
	return &RequestError{Code: code, Message: message}
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

func (e *RequestError) Unwrap() error { return e.err }

// AsRequestError converts err into a *RequestError. Errors that are not
// request errors already become internal errors carrying the original message.
func AsRequestError(err error) *RequestError {
	if err == nil {
		return nil
	}
	var re *RequestError
	if errors.As(err, &re) {
		return re
	}
	return &RequestError{Code: CodeInternal, Message: err.Error(), err: err}
}

// IsCode reports whether err is a request error carrying code.
func IsCode(err error, code int) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Code == code
}

// IsUserRejection reports whether the user declined the request in the wallet.
func IsUserRejection(err error) bool {
	return IsCode(err, CodeUserRejected)
}
