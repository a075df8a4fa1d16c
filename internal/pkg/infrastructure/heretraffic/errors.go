package heretraffic

import (
	"encoding/json"
	"fmt"
)

type ErrorKind int

const (
	ErrorGeneric ErrorKind = iota
	ErrorUnauthorized
	ErrorInvalidRequest
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorUnauthorized:
		return "unauthorized"
	case ErrorInvalidRequest:
		return "invalid request"
	default:
		return "generic error"
	}
}

// APIError is returned for every failed query, either classified from an
// error body sent by the incidents API or wrapping a transport level failure.
type APIError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Err.Error())
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// errorFromResponse classifies an error body from the incidents API. The API
// uses two envelope shapes, {error, error_description} for auth failures and
// {Type, Message} for everything else. Any body that matches neither, JSON or
// not, classifies as a generic error with the failing operation in the
// message.
func errorFromResponse(body []byte, operation string) *APIError {
	envelope := struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		Type             string `json:"Type"`
		Message          string `json:"Message"`
	}{}

	_ = json.Unmarshal(body, &envelope)

	if envelope.Error == "Unauthorized" {
		return &APIError{Kind: ErrorUnauthorized, Message: envelope.ErrorDescription}
	}

	message := envelope.Message
	if message == "" {
		message = "error occurred on " + operation
	}

	if envelope.Type == "Invalid Request" {
		return &APIError{Kind: ErrorInvalidRequest, Message: message}
	}

	return &APIError{Kind: ErrorGeneric, Message: message}
}
