package client

import "fmt"

// TransportError reports a failure to send a request or receive its response.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is returned when the server answers with a failure status.
type APIError struct {
	Message string
	Code    int
	Type    string
	// Response is the raw response body.
	Response string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("HTTP %d (%s): %s", e.Code, e.Type, e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Message)
}

// DecodeError is returned when a response body that must be JSON is not.
type DecodeError struct {
	Body []byte
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %s", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
