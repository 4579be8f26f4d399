package fleetapi

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrConnectionFailure means no response was received after all attempts.
	ErrConnectionFailure = errors.New("fleetapi: connection failure")

	// ErrAuthFailure means the API answered 401 and signing in again failed.
	ErrAuthFailure = errors.New("fleetapi: reauthentication failed")

	// ErrUnsupportedMethod is returned for anything but GET and POST.
	ErrUnsupportedMethod = errors.New("fleetapi: unsupported HTTP method")
)

// maxErrorBody is the number of body bytes kept in a StatusError message.
const maxErrorBody = 200

// StatusError is a non-2xx response handed back once retries are exhausted.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > maxErrorBody {
		cut := maxErrorBody
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut] + "..."
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, body)
}
