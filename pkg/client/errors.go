package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/apiwatch/apiwatch/pkg/api"
)

// APIError is the client-side representation of a failed request: the HTTP
// status code, the remote Status payload when one could be parsed, and a
// description of the resource type the request was for.
type APIError struct {
	StatusCode int
	Status     *api.Status
	Resource   string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("request for %s failed with status %d", e.Resource, e.StatusCode)
	if e.Status != nil {
		if e.Status.Reason != "" {
			msg += fmt.Sprintf(" (%s)", e.Status.Reason)
		}
		if e.Status.Message != "" {
			msg += ": " + e.Status.Message
		}
	}
	return msg
}

// IsNotFound reports whether err is an APIError carrying the remote NotFound
// reason.
func IsNotFound(err error) bool {
	if err, ok := err.(*APIError); ok {
		return err.Status != nil && err.Status.Reason == api.ReasonNotFound
	}
	return false
}

// IsConflict reports whether err is an APIError carrying the remote Conflict
// reason, e.g. a patch that lost a resource-version race.
func IsConflict(err error) bool {
	if err, ok := err.(*APIError); ok {
		return err.Status != nil && err.Status.Reason == api.ReasonConflict
	}
	return false
}

// StreamError is a protocol violation on a watch stream: a response without a
// usable content type, or a line that does not decode into the expected event
// type. It is fatal to the subscription that saw it.
type StreamError struct {
	Err error
}

func (e *StreamError) Error() string { return "watch stream: " + e.Err.Error() }
func (e *StreamError) Unwrap() error { return e.Err }

// errorFromResponse drains the response body and builds an APIError for it.
// The body is parsed as a Status document on a best-effort basis: whatever
// cannot be parsed is simply left out of the error.
func errorFromResponse(resp *http.Response, resource string) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Resource: resource}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiErr
	}
	var st api.Status
	if err := json.Unmarshal(body, &st); err == nil {
		apiErr.Status = &st
	}
	return apiErr
}
