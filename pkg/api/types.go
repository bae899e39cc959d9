// Package api holds the wire-level data model shared by every resource the
// client can address: type/object metadata, list metadata, the Status outcome
// payload, and watch events.
package api

// TypeMeta identifies the kind and API version of a resource document. It is
// embedded inline in every concrete resource type.
type TypeMeta struct {
	Kind       string `json:"kind,omitempty"`
	APIVersion string `json:"apiVersion,omitempty"`
}

func (t TypeMeta) String() string {
	if t.APIVersion == "" {
		return t.Kind
	}
	return t.Kind + " (" + t.APIVersion + ")"
}

// ObjectMeta carries the identifying and bookkeeping fields common to all
// resources. Identity is (kind, apiVersion, namespace, name).
type ObjectMeta struct {
	Name            string            `json:"name,omitempty"`
	Namespace       string            `json:"namespace,omitempty"`
	UID             string            `json:"uid,omitempty"`
	ResourceVersion string            `json:"resourceVersion,omitempty"`
	Generation      int64             `json:"generation,omitempty"`
	Labels          map[string]string `json:"labels,omitempty"`
	Annotations     map[string]string `json:"annotations,omitempty"`
}

// ListMeta carries collection-level metadata, including the continuation
// token for paginated lists.
type ListMeta struct {
	ResourceVersion    string `json:"resourceVersion,omitempty"`
	Continue           string `json:"continue,omitempty"`
	RemainingItemCount *int64 `json:"remainingItemCount,omitempty"`
}

// StatusSuccess and StatusFailure are the values of Status.Status.
const (
	StatusSuccess = "Success"
	StatusFailure = "Failure"
)

// StatusReason is a machine-readable description of why an operation ended up
// with a given status. Reasons travel as their string names on the wire.
type StatusReason string

const (
	ReasonUnknown       StatusReason = ""
	ReasonNotFound      StatusReason = "NotFound"
	ReasonAlreadyExists StatusReason = "AlreadyExists"
	ReasonConflict      StatusReason = "Conflict"
	ReasonInvalid       StatusReason = "Invalid"
	ReasonUnauthorized  StatusReason = "Unauthorized"
	ReasonForbidden     StatusReason = "Forbidden"
	ReasonTimeout       StatusReason = "Timeout"
)

// Status is the structured outcome payload the server returns for non-success
// responses, and for some operations on success as well.
type Status struct {
	TypeMeta `json:",inline"`
	Metadata ListMeta     `json:"metadata,omitempty"`
	Status   string       `json:"status,omitempty"`
	Message  string       `json:"message,omitempty"`
	Reason   StatusReason `json:"reason,omitempty"`
	Code     int32        `json:"code,omitempty"`
}

// EventType says what happened to the resource carried by a watch event.
type EventType string

const (
	Added    EventType = "ADDED"
	Modified EventType = "MODIFIED"
	Deleted  EventType = "DELETED"
	// Error is reserved on the wire for server-side stream failures.
	Error EventType = "ERROR"
)

// Event is a single entry in a watch stream: a change type plus a snapshot of
// the resource after (or, for deletes, before) the change. Events arrive in
// stream order; nothing is reordered or deduplicated.
type Event[T any] struct {
	Type   EventType `json:"type"`
	Object *T        `json:"object"`
}
