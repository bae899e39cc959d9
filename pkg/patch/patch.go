// Package patch builds partial-update documents in the two standard
// encodings: RFC 6902 JSON Patch operation lists and RFC 7386 merge patches.
package patch

import (
	"encoding/json"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/pkg/errors"
)

// Media types distinguishing the two patch encodings on the wire.
const (
	MediaType      = "application/json-patch+json"
	MergeMediaType = "application/merge-patch+json"
)

// Op is a single JSON Patch operation.
type Op struct {
	Op    string      `json:"op"`
	Path  string      `json:"path"`
	From  string      `json:"from,omitempty"`
	Value interface{} `json:"value,omitempty"`
}

// List is an ordered JSON Patch document. The helpers return the list so
// operations can be chained.
type List []Op

func (l *List) Add(path string, value interface{}) *List {
	*l = append(*l, Op{Op: "add", Path: path, Value: value})
	return l
}

func (l *List) Replace(path string, value interface{}) *List {
	*l = append(*l, Op{Op: "replace", Path: path, Value: value})
	return l
}

func (l *List) Remove(path string) *List {
	*l = append(*l, Op{Op: "remove", Path: path})
	return l
}

func (l *List) Test(path string, value interface{}) *List {
	*l = append(*l, Op{Op: "test", Path: path, Value: value})
	return l
}

func (l *List) Move(from, path string) *List {
	*l = append(*l, Op{Op: "move", From: from, Path: path})
	return l
}

func (l *List) Copy(from, path string) *List {
	*l = append(*l, Op{Op: "copy", From: from, Path: path})
	return l
}

// Marshal serializes the document for sending under MediaType.
func (l List) Marshal() ([]byte, error) {
	b, err := json.Marshal(l)
	return b, errors.Wrap(err, "encoding patch document")
}

// Apply runs the document against a JSON-encoded resource, returning the
// patched JSON. Intended for client-side dry runs and tests; the server
// applies the authoritative patch.
func (l List) Apply(doc []byte) ([]byte, error) {
	b, err := l.Marshal()
	if err != nil {
		return nil, err
	}
	p, err := jsonpatch.DecodePatch(b)
	if err != nil {
		return nil, errors.Wrap(err, "decoding patch document")
	}
	out, err := p.Apply(doc)
	return out, errors.Wrap(err, "applying patch")
}

// Doc is a patch document bound to the resource type it mutates. The binding
// carries no data; it lets a typed patch request name the resource type in
// its errors, the same way a typed get does.
type Doc[T any] struct {
	ops List
}

func (d *Doc[T]) Add(path string, value interface{}) *Doc[T] {
	d.ops.Add(path, value)
	return d
}

func (d *Doc[T]) Replace(path string, value interface{}) *Doc[T] {
	d.ops.Replace(path, value)
	return d
}

func (d *Doc[T]) Remove(path string) *Doc[T] {
	d.ops.Remove(path)
	return d
}

func (d *Doc[T]) Test(path string, value interface{}) *Doc[T] {
	d.ops.Test(path, value)
	return d
}

func (d *Doc[T]) Move(from, path string) *Doc[T] {
	d.ops.Move(from, path)
	return d
}

func (d *Doc[T]) Copy(from, path string) *Doc[T] {
	d.ops.Copy(from, path)
	return d
}

// Ops exposes the underlying operation list.
func (d *Doc[T]) Ops() List { return d.ops }

// CreateMerge computes the merge-patch document that transforms original into
// modified, for sending under MergeMediaType.
func CreateMerge(original, modified interface{}) ([]byte, error) {
	o, err := json.Marshal(original)
	if err != nil {
		return nil, errors.Wrap(err, "encoding original document")
	}
	m, err := json.Marshal(modified)
	if err != nil {
		return nil, errors.Wrap(err, "encoding modified document")
	}
	b, err := jsonpatch.CreateMergePatch(o, m)
	return b, errors.Wrap(err, "computing merge patch")
}
