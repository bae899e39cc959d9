package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type gizmo struct {
	TypeMeta `json:",inline"`
	Metadata ObjectMeta `json:"metadata,omitempty"`
}

type gizmoList struct {
	TypeMeta `json:",inline"`
	Metadata ListMeta `json:"metadata,omitempty"`
	Items    []gizmo  `json:"items"`
}

type unregistered struct{}

func TestRegistryLookup(t *testing.T) {
	Register(&gizmo{}, "Gizmo", "things/v2")
	RegisterList(&gizmoList{}, "Gizmo", "things/v2")

	tm, ok := TypeFor(&gizmo{})
	assert.True(t, ok)
	assert.Equal(t, TypeMeta{Kind: "Gizmo", APIVersion: "things/v2"}, tm)

	// value and pointer resolve to the same entry
	tm, ok = TypeFor(gizmo{})
	assert.True(t, ok)
	assert.Equal(t, "Gizmo", tm.Kind)

	tm, ok = ListTypeFor(&gizmoList{})
	assert.True(t, ok)
	assert.Equal(t, "Gizmo", tm.Kind, "list entries carry the item kind")

	_, ok = TypeFor(&unregistered{})
	assert.False(t, ok)
}

func TestDescribe(t *testing.T) {
	Register(&gizmo{}, "Gizmo", "things/v2")
	RegisterList(&gizmoList{}, "Gizmo", "things/v2")

	assert.Equal(t, "Gizmo (things/v2)", Describe(&gizmo{}))
	assert.Equal(t, "list of Gizmo (things/v2)", DescribeList(&gizmoList{}))

	// unknown types fall back to the Go type name
	assert.Equal(t, "*api.unregistered", Describe(&unregistered{}))
}

func TestTypeMetaString(t *testing.T) {
	assert.Equal(t, "Gizmo (things/v2)", TypeMeta{Kind: "Gizmo", APIVersion: "things/v2"}.String())
	assert.Equal(t, "Gizmo", TypeMeta{Kind: "Gizmo"}.String())
}
