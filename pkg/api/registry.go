package api

import (
	"fmt"
	"reflect"
	"sync"
)

// The type registry maps Go types to their declared (kind, apiVersion). It is
// populated at startup by the package that defines each resource type, and
// consulted only to enrich error messages; a missing entry is never a failure.
type registry struct {
	mu    sync.RWMutex
	types map[reflect.Type]TypeMeta
	lists map[reflect.Type]TypeMeta
}

var defaultRegistry = &registry{
	types: map[reflect.Type]TypeMeta{},
	lists: map[reflect.Type]TypeMeta{},
}

func typeOf(obj interface{}) reflect.Type {
	t := reflect.TypeOf(obj)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// Register declares the kind and apiVersion for a resource type. Pass a zero
// value (or pointer to one) of the type, e.g. Register(&Deployment{}, "Deployment", "apps/v1").
func Register(obj interface{}, kind, apiVersion string) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	defaultRegistry.types[typeOf(obj)] = TypeMeta{Kind: kind, APIVersion: apiVersion}
}

// RegisterList declares the item kind and apiVersion for a list type. The
// kind recorded is the kind of the list's elements, which is what a failed
// collection fetch should be described by.
func RegisterList(list interface{}, itemKind, apiVersion string) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	defaultRegistry.lists[typeOf(list)] = TypeMeta{Kind: itemKind, APIVersion: apiVersion}
}

// TypeFor returns the registered metadata for a resource type.
func TypeFor(obj interface{}) (TypeMeta, bool) {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()
	tm, ok := defaultRegistry.types[typeOf(obj)]
	return tm, ok
}

// ListTypeFor returns the registered item metadata for a list type.
func ListTypeFor(list interface{}) (TypeMeta, bool) {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()
	tm, ok := defaultRegistry.lists[typeOf(list)]
	return tm, ok
}

// Describe renders a resource type for use in error messages: the registered
// "Kind (apiVersion)" when known, otherwise the Go type name.
func Describe(obj interface{}) string {
	if tm, ok := TypeFor(obj); ok {
		return tm.String()
	}
	return fmt.Sprintf("%T", obj)
}

// DescribeList is the list-type counterpart of Describe, naming the element
// kind of the collection.
func DescribeList(list interface{}) string {
	if tm, ok := ListTypeFor(list); ok {
		return "list of " + tm.String()
	}
	return fmt.Sprintf("%T", list)
}
