package api

// Unstructured is a resource document with no compiled-in schema, backed by
// the raw decoded JSON. It exists for callers (such as the CLI) that address
// resources by name rather than by Go type.
type Unstructured map[string]interface{}

func (u Unstructured) str(key string) string {
	s, _ := u[key].(string)
	return s
}

func (u Unstructured) Kind() string       { return u.str("kind") }
func (u Unstructured) APIVersion() string { return u.str("apiVersion") }

// Name returns metadata.name, or "" if unset.
func (u Unstructured) Name() string {
	md, _ := u["metadata"].(map[string]interface{})
	if md == nil {
		return ""
	}
	s, _ := md["name"].(string)
	return s
}

// Namespace returns metadata.namespace, or "" if unset.
func (u Unstructured) Namespace() string {
	md, _ := u["metadata"].(map[string]interface{})
	if md == nil {
		return ""
	}
	s, _ := md["namespace"].(string)
	return s
}

// UnstructuredList is the collection form of Unstructured.
type UnstructuredList struct {
	TypeMeta `json:",inline"`
	Metadata ListMeta       `json:"metadata,omitempty"`
	Items    []Unstructured `json:"items"`
}
