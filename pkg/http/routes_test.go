package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeURL(t *testing.T) {
	router := NewAPIRouter()

	u, err := MakeURL("http://cluster.example.com/base", router, Resource,
		[]string{"apiVersion", "apps/v1", "namespace", "ns1", "resource", "deployments", "name", "web"})
	require.NoError(t, err)
	assert.Equal(t, "http://cluster.example.com/base/apis/apps/v1/namespaces/ns1/deployments/web", u.String())

	u, err = MakeURL("http://cluster.example.com", router, ResourceList,
		[]string{"apiVersion", "v1", "namespace", "ns1", "resource", "configmaps"},
		"watch", "true", "limit", "10")
	require.NoError(t, err)
	assert.Equal(t, "/apis/v1/namespaces/ns1/configmaps", u.Path)
	assert.Equal(t, "true", u.Query().Get("watch"))
	assert.Equal(t, "10", u.Query().Get("limit"))
}

func TestMakeURLClusterScope(t *testing.T) {
	router := NewAPIRouter()

	u, err := MakeURL("http://cluster.example.com", router, ClusterResource,
		[]string{"apiVersion", "v1", "resource", "nodes", "name", "node-1"})
	require.NoError(t, err)
	assert.Equal(t, "/apis/v1/nodes/node-1", u.Path)

	u, err = MakeURL("http://cluster.example.com", router, ClusterResourceList,
		[]string{"apiVersion", "v1", "resource", "nodes"})
	require.NoError(t, err)
	assert.Equal(t, "/apis/v1/nodes", u.Path)
}

func TestMakeURLUnknownRoute(t *testing.T) {
	_, err := MakeURL("http://cluster.example.com", NewAPIRouter(), "NoSuchRoute", nil)
	assert.Error(t, err)
}

func TestMakeURLOmitsEmptyQueryValues(t *testing.T) {
	u, err := MakeURL("http://cluster.example.com", NewAPIRouter(), ClusterResourceList,
		[]string{"apiVersion", "v1", "resource", "nodes"},
		"limit", "", "continue", "tok")
	require.NoError(t, err)
	assert.Equal(t, "continue=tok", u.RawQuery)
}
