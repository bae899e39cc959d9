// Package http defines the API's route table and URL construction. Both the
// client and test servers derive paths from the same named routes, so the two
// can never disagree about the URL scheme.
package http

import (
	"net/url"
	"path"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// Route names, used to look paths up in the router.
const (
	Resource            = "Resource"
	ResourceList        = "ResourceList"
	ClusterResource     = "ClusterResource"
	ClusterResourceList = "ClusterResourceList"
)

// NewAPIRouter returns the route table for a resource-oriented API server
// following the usual group/version/namespace/resource/name scheme.
func NewAPIRouter() *mux.Router {
	r := mux.NewRouter()

	r.NewRoute().Name(Resource).Methods("GET", "PATCH").
		Path("/apis/{apiVersion:.+}/namespaces/{namespace}/{resource}/{name}")
	r.NewRoute().Name(ResourceList).Methods("GET").
		Path("/apis/{apiVersion:.+}/namespaces/{namespace}/{resource}")
	r.NewRoute().Name(ClusterResource).Methods("GET", "PATCH").
		Path("/apis/{apiVersion:.+}/{resource}/{name}")
	r.NewRoute().Name(ClusterResourceList).Methods("GET").
		Path("/apis/{apiVersion:.+}/{resource}")

	return r
}

// MakeURL resolves a named route against the endpoint base URL. pathVars and
// queryParams are alternating key/value pairs; query parameters with empty
// values are omitted.
func MakeURL(endpoint string, router *mux.Router, routeName string, pathVars []string, queryParams ...string) (*url.URL, error) {
	if len(pathVars)%2 != 0 || len(queryParams)%2 != 0 {
		panic("pathVars and queryParams must be even!")
	}

	endpointURL, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing endpoint %s", endpoint)
	}

	route := router.Get(routeName)
	if route == nil {
		return nil, errors.New("no route with name " + routeName)
	}
	routeURL, err := route.URLPath(pathVars...)
	if err != nil {
		return nil, errors.Wrapf(err, "retrieving route path %s", routeName)
	}

	v := url.Values{}
	for i := 0; i < len(queryParams); i += 2 {
		if queryParams[i+1] != "" {
			v.Add(queryParams[i], queryParams[i+1])
		}
	}

	endpointURL.Path = path.Join(endpointURL.Path, routeURL.Path)
	endpointURL.RawQuery = v.Encode()
	return endpointURL, nil
}
