// Package client is a typed gateway to a resource-oriented HTTP API: single
// and collection fetches, JSON Patch and merge-patch mutations, and watch
// subscriptions. Each call owns its request/response lifecycle; the client
// keeps no state between calls and never retries; callers own that policy.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/apiwatch/apiwatch/pkg/api"
	transport "github.com/apiwatch/apiwatch/pkg/http"
	"github.com/apiwatch/apiwatch/pkg/patch"
)

// Token authenticates requests when non-empty.
type Token string

func (t Token) Set(req *http.Request) {
	if string(t) != "" {
		req.Header.Set("Authorization", "Bearer "+string(t))
	}
}

// Ref addresses a resource or a collection. An empty Namespace means cluster
// scope; an empty Name addresses the collection.
type Ref struct {
	APIVersion string
	Resource   string // plural resource name, e.g. "deployments"
	Namespace  string
	Name       string
}

func (r Ref) route() (string, []string) {
	vars := []string{"apiVersion", r.APIVersion, "resource", r.Resource}
	switch {
	case r.Namespace != "" && r.Name != "":
		return transport.Resource, append(vars, "namespace", r.Namespace, "name", r.Name)
	case r.Namespace != "":
		return transport.ResourceList, append(vars, "namespace", r.Namespace)
	case r.Name != "":
		return transport.ClusterResource, append(vars, "name", r.Name)
	default:
		return transport.ClusterResourceList, vars
	}
}

// ListOptions narrows a collection fetch or watch. The zero value selects
// everything.
type ListOptions struct {
	Limit         int64
	Continue      string
	LabelSelector string
}

func (o ListOptions) queryParams() []string {
	var limit string
	if o.Limit > 0 {
		limit = strconv.FormatInt(o.Limit, 10)
	}
	return []string{
		"limit", limit,
		"continue", o.Continue,
		"labelSelector", o.LabelSelector,
	}
}

type Client struct {
	client   *http.Client
	token    Token
	router   *mux.Router
	endpoint string
	logger   log.Logger
}

func New(c *http.Client, endpoint string, t Token, logger log.Logger) *Client {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Client{
		client:   c,
		token:    t,
		router:   transport.NewAPIRouter(),
		endpoint: endpoint,
		logger:   logger,
	}
}

// do issues one request and returns the response whatever its status; the
// caller decides how a non-success status maps to a result, and closes the
// body.
func (c *Client) do(ctx context.Context, method string, ref Ref, body []byte, contentType string, queryParams ...string) (*http.Response, error) {
	routeName, pathVars := ref.route()
	u, err := transport.MakeURL(c.endpoint, c.router, routeName, pathVars, queryParams...)
	if err != nil {
		return nil, errors.Wrap(err, "constructing URL")
	}

	req, err := http.NewRequest(method, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrapf(err, "constructing request %s", u)
	}
	req = req.WithContext(ctx)

	c.token.Set(req)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	begin := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		observeRequest(method, begin, false)
		return nil, errors.Wrap(err, "executing HTTP request")
	}
	observeRequest(method, begin, successStatus(resp.StatusCode))
	return resp, nil
}

func successStatus(code int) bool { return code >= 200 && code < 300 }

// Get fetches a single resource. The second return value reports whether the
// resource exists: a 404 whose Status reason is exactly NotFound means the
// resource is absent, which is not an error. A 404 carrying any other reason
// is a genuine failure: some APIs use the same code for conditions (a
// missing namespace, say) that must not read as "resource absent".
func Get[T any](ctx context.Context, c *Client, ref Ref) (*T, bool, error) {
	var obj T
	resp, err := c.do(ctx, "GET", ref, nil, "")
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		apiErr := errorFromResponse(resp, api.Describe(&obj))
		if apiErr.Status != nil && apiErr.Status.Reason == api.ReasonNotFound {
			return nil, false, nil
		}
		return nil, false, apiErr
	case !successStatus(resp.StatusCode):
		return nil, false, errorFromResponse(resp, api.Describe(&obj))
	}

	if err := json.NewDecoder(resp.Body).Decode(&obj); err != nil {
		return nil, false, errors.Wrap(err, "decoding response from server")
	}
	return &obj, true, nil
}

// List fetches a collection. Failures are described by the collection's item
// kind, not the list type itself.
func List[L any](ctx context.Context, c *Client, ref Ref, opts ListOptions) (*L, error) {
	var list L
	resp, err := c.do(ctx, "GET", ref, nil, "", opts.queryParams()...)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !successStatus(resp.StatusCode) {
		return nil, errorFromResponse(resp, api.DescribeList(&list))
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, errors.Wrap(err, "decoding response from server")
	}
	return &list, nil
}

// Patch applies a JSON Patch built by mutate through a document bound to the
// resource type.
func Patch[T any](ctx context.Context, c *Client, ref Ref, mutate func(*patch.Doc[T])) (*T, error) {
	var doc patch.Doc[T]
	mutate(&doc)
	return sendPatch[T](ctx, c, ref, doc.Ops())
}

// PatchRaw applies a JSON Patch built by mutate as an untyped operation list.
func PatchRaw[T any](ctx context.Context, c *Client, ref Ref, mutate func(*patch.List)) (*T, error) {
	var ops patch.List
	mutate(&ops)
	return sendPatch[T](ctx, c, ref, ops)
}

func sendPatch[T any](ctx context.Context, c *Client, ref Ref, ops patch.List) (*T, error) {
	body, err := ops.Marshal()
	if err != nil {
		return nil, err
	}
	return patchWith[T](ctx, c, ref, body, patch.MediaType)
}

// MergePatch computes the merge-patch document turning original into modified
// and applies it. A conflicting concurrent update surfaces as an error; the
// client does not merge or retry.
func MergePatch[T any](ctx context.Context, c *Client, ref Ref, original, modified interface{}) (*T, error) {
	body, err := patch.CreateMerge(original, modified)
	if err != nil {
		return nil, err
	}
	return patchWith[T](ctx, c, ref, body, patch.MergeMediaType)
}

func patchWith[T any](ctx context.Context, c *Client, ref Ref, body []byte, mediaType string) (*T, error) {
	var obj T
	resp, err := c.do(ctx, "PATCH", ref, body, mediaType)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !successStatus(resp.StatusCode) {
		return nil, errorFromResponse(resp, api.Describe(&obj))
	}
	if err := json.NewDecoder(resp.Body).Decode(&obj); err != nil {
		return nil, errors.Wrap(err, "decoding response from server")
	}
	return &obj, nil
}
