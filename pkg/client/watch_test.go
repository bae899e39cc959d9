package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apiwatch/apiwatch/pkg/api"
)

func watchHandler(t *testing.T, serve func(w http.ResponseWriter, flush func())) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("watch"))
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		serve(w, flusher.Flush)
	}
}

func writeEvent(t *testing.T, w http.ResponseWriter, typ api.EventType, obj workload) {
	t.Helper()
	ev := api.Event[workload]{Type: typ, Object: &obj}
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	fmt.Fprintf(w, "%s\n", b)
}

func collect[T any](w *Watcher[T]) []api.Event[T] {
	var evs []api.Event[T]
	for ev := range w.Events() {
		evs = append(evs, ev)
	}
	return evs
}

func TestWatchDeliversEventsInOrder(t *testing.T) {
	c := testClient(t, watchHandler(t, func(w http.ResponseWriter, flush func()) {
		writeEvent(t, w, api.Added, testWorkload("w1"))
		flush()
		writeEvent(t, w, api.Modified, testWorkload("w1"))
		writeEvent(t, w, api.Deleted, testWorkload("w1"))
		flush()
	}))

	w, err := Watch[workload](context.Background(), c, Ref{
		APIVersion: "testing/v1", Resource: "workloads", Namespace: "ns1",
	}, ListOptions{})
	require.NoError(t, err)

	evs := collect(w)
	require.NoError(t, w.Err())
	require.Len(t, evs, 3)
	assert.Equal(t, api.Added, evs[0].Type)
	assert.Equal(t, api.Modified, evs[1].Type)
	assert.Equal(t, api.Deleted, evs[2].Type)
	require.NotNil(t, evs[0].Object)
	assert.Equal(t, "w1", evs[0].Object.Metadata.Name)
}

func TestWatchStopEndsCleanly(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		writeEvent(t, w, api.Added, testWorkload("w1"))
		flusher.Flush()
		// hold the stream open until the client goes away
		<-r.Context().Done()
	})

	w, err := Watch[workload](context.Background(), c, Ref{
		APIVersion: "testing/v1", Resource: "workloads", Namespace: "ns1",
	}, ListOptions{})
	require.NoError(t, err)

	ev, ok := <-w.Events()
	require.True(t, ok)
	assert.Equal(t, api.Added, ev.Type)

	w.Stop()
	_, ok = <-w.Events()
	assert.False(t, ok, "events channel should be closed after Stop")
	assert.NoError(t, w.Err(), "caller-initiated stop is a completion, not an error")
}

func TestWatchMalformedLineIsFatal(t *testing.T) {
	c := testClient(t, watchHandler(t, func(w http.ResponseWriter, flush func()) {
		writeEvent(t, w, api.Added, testWorkload("w1"))
		fmt.Fprint(w, "this is not json\n")
		writeEvent(t, w, api.Added, testWorkload("w2"))
		flush()
	}))

	w, err := Watch[workload](context.Background(), c, Ref{
		APIVersion: "testing/v1", Resource: "workloads", Namespace: "ns1",
	}, ListOptions{})
	require.NoError(t, err)

	evs := collect(w)
	assert.Len(t, evs, 1, "no events after the malformed line")

	err = w.Err()
	require.Error(t, err)
	var streamErr *StreamError
	require.ErrorAs(t, err, &streamErr)
}

func TestWatchMissingContentType(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		w.WriteHeader(http.StatusOK)
	})

	_, err := Watch[workload](context.Background(), c, Ref{
		APIVersion: "testing/v1", Resource: "workloads", Namespace: "ns1",
	}, ListOptions{})
	require.Error(t, err)
	var streamErr *StreamError
	require.ErrorAs(t, err, &streamErr)
}

func TestWatchNonUTF8Charset(t *testing.T) {
	utf16le := func(s string) []byte {
		var b []byte
		for _, r := range s {
			b = append(b, byte(r), byte(r>>8))
		}
		return b
	}
	obj := testWorkload("w1")
	line, err := json.Marshal(api.Event[workload]{Type: api.Added, Object: &obj})
	require.NoError(t, err)

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-16le")
		w.WriteHeader(http.StatusOK)
		w.Write(utf16le(string(line) + "\n"))
	})

	w, err := Watch[workload](context.Background(), c, Ref{
		APIVersion: "testing/v1", Resource: "workloads", Namespace: "ns1",
	}, ListOptions{})
	require.NoError(t, err)

	evs := collect(w)
	require.NoError(t, w.Err())
	require.Len(t, evs, 1)
	assert.Equal(t, api.Added, evs[0].Type)
	assert.Equal(t, "w1", evs[0].Object.Metadata.Name)
}

func TestWatchErrorStatus(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusForbidden, api.Status{
			Status:  api.StatusFailure,
			Message: "watch is not permitted",
			Reason:  api.ReasonForbidden,
			Code:    http.StatusForbidden,
		})
	})

	// Repeat so a lost body read (the request context is cancelled on this
	// path) would show up as a flaky nil Status rather than slip through.
	for i := 0; i < 20; i++ {
		_, err := Watch[workload](context.Background(), c, Ref{
			APIVersion: "testing/v1", Resource: "workloads", Namespace: "ns1",
		}, ListOptions{})
		require.Error(t, err)
		apiErr, ok := err.(*APIError)
		require.True(t, ok)
		assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
		require.NotNil(t, apiErr.Status, "error must carry the remote Status payload")
		assert.Equal(t, api.ReasonForbidden, apiErr.Status.Reason)
		assert.Equal(t, "watch is not permitted", apiErr.Status.Message)
	}
}
