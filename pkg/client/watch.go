package client

import (
	"context"
	"encoding/json"
	"io"

	"github.com/go-kit/kit/log"
	"github.com/pkg/errors"

	"github.com/apiwatch/apiwatch/pkg/api"
	"github.com/apiwatch/apiwatch/pkg/stream"
)

// Watcher is one watch subscription. Events arrive on Events() in wire order
// until the remote closes the stream, the subscription fails, or the caller
// stops it; the channel is then closed and Err reports how the stream ended.
type Watcher[T any] struct {
	events chan api.Event[T]
	cancel context.CancelFunc
	done   chan struct{}

	// written once by the producer before the channels close
	err error
}

// Events is the subscription's event channel. It is closed when the stream
// ends, for whatever reason.
func (w *Watcher[T]) Events() <-chan api.Event[T] { return w.events }

// Stop cancels the subscription and waits for the producer to wind down.
// A stream ended by Stop is an ordinary completion, not an error.
func (w *Watcher[T]) Stop() {
	w.cancel()
	<-w.done
}

// Err reports a terminal stream failure. Call it only after the events
// channel has closed; nil means the stream ended cleanly (remote close or
// caller stop).
func (w *Watcher[T]) Err() error { return w.err }

// Watch opens a watch subscription on a collection. Events are delivered in
// the order their bytes arrived; nothing is reordered, deduplicated, or
// reconnected; a caller wanting resumption starts a new watch.
func Watch[T any](ctx context.Context, c *Client, ref Ref, opts ListOptions) (*Watcher[T], error) {
	var zero T
	desc := api.Describe(&zero)

	wctx, cancel := context.WithCancel(ctx)
	params := append(opts.queryParams(), "watch", "true")
	resp, err := c.do(wctx, "GET", ref, nil, "", params...)
	if err != nil {
		cancel()
		return nil, err
	}
	if !successStatus(resp.StatusCode) {
		// Drain the body for its Status payload before cancelling; cancel
		// tears down the connection and would race the read.
		apiErr := errorFromResponse(resp, desc)
		resp.Body.Close()
		cancel()
		return nil, apiErr
	}

	enc, err := stream.EncodingFor(resp.Header.Get("Content-Type"))
	if err != nil {
		resp.Body.Close()
		cancel()
		return nil, &StreamError{Err: err}
	}

	w := &Watcher[T]{
		events: make(chan api.Event[T]),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go w.run(wctx, c.logger, resp.Body, stream.NewLineDecoder(enc), desc)
	return w, nil
}

// run is the producer: it reads chunks, feeds the line decoder, and delivers
// one event per line. Only one read is ever outstanding.
func (w *Watcher[T]) run(ctx context.Context, logger log.Logger, body io.ReadCloser, dec *stream.LineDecoder, desc string) {
	defer close(w.done)
	defer close(w.events)
	defer body.Close()

	logger.Log("component", "watch", "resource", desc, "msg", "subscribed")
	buf := make([]byte, 4096)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			for _, line := range dec.Decode(buf[:n]) {
				if !w.deliver(ctx, line) {
					return
				}
			}
		}
		switch {
		case err == nil:
		case err == io.EOF:
			if line, ok := dec.Flush(); ok {
				w.deliver(ctx, line)
			}
			logger.Log("component", "watch", "resource", desc, "msg", "remote closed stream")
			return
		case ctx.Err() != nil:
			// Caller-initiated cancellation ends the stream cleanly.
			logger.Log("component", "watch", "resource", desc, "msg", "stopped")
			return
		default:
			w.err = &StreamError{Err: errors.Wrap(err, "reading watch stream")}
			logger.Log("component", "watch", "resource", desc, "err", err)
			return
		}
	}
}

// deliver decodes one line and hands the event to the consumer. It reports
// false when the subscription must end: a malformed line, or a consumer that
// has detached, in which case no delivery is attempted again.
func (w *Watcher[T]) deliver(ctx context.Context, line string) bool {
	var ev api.Event[T]
	if err := json.Unmarshal([]byte(line), &ev); err != nil {
		w.err = &StreamError{Err: errors.Wrap(err, "decoding watch event")}
		return false
	}
	select {
	case w.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
