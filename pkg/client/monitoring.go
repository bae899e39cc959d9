package client

// Monitoring for the request path

import (
	"strconv"
	"time"

	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

const (
	LabelMethod  = "method"
	LabelSuccess = "success"
)

var requestDuration = prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
	Namespace: "apiwatch",
	Subsystem: "client",
	Name:      "request_duration_seconds",
	Help:      "Duration of API requests, in seconds.",
	Buckets:   stdprometheus.DefBuckets,
}, []string{LabelMethod, LabelSuccess})

func observeRequest(method string, begin time.Time, success bool) {
	requestDuration.With(
		LabelMethod, method,
		LabelSuccess, strconv.FormatBool(success),
	).Observe(time.Since(begin).Seconds())
}
