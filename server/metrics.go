package server

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	fleetforecast "github.com/IEncryptSaad/FLEET-UTILLIZATION-FORECASTING"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetforecast_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fleetforecast_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"route", "method", "class"},
	)

	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetforecast_runs_total",
			Help: "Total number of forecast runs served",
		},
		[]string{"strategy", "cache"},
	)

	runDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fleetforecast_run_duration_seconds",
			Help:    "Forecast run duration in seconds, cache hits included",
			Buckets: []float64{0.001, 0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"strategy"},
	)

	runErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetforecast_run_errors_total",
			Help: "Total number of failed forecast runs",
		},
		[]string{"stage"},
	)

	regOnce sync.Once
)

func registerMetrics() {
	regOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestsTotal,
			httpRequestDuration,
			runsTotal,
			runDuration,
			runErrorsTotal,
		)
	})
}

// Metrics records request metrics with low cardinality labels. Route labels
// use the registered route template, not the raw URL.
func Metrics() echo.MiddlewareFunc {
	registerMetrics()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}
			status := c.Response().Status
			if err != nil && !c.Response().Committed {
				status = statusFromError(err)
			}

			httpRequestsTotal.WithLabelValues(route, c.Request().Method, strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(route, c.Request().Method, statusClass(status)).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

func observeRun(strategy string, cached bool, elapsed time.Duration) {
	registerMetrics()
	runsTotal.WithLabelValues(strategy, strconv.FormatBool(cached)).Inc()
	runDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
}

func observeRunError(err error) {
	registerMetrics()
	stage := "unknown"
	var stageErr *fleetforecast.StageError
	if errors.As(err, &stageErr) {
		stage = string(stageErr.Stage)
	}
	runErrorsTotal.WithLabelValues(stage).Inc()
}

func statusFromError(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

func statusClass(code int) string {
	switch {
	case code >= 100 && code < 200:
		return "1xx"
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
