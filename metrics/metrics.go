/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package metrics holds the Prometheus counters shared by the client and the
// reconcilers, and exports them to a node-exporter textfile on request.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts remote calls by method and status code.
	// Connection failures are recorded with status "error".
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codestd_requests_total",
			Help: "Total number of requests sent to the code quality service",
		},
		[]string{"method", "status"},
	)

	// DeviationsTotal counts drift found by the reconciler, by kind.
	DeviationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codestd_deviations_total",
			Help: "Total number of deviations between the live standard and the baseline",
		},
		[]string{"kind"},
	)

	// ToolUpdatesTotal counts tool updates by outcome (success or failure).
	ToolUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codestd_tool_updates_total",
			Help: "Total number of tool configuration updates",
		},
		[]string{"outcome"},
	)

	// RepositoriesTotal counts repositories processed by the bulk applier, by outcome.
	RepositoriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codestd_repositories_total",
			Help: "Total number of repositories the standard was applied to",
		},
		[]string{"outcome"},
	)

	// LinkRetriesTotal counts retried repository link calls.
	LinkRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "codestd_link_retries_total",
			Help: "Total number of retried repository link calls",
		},
	)
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// ObserveRequest records one remote call. A zero status means no response was received.
func ObserveRequest(method string, status int) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	RequestsTotal.WithLabelValues(method, label).Inc()
}

// Outcome maps an error to an outcome label.
func Outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

// WriteTextfile writes every registered metric to path in the text exposition
// format, for collection by the node exporter.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
