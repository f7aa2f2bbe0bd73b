/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequest(t *testing.T) {
	before200 := testutil.ToFloat64(RequestsTotal.WithLabelValues("GET", "200"))
	beforeErr := testutil.ToFloat64(RequestsTotal.WithLabelValues("PATCH", "error"))

	ObserveRequest("GET", 200)
	ObserveRequest("PATCH", 0)

	if got, want := testutil.ToFloat64(RequestsTotal.WithLabelValues("GET", "200")), before200+1; got != want {
		t.Errorf("GET 200: got = %v, wanted = %v", got, want)
	}
	if got, want := testutil.ToFloat64(RequestsTotal.WithLabelValues("PATCH", "error")), beforeErr+1; got != want {
		t.Errorf("PATCH error: got = %v, wanted = %v", got, want)
	}
}

func TestOutcome(t *testing.T) {
	if got := Outcome(nil); got != OutcomeSuccess {
		t.Errorf("Outcome(nil): got = %q, wanted = %q", got, OutcomeSuccess)
	}
	if got := Outcome(errors.New("boom")); got != OutcomeFailure {
		t.Errorf("Outcome(err): got = %q, wanted = %q", got, OutcomeFailure)
	}
}

func TestWriteTextfile(t *testing.T) {
	LinkRetriesTotal.Inc()

	path := filepath.Join(t.TempDir(), "codestd.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(b), "codestd_link_retries_total") {
		t.Errorf("textfile missing codestd_link_retries_total:\n%s", b)
	}
}
