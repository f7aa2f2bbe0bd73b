/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package snapshot_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"chainguard.dev/codestandard/codacy"
	"chainguard.dev/codestandard/codacy/codacytest"
	"chainguard.dev/codestandard/reconcilers/snapshot"
	"chainguard.dev/codestandard/standard"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var seed = standard.Standard{
	Name:      "Team",
	Languages: []string{"Go"},
	Tools: []standard.Tool{{
		UUID:      "gosec",
		IsEnabled: true,
		Patterns: []standard.Pattern{
			{ID: "G101", Enabled: true, Parameters: map[string]any{"level": "high"}},
			{ID: "G102", Enabled: false},
			{ID: "G103", Enabled: true},
		},
	}, {
		UUID:     "pylint",
		Patterns: []standard.Pattern{{ID: "C0301", Enabled: true}},
	}},
}

func TestFetch(t *testing.T) {
	srv := codacytest.New(t, codacytest.WithPatternPageSize(2))
	id := srv.AddStandard(seed)

	got, err := snapshot.New(srv.NewClient(t)).Fetch(context.Background(), srv.Organization(), id)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	want := seed
	want.ID = id
	if diff := cmp.Diff(&want, got, cmpopts.IgnoreFields(standard.Standard{}, "Meta")); diff != "" {
		t.Errorf("Fetch (-want +got):\n%s", diff)
	}
	if got.Meta == nil || got.Meta.EnabledPatternsCount != 2 {
		t.Errorf("Meta: got = %+v, wanted 2 enabled patterns", got.Meta)
	}
}

func TestExtract(t *testing.T) {
	srv := codacytest.New(t)
	id := srv.AddStandard(seed)

	got, err := snapshot.New(srv.NewClient(t)).Extract(context.Background(), srv.Organization(), id)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	want := []standard.Tool{{
		UUID:      "gosec",
		IsEnabled: true,
		Patterns: []standard.Pattern{
			{ID: "G101", Enabled: true, Parameters: map[string]any{"level": "high"}},
			{ID: "G103", Enabled: true},
		},
	}}
	if diff := cmp.Diff(want, got.Tools); diff != "" {
		t.Errorf("Extract tools (-want +got):\n%s", diff)
	}

	// Patterns of the disabled tool were never requested.
	for _, c := range srv.CallsTo(http.MethodGet, "/patterns") {
		if strings.Contains(c.Path, "/pylint/") {
			t.Errorf("unexpected pattern listing for disabled tool: %s", c.Path)
		}
	}
}

func TestFetchErrors(t *testing.T) {
	srv := codacytest.New(t)
	id := srv.AddStandard(seed)
	s := snapshot.New(srv.NewClient(t))

	if _, err := s.Fetch(context.Background(), srv.Organization(), id+1); codacy.StatusCode(err) != http.StatusNotFound {
		t.Errorf("unknown standard: got = %v, wanted a 404", err)
	}

	srv.FailNext(http.MethodGet, "/gosec/patterns", http.StatusServiceUnavailable)
	if _, err := s.Fetch(context.Background(), srv.Organization(), id); codacy.StatusCode(err) != http.StatusServiceUnavailable {
		t.Errorf("pattern listing failure: got = %v, wanted a 503", err)
	}
}
