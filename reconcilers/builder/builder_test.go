/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package builder_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"chainguard.dev/codestandard/codacy"
	"chainguard.dev/codestandard/codacy/codacytest"
	"chainguard.dev/codestandard/reconcilers/builder"
	"chainguard.dev/codestandard/standard"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// catalog is what the service puts in every new standard.
func catalog() []standard.Tool {
	return []standard.Tool{{
		UUID:      "eslint",
		IsEnabled: true,
		Patterns: []standard.Pattern{
			{ID: "no-var", Enabled: true},
			{ID: "max-len", Enabled: true},
			{ID: "semi", Enabled: true},
		},
	}, {
		UUID:      "gosec",
		IsEnabled: true,
		Patterns: []standard.Pattern{
			{ID: "G101", Enabled: true},
			{ID: "G102", Enabled: false},
		},
	}, {
		UUID:      "pylint",
		IsEnabled: true,
		Patterns:  []standard.Pattern{{ID: "C0301", Enabled: true}},
	}}
}

func baseline() *standard.Standard {
	return &standard.Standard{
		Languages: []string{"Go", "JavaScript"},
		Tools: []standard.Tool{{
			UUID:      "eslint",
			IsEnabled: true,
			Patterns: []standard.Pattern{
				{ID: "max-len", Enabled: true, Parameters: map[string]any{"max": "120"}},
				{ID: "semi", Enabled: false},
			},
		}, {
			UUID:      "gosec",
			IsEnabled: true,
			Patterns:  []standard.Pattern{{ID: "G102", Enabled: true}},
		}},
	}
}

type toolUpdate struct {
	Enabled  bool                   `json:"enabled"`
	Patterns []codacy.PatternUpdate `json:"patterns"`
}

func decodeUpdate(t *testing.T, call codacytest.Call) toolUpdate {
	t.Helper()
	var u toolUpdate
	if err := json.Unmarshal(call.Body, &u); err != nil {
		t.Fatalf("decoding %s: %v", call.Path, err)
	}
	return u
}

func TestBuild(t *testing.T) {
	ctx := context.Background()
	srv := codacytest.New(t, codacytest.WithCatalog(catalog()...), codacytest.WithPatternPageSize(2))
	b := builder.New(srv.NewClient(t))

	res, err := b.Build(ctx, srv.Organization(), "Security Baseline", baseline())
	require.NoError(t, err)
	require.NoError(t, res.Err())
	if !res.Promoted || res.Standard.IsDraft {
		t.Errorf("Result: got = %+v, wanted promoted standard", res)
	}

	got := srv.Standard(res.Standard.ID)
	want := []standard.Tool{{
		UUID:      "eslint",
		IsEnabled: true,
		Patterns: []standard.Pattern{
			{ID: "no-var", Enabled: false},
			{ID: "max-len", Enabled: true, Parameters: map[string]any{"max": "120"}},
			{ID: "semi", Enabled: false},
		},
	}, {
		UUID:      "gosec",
		IsEnabled: true,
		Patterns: []standard.Pattern{
			{ID: "G101", Enabled: false},
			{ID: "G102", Enabled: true},
		},
	}, {
		// Not in the baseline, so it stays off.
		UUID:      "pylint",
		IsEnabled: false,
		Patterns:  []standard.Pattern{{ID: "C0301", Enabled: false}},
	}}
	if diff := cmp.Diff(want, got.Tools); diff != "" {
		t.Errorf("stored tools (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Go", "JavaScript"}, got.Languages); diff != "" {
		t.Errorf("languages (-want +got):\n%s", diff)
	}
}

func TestBuildDisablePassNeverEnables(t *testing.T) {
	ctx := context.Background()
	srv := codacytest.New(t, codacytest.WithCatalog(catalog()...), codacytest.WithPatternPageSize(2))
	b := builder.New(srv.NewClient(t))

	if _, err := b.Build(ctx, srv.Organization(), "s", baseline()); err != nil {
		t.Fatalf("Build: %v", err)
	}

	var patches []codacytest.Call
	for _, c := range srv.Calls() {
		if c.Method == http.MethodPatch {
			patches = append(patches, c)
		}
	}
	// One disable call per catalog tool, then one per baseline tool.
	if got, want := len(patches), len(catalog())+len(baseline().Tools); got != want {
		t.Fatalf("PATCH calls: got = %d, wanted = %d", got, want)
	}

	for i, tool := range catalog() {
		u := decodeUpdate(t, patches[i])
		if u.Enabled {
			t.Errorf("disable %s: tool sent enabled:true", tool.UUID)
		}
		if got, want := len(u.Patterns), len(tool.Patterns); got != want {
			t.Errorf("disable %s: got %d patterns, wanted every one of %d", tool.UUID, got, want)
		}
		for _, p := range u.Patterns {
			if p.Enabled {
				t.Errorf("disable %s: pattern %s sent enabled:true", tool.UUID, p.ID)
			}
		}
	}

	// The apply pass sends only the baseline's enabled patterns.
	u := decodeUpdate(t, patches[len(catalog())])
	want := []codacy.PatternUpdate{{ID: "max-len", Enabled: true, Parameters: []standard.Parameter{{Name: "max", Value: "120"}}}}
	if diff := cmp.Diff(want, u.Patterns); diff != "" {
		t.Errorf("apply eslint (-want +got):\n%s", diff)
	}
}

func TestBuildToolFailureIsContained(t *testing.T) {
	ctx := context.Background()
	srv := codacytest.New(t, codacytest.WithCatalog(catalog()...))
	// Let the disable call through, fail the apply call.
	srv.FailNext(http.MethodPatch, "/tools/eslint", http.StatusOK, http.StatusInternalServerError)

	res, err := builder.New(srv.NewClient(t)).Build(ctx, srv.Organization(), "s", baseline())
	require.NoError(t, err)
	require.Len(t, res.ToolFailures, 1)
	if res.ToolFailures[0].ToolUUID != "eslint" || codacy.StatusCode(res.ToolFailures[0].Err) != http.StatusInternalServerError {
		t.Errorf("ToolFailures: got = %+v", res.ToolFailures)
	}
	if res.Err() == nil {
		t.Error("Err: got = nil, wanted the tool failure")
	}

	// The remaining tool and promotion still happened.
	got := srv.Standard(res.Standard.ID)
	if !got.Tool("gosec").Pattern("G102").Enabled {
		t.Error("gosec/G102 was not enabled after the eslint failure")
	}
	if !res.Promoted || got.IsDraft {
		t.Error("standard was not promoted after a contained tool failure")
	}
}

func TestBuildDisableFailureIsFatal(t *testing.T) {
	ctx := context.Background()
	srv := codacytest.New(t, codacytest.WithCatalog(catalog()...))
	srv.FailNext(http.MethodPatch, "/tools/gosec", http.StatusInternalServerError)

	res, err := builder.New(srv.NewClient(t)).Build(ctx, srv.Organization(), "s", baseline())
	if err == nil {
		t.Fatalf("Build: got = %+v, wanted error", res)
	}
	if codacy.StatusCode(err) != http.StatusInternalServerError {
		t.Errorf("Build error: got = %v, wanted a 500", err)
	}
	if calls := srv.CallsTo(http.MethodPost, "/promote"); len(calls) != 0 {
		t.Errorf("promote calls: got = %d, wanted = 0", len(calls))
	}
}

func TestBuildCreateFailureIsFatal(t *testing.T) {
	ctx := context.Background()
	srv := codacytest.New(t, codacytest.WithCatalog(catalog()...))
	srv.FailNext(http.MethodPost, "/coding-standards", http.StatusForbidden)

	if _, err := builder.New(srv.NewClient(t)).Build(ctx, srv.Organization(), "s", baseline()); codacy.StatusCode(err) != http.StatusForbidden {
		t.Errorf("Build: got = %v, wanted a 403", err)
	}
	if calls := srv.CallsTo(http.MethodGet, "/tools"); len(calls) != 0 {
		t.Errorf("tool listings after failed create: got = %d, wanted = 0", len(calls))
	}
}

func TestBuildPromotionFailureIsContained(t *testing.T) {
	ctx := context.Background()
	srv := codacytest.New(t, codacytest.WithCatalog(catalog()...))
	srv.FailNext(http.MethodPost, "/promote", http.StatusInternalServerError)

	res, err := builder.New(srv.NewClient(t)).Build(ctx, srv.Organization(), "s", baseline())
	require.NoError(t, err)
	if res.Promoted {
		t.Error("Promoted: got = true, wanted = false")
	}
	if codacy.StatusCode(res.PromotionErr) != http.StatusInternalServerError {
		t.Errorf("PromotionErr: got = %v, wanted a 500", res.PromotionErr)
	}
	if !srv.Standard(res.Standard.ID).IsDraft || !res.Standard.IsDraft {
		t.Error("standard should remain a draft")
	}
}

func TestBuildWithoutPromotion(t *testing.T) {
	ctx := context.Background()
	srv := codacytest.New(t, codacytest.WithCatalog(catalog()...))

	res, err := builder.New(srv.NewClient(t), builder.WithoutPromotion()).Build(ctx, srv.Organization(), "s", baseline())
	require.NoError(t, err)
	if res.Promoted || res.PromotionErr != nil {
		t.Errorf("Result: got = %+v, wanted untouched draft", res)
	}
	if calls := srv.CallsTo(http.MethodPost, "/promote"); len(calls) != 0 {
		t.Errorf("promote calls: got = %d, wanted = 0", len(calls))
	}
}

func TestBuildNilBaseline(t *testing.T) {
	if _, err := builder.New(nil).Build(context.Background(), "acme", "s", nil); err == nil {
		t.Error("Build(nil): got = nil, wanted error")
	}
}
