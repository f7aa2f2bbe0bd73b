/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package codacytest provides an in-memory fake of the coding standard API for
// tests, with request recording and fault injection.
package codacytest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"

	"chainguard.dev/codestandard/codacy"
	"chainguard.dev/codestandard/standard"
)

const (
	// DefaultOrganization is the organization served unless overridden.
	DefaultOrganization = "acme"
	// DefaultToken is the API token the server accepts unless overridden.
	DefaultToken = "test-token"

	apiPrefix = "/api/v3"
)

// Call is one request received by the server.
type Call struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

// Server is a fake code quality service. All methods are safe for concurrent use.
type Server struct {
	srv *httptest.Server

	mu              sync.Mutex
	org             string
	token           string
	catalog         []standard.Tool
	repositories    []string
	patternPageSize int
	repoPageSize    int
	nextLinks       bool
	nextID          int64
	order           []int64
	standards       map[int64]*standard.Standard
	linked          map[int64][]string
	faults          []*fault
	calls           []Call
}

type fault struct {
	method   string
	suffix   string
	statuses []int
}

// Option configures a Server.
type Option func(*Server)

// WithOrganization sets the organization the server answers for.
func WithOrganization(org string) Option {
	return func(s *Server) { s.org = org }
}

// WithToken sets the accepted API token.
func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

// WithCatalog sets the tools, and their patterns, every new standard starts with.
func WithCatalog(tools ...standard.Tool) Option {
	return func(s *Server) { s.catalog = tools }
}

// WithRepositories sets the organization's repositories, in listing order.
func WithRepositories(names ...string) Option {
	return func(s *Server) { s.repositories = names }
}

// WithPatternPageSize sets how many patterns are served per page.
func WithPatternPageSize(n int) Option {
	return func(s *Server) { s.patternPageSize = n }
}

// WithRepositoryPageSize sets how many repositories are served per page.
func WithRepositoryPageSize(n int) Option {
	return func(s *Server) { s.repoPageSize = n }
}

// WithNextLinks makes pattern listings advertise pagination.next links rather
// than bare cursors.
func WithNextLinks() Option {
	return func(s *Server) { s.nextLinks = true }
}

// New starts a server that is closed when the test ends.
func New(t testing.TB, opts ...Option) *Server {
	t.Helper()
	s := &Server{
		org:             DefaultOrganization,
		token:           DefaultToken,
		patternPageSize: 100,
		repoPageSize:    100,
		nextID:          1000,
		standards:       map[int64]*standard.Standard{},
		linked:          map[int64][]string{},
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	base := apiPrefix + "/organizations/{provider}/{org}"
	mux.HandleFunc("POST "+base+"/coding-standards", s.createStandard)
	mux.HandleFunc("GET "+base+"/coding-standards", s.listStandards)
	mux.HandleFunc("GET "+base+"/coding-standards/{id}", s.getStandard)
	mux.HandleFunc("POST "+base+"/coding-standards/{id}/promote", s.promote)
	mux.HandleFunc("GET "+base+"/coding-standards/{id}/tools", s.listTools)
	mux.HandleFunc("GET "+base+"/coding-standards/{id}/tools/{tool}/patterns", s.listPatterns)
	mux.HandleFunc("PATCH "+base+"/coding-standards/{id}/tools/{tool}", s.updateTool)
	mux.HandleFunc("PATCH "+base+"/coding-standards/{id}/repositories", s.link)
	mux.HandleFunc("GET "+base+"/repositories", s.listRepositories)

	s.srv = httptest.NewServer(s.middleware(mux))
	t.Cleanup(s.srv.Close)
	return s
}

// URL is the API base URL to configure clients with.
func (s *Server) URL() string {
	return s.srv.URL + apiPrefix
}

// Organization returns the organization the server answers for.
func (s *Server) Organization() string {
	return s.org
}

// NewClient returns a client pointed at the server with the accepted token.
func (s *Server) NewClient(t testing.TB, opts ...codacy.Option) *codacy.Client {
	t.Helper()
	opts = append([]codacy.Option{
		codacy.WithBaseURL(s.URL()),
		codacy.WithHTTPClient(s.srv.Client()),
	}, opts...)
	c, err := codacy.New(codacy.StaticToken(s.token), opts...)
	if err != nil {
		t.Fatalf("codacy.New() = %v", err)
	}
	return c
}

// FailNext makes the next len(statuses) requests whose method matches and whose
// path ends with suffix answer with those statuses. A status below 300 lets the
// request through.
func (s *Server) FailNext(method, suffix string, statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, &fault{method: method, suffix: suffix, statuses: statuses})
}

// Calls returns the requests received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

// CallsTo returns the requests whose method matches and whose path ends with suffix.
func (s *Server) CallsTo(method, suffix string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Method == method && strings.HasSuffix(c.Path, suffix) {
			out = append(out, c)
		}
	}
	return out
}

// AddStandard seeds a standard and returns its id. The tree is copied.
func (s *Server) AddStandard(st standard.Standard) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(st)
}

func (s *Server) addLocked(st standard.Standard) int64 {
	s.nextID++
	cp := deepCopy(st)
	cp.ID = s.nextID
	cp.Meta = nil
	s.standards[cp.ID] = &cp
	s.order = append(s.order, cp.ID)
	return cp.ID
}

// Standard returns a copy of the stored tree for id, or nil.
func (s *Server) Standard(id int64) *standard.Standard {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.standards[id]
	if !ok {
		return nil
	}
	cp := deepCopy(*st)
	return &cp
}

// Linked returns the repositories linked to standard id, in link order.
func (s *Server) Linked(id int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.linked[id])
}

func deepCopy(st standard.Standard) standard.Standard {
	out := st
	out.Languages = slices.Clone(st.Languages)
	out.Tools = make([]standard.Tool, 0, len(st.Tools))
	for _, t := range st.Tools {
		ct := t
		ct.Patterns = make([]standard.Pattern, 0, len(t.Patterns))
		for _, p := range t.Patterns {
			cpat := p
			if p.Parameters != nil {
				cpat.Parameters = make(map[string]any, len(p.Parameters))
				for k, v := range p.Parameters {
					cpat.Parameters[k] = v
				}
			}
			ct.Patterns = append(ct.Patterns, cpat)
		}
		out.Tools = append(out.Tools, ct)
	}
	return out
}

func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: body})
		status := s.popFaultLocked(r.Method, r.URL.Path)
		s.mu.Unlock()

		if r.Header.Get(codacy.TokenHeader) != s.token {
			writeError(w, http.StatusUnauthorized, "invalid api token")
			return
		}
		if status >= 300 {
			writeError(w, status, fmt.Sprintf("injected failure %d", status))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) popFaultLocked(method, path string) int {
	for i, f := range s.faults {
		if f.method != method || !strings.HasSuffix(path, f.suffix) {
			continue
		}
		status := f.statuses[0]
		f.statuses = f.statuses[1:]
		if len(f.statuses) == 0 {
			s.faults = slices.Delete(s.faults, i, i+1)
		}
		return status
	}
	return 0
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": http.StatusText(status), "message": msg})
}
