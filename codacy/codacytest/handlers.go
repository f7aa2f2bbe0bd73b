/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package codacytest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"chainguard.dev/codestandard/standard"
)

type wireStandard struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	IsDraft   bool           `json:"isDraft"`
	IsDefault bool           `json:"isDefault"`
	Languages []string       `json:"languages"`
	Meta      *standard.Meta `json:"meta"`
}

type wireTool struct {
	UUID             string `json:"uuid"`
	IsEnabled        bool   `json:"isEnabled"`
	CodingStandardID int64  `json:"codingStandardId"`
}

type wirePattern struct {
	PatternDefinition struct {
		ID string `json:"id"`
	} `json:"patternDefinition"`
	Enabled    bool                 `json:"enabled"`
	Parameters []standard.Parameter `json:"parameters"`
}

type wirePagination struct {
	Cursor string `json:"cursor,omitempty"`
	Limit  int    `json:"limit"`
	Total  int    `json:"total"`
	Next   string `json:"next,omitempty"`
}

type page struct {
	Data       any             `json:"data"`
	Pagination *wirePagination `json:"pagination,omitempty"`
}

func (s *Server) toWireLocked(st *standard.Standard) wireStandard {
	meta := &standard.Meta{LinkedRepositoriesCount: len(s.linked[st.ID])}
	for _, t := range st.Tools {
		if !t.IsEnabled {
			continue
		}
		meta.EnabledToolsCount++
		meta.EnabledPatternsCount += len(t.EnabledPatterns())
	}
	return wireStandard{
		ID:        st.ID,
		Name:      st.Name,
		IsDraft:   st.IsDraft,
		IsDefault: st.IsDefault,
		Languages: st.Languages,
		Meta:      meta,
	}
}

// lookupLocked resolves the organization and standard of a request, writing a
// 404 when either is unknown.
func (s *Server) lookupLocked(w http.ResponseWriter, r *http.Request) (*standard.Standard, bool) {
	if !s.orgLocked(w, r) {
		return nil, false
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid coding standard id %q", r.PathValue("id")))
		return nil, false
	}
	st, ok := s.standards[id]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("coding standard %d not found", id))
		return nil, false
	}
	return st, true
}

func (s *Server) orgLocked(w http.ResponseWriter, r *http.Request) bool {
	if r.PathValue("org") != s.org {
		writeError(w, http.StatusNotFound, fmt.Sprintf("organization %q not found", r.PathValue("org")))
		return false
	}
	return true
}

// offset parses a cursor, which this server encodes as a list offset.
func offset(r *http.Request) (int, error) {
	c := r.URL.Query().Get("cursor")
	if c == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(c)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid cursor %q", c)
	}
	return n, nil
}

func window(total, start, size int) (int, int, string) {
	start = min(start, total)
	end := min(start+size, total)
	next := ""
	if end < total {
		next = strconv.Itoa(end)
	}
	return start, end, next
}

func (s *Server) createStandard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string   `json:"name"`
		Languages []string `json:"languages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.orgLocked(w, r) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	id := s.addLocked(standard.Standard{
		Name:      req.Name,
		IsDraft:   true,
		Languages: req.Languages,
		Tools:     s.catalog,
	})
	writeJSON(w, http.StatusOK, page{Data: s.toWireLocked(s.standards[id])})
}

func (s *Server) listStandards(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.orgLocked(w, r) {
		return
	}
	out := make([]wireStandard, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.toWireLocked(s.standards[id]))
	}
	writeJSON(w, http.StatusOK, page{Data: out})
}

func (s *Server) getStandard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.lookupLocked(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, page{Data: s.toWireLocked(st)})
}

func (s *Server) promote(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.lookupLocked(w, r)
	if !ok {
		return
	}
	if !st.IsDraft {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("coding standard %d is not a draft", st.ID))
		return
	}
	for _, other := range s.standards {
		other.IsDefault = false
	}
	st.IsDraft = false
	st.IsDefault = true
	writeJSON(w, http.StatusOK, page{Data: s.toWireLocked(st)})
}

func (s *Server) listTools(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.lookupLocked(w, r)
	if !ok {
		return
	}
	out := make([]wireTool, 0, len(st.Tools))
	for _, t := range st.Tools {
		out = append(out, wireTool{UUID: t.UUID, IsEnabled: t.IsEnabled, CodingStandardID: st.ID})
	}
	writeJSON(w, http.StatusOK, page{Data: out})
}

func (s *Server) listPatterns(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.lookupLocked(w, r)
	if !ok {
		return
	}
	tool := st.Tool(r.PathValue("tool"))
	if tool == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("tool %q not found", r.PathValue("tool")))
		return
	}
	at, err := offset(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start, end, next := window(len(tool.Patterns), at, s.patternPageSize)
	out := make([]wirePattern, 0, end-start)
	for _, p := range tool.Patterns[start:end] {
		var wp wirePattern
		wp.PatternDefinition.ID = p.ID
		wp.Enabled = p.Enabled
		wp.Parameters = standard.ParameterList(p.Parameters)
		out = append(out, wp)
	}

	pg := &wirePagination{Limit: s.patternPageSize, Total: len(tool.Patterns)}
	switch {
	case next == "":
	case s.nextLinks:
		q := r.URL.Query()
		q.Set("cursor", next)
		pg.Next = r.URL.Path + "?" + q.Encode()
	default:
		pg.Cursor = next
	}
	writeJSON(w, http.StatusOK, page{Data: out, Pagination: pg})
}

func (s *Server) updateTool(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled  bool `json:"enabled"`
		Patterns []struct {
			ID         string               `json:"id"`
			Enabled    bool                 `json:"enabled"`
			Parameters []standard.Parameter `json:"parameters"`
		} `json:"patterns"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.lookupLocked(w, r)
	if !ok {
		return
	}
	tool := st.Tool(r.PathValue("tool"))
	if tool == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("tool %q not found", r.PathValue("tool")))
		return
	}
	// Validate the whole request before applying any of it.
	for _, p := range req.Patterns {
		if tool.Pattern(p.ID) == nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("pattern %q does not belong to tool %q", p.ID, tool.UUID))
			return
		}
	}

	tool.IsEnabled = req.Enabled
	for _, p := range req.Patterns {
		target := tool.Pattern(p.ID)
		target.Enabled = p.Enabled
		if len(p.Parameters) > 0 {
			target.Parameters = standard.ParameterMap(p.Parameters)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) link(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Link   []string `json:"link"`
		Unlink []string `json:"unlink"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.lookupLocked(w, r)
	if !ok {
		return
	}
	s.linked[st.ID] = append(s.linked[st.ID], req.Link...)
	writeJSON(w, http.StatusOK, map[string][]string{"successful": req.Link, "failed": {}})
}

func (s *Server) listRepositories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.orgLocked(w, r) {
		return
	}
	at, err := offset(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start, end, next := window(len(s.repositories), at, s.repoPageSize)
	out := make([]map[string]string, 0, end-start)
	for _, name := range s.repositories[start:end] {
		out = append(out, map[string]string{"name": name})
	}
	writeJSON(w, http.StatusOK, page{Data: out, Pagination: &wirePagination{
		Cursor: next,
		Limit:  s.repoPageSize,
		Total:  len(s.repositories),
	}})
}
