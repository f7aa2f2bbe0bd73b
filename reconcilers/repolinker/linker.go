/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package repolinker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"chainguard.dev/codestandard/codacy"
	"chainguard.dev/codestandard/metrics"
	"chainguard.dev/codestandard/retry"
	"github.com/chainguard-dev/clog"
)

// Client is the subset of the remote client the linker needs.
type Client interface {
	ListRepositories(ctx context.Context, org, cursor string) (*codacy.RepositoryPage, error)
	LinkRepositories(ctx context.Context, org string, id int64, names []string) error
}

// Outcome of linking one repository.
type Outcome string

const (
	Success Outcome = "success"
	Failure Outcome = "failure"
)

// BatchResult is the outcome for one repository.
type BatchResult struct {
	Repository string  `json:"repository"`
	Outcome    Outcome `json:"outcome"`
	// StatusCode is the HTTP status of the last failed attempt, 0 otherwise.
	StatusCode int    `json:"statusCode,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

// Summary describes a bulk application.
type Summary struct {
	Successful []string      `json:"successful"`
	Failed     []BatchResult `json:"failed"`
	// Results holds one entry per repository, in listing order.
	Results []BatchResult `json:"results"`
	// ListErr is set when the repositories could not be listed; nothing was linked.
	ListErr error `json:"-"`
}

// Err reports whether the application was incomplete.
func (s *Summary) Err() error {
	if s.ListErr != nil {
		return s.ListErr
	}
	if len(s.Failed) > 0 {
		return fmt.Errorf("%d of %d repositories failed", len(s.Failed), len(s.Results))
	}
	return nil
}

// Linker links repositories to a standard in batches.
type Linker struct {
	client    Client
	batchSize int
	retry     retry.RetryConfig
	pause     time.Duration
	sleep     retry.SleepFunc
}

// New constructs a Linker with the provided options.
func New(client Client, opts ...Option) *Linker {
	l := &Linker{
		client:    client,
		batchSize: DefaultBatchSize,
		retry:     retry.DefaultRetryConfig(),
		pause:     DefaultPause,
		sleep:     retry.Sleep,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.retry.Sleep == nil {
		l.retry.Sleep = l.sleep
	}
	return l
}

// Repositories drains the repository listing of org, in listing order.
func (l *Linker) Repositories(ctx context.Context, org string) ([]string, error) {
	var names []string
	seen := map[string]struct{}{}
	cursor := ""
	for {
		page, err := l.client.ListRepositories(ctx, org, cursor)
		if err != nil {
			return nil, err
		}
		names = append(names, page.Names...)
		if page.NextCursor == "" {
			return names, nil
		}
		if _, dup := seen[page.NextCursor]; dup {
			return nil, fmt.Errorf("repository listing repeated cursor %q", page.NextCursor)
		}
		seen[page.NextCursor] = struct{}{}
		cursor = page.NextCursor
	}
}

// ApplyToAll links standard id to every repository of org.
func (l *Linker) ApplyToAll(ctx context.Context, org string, id int64) *Summary {
	log := clog.FromContext(ctx).With("organization", org).With("standard_id", id)
	summary := &Summary{}

	names, err := l.Repositories(ctx, org)
	if err != nil {
		log.With("error", err.Error()).Error("Failed to list repositories")
		summary.ListErr = err
		return summary
	}
	log.With("repositories", len(names)).Info("Listed repositories")

	batches := Partition(names, l.batchSize)
	for i, batch := range batches {
		blog := log.With("batch", i+1).With("batches", len(batches)).With("size", len(batch))

		var err error
		if err = ctx.Err(); err == nil {
			err = l.link(ctx, org, id, batch)
		}
		summary.record(batch, err)
		for range batch {
			metrics.RepositoriesTotal.WithLabelValues(metrics.Outcome(err)).Inc()
		}
		if err != nil {
			blog.With("error", err.Error()).Warn("Failed to link batch")
		} else {
			blog.Info("Linked batch")
		}

		if ctx.Err() == nil {
			if err := l.sleep(ctx, l.pause); err != nil {
				log.With("error", err.Error()).Warn("Pause interrupted")
			}
		}
	}

	log.With("successful", len(summary.Successful)).With("failed", len(summary.Failed)).Info("Applied coding standard")
	return summary
}

func (l *Linker) link(ctx context.Context, org string, id int64, batch []string) error {
	attempt := 0
	_, err := retry.RetryWithBackoff(ctx, l.retry, "link repositories", codacy.IsRetryable, func() (struct{}, error) {
		attempt++
		if attempt > 1 {
			metrics.LinkRetriesTotal.Inc()
		}
		return struct{}{}, l.client.LinkRepositories(ctx, org, id, batch)
	})
	return err
}

func (s *Summary) record(batch []string, err error) {
	if err == nil {
		for _, name := range batch {
			s.Successful = append(s.Successful, name)
			s.Results = append(s.Results, BatchResult{Repository: name, Outcome: Success})
		}
		return
	}

	code, detail := codacy.StatusCode(err), err.Error()
	var re *codacy.RemoteError
	if errors.As(err, &re) && re.StatusCode == http.StatusBadRequest && re.Body != "" {
		detail = re.Body
	}
	for _, name := range batch {
		r := BatchResult{Repository: name, Outcome: Failure, StatusCode: code, Detail: detail}
		s.Failed = append(s.Failed, r)
		s.Results = append(s.Results, r)
	}
}
