/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"

	"chainguard.dev/codestandard/codacy"
	"chainguard.dev/codestandard/standard"
	"github.com/sethvargo/go-envconfig"
	"golang.org/x/time/rate"
)

type config struct {
	Token    string `env:"CODACY_API_TOKEN,required"`
	BaseURL  string `env:"CODACY_API_URL,default=https://app.codacy.com/api/v3"`
	Provider string `env:"CODACY_PROVIDER,default=gh"`

	// Requests per second; 0 disables pacing.
	RateLimit float64 `env:"CODACY_RATE_LIMIT,default=0"`
}

// loadConfig reads the environment. Every failure is a ConfigurationError.
func loadConfig(ctx context.Context, lookuper envconfig.Lookuper) (*config, error) {
	var cfg config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, &standard.ConfigurationError{Err: err}
	}
	return &cfg, nil
}

func (c *config) options() []codacy.Option {
	opts := []codacy.Option{
		codacy.WithBaseURL(c.BaseURL),
		codacy.WithProvider(c.Provider),
		codacy.WithUserAgent("codestd/" + version),
	}
	if c.RateLimit > 0 {
		opts = append(opts, codacy.WithRateLimit(rate.Limit(c.RateLimit), 1))
	}
	return opts
}

func (c *config) client() (*codacy.Client, error) {
	client, err := codacy.New(codacy.StaticToken(c.Token), c.options()...)
	if err != nil {
		return nil, &standard.ConfigurationError{Err: err}
	}
	return client, nil
}
