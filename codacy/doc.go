/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package codacy is a small client for the coding standard resources of the
// Codacy v3 API: standards, their tools and patterns, and repository links.
//
// It is the only package that speaks the service's wire format. Everything it
// returns is expressed in terms of the standard package.
//
//	client, err := codacy.New(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
//		codacy.WithRateLimit(rate.Limit(5), 1))
//	if err != nil { ... }
//	tools, err := client.ListTools(ctx, "my-org", standardID)
//
// The API token is sent in the api-token header. Non-2xx responses surface as
// *RemoteError carrying the status code and body; connection failures surface
// as *TransportError.
package codacy
