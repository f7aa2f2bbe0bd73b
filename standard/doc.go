/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package standard models a coding standard as a tree of tools and patterns.

# Overview

A Standard is the in-memory form of a coding standard as it exists on the remote
service, or as it was saved to a baseline file:

	Standard
	└── Tool (uuid, isEnabled)
	    └── Pattern (id, enabled, parameters)

The same types describe both sides of a comparison: the live tree fetched from the
service and the baseline loaded from disk. Baselines are read-only inputs; nothing in
this module mutates a Standard it was handed for comparison.

# Files

Baselines are JSON documents written with two-space indentation so that they diff
cleanly under version control:

	cfg, err := standard.Load("baseline.json")
	if err != nil {
	    return err // *standard.ConfigurationError
	}
	if err := standard.Save("copy.json", cfg); err != nil {
	    return err
	}

Paths ending in .yaml or .yml are read and written as YAML instead. Loading also
accepts the pattern shape produced by older extractor scripts, where the identifier is
nested under "patternDefinition" and parameters are a list of name/value pairs.

# Selection

SelectStandard picks one standard out of a candidate list using an injected Selector,
so that interactive prompting and scripted selection share one code path:

	s, err := standard.SelectStandard(standard.ActiveOnly(all), standard.ByName("Security"))
*/
package standard
