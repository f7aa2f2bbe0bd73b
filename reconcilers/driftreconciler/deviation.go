/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package driftreconciler

import "fmt"

// Kind classifies a deviation.
type Kind string

const (
	ToolMissing            Kind = "tool-missing"
	ToolEnabledMismatch    Kind = "tool-enabled-mismatch"
	PatternMissing         Kind = "pattern-missing"
	PatternEnabledMismatch Kind = "pattern-enabled-mismatch"
)

// Deviation is one difference between the baseline and the live standard.
// Want and Got hold the enabled states for the mismatch kinds.
type Deviation struct {
	Kind      Kind   `json:"kind"`
	ToolUUID  string `json:"toolUuid"`
	PatternID string `json:"patternId,omitempty"`
	Want      bool   `json:"want"`
	Got       bool   `json:"got"`
}

func (d Deviation) String() string {
	switch d.Kind {
	case ToolMissing:
		return fmt.Sprintf("Tool %s is missing", d.ToolUUID)
	case ToolEnabledMismatch:
		return fmt.Sprintf("Tool %s enabled status mismatch (expected %t, found %t)", d.ToolUUID, d.Want, d.Got)
	case PatternMissing:
		return fmt.Sprintf("Pattern %s is missing in tool %s", d.PatternID, d.ToolUUID)
	case PatternEnabledMismatch:
		return fmt.Sprintf("Pattern %s in tool %s has different enabled status (expected %t, found %t)", d.PatternID, d.ToolUUID, d.Want, d.Got)
	default:
		return fmt.Sprintf("%s: tool %s pattern %s", d.Kind, d.ToolUUID, d.PatternID)
	}
}
