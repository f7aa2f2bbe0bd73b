/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
)

type printer struct {
	out, errOut io.Writer
}

// success prints a green message with a checkmark prefix.
func (p printer) success(format string, a ...any) {
	green.Fprintf(p.out, "✓ %s\n", strings.TrimSuffix(fmt.Sprintf(format, a...), "\n"))
}

func (p printer) info(format string, a ...any) {
	fmt.Fprintf(p.out, format+"\n", a...)
}

// heading prints a cyan section title.
func (p printer) heading(format string, a ...any) {
	cyan.Fprintf(p.out, format+"\n", a...)
}

// warning prints a yellow message on the error stream.
func (p printer) warning(format string, a ...any) {
	yellow.Fprintf(p.errOut, "⚠️  %s\n", strings.TrimSuffix(fmt.Sprintf(format, a...), "\n"))
}

// fail prints err in red on the error stream.
func (p printer) fail(err error) {
	red.Fprintf(p.errOut, "Error: %v\n", err)
}
