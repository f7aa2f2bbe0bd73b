/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package standard

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrNoCandidates is returned when there is nothing to select from.
var ErrNoCandidates = errors.New("no coding standards to select from")

// Selector picks one of the candidates and returns its index.
type Selector interface {
	Select(candidates []Standard) (int, error)
}

// SelectorFunc adapts a function to the Selector interface.
type SelectorFunc func(candidates []Standard) (int, error)

// Select implements Selector.
func (f SelectorFunc) Select(candidates []Standard) (int, error) {
	return f(candidates)
}

// SelectStandard applies sel to candidates and returns a copy of the chosen standard.
func SelectStandard(candidates []Standard, sel Selector) (*Standard, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}
	if sel == nil {
		return nil, errors.New("no selector configured")
	}
	i, err := sel.Select(candidates)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(candidates) {
		return nil, fmt.Errorf("selection %d out of range [0, %d)", i, len(candidates))
	}
	chosen := candidates[i]
	return &chosen, nil
}

// ActiveOnly drops draft standards.
func ActiveOnly(all []Standard) []Standard {
	out := make([]Standard, 0, len(all))
	for _, s := range all {
		if !s.IsDraft {
			out = append(out, s)
		}
	}
	return out
}

// ByIndex selects the n-th candidate, counting from 1 as the menu does.
func ByIndex(n int) Selector {
	return SelectorFunc(func(candidates []Standard) (int, error) {
		if n < 1 || n > len(candidates) {
			return 0, fmt.Errorf("index %d out of range 1..%d", n, len(candidates))
		}
		return n - 1, nil
	})
}

// ByName selects the first candidate whose name matches, ignoring case.
func ByName(name string) Selector {
	return SelectorFunc(func(candidates []Standard) (int, error) {
		for i, s := range candidates {
			if strings.EqualFold(s.Name, name) {
				return i, nil
			}
		}
		return 0, fmt.Errorf("no coding standard named %q", name)
	})
}

// ByID selects the candidate with the given id.
func ByID(id int64) Selector {
	return SelectorFunc(func(candidates []Standard) (int, error) {
		for i, s := range candidates {
			if s.ID == id {
				return i, nil
			}
		}
		return 0, fmt.Errorf("no coding standard with id %d", id)
	})
}

// Prompt lists the candidates on out and reads a 1-based choice from in, asking
// again until the answer is a valid number or in is exhausted.
func Prompt(in io.Reader, out io.Writer) Selector {
	return SelectorFunc(func(candidates []Standard) (int, error) {
		fmt.Fprintln(out, "\nAvailable coding standards:")
		for i, s := range candidates {
			fmt.Fprintf(out, "%d. %s\n", i+1, s.Name)
		}

		sc := bufio.NewScanner(in)
		for {
			fmt.Fprint(out, "\nEnter the number of the coding standard: ")
			if !sc.Scan() {
				if err := sc.Err(); err != nil {
					return 0, fmt.Errorf("reading selection: %w", err)
				}
				return 0, errors.New("no selection made")
			}
			n, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
			if err != nil {
				fmt.Fprintln(out, "Please enter a valid number.")
				continue
			}
			if n < 1 || n > len(candidates) {
				fmt.Fprintln(out, "Invalid selection. Please try again.")
				continue
			}
			return n - 1, nil
		}
	})
}
