/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package repolinker

// Partition splits items into contiguous chunks of at most size elements,
// preserving order. Chunks share the backing array of items.
func Partition[T any](items []T, size int) [][]T {
	if size < 1 || len(items) == 0 {
		return nil
	}
	out := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end:end])
	}
	return out
}
