/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package builder

// Option configures the Builder.
type Option func(*Builder)

// WithoutPromotion leaves the built standard as a draft for review.
func WithoutPromotion() Option {
	return func(b *Builder) {
		b.promote = false
	}
}
