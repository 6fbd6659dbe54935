// Copyright 2026 The Spall Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spall

// defaultBufferSize is the per-goroutine recorder buffer size used unless
// overridden with WithBufferSize.
const defaultBufferSize = 64 * 1024

// Option configures the GlobalContext published by Init.
type Option func(*globalContext)

// WithBufferSize sets the byte size of each recorder's append buffer.
// Reserve calls within a single recorder must never request more than this
// many bytes.
func WithBufferSize(n int) Option {
	return func(c *globalContext) {
		if n > 0 {
			c.bufferSize = n
		}
	}
}

// WithSilent suppresses the stderr diagnostics emitted for recorder
// creation failures and flush write errors.
func WithSilent(silent bool) Option {
	return func(c *globalContext) {
		c.silent = silent
	}
}
