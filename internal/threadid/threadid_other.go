// Copyright 2026 The Spall Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux

package threadid

// Current reports that no cheap native OS thread id is available on this
// platform; callers fall back to internal/gid plus NextFallback.
func Current() (uint32, bool) {
	return 0, false
}
