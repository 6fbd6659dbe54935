// Copyright 2026 The Spall Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package threadid

import "golang.org/x/sys/unix"

// Current returns the calling goroutine's real Linux OS thread id, and true.
//
// This is only meaningful for a goroutine that has called
// runtime.LockOSThread; otherwise the scheduler may migrate the goroutine to
// a different OS thread between this call and any later one.
func Current() (uint32, bool) {
	return uint32(unix.Gettid()), true
}
