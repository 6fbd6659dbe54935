// Copyright 2026 The Spall Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package threadid identifies the OS thread a goroutine is currently
// running on, where the platform makes that cheap to obtain.
package threadid

import "sync/atomic"

var fallbackSeq uint32

// NextFallback returns a process-unique id for platforms with no cheap
// native OS thread id. Each call returns a new value; callers that want a
// stable per-goroutine id must cache the result themselves.
func NextFallback() uint32 {
	return atomic.AddUint32(&fallbackSeq, 1)
}
