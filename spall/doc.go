// Copyright 2026 The Spall Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package spall is an in-process tracing library. It records time-stamped
// scope events from any goroutine (optionally pinned to an OS thread with
// runtime.LockOSThread) to a single binary trace file in the Spall format,
// for later inspection by an external Spall-compatible viewer or by the
// spallfile/spallsession packages and cmd/spalldump, cmd/spallstats, and
// cmd/spallflame in this module.
//
// Typical use:
//
//	if _, err := spall.Init("trace-$.spall"); err != nil {
//		log.Fatal(err)
//	}
//
//	func doWork() {
//		span := spall.Scope("doWork")
//		defer span.End()
//		...
//	}
//
// Recording is best-effort: once Init succeeds, no subsequent tracing call
// can fail the host program. Scope and Scopef are safe to call from any
// goroutine without prior setup; a goroutine that instruments a tight loop
// should instead call Attach once and reuse the returned *Recorder, which
// skips the per-call goroutine lookup (see Attach).
package spall
