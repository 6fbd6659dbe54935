// Copyright 2026 The Spall Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spall

// Span is a single open Begin/End pair. Go has no destructors, so unlike
// the guard types this package's design is modeled on, a Span does nothing
// automatically: callers must call End, typically via defer immediately
// after opening it.
//
//	span := spall.Scope("doWork")
//	defer span.End()
type Span struct {
	r    *Recorder
	open bool
}

// Scope opens a Span on the calling goroutine's Recorder, creating the
// Recorder on first use. name is truncated to 255 bytes if longer.
func Scope(name string) *Span {
	return current().Scope(name)
}

// Scopef is Scope with a formatted argument string attached to the Begin
// event, truncated to 255 bytes if the formatted result is longer. The
// format string is only evaluated if the Recorder is usable.
func Scopef(name, format string, a ...interface{}) *Span {
	return current().Scopef(name, format, a...)
}

// Scope opens a Span using this Recorder directly, bypassing the
// per-goroutine registry lookup that the package-level Scope performs. r is
// typically one returned by Attach and cached by the caller.
func (r *Recorder) Scope(name string) *Span {
	if !r.ok() {
		return &Span{}
	}
	name = truncate(name, maxNameLen)

	r.reserve(beginHeaderSize + len(name))
	r.pushBegin(float64(now()), uint8(len(name)), 0)
	r.pushBytes([]byte(name))
	return &Span{r: r, open: true}
}

// Scopef is Scope with a formatted argument string, analogous to the
// package-level Scopef.
func (r *Recorder) Scopef(name, format string, a ...interface{}) *Span {
	if !r.ok() {
		return &Span{}
	}
	name = truncate(name, maxNameLen)

	r.reserve(beginHeaderSize + len(name) + maxArgsLen)
	begin := r.pushBegin(float64(now()), uint8(len(name)), 0)
	r.pushBytes([]byte(name))
	argsLen := r.pushArgs(maxArgsLen, format, a...)
	r.patchArgsLen(begin, uint8(argsLen))
	return &Span{r: r, open: true}
}

// End closes the Span, recording its End event with the current timestamp.
// End is idempotent: calling it more than once after the first has no
// effect, so a deferred End is safe even if the Span is also closed early
// on some code path.
func (s *Span) End() {
	if s == nil || !s.open {
		return
	}
	s.open = false
	s.r.reserve(endEventSize)
	s.r.pushEnd(float64(now()))
}

// truncate trims s to at most n bytes.
func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
