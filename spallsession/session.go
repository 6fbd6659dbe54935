// Copyright 2026 The Spall Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package spallsession reconstructs per-thread call trees from a stream of
// spallfile records. It plays the same role for Spall traces that
// perfsession plays for perf.data profiles: perfsession.Session.Update
// folds perf events into live per-PID state; Session.Update here folds
// Begin/End pairs into a tree of completed Frames per (Pid, Tid).
package spallsession

import (
	"fmt"

	"github.com/ianlancetaylor/demangle"

	"github.com/tracespall/spall/spallfile"
)

// Frame is one completed Begin/End scope.
type Frame struct {
	Name     string // demangled, if Name looked like a mangled symbol
	RawName  string // exactly as recorded
	Args     string
	Start    float64
	End      float64
	Parent   *Frame
	Children []*Frame
}

// Duration returns the frame's wall time in the trace's timestamp units.
func (f *Frame) Duration() float64 {
	return f.End - f.Start
}

// threadKey identifies a single (Pid, Tid) pair's call stack.
type threadKey struct {
	pid, tid uint32
}

// Session accumulates Begin/End records into per-thread call trees.
type Session struct {
	// Header is copied from the spallfile.File this Session was built
	// from, so downstream consumers (spallstats, spallflame) can convert
	// timestamps without holding onto the File itself.
	Header spallfile.Header

	stacks map[threadKey][]*Frame // open frames, innermost last
	roots  map[threadKey][]*Frame // completed top-level frames, in order

	// UnmatchedEnds counts End records seen with no corresponding open
	// Begin on that thread; such a trace is malformed (see Span.End's
	// idempotence contract on the writing side), but a reader should
	// report the fact rather than panic.
	UnmatchedEnds int
}

// New creates an empty Session for a trace with the given header.
func New(header spallfile.Header) *Session {
	return &Session{
		Header: header,
		stacks: make(map[threadKey][]*Frame),
		roots:  make(map[threadKey][]*Frame),
	}
}

// Build reads every record from f in the given order and returns the
// resulting Session. Any decode error is returned; a non-nil Session is still usable with
// whatever records were read before the error.
func Build(f *spallfile.File, order spallfile.RecordsOrder) (*Session, error) {
	s := New(f.Header)
	rs := f.Records(order)
	for rs.Next() {
		s.Update(rs.Record)
	}
	if err := rs.Err(); err != nil {
		return s, fmt.Errorf("spallsession: %w", err)
	}
	return s, nil
}

// Update folds one record into the session's live state.
func (s *Session) Update(r spallfile.Record) {
	switch r := r.(type) {
	case *spallfile.RecordBegin:
		key := threadKey{r.Pid, r.Tid}
		frame := &Frame{
			Name:    demangle.Filter(r.Name),
			RawName: r.Name,
			Args:    r.Args,
			Start:   r.Time,
		}
		if stack := s.stacks[key]; len(stack) > 0 {
			parent := stack[len(stack)-1]
			frame.Parent = parent
			parent.Children = append(parent.Children, frame)
		}
		s.stacks[key] = append(s.stacks[key], frame)

	case *spallfile.RecordEnd:
		key := threadKey{r.Pid, r.Tid}
		stack := s.stacks[key]
		if len(stack) == 0 {
			s.UnmatchedEnds++
			return
		}
		frame := stack[len(stack)-1]
		frame.End = r.Time
		s.stacks[key] = stack[:len(stack)-1]
		if frame.Parent == nil {
			s.roots[key] = append(s.roots[key], frame)
		}
	}
}

// Threads returns every (Pid, Tid) pair this session has seen a Begin
// record for. A pair whose only records are unmatched Ends is not listed.
func (s *Session) Threads() []struct{ Pid, Tid uint32 } {
	seen := make(map[threadKey]bool)
	for k := range s.roots {
		seen[k] = true
	}
	for k := range s.stacks {
		seen[k] = true
	}
	out := make([]struct{ Pid, Tid uint32 }, 0, len(seen))
	for k := range seen {
		out = append(out, struct{ Pid, Tid uint32 }{k.pid, k.tid})
	}
	return out
}

// Roots returns the top-level completed frames recorded on (pid, tid), in
// the order their Begin events were seen.
func (s *Session) Roots(pid, tid uint32) []*Frame {
	return s.roots[threadKey{pid, tid}]
}

// Open returns the frames still open (Begin seen, no matching End yet) on
// (pid, tid), innermost last. A non-empty result after the trace has been
// fully read means the writer's process exited (or crashed) mid-scope, or
// a Recorder was closed while one of its scopes was still open.
func (s *Session) Open(pid, tid uint32) []*Frame {
	return s.stacks[threadKey{pid, tid}]
}
