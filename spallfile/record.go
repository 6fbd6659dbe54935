// Copyright 2026 The Spall Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spallfile

// EventTag identifies the kind of a decoded record.
type EventTag uint8

const (
	EventInvalid            EventTag = 0
	EventCustomData         EventTag = 1
	EventStreamOver         EventTag = 2
	EventBegin              EventTag = 3
	EventEnd                EventTag = 4
	EventInstant            EventTag = 5
	EventOverwriteTimestamp EventTag = 6
	EventPadSkip            EventTag = 7
)

// Record is implemented by every decoded record type. A type switch on the
// Record returned from Records.Next distinguishes them, mirroring the
// perf.data reader's Record interface.
type Record interface {
	// When returns the record's timestamp in header.TimestampUnit units
	// since process start.
	When() float64
	isRecord()
}

// RecordBegin opens a scope.
type RecordBegin struct {
	Pid, Tid uint32
	Time     float64
	Name     string
	Args     string
}

func (r *RecordBegin) When() float64 { return r.Time }
func (*RecordBegin) isRecord()       {}

// RecordEnd closes the innermost still-open scope on the same (Pid, Tid).
type RecordEnd struct {
	Pid, Tid uint32
	Time     float64
}

func (r *RecordEnd) When() float64 { return r.Time }
func (*RecordEnd) isRecord()       {}
