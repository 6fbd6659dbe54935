// Copyright 2026 The Spall Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spall

import (
	"encoding/binary"
	"math"
)

// EventTag identifies the kind of a record in the event stream.
type EventTag uint8

// Event tags understood by the Spall format. Only Begin and End are ever
// emitted by this package; PadSkip has an encoder (encodePadSkipHeader) that
// nothing here calls, and the others are reserved for other writers and
// readers in the Spall ecosystem.
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

//go:generate stringer -type=EventTag

// maxNameLen and maxArgsLen bound the name_len and args_len header bytes of
// a Begin event; both are stored as a single byte, so raw name/args content
// is always truncated to fit.
const (
	maxNameLen = 255
	maxArgsLen = 255
)

// beginHeaderSize is the size of a Begin event's fixed-width header, before
// its variable-length name and args bytes.
const beginHeaderSize = 20

// endEventSize is the size of a complete End event.
const endEventSize = 17

// padSkipHeaderSize is the size of a PadSkip event's fixed-width header,
// before the skipped region.
const padSkipHeaderSize = 5

// beginArgsLenOffset is the byte offset of the args_len field within an
// encoded Begin event, used by (*Recorder).patchArgsLen to rewrite it after
// the fact.
const beginArgsLenOffset = 19

// encodeBeginHeader writes a Begin event's fixed 20-byte header to buf
// (which must be at least beginHeaderSize bytes) in the exact wire layout:
// tag, category, pid, tid, when, name_len, args_len.
func encodeBeginHeader(buf []byte, pid, tid uint32, when float64, nameLen, argsLen uint8) {
	_ = buf[:beginHeaderSize]
	buf[0] = byte(EventBegin)
	buf[1] = 0 // category
	binary.LittleEndian.PutUint32(buf[2:6], pid)
	binary.LittleEndian.PutUint32(buf[6:10], tid)
	binary.LittleEndian.PutUint64(buf[10:18], math.Float64bits(when))
	buf[18] = nameLen
	buf[19] = argsLen
}

// encodeEnd writes a complete 17-byte End event to buf.
func encodeEnd(buf []byte, pid, tid uint32, when float64) {
	_ = buf[:endEventSize]
	buf[0] = byte(EventEnd)
	binary.LittleEndian.PutUint32(buf[1:5], pid)
	binary.LittleEndian.PutUint32(buf[5:9], tid)
	binary.LittleEndian.PutUint64(buf[9:17], math.Float64bits(when))
}

// encodePadSkipHeader writes a PadSkip event's fixed 5-byte header to buf.
// size is the number of bytes immediately following that a reader should
// skip. This package never emits PadSkip itself; the layout is preserved
// for future use and for decoders in spallfile.
func encodePadSkipHeader(buf []byte, size uint32) {
	_ = buf[:padSkipHeaderSize]
	buf[0] = byte(EventPadSkip)
	binary.LittleEndian.PutUint32(buf[1:5], size)
}
