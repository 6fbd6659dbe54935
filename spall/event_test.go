// Copyright 2026 The Spall Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spall

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestEncodeBeginHeader(t *testing.T) {
	buf := make([]byte, beginHeaderSize)
	encodeBeginHeader(buf, 111, 222, 1.5, 3, 4)

	if EventTag(buf[0]) != EventBegin {
		t.Fatalf("tag = %v, want %v", EventTag(buf[0]), EventBegin)
	}
	if got := binary.LittleEndian.Uint32(buf[2:6]); got != 111 {
		t.Errorf("pid = %d, want 111", got)
	}
	if got := binary.LittleEndian.Uint32(buf[6:10]); got != 222 {
		t.Errorf("tid = %d, want 222", got)
	}
	if got := math.Float64frombits(binary.LittleEndian.Uint64(buf[10:18])); got != 1.5 {
		t.Errorf("when = %v, want 1.5", got)
	}
	if buf[18] != 3 {
		t.Errorf("name_len = %d, want 3", buf[18])
	}
	if buf[19] != 4 {
		t.Errorf("args_len = %d, want 4", buf[19])
	}
}

func TestEncodeEnd(t *testing.T) {
	buf := make([]byte, endEventSize)
	encodeEnd(buf, 111, 222, 2.5)

	if EventTag(buf[0]) != EventEnd {
		t.Fatalf("tag = %v, want %v", EventTag(buf[0]), EventEnd)
	}
	if got := binary.LittleEndian.Uint32(buf[1:5]); got != 111 {
		t.Errorf("pid = %d, want 111", got)
	}
	if got := binary.LittleEndian.Uint32(buf[5:9]); got != 222 {
		t.Errorf("tid = %d, want 222", got)
	}
	if got := math.Float64frombits(binary.LittleEndian.Uint64(buf[9:17])); got != 2.5 {
		t.Errorf("when = %v, want 2.5", got)
	}
}

func TestEncodePadSkipHeader(t *testing.T) {
	buf := make([]byte, padSkipHeaderSize)
	encodePadSkipHeader(buf, 4096)

	if EventTag(buf[0]) != EventPadSkip {
		t.Fatalf("tag = %v, want %v", EventTag(buf[0]), EventPadSkip)
	}
	if got := binary.LittleEndian.Uint32(buf[1:5]); got != 4096 {
		t.Errorf("size = %d, want 4096", got)
	}
}

func TestEventTagString(t *testing.T) {
	cases := map[EventTag]string{
		EventInvalid:            "Invalid",
		EventCustomData:         "CustomData",
		EventStreamOver:         "StreamOver",
		EventBegin:              "Begin",
		EventEnd:                "End",
		EventInstant:            "Instant",
		EventOverwriteTimestamp: "OverwriteTimestamp",
		EventPadSkip:            "PadSkip",
	}
	for tag, want := range cases {
		if got := tag.String(); got != want {
			t.Errorf("EventTag(%d).String() = %q, want %q", tag, got, want)
		}
	}

	if got := EventTag(99).String(); got != "EventTag(99)" {
		t.Errorf("EventTag(99).String() = %q, want %q", got, "EventTag(99)")
	}
}
