// Copyright 2026 The Spall Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spall

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// resetState clears both the published GlobalContext and every cached
// per-goroutine Recorder, so each test starts as if in a fresh process.
// Go's testing package runs each top-level test function on its own
// goroutine, so a later test never reuses an earlier test's Recorder, but
// without this the registry would still hold (and the background reaper
// later flush) the previous test's Recorders, pointed at its file.
func resetState(t *testing.T) {
	t.Helper()
	CloseAll()
	resetForTest()
}

// rawEvent is a decoded record, used only by these tests to check what
// Init and Scope actually wrote to disk.
type rawEvent struct {
	tag     EventTag
	pid     uint32
	tid     uint32
	when    float64
	name    string
	args    string
	argsLen uint8
}

func readTrace(t *testing.T, path string) (Header, []rawEvent) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading trace file: %v", err)
	}
	if len(data) < HeaderSize {
		t.Fatalf("trace file too short for header: %d bytes", len(data))
	}
	hdr := decodeHeader(data[:HeaderSize])

	var events []rawEvent
	buf := data[HeaderSize:]
	for len(buf) > 0 {
		switch EventTag(buf[0]) {
		case EventBegin:
			nameLen := int(buf[18])
			argsLen := int(buf[19])
			name := string(buf[20 : 20+nameLen])
			args := string(buf[20+nameLen : 20+nameLen+argsLen])
			events = append(events, rawEvent{
				tag:     EventBegin,
				pid:     binary.LittleEndian.Uint32(buf[2:6]),
				tid:     binary.LittleEndian.Uint32(buf[6:10]),
				when:    math.Float64frombits(binary.LittleEndian.Uint64(buf[10:18])),
				name:    name,
				args:    args,
				argsLen: uint8(argsLen),
			})
			buf = buf[20+nameLen+argsLen:]
		case EventEnd:
			events = append(events, rawEvent{
				tag:  EventEnd,
				pid:  binary.LittleEndian.Uint32(buf[1:5]),
				tid:  binary.LittleEndian.Uint32(buf[5:9]),
				when: math.Float64frombits(binary.LittleEndian.Uint64(buf[9:17])),
			})
			buf = buf[endEventSize:]
		default:
			t.Fatalf("unexpected event tag %v in trace body", EventTag(buf[0]))
		}
	}
	return hdr, events
}

func TestInitHeaderEmission(t *testing.T) {
	resetState(t)
	path := filepath.Join(t.TempDir(), "t.spall")

	ok, err := Init(path)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !ok {
		t.Fatal("Init returned false on first call")
	}

	hdr, events := readTrace(t, path)
	if hdr.Magic != Magic {
		t.Errorf("Magic = %#x, want %#x", hdr.Magic, Magic)
	}
	if hdr.Version != Version {
		t.Errorf("Version = %d, want %d", hdr.Version, Version)
	}
	if hdr.Reserved != 0 {
		t.Errorf("Reserved = %d, want 0", hdr.Reserved)
	}
	if len(events) != 0 {
		t.Errorf("got %d events right after Init, want 0", len(events))
	}
}

func TestScopeSingleSpan(t *testing.T) {
	resetState(t)
	path := filepath.Join(t.TempDir(), "t.spall")
	if _, err := Init(path); err != nil {
		t.Fatalf("Init: %v", err)
	}

	span := Scope("x")
	span.End()
	CloseAll()

	_, events := readTrace(t, path)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2 (Begin, End)", len(events))
	}
	begin, end := events[0], events[1]
	if begin.tag != EventBegin || begin.name != "x" || begin.argsLen != 0 {
		t.Errorf("Begin = %+v, want name=x args_len=0", begin)
	}
	if end.tag != EventEnd {
		t.Errorf("second event tag = %v, want End", end.tag)
	}
	if end.pid != begin.pid || end.tid != begin.tid {
		t.Errorf("End pid/tid (%d,%d) != Begin pid/tid (%d,%d)", end.pid, end.tid, begin.pid, begin.tid)
	}
	if end.when < begin.when {
		t.Errorf("End.when %v < Begin.when %v", end.when, begin.when)
	}
}

func TestScopefFormattedArgs(t *testing.T) {
	resetState(t)
	path := filepath.Join(t.TempDir(), "t.spall")
	if _, err := Init(path); err != nil {
		t.Fatalf("Init: %v", err)
	}

	span := Scopef("k", "v=%d", 42)
	span.End()
	CloseAll()

	_, events := readTrace(t, path)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	begin := events[0]
	if begin.name != "k" {
		t.Errorf("name = %q, want %q", begin.name, "k")
	}
	if begin.args != "v=42" {
		t.Errorf("args = %q, want %q", begin.args, "v=42")
	}
	if int(begin.argsLen) != len("v=42") {
		t.Errorf("args_len = %d, want %d", begin.argsLen, len("v=42"))
	}
}

func TestScopeNesting(t *testing.T) {
	resetState(t)
	path := filepath.Join(t.TempDir(), "t.spall")
	if _, err := Init(path); err != nil {
		t.Fatalf("Init: %v", err)
	}

	a := Scope("a")
	b := Scope("b")
	b.End()
	a.End()
	CloseAll()

	_, events := readTrace(t, path)
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}
	wantTags := []EventTag{EventBegin, EventBegin, EventEnd, EventEnd}
	wantNames := []string{"a", "b", "", ""}
	for i, want := range wantTags {
		if events[i].tag != want {
			t.Errorf("event[%d].tag = %v, want %v", i, events[i].tag, want)
		}
		if events[i].tag == EventBegin && events[i].name != wantNames[i] {
			t.Errorf("event[%d].name = %q, want %q", i, events[i].name, wantNames[i])
		}
	}
	for i := 1; i < len(events); i++ {
		if events[i].when < events[i-1].when {
			t.Errorf("event[%d].when %v < event[%d].when %v, timestamps not monotonic", i, events[i].when, i-1, events[i-1].when)
		}
	}
}

func TestScopeNameOverflowTruncation(t *testing.T) {
	resetState(t)
	path := filepath.Join(t.TempDir(), "t.spall")
	if _, err := Init(path); err != nil {
		t.Fatalf("Init: %v", err)
	}

	longName := strings.Repeat("n", 260)
	span := Scope(longName)
	span.End()
	CloseAll()

	_, events := readTrace(t, path)
	if len(events) == 0 {
		t.Fatal("no events recorded")
	}
	begin := events[0]
	if len(begin.name) != 255 {
		t.Fatalf("recorded name length = %d, want 255", len(begin.name))
	}
	if begin.name != longName[:255] {
		t.Errorf("recorded name does not match first 255 bytes of input")
	}
}

func TestInitIdempotent(t *testing.T) {
	resetState(t)
	path := filepath.Join(t.TempDir(), "t.spall")

	ok1, err := Init(path)
	if err != nil {
		t.Fatalf("first Init: %v", err)
	}
	if !ok1 {
		t.Fatal("first Init returned false")
	}
	info1, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat after first Init: %v", err)
	}

	ok2, err := Init(filepath.Join(t.TempDir(), "other.spall"))
	if err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if ok2 {
		t.Fatal("second Init returned true, want false")
	}
	info2, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat after second Init: %v", err)
	}
	if info1.Size() != info2.Size() {
		t.Errorf("trace file size changed across second Init: %d != %d", info1.Size(), info2.Size())
	}
}

func TestInitSentinelSubstitution(t *testing.T) {
	resetState(t)
	dir := t.TempDir()
	template := filepath.Join(dir, "trace-$.spall")

	ok, err := Init(template)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !ok {
		t.Fatal("Init returned false")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d files in trace dir, want 1", len(entries))
	}
	if strings.Contains(entries[0].Name(), "$") {
		t.Errorf("trace file name %q still contains sentinel", entries[0].Name())
	}
}

// TestScopeOverflowFlushInsertsSyntheticScope forces Reserve to run out of
// buffer space mid-sequence and checks that the resulting mid-stream flush
// writes its synthetic "spall/flush" Begin/End pair to disk immediately
// before the Begin event that triggered it, exactly like any other flush.
func TestScopeOverflowFlushInsertsSyntheticScope(t *testing.T) {
	resetState(t)
	path := filepath.Join(t.TempDir(), "t.spall")
	// Sized so that four 1-byte-name Begin events (21 bytes each = 84)
	// nearly fill the buffer but a fifth doesn't fit (100-84=16 < 21),
	// forcing Reserve to flush before that fifth Begin is written; 100 is
	// also comfortably larger than the 48 bytes the synthetic flush scope
	// itself needs, so the flush can never overflow its own freshly
	// emptied buffer.
	if _, err := Init(path, WithBufferSize(100)); err != nil {
		t.Fatalf("Init: %v", err)
	}

	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Scope(name)
	}
	CloseAll()

	_, events := readTrace(t, path)
	if len(events) != 7 {
		t.Fatalf("got %d events, want 7 (a,b,c,d, flush-begin, flush-end, e)", len(events))
	}
	for i, name := range []string{"a", "b", "c", "d"} {
		if events[i].tag != EventBegin || events[i].name != name {
			t.Errorf("event[%d] = %+v, want Begin(%q)", i, events[i], name)
		}
	}
	if events[4].tag != EventBegin || events[4].name != flushScopeName {
		t.Errorf("event[4] = %+v, want Begin(%q)", events[4], flushScopeName)
	}
	if events[5].tag != EventEnd {
		t.Errorf("event[5] = %+v, want End closing the flush scope", events[5])
	}
	if events[6].tag != EventBegin || events[6].name != "e" {
		t.Errorf("event[6] = %+v, want Begin(\"e\"), the Begin that triggered the flush", events[6])
	}
}

func TestAttachReusesRecorder(t *testing.T) {
	resetState(t)
	path := filepath.Join(t.TempDir(), "t.spall")
	if _, err := Init(path); err != nil {
		t.Fatalf("Init: %v", err)
	}

	r1 := Attach()
	r2 := Attach()
	if r1 != r2 {
		t.Error("two Attach calls on the same goroutine returned different Recorders")
	}

	span := r1.Scope("y")
	span.End()
	CloseAll()

	_, events := readTrace(t, path)
	if len(events) != 2 || events[0].name != "y" {
		t.Fatalf("events = %+v, want one Begin(y)/End pair", events)
	}
}
