// Copyright 2026 The Spall Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spall

import (
	"fmt"
	"os"
)

// flushScopeName is the synthetic scope recorded around every flush, making
// flush cost visible in the trace.
const flushScopeName = "spall/flush"

// Recorder is the per-goroutine hot-path state: an append-only byte buffer,
// a handle to the shared trace file opened in append mode, cached
// pid/tid identifiers, and a write cursor. A Recorder must not be
// used from more than one goroutine at a time; see Attach.
type Recorder struct {
	pid uint32
	tid uint32

	file *os.File

	buf       []byte
	writePos  int
	writeRem  int
	silent    bool
	createErr error // set if newRecorder failed; a failed Recorder is inert
}

// newRecorder creates a Recorder against the current GlobalContext. If the
// GlobalContext is absent or the trace file can't be opened, the returned
// Recorder has createErr set and records nothing. The buffer is allocated
// with make; an allocation failure is not caught here.
func newRecorder(tid uint32) *Recorder {
	ctx := currentGlobal()
	if ctx == nil {
		return &Recorder{createErr: fmt.Errorf("spall: no trace initialized")}
	}

	f, err := os.OpenFile(ctx.tracePath, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		if !ctx.silent {
			fmt.Fprintf(os.Stderr, "spall: recorder init failed to open %q: %v\n", ctx.tracePath, err)
		}
		return &Recorder{createErr: err}
	}

	return &Recorder{
		pid:      uint32(os.Getpid()),
		tid:      tid,
		file:     f,
		buf:      make([]byte, ctx.bufferSize),
		writePos: 0,
		writeRem: ctx.bufferSize,
		silent:   ctx.silent,
	}
}

// ok reports whether this Recorder was created successfully and still
// records events.
func (r *Recorder) ok() bool {
	return r != nil && r.createErr == nil
}

// reserve ensures at least n bytes are free in the buffer, flushing first
// if not. Callers must not request more than the configured buffer size.
func (r *Recorder) reserve(n int) {
	if n > r.writeRem {
		r.flush()
	}
}

// pushBytes appends raw bytes at the write cursor. The caller must have
// already reserved enough space.
func (r *Recorder) pushBytes(b []byte) {
	n := copy(r.buf[r.writePos:], b)
	r.writePos += n
	r.writeRem -= n
}

// pushBegin appends a Begin record with the given timestamp and name/args
// lengths and returns the buffer offset of the record's start, so
// patchArgsLen can later rewrite args_len once the argument bytes are
// known.
func (r *Recorder) pushBegin(when float64, nameLen, argsLen uint8) int {
	start := r.writePos
	encodeBeginHeader(r.buf[r.writePos:r.writePos+beginHeaderSize], r.pid, r.tid, when, nameLen, argsLen)
	r.writePos += beginHeaderSize
	r.writeRem -= beginHeaderSize
	return start
}

// patchArgsLen overwrites the args_len byte of the Begin record that starts
// at the given buffer offset.
func (r *Recorder) patchArgsLen(beginOffset int, argsLen uint8) {
	r.buf[beginOffset+beginArgsLenOffset] = argsLen
}

// pushEnd appends an End record with the given timestamp.
func (r *Recorder) pushEnd(when float64) {
	encodeEnd(r.buf[r.writePos:r.writePos+endEventSize], r.pid, r.tid, when)
	r.writePos += endEventSize
	r.writeRem -= endEventSize
}

// pushArgs renders a formatted argument string directly into the buffer, up
// to min(maxLen, 255, remaining) bytes, truncating any overflow at byte
// granularity. It returns the number of bytes actually written.
func (r *Recorder) pushArgs(maxLen int, format string, a ...interface{}) int {
	limit := maxLen
	if limit > maxArgsLen {
		limit = maxArgsLen
	}
	if limit > r.writeRem {
		limit = r.writeRem
	}
	if limit <= 0 {
		return 0
	}

	w := &boundedWriter{buf: r.buf[r.writePos : r.writePos+limit]}
	fmt.Fprintf(w, format, a...)

	r.writePos += w.n
	r.writeRem -= w.n
	return w.n
}

// boundedWriter is an io.Writer that copies into a fixed-size slice and
// silently drops anything past its end, exactly like the Rust
// implementation's bounded fmt::Write adapter.
type boundedWriter struct {
	buf []byte
	n   int
}

func (w *boundedWriter) Write(p []byte) (int, error) {
	room := len(w.buf) - w.n
	if room <= 0 {
		return len(p), nil
	}
	k := len(p)
	if k > room {
		k = room
	}
	copy(w.buf[w.n:], p[:k])
	w.n += k
	return len(p), nil
}

// flush writes the used prefix of the buffer to the trace file as a single
// append write, resets the cursor, and records a synthetic "spall/flush"
// scope measuring the flush itself into the now-empty buffer.
func (r *Recorder) flush() {
	t0 := now()

	if r.writePos > 0 {
		if _, err := r.file.Write(r.buf[:r.writePos]); err != nil {
			if !r.silent {
				fmt.Fprintf(os.Stderr, "spall: trace file write failed: %v\n", err)
			}
		}
	}

	r.writePos = 0
	r.writeRem = len(r.buf)

	r.pushBegin(float64(t0), uint8(len(flushScopeName)), 0)
	r.pushBytes([]byte(flushScopeName))
	r.pushEnd(float64(now()))
}

// close flushes any residual bytes and releases the recorder's file. The
// very last flush's synthetic "spall/flush" scope is written into the
// buffer but never reaches disk, since nothing flushes it afterward — an
// accepted, documented sentinel loss rather than recursive flushing.
func (r *Recorder) close() {
	if !r.ok() {
		return
	}
	r.flush()
	r.file.Close()
}
