// Copyright 2026 The Spall Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spallfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"
)

// RecordsOrder selects the order Records delivers records in.
type RecordsOrder int

const (
	// RecordsFileOrder delivers records as they appear in the file. This
	// streams directly off disk and never buffers, but since multiple
	// goroutines flush independently, records from different (Pid, Tid)
	// pairs interleave by flush time, not by event time.
	RecordsFileOrder RecordsOrder = iota

	// RecordsTimeOrder delivers every record sorted by timestamp,
	// globally across all (Pid, Tid) pairs. This requires buffering the
	// entire trace in memory, so it suits offline analysis and not
	// streaming a live trace.
	RecordsTimeOrder
)

// Records is an iterator over the records in a trace file.
//
// Typical usage is
//
//	rs := file.Records(spallfile.RecordsFileOrder)
//	for rs.Next() {
//		switch r := rs.Record.(type) {
//		case *spallfile.RecordBegin:
//			...
//		}
//	}
//	if err := rs.Err(); err != nil { ... }
type Records struct {
	body *bufReader
	err  error

	// Record holds the most recent record read by Next. It is
	// overwritten by the following call to Next; callers that need to
	// retain one must copy it.
	Record Record

	buffered bool
	loaded   bool
	pending  []Record
}

// Records returns an iterator over f's records in the given order.
func (f *File) Records(order RecordsOrder) *Records {
	return &Records{body: &bufReader{r: f.body}, buffered: order == RecordsTimeOrder}
}

// Err returns the first error encountered while decoding, if any.
func (r *Records) Err() error {
	return r.err
}

// Next decodes the next record into r.Record. It returns false at the end
// of the stream or on the first decode error; callers must check Err to
// distinguish the two.
func (r *Records) Next() bool {
	if r.buffered {
		if !r.loaded {
			if err := r.loadAll(); err != nil {
				r.err = err
				return false
			}
		}
		if len(r.pending) == 0 {
			return false
		}
		r.Record, r.pending = r.pending[0], r.pending[1:]
		return true
	}

	rec, err := r.decodeOne()
	if err != nil {
		if err != io.EOF {
			r.err = err
		}
		return false
	}
	r.Record = rec
	return true
}

func (r *Records) loadAll() error {
	var all []Record
	for {
		rec, err := r.decodeOne()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		all = append(all, rec)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].When() < all[j].When() })
	r.pending = all
	r.loaded = true
	return nil
}

// decodeOne reads the next Begin or End record, transparently skipping any
// PadSkip records in between; PadSkip carries no analytic information, just
// a byte count to jump over.
func (r *Records) decodeOne() (Record, error) {
	for {
		tagByte, err := r.body.readByte()
		if err != nil {
			return nil, err
		}
		switch EventTag(tagByte) {
		case EventBegin:
			return r.decodeBegin()
		case EventEnd:
			return r.decodeEnd()
		case EventPadSkip:
			if err := r.skipPadSkip(); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("spallfile: unsupported event tag %d", tagByte)
		}
	}
}

func (r *Records) decodeBegin() (Record, error) {
	// category(1) pid(4) tid(4) when(8) name_len(1) args_len(1)
	buf, err := r.body.read(19)
	if err != nil {
		return nil, fmt.Errorf("spallfile: truncated Begin record: %w", err)
	}
	pid := binary.LittleEndian.Uint32(buf[1:5])
	tid := binary.LittleEndian.Uint32(buf[5:9])
	when := math.Float64frombits(binary.LittleEndian.Uint64(buf[9:17]))
	nameLen := int(buf[17])
	argsLen := int(buf[18])

	nameArgs, err := r.body.read(nameLen + argsLen)
	if err != nil {
		return nil, fmt.Errorf("spallfile: truncated Begin name/args: %w", err)
	}
	return &RecordBegin{
		Pid:  pid,
		Tid:  tid,
		Time: when,
		Name: string(nameArgs[:nameLen]),
		Args: string(nameArgs[nameLen:]),
	}, nil
}

func (r *Records) decodeEnd() (Record, error) {
	// pid(4) tid(4) when(8)
	buf, err := r.body.read(16)
	if err != nil {
		return nil, fmt.Errorf("spallfile: truncated End record: %w", err)
	}
	return &RecordEnd{
		Pid:  binary.LittleEndian.Uint32(buf[0:4]),
		Tid:  binary.LittleEndian.Uint32(buf[4:8]),
		Time: math.Float64frombits(binary.LittleEndian.Uint64(buf[8:16])),
	}, nil
}

func (r *Records) skipPadSkip() error {
	buf, err := r.body.read(4)
	if err != nil {
		return fmt.Errorf("spallfile: truncated PadSkip record: %w", err)
	}
	size := binary.LittleEndian.Uint32(buf)
	if _, err := io.CopyN(io.Discard, r.body.r, int64(size)); err != nil {
		return fmt.Errorf("spallfile: truncated PadSkip body: %w", err)
	}
	return nil
}

// bufReader is a tiny adapter giving *bufio.Reader a read-exactly-n-bytes
// call that returns a reusable scratch slice, the same shape bufDecoder
// gives perffile's fixed-width record fields.
type bufReader struct {
	r   io.Reader
	buf []byte
}

func (b *bufReader) readByte() (byte, error) {
	buf, err := b.read(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (b *bufReader) read(n int) ([]byte, error) {
	if cap(b.buf) < n {
		b.buf = make([]byte, n)
	}
	buf := b.buf[:n]
	if _, err := io.ReadFull(b.r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
