// Copyright 2026 The Spall Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package spallfile reads Spall trace files: the binary format written by
// package spall (and by any other Spall-compatible writer). It has no
// dependency on package spall itself, the same way a perf.data reader has
// no dependency on whatever produced the profile.
package spallfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// HeaderSize is the size in bytes of a trace file's fixed header.
const HeaderSize = 32

// Magic is the constant every valid trace file begins with.
const Magic uint64 = 0x0BADF00D

// Version is the only trace format version this package understands.
const Version uint64 = 1

// Header is a trace file's 32-byte header.
type Header struct {
	Magic         uint64
	Version       uint64
	TimestampUnit float64 // microseconds per tick
	Reserved      uint64
}

func decodeHeader(buf []byte) Header {
	_ = buf[:HeaderSize]
	return Header{
		Magic:         binary.LittleEndian.Uint64(buf[0:8]),
		Version:       binary.LittleEndian.Uint64(buf[8:16]),
		TimestampUnit: math.Float64frombits(binary.LittleEndian.Uint64(buf[16:24])),
		Reserved:      binary.LittleEndian.Uint64(buf[24:32]),
	}
}

// File is an opened Spall trace file.
type File struct {
	Header Header

	body   *bufio.Reader
	closer io.Closer
}

// Open opens the trace file at path and validates its header.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	file, err := NewFile(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	file.closer = f
	return file, nil
}

// NewFile reads a trace header from r and returns a File that reads
// records starting immediately after it. The caller is responsible for
// closing r; the returned File's Close does not close it.
func NewFile(r io.Reader) (*File, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, fmt.Errorf("spallfile: reading header: %w", err)
	}
	hdr := decodeHeader(buf[:])
	if hdr.Magic != Magic {
		return nil, fmt.Errorf("spallfile: bad magic %#x, want %#x", hdr.Magic, Magic)
	}
	if hdr.Version != Version {
		return nil, fmt.Errorf("spallfile: unsupported version %d, want %d", hdr.Version, Version)
	}

	return &File{Header: hdr, body: bufio.NewReader(r)}, nil
}

// Close closes the underlying file, if Open opened it.
func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}
