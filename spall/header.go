// Copyright 2026 The Spall Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spall

import (
	"encoding/binary"
	"math"
)

// HeaderSize is the size in bytes of the trace file header.
const HeaderSize = 32

// Magic is the constant that opens every Spall trace file.
const Magic uint64 = 0x0BADF00D

// Version is the only trace format version this package writes or
// understands.
const Version uint64 = 1

// Header is the 32-byte file header written once, at offset 0, of every
// trace file. Its wire layout is fixed: magic, version, timestamp_unit,
// and a reserved field, each an 8-byte little-endian value.
type Header struct {
	Magic         uint64
	Version       uint64
	TimestampUnit float64 // microseconds per tick
	Reserved      uint64
}

// encode writes h in its packed wire layout to buf, which must be at least
// HeaderSize bytes.
func (h Header) encode(buf []byte) {
	_ = buf[:HeaderSize] // bounds check hint
	binary.LittleEndian.PutUint64(buf[0:8], h.Magic)
	binary.LittleEndian.PutUint64(buf[8:16], h.Version)
	binary.LittleEndian.PutUint64(buf[16:24], math.Float64bits(h.TimestampUnit))
	binary.LittleEndian.PutUint64(buf[24:32], h.Reserved)
}

// decodeHeader parses a Header from buf, which must be at least HeaderSize
// bytes.
func decodeHeader(buf []byte) Header {
	_ = buf[:HeaderSize]
	return Header{
		Magic:         binary.LittleEndian.Uint64(buf[0:8]),
		Version:       binary.LittleEndian.Uint64(buf[8:16]),
		TimestampUnit: math.Float64frombits(binary.LittleEndian.Uint64(buf[16:24])),
		Reserved:      binary.LittleEndian.Uint64(buf[24:32]),
	}
}
