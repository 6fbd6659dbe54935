// Copyright 2026 The Spall Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spall

// cntvctRaw reads the architectural virtual counter register (CNTVCT_EL0).
// Implemented in timer_arm64.s.
//
//go:noescape
func cntvctRaw() uint64

// cntfrqRaw reads the architectural counter frequency register
// (CNTFRQ_EL0), in Hz. Implemented in timer_arm64.s.
//
//go:noescape
func cntfrqRaw() uint64

func now() uint64 {
	return cntvctRaw()
}

func timerFrequency() float64 {
	return float64(cntfrqRaw())
}
