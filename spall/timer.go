// Copyright 2026 The Spall Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spall

// Now returns a monotonically non-decreasing tick value on the calling
// goroutine. Ticks are convertible to seconds via Frequency.
func Now() uint64 {
	return now()
}

// Frequency reports ticks per second. The result is stable for the
// lifetime of the process.
func Frequency() float64 {
	return timerFrequency()
}
