// Copyright 2026 The Spall Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !arm64

package spall

import (
	"sync"
	"time"
)

var (
	timerOnce sync.Once
	timerT0   time.Time
)

func timerInit() {
	timerOnce.Do(func() {
		timerT0 = time.Now()
	})
}

func now() uint64 {
	timerInit()
	return uint64(time.Since(timerT0).Nanoseconds())
}

func timerFrequency() float64 {
	timerInit()
	return 1e9
}
