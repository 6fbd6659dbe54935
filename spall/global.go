// Copyright 2026 The Spall Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spall

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// globalContext is the process-wide, published-once trace context: the
// canonical trace file path and the emission policy shared by every
// recorder created after Init succeeds.
type globalContext struct {
	tracePath  string
	bufferSize int
	silent     bool
}

var (
	globalMu    sync.RWMutex
	global      *globalContext
	globalSetup bool
)

// sentinelChar marks where Init substitutes the current Unix-epoch
// microseconds into a path template.
const sentinelChar = "$"

// Init creates (or truncates) the trace file at path, writes the trace
// header, and publishes the process-wide GlobalContext. It returns true on
// the first successful call in this process and false on every later call,
// which is otherwise a no-op. Any I/O error during setup is returned and no
// GlobalContext is published.
//
// If path contains "$", the sentinel is replaced with the current Unix
// epoch time in microseconds and the file is opened with must-not-exist
// semantics; otherwise the file is created if missing and truncated if it
// exists.
func Init(path string, opts ...Option) (bool, error) {
	// Force the timer to initialize (a no-op on arm64; establishes the
	// process-start baseline elsewhere) before anything can observe a
	// zero baseline.
	now()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalSetup {
		return false, nil
	}

	resolvedPath, mustNotExist := path, false
	if strings.Contains(path, sentinelChar) {
		micros := strconv.FormatInt(time.Now().UnixMicro(), 10)
		resolvedPath = strings.ReplaceAll(path, sentinelChar, micros)
		mustNotExist = true
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if mustNotExist {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(resolvedPath, flags, 0644)
	if err != nil {
		return false, fmt.Errorf("spall: opening trace file: %w", err)
	}
	defer f.Close()

	freq := timerFrequency()
	header := Header{
		Magic:         Magic,
		Version:       Version,
		TimestampUnit: 1_000_000 / freq,
		Reserved:      0,
	}
	var buf [HeaderSize]byte
	header.encode(buf[:])
	if _, err := f.Write(buf[:]); err != nil {
		return false, fmt.Errorf("spall: writing trace header: %w", err)
	}

	absPath, err := filepath.Abs(resolvedPath)
	if err != nil {
		return false, fmt.Errorf("spall: canonicalizing trace path: %w", err)
	}

	ctx := &globalContext{
		tracePath:  absPath,
		bufferSize: defaultBufferSize,
		silent:     false,
	}
	for _, opt := range opts {
		opt(ctx)
	}

	global = ctx
	globalSetup = true
	return true, nil
}

// currentGlobal returns the published GlobalContext, or nil if Init has not
// yet succeeded.
func currentGlobal() *globalContext {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}

// resetForTest clears the published GlobalContext. It exists only for
// tests in this package, which each need a fresh process-wide state; it is
// not part of the public API.
func resetForTest() {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = nil
	globalSetup = false
}
