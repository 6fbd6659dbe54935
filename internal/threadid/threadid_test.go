// Copyright 2026 The Spall Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package threadid

import "testing"

func TestNextFallbackMonotonicAndUnique(t *testing.T) {
	seen := make(map[uint32]bool)
	var prev uint32
	for i := 0; i < 100; i++ {
		id := NextFallback()
		if seen[id] {
			t.Fatalf("NextFallback returned duplicate id %d", id)
		}
		seen[id] = true
		if i > 0 && id <= prev {
			t.Fatalf("NextFallback not increasing: %d <= %d", id, prev)
		}
		prev = id
	}
}
