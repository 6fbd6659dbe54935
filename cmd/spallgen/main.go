// Copyright 2026 The Spall Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command spallgen runs a small synthetic workload across several
// goroutines pinned to real OS threads, instrumented with package spall.
// It exists for manual smoke-testing a trace viewer and for benchmarking
// the recorder's hot path, not as a library entry point.
package main

import (
	"flag"
	"log"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/tracespall/spall"
)

func main() {
	var (
		flagOutput  = flag.String("o", "spallgen-$.spall", "output trace `file`; \"$\" is replaced with a timestamp")
		flagWorkers = flag.Int("workers", runtime.NumCPU(), "number of worker `goroutines`")
		flagRounds  = flag.Int("rounds", 10000, "scope emissions per worker")
	)
	flag.Parse()

	if _, err := spall.Init(*flagOutput); err != nil {
		log.Fatal(err)
	}

	var wg sync.WaitGroup
	wg.Add(*flagWorkers)
	for w := 0; w < *flagWorkers; w++ {
		w := w
		go func() {
			defer wg.Done()
			worker(w, *flagRounds)
		}()
	}
	wg.Wait()
	spall.CloseAll()
}

func worker(id, rounds int) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	rec := spall.Attach()
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)))

	for i := 0; i < rounds; i++ {
		outer := rec.Scope("process-batch")
		work(rec, rng, 1+rng.Intn(3))
		outer.End()
	}
}

func work(rec *spall.Recorder, rng *rand.Rand, depth int) {
	span := rec.Scopef("handle-item", "depth=%d iter=%d", depth, rng.Intn(1000))
	defer span.End()

	if depth > 0 {
		work(rec, rng, depth-1)
	} else {
		time.Sleep(time.Duration(rng.Intn(50)) * time.Microsecond)
	}
}
