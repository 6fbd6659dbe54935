// Copyright 2026 The Spall Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command spallstats prints per-scope-name duration statistics for a Spall
// trace: count, mean, standard deviation, and a few percentiles.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/aclements/go-moremath/stats"

	"github.com/tracespall/spall/spallfile"
	"github.com/tracespall/spall/spallsession"
)

func main() {
	var (
		flagInput = flag.String("i", "trace.spall", "input trace `file`")
	)
	flag.Parse()
	if flag.NArg() > 0 {
		flag.Usage()
		os.Exit(1)
	}

	f, err := spallfile.Open(*flagInput)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	sess, err := spallsession.Build(f, spallfile.RecordsFileOrder)
	if err != nil {
		log.Fatal(err)
	}

	durations := make(map[string][]float64)
	var walk func(fr *spallsession.Frame)
	walk = func(fr *spallsession.Frame) {
		durations[fr.Name] = append(durations[fr.Name], fr.Duration())
		for _, child := range fr.Children {
			walk(child)
		}
	}
	for _, th := range sess.Threads() {
		for _, root := range sess.Roots(th.Pid, th.Tid) {
			walk(root)
		}
	}

	names := make([]string, 0, len(durations))
	for name := range durations {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("%-32s %8s %12s %12s %12s %12s\n", "scope", "count", "mean", "stddev", "p50", "p99")
	for _, name := range names {
		samp := &stats.Sample{Xs: durations[name]}
		fmt.Printf("%-32s %8d %12.3f %12.3f %12.3f %12.3f\n",
			name, len(samp.Xs), samp.Mean(), samp.StdDev(), samp.Percentile(0.50), samp.Percentile(0.99))
	}
}
