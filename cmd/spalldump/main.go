// Copyright 2026 The Spall Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command spalldump prints a Spall trace file as text, one line per
// record, in the order requested.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ianlancetaylor/demangle"

	"github.com/tracespall/spall/spallfile"
)

func main() {
	var (
		flagInput    = flag.String("i", "trace.spall", "input trace `file`")
		flagOrder    = flag.String("order", "file", "record `order`; one of: file, time")
		flagDemangle = flag.Bool("demangle", false, "demangle scope names that look like mangled symbols")
	)
	flag.Parse()
	order, ok := parseOrder(*flagOrder)
	if flag.NArg() > 0 || !ok {
		flag.Usage()
		os.Exit(1)
	}

	f, err := spallfile.Open(*flagInput)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	fmt.Printf("header: magic=%#x version=%d timestamp_unit=%g\n",
		f.Header.Magic, f.Header.Version, f.Header.TimestampUnit)

	rs := f.Records(order)
	for rs.Next() {
		switch r := rs.Record.(type) {
		case *spallfile.RecordBegin:
			name := r.Name
			if *flagDemangle {
				name = demangle.Filter(name)
			}
			fmt.Printf("Begin  pid=%d tid=%d t=%g name=%q args=%q\n", r.Pid, r.Tid, r.Time, name, r.Args)
		case *spallfile.RecordEnd:
			fmt.Printf("End    pid=%d tid=%d t=%g\n", r.Pid, r.Tid, r.Time)
		}
	}
	if err := rs.Err(); err != nil {
		log.Fatal(err)
	}
}

func parseOrder(s string) (spallfile.RecordsOrder, bool) {
	switch s {
	case "file":
		return spallfile.RecordsFileOrder, true
	case "time":
		return spallfile.RecordsTimeOrder, true
	default:
		return 0, false
	}
}
