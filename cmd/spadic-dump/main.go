// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// spadic-dump decodes and displays SPADIC timeslice archives.
//
// Usage: spadic-dump [OPTIONS] FILE1 [FILE2 [FILE3 ...]]
//
// Example:
//
//	$> spadic-dump ./testdata/run.tsa
//	=== timeslice 10 (components: 1) ===
//	comp=0 ms=0 addr=0x0010 hit group=18 channel=3 ts=1110 hit="self triggered" stop="normal end of message" samples=[-1]
//	comp=0 ms=0 addr=0x0011 buffer-overflow group=4 channel=5 ts=1 count=7
//	[...]
//
//	$> spadic-dump -raw ./testdata/run.tsa
//	=== timeslice 10 (components: 1) ===
//	comp=0 ms=0 addr=0x0010 words=4
//	  8123 9456 aff8 b050
//	[...]
package main // import "github.com/go-lpc/spadic/cmd/spadic-dump"

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-lpc/spadic"
	"github.com/go-lpc/spadic/internal/tsa"
	"github.com/go-lpc/spadic/message"
	"github.com/go-lpc/spadic/timeslice"
)

const usage = `spadic-dump decodes and displays SPADIC timeslice archives.

Usage: spadic-dump [OPTIONS] FILE1 [FILE2 [FILE3 ...]]

Example:

 $> spadic-dump ./testdata/run.tsa
 === timeslice 10 (components: 1) ===
 comp=0 ms=0 addr=0x0010 hit group=18 channel=3 ts=1110 hit="self triggered" stop="normal end of message" samples=[-1]
 comp=0 ms=0 addr=0x0011 buffer-overflow group=4 channel=5 ts=1 count=7
 [...]

options:
`

func main() {
	xmain(os.Stdout, os.Args[1:])
}

type options struct {
	proto    *message.Protocol
	raw      bool // display DTM words instead of messages
	parallel bool // decode components concurrently
}

func xmain(w io.Writer, args []string) {
	log.SetPrefix("spadic-dump: ")
	log.SetFlags(0)

	var (
		fset = flag.NewFlagSet("spadic-dump", flag.ExitOnError)

		proto = fset.String("proto", "", "path to a YAML protocol description (default: SPADIC 1.0)")
		raw   = fset.Bool("raw", false, "display DTM words instead of decoded messages")
		par   = fset.Bool("j", false, "decode components concurrently")
		vers  = fset.Bool("version", false, "display version and exit")
	)

	fset.Usage = func() {
		fmt.Print(usage)
		fset.PrintDefaults()
	}

	err := fset.Parse(args)
	if err != nil {
		log.Fatalf("could not parse input arguments: %+v", err)
	}

	if *vers {
		version, sum := spadic.Version()
		fmt.Fprintf(w, "spadic-dump %s %s\n", version, sum)
		return
	}

	if fset.NArg() == 0 {
		fset.Usage()
		log.Fatalf("missing path to input archive file")
	}

	opts := options{raw: *raw, parallel: *par}
	if *proto != "" {
		opts.proto, err = message.LoadProtocol(*proto)
		if err != nil {
			log.Fatalf("could not load protocol: %+v", err)
		}
	}

	for _, fname := range fset.Args() {
		err := process(w, fname, opts)
		if err != nil {
			log.Fatalf("could not dump file %q: %+v", fname, err)
		}
	}
}

func process(w io.Writer, fname string, opts options) error {
	wbuf := bufio.NewWriter(w)
	defer wbuf.Flush()

	f, err := tsa.Open(fname)
	if err != nil {
		return fmt.Errorf("could not open %q: %w", fname, err)
	}
	defer f.Close()

	var (
		dec = timeslice.NewDecoder(opts.proto)
		ts  tsa.Timeslice
	)
loop:
	for {
		err := f.Decode(&ts)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break loop
			}
			return fmt.Errorf("could not decode timeslice: %w", err)
		}
		fmt.Fprintf(wbuf, "=== timeslice %d (components: %d) ===\n", ts.Index, ts.NumComponents())

		if opts.raw {
			err = dumpDTMs(wbuf, &ts)
			if err != nil {
				return fmt.Errorf("could not dump DTMs of timeslice %d: %w", ts.Index, err)
			}
			continue
		}

		display := func(rec timeslice.Record) error {
			_, err := fmt.Fprintf(wbuf, "comp=%d ms=%d addr=0x%04x %v\n",
				rec.Component, rec.Microslice, rec.Addr, &rec.Msg,
			)
			return err
		}

		switch {
		case opts.parallel:
			err = dec.DecodeParallel(context.Background(), &ts, display)
		default:
			err = dec.Decode(&ts, display)
		}
		if err != nil {
			return fmt.Errorf("could not decode messages of timeslice %d: %w", ts.Index, err)
		}
	}

	return nil
}

func dumpDTMs(w io.Writer, ts timeslice.Timeslice) error {
	return timeslice.Walk(ts, func(c, m int, dtm timeslice.DTM) error {
		payload := dtm.Payload()
		fmt.Fprintf(w, "comp=%d ms=%d addr=0x%04x words=%d\n", c, m, dtm.Addr(), len(payload))
		for i, v := range payload {
			switch {
			case i%8 == 0:
				fmt.Fprintf(w, "  %04x", v)
			default:
				fmt.Fprintf(w, " %04x", v)
			}
			if i%8 == 7 || i == len(payload)-1 {
				fmt.Fprintf(w, "\n")
			}
		}
		return nil
	})
}
