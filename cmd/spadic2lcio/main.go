// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command spadic2lcio converts a SPADIC timeslice archive to an LCIO file.
package main // import "github.com/go-lpc/spadic/cmd/spadic2lcio"

import (
	"compress/flate"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/go-lpc/spadic/internal/tsa"
	"github.com/go-lpc/spadic/internal/xcnv"
	"github.com/go-lpc/spadic/message"
	"go-hep.org/x/hep/lcio"
)

var (
	msg = log.New(os.Stdout, "spadic2lcio: ", 0)
)

func main() {
	var (
		oname = flag.String("o", "out.lcio", "path to output LCIO file")
		compr = flag.Int("lvl", flate.DefaultCompression, "compression level for output LCIO file")
		proto = flag.String("proto", "", "path to a YAML protocol description (default: SPADIC 1.0)")
		run   = flag.Int("run", -1, "run number (default: inferred from input file name)")
	)

	flag.Usage = func() {
		fmt.Printf(`Usage: spadic2lcio [OPTIONS] file.tsa

ex:
 $> spadic2lcio -o out.lcio -lvl=9 ./spadic_063.tsa
 $> spadic2lcio -o out.lcio -run=42 -proto=spadic.yaml ./input.tsa

options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		msg.Fatalf("missing input timeslice archive file")
	}

	if *oname == "" {
		flag.Usage()
		msg.Fatalf("invalid output LCIO file name")
	}

	var p *message.Protocol
	if *proto != "" {
		var err error
		p, err = message.LoadProtocol(*proto)
		if err != nil {
			msg.Fatalf("could not load protocol: %+v", err)
		}
	}

	err := process(*oname, *compr, flag.Arg(0), p, int32(*run))
	if err != nil {
		msg.Fatalf("could not convert timeslice archive: %+v", err)
	}
}

func process(oname string, lvl int, fname string, p *message.Protocol, run int32) error {
	if run < 0 {
		var err error
		run, err = runNbrFrom(fname)
		if err != nil {
			return fmt.Errorf("could not infer run from %q: %w", fname, err)
		}
	}

	f, err := tsa.Open(fname)
	if err != nil {
		return fmt.Errorf("could not open timeslice archive: %w", err)
	}
	defer f.Close()

	w, err := lcio.Create(oname)
	if err != nil {
		return fmt.Errorf("could not create output LCIO file: %w", err)
	}
	defer w.Close()

	w.SetCompressionLevel(lvl)

	err = xcnv.SPADIC2LCIO(w, f, p, run, msg)
	if err != nil {
		return fmt.Errorf("could not convert timeslices to LCIO: %w", err)
	}

	err = w.Close()
	if err != nil {
		return fmt.Errorf("could not close output LCIO file: %w", err)
	}

	return nil
}

func runNbrFrom(fname string) (int32, error) {
	var (
		name = filepath.Base(fname)
		run  int32
	)
	_, err := fmt.Sscanf(name, "spadic_%d.tsa", &run)
	return run, err
}
