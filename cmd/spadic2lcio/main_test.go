// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"compress/flate"
	"encoding/binary"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/go-lpc/spadic/internal/tsa"
	"github.com/go-lpc/spadic/internal/xcnv"
	"github.com/go-lpc/spadic/message"
	"github.com/go-lpc/spadic/timeslice"
	"go-hep.org/x/hep/lcio"
)

func TestRunNbrFrom(t *testing.T) {
	for _, tc := range []struct {
		fname string
		run   int32
	}{
		{
			fname: "./spadic_063.tsa",
			run:   63,
		},
		{
			fname: "/some/dir/spadic_663.tsa",
			run:   663,
		},
		{
			fname: "../some/dir/spadic_009.tsa",
			run:   9,
		},
	} {
		t.Run(tc.fname, func(t *testing.T) {
			got, err := runNbrFrom(tc.fname)
			if err != nil {
				t.Fatalf("could not infer run-nbr: %+v", err)
			}
			if got != tc.run {
				t.Fatalf("invalid run: got=%d, want=%d", got, tc.run)
			}
		})
	}

	_, err := runNbrFrom("run.tsa")
	if err == nil {
		t.Fatalf("expected an error")
	}
}

func TestSPADIC2LCIO(t *testing.T) {
	tmp, err := os.MkdirTemp("", "spadic-xcnv-")
	if err != nil {
		t.Fatalf("could not create tmp dir: %+v", err)
	}
	defer os.RemoveAll(tmp)

	ws := timeslice.AppendDTM(nil, 0x10, []uint16{0x8123, 0x9456, 0xaff8, 0xb050})
	ws = timeslice.AppendDTM(ws, 0x11, []uint16{0xf200})
	raw := make([]byte, timeslice.DescriptorSize+2*len(ws))
	for i, w := range ws {
		binary.LittleEndian.PutUint16(raw[timeslice.DescriptorSize+2*i:], w)
	}

	fname := filepath.Join(tmp, "spadic_063.tsa")
	f, err := os.Create(fname)
	if err != nil {
		t.Fatalf("could not create archive: %+v", err)
	}
	defer f.Close()

	err = tsa.NewEncoder(f).Encode(&tsa.Timeslice{
		Index:      7,
		Components: [][][]byte{{raw}},
	})
	if err != nil {
		t.Fatalf("could not encode timeslice: %+v", err)
	}

	err = f.Close()
	if err != nil {
		t.Fatalf("could not close archive: %+v", err)
	}

	oname := fname + ".lcio"
	err = process(oname, flate.DefaultCompression, fname, nil, -1)
	if err != nil {
		t.Fatalf("could not convert archive: %+v", err)
	}

	r, err := lcio.Open(oname)
	if err != nil {
		t.Fatalf("could not open LCIO file: %+v", err)
	}
	defer r.Close()

	var (
		evts []int32
		hits []timeslice.Hit
	)
	err = xcnv.LCIO2Hits(r, func(evt int32, hs []timeslice.Hit) error {
		evts = append(evts, evt)
		hits = append(hits, hs...)
		return nil
	})
	if err != nil {
		t.Fatalf("could not read back hits: %+v", err)
	}

	if got, want := evts, []int32{7}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid events: got=%v, want=%v", got, want)
	}

	want := []timeslice.Hit{{
		Addr:      0x10,
		Group:     0x12,
		Channel:   0x3,
		Timestamp: 0x456,
		HitType:   message.HitSelfTriggered,
		StopType:  message.StopNormal,
		Samples:   []int16{-1},
	}}
	if !reflect.DeepEqual(hits, want) {
		t.Fatalf("invalid hits:\ngot= %+v\nwant=%+v", hits, want)
	}
}

func TestProcessMissing(t *testing.T) {
	tmp, err := os.MkdirTemp("", "spadic-xcnv-")
	if err != nil {
		t.Fatalf("could not create tmp dir: %+v", err)
	}
	defer os.RemoveAll(tmp)

	err = process(filepath.Join(tmp, "out.lcio"), flate.DefaultCompression, filepath.Join(tmp, "spadic_001.tsa"), nil, -1)
	if err == nil {
		t.Fatalf("expected an error")
	}
}
