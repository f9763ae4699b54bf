// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-lpc/spadic/internal/tsa"
	"github.com/go-lpc/spadic/timeslice"
)

func microslice(ws []uint16) []byte {
	raw := make([]byte, timeslice.DescriptorSize+2*len(ws))
	for i, w := range ws {
		binary.LittleEndian.PutUint16(raw[timeslice.DescriptorSize+2*i:], w)
	}
	return raw
}

func genArchive(t *testing.T, fname string) {
	t.Helper()

	var ms0, ms1 []uint16
	ms0 = timeslice.AppendDTM(ms0, 0x10, []uint16{0x8123, 0x9456, 0xaff8, 0xb050})
	ms0 = timeslice.AppendDTM(ms0, 0x11, []uint16{0x8045, 0x9001, 0xc007})
	ms1 = timeslice.AppendDTM(ms1, 0x12, []uint16{0xf200})

	f, err := os.Create(fname)
	if err != nil {
		t.Fatalf("could not create archive: %+v", err)
	}
	defer f.Close()

	enc := tsa.NewEncoder(f)
	for _, ts := range []tsa.Timeslice{
		{Index: 10, Components: [][][]byte{{microslice(ms0)}}},
		{Index: 11, Components: [][][]byte{{}, {microslice(ms1)}}},
	} {
		err := enc.Encode(&ts)
		if err != nil {
			t.Fatalf("could not encode timeslice %d: %+v", ts.Index, err)
		}
	}

	err = f.Close()
	if err != nil {
		t.Fatalf("could not close archive: %+v", err)
	}
}

func TestProcess(t *testing.T) {
	tmp, err := os.MkdirTemp("", "spadic-dump-")
	if err != nil {
		t.Fatalf("could not create tmp dir: %+v", err)
	}
	defer os.RemoveAll(tmp)

	fname := filepath.Join(tmp, "run.tsa")
	genArchive(t, fname)

	const msgs = `=== timeslice 10 (components: 1) ===
comp=0 ms=0 addr=0x0010 hit group=18 channel=3 ts=1110 hit="self triggered" stop="normal end of message" samples=[-1]
comp=0 ms=0 addr=0x0011 buffer-overflow group=4 channel=5 ts=1 count=7
=== timeslice 11 (components: 2) ===
comp=1 ms=0 addr=0x0012 info type="next request timeout" channel=0
`

	for _, tc := range []struct {
		name  string
		fname string
		opts  options
		want  string
		err   string
	}{
		{
			name:  "messages",
			fname: fname,
			want:  msgs,
		},
		{
			name:  "parallel",
			fname: fname,
			opts:  options{parallel: true},
			want:  msgs,
		},
		{
			name:  "raw",
			fname: fname,
			opts:  options{raw: true},
			want: `=== timeslice 10 (components: 1) ===
comp=0 ms=0 addr=0x0010 words=4
  8123 9456 aff8 b050
comp=0 ms=0 addr=0x0011 words=3
  8045 9001 c007
=== timeslice 11 (components: 2) ===
comp=1 ms=0 addr=0x0012 words=1
  f200
`,
		},
		{
			name:  "missing",
			fname: filepath.Join(tmp, "not-there.tsa"),
			err:   "could not open",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			out := new(bytes.Buffer)
			err := process(out, tc.fname, tc.opts)
			switch {
			case err != nil && tc.err != "":
				if !strings.Contains(err.Error(), tc.err) {
					t.Fatalf("invalid error:\ngot= %v\nwant=%v", err, tc.err)
				}
				return
			case err != nil && tc.err == "":
				t.Fatalf("could not process file: %+v", err)
			case err == nil && tc.err != "":
				t.Fatalf("expected an error (%s)", tc.err)
			}

			if got, want := out.String(), tc.want; got != want {
				t.Fatalf("invalid output:\ngot:\n%s\nwant:\n%s\n", got, want)
			}
		})
	}
}

func TestProcessLongDTM(t *testing.T) {
	tmp, err := os.MkdirTemp("", "spadic-dump-")
	if err != nil {
		t.Fatalf("could not create tmp dir: %+v", err)
	}
	defer os.RemoveAll(tmp)

	payload := make([]uint16, 10)
	for i := range payload {
		payload[i] = uint16(i)
	}
	ws := timeslice.AppendDTM(nil, 0x01, payload)

	fname := filepath.Join(tmp, "long.tsa")
	f, err := os.Create(fname)
	if err != nil {
		t.Fatalf("could not create archive: %+v", err)
	}
	defer f.Close()
	err = tsa.NewEncoder(f).Encode(&tsa.Timeslice{
		Index:      1,
		Components: [][][]byte{{microslice(ws)}},
	})
	if err != nil {
		t.Fatalf("could not encode timeslice: %+v", err)
	}
	err = f.Close()
	if err != nil {
		t.Fatalf("could not close archive: %+v", err)
	}

	out := new(bytes.Buffer)
	err = process(out, fname, options{raw: true})
	if err != nil {
		t.Fatalf("could not process file: %+v", err)
	}

	const want = `=== timeslice 1 (components: 1) ===
comp=0 ms=0 addr=0x0001 words=10
  0000 0001 0002 0003 0004 0005 0006 0007
  0008 0009
`
	if got := out.String(); got != want {
		t.Fatalf("invalid output:\ngot:\n%s\nwant:\n%s\n", got, want)
	}
}
