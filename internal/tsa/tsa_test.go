// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tsa

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/go-lpc/spadic/timeslice"
)

var _ timeslice.Timeslice = (*Timeslice)(nil)

func testTimeslices() []Timeslice {
	return []Timeslice{
		{
			Index: 1,
			Components: [][][]byte{
				{
					[]byte("0123456789abcdef\x02\x00\x10\x00\x11\x80\x01\x90"),
					[]byte("0123456789abcdef"),
				},
				{},
			},
		},
		{
			Index: 0xffffffff01,
		},
		{
			Index: 3,
			Components: [][][]byte{
				{[]byte{}, []byte{0xff}},
			},
		},
	}
}

func encode(t *testing.T, tss []Timeslice) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	enc := NewEncoder(buf)
	for i := range tss {
		err := enc.Encode(&tss[i])
		if err != nil {
			t.Fatalf("could not encode timeslice %d: %+v", i, err)
		}
	}
	return buf.Bytes()
}

func decodeAll(dec *Decoder) ([]Timeslice, error) {
	var tss []Timeslice
	for {
		var ts Timeslice
		err := dec.Decode(&ts)
		if err != nil {
			return tss, err
		}
		tss = append(tss, ts)
	}
}

func TestCodec(t *testing.T) {
	want := testTimeslices()
	raw := encode(t, want)

	got, err := decodeAll(NewDecoder(bytes.NewReader(raw)))
	if !errors.Is(err, io.EOF) {
		t.Fatalf("could not decode archive: %+v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("invalid number of timeslices: got=%d, want=%d", len(got), len(want))
	}
	for i := range want {
		// empty and nil components are encoded the same way.
		if got, want := len(got[i].Components), len(want[i].Components); got != want {
			t.Fatalf("ts[%d]: invalid number of components: got=%d, want=%d", i, got, want)
		}
		if got[i].Index != want[i].Index {
			t.Fatalf("ts[%d]: invalid index: got=%d, want=%d", i, got[i].Index, want[i].Index)
		}
		for c := range want[i].Components {
			if got, want := got[i].NumMicroslices(c), want[i].NumMicroslices(c); got != want {
				t.Fatalf("ts[%d]: invalid number of microslices: got=%d, want=%d", i, got, want)
			}
			for m := range want[i].Components[c] {
				if got, want := got[i].Content(c, m), want[i].Content(c, m); !bytes.Equal(got, want) {
					t.Fatalf("ts[%d]: invalid content %d/%d:\ngot= %q\nwant=%q", i, c, m, got, want)
				}
			}
		}
	}
}

func TestEmptyArchive(t *testing.T) {
	buf := new(bytes.Buffer)
	enc := NewEncoder(buf)
	err := enc.WriteHeader()
	if err != nil {
		t.Fatalf("could not write header: %+v", err)
	}
	if got, want := buf.String(), "SPTS\x01"; got != want {
		t.Fatalf("invalid header: got=%q, want=%q", got, want)
	}

	var ts Timeslice
	err = NewDecoder(buf).Decode(&ts)
	if err != io.EOF {
		t.Fatalf("invalid error: got=%v, want=%v", err, io.EOF)
	}
}

func TestTruncated(t *testing.T) {
	raw := encode(t, testTimeslices()[:1])

	// boundaries of the header and of the timeslice.
	clean := map[int]bool{len(raw): true, 5: true}

	for n := 0; n < len(raw); n++ {
		_, err := decodeAll(NewDecoder(bytes.NewReader(raw[:n])))
		switch {
		case clean[n]:
			if err != io.EOF {
				t.Fatalf("n=%d: invalid error: got=%v, want=EOF", n, err)
			}
		default:
			if !errors.Is(err, io.ErrUnexpectedEOF) {
				t.Fatalf("n=%d: invalid error: got=%v, want=%v", n, err, io.ErrUnexpectedEOF)
			}
		}
	}
}

func TestDecoderErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "magic",
			raw:  "SPTX\x01",
			want: `tsa: invalid archive magic "SPTX"`,
		},
		{
			name: "version",
			raw:  "SPTS\x02",
			want: "tsa: unsupported archive version 2",
		},
		{
			name: "too-large",
			raw: "SPTS\x01" +
				"\x07\x00\x00\x00\x00\x00\x00\x00" + // index
				"\x01\x00\x00\x00" + // #components
				"\x01\x00\x00\x00" + // #microslices
				"\x00\x00\x00\x20", // size
			want: "tsa: timeslice 7: microslice 0/0 too large (536870912 bytes)",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var ts Timeslice
			dec := NewDecoder(strings.NewReader(tc.raw))
			err := dec.Decode(&ts)
			if err == nil {
				t.Fatalf("expected an error")
			}
			if got, want := err.Error(), tc.want; got != want {
				t.Fatalf("invalid error:\ngot= %v\nwant=%v", got, want)
			}

			// errors are sticky.
			err = dec.Decode(&ts)
			if got, want := err.Error(), tc.want; got != want {
				t.Fatalf("invalid sticky error:\ngot= %v\nwant=%v", got, want)
			}
		})
	}
}

func TestFile(t *testing.T) {
	tmp, err := os.MkdirTemp("", "spadic-tsa-")
	if err != nil {
		t.Fatalf("could not create tmp dir: %+v", err)
	}
	defer os.RemoveAll(tmp)

	want := []Timeslice{
		{
			Index: 42,
			Components: [][][]byte{{
				append(
					make([]byte, timeslice.DescriptorSize),
					0x02, 0x00, 0x10, 0x00, 0x11, 0x80, 0x01, 0x90, // som, tsw
					0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // padding
					0x01, 0x00, 0x10, 0x00, 0x00, 0xb0, 0x00, 0x00, // eom
				),
			}},
		},
	}

	fname := filepath.Join(tmp, "run.tsa")
	err = os.WriteFile(fname, encode(t, want), 0644)
	if err != nil {
		t.Fatalf("could not write archive: %+v", err)
	}

	f, err := Open(fname)
	if err != nil {
		t.Fatalf("could not open archive: %+v", err)
	}
	defer f.Close()

	var (
		ts   Timeslice
		dec  = timeslice.NewDecoder(nil)
		hits int
	)
	for {
		err := f.Decode(&ts)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("could not decode timeslice: %+v", err)
		}
		if !reflect.DeepEqual(ts, want[0]) {
			t.Fatalf("invalid timeslice:\ngot= %v\nwant=%v", ts, want[0])
		}
		err = dec.Decode(&ts, func(rec timeslice.Record) error {
			if !rec.Msg.IsHit() {
				t.Fatalf("invalid message: %v", &rec.Msg)
			}
			if got, want := rec.Msg.GroupID(), uint8(0x01); got != want {
				t.Fatalf("invalid group: got=%d, want=%d", got, want)
			}
			hits++
			return nil
		})
		if err != nil {
			t.Fatalf("could not decode messages: %+v", err)
		}
	}

	if hits != 1 {
		t.Fatalf("invalid number of hits: got=%d, want=1", hits)
	}

	err = f.Close()
	if err != nil {
		t.Fatalf("could not close archive: %+v", err)
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := Open("testdata/not-there.tsa")
	if err == nil {
		t.Fatalf("expected an error")
	}
}
