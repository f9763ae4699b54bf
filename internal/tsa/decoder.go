// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tsa

import (
	"encoding/binary"
	"io"

	"golang.org/x/xerrors"
)

// Decoder reads timeslices from an archive stream.
type Decoder struct {
	r io.Reader

	buf []byte
	err error
	hdr bool
}

// NewDecoder creates a decoder that reads from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		r:   r,
		buf: make([]byte, 8),
	}
}

func (dec *Decoder) readHeader() error {
	dec.hdr = true

	var hdr [len(magic) + 1]byte
	dec.read(hdr[:])
	if dec.err != nil {
		if xerrors.Is(dec.err, io.EOF) {
			dec.err = io.ErrUnexpectedEOF
		}
		return xerrors.Errorf("tsa: could not read archive header: %w", dec.err)
	}
	if got := string(hdr[:len(magic)]); got != magic {
		dec.err = xerrors.Errorf("tsa: invalid archive magic %q", got)
		return dec.err
	}
	if v := hdr[len(magic)]; v != version {
		dec.err = xerrors.Errorf("tsa: unsupported archive version %d", v)
		return dec.err
	}
	return nil
}

// Decode reads the next timeslice from the stream.
// Decode returns io.EOF when the stream ends on a timeslice boundary.
// Microslice contents are allocated anew for each timeslice.
func (dec *Decoder) Decode(ts *Timeslice) error {
	if !dec.hdr {
		err := dec.readHeader()
		if err != nil {
			return err
		}
	}
	if dec.err != nil {
		return dec.err
	}

	ts.Index = dec.readU64()
	if dec.err != nil {
		if xerrors.Is(dec.err, io.EOF) {
			return io.EOF
		}
		return xerrors.Errorf("tsa: could not read timeslice index: %w", dec.err)
	}

	ncomps := dec.readU32()
	if dec.err != nil {
		return dec.errorf("could not read number of components", ts)
	}

	ts.Components = make([][][]byte, 0, clip(ncomps))
	for c := 0; c < int(ncomps); c++ {
		nms := dec.readU32()
		if dec.err != nil {
			return dec.errorf("could not read number of microslices", ts)
		}
		comp := make([][]byte, 0, clip(nms))
		for m := 0; m < int(nms); m++ {
			size := dec.readU32()
			if dec.err != nil {
				return dec.errorf("could not read microslice size", ts)
			}
			if size > maxContent {
				dec.err = xerrors.Errorf(
					"tsa: timeslice %d: microslice %d/%d too large (%d bytes)",
					ts.Index, c, m, size,
				)
				return dec.err
			}
			ms := make([]byte, size)
			dec.read(ms)
			if dec.err != nil {
				return dec.errorf("could not read microslice content", ts)
			}
			comp = append(comp, ms)
		}
		ts.Components = append(ts.Components, comp)
	}

	return nil
}

// clip bounds the capacity preallocated from a count read in the stream.
func clip(n uint32) int {
	const max = 1024
	if n > max {
		return max
	}
	return int(n)
}

func (dec *Decoder) errorf(msg string, ts *Timeslice) error {
	if xerrors.Is(dec.err, io.EOF) {
		dec.err = io.ErrUnexpectedEOF
	}
	return xerrors.Errorf("tsa: timeslice %d: %s: %w", ts.Index, msg, dec.err)
}

func (dec *Decoder) read(p []byte) {
	if dec.err != nil {
		return
	}
	_, dec.err = io.ReadFull(dec.r, p)
}

func (dec *Decoder) readU32() uint32 {
	const n = 4
	dec.load(n)
	return binary.LittleEndian.Uint32(dec.buf[:n])
}

func (dec *Decoder) readU64() uint64 {
	const n = 8
	dec.load(n)
	return binary.LittleEndian.Uint64(dec.buf[:n])
}

func (dec *Decoder) load(n int) {
	if dec.err != nil {
		return
	}
	_, dec.err = io.ReadFull(dec.r, dec.buf[:n])
}
