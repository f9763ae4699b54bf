// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tsa

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Encoder writes timeslices to an archive stream.
// The file header is written together with the first timeslice.
type Encoder struct {
	w   io.Writer
	buf []byte
	err error
	hdr bool
}

// NewEncoder returns a new Encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		w:   w,
		buf: make([]byte, 8),
	}
}

// WriteHeader writes the archive header, if not already written.
// WriteHeader is useful to create archives without any timeslice.
func (enc *Encoder) WriteHeader() error {
	if enc.hdr {
		return enc.err
	}
	enc.hdr = true
	enc.write([]byte(magic))
	enc.writeU8(version)
	if enc.err != nil {
		return fmt.Errorf("tsa: could not write archive header: %w", enc.err)
	}
	return nil
}

// Encode writes a timeslice to the stream.
func (enc *Encoder) Encode(ts *Timeslice) error {
	if ts == nil {
		return nil
	}

	err := enc.WriteHeader()
	if err != nil {
		return err
	}

	enc.writeU64(ts.Index)
	enc.writeU32(uint32(len(ts.Components)))
	for c, comp := range ts.Components {
		enc.writeU32(uint32(len(comp)))
		for m, ms := range comp {
			if len(ms) > maxContent {
				return fmt.Errorf(
					"tsa: timeslice %d: microslice %d/%d too large (%d bytes)",
					ts.Index, c, m, len(ms),
				)
			}
			enc.writeU32(uint32(len(ms)))
			enc.write(ms)
		}
	}
	if enc.err != nil {
		return fmt.Errorf("tsa: could not write timeslice %d: %w", ts.Index, enc.err)
	}
	return nil
}

func (enc *Encoder) write(p []byte) {
	if enc.err != nil {
		return
	}
	_, enc.err = enc.w.Write(p)
}

func (enc *Encoder) writeU8(v uint8) {
	enc.buf[0] = v
	enc.write(enc.buf[:1])
}

func (enc *Encoder) writeU32(v uint32) {
	const n = 4
	binary.LittleEndian.PutUint32(enc.buf[:n], v)
	enc.write(enc.buf[:n])
}

func (enc *Encoder) writeU64(v uint64) {
	const n = 8
	binary.LittleEndian.PutUint64(enc.buf[:n], v)
	enc.write(enc.buf[:n])
}
