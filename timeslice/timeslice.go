// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package timeslice walks CBM timeslices down to SPADIC messages.
//
// A timeslice holds components, each component holds microslices.
// The content of a microslice starts with a descriptor, followed by
// little-endian 16-bit words grouped into DTMs (data transport messages).
// The payload of each DTM is a piece of the word stream of a single
// SPADIC, identified by the CBMnet source address of the DTM.
package timeslice // import "github.com/go-lpc/spadic/timeslice"

import (
	"encoding/binary"
)

// DescriptorSize is the number of bytes skipped at the beginning of
// each microslice content.
const DescriptorSize = 16

// Timeslice is the read-only view of a timeslice needed for decoding.
type Timeslice interface {
	NumComponents() int
	NumMicroslices(c int) int
	// Content returns the raw content of microslice m of component c,
	// descriptor included.
	Content(c, m int) []byte
}

// Words interprets content[offset:] as little-endian 16-bit words.
// A trailing odd byte is ignored.
func Words(content []byte, offset int) []uint16 {
	if offset < 0 || len(content) <= offset {
		return nil
	}
	raw := content[offset:]
	ws := make([]uint16, len(raw)/2)
	for i := range ws {
		ws[i] = binary.LittleEndian.Uint16(raw[2*i:])
	}
	return ws
}

// Walk calls fn for every DTM of every microslice of ts, in component
// then microslice order.
// Walk stops at the first error returned by fn.
func Walk(ts Timeslice, fn func(c, m int, dtm DTM) error) error {
	for c := 0; c < ts.NumComponents(); c++ {
		err := walkComponent(ts, c, fn)
		if err != nil {
			return err
		}
	}
	return nil
}

func walkComponent(ts Timeslice, c int, fn func(c, m int, dtm DTM) error) error {
	for m := 0; m < ts.NumMicroslices(c); m++ {
		sc := NewDTMScanner(Words(ts.Content(c, m), DescriptorSize))
		for sc.Next() {
			err := fn(c, m, sc.DTM())
			if err != nil {
				return err
			}
		}
	}
	return nil
}
