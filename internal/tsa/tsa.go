// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tsa implements the SPADIC timeslice archive format.
//
// An archive is a little-endian stream made of a file header followed by
// timeslices:
//
//	header:     "SPTS" | u8 version
//	timeslice:  u64 index | u32 #components | component...
//	component:  u32 #microslices | microslice...
//	microslice: u32 size | content (size bytes, descriptor included)
package tsa // import "github.com/go-lpc/spadic/internal/tsa"

const (
	magic   = "SPTS"
	version = 1

	maxContent = 1 << 28 // maximum size of a microslice content, in bytes
)

// Timeslice is a decoded archive timeslice.
type Timeslice struct {
	Index uint64
	// Components[c][m] is the content of microslice m of component c.
	Components [][][]byte
}

func (ts *Timeslice) NumComponents() int       { return len(ts.Components) }
func (ts *Timeslice) NumMicroslices(c int) int { return len(ts.Components[c]) }
func (ts *Timeslice) Content(c, m int) []byte  { return ts.Components[c][m] }
