// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tsa

import (
	"fmt"
	"io"

	"github.com/go-lpc/spadic/internal/mmap"
)

// File is an archive file, memory mapped for reading.
type File struct {
	h   *mmap.Handle
	dec *Decoder
}

// Open opens the named archive file for reading.
func Open(fname string) (*File, error) {
	h, err := mmap.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("tsa: could not open archive: %w", err)
	}
	return &File{
		h:   h,
		dec: NewDecoder(io.NewSectionReader(h, 0, int64(h.Len()))),
	}, nil
}

// Decode reads the next timeslice of the archive.
// Decode returns io.EOF at the end of the archive.
func (f *File) Decode(ts *Timeslice) error {
	return f.dec.Decode(ts)
}

// Close releases the resources held by the file.
func (f *File) Close() error {
	return f.h.Close()
}
