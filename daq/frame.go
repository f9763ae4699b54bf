// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package daq

import (
	"bytes"
	"fmt"

	"github.com/go-daq/tdaq"
	"github.com/go-lpc/spadic/message"
	"github.com/go-lpc/spadic/timeslice"
)

// Frame is the content of a hit frame: the hits of one timeslice.
type Frame struct {
	Index uint64 // timeslice index
	Hits  []timeslice.Hit
}

// MarshalTDAQ encodes the frame.
//
//	u64 index | u32 #hits | hit...
//	hit: u16 addr | u8 group | u8 channel | u16 timestamp |
//	     u8 hit type | u8 stop type | u16 #samples | u16 sample...
func (f *Frame) MarshalTDAQ() ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := tdaq.NewEncoder(buf)
	enc.WriteU64(f.Index)
	enc.WriteU32(uint32(len(f.Hits)))
	for _, h := range f.Hits {
		enc.WriteU16(h.Addr)
		enc.WriteU8(h.Group)
		enc.WriteU8(h.Channel)
		enc.WriteU16(h.Timestamp)
		enc.WriteU8(uint8(h.HitType))
		enc.WriteU8(uint8(h.StopType))
		enc.WriteU16(uint16(len(h.Samples)))
		for _, v := range h.Samples {
			enc.WriteU16(uint16(v))
		}
	}
	if err := enc.Err(); err != nil {
		return nil, fmt.Errorf("daq: could not encode hit frame: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalTDAQ decodes the frame.
func (f *Frame) UnmarshalTDAQ(p []byte) error {
	dec := tdaq.NewDecoder(bytes.NewReader(p))
	f.Index = dec.ReadU64()
	n := int(dec.ReadU32())
	if err := dec.Err(); err != nil {
		return fmt.Errorf("daq: could not decode hit frame header: %w", err)
	}

	f.Hits = make([]timeslice.Hit, 0, clip(n))
	for i := 0; i < n; i++ {
		var h timeslice.Hit
		h.Addr = dec.ReadU16()
		h.Group = dec.ReadU8()
		h.Channel = dec.ReadU8()
		h.Timestamp = dec.ReadU16()
		h.HitType = message.HitType(dec.ReadU8())
		h.StopType = message.StopType(dec.ReadU8())
		h.Samples = make([]int16, dec.ReadU16())
		for j := range h.Samples {
			h.Samples[j] = int16(dec.ReadU16())
		}
		if err := dec.Err(); err != nil {
			return fmt.Errorf("daq: could not decode hit %d of frame %d: %w", i, f.Index, err)
		}
		f.Hits = append(f.Hits, h)
	}
	return nil
}

func clip(n int) int {
	const max = 4096
	if n > max {
		return max
	}
	return n
}
