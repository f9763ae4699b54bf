// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xcnv provides tools to convert SPADIC data to/from LCIO.
//
// Each timeslice is stored as an LCIO event, numbered after the
// timeslice index. Hits are stored in the SPADIC collection of
// TrackerRawData:
//
//	CellID0: addr<<16 | group<<4 | channel
//	CellID1: hit type<<8 | stop type
//	Time:    timestamp
//	ADCs:    samples (two's complement)
//
// Other messages are stored in the SPADIC_AUX collection of generic
// objects, one per message: {kind, addr, group, channel, value}.
package xcnv // import "github.com/go-lpc/spadic/internal/xcnv"

import (
	"github.com/go-lpc/spadic/message"
	"github.com/go-lpc/spadic/timeslice"
	"go-hep.org/x/hep/lcio"
)

const (
	detector = "SPADIC"

	hitsCollection = "SPADIC"
	auxCollection  = "SPADIC_AUX"
)

func cellID0(addr uint16, group, channel uint8) int32 {
	return int32(addr)<<16 | int32(group)<<4 | int32(channel&0xf)
}

func rawDataFrom(h timeslice.Hit) lcio.TrackerRawData {
	adcs := make([]uint16, len(h.Samples))
	for i, v := range h.Samples {
		adcs[i] = uint16(v)
	}
	return lcio.TrackerRawData{
		CellID0: cellID0(h.Addr, h.Group, h.Channel),
		CellID1: int32(h.HitType)<<8 | int32(h.StopType),
		Time:    int32(h.Timestamp),
		ADCs:    adcs,
	}
}

func hitFrom(raw lcio.TrackerRawData) timeslice.Hit {
	samples := make([]int16, len(raw.ADCs))
	for i, v := range raw.ADCs {
		samples[i] = int16(v)
	}
	return timeslice.Hit{
		Addr:      uint16(uint32(raw.CellID0) >> 16),
		Group:     uint8(raw.CellID0 >> 4),
		Channel:   uint8(raw.CellID0 & 0xf),
		Timestamp: uint16(raw.Time),
		HitType:   message.HitType(raw.CellID1 >> 8),
		StopType:  message.StopType(raw.CellID1 & 0xff),
		Samples:   samples,
	}
}

// auxFrom returns the generic object data of a non-hit record.
func auxFrom(rec *timeslice.Record) lcio.GenericObjectData {
	var v int32
	switch rec.Msg.Kind() {
	case message.KindBufferOverflow:
		v = int32(rec.Msg.BufferOverflowCount())
	case message.KindEpochMarker:
		v = int32(rec.Msg.EpochCount())
	case message.KindInfo:
		v = int32(rec.Msg.InfoType())
	}
	return lcio.GenericObjectData{
		I32s: []int32{
			int32(rec.Msg.Kind()),
			int32(rec.Addr),
			int32(rec.Msg.GroupID()),
			int32(rec.Msg.ChannelID()),
			v,
		},
	}
}
