// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package message

import (
	"fmt"
	"math/bits"
)

// Field is a bit field of a 16-bit word, described by its mask.
type Field uint16

// Get extracts the field value from w, right-aligned.
func (f Field) Get(w uint16) uint16 {
	return (w & uint16(f)) >> bits.TrailingZeros16(uint16(f))
}

// Width returns the number of bits spanned by the field.
func (f Field) Width() int {
	if f == 0 {
		return 0
	}
	return 16 - bits.LeadingZeros16(uint16(f)) - bits.TrailingZeros16(uint16(f))
}

// Layout describes the position of every message field inside the words
// that carry it.
type Layout struct {
	GroupID   Field // start of message
	ChannelID Field // start of message

	Timestamp Field // timestamp word

	RawData      Field // raw data word
	Continuation Field // control (continuation) word

	NumSamples Field // end of message
	HitType    Field // end of message
	StopType   Field // end of message

	BufferOverflow Field // buffer overflow marker
	Epoch          Field // epoch marker

	InfoType    Field // info word
	InfoChannel Field // info word, aborted-hit subtypes
	InfoEpoch   Field // info word, out-of-sync subtype
}

var spadic10Layout = Layout{
	GroupID:        0x0ff0,
	ChannelID:      0x000f,
	Timestamp:      0x0fff,
	RawData:        0x0fff,
	Continuation:   0x7fff,
	NumSamples:     0x0fc0,
	HitType:        0x0030,
	StopType:       0x0007,
	BufferOverflow: 0x00ff,
	Epoch:          0x0fff,
	InfoType:       0x0f00,
	InfoChannel:    0x00f0,
	InfoEpoch:      0x00ff,
}

// InfoType is the subtype of an info word.
type InfoType uint8

const (
	InfoChannelDisabled    InfoType = 0x0 // iDIS
	InfoNextGrantTimeout   InfoType = 0x1 // iNGT
	InfoNextRequestTimeout InfoType = 0x2 // iNRT
	InfoNewGrantEmpty      InfoType = 0x3 // iNBE
	InfoCorruption         InfoType = 0x4 // iMSB
	InfoNOP                InfoType = 0x5 // iNOP
	InfoEpochOutOfSync     InfoType = 0x6 // iSYN
)

func (t InfoType) String() string {
	switch t {
	case InfoChannelDisabled:
		return "channel disabled during message building"
	case InfoNextGrantTimeout:
		return "next grant timeout"
	case InfoNextRequestTimeout:
		return "next request timeout"
	case InfoNewGrantEmpty:
		return "new grant but channel empty"
	case InfoCorruption:
		return "corruption in message builder"
	case InfoNOP:
		return "empty word"
	case InfoEpochOutOfSync:
		return "epoch out of sync"
	}
	return fmt.Sprintf("InfoType(0x%x)", uint8(t))
}

// InfoTypes lists the info subtypes the assembler treats specially.
type InfoTypes struct {
	NOP       InfoType   // housekeeping word, skipped
	OutOfSync InfoType   // carries an epoch count
	Aborted   []InfoType // aborted hit, carries a channel id
}

func (it InfoTypes) aborted(t InfoType) bool {
	for _, v := range it.Aborted {
		if v == t {
			return true
		}
	}
	return false
}

var spadic10Info = InfoTypes{
	NOP:       InfoNOP,
	OutOfSync: InfoEpochOutOfSync,
	Aborted: []InfoType{
		InfoChannelDisabled,
		InfoNextGrantTimeout,
		InfoNewGrantEmpty,
		InfoCorruption,
	},
}

// HitType describes what triggered a hit.
type HitType uint8

const (
	HitGlobalTrigger HitType = iota
	HitSelfTriggered
	HitNeighborTriggered
	HitSelfAndNeighbor
)

func (t HitType) String() string {
	switch t {
	case HitGlobalTrigger:
		return "global trigger"
	case HitSelfTriggered:
		return "self triggered"
	case HitNeighborTriggered:
		return "neighbor triggered"
	case HitSelfAndNeighbor:
		return "self and neighbor triggered"
	}
	return fmt.Sprintf("HitType(%d)", uint8(t))
}

// StopType describes why the recording of a hit stopped.
type StopType uint8

const (
	StopNormal StopType = iota
	StopBufferFull
	StopOrderingFull
	StopMultiHit
	StopMultiHitOrderingFull
	StopMultiHitBufferFull
)

func (t StopType) String() string {
	switch t {
	case StopNormal:
		return "normal end of message"
	case StopBufferFull:
		return "buffer full"
	case StopOrderingFull:
		return "ordering FIFO full"
	case StopMultiHit:
		return "multi hit"
	case StopMultiHitOrderingFull:
		return "multi hit and ordering FIFO full"
	case StopMultiHitBufferFull:
		return "multi hit and buffer full"
	}
	return fmt.Sprintf("StopType(%d)", uint8(t))
}
