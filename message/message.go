// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package message decodes SPADIC protocol words into messages.
//
// A SPADIC message is a sequence of 16-bit words, starting with a
// start-of-message word and (for hits) ending with an end-of-message word.
// Words are classified by a Protocol and folded, one at a time, into a
// Message accumulator until the message is complete.
package message // import "github.com/go-lpc/spadic/message"

import (
	"fmt"
	"strings"
)

// Flags records which word types were folded into a message since its
// last reset.
type Flags uint8

const (
	FlagStart          Flags = 0x01
	FlagTimestamp      Flags = 0x02
	FlagEnd            Flags = 0x08
	FlagBufferOverflow Flags = 0x10
	FlagEpoch          Flags = 0x20
	FlagInfo           Flags = 0x30
	FlagExtended       Flags = 0x40 // info word of an aborted-hit subtype
)

// Kind is the kind of a complete message.
type Kind uint8

const (
	KindIncomplete Kind = iota
	KindHit
	KindBufferOverflow
	KindEpochMarker
	KindInfo
)

func (k Kind) String() string {
	switch k {
	case KindIncomplete:
		return "incomplete"
	case KindHit:
		return "hit"
	case KindBufferOverflow:
		return "buffer-overflow"
	case KindEpochMarker:
		return "epoch-marker"
	case KindInfo:
		return "info"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// completions lists the accepted flag combinations.
// A message is complete iff its flags are exactly one of these.
//
// An aborted hit (FlagExtended together with an aborted-hit info type)
// is not accepted: its exact flag pattern is not documented.
var completions = []struct {
	flags Flags
	kind  Kind
}{
	{FlagStart | FlagTimestamp | FlagEnd, KindHit},
	{FlagStart | FlagTimestamp | FlagBufferOverflow, KindBufferOverflow},
	{FlagStart | FlagEpoch, KindEpochMarker},
	// start+info is kept as an epoch marker (out-of-sync epochs are
	// reported through an info word) until the protocol says otherwise.
	{FlagStart | FlagInfo, KindEpochMarker},
	{FlagInfo, KindInfo},
}

type chunk struct {
	v uint16 // payload bits, right-aligned
	n uint8  // number of payload bits
}

// Message accumulates the content of a SPADIC message.
//
// The zero value is an empty message, ready to use.
// Accessors only return meaningful values when the matching predicate
// holds; otherwise they may return data from a previous message.
type Message struct {
	valid Flags

	group     uint8
	channel   uint8
	timestamp uint16
	nsamples  uint8
	hit       HitType
	stop      StopType
	overflow  uint8
	epoch     uint16
	info      InfoType
	outOfSync bool // last info word was of the epoch out-of-sync subtype

	raw     []chunk
	samples []int16
}

// Reset clears the message flags and discards any accumulated samples.
func (m *Message) Reset() {
	m.valid = 0
	m.outOfSync = false
	m.raw = m.raw[:0]
	m.samples = m.samples[:0]
}

// Clone returns a deep copy of the message.
func (m *Message) Clone() Message {
	o := *m
	o.raw = append([]chunk(nil), m.raw...)
	o.samples = append([]int16(nil), m.samples...)
	return o
}

// Valid returns the flags accumulated since the last reset.
func (m *Message) Valid() Flags { return m.valid }

// Kind returns the kind of the message, or KindIncomplete.
func (m *Message) Kind() Kind {
	for _, c := range completions {
		if m.valid == c.flags {
			return c.kind
		}
	}
	return KindIncomplete
}

func (m *Message) IsHit() bool            { return m.Kind() == KindHit }
func (m *Message) IsBufferOverflow() bool { return m.Kind() == KindBufferOverflow }
func (m *Message) IsEpochMarker() bool    { return m.Kind() == KindEpochMarker }
func (m *Message) IsInfo() bool           { return m.Kind() == KindInfo }

// IsValid returns whether at least one flagged word was folded into the
// message since its last reset.
func (m *Message) IsValid() bool { return m.valid != 0 }

// IsHitAborted returns whether an info word of an aborted-hit subtype was
// folded into the message.
// An aborted hit is never complete: IsComplete does not account for it.
func (m *Message) IsHitAborted() bool { return m.valid&FlagExtended != 0 }

// IsEpochOutOfSync returns whether the message is an epoch marker reported
// through an epoch out-of-sync info word.
func (m *Message) IsEpochOutOfSync() bool {
	return m.valid == FlagStart|FlagInfo && m.outOfSync
}

// IsComplete returns whether the accumulated flags form one of the
// accepted messages.
func (m *Message) IsComplete() bool { return m.Kind() != KindIncomplete }

func (m *Message) GroupID() uint8             { return m.group }
func (m *Message) ChannelID() uint8           { return m.channel }
func (m *Message) Timestamp() uint16          { return m.timestamp }
func (m *Message) NumSamples() uint8          { return m.nsamples }
func (m *Message) HitType() HitType           { return m.hit }
func (m *Message) StopType() StopType         { return m.stop }
func (m *Message) BufferOverflowCount() uint8 { return m.overflow }
func (m *Message) EpochCount() uint16         { return m.epoch }
func (m *Message) InfoType() InfoType         { return m.info }

// Samples returns the ADC samples of a hit.
// The returned slice is only valid until the next call filling m.
func (m *Message) Samples() []int16 { return m.samples }

func (m *Message) String() string {
	o := new(strings.Builder)
	switch m.Kind() {
	case KindHit:
		fmt.Fprintf(o, "hit group=%d channel=%d ts=%d hit=%q stop=%q samples=%v",
			m.group, m.channel, m.timestamp, m.hit, m.stop, m.samples,
		)
	case KindBufferOverflow:
		fmt.Fprintf(o, "buffer-overflow group=%d channel=%d ts=%d count=%d",
			m.group, m.channel, m.timestamp, m.overflow,
		)
	case KindEpochMarker:
		fmt.Fprintf(o, "epoch-marker group=%d channel=%d epoch=%d",
			m.group, m.channel, m.epoch,
		)
	case KindInfo:
		fmt.Fprintf(o, "info type=%q channel=%d", m.info, m.channel)
	default:
		fmt.Fprintf(o, "incomplete flags=0x%02x", uint8(m.valid))
	}
	return o.String()
}

func (m *Message) appendBits(v uint16, n int) {
	m.raw = append(m.raw, chunk{v: v, n: uint8(n)})
}

// unpack cuts the accumulated raw bits into n samples of width bits,
// most significant bits first.
func (m *Message) unpack(n, width int) {
	m.samples = m.samples[:0]
	if width <= 0 {
		return
	}
	var (
		acc  uint32
		nacc int
		mask = uint32(1)<<width - 1
	)
	for _, c := range m.raw {
		if len(m.samples) >= n {
			break
		}
		acc = acc<<c.n | uint32(c.v)
		nacc += int(c.n)
		for nacc >= width && len(m.samples) < n {
			nacc -= width
			m.samples = append(m.samples, signed((acc>>nacc)&mask, width))
		}
		acc &= uint32(1)<<nacc - 1
	}
}

// signed sign-extends the two's complement value v of the given width.
func signed(v uint32, width int) int16 {
	shift := 16 - width
	return int16(uint16(v)<<shift) >> shift
}
