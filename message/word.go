// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package message

import (
	"fmt"
	"strings"
)

// WordType identifies the kind of a 16-bit SPADIC protocol word.
type WordType uint8

const (
	StartOfMessage       WordType = iota // som
	TimestampWord                        // tsw
	RawData                              // rda
	EndOfMessage                         // eom
	BufferOverflowMarker                 // bom
	EpochMarker                          // epm
	ExtendedData                         // exd
	InfoWord                             // inf
	ControlWord                          // con

	numWordTypes
)

var wordTypeNames = [numWordTypes]struct {
	mnemonic string
	name     string
}{
	StartOfMessage:       {"som", "start-of-message"},
	TimestampWord:        {"tsw", "timestamp"},
	RawData:              {"rda", "raw-data"},
	EndOfMessage:         {"eom", "end-of-message"},
	BufferOverflowMarker: {"bom", "buffer-overflow"},
	EpochMarker:          {"epm", "epoch-marker"},
	ExtendedData:         {"exd", "extended-data"},
	InfoWord:             {"inf", "info"},
	ControlWord:          {"con", "control"},
}

func (t WordType) String() string {
	if t >= numWordTypes {
		return fmt.Sprintf("WordType(%d)", uint8(t))
	}
	return wordTypeNames[t].name
}

// Mnemonic returns the 3-letter name of the word type (e.g. "som").
func (t WordType) Mnemonic() string {
	if t >= numWordTypes {
		return "???"
	}
	return wordTypeNames[t].mnemonic
}

// ParseWordType returns the word type named by s.
// Both mnemonics ("som") and long names ("start-of-message") are accepted.
func ParseWordType(s string) (WordType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range wordTypeNames {
		if s == n.mnemonic || s == n.name {
			return WordType(i), nil
		}
	}
	return 0, fmt.Errorf("message: unknown word type %q", s)
}

// Descriptor describes how words of a given type are recognized:
// a word w is of type Type iff w&Mask == Value.
type Descriptor struct {
	Type  WordType
	Mask  uint16
	Value uint16
}

// Match returns whether w belongs to the descriptor's word type.
func (d Descriptor) Match(w uint16) bool {
	return w&d.Mask == d.Value
}

func (d Descriptor) overlaps(o Descriptor) bool {
	return (d.Value^o.Value)&d.Mask&o.Mask == 0
}

// Protocol holds the configuration data of the SPADIC word protocol:
// the ordered word type table, the bit layout of the message fields and
// the info-word subtypes with a special meaning.
//
// A Protocol is read-only once built and may be shared between goroutines.
type Protocol struct {
	Words      []Descriptor // word types, in matching order
	Fields     Layout
	Info       InfoTypes
	SampleBits int // width of a single ADC sample, in bits
}

// Classify returns the type of the first descriptor matching w.
// Classify returns false if no descriptor matches.
func (p *Protocol) Classify(w uint16) (WordType, bool) {
	for _, d := range p.Words {
		if d.Match(w) {
			return d.Type, true
		}
	}
	return 0, false
}

// IsIgnorable returns whether w is a housekeeping no-op info word.
func (p *Protocol) IsIgnorable(w uint16) bool {
	t, ok := p.Classify(w)
	if !ok || t != InfoWord {
		return false
	}
	return p.isNOP(w)
}

func (p *Protocol) isNOP(w uint16) bool {
	return InfoType(p.Fields.InfoType.Get(w)) == p.Info.NOP
}

// Validate checks the protocol table is usable: every word type is
// described exactly once, no value has bits outside of its mask and no
// two descriptors can match the same word.
func (p *Protocol) Validate() error {
	var seen [numWordTypes]bool
	for _, d := range p.Words {
		if d.Type >= numWordTypes {
			return fmt.Errorf("message: invalid word type %d", d.Type)
		}
		if seen[d.Type] {
			return fmt.Errorf("message: duplicate descriptor for %v", d.Type)
		}
		seen[d.Type] = true
		if d.Value&^d.Mask != 0 {
			return fmt.Errorf(
				"message: %v value 0x%04x has bits outside of mask 0x%04x",
				d.Type, d.Value, d.Mask,
			)
		}
	}
	for i, ok := range seen {
		if !ok {
			return fmt.Errorf("message: missing descriptor for %v", WordType(i))
		}
	}

	for i, a := range p.Words {
		for _, b := range p.Words[i+1:] {
			if a.overlaps(b) {
				return fmt.Errorf("message: %v and %v descriptors overlap", a.Type, b.Type)
			}
		}
	}

	if p.SampleBits <= 0 || p.SampleBits > 16 {
		return fmt.Errorf("message: invalid sample width %d", p.SampleBits)
	}
	return nil
}

// SPADIC10 returns the protocol description of the SPADIC 1.0 chip.
func SPADIC10() *Protocol {
	return &Protocol{
		Words: []Descriptor{
			{StartOfMessage, 0xf000, 0x8000},
			{TimestampWord, 0xf000, 0x9000},
			{RawData, 0xf000, 0xa000},
			{EndOfMessage, 0xf000, 0xb000},
			{BufferOverflowMarker, 0xf000, 0xc000},
			{EpochMarker, 0xf000, 0xd000},
			{ExtendedData, 0xf000, 0xe000},
			{InfoWord, 0xf000, 0xf000},
			{ControlWord, 0x8000, 0x0000},
		},
		Fields: spadic10Layout,
		Info: InfoTypes{
			NOP:       spadic10Info.NOP,
			OutOfSync: spadic10Info.OutOfSync,
			Aborted:   append([]InfoType(nil), spadic10Info.Aborted...),
		},
		SampleBits: 9,
	}
}
