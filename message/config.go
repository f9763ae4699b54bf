// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package message

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type wordConfig struct {
	Type  string `yaml:"type"`
	Mask  uint16 `yaml:"mask"`
	Value uint16 `yaml:"value"`
}

type fieldsConfig struct {
	GroupID        *uint16 `yaml:"group_id"`
	ChannelID      *uint16 `yaml:"channel_id"`
	Timestamp      *uint16 `yaml:"timestamp"`
	RawData        *uint16 `yaml:"raw_data"`
	Continuation   *uint16 `yaml:"continuation"`
	NumSamples     *uint16 `yaml:"num_samples"`
	HitType        *uint16 `yaml:"hit_type"`
	StopType       *uint16 `yaml:"stop_type"`
	BufferOverflow *uint16 `yaml:"buffer_overflow"`
	Epoch          *uint16 `yaml:"epoch"`
	InfoType       *uint16 `yaml:"info_type"`
	InfoChannel    *uint16 `yaml:"info_channel"`
	InfoEpoch      *uint16 `yaml:"info_epoch"`
}

type infoConfig struct {
	NOP       *uint8  `yaml:"nop"`
	OutOfSync *uint8  `yaml:"out_of_sync"`
	Aborted   []uint8 `yaml:"aborted"`
}

type protocolConfig struct {
	Words      []wordConfig `yaml:"words"`
	Fields     fieldsConfig `yaml:"fields"`
	Info       infoConfig   `yaml:"info"`
	SampleBits int          `yaml:"sample_bits"`
}

// LoadProtocol reads a protocol description from the named YAML file.
// See DecodeProtocol for the file format.
func LoadProtocol(fname string) (*Protocol, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("message: could not open protocol file: %w", err)
	}
	defer f.Close()

	p, err := DecodeProtocol(f)
	if err != nil {
		return nil, fmt.Errorf("message: could not load protocol %q: %w", fname, err)
	}
	return p, nil
}

// DecodeProtocol reads a YAML protocol description from r.
// Sections missing from the description take their SPADIC 1.0 value.
//
//	words:
//	  - {type: som, mask: 0xf000, value: 0x8000}
//	  - {type: tsw, mask: 0xf000, value: 0x9000}
//	  ...
//	fields:
//	  group_id: 0x0ff0
//	  ...
//	info:
//	  nop: 5
//	  out_of_sync: 6
//	  aborted: [0, 1, 3, 4]
//	sample_bits: 9
func DecodeProtocol(r io.Reader) (*Protocol, error) {
	var cfg protocolConfig
	err := yaml.NewDecoder(r).Decode(&cfg)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("message: could not decode protocol: %w", err)
	}

	p := SPADIC10()
	if len(cfg.Words) > 0 {
		p.Words = make([]Descriptor, len(cfg.Words))
		for i, w := range cfg.Words {
			t, err := ParseWordType(w.Type)
			if err != nil {
				return nil, fmt.Errorf("message: invalid word %d: %w", i, err)
			}
			p.Words[i] = Descriptor{Type: t, Mask: w.Mask, Value: w.Value}
		}
	}

	for _, f := range []struct {
		dst *Field
		src *uint16
	}{
		{&p.Fields.GroupID, cfg.Fields.GroupID},
		{&p.Fields.ChannelID, cfg.Fields.ChannelID},
		{&p.Fields.Timestamp, cfg.Fields.Timestamp},
		{&p.Fields.RawData, cfg.Fields.RawData},
		{&p.Fields.Continuation, cfg.Fields.Continuation},
		{&p.Fields.NumSamples, cfg.Fields.NumSamples},
		{&p.Fields.HitType, cfg.Fields.HitType},
		{&p.Fields.StopType, cfg.Fields.StopType},
		{&p.Fields.BufferOverflow, cfg.Fields.BufferOverflow},
		{&p.Fields.Epoch, cfg.Fields.Epoch},
		{&p.Fields.InfoType, cfg.Fields.InfoType},
		{&p.Fields.InfoChannel, cfg.Fields.InfoChannel},
		{&p.Fields.InfoEpoch, cfg.Fields.InfoEpoch},
	} {
		if f.src != nil {
			*f.dst = Field(*f.src)
		}
	}

	if cfg.Info.NOP != nil {
		p.Info.NOP = InfoType(*cfg.Info.NOP)
	}
	if cfg.Info.OutOfSync != nil {
		p.Info.OutOfSync = InfoType(*cfg.Info.OutOfSync)
	}
	if cfg.Info.Aborted != nil {
		p.Info.Aborted = make([]InfoType, len(cfg.Info.Aborted))
		for i, v := range cfg.Info.Aborted {
			p.Info.Aborted[i] = InfoType(v)
		}
	}

	if cfg.SampleBits != 0 {
		p.SampleBits = cfg.SampleBits
	}

	err = p.Validate()
	if err != nil {
		return nil, err
	}
	return p, nil
}
