// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package message

// Decoder folds SPADIC words into messages, following a Protocol.
type Decoder struct {
	p *Protocol
}

// NewDecoder returns a decoder for the given protocol.
// NewDecoder uses the SPADIC 1.0 protocol if p is nil.
func NewDecoder(p *Protocol) *Decoder {
	if p == nil {
		p = SPADIC10()
	}
	return &Decoder{p: p}
}

// Protocol returns the protocol used by the decoder.
func (dec *Decoder) Protocol() *Protocol { return dec.p }

// Read consumes words from buf and folds them into m, until either an
// end-of-message word was consumed or buf is exhausted.
// Read returns the number of consumed words, so buf[n:] can be passed to
// the next call, with the same message.
//
// Four cases are possible (( is a start, ) an end, | the end of buf):
//
//	a:  xxx(....)  complete message
//	b:  xxx(..|    missing end of message
//	c:  ........)  missing start of message
//	d:  ......|    missing start and end of message
//
// Read resets m if, and only if, it encounters a start-of-message word:
// cases b-d are handled by passing the same message to successive calls.
// Callers must check m.IsComplete after every call.
func (dec *Decoder) Read(m *Message, buf []uint16) int {
	for i, w := range buf {
		t, ok := dec.p.Classify(w)
		if !ok || (t == InfoWord && dec.p.isNOP(w)) {
			continue
		}
		if t == StartOfMessage {
			m.Reset()
		}
		dec.fill(m, t, w)
		if t == EndOfMessage {
			return i + 1
		}
	}
	return len(buf)
}

// Fill folds a single word into m.
// Unlike Read, Fill does not skip ignorable words.
func (dec *Decoder) Fill(m *Message, w uint16) {
	t, ok := dec.p.Classify(w)
	if !ok {
		return
	}
	if t == StartOfMessage {
		m.Reset()
	}
	dec.fill(m, t, w)
}

func (dec *Decoder) fill(m *Message, t WordType, w uint16) {
	f := &dec.p.Fields
	switch t {
	case StartOfMessage:
		m.group = uint8(f.GroupID.Get(w))
		m.channel = uint8(f.ChannelID.Get(w))
		m.valid |= FlagStart

	case TimestampWord:
		m.timestamp = f.Timestamp.Get(w)
		m.valid |= FlagTimestamp

	case RawData:
		m.appendBits(f.RawData.Get(w), f.RawData.Width())

	case ControlWord:
		if len(m.raw) == 0 {
			return
		}
		m.appendBits(f.Continuation.Get(w), f.Continuation.Width())

	case EndOfMessage:
		m.nsamples = uint8(f.NumSamples.Get(w))
		m.hit = HitType(f.HitType.Get(w))
		m.stop = StopType(f.StopType.Get(w))
		m.unpack(int(m.nsamples), dec.p.SampleBits)
		m.valid |= FlagEnd

	case BufferOverflowMarker:
		m.overflow = uint8(f.BufferOverflow.Get(w))
		m.valid |= FlagBufferOverflow

	case EpochMarker:
		m.epoch = f.Epoch.Get(w)
		m.valid |= FlagEpoch

	case ExtendedData:
		// no field.

	case InfoWord:
		m.info = InfoType(f.InfoType.Get(w))
		m.valid |= FlagInfo
		m.outOfSync = m.info == dec.p.Info.OutOfSync
		switch {
		case dec.p.Info.aborted(m.info):
			m.channel = uint8(f.InfoChannel.Get(w))
			m.valid |= FlagExtended
		case m.info == dec.p.Info.OutOfSync:
			m.epoch = f.InfoEpoch.Get(w)
		}
	}
}
