// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package message

// Reader extracts complete messages from a stream of word buffers.
//
// Reader keeps the partially assembled message between buffers, so a
// message split over two (or more) buffers is recovered once its last
// word has been added.
// A Reader must not be used concurrently.
type Reader struct {
	dec *Decoder
	msg Message
	buf []uint16
}

// NewReader returns a reader decoding words with the given protocol.
func NewReader(p *Protocol) *Reader {
	return &Reader{dec: NewDecoder(p)}
}

// Reset discards pending words and the partially assembled message.
func (r *Reader) Reset() {
	r.msg.Reset()
	r.buf = nil
}

// AddBuffer queues words for decoding.
// Words are not copied: buf must not be modified until it is depleted.
func (r *Reader) AddBuffer(buf []uint16) {
	if len(r.buf) == 0 {
		r.buf = buf
		return
	}
	r.buf = append(r.buf[:len(r.buf):len(r.buf)], buf...)
}

// Buffered returns the number of queued words not yet consumed.
func (r *Reader) Buffered() int { return len(r.buf) }

// Depleted returns whether all the queued words were consumed.
// Buffers passed to AddBuffer may be reused once the reader is depleted.
func (r *Reader) Depleted() bool { return len(r.buf) == 0 }

// Next returns the next complete message.
// Next returns false when the queued words are depleted; the partially
// assembled message, if any, is kept for the next buffer.
func (r *Reader) Next() (Message, bool) {
	for len(r.buf) > 0 {
		n := r.dec.Read(&r.msg, r.buf)
		r.buf = r.buf[n:]
		if r.msg.IsComplete() {
			msg := r.msg.Clone()
			r.msg.Reset()
			return msg, true
		}
	}
	r.buf = nil
	return Message{}, false
}

// Pending returns the message being assembled.
func (r *Reader) Pending() *Message { return &r.msg }
