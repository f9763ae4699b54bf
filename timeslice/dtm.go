// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package timeslice

import "fmt"

// MaxDTMPayload is the maximum number of payload words of a DTM.
const MaxDTMPayload = 0xff

// DTM is a data transport message.
// Data holds the CBMnet source address word, followed by the payload
// words. Data borrows the words of the microslice it was extracted from.
type DTM struct {
	Data []uint16
}

// Addr returns the CBMnet source address of the DTM.
func (dtm DTM) Addr() uint16 { return dtm.Data[0] }

// Payload returns the words following the source address.
func (dtm DTM) Payload() []uint16 { return dtm.Data[1:] }

// DTMScanner extracts DTMs from the words of a microslice.
//
// Each record starts with a header word whose low byte holds n-1, n being
// the number of words following the header. Records with n > 1 are
// yielded; a record extending past the end of the words is clipped.
// The next record starts at the multiple of 4 words strictly after the
// last word of the record: a record ending on a 4-word boundary is
// followed by 4 padding words.
type DTMScanner struct {
	ws  []uint16
	pos int
	dtm DTM
}

// NewDTMScanner returns a scanner over the given microslice words.
func NewDTMScanner(ws []uint16) *DTMScanner {
	return &DTMScanner{ws: ws}
}

// Next advances the scanner to the next DTM.
// Next returns false when the words are exhausted.
func (sc *DTMScanner) Next() bool {
	for sc.pos < len(sc.ws) {
		var (
			beg = sc.pos + 1
			n   = int(sc.ws[sc.pos]&0xff) + 1
			cur = beg
			ok  = false
		)
		if n > 1 {
			end := beg + n
			if end > len(sc.ws) {
				end = len(sc.ws)
			}
			if end > beg {
				sc.dtm = DTM{Data: sc.ws[beg:end:end]}
				ok = true
			}
			cur += n
		}
		sc.pos = skipPadding(cur)
		if ok {
			return true
		}
	}
	return false
}

// DTM returns the DTM found by the last call to Next.
func (sc *DTMScanner) DTM() DTM { return sc.dtm }

// skipPadding returns the start of the record following the one ending
// before word i.
func skipPadding(i int) int { return i&^3 + 4 }

// ExtractDTMs returns all the DTMs held in ws.
func ExtractDTMs(ws []uint16) []DTM {
	var (
		dtms []DTM
		sc   = NewDTMScanner(ws)
	)
	for sc.Next() {
		dtms = append(dtms, sc.DTM())
	}
	return dtms
}

// AppendDTM appends to dst a DTM record made of the header word, the
// source address and the payload, followed by 1 to 4 zero padding words
// up to the next multiple of 4 words.
// The length of dst must be a multiple of 4.
// A record with an empty payload is padding: it is never yielded back.
// AppendDTM panics if payload holds more than MaxDTMPayload words.
func AppendDTM(dst []uint16, addr uint16, payload []uint16) []uint16 {
	if len(payload) > MaxDTMPayload {
		panic(fmt.Errorf("timeslice: DTM payload too large (%d words)", len(payload)))
	}
	end := skipPadding(len(dst) + 2 + len(payload))
	dst = append(dst, uint16(len(payload)), addr)
	dst = append(dst, payload...)
	for len(dst) < end {
		dst = append(dst, 0)
	}
	return dst
}
