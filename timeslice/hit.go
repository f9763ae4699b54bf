// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package timeslice

import "github.com/go-lpc/spadic/message"

// Hit is the flattened content of a hit record.
type Hit struct {
	Addr      uint16 // CBMnet source address
	Group     uint8
	Channel   uint8
	Timestamp uint16
	HitType   message.HitType
	StopType  message.StopType
	Samples   []int16
}

// Hit returns the hit held by the record, if any.
func (rec *Record) Hit() (Hit, bool) {
	if !rec.Msg.IsHit() {
		return Hit{}, false
	}
	return Hit{
		Addr:      rec.Addr,
		Group:     rec.Msg.GroupID(),
		Channel:   rec.Msg.ChannelID(),
		Timestamp: rec.Msg.Timestamp(),
		HitType:   rec.Msg.HitType(),
		StopType:  rec.Msg.StopType(),
		Samples:   append([]int16(nil), rec.Msg.Samples()...),
	}, true
}
