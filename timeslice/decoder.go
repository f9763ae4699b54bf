// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package timeslice

import (
	"context"
	"fmt"
	"runtime"

	"github.com/go-lpc/spadic/message"
	"golang.org/x/sync/errgroup"
)

// Record is a complete message, together with its origin.
type Record struct {
	Component  int
	Microslice int
	Addr       uint16 // CBMnet source address
	Msg        message.Message
}

// Decoder decodes the messages held in timeslices.
//
// Each (component, source address) pair is an independent word stream,
// decoded by its own message.Reader: a message split over several DTMs
// of the same stream, or over consecutive timeslices, is recovered.
type Decoder struct {
	p       *message.Protocol
	streams []map[uint16]*message.Reader // per component
}

// NewDecoder returns a timeslice decoder using the given protocol.
// NewDecoder uses the SPADIC 1.0 protocol if p is nil.
func NewDecoder(p *message.Protocol) *Decoder {
	if p == nil {
		p = message.SPADIC10()
	}
	return &Decoder{p: p}
}

// Protocol returns the protocol used by the decoder.
func (dec *Decoder) Protocol() *message.Protocol { return dec.p }

// Reset discards all partially decoded messages.
func (dec *Decoder) Reset() {
	dec.streams = dec.streams[:0]
}

// Decode calls fn with every complete message of ts, in component,
// microslice and DTM order.
// Decode stops at the first error returned by fn.
func (dec *Decoder) Decode(ts Timeslice, fn func(rec Record) error) error {
	dec.grow(ts.NumComponents())
	for c := 0; c < ts.NumComponents(); c++ {
		err := dec.decode(ts, c, fn)
		if err != nil {
			return err
		}
	}
	return nil
}

// DecodeParallel is like Decode, but components are decoded concurrently.
// Records are still handed to fn in component order, from the calling
// goroutine, once all components have been decoded.
func (dec *Decoder) DecodeParallel(ctx context.Context, ts Timeslice, fn func(rec Record) error) error {
	n := ts.NumComponents()
	dec.grow(n)

	var (
		recs      = make([][]Record, n)
		grp, gctx = errgroup.WithContext(ctx)
	)
	grp.SetLimit(runtime.NumCPU())
	for c := 0; c < n; c++ {
		c := c
		grp.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			return dec.decode(ts, c, func(rec Record) error {
				recs[c] = append(recs[c], rec)
				return nil
			})
		})
	}
	err := grp.Wait()
	if err != nil {
		return fmt.Errorf("timeslice: could not decode components: %w", err)
	}

	for _, rs := range recs {
		for _, rec := range rs {
			err := fn(rec)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (dec *Decoder) grow(n int) {
	for len(dec.streams) < n {
		dec.streams = append(dec.streams, make(map[uint16]*message.Reader))
	}
}

func (dec *Decoder) decode(ts Timeslice, c int, fn func(rec Record) error) error {
	streams := dec.streams[c]
	return walkComponent(ts, c, func(c, m int, dtm DTM) error {
		addr := dtm.Addr()
		r, ok := streams[addr]
		if !ok {
			r = message.NewReader(dec.p)
			streams[addr] = r
		}
		r.AddBuffer(dtm.Payload())
		for {
			msg, ok := r.Next()
			if !ok {
				return nil
			}
			err := fn(Record{Component: c, Microslice: m, Addr: addr, Msg: msg})
			if err != nil {
				return err
			}
		}
	})
}
