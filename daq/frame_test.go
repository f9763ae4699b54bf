// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package daq

import (
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/go-lpc/spadic/message"
	"github.com/go-lpc/spadic/timeslice"
)

func TestFrameCodec(t *testing.T) {
	for _, tc := range []struct {
		name  string
		frame Frame
	}{
		{
			name:  "empty",
			frame: Frame{Index: 1, Hits: []timeslice.Hit{}},
		},
		{
			name: "hits",
			frame: Frame{
				Index: 0xffffffffff,
				Hits: []timeslice.Hit{
					{
						Addr: 0x10, Group: 0x12, Channel: 0x3, Timestamp: 0x456,
						HitType:  message.HitSelfTriggered,
						StopType: message.StopType(5),
						Samples:  []int16{-256, -1, 0, 255},
					},
					{
						Addr: 0xffff, Group: 0xff, Channel: 0xf, Timestamp: 0xfff,
						Samples: []int16{},
					},
				},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := tc.frame.MarshalTDAQ()
			if err != nil {
				t.Fatalf("could not marshal frame: %+v", err)
			}

			var got Frame
			err = got.UnmarshalTDAQ(raw)
			if err != nil {
				t.Fatalf("could not unmarshal frame: %+v", err)
			}

			if !reflect.DeepEqual(got, tc.frame) {
				t.Fatalf("invalid round-trip:\ngot= %+v\nwant=%+v", got, tc.frame)
			}
		})
	}
}

func TestFrameTruncated(t *testing.T) {
	f := Frame{
		Index: 2,
		Hits: []timeslice.Hit{
			{Addr: 0x10, Samples: []int16{1, 2, 3}},
		},
	}
	raw, err := f.MarshalTDAQ()
	if err != nil {
		t.Fatalf("could not marshal frame: %+v", err)
	}

	// header: 8+4 bytes, hit: 10 bytes + 3 samples.
	if got, want := len(raw), 8+4+10+3*2; got != want {
		t.Fatalf("invalid frame size: got=%d, want=%d", got, want)
	}

	for n := 0; n < len(raw); n++ {
		var got Frame
		err := got.UnmarshalTDAQ(raw[:n])
		if err == nil {
			t.Fatalf("n=%d: expected an error", n)
		}
		if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Fatalf("n=%d: invalid error: %+v", n, err)
		}
	}
}
