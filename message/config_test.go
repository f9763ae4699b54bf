// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package message

import (
	"reflect"
	"strings"
	"testing"
)

func TestLoadProtocol(t *testing.T) {
	got, err := LoadProtocol("testdata/fixture.yaml")
	if err != nil {
		t.Fatalf("could not load protocol: %+v", err)
	}

	want := testProtocol()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid protocol:\ngot= %+v\nwant=%+v", got, want)
	}
}

func TestLoadProtocolMissing(t *testing.T) {
	_, err := LoadProtocol("testdata/not-there.yaml")
	if err == nil {
		t.Fatalf("expected an error")
	}
}

func TestDecodeProtocol(t *testing.T) {
	for _, tc := range []struct {
		name string
		raw  string
		want func() *Protocol
		err  string
	}{
		{
			name: "empty",
			raw:  "",
			want: SPADIC10,
		},
		{
			name: "fields-and-info",
			raw: `
fields:
  group_id: 0x0f00
  channel_id: 0x00ff
info:
  nop: 7
  out_of_sync: 2
  aborted: [1]
sample_bits: 10
`,
			want: func() *Protocol {
				p := SPADIC10()
				p.Fields.GroupID = 0x0f00
				p.Fields.ChannelID = 0x00ff
				p.Info = InfoTypes{NOP: 7, OutOfSync: 2, Aborted: []InfoType{1}}
				p.SampleBits = 10
				return p
			},
		},
		{
			name: "unknown-word-type",
			raw: `
words:
  - {type: xyz, mask: 0xf000, value: 0x1000}
`,
			err: `message: invalid word 0: message: unknown word type "xyz"`,
		},
		{
			name: "incomplete-table",
			raw: `
words:
  - {type: som, mask: 0xf000, value: 0x1000}
`,
			err: "message: missing descriptor for timestamp",
		},
		{
			name: "invalid-yaml",
			raw:  "words: {",
			err:  "message: could not decode protocol",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeProtocol(strings.NewReader(tc.raw))
			switch {
			case err != nil && tc.err != "":
				if !strings.HasPrefix(err.Error(), tc.err) {
					t.Fatalf("invalid error:\ngot= %v\nwant=%v", err, tc.err)
				}
				return
			case err != nil:
				t.Fatalf("could not decode protocol: %+v", err)
			case tc.err != "":
				t.Fatalf("expected an error (%s)", tc.err)
			}

			if want := tc.want(); !reflect.DeepEqual(got, want) {
				t.Fatalf("invalid protocol:\ngot= %+v\nwant=%+v", got, want)
			}
		})
	}
}
