// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package spadic holds code to decode the readout data of SPADIC chips.
//
// The word protocol and message assembly live in package message, the
// extraction of messages from timeslice containers in package timeslice.
package spadic // import "github.com/go-lpc/spadic"

import (
	"fmt"
	"runtime/debug"
)

// Version returns the version of spadic and its checksum.
// The returned values are only valid in binaries built with module support.
func Version() (version, sum string) {
	b, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	return versionOf(b)
}

func versionOf(b *debug.BuildInfo) (version, sum string) {
	if b == nil {
		return "", ""
	}

	const root = "github.com/go-lpc/spadic"
	if b.Main.Path == root {
		return b.Main.Version, b.Main.Sum
	}

	for _, m := range b.Deps {
		if m.Path != root {
			continue
		}
		if m.Replace == nil {
			return m.Version, m.Sum
		}
		switch r := m.Replace; {
		case r.Version != "" && r.Path != "":
			return fmt.Sprintf("%s %s", r.Path, r.Version), r.Sum
		case r.Version != "":
			return r.Version, r.Sum
		case r.Path != "":
			return r.Path, r.Sum
		default:
			return m.Version + "*", ""
		}
	}
	return "", ""
}
