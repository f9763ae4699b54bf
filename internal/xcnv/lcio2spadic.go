// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcnv

import (
	"fmt"

	"github.com/go-lpc/spadic/timeslice"
	"go-hep.org/x/hep/lcio"
)

// LCIO2Hits reads back the hits of each event of r and calls fn with
// the event number and its hits.
func LCIO2Hits(r *lcio.Reader, fn func(evt int32, hits []timeslice.Hit) error) error {
	for r.Next() {
		evt := r.Event()
		raw, ok := evt.Get(hitsCollection).(*lcio.TrackerRawDataContainer)
		if !ok {
			return fmt.Errorf(
				"event %d: invalid %s collection type %T",
				evt.EventNumber, hitsCollection, evt.Get(hitsCollection),
			)
		}
		hits := make([]timeslice.Hit, len(raw.Data))
		for i, v := range raw.Data {
			hits[i] = hitFrom(v)
		}
		err := fn(evt.EventNumber, hits)
		if err != nil {
			return err
		}
	}

	err := r.Err()
	if err != nil {
		return fmt.Errorf("could not read LCIO events: %w", err)
	}
	return nil
}
