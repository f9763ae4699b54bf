// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcnv

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/go-lpc/spadic/internal/tsa"
	"github.com/go-lpc/spadic/message"
	"github.com/go-lpc/spadic/timeslice"
	"go-hep.org/x/hep/lcio"
)

// Source is a stream of timeslices.
type Source interface {
	Decode(ts *tsa.Timeslice) error
}

// SPADIC2LCIO decodes all the timeslices of src with the given protocol
// and writes one LCIO event per timeslice to w.
func SPADIC2LCIO(w *lcio.Writer, src Source, p *message.Protocol, run int32, msg *log.Logger) error {
	var (
		dec = timeslice.NewDecoder(p)
		ts  tsa.Timeslice
	)

	err := w.WriteRunHeader(&lcio.RunHeader{
		RunNumber: run,
		Detector:  detector,
		Descr:     "",
		Params: lcio.Params{
			Ints: map[string][]int32{
				"SampleBits": {int32(dec.Protocol().SampleBits)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("could not write run header: %w", err)
	}

	for i := 0; ; i++ {
		if i%100 == 0 {
			msg.Printf("processing timeslice %d...", i)
		}
		err := src.Decode(&ts)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("could not decode timeslice: %w", err)
		}

		var (
			hits = lcio.TrackerRawDataContainer{Flags: lcio.BitsTRawID1}
			aux  lcio.GenericObject
		)
		err = dec.Decode(&ts, func(rec timeslice.Record) error {
			if h, ok := rec.Hit(); ok {
				hits.Data = append(hits.Data, rawDataFrom(h))
				return nil
			}
			aux.Data = append(aux.Data, auxFrom(&rec))
			return nil
		})
		if err != nil {
			return fmt.Errorf("could not decode messages of timeslice %d: %w", ts.Index, err)
		}

		evt := lcio.Event{
			RunNumber:   run,
			EventNumber: int32(ts.Index),
			TimeStamp:   int64(ts.Index),
			Detector:    detector,
		}
		evt.Add(hitsCollection, &hits)
		evt.Add(auxCollection, &aux)

		err = w.WriteEvent(&evt)
		if err != nil {
			return fmt.Errorf("could not write event for timeslice %d: %w", ts.Index, err)
		}
	}

	return nil
}
