// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package conddb

import (
	"context"
	"fmt"

	"github.com/go-lpc/spadic/message"
)

// Word is a row of the spadic_words table.
type Word struct {
	Priority int32  `json:"priority"`
	Type     string `json:"wtype"` // word type mnemonic (som, tsw, ...)
	Mask     uint16 `json:"mask"`
	Value    uint16 `json:"value"`
}

// Descriptor converts the row to a word descriptor.
func (w Word) Descriptor() (message.Descriptor, error) {
	t, err := message.ParseWordType(w.Type)
	if err != nil {
		return message.Descriptor{}, err
	}
	return message.Descriptor{Type: t, Mask: w.Mask, Value: w.Value}, nil
}

// Words returns the word table of the named protocol, in priority order.
func (db *DB) Words(ctx context.Context, protocol string) ([]Word, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var words []Word
	rows, err := db.db.QueryContext(
		ctx,
		`
SELECT priority, wtype, mask, value FROM spadic_words
WHERE protocol=?
ORDER BY priority
`,
		protocol,
	)
	if err != nil {
		return nil, fmt.Errorf("conddb: could not run word table query: %w", err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		var w Word
		err = rows.Scan(&w.Priority, &w.Type, &w.Mask, &w.Value)
		if err != nil {
			return words, fmt.Errorf("conddb: could not scan row %d of word table: %w", i, err)
		}
		i++
		words = append(words, w)
	}

	if err := rows.Err(); err != nil {
		return words, fmt.Errorf("conddb: could not scan db for word table: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return words, fmt.Errorf("conddb: context error while retrieving word table: %w", err)
	}

	return words, nil
}

// Protocol builds the named protocol from its word table.
// Field layout and info subtypes are the SPADIC 1.0 ones.
func (db *DB) Protocol(ctx context.Context, name string) (*message.Protocol, error) {
	words, err := db.Words(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("conddb: no word table for protocol %q", name)
	}

	p := message.SPADIC10()
	p.Words = make([]message.Descriptor, len(words))
	for i, w := range words {
		p.Words[i], err = w.Descriptor()
		if err != nil {
			return nil, fmt.Errorf("conddb: protocol %q: %w", name, err)
		}
	}

	err = p.Validate()
	if err != nil {
		return nil, fmt.Errorf("conddb: invalid protocol %q: %w", name, err)
	}
	return p, nil
}
