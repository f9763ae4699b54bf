// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fakedb provides an in-memory database/sql driver, named
// "fakedb", serving canned rows.
package fakedb // import "github.com/go-lpc/spadic/internal/fakedb"

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"sync"
)

// Query is a query received by the driver.
type Query struct {
	SQL  string
	Args []driver.Value
}

var errNoTx = errors.New("fakedb: transactions not supported")

var state struct {
	mu      sync.Mutex
	rows    []Rows
	queries []Query
}

// Run runs f while the driver serves the given result sets, one per
// query, in order. Queries past the last result set return no row.
// Run returns the queries received while running f, and the error of f.
func Run(ctx context.Context, f func(ctx context.Context) error, rows ...Rows) ([]Query, error) {
	state.mu.Lock()
	defer state.mu.Unlock()

	state.rows = rows
	state.queries = nil
	defer func() {
		state.rows = nil
		state.queries = nil
	}()

	err := f(ctx)
	return append([]Query(nil), state.queries...), err
}

// serve records a query and pops the next result set.
// The caller must hold state.mu, which is the case within Run.
func serve(q string, args []driver.Value) *Rows {
	state.queries = append(state.queries, Query{SQL: q, Args: args})
	if len(state.rows) == 0 {
		return &Rows{}
	}
	rows := state.rows[0]
	state.rows = state.rows[1:]
	return &rows
}

func init() {
	sql.Register("fakedb", &Driver{})
}

type Driver struct{}

// Open returns a new connection to the fake database.
func (drv *Driver) Open(name string) (driver.Conn, error) {
	return &Conn{}, nil
}

type Conn struct{}

func (c *Conn) Prepare(query string) (driver.Stmt, error) {
	return &Stmt{query: query}, nil
}

func (c *Conn) Close() error { return nil }

func (c *Conn) Begin() (driver.Tx, error) {
	return nil, errNoTx
}

type Stmt struct {
	query string
}

func (stmt *Stmt) Close() error  { return nil }
func (stmt *Stmt) NumInput() int { return -1 }

func (stmt *Stmt) Exec(args []driver.Value) (driver.Result, error) {
	serve(stmt.query, args)
	return driver.RowsAffected(0), nil
}

func (stmt *Stmt) Query(args []driver.Value) (driver.Rows, error) {
	return serve(stmt.query, args), nil
}

func (stmt *Stmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vs := make([]driver.Value, len(args))
	for i, arg := range args {
		vs[i] = arg.Value
	}
	return stmt.Query(vs)
}

// Rows is a canned result set.
type Rows struct {
	Names  []string
	Values [][]driver.Value
}

func (rows *Rows) Columns() []string { return rows.Names }
func (rows *Rows) Close() error      { return nil }

// Next copies the next row into dest.
func (rows *Rows) Next(dest []driver.Value) error {
	if len(rows.Values) == 0 {
		return io.EOF
	}
	copy(dest, rows.Values[0])
	rows.Values = rows.Values[1:]
	return nil
}

var (
	_ driver.Driver           = (*Driver)(nil)
	_ driver.Conn             = (*Conn)(nil)
	_ driver.Stmt             = (*Stmt)(nil)
	_ driver.StmtQueryContext = (*Stmt)(nil)
	_ driver.Rows             = (*Rows)(nil)
)
