// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package conddb gives access to the SPADIC conditions database, where
// the protocol word tables and the protocol used by each run are stored.
package conddb // import "github.com/go-lpc/spadic/conddb"

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/go-sql-driver/mysql"
)

var (
	host = envOr("SPADIC_DB_HOST", "localhost")
	usr  = envOr("SPADIC_DB_USER", "spadic")
	pwd  = os.Getenv("SPADIC_DB_PASS")

	drvName = "mysql"
	timeout = 5 * time.Second
)

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// DB exposes convenience methods to retrieve conditions data from the
// SPADIC database.
type DB struct {
	db   *sql.DB
	name string // name of the SPADIC database
}

// Open opens a connection to the SPADIC database dbname.
//
// The server address and credentials are taken from the SPADIC_DB_HOST,
// SPADIC_DB_USER and SPADIC_DB_PASS environment variables.
func Open(dbname string) (*DB, error) {
	db, err := sql.Open(drvName, dsn(dbname))
	if err != nil {
		return nil, fmt.Errorf("conddb: could not open %q db: %w", dbname, err)
	}

	err = ping(db, dbname)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DB{db: db, name: dbname}, nil
}

func dsn(dbname string) string {
	cfg := mysql.NewConfig()
	cfg.User = usr
	cfg.Passwd = pwd
	cfg.Net = "tcp"
	cfg.Addr = host
	cfg.DBName = dbname
	cfg.Timeout = timeout
	return cfg.FormatDSN()
}

func ping(db *sql.DB, dbname string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("conddb: could not ping %q db: %w", dbname, err)
	}

	return nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// LastProtocol returns the name of the protocol used by the last run.
func (db *DB) LastProtocol(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	name := ""
	rows, err := db.db.QueryContext(
		ctx,
		"SELECT protocol FROM runs ORDER BY datetime DESC LIMIT 1",
	)
	if err != nil {
		return name, fmt.Errorf("conddb: could not query last protocol: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		err = rows.Scan(&name)
		if err != nil {
			return name, fmt.Errorf("conddb: could not get last protocol value: %w", err)
		}
	}

	if err := rows.Err(); err != nil {
		return name, fmt.Errorf("conddb: could not scan db for last protocol: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return name, fmt.Errorf("conddb: context error while retrieving last protocol: %w", err)
	}

	if name == "" {
		return name, fmt.Errorf("conddb: no run in %q db", db.name)
	}

	return name, nil
}

// Protocols returns the names of the protocols described in the database.
func (db *DB) Protocols(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var names []string
	rows, err := db.db.QueryContext(
		ctx,
		"SELECT DISTINCT protocol FROM spadic_words ORDER BY protocol",
	)
	if err != nil {
		return nil, fmt.Errorf("conddb: could not query protocols: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		err = rows.Scan(&name)
		if err != nil {
			return names, fmt.Errorf("conddb: could not scan protocol name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return names, fmt.Errorf("conddb: could not scan db for protocols: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return names, fmt.Errorf("conddb: context error while retrieving protocols: %w", err)
	}

	return names, nil
}
