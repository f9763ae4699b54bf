// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command spadic-srv starts a TDAQ server replaying the SPADIC hits of
// a timeslice archive.
//
// The protocol used to decode the archive is, by order of precedence:
// read from the -proto YAML file, retrieved from the -db conditions
// database, or the SPADIC 1.0 protocol.
package main // import "github.com/go-lpc/spadic/cmd/spadic-srv"

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-daq/tdaq"
	"github.com/go-daq/tdaq/flags"
	"github.com/go-lpc/spadic/conddb"
	"github.com/go-lpc/spadic/daq"
	"github.com/go-lpc/spadic/message"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	var (
		archive = flag.String("archive", "", "path to the timeslice archive to replay")
		proto   = flag.String("proto", "", "path to a YAML protocol description")
		dbname  = flag.String("db", "", "name of the conditions database holding the protocol")
		pname   = flag.String("protocol", "", "name of the protocol in the conditions database (default: last run's)")
		logf    = flag.String("log", "", "path to a rotated log file, in addition to stdout")
	)

	cmd := flags.New()

	p, err := loadProtocol(context.Background(), *proto, *dbname, *pname)
	if err != nil {
		log.Panicf("could not load protocol: %+v", err)
	}

	dev := daq.New(*archive, p)

	srv := tdaq.New(cmd, logWriter(*logf))
	srv.CmdHandle("/config", dev.OnConfig)
	srv.CmdHandle("/init", dev.OnInit)
	srv.CmdHandle("/reset", dev.OnReset)
	srv.CmdHandle("/start", dev.OnStart)
	srv.CmdHandle("/stop", dev.OnStop)
	srv.CmdHandle("/quit", dev.OnQuit)

	srv.OutputHandle("/hits", dev.Hits)

	srv.RunHandle(dev.Run)

	err = srv.Run(context.Background())
	if err != nil {
		log.Panicf("error: %+v", err)
	}
}

func logWriter(fname string) io.Writer {
	if fname == "" {
		return os.Stdout
	}
	return io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   fname,
		MaxSize:    25, // megabytes
		MaxAge:     7,  // days
		MaxBackups: 5,
		Compress:   true,
	})
}

func loadProtocol(ctx context.Context, fname, dbname, name string) (*message.Protocol, error) {
	switch {
	case fname != "":
		return message.LoadProtocol(fname)
	case dbname != "":
		db, err := conddb.Open(dbname)
		if err != nil {
			return nil, fmt.Errorf("could not open conditions db: %w", err)
		}
		defer db.Close()

		if name == "" {
			name, err = db.LastProtocol(ctx)
			if err != nil {
				return nil, fmt.Errorf("could not find protocol of last run: %w", err)
			}
		}
		return db.Protocol(ctx, name)
	default:
		return message.SPADIC10(), nil
	}
}
