// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package daq provides a TDAQ process replaying a SPADIC timeslice
// archive and publishing the decoded hits, one frame per timeslice.
package daq // import "github.com/go-lpc/spadic/daq"

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-daq/tdaq"
	"github.com/go-lpc/spadic/internal/tsa"
	"github.com/go-lpc/spadic/message"
	"github.com/go-lpc/spadic/timeslice"
)

// Server is the state of a SPADIC replay process.
//
// /config optionally carries the path to the archive to replay.
// /init opens the archive, /reset rewinds it.
// Once started, the run handler decodes timeslices and queues hit
// frames, served on the output end-point bound to Server.Hits.
type Server struct {
	fname string
	proto *message.Protocol

	f    *tsa.File
	dec  *timeslice.Decoder
	data chan []byte

	n    int // number of queued frames
	hits int // number of queued hits
}

// New returns a replay process for the named archive.
func New(fname string, p *message.Protocol) *Server {
	return &Server{
		fname: fname,
		proto: p,
		data:  make(chan []byte, 1024),
	}
}

func (srv *Server) OnConfig(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /config command...")
	if len(req.Body) == 0 {
		return nil
	}

	dec := tdaq.NewDecoder(bytes.NewReader(req.Body))
	fname := dec.ReadStr()
	if err := dec.Err(); err != nil {
		ctx.Msg.Errorf("could not decode /config request: %+v", err)
		return fmt.Errorf("could not decode /config request: %w", err)
	}
	if fname != "" {
		srv.fname = fname
	}
	ctx.Msg.Infof("archive: %q", srv.fname)
	return nil
}

func (srv *Server) OnInit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /init command...")
	return srv.open(ctx)
}

func (srv *Server) OnReset(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /reset command...")
	return srv.open(ctx)
}

func (srv *Server) OnStart(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /start command...")
	if srv.f == nil {
		return fmt.Errorf("no archive opened")
	}
	return nil
}

func (srv *Server) OnStop(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /stop command... -> frames=%d, hits=%d", srv.n, srv.hits)
	return nil
}

func (srv *Server) OnQuit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /quit command...")
	return srv.close()
}

func (srv *Server) open(ctx tdaq.Context) error {
	err := srv.close()
	if err != nil {
		ctx.Msg.Errorf("could not close archive: %+v", err)
		return fmt.Errorf("could not close archive: %w", err)
	}

	f, err := tsa.Open(srv.fname)
	if err != nil {
		ctx.Msg.Errorf("could not open archive %q: %+v", srv.fname, err)
		return fmt.Errorf("could not open archive %q: %w", srv.fname, err)
	}

	srv.f = f
	srv.dec = timeslice.NewDecoder(srv.proto)
	srv.drain()
	srv.n = 0
	srv.hits = 0
	return nil
}

// drain discards the frames queued by a previous run.
// The channel itself is shared with the output handler and never replaced.
func (srv *Server) drain() {
	for {
		select {
		case <-srv.data:
		default:
			return
		}
	}
}

func (srv *Server) close() error {
	if srv.f == nil {
		return nil
	}
	err := srv.f.Close()
	srv.f = nil
	return err
}

// Hits sends the next hit frame.
func (srv *Server) Hits(ctx tdaq.Context, dst *tdaq.Frame) error {
	select {
	case <-ctx.Ctx.Done():
		dst.Body = nil
		return nil
	case data := <-srv.data:
		dst.Body = data
	}
	return nil
}

// Run decodes the archive until it is exhausted or the run is stopped.
func (srv *Server) Run(ctx tdaq.Context) error {
	var ts tsa.Timeslice
	for {
		select {
		case <-ctx.Ctx.Done():
			return nil
		default:
		}

		err := srv.f.Decode(&ts)
		if err != nil {
			if errors.Is(err, io.EOF) {
				ctx.Msg.Infof("archive %q exhausted: frames=%d, hits=%d", srv.fname, srv.n, srv.hits)
				return nil
			}
			ctx.Msg.Errorf("could not read timeslice: %+v", err)
			return fmt.Errorf("could not read timeslice: %w", err)
		}

		frame := Frame{Index: ts.Index}
		err = srv.dec.Decode(&ts, func(rec timeslice.Record) error {
			if h, ok := rec.Hit(); ok {
				frame.Hits = append(frame.Hits, h)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("could not decode timeslice %d: %w", ts.Index, err)
		}

		raw, err := frame.MarshalTDAQ()
		if err != nil {
			return err
		}

		select {
		case <-ctx.Ctx.Done():
			return nil
		case srv.data <- raw:
			srv.n++
			srv.hits += len(frame.Hits)
		}
	}
}
