// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command spadic-sh is an interactive shell to classify and decode
// SPADIC protocol words.
//
// Example:
//
//	$> spadic-sh
//	spadic> classify 8123 9456 f500
//	0x8123: som (start-of-message)
//	0x9456: tsw (timestamp)
//	0xf500: inf (info) [ignorable]
//	spadic> decode 8123 9456 aff8
//	spadic> pending
//	incomplete flags=0x03
//	spadic> decode b050
//	hit group=18 channel=3 ts=1110 hit="self triggered" stop="normal end of message" samples=[-1]
//	spadic> quit
package main // import "github.com/go-lpc/spadic/cmd/spadic-sh"

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-lpc/spadic/message"
	"github.com/peterh/liner"
)

func main() {
	log.SetPrefix("spadic-sh: ")
	log.SetFlags(0)

	var (
		proto = flag.String("proto", "", "path to a YAML protocol description (default: SPADIC 1.0)")
		hist  = flag.String("history", filepath.Join(os.TempDir(), ".spadic-sh.history"), "path to the shell history file")
	)

	flag.Parse()

	var p *message.Protocol
	if *proto != "" {
		var err error
		p, err = message.LoadProtocol(*proto)
		if err != nil {
			log.Fatalf("could not load protocol: %+v", err)
		}
	}

	err := run(newShell(os.Stdout, p), *hist)
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(sh *shell, hist string) error {
	term := liner.NewLiner()
	defer term.Close()

	term.SetCtrlCAborts(true)
	term.SetCompleter(sh.complete)

	if f, err := os.Open(hist); err == nil {
		_, _ = term.ReadHistory(f)
		f.Close()
	}
	defer func() {
		f, err := os.Create(hist)
		if err != nil {
			log.Printf("could not save history: %+v", err)
			return
		}
		defer f.Close()
		_, _ = term.WriteHistory(f)
	}()

	for {
		line, err := term.Prompt("spadic> ")
		switch {
		case err == nil:
		case errors.Is(err, io.EOF), errors.Is(err, liner.ErrPromptAborted):
			return nil
		default:
			return fmt.Errorf("could not read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		term.AppendHistory(line)

		err = sh.exec(line)
		switch {
		case err == nil:
		case errors.Is(err, errQuit):
			return nil
		default:
			fmt.Fprintf(sh.w, "error: %+v\n", err)
		}
	}
}

var errQuit = errors.New("quit")

var cmds = []string{"classify", "decode", "help", "pending", "quit", "reset"}

const help = `commands:
 classify W...  display the type of each hexadecimal word
 decode W...    feed words to the message reader and display complete messages
 pending        display the message being assembled
 reset          discard the message being assembled
 help           display this help
 quit           leave the shell
`

type shell struct {
	w io.Writer
	p *message.Protocol
	r *message.Reader
}

func newShell(w io.Writer, p *message.Protocol) *shell {
	if p == nil {
		p = message.SPADIC10()
	}
	return &shell{w: w, p: p, r: message.NewReader(p)}
}

func (sh *shell) complete(line string) []string {
	var out []string
	for _, c := range cmds {
		if strings.HasPrefix(c, line) {
			out = append(out, c)
		}
	}
	return out
}

func (sh *shell) exec(line string) error {
	toks := strings.Fields(line)
	if len(toks) == 0 {
		return nil
	}

	switch cmd, args := toks[0], toks[1:]; cmd {
	case "classify":
		ws, err := parseWords(args)
		if err != nil {
			return err
		}
		for _, w := range ws {
			t, ok := sh.p.Classify(w)
			switch {
			case !ok:
				fmt.Fprintf(sh.w, "0x%04x: unknown\n", w)
			case sh.p.IsIgnorable(w):
				fmt.Fprintf(sh.w, "0x%04x: %s (%v) [ignorable]\n", w, t.Mnemonic(), t)
			default:
				fmt.Fprintf(sh.w, "0x%04x: %s (%v)\n", w, t.Mnemonic(), t)
			}
		}

	case "decode":
		ws, err := parseWords(args)
		if err != nil {
			return err
		}
		sh.r.AddBuffer(ws)
		for {
			msg, ok := sh.r.Next()
			if !ok {
				break
			}
			fmt.Fprintf(sh.w, "%v\n", &msg)
		}

	case "pending":
		fmt.Fprintf(sh.w, "%v\n", sh.r.Pending())

	case "reset":
		sh.r.Reset()

	case "help":
		fmt.Fprint(sh.w, help)

	case "quit", "exit":
		return errQuit

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func parseWords(args []string) ([]uint16, error) {
	ws := make([]uint16, 0, len(args))
	for _, arg := range args {
		v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(arg), "0x"), 16, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid word %q: %w", arg, err)
		}
		ws = append(ws, uint16(v))
	}
	return ws, nil
}
