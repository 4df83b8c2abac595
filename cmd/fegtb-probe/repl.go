package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"

	"github.com/felicity-egtb/felicity/pkg/capability"
	"github.com/felicity-egtb/felicity/pkg/egtb/codec"
	"github.com/felicity-egtb/felicity/pkg/egtb/material"
	"github.com/felicity-egtb/felicity/pkg/egtb/probe"
	"github.com/felicity-egtb/felicity/pkg/egtb/score"
)

// replDriver runs an interactive read-probe-print loop: each line is a FEN
// in the active variant, probed against store and reported the same way a
// single -fen invocation would be. "quit"/"exit" and SIGINT/SIGTERM close
// the driver the same way, via the shared AsyncCloser, rather than each
// taking its own exit path.
type replDriver struct {
	iox.AsyncCloser

	variant capability.Variant
	store   *probe.Store
	codec   codec.Codec
	dir     string
	line    bool
}

func newReplDriver(variant capability.Variant, store *probe.Store, c codec.Codec, dir string, line bool) *replDriver {
	return &replDriver{AsyncCloser: iox.NewAsyncCloser(), variant: variant, store: store, codec: c, dir: dir, line: line}
}

// run drives the loop until stdin closes, "quit" is entered, or ctx/signals
// request a shutdown. Unlike the single-shot CLI path, a failed probe on one
// line does not exit the process — it is reported and the loop continues.
func (d *replDriver) run(ctx context.Context) {
	defer d.Close()

	runCtx, cancel := contextx.WithQuitCancel(ctx, d.Closed())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)
	go func() {
		select {
		case <-sig:
			logw.Infof(ctx, "fegtb-probe: signal received, shutting down")
			d.Close()
		case <-d.Closed():
		}
	}()

	in := make(chan string)
	go func() {
		defer close(in)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			in <- scanner.Text()
		}
	}()

	fmt.Println("fegtb-probe REPL: enter a FEN, or 'quit' to exit")
	for {
		select {
		case text, ok := <-in:
			if !ok {
				return
			}
			text = strings.TrimSpace(text)
			switch text {
			case "":
				continue
			case "quit", "exit", "q":
				return
			}
			d.evalOne(runCtx, text)

		case <-d.Closed():
			return
		}
	}
}

func (d *replDriver) evalOne(ctx context.Context, fenStr string) {
	board := newBoardFor(d.variant)
	if err := board.NewGame(fenStr); err != nil {
		fmt.Printf("invalid fen: %v\n", err)
		return
	}

	sig := material.OfBoard(board)
	if err := loadFile(d.store, sig, d.dir); err != nil {
		fmt.Printf("load %s: %v\n", sig.Name(), err)
		return
	}

	s, err := probe.Probe(ctx, board, d.store, d.codec)
	if err != nil {
		fmt.Printf("probe: %v\n", err)
		return
	}
	fmt.Printf("material=%s score=%v\n", sig.Name(), s)
	if s == score.Missing || !d.line {
		return
	}

	result, moves, err := probe.BestLine(ctx, board, d.store, d.codec)
	if err != nil {
		fmt.Printf("best line: %v\n", err)
		return
	}
	fmt.Printf("result=%v\n", result)
	for i, m := range moves {
		fmt.Printf("%d. %v-%v\n", i+1, m.From, m.To)
	}
}
