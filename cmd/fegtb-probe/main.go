// fegtb-probe looks up the tablebase score (and optionally a best line)
// for a FEN position, loading .fdtm files from a directory on demand.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/seekerror/build"
	"github.com/seekerror/logw"

	"github.com/felicity-egtb/felicity/pkg/capability"
	"github.com/felicity-egtb/felicity/pkg/chess/capboard"
	"github.com/felicity-egtb/felicity/pkg/egtb/codec"
	"github.com/felicity-egtb/felicity/pkg/egtb/ferr"
	"github.com/felicity-egtb/felicity/pkg/egtb/material"
	"github.com/felicity-egtb/felicity/pkg/egtb/probe"
	"github.com/felicity-egtb/felicity/pkg/egtb/score"
	"github.com/felicity-egtb/felicity/pkg/egtb/tbfile"
	xqcapboard "github.com/felicity-egtb/felicity/pkg/xiangqi/capboard"
)

var version = build.NewVersion(0, 1, 0)

var (
	variant = flag.String("variant", "chess", "Game variant: chess or xiangqi")
	fenStr  = flag.String("fen", "", "Position to probe, in the variant's native FEN")
	dir     = flag.String("dir", ".", "Directory to search for <material>.fdtm files")
	mode    = flag.String("mode", "smart", "Load mode: tiny, all, or smart")
	line    = flag.Bool("line", false, "Also print a best line to mate/draw/repetition")
	repl    = flag.Bool("repl", false, "Run an interactive read-probe-print loop instead of a single -fen lookup")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: fegtb-probe -fen "..." [options]

FEGTB-PROBE looks up a tablebase score for a position.
Exit codes: 0 success, 2 no data for the queried material.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()
	logw.Infof(ctx, "fegtb-probe %v", version)

	v, err := parseVariant(*variant)
	if err != nil {
		logw.Exitf(ctx, "%v", err)
	}

	lm, err := parseMode(*mode)
	if err != nil {
		logw.Exitf(ctx, "%v", err)
	}

	if *repl {
		store := probe.NewStore(lm)
		newReplDriver(v, store, codec.Codec{}, *dir, *line).run(ctx)
		return
	}

	if *fenStr == "" {
		flag.Usage()
		logw.Exitf(ctx, "-fen is required")
	}

	board := newBoardFor(v)
	if err := board.NewGame(*fenStr); err != nil {
		logw.Exitf(ctx, "invalid fen: %v", err)
	}

	sig := material.OfBoard(board)
	store := probe.NewStore(lm)
	if err := loadFile(store, sig, *dir); err != nil {
		logw.Exitf(ctx, "load %s: %v", sig.Name(), err)
	}

	c := codec.Codec{}
	s, err := probe.Probe(ctx, board, store, c)
	if err != nil {
		logw.Exitf(ctx, "probe: %v", err)
	}

	fmt.Printf("material=%s score=%v\n", sig.Name(), s)
	if s == score.Missing {
		os.Exit(2)
	}

	if *line {
		result, moves, err := probe.BestLine(ctx, board, store, c)
		if err != nil {
			logw.Exitf(ctx, "best line: %v", err)
		}
		fmt.Printf("result=%v\n", result)
		for i, m := range moves {
			fmt.Printf("%d. %v-%v\n", i+1, m.From, m.To)
		}
	}
}

// loadFile loads sig's own .fdtm from dir, if present. Sub-tablebase files
// for materials reachable by a capture or promotion are not loaded. Missing
// files are not an error here: probe.Probe degrades a missing material to
// score.Missing rather than failing, per §7.
func loadFile(store *probe.Store, sig material.Signature, dir string) error {
	path := filepath.Join(dir, sig.Name()+".fdtm")
	fh, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return ferr.Wrap(ferr.MaterialNotLoaded, err, "open %s", path)
	}
	defer fh.Close()

	f, err := tbfile.ReadFile(fh, sig.Hash())
	if err != nil {
		return err
	}
	store.Register(sig, f)
	return nil
}

func parseVariant(s string) (capability.Variant, error) {
	switch strings.ToLower(s) {
	case "chess":
		return capability.Chess, nil
	case "xiangqi":
		return capability.Xiangqi, nil
	default:
		return 0, fmt.Errorf("unknown variant %q (want chess or xiangqi)", s)
	}
}

func parseMode(s string) (tbfile.LoadMode, error) {
	switch strings.ToLower(s) {
	case "tiny":
		return tbfile.Tiny, nil
	case "all":
		return tbfile.All, nil
	case "smart":
		return tbfile.Smart, nil
	default:
		return 0, fmt.Errorf("unknown load mode %q (want tiny, all, or smart)", s)
	}
}

func newBoardFor(v capability.Variant) capability.Board {
	if v == capability.Xiangqi {
		return xqcapboard.New()
	}
	return capboard.New()
}
