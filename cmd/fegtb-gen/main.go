// fegtb-gen builds retrograde tablebase files for one or more material
// signatures, smallest material first, writing one .fdtm per material.
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
	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/felicity-egtb/felicity/pkg/capability"
	bld "github.com/felicity-egtb/felicity/pkg/egtb/build"
	"github.com/felicity-egtb/felicity/pkg/egtb/codec"
	"github.com/felicity-egtb/felicity/pkg/egtb/generator"
	"github.com/felicity-egtb/felicity/pkg/egtb/material"
	"github.com/felicity-egtb/felicity/pkg/egtb/score"
	"github.com/felicity-egtb/felicity/pkg/egtb/tbfile"
	"github.com/felicity-egtb/felicity/pkg/chess/capboard"
	xqcapboard "github.com/felicity-egtb/felicity/pkg/xiangqi/capboard"
	"github.com/felicity-egtb/felicity/pkg/xiangqi/chase"
)

var version = build.NewVersion(0, 1, 0)

var (
	variant   = flag.String("variant", "chess", "Game variant: chess or xiangqi")
	materials = flag.String("material", "", "Comma-separated canonical material names to build, e.g. kqk,krk")
	out       = flag.String("out", ".", "Output directory for .fdtm files")
	workers   = flag.Int("workers", 0, "Worker goroutines per pass (0 = one per CPU)")
	twoBytes  = flag.Bool("two-bytes", false, "Use 2-byte cells (deeper DTM range)")
	rule120   = flag.Bool("rule120", true, "Clamp mate distances beyond the draw limit to draw")
	drawLimit = flag.Int("draw-limit", 120, "Ply distance rule120 clamps at")
	deadline  = flag.Duration("deadline", 0, "Wall-clock budget per material's propagation pass (0 = unbounded)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: fegtb-gen -material kqk,krk [options]

FEGTB-GEN builds retrograde endgame tablebase files.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()
	logw.Infof(ctx, "fegtb-gen %v", version)

	v, err := parseVariant(*variant)
	if err != nil {
		logw.Exitf(ctx, "%v", err)
	}
	if *materials == "" {
		flag.Usage()
		logw.Exitf(ctx, "-material is required")
	}

	var sigs []material.Signature
	for _, name := range strings.Split(*materials, ",") {
		sig, err := material.Parse(v, strings.TrimSpace(name))
		if err != nil {
			logw.Exitf(ctx, "invalid material %q: %v", name, err)
		}
		sigs = append(sigs, sig)
	}
	sigs = generator.TopologicalOrder(sigs)

	cfg := generator.DefaultConfig()
	if *workers > 0 {
		cfg.Workers = *workers
	}
	cfg.Rule120 = *rule120
	cfg.DrawLimit = *drawLimit
	if *deadline > 0 {
		cfg.Deadline = lang.Some(*deadline)
	}

	newBoard := func() capability.Board { return newBoardFor(v) }
	scorer := bld.Scorer{Codec: codec.Codec{}}
	sub := generator.NewSubTableSet()

	if err := os.MkdirAll(*out, 0o755); err != nil {
		logw.Exitf(ctx, "create output directory: %v", err)
	}

	for _, sig := range sigs {
		if err := buildOne(ctx, cfg, newBoard, scorer, sub, sig); err != nil {
			logw.Exitf(ctx, "build %s: %v", sig.Name(), err)
		}
	}
	logw.Infof(ctx, "fegtb-gen: built %d material(s)", len(sigs))
}

func buildOne(ctx context.Context, cfg generator.Config, newBoard func() capability.Board, scorer bld.Scorer, sub *generator.SubTableSet, sig material.Signature) error {
	// Every capture or (chess) promotion lands on another material;
	// building in topological order means any such sub-table this material
	// needs is already registered, provided it is among the materials being
	// built. There is no exception for a bare-king remainder: a move that
	// reaches a material with no built table makes Propagate fail with a
	// missing-sub-table error.
	space := codec.BuildSpace(sig)
	t := generator.NewTable(sig, space)

	board := newBoard()
	generator.Classify(ctx, board, scorer, t)
	if err := generator.Propagate(ctx, cfg, newBoard, scorer, scorer, t, sub); err != nil {
		return err
	}
	if sig.Variant == capability.Xiangqi {
		if err := bld.ResolveChases(ctx, chase.DefaultConfig(), newBoard, scorer.Codec, t); err != nil {
			return err
		}
	}

	sub.Register(generator.CellTable{Sig: sig, A: t.A, B: t.B})

	f, err := toFile(sig, t)
	if err != nil {
		return err
	}
	f.LogMemoryBudget(ctx, tbfile.All)

	path := filepath.Join(*out, sig.Name()+".fdtm")
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer fh.Close()
	if err := tbfile.WriteFile(fh, f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logw.Infof(ctx, "fegtb-gen: wrote %s", path)
	return nil
}

func toFile(sig material.Signature, t *generator.Table) (*tbfile.File, error) {
	flags := tbfile.FlagCompressed
	if *twoBytes {
		flags |= tbfile.FlagTwoBytes
	}

	dtmMax := uint8(score.DTMMax1Byte)
	if *twoBytes {
		dtmMax = 0 // unbounded in 1-byte terms; the 2-byte run covers it
	}
	h, err := tbfile.NewHeader(sig.Name(), dtmMax, 0, flags)
	if err != nil {
		return nil, err
	}
	h.SetCopyright("felicity egtb")

	f := &tbfile.File{Header: h, Sig: sig.Hash()}
	f.A = toSide(sig.Hash(), false, t.A)
	f.B = toSide(sig.Hash(), true, t.B)
	return f, nil
}

func toSide(sig uint32, isB bool, cells []score.Score) *tbfile.Side {
	payload, idx := tbfile.EncodeBlocks(cells, *twoBytes, false)
	return tbfile.NewCompressedSide(payload, idx, *twoBytes, sig, isB)
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

func newBoardFor(v capability.Variant) capability.Board {
	if v == capability.Xiangqi {
		return xqcapboard.New()
	}
	return capboard.New()
}
