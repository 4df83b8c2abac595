// perft is a movegen debugging tool. See: https://www.chessprogramming.org/Perft_Results.
package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/seekerror/logw"

	"github.com/felicity-egtb/felicity/pkg/capability"
	"github.com/felicity-egtb/felicity/pkg/chess/capboard"
	xqcapboard "github.com/felicity-egtb/felicity/pkg/xiangqi/capboard"
)

var (
	variantFlag = flag.String("variant", "chess", "Game variant: chess or xiangqi")
	depth       = flag.Int("depth", 4, "Search depth")
	position    = flag.String("fen", "", "Start position (default to the variant's standard array)")
	divide      = flag.Bool("divide", false, "Divide counts by initial move")
)

func main() {
	ctx := context.Background()
	flag.Parse()

	v, err := parseVariant(*variantFlag)
	if err != nil {
		logw.Exitf(ctx, "%v", err)
	}

	board := newBoardFor(v)
	if err := board.NewGame(*position); err != nil {
		logw.Exitf(ctx, "invalid fen '%v': %v", *position, err)
	}

	for i := 1; i <= *depth; i++ {
		start := time.Now()
		nodes := search(board, i, *divide && i == *depth)
		duration := time.Since(start)

		fmt.Printf("perft,%v,%v,%v,%v,%v\n", *variantFlag, *position, i, nodes, duration.Microseconds())
	}
}

func search(board capability.Board, depth int, d bool) int64 {
	if depth == 0 {
		return 1
	}

	var nodes int64
	for _, m := range board.LegalMoves(board.Turn()) {
		h := board.Make(m)
		count := search(board, depth-1, false)
		board.Unmake(h)

		if d {
			fmt.Printf("%v%v: %v\n", m.From, m.To, count)
		}
		nodes += count
	}
	return nodes
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
