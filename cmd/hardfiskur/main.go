package main

import (
	"context"
	"flag"
	"fmt"
	"github.com/hardfiskur/hardfiskur/pkg/engine"
	"github.com/hardfiskur/hardfiskur/pkg/engine/console"
	"github.com/hardfiskur/hardfiskur/pkg/engine/uci"
	"github.com/hardfiskur/hardfiskur/pkg/eval"
	"github.com/hardfiskur/hardfiskur/pkg/search"
	"github.com/seekerror/logw"
	"os"
)

var (
	depth = flag.Uint("depth", 0, "Search depth limit (zero if unlimited)")
	hash  = flag.Uint("hash", 64, "Transposition table size in MB (zero disables it)")
	noise = flag.Uint("noise", 10, "Evaluation noise in centipawns (zero if deterministic)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: hardfiskur [options]

HARDFISKUR is a UCI chess engine.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	s := search.Negamax{
		Eval:  eval.Standard{},
		Quiet: search.Quiescence{Eval: eval.Standard{}},
	}
	e := engine.New(ctx, "hardfiskur", "herohde",
		s,
		engine.WithTable(search.NewTranspositionTable),
		engine.WithOptions(engine.Options{Depth: *depth, Hash: *hash, Noise: *noise}),
	)

	in := engine.ReadStdinLines(ctx)
	switch <-in {
	case uci.ProtocolName:
		// Use UCI protocol.

		driver, out := uci.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	case console.ProtocolName:
		driver, out := console.NewDriver(ctx, e, s, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}
