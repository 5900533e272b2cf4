// Command jswsoak tortures the containers of this module with the
// randomized membership workload from the soak package.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"

	"github.com/mignon-p/jsw-libs-sub002/soak"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero"

func main() {
	app := cli.NewApp()
	app.Name = "jswsoak"
	app.Usage = "soak test the containers of this module against a reference model"
	app.Version = version

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.Uint64Flag{
			Name:  "seed, s",
			Value: 0,
			Usage: " workload `SEED`, 0 draws one from the clock",
		},
		cli.UintFlag{
			Name:  "members, m",
			Value: soak.DefaultMembers,
			Usage: " index space `SIZE`, twice as many steps are run",
		},
		cli.StringFlag{
			Name:  "container, c",
			Value: "all",
			Usage: " container to soak `NAME` [aa|avl|rb|skip|hash|all]",
		},
		cli.IntFlag{
			Name:  "parallelism, p",
			Value: 0,
			Usage: " goroutines for all runs `COUNT`, 0 means one per container",
		},
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " log every phase at debug level",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "jswsoak: %s\n", err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	logger, err := newLogger(ctx.Bool("verbose"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	seed := uint32(ctx.Uint64("seed"))
	if seed == 0 {
		seed = uint32(time.Now().UnixNano())
		// Always surface a drawn seed, otherwise the run cannot be
		// replayed.
		logger.Info("seed drawn from the clock", zap.Uint32("seed", seed))
	}

	members := uint32(ctx.Uint("members"))
	if members == 0 {
		return fmt.Errorf("members must be positive")
	}

	runner := soak.NewRunner(
		seed,
		soak.WithRunnerMembers(members),
		soak.WithRunnerLogger(logger),
	)

	if selection := ctx.String("container"); selection != "all" {
		c, err := newContainer(selection, seed)
		if err != nil {
			return err
		}
		return runner.Run(c)
	}

	containers, err := soak.Containers(seed)
	if err != nil {
		return err
	}
	return soak.RunAll(runner, containers, ctx.Int("parallelism"))
}

func newContainer(selection string, seed uint32) (soak.Container, error) {
	switch selection {
	case "aa":
		return soak.NewAATreeContainer()
	case "avl":
		return soak.NewAVLTreeContainer()
	case "rb":
		return soak.NewRBTreeContainer()
	case "skip":
		return soak.NewSkipListContainer(seed)
	case "hash":
		return soak.NewHashMapContainer()
	}
	return nil, fmt.Errorf("unknown container %q, want aa|avl|rb|skip|hash|all", selection)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopmentConfig().Build()
	}
	return zap.NewProductionConfig().Build()
}
