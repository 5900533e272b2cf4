package soak

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	xrand "github.com/mignon-p/jsw-libs-sub002/lib/rand"
)

// DefaultMembers bounds the index space when no override is given.
const DefaultMembers = 2048

// Runner replays one deterministic membership workload: every step
// draws an index, checks the container's answer for it against a
// boolean model and then flips that membership. Halfway through, the
// container gets resized once.
type Runner struct {
	logger  *zap.Logger
	seed    uint32
	members uint32
}

type RunnerOpt func(*Runner)

// WithRunnerMembers bounds the index space, which caps the live item
// count. Twice as many steps are run.
func WithRunnerMembers(members uint32) RunnerOpt {
	return func(r *Runner) {
		if members > 0 {
			r.members = members
		}
	}
}

// WithRunnerLogger wires structured progress reporting. The default
// logger discards everything.
func WithRunnerLogger(logger *zap.Logger) RunnerOpt {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner builds a runner replaying the workload derived from seed.
// The same seed and members always yield the same step sequence.
func NewRunner(seed uint32, opts ...RunnerOpt) *Runner {
	r := &Runner{
		logger:  zap.NewNop(),
		seed:    seed,
		members: DefaultMembers,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run drives the container through 2*members steps plus a final sweep
// over the whole index space, then releases it. The first disagreement
// with the model stops the run with an error naming the step and the
// index.
func (r *Runner) Run(c Container) error {
	defer c.Release()

	logger := r.logger.With(
		zap.String("container", c.Name()),
		zap.Uint32("seed", r.seed),
		zap.Uint32("members", r.members),
	)
	logger.Info("soak run start")

	model := make([]bool, r.members)
	rng := xrand.NewMT19937(r.seed)
	steps := 2 * uint64(r.members)

	for step := uint64(0); step < steps; step++ {
		if step == uint64(r.members) {
			if !c.Resize() {
				return fmt.Errorf("[soak] %s: resize refused at step %d", c.Name(), step)
			}
			logger.Debug("container resized", zap.Uint64("step", step))
		}

		j := rng.Uint64() % uint64(r.members)
		item := strconv.FormatUint(j, 10)

		if got, want := c.Lookup(item), model[j]; got != want {
			logger.Error("lookup mismatch",
				zap.Uint64("step", step),
				zap.Uint64("index", j),
				zap.Bool("got", got),
				zap.Bool("want", want),
			)
			return fmt.Errorf("[soak] %s: lookup mismatch at step %d index %d: got %t, want %t",
				c.Name(), step, j, got, want)
		}

		if model[j] {
			if !c.Remove(item) {
				return fmt.Errorf("[soak] %s: remove refused at step %d index %d", c.Name(), step, j)
			}
		} else {
			if !c.Insert(item) {
				return fmt.Errorf("[soak] %s: insert refused at step %d index %d", c.Name(), step, j)
			}
		}
		model[j] = !model[j]
	}

	for j := uint64(0); j < uint64(r.members); j++ {
		item := strconv.FormatUint(j, 10)
		if got, want := c.Lookup(item), model[j]; got != want {
			logger.Error("final sweep mismatch",
				zap.Uint64("index", j),
				zap.Bool("got", got),
				zap.Bool("want", want),
			)
			return fmt.Errorf("[soak] %s: final sweep mismatch at index %d: got %t, want %t",
				c.Name(), j, got, want)
		}
	}

	logger.Info("soak run pass", zap.Int("live", lo.Count(model, true)))
	return nil
}

// RunAll replays the same workload over every container, one goroutine
// per container drawn from a shared pool. A container never leaves its
// goroutine, so the single threaded contract of the containers holds.
// The returned error carries one entry per failed container.
func RunAll(r *Runner, containers []Container, parallelism int) error {
	if len(containers) == 0 {
		return nil
	}
	if parallelism < 1 {
		parallelism = len(containers)
	}

	pool, err := ants.NewPool(parallelism, ants.WithPreAlloc(true))
	if err != nil {
		return fmt.Errorf("[soak] new pool: %w", err)
	}
	defer pool.Release()

	r.logger.Info("soak all start",
		zap.Strings("containers", lo.Map(containers, func(c Container, _ int) string { return c.Name() })),
		zap.Int("parallelism", parallelism),
	)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)
	for _, c := range containers {
		wg.Add(1)
		if submitErr := pool.Submit(func() {
			defer wg.Done()
			if runErr := r.Run(c); runErr != nil {
				mu.Lock()
				errs = multierr.Append(errs, runErr)
				mu.Unlock()
			}
		}); submitErr != nil {
			wg.Done()
			mu.Lock()
			errs = multierr.Append(errs, fmt.Errorf("[soak] submit %s: %w", c.Name(), submitErr))
			mu.Unlock()
		}
	}
	wg.Wait()
	return errs
}
