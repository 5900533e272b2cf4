package soak

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"
)

// forgetfulContainer accepts every mutation and remembers none of it,
// so the first repeated index must trip the model check.
type forgetfulContainer struct {
	name string
}

func (c *forgetfulContainer) Name() string            { return c.name }
func (c *forgetfulContainer) Insert(item string) bool { return true }
func (c *forgetfulContainer) Remove(item string) bool { return true }
func (c *forgetfulContainer) Lookup(item string) bool { return false }
func (c *forgetfulContainer) Resize() bool            { return true }
func (c *forgetfulContainer) Release()                {}

// noResizeContainer behaves like the wrapped container except that it
// refuses the halfway resize.
type noResizeContainer struct {
	Container
}

func (c *noResizeContainer) Resize() bool { return false }

func TestContainersCoverEveryFamily(t *testing.T) {
	containers, err := Containers(1)
	require.NoError(t, err)

	names := lo.Map(containers, func(c Container, _ int) string { return c.Name() })
	require.ElementsMatch(t,
		[]string{"aa-tree", "avl-tree", "rb-tree", "skip-list", "hash-map"},
		names,
	)
}

func TestRunnerAgainstEveryContainer(t *testing.T) {
	containers, err := Containers(20240924)
	require.NoError(t, err)

	runner := NewRunner(
		20240924,
		WithRunnerMembers(256),
		WithRunnerLogger(zaptest.NewLogger(t)),
	)
	for _, c := range containers {
		t.Run(c.Name(), func(t *testing.T) {
			require.NoError(t, runner.Run(c))
		})
	}
}

func TestRunnerReportsMismatch(t *testing.T) {
	runner := NewRunner(7, WithRunnerMembers(64))

	err := runner.Run(&forgetfulContainer{name: "forgetful"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "mismatch")
	require.Contains(t, err.Error(), "forgetful")
}

func TestRunnerReportsResizeRefusal(t *testing.T) {
	aa, err := NewAATreeContainer()
	require.NoError(t, err)

	runner := NewRunner(7, WithRunnerMembers(64))
	err = runner.Run(&noResizeContainer{Container: aa})
	require.Error(t, err)
	require.Contains(t, err.Error(), "resize refused")
}

func TestRunAll(t *testing.T) {
	containers, err := Containers(20240925)
	require.NoError(t, err)

	runner := NewRunner(
		20240925,
		WithRunnerMembers(128),
		WithRunnerLogger(zaptest.NewLogger(t)),
	)
	require.NoError(t, RunAll(runner, containers, 3))

	// A fresh set with default parallelism, one goroutine per container.
	containers, err = Containers(20240925)
	require.NoError(t, err)
	require.NoError(t, RunAll(runner, containers, 0))

	require.NoError(t, RunAll(runner, nil, 0))
}

func TestRunAllAggregatesFailures(t *testing.T) {
	aa, err := NewAATreeContainer()
	require.NoError(t, err)

	containers := []Container{
		aa,
		&forgetfulContainer{name: "forgetful-a"},
		&forgetfulContainer{name: "forgetful-b"},
	}
	runner := NewRunner(11, WithRunnerMembers(64))

	err = RunAll(runner, containers, 2)
	require.Error(t, err)
	require.Len(t, multierr.Errors(err), 2)
	require.Contains(t, err.Error(), "forgetful-a")
	require.Contains(t, err.Error(), "forgetful-b")
}
