package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calderos/hollowdeep/action"
	"github.com/calderos/hollowdeep/core"
	"github.com/calderos/hollowdeep/metrics"
)

// scriptedEffector returns canned outcomes in sequence.
type scriptedEffector struct {
	outcomes []func(act action.Action) (uint64, error)
	calls    int
	applied  []action.Action
}

func (s *scriptedEffector) Apply(h Handle, act action.Action) (uint64, error) {
	s.applied = append(s.applied, act)
	fn := s.outcomes[s.calls%len(s.outcomes)]
	s.calls++
	return fn(act)
}

func succeed(duration uint64) func(action.Action) (uint64, error) {
	return func(action.Action) (uint64, error) { return duration, nil }
}

func fail(err error) func(action.Action) (uint64, error) {
	return func(action.Action) (uint64, error) { return 0, err }
}

func TestExecuteSuccess(t *testing.T) {
	eff := &scriptedEffector{outcomes: []func(action.Action) (uint64, error){succeed(1000)}}
	exec := NewExecutor(eff, 0, nil, metrics.NewRegistry())

	res, err := exec.Execute(Handle{Index: 1, Generation: 1}, action.NewWait())
	require.NoError(t, err)
	require.Equal(t, uint64(1000), res.Duration)
	require.False(t, res.Failed)
	require.Zero(t, res.Retries)
}

func TestRetryTwiceThenSuccessUsesSuccessDuration(t *testing.T) {
	eff := &scriptedEffector{outcomes: []func(action.Action) (uint64, error){
		fail(&RetryError{Replacement: action.NewWait()}),
		fail(&RetryError{Replacement: action.NewWait()}),
		succeed(1234),
	}}
	reg := metrics.NewRegistry()
	exec := NewExecutor(eff, 0, nil, reg)

	res, err := exec.Execute(Handle{Index: 1, Generation: 1}, action.NewMove(0))
	require.NoError(t, err)
	require.Equal(t, 2, res.Retries, "exactly two retries consumed")
	require.Equal(t, uint64(1234), res.Duration, "duration comes from the success, not the cap fallback")
	require.False(t, res.Failed)
	require.Equal(t, int64(2), reg.Ints.Get("executor.retries").Load())
}

func TestRetryCapDegradesToIdleCost(t *testing.T) {
	eff := &scriptedEffector{outcomes: []func(action.Action) (uint64, error){
		fail(&RetryError{Replacement: action.NewWait()}),
	}}
	exec := NewExecutor(eff, 0, nil, metrics.NewRegistry())

	res, err := exec.Execute(Handle{Index: 1, Generation: 1}, action.NewWait())
	require.NoError(t, err, "cap overflow degrades silently")
	require.Equal(t, uint64(action.IdleCost), res.Duration)
	require.Equal(t, MaxRetries, res.Retries)
}

func TestRecoverableFailureDelays(t *testing.T) {
	cases := []struct {
		err   error
		delay uint64
	}{
		{ErrInvalidTarget, 50},
		{ErrInsufficientResources, 100},
		{ErrActionBlocked, 25},
	}

	for _, tc := range cases {
		eff := &scriptedEffector{outcomes: []func(action.Action) (uint64, error){fail(tc.err)}}
		exec := NewExecutor(eff, 0, nil, metrics.NewRegistry())

		res, err := exec.Execute(Handle{Index: 1, Generation: 1}, action.NewWait())
		require.NoError(t, err, "%v must be recovered locally", tc.err)
		require.True(t, res.Failed)
		require.Equal(t, tc.delay, res.Duration)
	}
}

func TestUnrecoverablePropagates(t *testing.T) {
	boom := errors.New("world state corrupted")
	eff := &scriptedEffector{outcomes: []func(action.Action) (uint64, error){fail(boom)}}
	exec := NewExecutor(eff, 0, nil, metrics.NewRegistry())

	_, err := exec.Execute(Handle{Index: 1, Generation: 1}, action.NewWait())
	require.ErrorIs(t, err, boom)
}

func TestRetryReplacementIsExecuted(t *testing.T) {
	attack := action.NewAttack(core.Point{X: 5, Y: 5})
	eff := &scriptedEffector{outcomes: []func(action.Action) (uint64, error){
		fail(&RetryError{Replacement: attack}),
		succeed(1000),
	}}
	exec := NewExecutor(eff, 0, nil, metrics.NewRegistry())

	_, err := exec.Execute(Handle{Index: 1, Generation: 1}, action.NewMove(0))
	require.NoError(t, err)
	require.Len(t, eff.applied, 2)
	require.Equal(t, attack, eff.applied[1], "second attempt must run the replacement")
}
