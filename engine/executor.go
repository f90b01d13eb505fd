package engine

import (
	"log/slog"
	"sync/atomic"

	"github.com/calderos/hollowdeep/action"
	"github.com/calderos/hollowdeep/metrics"
)

// Effector applies a single action against world state and returns the
// time it consumed. The engine treats it as opaque: validation rules
// and domain effects (damage, death, occupancy) belong entirely to the
// implementation.
type Effector interface {
	Apply(h Handle, act action.Action) (uint64, error)
}

// MaxRetries bounds immediate re-attempts triggered by RetryError.
const MaxRetries = 3

// ExecResult is the outcome of one executor invocation. Failed marks a
// recoverable failure; Duration then holds the policy delay rather than
// an action cost. Retries counts RetryError substitutions consumed.
type ExecResult struct {
	Duration uint64
	Failed   bool
	Retries  int
}

// Executor drives one action to completion, applying the bounded retry
// policy. Recoverable failures never escape it; anything it cannot
// classify propagates as an unrecoverable error.
type Executor struct {
	effector Effector
	retryCap int
	log      *slog.Logger

	statRetries   *atomic.Int64
	statRecovered *atomic.Int64
}

// NewExecutor wraps effector. retryCap <= 0 selects MaxRetries.
func NewExecutor(effector Effector, retryCap int, log *slog.Logger, reg *metrics.Registry) *Executor {
	if retryCap <= 0 {
		retryCap = MaxRetries
	}
	if log == nil {
		log = slog.Default()
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &Executor{
		effector:      effector,
		retryCap:      retryCap,
		log:           log,
		statRetries:   reg.Ints.Get("executor.retries"),
		statRecovered: reg.Ints.Get("executor.failures_recovered"),
	}
}

// Execute runs act for h. Outcomes:
//   - success: Duration is the action's cost.
//   - RetryError: the replacement action is attempted immediately, up
//     to the retry cap; past the cap the result degrades to a plain
//     wait at the idle cost.
//   - recoverable failure: Failed=true, Duration is the failure delay.
//   - anything else: returned as an error; the caller decides the
//     actor's fate.
func (e *Executor) Execute(h Handle, act action.Action) (ExecResult, error) {
	retries := 0

	for {
		duration, err := e.effector.Apply(h, act)
		if err == nil {
			return ExecResult{Duration: duration, Retries: retries}, nil
		}

		if retry, ok := err.(*RetryError); ok {
			retries++
			e.statRetries.Add(1)
			if retries >= e.retryCap {
				e.log.Debug("retry cap exceeded, degrading to wait",
					"actor", h, "action", act)
				return ExecResult{Duration: action.IdleCost, Retries: retries}, nil
			}
			act = retry.Replacement
			continue
		}

		if delay, ok := failureDelay(err); ok {
			e.statRecovered.Add(1)
			return ExecResult{Duration: delay, Failed: true, Retries: retries}, nil
		}

		return ExecResult{Retries: retries}, err
	}
}
