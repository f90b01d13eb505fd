package engine

import (
	"log/slog"
	"sync/atomic"

	"github.com/calderos/hollowdeep/action"
	"github.com/calderos/hollowdeep/metrics"
)

// Options tunes the scheduler. Zero fields take the defaults below.
type Options struct {
	// QueueCapacity bounds the schedule queue.
	QueueCapacity int
	// CleanupThreshold is the base number of operations between sweeps
	// before adaptive scaling.
	CleanupThreshold uint32
	// MaxTurnsPerPass caps pops per RunPass invocation; remaining ready
	// actors are deferred to the next pass.
	MaxTurnsPerPass int
	// RetryCap bounds immediate retries inside the executor.
	RetryCap int
	// IdleCost is the reschedule delay for an AI actor with an empty
	// pending queue.
	IdleCost uint64
}

// DefaultOptions returns the standard tuning.
func DefaultOptions() Options {
	return Options{
		QueueCapacity:    DefaultQueueCapacity,
		CleanupThreshold: 100,
		MaxTurnsPerPass:  50,
		RetryCap:         MaxRetries,
		IdleCost:         action.IdleCost,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.QueueCapacity <= 0 {
		o.QueueCapacity = d.QueueCapacity
	}
	if o.CleanupThreshold == 0 {
		o.CleanupThreshold = d.CleanupThreshold
	}
	if o.MaxTurnsPerPass <= 0 {
		o.MaxTurnsPerPass = d.MaxTurnsPerPass
	}
	if o.RetryCap <= 0 {
		o.RetryCap = d.RetryCap
	}
	if o.IdleCost == 0 {
		o.IdleCost = d.IdleCost
	}
	return o
}

// PassResult summarizes one RunPass invocation.
type PassResult struct {
	// Turns is the number of live actors whose turn ran this pass.
	Turns int
	// Halted is true when the pass stopped at the player suspension
	// point; new player input is the only resume trigger.
	Halted bool
	// QueueEmpty is true when the pass drained the schedule.
	QueueEmpty bool
	// BudgetExhausted is true when MaxTurnsPerPass was hit with ready
	// actors still queued.
	BudgetExhausted bool
	// Cleanup reports the sweep that ran at the top of the pass, if any.
	Cleanup CleanupReport
}

// Scheduler assigns every actor a position in global turn-time, decides
// whose turn executes next, runs the queued action and reschedules.
// Strictly single-threaded: callers must not mutate actors concurrently
// with a running pass.
type Scheduler struct {
	arena  *Arena
	queue  *ScheduleQueue
	exec   *Executor
	player Handle
	opts   Options
	log    *slog.Logger

	opsSinceCleanup uint32

	statTurns          *atomic.Int64
	statHalts          *atomic.Int64
	statStaleDropped   *atomic.Int64
	statUnrecoverable  *atomic.Int64
	statPasses         *atomic.Int64
	statQueueSize      *atomic.Int64
	statCleanups       *atomic.Int64
	statCleanupRemoved *atomic.Int64
}

// NewScheduler wires the scheduler to an externally owned arena and an
// effector. log and reg may be nil.
func NewScheduler(arena *Arena, effector Effector, opts Options, log *slog.Logger, reg *metrics.Registry) *Scheduler {
	opts = opts.withDefaults()
	if log == nil {
		log = slog.Default()
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}

	return &Scheduler{
		arena:              arena,
		queue:              NewScheduleQueue(opts.QueueCapacity),
		exec:               NewExecutor(effector, opts.RetryCap, log, reg),
		opts:               opts,
		log:                log,
		statTurns:          reg.Ints.Get("scheduler.turns_processed"),
		statHalts:          reg.Ints.Get("scheduler.halts"),
		statStaleDropped:   reg.Ints.Get("scheduler.stale_dropped"),
		statUnrecoverable:  reg.Ints.Get("scheduler.unrecoverable"),
		statPasses:         reg.Ints.Get("scheduler.passes"),
		statQueueSize:      reg.Ints.Get("scheduler.queue_size"),
		statCleanups:       reg.Ints.Get("scheduler.cleanups"),
		statCleanupRemoved: reg.Ints.Get("scheduler.cleanup_removed"),
	}
}

// SetPlayer designates the player actor. Everything else is AI.
func (s *Scheduler) SetPlayer(h Handle) {
	s.player = h
}

// Player returns the designated player handle.
func (s *Scheduler) Player() Handle {
	return s.player
}

// Queue exposes the schedule queue for inspection.
func (s *Scheduler) Queue() *ScheduleQueue {
	return s.queue
}

// Schedule gives h its initial entry at the current time. No-op when h
// already has an outstanding entry, preserving the one-entry invariant.
func (s *Scheduler) Schedule(h Handle) error {
	if s.queue.IsScheduled(h) {
		return nil
	}
	return s.queue.Push(h, s.queue.CurrentTime())
}

// PushPlayerAction queues an action for the player and clears the
// awaiting-input marker. This is the resume trigger for a halted pass.
func (s *Scheduler) PushPlayerAction(act action.Action) bool {
	actor := s.arena.Get(s.player)
	if actor == nil || !actor.IsAlive() {
		return false
	}
	actor.QueueAction(act)
	actor.ClearAwaitingInput()
	return true
}

// AwaitingInput reports whether the player actor is suspended.
func (s *Scheduler) AwaitingInput() bool {
	actor := s.arena.Get(s.player)
	return actor != nil && actor.IsAwaitingInput()
}

// RunPass processes ready actors until the player suspends, the queue
// drains, or the per-pass turn budget runs out. This is the only place
// the simulation advances.
func (s *Scheduler) RunPass() PassResult {
	s.statPasses.Add(1)
	res := PassResult{Cleanup: s.maybeCleanup()}

	for res.Turns < s.opts.MaxTurnsPerPass {
		entry, ok := s.queue.PopReady()
		if !ok {
			res.QueueEmpty = true
			break
		}

		actor := s.arena.Get(entry.Handle)
		if actor == nil || !actor.IsAlive() {
			// Stale entry: drop the turn silently, no reschedule. The
			// next sweep evicts remaining entries in bulk.
			s.statStaleDropped.Add(1)
			continue
		}

		res.Turns++
		s.statTurns.Add(1)

		if entry.Handle == s.player {
			if s.playerTurn(entry, actor) {
				res.Halted = true
				break
			}
		} else {
			s.aiTurn(entry, actor)
		}
	}

	if res.Turns >= s.opts.MaxTurnsPerPass && s.queue.Len() > 0 {
		res.BudgetExhausted = true
		s.log.Debug("turn budget exhausted, deferring ready actors",
			"budget", s.opts.MaxTurnsPerPass, "queued", s.queue.Len())
	}

	s.statQueueSize.Store(int64(s.queue.Len()))
	return res
}

// playerTurn runs one popped player entry. Returns true when the pass
// must halt awaiting input.
func (s *Scheduler) playerTurn(entry ScheduleEntry, actor *TurnActor) bool {
	act, ok := actor.NextAction()
	if !ok {
		// The single suspension point: mark, reschedule at the same
		// wake time, and yield to the host loop.
		actor.MarkAwaitingInput()
		s.reschedule(entry.Handle, entry.Wake)
		s.statHalts.Add(1)
		return true
	}

	result, err := s.exec.Execute(entry.Handle, act)
	if err != nil {
		s.killUnrecoverable(entry.Handle, actor, act, err)
		return false
	}

	if result.Failed {
		// A recoverable mistake must not cost the player a turn.
		s.reschedule(entry.Handle, entry.Wake)
		return false
	}

	s.reschedule(entry.Handle, entry.Wake+result.Duration)
	s.clearPreferredActions()
	return false
}

// aiTurn runs one popped AI entry. AI turns never halt the pass.
func (s *Scheduler) aiTurn(entry ScheduleEntry, actor *TurnActor) {
	act, ok := actor.NextAction()
	if !ok {
		// No decision yet is not an error; requeue at the idle cost.
		s.reschedule(entry.Handle, entry.Wake+s.opts.IdleCost)
		return
	}

	result, err := s.exec.Execute(entry.Handle, act)
	if err != nil {
		s.killUnrecoverable(entry.Handle, actor, act, err)
		return
	}

	if result.Failed {
		// A buggy AI must not spin the scheduler on one time step;
		// failures always advance its wake time.
		s.log.Warn("ai action failed, rescheduling with penalty",
			"actor", entry.Handle, "action", act, "penalty", result.Duration)
		s.reschedule(entry.Handle, entry.Wake+result.Duration)
		return
	}

	s.reschedule(entry.Handle, entry.Wake+result.Duration)
}

// reschedule pushes the actor's next entry. Every non-stale pop goes
// through here exactly once, which is what maintains the one-entry
// invariant.
func (s *Scheduler) reschedule(h Handle, wake uint64) {
	if err := s.queue.Push(h, wake); err != nil {
		// Capacity overflow drops the actor out of the rotation; loud
		// because it breaks the one-entry invariant.
		s.log.Error("reschedule failed", "actor", h, "wake", wake, "err", err)
	}
}

// killUnrecoverable handles an executor error the design does not
// anticipate: the actor dies and leaves the rotation. The process never
// aborts over a single actor.
func (s *Scheduler) killUnrecoverable(h Handle, actor *TurnActor, act action.Action, err error) {
	s.statUnrecoverable.Add(1)
	s.log.Error("unrecoverable action error, killing actor",
		"actor", h, "action", act, "err", err)
	actor.Kill()
}

// clearPreferredActions drops cached AI decisions after an executed
// player turn; world state may have shifted under them.
func (s *Scheduler) clearPreferredActions() {
	s.arena.Range(func(h Handle, actor *TurnActor) {
		if h != s.player {
			actor.ClearPreferred()
		}
	})
}
