package engine

import (
	"time"
)

// CleanupReport describes one sweep over the schedule queue. A zero
// report means the sweep was skipped because the adaptive threshold had
// not been reached.
type CleanupReport struct {
	Ran             bool
	EntitiesRemoved int
	QueueSizeBefore int
	QueueSizeAfter  int
	ProcessingTime  time.Duration
}

// Adaptive threshold bounds. The base threshold comes from options; it
// is halved under load and doubled when the simulation is small.
const (
	cleanupBusyActors = 1000
	cleanupBusyQueue  = 500
	cleanupIdleActors = 100
	cleanupIdleQueue  = 50
)

// cleanupThreshold returns the effective operations-between-sweeps for
// the current population and queue size.
func (s *Scheduler) cleanupThreshold() uint32 {
	actors := s.arena.Len()
	queueSize := s.queue.Len()

	switch {
	case actors > cleanupBusyActors || queueSize > cleanupBusyQueue:
		return s.opts.CleanupThreshold / 2
	case actors < cleanupIdleActors && queueSize < cleanupIdleQueue:
		return s.opts.CleanupThreshold * 2
	default:
		return s.opts.CleanupThreshold
	}
}

// maybeCleanup runs an amortized sweep when enough operations have
// passed since the last one. Stale entries are expected between sweeps;
// the pop path drops them individually, the sweep evicts them in bulk.
func (s *Scheduler) maybeCleanup() CleanupReport {
	if s.opsSinceCleanup < s.cleanupThreshold() {
		s.opsSinceCleanup++
		return CleanupReport{}
	}

	start := time.Now()
	before := s.queue.Len()

	removed := s.queue.Rebuild(s.validTurnActor)

	s.opsSinceCleanup = 0
	s.statCleanups.Add(1)
	s.statCleanupRemoved.Add(int64(removed))
	s.statQueueSize.Store(int64(s.queue.Len()))

	report := CleanupReport{
		Ran:             true,
		EntitiesRemoved: removed,
		QueueSizeBefore: before,
		QueueSizeAfter:  s.queue.Len(),
		ProcessingTime:  time.Since(start),
	}

	if removed > 0 {
		s.log.Debug("schedule cleanup",
			"removed", removed,
			"before", before,
			"after", report.QueueSizeAfter,
			"took", report.ProcessingTime)
	}

	return report
}

// validTurnActor is the sweep filter: the handle must resolve against
// the arena (generation match) and the actor must still be alive.
func (s *Scheduler) validTurnActor(h Handle) bool {
	actor := s.arena.Get(h)
	return actor != nil && actor.IsAlive()
}

// ForceCleanup runs a sweep unconditionally. Exposed for tests and for
// hosts that want an eager sweep at a quiet moment.
func (s *Scheduler) ForceCleanup() CleanupReport {
	s.opsSinceCleanup = s.cleanupThreshold()
	return s.maybeCleanup()
}
