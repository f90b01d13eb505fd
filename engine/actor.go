package engine

import "github.com/calderos/hollowdeep/action"

// TurnActor is the per-entity state the scheduler consults: base speed,
// liveness, the FIFO pending-action queue, and transient per-pass
// markers. Everything else about an entity (position, health, glyph)
// lives in the world, keyed by the same handle.
type TurnActor struct {
	speed uint32
	alive bool

	actions []action.Action

	// preferred caches an AI decision within one pass so the decision
	// layer does not recompute it; cleared after every player turn.
	preferred    *action.Action
	hasPreferred bool

	// awaitingInput marks the player actor as suspended pending input.
	awaitingInput bool
}

// NewTurnActor creates a live actor with the given base speed.
func NewTurnActor(speed uint32) TurnActor {
	return TurnActor{speed: speed, alive: true}
}

// NextAction pops the front of the pending queue.
func (t *TurnActor) NextAction() (action.Action, bool) {
	if len(t.actions) == 0 {
		return action.Action{}, false
	}
	act := t.actions[0]
	t.actions = t.actions[1:]
	return act, true
}

// PeekAction returns the front of the pending queue without consuming it.
func (t *TurnActor) PeekAction() (action.Action, bool) {
	if len(t.actions) == 0 {
		return action.Action{}, false
	}
	return t.actions[0], true
}

// QueueAction appends an action to the pending queue.
func (t *TurnActor) QueueAction(act action.Action) {
	t.actions = append(t.actions, act)
}

// HasAction reports whether the pending queue is non-empty.
func (t *TurnActor) HasAction() bool {
	return len(t.actions) > 0
}

// ActionCount returns the pending queue length.
func (t *TurnActor) ActionCount() int {
	return len(t.actions)
}

// ClearActions drops every pending action.
func (t *TurnActor) ClearActions() {
	t.actions = t.actions[:0]
}

// Kill marks the actor dead and drops its pending actions. Dead actors
// are dropped on pop and evicted from the schedule by the next sweep.
func (t *TurnActor) Kill() {
	t.alive = false
	t.ClearActions()
}

// IsAlive reports liveness.
func (t *TurnActor) IsAlive() bool {
	return t.alive
}

// Speed returns the actor's base speed.
func (t *TurnActor) Speed() uint32 {
	return t.speed
}

// SetSpeed updates the actor's base speed.
func (t *TurnActor) SetSpeed(speed uint32) {
	t.speed = speed
}

// SetPreferred caches an AI decision for reuse within the current pass.
func (t *TurnActor) SetPreferred(act action.Action) {
	t.preferred = &act
	t.hasPreferred = true
}

// Preferred returns the cached decision, if any.
func (t *TurnActor) Preferred() (action.Action, bool) {
	if !t.hasPreferred {
		return action.Action{}, false
	}
	return *t.preferred, true
}

// ClearPreferred drops the cached decision.
func (t *TurnActor) ClearPreferred() {
	t.preferred = nil
	t.hasPreferred = false
}

// MarkAwaitingInput flags the actor as suspended pending player input.
func (t *TurnActor) MarkAwaitingInput() {
	t.awaitingInput = true
}

// ClearAwaitingInput clears the suspension flag. The input collaborator
// calls this when it queues a new player action.
func (t *TurnActor) ClearAwaitingInput() {
	t.awaitingInput = false
}

// IsAwaitingInput reports whether the actor is suspended for input.
func (t *TurnActor) IsAwaitingInput() bool {
	return t.awaitingInput
}
