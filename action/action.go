// Package action defines the closed set of operations an actor can
// perform on its turn. Actions are plain values: a kind tag plus a
// direction or target payload. There is no per-action allocation and no
// dynamic dispatch; executors switch exhaustively on Kind.
package action

import (
	"fmt"

	"github.com/calderos/hollowdeep/core"
)

// Kind discriminates the action union.
type Kind uint8

const (
	// Wait passes the turn without touching world state.
	Wait Kind = iota
	// MoveDelta steps one tile in Dir.
	MoveDelta
	// MoveTo takes one pathing step toward Target.
	MoveTo
	// Attack strikes the occupant of Target.
	Attack
	// Teleport relocates the actor to Target.
	Teleport
)

var kindNames = [...]string{
	Wait:      "wait",
	MoveDelta: "move",
	MoveTo:    "move_to",
	Attack:    "attack",
	Teleport:  "teleport",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Action is one discrete simulated operation. Dir is meaningful for
// MoveDelta; Target for MoveTo, Attack and Teleport.
type Action struct {
	Kind   Kind
	Dir    core.Direction
	Target core.Point
}

// Base durations in turn-time units. All variants share the same flat
// cost in the default duration model; see Cost.
const (
	BaseCost = 1000
	// IdleCost is the reschedule delay for an actor with nothing to do.
	IdleCost = 100
)

// BaseDuration returns the flat time cost of the action kind.
func (a Action) BaseDuration() uint64 {
	return BaseCost
}

// Cost returns the action's time cost for an actor of the given speed.
// With scaling disabled (the default model) every action costs BaseCost
// regardless of speed. The scaled model divides by speed so that a
// speed-200 actor acts twice as often as a speed-100 one.
func (a Action) Cost(speed uint32, scaled bool) uint64 {
	base := a.BaseDuration()
	if !scaled || speed == 0 {
		return base
	}
	return base * 100 / uint64(speed)
}

// Convenience constructors.

func NewWait() Action                      { return Action{Kind: Wait} }
func NewMove(d core.Direction) Action      { return Action{Kind: MoveDelta, Dir: d} }
func NewMoveTo(target core.Point) Action   { return Action{Kind: MoveTo, Target: target} }
func NewAttack(target core.Point) Action   { return Action{Kind: Attack, Target: target} }
func NewTeleport(target core.Point) Action { return Action{Kind: Teleport, Target: target} }

func (a Action) String() string {
	switch a.Kind {
	case Wait:
		return "wait"
	case MoveDelta:
		return fmt.Sprintf("move %s", a.Dir)
	case MoveTo:
		return fmt.Sprintf("move_to (%d,%d)", a.Target.X, a.Target.Y)
	case Attack:
		return fmt.Sprintf("attack (%d,%d)", a.Target.X, a.Target.Y)
	case Teleport:
		return fmt.Sprintf("teleport (%d,%d)", a.Target.X, a.Target.Y)
	default:
		return a.Kind.String()
	}
}
