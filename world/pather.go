package world

import "github.com/calderos/hollowdeep/core"

// Pather yields the next step toward a destination. Real pathfinding
// (A*, flow fields, caching) plugs in from outside; the world only
// consumes single steps.
type Pather interface {
	// NextStep returns the direction of the next step from 'from'
	// toward 'to'. ok=false means no passable step exists.
	NextStep(from, to core.Point, passable func(core.Point) bool) (core.Direction, bool)
}

// GreedyPather picks the adjacent passable tile closest to the target.
// It walks into corners on concave obstacles, which is acceptable for
// the default AI; hosts wanting better routes supply their own Pather.
type GreedyPather struct{}

func (GreedyPather) NextStep(from, to core.Point, passable func(core.Point) bool) (core.Direction, bool) {
	best := core.North
	bestDist := -1
	found := false

	for _, d := range core.AllDirections {
		next := from.Add(d.Delta())
		if !passable(next) && next != to {
			continue
		}
		dist := next.Manhattan(to)
		if !found || dist < bestDist {
			best = d
			bestDist = dist
			found = true
		}
	}

	if !found || bestDist >= from.Manhattan(to) {
		return 0, false
	}
	return best, true
}
