package core

// Direction is one of the eight compass directions on the grid.
type Direction uint8

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

var directionDeltas = [8]Point{
	{0, -1},  // North
	{1, -1},  // NorthEast
	{1, 0},   // East
	{1, 1},   // SouthEast
	{0, 1},   // South
	{-1, 1},  // SouthWest
	{-1, 0},  // West
	{-1, -1}, // NorthWest
}

var directionNames = [8]string{
	"north", "northeast", "east", "southeast",
	"south", "southwest", "west", "northwest",
}

// Delta returns the unit step for the direction.
func (d Direction) Delta() Point {
	return directionDeltas[d&7]
}

func (d Direction) String() string {
	return directionNames[d&7]
}

// Cardinals lists the four cardinal directions, clockwise from North.
var Cardinals = [4]Direction{North, East, South, West}

// AllDirections lists all eight directions, clockwise from North.
var AllDirections = [8]Direction{
	North, NorthEast, East, SouthEast,
	South, SouthWest, West, NorthWest,
}

// StepToward returns the direction whose delta moves from 'from' closest
// to 'to'. Greedy single-step navigation only; real pathfinding lives
// behind the world Pather interface.
func StepToward(from, to Point) Direction {
	best := North
	bestDist := -1
	for _, d := range AllDirections {
		next := from.Add(d.Delta())
		dist := next.Manhattan(to)
		if bestDist < 0 || dist < bestDist {
			best = d
			bestDist = dist
		}
	}
	return best
}
