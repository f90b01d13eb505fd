package world

import (
	"math/rand"
	"time"

	"github.com/calderos/hollowdeep/core"
)

// GenConfig tunes dungeon generation.
type GenConfig struct {
	Width, Height int

	// Room count attempts; overlapping attempts are discarded.
	RoomAttempts int
	MinRoomSize  int
	MaxRoomSize  int

	Seed int64 // 0 = derive from the clock
}

// GenResult is a generated dungeon: terrain plus the room list for
// spawn placement. Rooms[0] is the player start room.
type GenResult struct {
	Terrain []Terrain
	Rooms   []Room
	Seed    int64
}

// Room is an axis-aligned floor rectangle.
type Room struct {
	X, Y, W, H int
}

// Center returns the room's center tile.
func (r Room) Center() core.Point {
	return core.Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

func (r Room) overlaps(o Room) bool {
	return r.X-1 < o.X+o.W && o.X-1 < r.X+r.W && r.Y-1 < o.Y+o.H && o.Y-1 < r.Y+r.H
}

// Generate carves a classic rooms-and-corridors dungeon: scatter
// non-overlapping rooms, then connect each room's center to the
// previous one with an L-shaped corridor. Deterministic for a fixed
// seed.
func Generate(cfg GenConfig) GenResult {
	if cfg.RoomAttempts <= 0 {
		cfg.RoomAttempts = 30
	}
	if cfg.MinRoomSize <= 0 {
		cfg.MinRoomSize = 4
	}
	if cfg.MaxRoomSize <= cfg.MinRoomSize {
		cfg.MaxRoomSize = cfg.MinRoomSize + 6
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	terrain := make([]Terrain, cfg.Width*cfg.Height)
	carve := func(p core.Point) {
		if p.X > 0 && p.Y > 0 && p.X < cfg.Width-1 && p.Y < cfg.Height-1 {
			terrain[p.Y*cfg.Width+p.X] = Floor
		}
	}

	var rooms []Room
	for i := 0; i < cfg.RoomAttempts; i++ {
		w := cfg.MinRoomSize + rng.Intn(cfg.MaxRoomSize-cfg.MinRoomSize+1)
		h := cfg.MinRoomSize + rng.Intn(cfg.MaxRoomSize-cfg.MinRoomSize+1)
		if w >= cfg.Width-2 || h >= cfg.Height-2 {
			continue
		}
		room := Room{
			X: 1 + rng.Intn(cfg.Width-w-2),
			Y: 1 + rng.Intn(cfg.Height-h-2),
			W: w,
			H: h,
		}

		collides := false
		for _, other := range rooms {
			if room.overlaps(other) {
				collides = true
				break
			}
		}
		if collides {
			continue
		}

		for y := room.Y; y < room.Y+room.H; y++ {
			for x := room.X; x < room.X+room.W; x++ {
				carve(core.Point{X: x, Y: y})
			}
		}

		if len(rooms) > 0 {
			prev := rooms[len(rooms)-1].Center()
			cur := room.Center()
			// Corridor: horizontal leg then vertical, or the reverse.
			if rng.Intn(2) == 0 {
				carveCorridor(carve, prev, core.Point{X: cur.X, Y: prev.Y})
				carveCorridor(carve, core.Point{X: cur.X, Y: prev.Y}, cur)
			} else {
				carveCorridor(carve, prev, core.Point{X: prev.X, Y: cur.Y})
				carveCorridor(carve, core.Point{X: prev.X, Y: cur.Y}, cur)
			}
		}
		rooms = append(rooms, room)
	}

	return GenResult{Terrain: terrain, Rooms: rooms, Seed: seed}
}

func carveCorridor(carve func(core.Point), from, to core.Point) {
	step := func(a, b int) int {
		switch {
		case a < b:
			return 1
		case a > b:
			return -1
		default:
			return 0
		}
	}

	p := from
	carve(p)
	for p != to {
		p = core.Point{X: p.X + step(p.X, to.X), Y: p.Y + step(p.Y, to.Y)}
		carve(p)
	}
}
