package world

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calderos/hollowdeep/core"
)

func TestGenerateIsDeterministicForSeed(t *testing.T) {
	cfg := GenConfig{Width: 60, Height: 30, Seed: 1234}
	a := Generate(cfg)
	b := Generate(cfg)
	require.Equal(t, a.Terrain, b.Terrain)
	require.Equal(t, a.Rooms, b.Rooms)
	require.Equal(t, int64(1234), a.Seed)
}

func TestGenerateDiffersAcrossSeeds(t *testing.T) {
	a := Generate(GenConfig{Width: 60, Height: 30, Seed: 1})
	b := Generate(GenConfig{Width: 60, Height: 30, Seed: 2})
	require.NotEqual(t, a.Terrain, b.Terrain)
}

func TestGeneratedRoomsAreFloorAndConnected(t *testing.T) {
	gen := Generate(GenConfig{Width: 60, Height: 30, Seed: 7})
	require.NotEmpty(t, gen.Rooms)

	w := New(60, 30, gen.Terrain, nil, Options{}, nil)
	for _, room := range gen.Rooms {
		for y := room.Y; y < room.Y+room.H; y++ {
			for x := room.X; x < room.X+room.W; x++ {
				require.True(t, w.Walkable(core.Point{X: x, Y: y}),
					"room tile (%d,%d) must be floor", x, y)
			}
		}
	}

	// Flood fill from the first room center reaches every room center:
	// the corridor chain connects the whole dungeon.
	start := gen.Rooms[0].Center()
	seen := map[core.Point]bool{start: true}
	frontier := []core.Point{start}
	for len(frontier) > 0 {
		p := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		for _, d := range core.AllDirections {
			next := p.Add(d.Delta())
			if !seen[next] && w.Walkable(next) {
				seen[next] = true
				frontier = append(frontier, next)
			}
		}
	}
	for i, room := range gen.Rooms {
		require.True(t, seen[room.Center()], "room %d center unreachable", i)
	}
}

func TestGenerateBorderStaysWalled(t *testing.T) {
	gen := Generate(GenConfig{Width: 40, Height: 20, Seed: 9})
	w := New(40, 20, gen.Terrain, nil, Options{}, nil)
	for x := 0; x < 40; x++ {
		require.Equal(t, Wall, w.TerrainAt(core.Point{X: x, Y: 0}))
		require.Equal(t, Wall, w.TerrainAt(core.Point{X: x, Y: 19}))
	}
	for y := 0; y < 20; y++ {
		require.Equal(t, Wall, w.TerrainAt(core.Point{X: 0, Y: y}))
		require.Equal(t, Wall, w.TerrainAt(core.Point{X: 39, Y: y}))
	}
}

func TestGreedyPatherStepsCloser(t *testing.T) {
	terrain := make([]Terrain, 20*20)
	for y := 1; y < 19; y++ {
		for x := 1; x < 19; x++ {
			terrain[y*20+x] = Floor
		}
	}
	w := New(20, 20, terrain, nil, Options{}, nil)

	from := core.Point{X: 3, Y: 3}
	to := core.Point{X: 10, Y: 10}
	dir, ok := GreedyPather{}.NextStep(from, to, w.Walkable)
	require.True(t, ok)
	require.Less(t, from.Add(dir.Delta()).Manhattan(to), from.Manhattan(to))
}

func TestGreedyPatherFailsWhenBoxedIn(t *testing.T) {
	// Single floor tile surrounded by wall.
	terrain := make([]Terrain, 5*5)
	terrain[2*5+2] = Floor
	w := New(5, 5, terrain, nil, Options{}, nil)

	_, ok := GreedyPather{}.NextStep(core.Point{X: 2, Y: 2}, core.Point{X: 4, Y: 4}, w.Walkable)
	require.False(t, ok)
}
