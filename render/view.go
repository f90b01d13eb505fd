// Package render draws the dungeon onto a tcell screen: terrain,
// actors, and a one-line status bar. It reads world state and never
// mutates it.
package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/calderos/hollowdeep/core"
	"github.com/calderos/hollowdeep/world"
)

var (
	styleWall   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleFloor  = tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
	stylePlayer = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleActor  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// View renders a world onto a screen. The viewport scrolls to keep the
// player centered when the map exceeds the terminal.
type View struct {
	screen tcell.Screen
	world  *world.World
}

// NewView wraps screen and world for drawing.
func NewView(screen tcell.Screen, w *world.World) *View {
	return &View{screen: screen, world: w}
}

// Draw paints one full frame: terrain, actors, then the status line.
func (v *View) Draw(playerPos core.Point, status string) {
	v.screen.Clear()

	sw, sh := v.screen.Size()
	mapH := sh - 1
	if mapH < 1 {
		mapH = 1
	}
	ww, wh := v.world.Size()
	ox, oy := viewportOrigin(playerPos, sw, mapH, ww, wh)

	for sy := 0; sy < mapH; sy++ {
		for sx := 0; sx < sw; sx++ {
			p := core.Point{X: sx + ox, Y: sy + oy}
			if !v.world.InBounds(p) {
				continue
			}
			if h, ok := v.world.OccupantAt(p); ok {
				style := styleActor
				glyph := v.world.GlyphOf(h)
				if glyph == '@' {
					style = stylePlayer
				}
				v.screen.SetContent(sx, sy, glyph, nil, style)
				continue
			}
			switch v.world.TerrainAt(p) {
			case world.Wall:
				v.screen.SetContent(sx, sy, '#', nil, styleWall)
			case world.Floor:
				v.screen.SetContent(sx, sy, '.', nil, styleFloor)
			}
		}
	}

	for i, r := range status {
		if i >= sw {
			break
		}
		v.screen.SetContent(i, sh-1, r, nil, styleStatus)
	}

	v.screen.Show()
}

// StatusLine formats the standard status bar.
func StatusLine(hp int, turnTime uint64, monsters int) string {
	return fmt.Sprintf("HP %d | t=%d | monsters %d | hjkl/arrows move, . wait, q quit", hp, turnTime, monsters)
}

// viewportOrigin picks the top-left world tile for the viewport,
// centered on the player and clamped to the map edges.
func viewportOrigin(player core.Point, vw, vh, ww, wh int) (int, int) {
	clamp := func(v, max int) int {
		if v < 0 {
			return 0
		}
		if v > max {
			return max
		}
		return v
	}
	maxX := ww - vw
	maxY := wh - vh
	if maxX < 0 {
		maxX = 0
	}
	if maxY < 0 {
		maxY = 0
	}
	return clamp(player.X-vw/2, maxX), clamp(player.Y-vh/2, maxY)
}
