package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"

	"github.com/calderos/hollowdeep/action"
	"github.com/calderos/hollowdeep/core"
)

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestViMovementKeys(t *testing.T) {
	cases := map[rune]core.Direction{
		'h': core.West, 'j': core.South, 'k': core.North, 'l': core.East,
		'y': core.NorthWest, 'u': core.NorthEast, 'b': core.SouthWest, 'n': core.SouthEast,
	}
	for r, want := range cases {
		cmd := Decode(key(r))
		require.Equal(t, Play, cmd.Kind, "key %q", r)
		require.Equal(t, action.MoveDelta, cmd.Act.Kind)
		require.Equal(t, want, cmd.Act.Dir, "key %q", r)
	}
}

func TestArrowKeys(t *testing.T) {
	cmd := Decode(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone))
	require.Equal(t, Play, cmd.Kind)
	require.Equal(t, core.North, cmd.Act.Dir)
}

func TestWaitAndQuit(t *testing.T) {
	require.Equal(t, action.Wait, Decode(key('.')).Act.Kind)
	require.Equal(t, Quit, Decode(key('q')).Kind)
	require.Equal(t, Quit, Decode(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)).Kind)
	require.Equal(t, None, Decode(key('z')).Kind)
}
