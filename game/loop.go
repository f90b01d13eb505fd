package game

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/calderos/hollowdeep/action"
	"github.com/calderos/hollowdeep/core"
	"github.com/calderos/hollowdeep/input"
	"github.com/calderos/hollowdeep/render"
)

// RunInteractive drives the session from a tcell screen until the
// player quits or dies. The scheduler advances only between input
// events: each pass runs AI turns until the player's entry pops with an
// empty queue, which halts the pass and blocks on the keyboard.
func RunInteractive(ctx context.Context, s *Session, screen tcell.Screen) error {
	view := render.NewView(screen, s.World)

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	for {
		res := s.Step()
		s.draw(view)

		if !s.PlayerAlive() {
			s.drawGameOver(screen)
			waitForKey(ctx, events)
			return nil
		}
		if !res.Halted {
			// Budget exhausted or backlog; keep simulating before the
			// next input.
			continue
		}

		for s.Sched.AwaitingInput() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				switch ev := ev.(type) {
				case *tcell.EventResize:
					screen.Sync()
					s.draw(view)
				case *tcell.EventKey:
					cmd := input.Decode(ev)
					switch cmd.Kind {
					case input.Quit:
						return nil
					case input.Play:
						s.SubmitPlayerAction(cmd.Act)
					}
				}
			}
		}
	}
}

func (s *Session) draw(view *render.View) {
	pos, _ := s.World.PositionOf(s.Player)
	hp, _ := s.World.HealthOf(s.Player)
	status := render.StatusLine(hp, s.Sched.Queue().CurrentTime(), s.MonstersAlive())
	view.Draw(pos, status)
}

func (s *Session) drawGameOver(screen tcell.Screen) {
	w, h := screen.Size()
	msg := "You died. Press any key."
	x := (w - len(msg)) / 2
	if x < 0 {
		x = 0
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	for i, r := range msg {
		screen.SetContent(x+i, h/2, r, nil, style)
	}
	screen.Show()
}

func waitForKey(ctx context.Context, events <-chan tcell.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if _, isKey := ev.(*tcell.EventKey); isKey {
				return
			}
		}
	}
}

// RunBatch drives the session headless for at most maxPasses passes,
// answering every input halt with an autopilot action. Used by the sim
// command for scheduler load testing.
func RunBatch(ctx context.Context, s *Session, maxPasses int) error {
	rng := rand.New(rand.NewSource(s.Seed + 2))

	for pass := 0; pass < maxPasses; pass++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		res := s.Step()
		if !s.PlayerAlive() {
			return nil
		}
		if res.Halted {
			s.SubmitPlayerAction(autopilot(s, rng))
		}
	}
	return nil
}

// autopilot picks a random walkable step, or waits when boxed in.
func autopilot(s *Session, rng *rand.Rand) action.Action {
	pos, ok := s.World.PositionOf(s.Player)
	if !ok {
		return action.NewWait()
	}
	for _, i := range rng.Perm(len(core.AllDirections)) {
		d := core.AllDirections[i]
		if s.World.Walkable(pos.Add(d.Delta())) {
			return action.NewMove(d)
		}
	}
	return action.NewWait()
}

// Replay feeds a recorded player action stream into the session,
// stepping between actions exactly as the interactive loop would.
func Replay(ctx context.Context, s *Session, actions []action.Action) error {
	next := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		res := s.Step()
		if !s.PlayerAlive() {
			return nil
		}
		if !res.Halted {
			continue
		}
		if next >= len(actions) {
			return nil
		}
		s.SubmitPlayerAction(actions[next])
		next++
	}
}

// ParseRecordedAction turns a journaled action string back into an
// action. Only player-issued kinds are expected in journals.
func ParseRecordedAction(raw string) (action.Action, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return action.Action{}, fmt.Errorf("replay: empty action")
	}
	switch fields[0] {
	case "wait":
		return action.NewWait(), nil
	case "move":
		if len(fields) < 2 {
			return action.Action{}, fmt.Errorf("replay: move without direction: %q", raw)
		}
		for _, d := range core.AllDirections {
			if strings.EqualFold(d.String(), fields[1]) {
				return action.NewMove(d), nil
			}
		}
		return action.Action{}, fmt.Errorf("replay: unknown direction %q", fields[1])
	default:
		return action.Action{}, fmt.Errorf("replay: unsupported action %q", raw)
	}
}
