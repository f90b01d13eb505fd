// Package game wires the engine, world, AI and persistence into a
// playable session. The cmd layer stays thin: it parses flags, builds a
// Session, and hands over control.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/calderos/hollowdeep/action"
	"github.com/calderos/hollowdeep/ai"
	"github.com/calderos/hollowdeep/config"
	"github.com/calderos/hollowdeep/core"
	"github.com/calderos/hollowdeep/engine"
	"github.com/calderos/hollowdeep/journal"
	"github.com/calderos/hollowdeep/metrics"
	"github.com/calderos/hollowdeep/telemetry"
	"github.com/calderos/hollowdeep/world"
)

// Session is one run of the dungeon: generated map, spawned actors, a
// scheduler driving them, and optional journal/telemetry sinks.
type Session struct {
	RunID string
	Seed  int64

	Cfg      config.Tuning
	Registry *metrics.Registry
	Arena    *engine.Arena
	World    *world.World
	Sched    *engine.Scheduler
	Brain    *ai.Brain
	Player   engine.Handle

	log       *slog.Logger
	jw        *journal.Writer
	store     *telemetry.Store
	startedAt time.Time
	turnSeq   uint64
}

// Options configures session construction beyond the tuning file.
type Options struct {
	Seed        int64 // 0 = random
	JournalDir  string
	TelemetryDB string
}

// NewSession generates a dungeon, spawns the player and monsters, and
// wires the scheduler. log may be nil.
func NewSession(cfg config.Tuning, opts Options, log *slog.Logger) (*Session, error) {
	if log == nil {
		log = slog.Default()
	}
	reg := metrics.NewRegistry()

	gen := world.Generate(world.GenConfig{
		Width:  cfg.World.Width,
		Height: cfg.World.Height,
		Seed:   opts.Seed,
	})
	if len(gen.Rooms) == 0 {
		return nil, fmt.Errorf("game: generation produced no rooms (map %dx%d)", cfg.World.Width, cfg.World.Height)
	}

	arena := engine.NewArena()
	w := world.New(cfg.World.Width, cfg.World.Height, gen.Terrain, arena, world.Options{
		SpeedScaling: cfg.Scheduler.SpeedScaling,
		AttackDamage: cfg.World.AttackDamage,
	}, log)

	player := arena.Spawn(engine.NewTurnActor(cfg.World.PlayerSpeed))
	if err := w.PlaceActor(player, gen.Rooms[0].Center(), cfg.World.PlayerHP, '@'); err != nil {
		return nil, fmt.Errorf("game: place player: %w", err)
	}

	sched := engine.NewScheduler(arena, w, engine.Options{
		QueueCapacity:    cfg.Scheduler.QueueCapacity,
		CleanupThreshold: cfg.Scheduler.CleanupThreshold,
		MaxTurnsPerPass:  cfg.Scheduler.MaxTurnsPerPass,
		RetryCap:         cfg.Scheduler.RetryCap,
		IdleCost:         cfg.Scheduler.IdleCost,
	}, log, reg)
	sched.SetPlayer(player)
	if err := sched.Schedule(player); err != nil {
		return nil, fmt.Errorf("game: schedule player: %w", err)
	}

	s := &Session{
		RunID:     uuid.NewString(),
		Seed:      gen.Seed,
		Cfg:       cfg,
		Registry:  reg,
		Arena:     arena,
		World:     w,
		Sched:     sched,
		Player:    player,
		log:       log,
		startedAt: time.Now(),
	}

	if err := s.spawnMonsters(gen); err != nil {
		return nil, err
	}

	s.Brain = ai.New(w, arena, player, ai.Options{Seed: gen.Seed}, log)

	if opts.JournalDir != "" {
		jw, err := journal.NewWriter(opts.JournalDir, journal.Header{
			RunID: s.RunID, Seed: s.Seed, StartedAt: s.startedAt.UTC(),
		})
		if err != nil {
			return nil, err
		}
		s.jw = jw
	}
	if opts.TelemetryDB != "" {
		store, err := telemetry.Open(opts.TelemetryDB)
		if err != nil {
			return nil, err
		}
		s.store = store
	}

	log.Info("session started", "run", s.RunID, "seed", s.Seed,
		"map", fmt.Sprintf("%dx%d", cfg.World.Width, cfg.World.Height),
		"rooms", len(gen.Rooms))
	return s, nil
}

// spawnMonsters distributes monsters across rooms past the first. With
// a single-room map they share the player's room.
func (s *Session) spawnMonsters(gen world.GenResult) error {
	glyphs := []rune("rgosk")
	rooms := gen.Rooms
	if len(rooms) > 1 {
		rooms = rooms[1:]
	}
	rng := rand.New(rand.NewSource(gen.Seed + 1))

	spawned := 0
	for i := 0; spawned < s.Cfg.World.Monsters && i < s.Cfg.World.Monsters*10; i++ {
		room := rooms[rng.Intn(len(rooms))]
		pos := core.Point{
			X: room.X + rng.Intn(room.W),
			Y: room.Y + rng.Intn(room.H),
		}
		if !s.World.Walkable(pos) {
			continue
		}
		if _, occupied := s.World.OccupantAt(pos); occupied {
			continue
		}

		h := s.Arena.Spawn(engine.NewTurnActor(s.Cfg.World.MonsterSpeed))
		if err := s.World.PlaceActor(h, pos, s.Cfg.World.MonsterHP, glyphs[spawned%len(glyphs)]); err != nil {
			s.Arena.Despawn(h)
			continue
		}
		if err := s.Sched.Schedule(h); err != nil {
			return fmt.Errorf("game: schedule monster: %w", err)
		}
		spawned++
	}
	return nil
}

// Step advances the simulation one pass: AI decisions, then the
// scheduler, then journal bookkeeping for drained events.
func (s *Session) Step() engine.PassResult {
	s.Brain.Think()
	res := s.Sched.RunPass()
	s.journalEvents()
	return res
}

// SubmitPlayerAction queues the player's next action, journals it, and
// reports whether the player could accept it.
func (s *Session) SubmitPlayerAction(act action.Action) bool {
	if !s.Sched.PushPlayerAction(act) {
		return false
	}
	s.recordPlayerAction(act)
	return true
}

// PlayerAlive reports whether the player actor is still live.
func (s *Session) PlayerAlive() bool {
	actor := s.Arena.Get(s.Player)
	return actor != nil && actor.IsAlive()
}

// MonstersAlive counts live non-player actors.
func (s *Session) MonstersAlive() int {
	count := 0
	s.Arena.Range(func(h engine.Handle, actor *engine.TurnActor) {
		if h != s.Player && actor.IsAlive() {
			count++
		}
	})
	return count
}

// Close flushes sinks and records the run summary.
func (s *Session) Close(ctx context.Context) error {
	var firstErr error
	if s.jw != nil {
		if err := s.jw.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.store != nil {
		snap := s.Registry.Snapshot()
		sum := telemetry.RunSummary{
			RunID:       s.RunID,
			Seed:        s.Seed,
			StartedAt:   s.startedAt,
			FinishedAt:  time.Now(),
			Turns:       int64(snap["scheduler.turns_processed"]),
			Passes:      int64(snap["scheduler.passes"]),
			Cleanups:    int64(snap["scheduler.cleanups"]),
			Removed:     int64(snap["scheduler.cleanup_removed"]),
			PlayerAlive: s.PlayerAlive(),
		}
		if err := s.store.RecordRun(ctx, sum, snap); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := s.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.log.Info("session closed", "run", s.RunID, "player_alive", s.PlayerAlive())
	return firstErr
}

func (s *Session) recordPlayerAction(act action.Action) {
	if s.jw == nil {
		return
	}
	s.turnSeq++
	rec := journal.TurnRecord{
		Seq:    s.turnSeq,
		Time:   s.Sched.Queue().CurrentTime(),
		Actor:  handleString(s.Player),
		Action: act.String(),
	}
	if err := s.jw.WriteTurn(rec); err != nil {
		s.log.Warn("journal write failed", "err", err)
	}
}

func (s *Session) journalEvents() {
	if s.jw == nil {
		// Events still need draining so the buffer cannot grow unbounded.
		s.World.DrainEvents()
		return
	}
	events := s.World.DrainEvents()
	if len(events) == 0 {
		return
	}
	s.turnSeq++
	rec := journal.TurnRecord{
		Seq:    s.turnSeq,
		Time:   s.Sched.Queue().CurrentTime(),
		Actor:  "world",
		Action: "events",
		Events: make([]journal.EventRecord, 0, len(events)),
	}
	for _, ev := range events {
		rec.Events = append(rec.Events, eventRecord(ev))
	}
	if err := s.jw.WriteTurn(rec); err != nil {
		s.log.Warn("journal write failed", "err", err)
	}
}

func eventRecord(ev world.Event) journal.EventRecord {
	kinds := map[world.EventKind]string{
		world.EventMove:     "move",
		world.EventAttack:   "attack",
		world.EventDeath:    "death",
		world.EventTeleport: "teleport",
	}
	rec := journal.EventRecord{
		Kind:   kinds[ev.Kind],
		Actor:  handleString(ev.Actor),
		X:      ev.Pos.X,
		Y:      ev.Pos.Y,
		Damage: ev.Damage,
	}
	if ev.Target != (engine.Handle{}) {
		rec.Target = handleString(ev.Target)
	}
	return rec
}

func handleString(h engine.Handle) string {
	return fmt.Sprintf("%d:%d", h.Index, h.Generation)
}
