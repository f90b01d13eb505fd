package engine

// Handle identifies an actor slot in the Arena. The generation field
// detects slot reuse: a handle whose generation no longer matches the
// slot's is a dangling reference to a despawned actor.
type Handle struct {
	Index      uint32
	Generation uint32
}

// Zero is the invalid handle. Generation 0 is never issued, so the zero
// value fails every arena lookup.
var Zero = Handle{}

type arenaSlot struct {
	actor      TurnActor
	generation uint32
	live       bool
}

// Arena owns every actor participating in the simulation. Slots are
// reused after despawn with a bumped generation. The scheduler holds
// handles into the arena but never spawns or despawns actors itself.
type Arena struct {
	slots []arenaSlot
	free  []uint32
	count int
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Spawn stores actor in a fresh or recycled slot and returns its handle.
func (a *Arena) Spawn(actor TurnActor) Handle {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		slot := &a.slots[idx]
		slot.actor = actor
		slot.generation++
		slot.live = true
		a.count++
		return Handle{Index: idx, Generation: slot.generation}
	}

	a.slots = append(a.slots, arenaSlot{actor: actor, generation: 1, live: true})
	a.count++
	return Handle{Index: uint32(len(a.slots) - 1), Generation: 1}
}

// Get returns the actor for h, or nil if the handle is stale or never
// existed.
func (a *Arena) Get(h Handle) *TurnActor {
	if int(h.Index) >= len(a.slots) {
		return nil
	}
	slot := &a.slots[h.Index]
	if !slot.live || slot.generation != h.Generation {
		return nil
	}
	return &slot.actor
}

// Contains reports whether h refers to a live slot.
func (a *Arena) Contains(h Handle) bool {
	return a.Get(h) != nil
}

// Despawn frees the slot for h. Returns false for stale handles.
// The slot's generation is bumped on the next Spawn, so existing copies
// of h go stale immediately.
func (a *Arena) Despawn(h Handle) bool {
	if int(h.Index) >= len(a.slots) {
		return false
	}
	slot := &a.slots[h.Index]
	if !slot.live || slot.generation != h.Generation {
		return false
	}
	slot.live = false
	slot.actor = TurnActor{}
	a.free = append(a.free, h.Index)
	a.count--
	return true
}

// Len returns the number of live actors.
func (a *Arena) Len() int {
	return a.count
}

// Range calls fn for every live actor. Spawning or despawning inside fn
// is not supported.
func (a *Arena) Range(fn func(h Handle, actor *TurnActor)) {
	for i := range a.slots {
		slot := &a.slots[i]
		if slot.live {
			fn(Handle{Index: uint32(i), Generation: slot.generation}, &slot.actor)
		}
	}
}
