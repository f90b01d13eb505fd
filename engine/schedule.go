package engine

import "container/heap"

// ScheduleEntry is one (wake time, actor) pair in the queue. Seq is the
// insertion sequence number and serves as the deterministic tie-break
// between equal wake times.
type ScheduleEntry struct {
	Wake   uint64
	Seq    uint64
	Handle Handle
}

// scheduleHeap orders entries by time-until-wake relative to the owning
// queue's current time. Ranking by (wake - now) with wrapping
// subtraction instead of comparing wake values directly keeps the order
// correct across uint64 overflow: a wake just past the wrap point ranks
// sooner than one far in the future.
type scheduleHeap struct {
	items []ScheduleEntry
	now   *uint64
}

func (h *scheduleHeap) Len() int { return len(h.items) }

func (h *scheduleHeap) Less(i, j int) bool {
	di := h.items[i].Wake - *h.now
	dj := h.items[j].Wake - *h.now
	if di != dj {
		return di < dj
	}
	return h.items[i].Seq < h.items[j].Seq
}

func (h *scheduleHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
}

func (h *scheduleHeap) Push(x any) {
	h.items = append(h.items, x.(ScheduleEntry))
}

func (h *scheduleHeap) Pop() any {
	old := h.items
	n := len(old)
	entry := old[n-1]
	h.items = old[:n-1]
	return entry
}

// ScheduleQueue is the time-ordered priority structure over all
// scheduled actors. It holds a single wrapping uint64 clock; current
// time only moves forward as entries are popped (or via AdvanceTo in
// tests).
type ScheduleQueue struct {
	current  uint64
	seq      uint64
	capacity int
	heap     scheduleHeap
}

// DefaultQueueCapacity bounds the schedule when no explicit capacity is
// configured.
const DefaultQueueCapacity = 10000

// NewScheduleQueue creates an empty queue. capacity <= 0 selects
// DefaultQueueCapacity.
func NewScheduleQueue(capacity int) *ScheduleQueue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	q := &ScheduleQueue{capacity: capacity}
	q.heap.now = &q.current
	return q
}

// Push schedules h to wake at the given time. Returns ErrQueueFull when
// the configured capacity is exceeded.
func (q *ScheduleQueue) Push(h Handle, wake uint64) error {
	if len(q.heap.items) >= q.capacity {
		return ErrQueueFull
	}
	q.seq++
	heap.Push(&q.heap, ScheduleEntry{Wake: wake, Seq: q.seq, Handle: h})
	return nil
}

// PopReady removes and returns the entry with the minimal wake time and
// advances current time to it.
func (q *ScheduleQueue) PopReady() (ScheduleEntry, bool) {
	if len(q.heap.items) == 0 {
		return ScheduleEntry{}, false
	}
	entry := heap.Pop(&q.heap).(ScheduleEntry)
	q.current = entry.Wake
	return entry, true
}

// Peek returns the next entry without removing it.
func (q *ScheduleQueue) Peek() (ScheduleEntry, bool) {
	if len(q.heap.items) == 0 {
		return ScheduleEntry{}, false
	}
	return q.heap.items[0], true
}

// IsScheduled reports whether h has an outstanding entry. Linear scan;
// queue sizes stay small enough that an index is not worth carrying.
func (q *ScheduleQueue) IsScheduled(h Handle) bool {
	for i := range q.heap.items {
		if q.heap.items[i].Handle == h {
			return true
		}
	}
	return false
}

// EntryCount returns the number of outstanding entries for h. Exists
// for invariant tests; linear like IsScheduled.
func (q *ScheduleQueue) EntryCount(h Handle) int {
	n := 0
	for i := range q.heap.items {
		if q.heap.items[i].Handle == h {
			n++
		}
	}
	return n
}

// Len returns the number of scheduled entries.
func (q *ScheduleQueue) Len() int {
	return len(q.heap.items)
}

// CurrentTime returns the queue clock.
func (q *ScheduleQueue) CurrentTime() uint64 {
	return q.current
}

// TimeUntil returns the wrapping distance from current time to t.
func (q *ScheduleQueue) TimeUntil(t uint64) uint64 {
	return t - q.current
}

// IsBefore reports whether time a ranks sooner than time b relative to
// the current clock, accounting for wraparound.
func (q *ScheduleQueue) IsBefore(a, b uint64) bool {
	return q.TimeUntil(a) < q.TimeUntil(b)
}

// AdvanceTo forcibly moves the clock forward to t. Test-only escape
// hatch; normal operation advances the clock exclusively through
// PopReady. The heap is re-established because ranking depends on the
// clock.
func (q *ScheduleQueue) AdvanceTo(t uint64) {
	q.current = t
	heap.Init(&q.heap)
}

// Rebuild retains only the entries keep approves of and re-establishes
// the heap. Returns the number of entries dropped. Cleanup sweeps are
// the only caller.
func (q *ScheduleQueue) Rebuild(keep func(Handle) bool) int {
	kept := q.heap.items[:0]
	removed := 0
	for _, entry := range q.heap.items {
		if keep(entry.Handle) {
			kept = append(kept, entry)
		} else {
			removed++
		}
	}
	q.heap.items = kept
	heap.Init(&q.heap)
	return removed
}
