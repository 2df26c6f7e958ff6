package timer

import (
	"container/heap"
	"time"
)

// Queue schedules countdowns and deferred tasks for one world.
// It is driven by Update from the owning tick loop; all callbacks run
// synchronously inside Update on the caller's goroutine.
//
// Not thread-safe: a Queue belongs to exactly one tick loop.
type Queue struct {
	now     time.Time
	pending countdownHeap
	posted  []func()
	seq     uint64
}

// NewQueue creates a queue whose clock starts at start.
func NewQueue(start time.Time) *Queue {
	return &Queue{now: start}
}

// Now returns the time of the last Update.
func (q *Queue) Now() time.Time {
	return q.now
}

// Post defers fn until the current call chain has returned to the queue.
// Tasks run in FIFO order at the start of the next Update (or RunPosted).
func (q *Queue) Post(fn func()) {
	q.posted = append(q.posted, fn)
}

// PostedCount returns the number of deferred tasks waiting to run.
func (q *Queue) PostedCount() int {
	return len(q.posted)
}

// ScheduledCount returns the number of armed countdowns.
func (q *Queue) ScheduledCount() int {
	return len(q.pending)
}

// RunPosted runs deferred tasks until none remain, including tasks posted
// by the tasks themselves.
func (q *Queue) RunPosted() {
	for len(q.posted) > 0 {
		batch := q.posted
		q.posted = nil
		for _, fn := range batch {
			fn()
		}
	}
}

// Update advances the clock to now and fires every countdown whose end is
// not after now, in end-time order (ties fire in arming order).
// Deferred tasks run before the first countdown and after each one.
func (q *Queue) Update(now time.Time) {
	if now.After(q.now) {
		q.now = now
	}

	q.RunPosted()
	for len(q.pending) > 0 {
		next := q.pending[0]
		if next.end.After(q.now) {
			break
		}
		heap.Pop(&q.pending)
		if next.fn != nil {
			next.fn()
		}
		q.RunPosted()
	}
}

// NewCountdown creates an unarmed countdown that calls fn when it ends.
func (q *Queue) NewCountdown(fn func()) *Countdown {
	return &Countdown{queue: q, fn: fn, index: -1}
}

// Countdown is a re-armable one-shot timer owned by a Queue.
type Countdown struct {
	queue *Queue
	fn    func()
	end   time.Time
	seq   uint64
	index int // position in the heap, -1 when not armed
}

// SetEnd arms (or re-arms) the countdown to fire at the given time.
func (c *Countdown) SetEnd(at time.Time) {
	c.Cancel()
	c.end = at
	c.queue.seq++
	c.seq = c.queue.seq
	heap.Push(&c.queue.pending, c)
}

// SetDelay arms the countdown relative to the queue clock.
func (c *Countdown) SetDelay(d time.Duration) {
	c.SetEnd(c.queue.now.Add(d))
}

// Cancel disarms the countdown. Safe to call when not armed.
func (c *Countdown) Cancel() {
	if c.index < 0 {
		return
	}
	heap.Remove(&c.queue.pending, c.index)
}

// Running reports whether the countdown is armed.
func (c *Countdown) Running() bool {
	return c.index >= 0
}

// End returns the last armed end time.
func (c *Countdown) End() time.Time {
	return c.end
}

// Remaining returns the time left until the countdown fires, or 0 when not armed.
func (c *Countdown) Remaining() time.Duration {
	if c.index < 0 {
		return 0
	}
	d := c.end.Sub(c.queue.now)
	if d < 0 {
		return 0
	}
	return d
}

// countdownHeap orders armed countdowns by end time, then arming order.
type countdownHeap []*Countdown

func (h countdownHeap) Len() int { return len(h) }

func (h countdownHeap) Less(i, j int) bool {
	if h[i].end.Equal(h[j].end) {
		return h[i].seq < h[j].seq
	}
	return h[i].end.Before(h[j].end)
}

func (h countdownHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *countdownHeap) Push(x any) {
	c := x.(*Countdown)
	c.index = len(*h)
	*h = append(*h, c)
}

func (h *countdownHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	old[n-1] = nil
	c.index = -1
	*h = old[:n-1]
	return c
}
