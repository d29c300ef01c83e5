package eventloop

import (
	"sort"
	"sync"
	"time"
)

// Manual is a Scheduler driven by hand. Posted work runs on Drain and timers
// fire on Advance, against a virtual clock.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	queue  []func()
	timers []*manualTimer
	seq    int
}

type manualTimer struct {
	m        *Manual
	deadline time.Time
	seq      int
	f        func()
	pending  bool
}

func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()

	was := t.pending
	t.pending = false
	return was
}

// NewManual returns a manual scheduler whose clock starts at a fixed epoch.
func NewManual() *Manual {
	return &Manual{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the virtual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) Post(f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, f)
}

func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	t := &manualTimer{m: m, deadline: m.now.Add(d), seq: m.seq, f: f, pending: true}
	m.timers = append(m.timers, t)
	return t
}

// Drain runs queued work, including work queued while draining, and returns
// how many functions ran.
func (m *Manual) Drain() int {
	ran := 0
	for {
		m.mu.Lock()
		if len(m.queue) == 0 {
			m.mu.Unlock()
			return ran
		}
		f := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()

		f()
		ran++
	}
}

// Advance moves the clock forward by d, firing due timers in deadline order
// and draining after each one.
func (m *Manual) Advance(d time.Duration) {
	m.Drain()

	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		t := m.next(target)
		if t == nil {
			break
		}
		m.Post(t.f)
		m.Drain()
	}

	m.mu.Lock()
	m.now = target
	m.mu.Unlock()
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, t := range m.timers {
		if t.pending {
			n++
		}
	}
	return n
}

// next pops the earliest pending timer due by target and moves the clock to it.
func (m *Manual) next(target time.Time) *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()

	live := m.timers[:0]
	for _, t := range m.timers {
		if t.pending {
			live = append(live, t)
		}
	}
	m.timers = live

	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].deadline.Equal(m.timers[j].deadline) {
			return m.timers[i].seq < m.timers[j].seq
		}
		return m.timers[i].deadline.Before(m.timers[j].deadline)
	})

	if len(m.timers) == 0 || m.timers[0].deadline.After(target) {
		return nil
	}

	t := m.timers[0]
	t.pending = false
	m.now = t.deadline
	return t
}
