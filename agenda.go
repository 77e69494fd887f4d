package eureka

import (
	"container/heap"
	"slices"
)

// DefaultMinPriority is the floor below which tasks are dropped at
// the agenda boundary rather than queued.
const DefaultMinPriority = 150

// DefaultPriorityDecay is subtracted from a parent task's priority
// when a heuristic emits a child task.
const DefaultPriorityDecay = 100

// Agenda is the priority queue of pending tasks plus the history of
// executed ones. Higher priority is served first; equal priorities
// are served FIFO by insertion order so runs replay deterministically.
type Agenda struct {
	queue       taskQueue
	seq         uint64
	minPriority int
	decay       int
	weights     PriorityWeights
	history     []*Task
}

// AgendaOption configures an Agenda.
type AgendaOption func(*Agenda)

// WithMinPriority sets the floor below which tasks are not queued.
func WithMinPriority(p int) AgendaOption {
	return func(a *Agenda) { a.minPriority = p }
}

// WithPriorityDecay sets the priority reduction applied to child tasks.
func WithPriorityDecay(d int) AgendaOption {
	return func(a *Agenda) { a.decay = d }
}

// WithPriorityWeights sets how a new task's priority is blended with
// the target unit's worth and the creating heuristic's worth.
func WithPriorityWeights(w PriorityWeights) AgendaOption {
	return func(a *Agenda) { a.weights = w }
}

// NewAgenda returns an empty agenda.
func NewAgenda(opts ...AgendaOption) *Agenda {
	a := &Agenda{
		minPriority: DefaultMinPriority,
		decay:       DefaultPriorityDecay,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Decay returns the configured child-task priority reduction.
func (a *Agenda) Decay() int { return a.decay }

// Weights returns the configured priority blend weights.
func (a *Agenda) Weights() PriorityWeights { return a.weights }

// Add queues a task. Tasks below the minimum priority are dropped.
// If a pending task already targets the same (unit, slot), the two
// are merged instead: reasons are unioned and the merged task is
// re-priced upward, keeping the original task's queue position for
// FIFO fairness.
func (a *Agenda) Add(t *Task) bool {
	if t == nil || t.Priority < a.minPriority {
		return false
	}
	for _, q := range a.queue {
		if q.Unit == t.Unit && q.Slot == t.Slot {
			a.merge(q, t)
			heap.Fix(&a.queue, q.index)
			return true
		}
	}
	t.seq = a.seq
	a.seq++
	heap.Push(&a.queue, t)
	return true
}

// AddAll queues each task in order; returns how many were accepted.
func (a *Agenda) AddAll(tasks []*Task) int {
	n := 0
	for _, t := range tasks {
		if a.Add(t) {
			n++
		}
	}
	return n
}

// merge folds a new task into a queued one targeting the same
// (unit, slot): union of reasons, priority bumped by a bonus that
// grows with the number of distinct reasons.
func (a *Agenda) merge(q, t *Task) {
	for _, r := range t.Reasons {
		if !slices.Contains(q.Reasons, r) {
			q.Reasons = append(q.Reasons, r)
		}
	}
	base := q.Priority
	if t.Priority > base {
		base = t.Priority
	}
	bonus := 100 * len(q.Reasons)
	if bonus < 10 {
		bonus = 10
	}
	q.Priority = clipWorth(base + bonus)
}

// Next pops the highest-priority pending task, or nil if the agenda
// is empty. The popped task is appended to the history.
func (a *Agenda) Next() *Task {
	if a.queue.Len() == 0 {
		return nil
	}
	t := heap.Pop(&a.queue).(*Task)
	a.history = append(a.history, t)
	return t
}

// Len is the number of pending tasks.
func (a *Agenda) Len() int { return a.queue.Len() }

// History returns the executed tasks, oldest first.
func (a *Agenda) History() []*Task { return slices.Clone(a.history) }

// taskQueue implements heap.Interface ordered by priority descending,
// then insertion sequence ascending.
type taskQueue []*Task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].Priority != q[j].Priority {
		return q[i].Priority > q[j].Priority
	}
	return q[i].seq < q[j].seq
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x any) {
	t := x.(*Task)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
