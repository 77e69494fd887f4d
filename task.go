package eureka

import (
	"slices"

	"github.com/google/uuid"
)

// TaskStatus is the final status of an executed task.
type TaskStatus string

const (
	// TaskPending marks a task that has not been popped yet.
	TaskPending TaskStatus = "pending"

	// TaskCompleted marks a task that ran to the end of the loop,
	// whether or not any heuristic was relevant to it.
	TaskCompleted TaskStatus = "completed"

	// TaskFailed marks a task whose target unit or slot was missing.
	TaskFailed TaskStatus = "failed"
)

// MaxCreditChain bounds the credit chain carried on a task. When a
// heuristic emits a child task the emitter is appended and the oldest
// entry past the cap is dropped.
const MaxCreditChain = 4

// A Task is a scheduled piece of work: examine one slot of one unit.
// Tasks are created at bootstrap or by a heuristic's agenda-emitting
// phase. Once popped and executed a task is an immutable log entry;
// it is never re-queued and never mutated after completion.
type Task struct {
	// ID is a unique identifier assigned at creation.
	ID string

	// Priority in [0,1000]; higher runs first.
	Priority int

	// Unit is the name of the target unit.
	Unit string

	// Slot is the name of the target slot.
	Slot string

	// Reasons records, in order, why this task was created.
	Reasons []string

	// Supplemental carries forwarding context between cooperating
	// heuristics, e.g. which slot a follow-up task should vary.
	Supplemental map[string]any

	// Credits is the bounded chain of heuristic names that led to
	// this task, oldest first.
	Credits []string

	// Results accumulates what happened while the task ran.
	Results TaskResults

	// seq preserves insertion order for FIFO service of
	// equal-priority tasks; index is the heap position.
	seq   uint64
	index int
}

// TaskResults is the record accumulated while a task executes.
type TaskResults struct {
	Status        TaskStatus
	NewUnits      []string
	ModifiedUnits []string
	Values        map[string]any
	Err           error
}

// NewTask creates a pending task targeting unit.slot.
func NewTask(unit, slot string, priority int, reasons ...string) *Task {
	return &Task{
		ID:           uuid.NewString(),
		Priority:     clipWorth(priority),
		Unit:         unit,
		Slot:         slot,
		Reasons:      reasons,
		Supplemental: map[string]any{},
		Results: TaskResults{
			Status: TaskPending,
			Values: map[string]any{},
		},
	}
}

// Child creates a follow-up task emitted on behalf of the named
// heuristic. The child's priority is the parent's reduced by decay,
// the supplemental map is copied so the parent's log entry stays
// immutable, and the emitter is appended to the credit chain.
func (t *Task) Child(heuristic, unit, slot string, decay int, reasons ...string) *Task {
	c := NewTask(unit, slot, t.Priority-decay, reasons...)
	for k, v := range t.Supplemental {
		c.Supplemental[k] = v
	}
	c.Credits = append(slices.Clone(t.Credits), heuristic)
	if n := len(c.Credits); n > MaxCreditChain {
		c.Credits = c.Credits[n-MaxCreditChain:]
	}
	return c
}

// PriorityWeights blends a creator-supplied priority with the target
// unit's worth and the creating heuristic's worth. Zero-value weights
// keep the supplied priority unchanged.
type PriorityWeights struct {
	Task      float64
	Unit      float64
	Heuristic float64
}

// Blend computes the weighted average, clipped to [0,1000].
func (w PriorityWeights) Blend(priority, unitWorth, heuristicWorth int) int {
	total := w.Task + w.Unit + w.Heuristic
	if total == 0 {
		return clipWorth(priority)
	}
	b := (w.Task*float64(priority) + w.Unit*float64(unitWorth) + w.Heuristic*float64(heuristicWorth)) / total
	return clipWorth(int(b))
}
