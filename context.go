package eureka

import (
	"fmt"
	"slices"
)

// Context is the execution context built for one task. Every phase of
// every applicable heuristic receives the same context; effect phases
// use its helpers so the task's results record stays accurate.
//
// There are no hidden singletons: the context carries the engine's
// store and agenda configuration explicitly.
type Context struct {
	// Task being executed.
	Task *Task

	// Unit is the task's target unit.
	Unit *Unit

	// Slot is the task's target slot name.
	Slot string

	// Results is the task's computed-values record; then_compute
	// phases write their derived values here.
	Results map[string]any

	engine    *Engine
	heuristic *Heuristic
	emitted   []*Task
}

// Store returns the engine's unit store.
func (c *Context) Store() *Store { return c.engine.store }

// Heuristic returns the heuristic currently being applied.
func (c *Context) Heuristic() *Heuristic { return c.heuristic }

// Get resolves a slot of the target unit with inheritance.
func (c *Context) Get(slot string, def any) any {
	return c.engine.store.Get(c.Unit.Name(), slot, def)
}

// SetSlot writes a slot on any unit and records the unit as modified
// in the task results.
func (c *Context) SetSlot(unit, slot string, value any) error {
	if err := c.engine.store.Set(unit, slot, value); err != nil {
		return err
	}
	c.noteModified(unit)
	return nil
}

// AddToSlot appends to a collection slot on any unit and records the
// unit as modified in the task results.
func (c *Context) AddToSlot(unit, slot string, value any) error {
	if err := c.engine.store.Add(unit, slot, value); err != nil {
		return err
	}
	c.noteModified(unit)
	return nil
}

// AdjustWorth shifts a unit's worth and records the modification.
func (c *Context) AdjustWorth(unit string, delta int) error {
	if err := c.engine.store.AdjustWorth(unit, delta); err != nil {
		return err
	}
	c.noteModified(unit)
	return nil
}

// EmitTask creates and buffers a child task targeting unit.slot. The
// child inherits the parent's supplemental map, its priority is the
// parent's reduced by the agenda's decay and blended with the target
// unit's worth and the emitting heuristic's worth, and the emitter is
// appended to the bounded credit chain. Buffered tasks are merged
// into the agenda when the current heuristic's pipeline finishes.
func (c *Context) EmitTask(unit, slot string, reasons ...string) *Task {
	t := c.Task.Child(c.heuristic.Name(), unit, slot, c.engine.agenda.Decay(), reasons...)
	uw := 0
	if u, ok := c.engine.store.Unit(unit); ok {
		uw = u.Worth()
	}
	t.Priority = c.engine.agenda.Weights().Blend(t.Priority, uw, c.heuristic.Worth())
	c.emitted = append(c.emitted, t)
	return t
}

// Emit buffers an already-built task for the agenda.
func (c *Context) Emit(t *Task) {
	c.emitted = append(c.emitted, t)
}

// Conjecture records a hypothesis: a claim plus supporting evidence,
// stored as a new unit tagged isa: conjecture and linked from the
// target unit's conjectures slot. No tasks are emitted.
func (c *Context) Conjecture(claim string, evidence ...any) (string, error) {
	name := fmt.Sprintf("conjecture-%d", c.engine.nextConjecture())
	u, err := c.engine.store.Create(name)
	if err != nil {
		return "", fmt.Errorf("recording conjecture: %w", err)
	}
	s := c.engine.store
	if err := s.Add(name, SlotIsa, "conjecture"); err != nil {
		return "", err
	}
	if err := s.Set(name, SlotClaim, claim); err != nil {
		return "", err
	}
	if len(evidence) > 0 {
		if err := s.Set(name, SlotEvidence, evidence); err != nil {
			return "", err
		}
	}
	if err := s.Add(c.Unit.Name(), SlotConjectures, name); err != nil {
		return "", err
	}
	c.noteNew(u.Name())
	c.noteModified(c.Unit.Name())
	return name, nil
}

// DefineSpecialization creates a new unit as a specialization of the
// target unit, wires the concept graph bidirectionally, records the
// creating heuristic in the new unit's creditors slot, and credits
// the task's ancestor heuristics with a small worth bump.
func (c *Context) DefineSpecialization(name string) (*Unit, error) {
	u, err := c.engine.store.Specialize(c.Unit.Name(), name)
	if err != nil {
		return nil, err
	}
	if err := c.engine.store.Add(name, SlotCreditors, c.heuristic.Name()); err != nil {
		return nil, err
	}
	c.noteNew(name)
	c.noteModified(c.Unit.Name())
	c.engine.creditChain(c.Task)
	return u, nil
}

// DefineUnit creates a brand-new unit (not a specialization), tags
// it, and records it in the task results.
func (c *Context) DefineUnit(name string, categories ...string) (*Unit, error) {
	u, err := c.engine.store.Create(name)
	if err != nil {
		return nil, err
	}
	for _, cat := range categories {
		if err := c.engine.store.Add(name, SlotIsa, cat); err != nil {
			return nil, err
		}
	}
	c.noteNew(name)
	c.engine.creditChain(c.Task)
	return u, nil
}

func (c *Context) noteNew(name string) {
	if !slices.Contains(c.Task.Results.NewUnits, name) {
		c.Task.Results.NewUnits = append(c.Task.Results.NewUnits, name)
	}
}

func (c *Context) noteModified(name string) {
	if !slices.Contains(c.Task.Results.ModifiedUnits, name) {
		c.Task.Results.ModifiedUnits = append(c.Task.Results.ModifiedUnits, name)
	}
}
