package eureka

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
)

// Engine owns the unit store and the agenda and runs the heuristic
// execution protocol. It is explicitly constructed and threaded
// through every phase invocation via the Context; there are no
// process-wide registries.
//
// Execution is single-threaded and cooperative: one task runs to
// completion before the next is popped, and every phase runs to
// completion before the next phase or heuristic is considered.
type Engine struct {
	store    *Store
	agenda   *Agenda
	observer Observer
	log      *zap.Logger

	conjectures int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithStore supplies a pre-populated unit store.
func WithStore(s *Store) EngineOption {
	return func(e *Engine) { e.store = s }
}

// WithAgenda supplies a configured agenda.
func WithAgenda(a *Agenda) EngineOption {
	return func(e *Engine) { e.agenda = a }
}

// WithObserver installs an observer for phase-transition events.
func WithObserver(o Observer) EngineOption {
	return func(e *Engine) { e.observer = o }
}

// WithLogger installs a structured logger. The default is a no-op.
func WithLogger(log *zap.Logger) EngineOption {
	return func(e *Engine) { e.log = log }
}

// NewEngine creates an engine with an empty store and agenda unless
// options supply them.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		store:    NewStore(),
		agenda:   NewAgenda(),
		observer: NopObserver{},
		log:      zap.NewNop(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Store returns the engine's unit store.
func (e *Engine) Store() *Store { return e.store }

// Agenda returns the engine's agenda.
func (e *Engine) Agenda() *Agenda { return e.agenda }

// NewHeuristic creates a unit tagged isa: heuristic and returns the
// heuristic view over it. The returned heuristic enters the dispatch
// loop as soon as its structural guard accepts a task.
func (e *Engine) NewHeuristic(name string, worth int) (*Heuristic, error) {
	u, err := e.store.Create(name)
	if err != nil {
		return nil, fmt.Errorf("creating heuristic %s: %w", name, err)
	}
	if err := e.store.Add(name, SlotIsa, CategoryHeuristic); err != nil {
		return nil, err
	}
	if err := e.store.Set(name, SlotWorth, worth); err != nil {
		return nil, err
	}
	return &Heuristic{unit: u, store: e.store}, nil
}

// Heuristic returns the heuristic view over a unit, if the unit
// exists and is tagged isa: heuristic.
func (e *Engine) Heuristic(name string) (*Heuristic, bool) {
	u, ok := e.store.Unit(name)
	if !ok || !u.IsaContains(CategoryHeuristic) {
		return nil, false
	}
	return &Heuristic{unit: u, store: e.store}, true
}

// Heuristics returns all heuristics in scheduling order: effective
// worth descending, name ascending as a deterministic tie-break.
// Units created as heuristics during a run re-enter this list on the
// next task; there is no separate rule compiler.
func (e *Engine) Heuristics() []*Heuristic {
	names := e.store.UnitsInCategory(CategoryHeuristic)
	hs := make([]*Heuristic, 0, len(names))
	for _, n := range names {
		if h, ok := e.Heuristic(n); ok {
			hs = append(hs, h)
		}
	}
	sort.SliceStable(hs, func(i, j int) bool {
		wi, wj := hs[i].EffectiveWorth(), hs[j].EffectiveWorth()
		if wi != wj {
			return wi > wj
		}
		return hs[i].Name() < hs[j].Name()
	})
	return hs
}

// RunResult summarizes one Run.
type RunResult struct {
	TasksRun    int
	TasksFailed int
	NewUnits    []string
	Elapsed     time.Duration
}

// Run pops and executes tasks until the agenda is empty, maxTasks
// have run (0 = unlimited), or ctx is done. Cancellation is
// cooperative: it is only consulted between tasks, never inside one.
func (e *Engine) Run(ctx context.Context, maxTasks int) (*RunResult, error) {
	start := time.Now()
	res := &RunResult{}
	for {
		if maxTasks > 0 && res.TasksRun >= maxTasks {
			break
		}
		select {
		case <-ctx.Done():
			res.Elapsed = time.Since(start)
			return res, ctx.Err()
		default:
		}
		t := e.agenda.Next()
		if t == nil {
			break
		}
		e.RunTask(t)
		res.TasksRun++
		if t.Results.Status == TaskFailed {
			res.TasksFailed++
		}
		res.NewUnits = append(res.NewUnits, t.Results.NewUnits...)
	}
	res.Elapsed = time.Since(start)
	return res, nil
}

// RunTask executes one task: builds the context and runs the phase
// protocol for every heuristic, in scheduling order. A missing target
// unit or undeclared target slot is a StructuralError, fatal to this
// task only. The task's results record is filled in either way; after
// RunTask returns the task is an immutable log entry.
func (e *Engine) RunTask(t *Task) {
	u, ok := e.store.Unit(t.Unit)
	if !ok {
		t.Results.Status = TaskFailed
		t.Results.Err = &StructuralError{TaskID: t.ID, Unit: t.Unit, Slot: t.Slot, Err: ErrUnitNotFound}
		e.log.Warn("task failed", zap.String("task_id", t.ID), zap.Error(t.Results.Err))
		return
	}
	if !e.store.Registry().Exists(t.Slot) {
		t.Results.Status = TaskFailed
		t.Results.Err = &StructuralError{TaskID: t.ID, Unit: t.Unit, Slot: t.Slot, Err: ErrSlotNotFound}
		e.log.Warn("task failed", zap.String("task_id", t.ID), zap.Error(t.Results.Err))
		return
	}

	c := &Context{
		Task:    t,
		Unit:    u,
		Slot:    t.Slot,
		Results: t.Results.Values,
		engine:  e,
	}

	for _, h := range e.Heuristics() {
		e.apply(h, c)
	}
	t.Results.Status = TaskCompleted
}

// apply runs the staged protocol for one (heuristic, task) pair. The
// first phase that returns false, errors, or panics stops the
// sequence for this pair; one heuristic's fault never halts the
// agenda. Tasks the pair emitted are merged into the agenda
// afterward, whether or not a later phase failed.
func (e *Engine) apply(h *Heuristic, c *Context) {
	c.heuristic = h
	c.emitted = nil

	completed := true
	for _, p := range AllPhases {
		fn := h.PhaseFunc(p)
		if fn == nil {
			continue
		}
		ok, err := e.invoke(h, p, fn, c)
		if err != nil || !ok {
			completed = false
			break
		}
	}
	h.bump(SlotOverallRecord, completed)
	e.agenda.AddAll(c.emitted)
}

// invoke runs one phase callable with panic isolation, updates the
// phase record, and emits the phase-transition event.
func (e *Engine) invoke(h *Heuristic, p Phase, fn PhaseFunc, c *Context) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			err = &PhaseError{Heuristic: h.Name(), Phase: p, Err: fmt.Errorf("panic: %v", r)}
		}
		h.bump(recordSlot(p), ok && err == nil)
		e.observer.ObservePhase(Event{
			Heuristic: h.Name(),
			Phase:     p,
			TaskID:    c.Task.ID,
			Result:    ok && err == nil,
			Err:       err,
		})
		if err != nil {
			e.log.Warn("phase error", zap.String("heuristic", h.Name()),
				zap.String("phase", string(p)), zap.Error(err))
		}
	}()

	ok, err = fn(h, c)
	if err != nil {
		err = &PhaseError{Heuristic: h.Name(), Phase: p, Err: err}
	}
	return ok, err
}

// creditChain gives each ancestor heuristic on the task's credit
// chain a small worth bump when a downstream concept is created. The
// chain is bounded (MaxCreditChain), so credit cannot grow without
// limit across long task chains.
func (e *Engine) creditChain(t *Task) {
	for _, name := range t.Credits {
		if _, ok := e.Heuristic(name); ok {
			_ = e.store.AdjustWorth(name, 10)
		}
	}
}

func (e *Engine) nextConjecture() int {
	e.conjectures++
	return e.conjectures
}
