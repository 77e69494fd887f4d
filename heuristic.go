package eureka

import "fmt"

// Phase names one stage of the heuristic execution protocol. The
// first three are relevance guards, ordered cheap to expensive; the
// rest are effect phases. A missing phase is vacuously true for
// guards and a no-op for actions.
type Phase string

const (
	// PhaseIfWorkingOnTask is the cheap structural guard: does this
	// heuristic apply to this task's unit/slot shape at all.
	PhaseIfWorkingOnTask Phase = "if_working_on_task"

	// PhaseIfPotentiallyRelevant is an inexpensive
	// heuristic-specific predicate.
	PhaseIfPotentiallyRelevant Phase = "if_potentially_relevant"

	// PhaseIfTrulyRelevant is the expensive confirming predicate,
	// run only if the previous guards passed.
	PhaseIfTrulyRelevant Phase = "if_truly_relevant"

	// PhaseThenCompute is the primary effect: derive values, mutate
	// slots, record computed results.
	PhaseThenCompute Phase = "then_compute"

	// PhaseThenPrintToUser is an explanatory side channel; it must
	// not influence other phases or their recorded outcomes.
	PhaseThenPrintToUser Phase = "then_print_to_user"

	// PhaseThenAddToAgenda emits zero or more child tasks.
	PhaseThenAddToAgenda Phase = "then_add_to_agenda"

	// PhaseThenConjecture records a hypothesis without emitting tasks.
	PhaseThenConjecture Phase = "then_conjecture"

	// PhaseThenDefineNewConcepts creates new units and wires them
	// into the concept graph.
	PhaseThenDefineNewConcepts Phase = "then_define_new_concepts"
)

// AllPhases lists the phases in protocol order.
var AllPhases = []Phase{
	PhaseIfWorkingOnTask,
	PhaseIfPotentiallyRelevant,
	PhaseIfTrulyRelevant,
	PhaseThenCompute,
	PhaseThenPrintToUser,
	PhaseThenAddToAgenda,
	PhaseThenConjecture,
	PhaseThenDefineNewConcepts,
}

// ValidPhase reports whether name is a declared phase.
func ValidPhase(name string) bool {
	for _, p := range AllPhases {
		if string(p) == name {
			return true
		}
	}
	return false
}

// PhaseFunc is the shape of a phase callable. It receives the
// heuristic it belongs to and the execution context for the current
// task, and reports whether the phase passed. Returning an error (or
// panicking) is recorded as a failure for this phase of this
// heuristic only.
type PhaseFunc func(h *Heuristic, c *Context) (bool, error)

// CategoryHeuristic is the isa category marking a unit as a
// heuristic. Heuristics are ordinary units; anything tagged with this
// category and holding phase slots enters the dispatch loop,
// including units created by other heuristics at run time.
const CategoryHeuristic = "heuristic"

// A Heuristic is a view over a unit tagged isa: heuristic. Its phase
// callables and (successes, attempts) records live in ordinary slots
// of the underlying unit, so heuristics can be created and edited
// through the same mechanisms as any other unit.
type Heuristic struct {
	unit  *Unit
	store *Store
}

// Name returns the underlying unit's name.
func (h *Heuristic) Name() string { return h.unit.Name() }

// Unit returns the underlying unit.
func (h *Heuristic) Unit() *Unit { return h.unit }

// Worth returns the heuristic's base worth.
func (h *Heuristic) Worth() int { return h.unit.Worth() }

// SetWorth sets the heuristic's base worth, clipped to [0,1000].
func (h *Heuristic) SetWorth(w int) error {
	return h.store.Set(h.unit.Name(), SlotWorth, w)
}

// SetEnglish sets the heuristic's explanatory text.
func (h *Heuristic) SetEnglish(text string) error {
	return h.store.Set(h.unit.Name(), SlotEnglish, text)
}

// English returns the heuristic's explanatory text.
func (h *Heuristic) English() string {
	if v, ok := h.unit.Get(SlotEnglish); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// SetPhase installs a phase callable. The callable is stored as a
// Code slot value on the underlying unit: a pre-resolved capability
// handle, never source text.
func (h *Heuristic) SetPhase(p Phase, fn PhaseFunc) error {
	if !ValidPhase(string(p)) {
		return fmt.Errorf("heuristic %s: unknown phase %q", h.Name(), p)
	}
	return h.store.Set(h.unit.Name(), string(p), fn)
}

// PhaseFunc returns the installed callable for a phase, or nil.
func (h *Heuristic) PhaseFunc(p Phase) PhaseFunc {
	v, ok := h.unit.Get(string(p))
	if !ok {
		return nil
	}
	fn, _ := v.(PhaseFunc)
	return fn
}

// RecordFor returns the (successes, attempts) record for a phase.
func (h *Heuristic) RecordFor(p Phase) Record {
	v, _ := h.unit.Get(recordSlot(p))
	return decodeRecord(v)
}

// OverallRecord returns the whole-pipeline record: attempts counts
// every (heuristic, task) pair considered, successes counts pairs
// where every invoked phase passed.
func (h *Heuristic) OverallRecord() Record {
	v, _ := h.unit.Get(SlotOverallRecord)
	return decodeRecord(v)
}

// EffectiveWorth is the heuristic's scheduling weight:
// worth * (successes+1)/(attempts+2) over the overall record. It is
// recomputed here, when the heuristic is considered, rather than on
// every record update.
func (h *Heuristic) EffectiveWorth() float64 {
	return float64(h.Worth()) * h.OverallRecord().Ratio()
}

// bump updates a phase record: attempts on every invocation,
// successes on a true, error-free return.
func (h *Heuristic) bump(slot string, success bool) {
	v, _ := h.unit.Get(slot)
	r := decodeRecord(v)
	r.Attempts++
	if success {
		r.Successes++
	}
	// Record slots are declared in the core registry; a write can
	// only fail if the registry was replaced without them.
	_ = h.store.Set(h.unit.Name(), slot, []int{r.Successes, r.Attempts})
}
