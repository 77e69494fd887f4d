// Package heuristics provides a starter set of discovery heuristics.
// Each Register function receives a fresh heuristic unit and installs
// its worth, explanatory text, and phase callables. The phase
// functions are also exported by name through Capabilities, so
// bootstrap files can reference them with "code:" slots.
package heuristics

import (
	"fmt"

	"github.com/ezachrisen/eureka"
)

// WorthFloor is the score below which the garbage collector demotes a
// unit; units that reach zero are deleted.
const WorthFloor = 100

// demotion applied by the garbage collector on each pass.
const demotion = 25

// RegisterAll installs the full starter set on the engine.
func RegisterAll(e *eureka.Engine) error {
	for _, reg := range []func(*eureka.Engine) (*eureka.Heuristic, error){
		RegisterSpecializer,
		RegisterExampleCollector,
		RegisterConjecturer,
		RegisterGarbageCollector,
	} {
		if _, err := reg(e); err != nil {
			return err
		}
	}
	return nil
}

// Capabilities returns the phase functions by reference name, for use
// with a bootstrap capability registry.
func Capabilities() map[string]eureka.PhaseFunc {
	return map[string]eureka.PhaseFunc{
		"specializer.guard":          specializerGuard,
		"specializer.relevant":       specializerRelevant,
		"specializer.truly_relevant": specializerTrulyRelevant,
		"specializer.compute":        specializerCompute,
		"specializer.agenda":         specializerAgenda,
		"specializer.define":         specializerDefine,
		"collector.guard":            collectorGuard,
		"collector.relevant":         collectorRelevant,
		"collector.compute":          collectorCompute,
		"conjecturer.guard":          conjecturerGuard,
		"conjecturer.relevant":       conjecturerRelevant,
		"conjecturer.conjecture":     conjecturerConjecture,
		"gc.guard":                   gcGuard,
		"gc.compute":                 gcCompute,
	}
}

// RegisterSpecializer installs the specializer: a concept with
// enough supporting examples and a healthy worth gets a
// specialization along a chosen slot, and a follow-up task asks the
// example collector to populate the new concept.
func RegisterSpecializer(e *eureka.Engine) (*eureka.Heuristic, error) {
	h, err := e.NewHeuristic("h-specializer", 700)
	if err != nil {
		return nil, err
	}
	if err := h.SetEnglish("If a concept has supporting examples and worthwhile worth, " +
		"define a specialization of it along a chosen slot"); err != nil {
		return nil, err
	}
	phases := map[eureka.Phase]eureka.PhaseFunc{
		eureka.PhaseIfWorkingOnTask:       specializerGuard,
		eureka.PhaseIfPotentiallyRelevant: specializerRelevant,
		eureka.PhaseIfTrulyRelevant:       specializerTrulyRelevant,
		eureka.PhaseThenCompute:           specializerCompute,
		eureka.PhaseThenAddToAgenda:       specializerAgenda,
		eureka.PhaseThenDefineNewConcepts: specializerDefine,
	}
	return h, setPhases(h, phases)
}

func specializerGuard(h *eureka.Heuristic, c *eureka.Context) (bool, error) {
	return c.Slot == eureka.SlotSpecializations, nil
}

func specializerRelevant(h *eureka.Heuristic, c *eureka.Context) (bool, error) {
	return len(c.Unit.Examples()) > 0, nil
}

func specializerTrulyRelevant(h *eureka.Heuristic, c *eureka.Context) (bool, error) {
	return c.Unit.Worth() >= 400, nil
}

func specializerCompute(h *eureka.Heuristic, c *eureka.Context) (bool, error) {
	slot := eureka.SlotExamples
	if v, ok := c.Task.Supplemental["slot_to_change"].(string); ok && v != "" {
		slot = v
	}
	c.Results["slot_to_change"] = slot
	c.Results["specialization_name"] = specializationName(c.Unit.Name(), slot)
	return true, nil
}

func specializerAgenda(h *eureka.Heuristic, c *eureka.Context) (bool, error) {
	name, _ := c.Results["specialization_name"].(string)
	t := c.EmitTask(name, eureka.SlotExamples,
		fmt.Sprintf("populate new specialization of %s", c.Unit.Name()))
	t.Supplemental["slot_to_change"] = c.Results["slot_to_change"]
	t.Supplemental["parent"] = c.Unit.Name()
	return true, nil
}

func specializerDefine(h *eureka.Heuristic, c *eureka.Context) (bool, error) {
	name, _ := c.Results["specialization_name"].(string)
	slot, _ := c.Results["slot_to_change"].(string)
	u, err := c.DefineSpecialization(name)
	if err != nil {
		return false, err
	}
	if err := c.SetSlot(u.Name(), eureka.SlotSlotToChange, slot); err != nil {
		return false, err
	}
	return true, nil
}

func specializationName(unit, slot string) string {
	return fmt.Sprintf("%s-by-%s", unit, slot)
}

// RegisterExampleCollector installs the example collector: tasks
// about a concept's examples slot pull in examples from the concept's
// specializations and from inheritance.
func RegisterExampleCollector(e *eureka.Engine) (*eureka.Heuristic, error) {
	h, err := e.NewHeuristic("h-example-collector", 600)
	if err != nil {
		return nil, err
	}
	if err := h.SetEnglish("Collect examples of a concept from its neighbors " +
		"in the concept graph"); err != nil {
		return nil, err
	}
	phases := map[eureka.Phase]eureka.PhaseFunc{
		eureka.PhaseIfWorkingOnTask:       collectorGuard,
		eureka.PhaseIfPotentiallyRelevant: collectorRelevant,
		eureka.PhaseThenCompute:           collectorCompute,
	}
	return h, setPhases(h, phases)
}

func collectorGuard(h *eureka.Heuristic, c *eureka.Context) (bool, error) {
	return c.Slot == eureka.SlotExamples, nil
}

func collectorRelevant(h *eureka.Heuristic, c *eureka.Context) (bool, error) {
	return len(c.Unit.Specializations()) > 0 || len(c.Unit.Generalizations()) > 0, nil
}

func collectorCompute(h *eureka.Heuristic, c *eureka.Context) (bool, error) {
	have := c.Unit.Examples()
	found := 0

	add := func(candidates []any) error {
		for _, e := range candidates {
			if containsValue(have, e) {
				continue
			}
			if err := c.AddToSlot(c.Unit.Name(), eureka.SlotExamples, e); err != nil {
				return err
			}
			have = append(have, e)
			found++
		}
		return nil
	}

	for _, spec := range c.Unit.Specializations() {
		u, ok := c.Store().Unit(spec)
		if !ok {
			continue
		}
		if err := add(u.Examples()); err != nil {
			return false, err
		}
	}
	if inherited := c.Get(eureka.SlotExamples, nil); inherited != nil {
		if l, ok := inherited.([]any); ok {
			if err := add(l); err != nil {
				return false, err
			}
		}
	}

	c.Results["examples_found"] = found
	return found > 0, nil
}

// RegisterConjecturer installs the conjecturer: a concept that has
// accumulated several examples earns a recorded hypothesis that it is
// worth further study, with the examples as evidence.
func RegisterConjecturer(e *eureka.Engine) (*eureka.Heuristic, error) {
	h, err := e.NewHeuristic("h-conjecturer", 650)
	if err != nil {
		return nil, err
	}
	if err := h.SetEnglish("Conjecture that a concept with several examples " +
		"is worth further study"); err != nil {
		return nil, err
	}
	phases := map[eureka.Phase]eureka.PhaseFunc{
		eureka.PhaseIfWorkingOnTask: conjecturerGuard,
		eureka.PhaseIfTrulyRelevant: conjecturerRelevant,
		eureka.PhaseThenConjecture:  conjecturerConjecture,
	}
	return h, setPhases(h, phases)
}

func conjecturerGuard(h *eureka.Heuristic, c *eureka.Context) (bool, error) {
	return c.Slot == eureka.SlotExamples, nil
}

func conjecturerRelevant(h *eureka.Heuristic, c *eureka.Context) (bool, error) {
	return len(c.Unit.Examples()) >= 3, nil
}

func conjecturerConjecture(h *eureka.Heuristic, c *eureka.Context) (bool, error) {
	claim := fmt.Sprintf("%s is a productive concept: %d examples support it",
		c.Unit.Name(), len(c.Unit.Examples()))
	if _, err := c.Conjecture(claim, c.Unit.Examples()...); err != nil {
		return false, err
	}
	return true, nil
}

// RegisterGarbageCollector installs the garbage collector: on tasks
// about worth, it demotes units below the worth floor and deletes
// units that have reached zero, repairing dangling references in
// their peers' relational slots.
func RegisterGarbageCollector(e *eureka.Engine) (*eureka.Heuristic, error) {
	h, err := e.NewHeuristic("h-gc", 550)
	if err != nil {
		return nil, err
	}
	if err := h.SetEnglish("Demote low-worth units; delete worthless ones and " +
		"repair dangling references"); err != nil {
		return nil, err
	}
	phases := map[eureka.Phase]eureka.PhaseFunc{
		eureka.PhaseIfWorkingOnTask: gcGuard,
		eureka.PhaseThenCompute:     gcCompute,
	}
	return h, setPhases(h, phases)
}

func gcGuard(h *eureka.Heuristic, c *eureka.Context) (bool, error) {
	return c.Slot == eureka.SlotWorth, nil
}

func gcCompute(h *eureka.Heuristic, c *eureka.Context) (bool, error) {
	s := c.Store()
	var demoted, deleted []string
	for _, name := range s.Names() {
		u, ok := s.Unit(name)
		if !ok || u.IsaContains(eureka.CategoryHeuristic) {
			continue
		}
		switch w := u.Worth(); {
		case w == 0:
			if err := s.Delete(name); err != nil {
				return false, err
			}
			deleted = append(deleted, name)
		case w < WorthFloor:
			if err := c.AdjustWorth(name, -demotion); err != nil {
				return false, err
			}
			demoted = append(demoted, name)
		}
	}
	c.Results["demoted"] = demoted
	c.Results["deleted"] = deleted
	return len(demoted)+len(deleted) > 0, nil
}

func setPhases(h *eureka.Heuristic, phases map[eureka.Phase]eureka.PhaseFunc) error {
	for p, fn := range phases {
		if err := h.SetPhase(p, fn); err != nil {
			return err
		}
	}
	return nil
}

func containsValue(l []any, v any) bool {
	for _, e := range l {
		if e == v {
			return true
		}
	}
	return false
}
