package eureka

import "slices"

// A Unit is a named knowledge-base record: a mapping from slot names
// to values, plus a worth score. Everything in the engine is a unit,
// including the heuristics that operate on units.
//
// Units are read through their accessors and written only through the
// Store, which validates values against the slot registry and keeps
// the relational slots bidirectionally consistent. A Unit obtained
// from a Store must not be mutated directly.
type Unit struct {
	name  string
	props map[string]any
}

// DefaultWorth is reported for units that have no worth of their own
// and inherit none.
const DefaultWorth = 500

func newUnit(name string) *Unit {
	return &Unit{
		name:  name,
		props: map[string]any{},
	}
}

// Name returns the unit's unique name.
func (u *Unit) Name() string { return u.name }

// Get returns the direct value of a slot, without inheritance.
// Use Store.Get for inheritance-aware lookup.
func (u *Unit) Get(slot string) (any, bool) {
	v, ok := u.props[slot]
	return v, ok
}

// Has reports whether the unit has a direct value for the slot.
func (u *Unit) Has(slot string) bool {
	_, ok := u.props[slot]
	return ok
}

// Worth returns the unit's worth score, always in [0,1000].
func (u *Unit) Worth() int {
	if v, ok := u.props[SlotWorth]; ok {
		if n, ok := toInt(v); ok {
			return clipWorth(n)
		}
	}
	return DefaultWorth
}

// Isa returns the categories the unit belongs to.
func (u *Unit) Isa() []string { return u.refs(SlotIsa) }

// IsaContains reports whether the unit directly belongs to a category.
func (u *Unit) IsaContains(category string) bool {
	return slices.Contains(u.Isa(), category)
}

// Generalizations returns the names of the unit's direct generalizations.
func (u *Unit) Generalizations() []string { return u.refs(SlotGeneralizations) }

// Specializations returns the names of the unit's direct specializations.
func (u *Unit) Specializations() []string { return u.refs(SlotSpecializations) }

// Examples returns the unit's direct examples.
func (u *Unit) Examples() []any {
	if v, ok := u.props[SlotExamples]; ok {
		return asList(v)
	}
	return nil
}

// Slots returns the names of the slots the unit has direct values for.
func (u *Unit) Slots() []string {
	names := make([]string, 0, len(u.props))
	for n := range u.props {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// refs reads a UnitRef collection slot as a list of names.
func (u *Unit) refs(slot string) []string {
	v, ok := u.props[slot]
	if !ok {
		return nil
	}
	var names []string
	for _, e := range asList(v) {
		if s, ok := e.(string); ok {
			names = append(names, s)
		}
	}
	return names
}

// clipWorth clips a worth score to [0,1000].
func clipWorth(w int) int {
	if w < 0 {
		return 0
	}
	if w > 1000 {
		return 1000
	}
	return w
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// asList normalizes the value shapes a List slot accepts to []any.
func asList(v any) []any {
	switch l := v.(type) {
	case []any:
		return l
	case []int:
		out := make([]any, len(l))
		for i, e := range l {
			out[i] = e
		}
		return out
	case []string:
		out := make([]any, len(l))
		for i, e := range l {
			out[i] = e
		}
		return out
	case nil:
		return nil
	default:
		return []any{v}
	}
}
