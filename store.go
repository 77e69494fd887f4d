package eureka

import (
	"fmt"
	"slices"
	"sync"
)

// DuplicatePolicy controls what Store.Create does when a unit with
// the requested name already exists.
type DuplicatePolicy int

const (
	// DuplicateError makes Create fail with a DuplicateUnitError.
	DuplicateError DuplicatePolicy = iota

	// DuplicateReturnExisting makes Create return the existing unit.
	DuplicateReturnExisting
)

// Store holds all units and resolves inherited properties along the
// concept graph. All writes are validated against the slot registry;
// a rejected write leaves the unit untouched.
//
// The Store is safe for concurrent reads, but the engine's execution
// model is single-threaded: one task runs to completion before the
// next is popped.
type Store struct {
	mu       sync.RWMutex
	units    map[string]*Unit
	registry *Registry
	onCreate DuplicatePolicy
	inherit  bool
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithDuplicatePolicy sets what Create does on a name collision.
func WithDuplicatePolicy(p DuplicatePolicy) StoreOption {
	return func(s *Store) { s.onCreate = p }
}

// WithRegistry replaces the default slot registry.
func WithRegistry(r *Registry) StoreOption {
	return func(s *Store) { s.registry = r }
}

// WithoutInheritance disables resolution along the generalization
// graph; Get then only consults direct slot values.
func WithoutInheritance() StoreOption {
	return func(s *Store) { s.inherit = false }
}

// NewStore returns an empty store with the core slot registry.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		units:    make(map[string]*Unit),
		registry: NewRegistry(),
		inherit:  true,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Registry returns the store's slot registry.
func (s *Store) Registry() *Registry { return s.registry }

// Create adds a new unit with default slots. Behavior on an existing
// name is governed by the store's duplicate policy.
func (s *Store) Create(name string) (*Unit, error) {
	if name == "" {
		return nil, fmt.Errorf("creating unit: name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.units[name]; ok {
		if s.onCreate == DuplicateReturnExisting {
			return u, nil
		}
		return nil, &DuplicateUnitError{Name: name}
	}
	u := newUnit(name)
	s.units[name] = u
	return u, nil
}

// Unit returns the unit with the given name.
func (s *Store) Unit(name string) (*Unit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.units[name]
	return u, ok
}

// UnitCount is the number of units in the store.
func (s *Store) UnitCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.units)
}

// Names returns the names of all units, sorted.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.units))
	for n := range s.units {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// UnitsInCategory returns the names of all units whose isa slot
// contains the category, sorted.
func (s *Store) UnitsInCategory(category string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var names []string
	for n, u := range s.units {
		if u.IsaContains(category) {
			names = append(names, n)
		}
	}
	slices.Sort(names)
	return names
}

// Get resolves a slot value for a unit. Direct values win; if the
// unit has no direct value and the slot is declared inheritable, the
// generalization graph is walked breadth-first. Singular slots
// resolve to the first value found; collection slots resolve to the
// union of all values found along the walk, in visit order. The walk
// is bounded by a visited set, so it terminates even if the graph is
// cyclic. If nothing is found, def is returned.
func (s *Store) Get(unit, slot string, def any) any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.units[unit]
	if !ok {
		return def
	}
	if v, ok := u.Get(slot); ok {
		return v
	}

	decl, ok := s.registry.Slot(slot)
	if !ok || !decl.Inheritable || !s.inherit {
		return def
	}

	var merged []any
	seen := map[string]bool{unit: true}
	queue := u.Generalizations()
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if seen[name] {
			continue
		}
		seen[name] = true
		g, ok := s.units[name]
		if !ok {
			continue
		}
		if v, ok := g.Get(slot); ok {
			if !decl.Collection {
				return v
			}
			for _, e := range asList(v) {
				if !slices.Contains(merged, e) {
					merged = append(merged, e)
				}
			}
		}
		queue = append(queue, g.Generalizations()...)
	}
	if len(merged) > 0 {
		return merged
	}
	return def
}

// Set replaces a slot's value after validating it against the
// registry. Collection slots accept a whole list; every element is
// validated. Worth values are clipped to [0,1000]. Writing a UnitRef
// slot declared with an inverse also writes the inverse on the
// referenced unit; referents dropped by the replacement have the
// stale inverse entry scrubbed.
func (s *Store) Set(unit, slot string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set(unit, slot, value)
}

func (s *Store) set(unit, slot string, value any) error {
	u, ok := s.units[unit]
	if !ok {
		return fmt.Errorf("setting %s.%s: %w", unit, slot, ErrUnitNotFound)
	}
	decl, ok := s.registry.Slot(slot)
	if !ok {
		return fmt.Errorf("setting %s.%s: %w", unit, slot, ErrSlotNotFound)
	}

	if decl.Collection {
		elems := slices.Clone(asList(value))
		for _, e := range elems {
			if !s.validElement(decl, e) {
				return &InvalidSlotValueError{Unit: unit, Slot: slot, Value: e, Want: decl.Type}
			}
		}
		if old, ok := u.props[slot]; ok {
			s.clearInverse(decl, unit, old)
		}
		u.props[slot] = elems
		for _, e := range elems {
			s.writeInverse(decl, unit, e)
		}
		return nil
	}

	if !decl.Type.Valid(value) {
		return &InvalidSlotValueError{Unit: unit, Slot: slot, Value: value, Want: decl.Type}
	}
	if slot == SlotWorth {
		n, _ := toInt(value)
		value = clipWorth(n)
	}
	if old, ok := u.props[slot]; ok {
		s.clearInverse(decl, unit, old)
	}
	u.props[slot] = value
	s.writeInverse(decl, unit, value)
	return nil
}

// Add appends a value to a collection slot, validating it first.
// Values already present in a UnitRef slot are not duplicated.
func (s *Store) Add(unit, slot string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(unit, slot, value)
}

func (s *Store) add(unit, slot string, value any) error {
	u, ok := s.units[unit]
	if !ok {
		return fmt.Errorf("adding to %s.%s: %w", unit, slot, ErrUnitNotFound)
	}
	decl, ok := s.registry.Slot(slot)
	if !ok {
		return fmt.Errorf("adding to %s.%s: %w", unit, slot, ErrSlotNotFound)
	}
	if !decl.Collection {
		return fmt.Errorf("adding to %s.%s: slot is not a collection", unit, slot)
	}
	if !s.validElement(decl, value) {
		return &InvalidSlotValueError{Unit: unit, Slot: slot, Value: value, Want: decl.Type}
	}

	cur := asList(u.props[slot])
	if _, isRef := decl.Type.(UnitRef); isRef && slices.Contains(cur, value) {
		return nil
	}
	u.props[slot] = append(cur, value)
	s.writeInverse(decl, unit, value)
	return nil
}

// AdjustWorth shifts a unit's worth by delta, clipped to [0,1000].
func (s *Store) AdjustWorth(unit string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.units[unit]
	if !ok {
		return fmt.Errorf("adjusting worth of %s: %w", unit, ErrUnitNotFound)
	}
	u.props[SlotWorth] = clipWorth(u.Worth() + delta)
	return nil
}

// Delete removes the unit and scrubs references to it from every
// other unit's UnitRef slots, leaving no dangling names.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.units[name]; !ok {
		return fmt.Errorf("deleting %s: %w", name, ErrUnitNotFound)
	}
	delete(s.units, name)

	for _, u := range s.units {
		for slot, v := range u.props {
			decl, ok := s.registry.Slot(slot)
			if !ok {
				continue
			}
			if _, isRef := decl.Type.(UnitRef); !isRef {
				continue
			}
			if decl.Collection {
				cur := asList(v)
				next := slices.DeleteFunc(slices.Clone(cur), func(e any) bool {
					return e == any(name)
				})
				if len(next) != len(cur) {
					u.props[slot] = next
				}
				continue
			}
			if v == any(name) {
				delete(u.props, slot)
			}
		}
	}
	return nil
}

// Specialize creates a new unit as a specialization of parent. Slots
// not marked DontCopy are copied over, the generalization and
// specialization slots are wired bidirectionally, and the new unit's
// worth is seeded from the parent's worth plus a bonus per supporting
// example, capped at the parent's own worth.
func (s *Store) Specialize(parent, name string) (*Unit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.units[parent]
	if !ok {
		return nil, fmt.Errorf("specializing %s: %w", parent, ErrUnitNotFound)
	}
	if _, ok := s.units[name]; ok {
		if s.onCreate == DuplicateReturnExisting {
			return s.units[name], nil
		}
		return nil, &DuplicateUnitError{Name: name}
	}

	u := newUnit(name)
	s.units[name] = u

	for slot, v := range p.props {
		decl, ok := s.registry.Slot(slot)
		if !ok || decl.DontCopy || slot == SlotWorth {
			continue
		}
		// Relational slots are wired explicitly below so the inverse
		// bookkeeping stays consistent.
		if slot == SlotGeneralizations || slot == SlotSpecializations {
			continue
		}
		if decl.Collection {
			u.props[slot] = slices.Clone(asList(v))
		} else {
			u.props[slot] = v
		}
	}

	bonus := 10 * len(p.Examples())
	w := p.Worth()*4/5 + bonus
	if w > p.Worth() {
		w = p.Worth()
	}
	u.props[SlotWorth] = clipWorth(w)

	if err := s.add(name, SlotGeneralizations, parent); err != nil {
		return nil, err
	}
	return u, nil
}

// validElement checks one element of a collection, or a singular
// value, against the slot's declared type. List-typed collections
// accept any element.
func (s *Store) validElement(decl Slot, v any) bool {
	if _, isList := decl.Type.(List); isList {
		return true
	}
	return decl.Type.Valid(v)
}

// clearInverse removes the unit's name from the inverse slot of every
// referent in the slot's old value, so replacing a relational slot
// leaves no stale back-references.
func (s *Store) clearInverse(decl Slot, unit string, old any) {
	if decl.Inverse == "" {
		return
	}
	for _, e := range asList(old) {
		ref, ok := e.(string)
		if !ok {
			continue
		}
		t, ok := s.units[ref]
		if !ok {
			continue
		}
		cur := asList(t.props[decl.Inverse])
		next := slices.DeleteFunc(slices.Clone(cur), func(v any) bool {
			return v == any(unit)
		})
		if len(next) != len(cur) {
			t.props[decl.Inverse] = next
		}
	}
}

// writeInverse mirrors a UnitRef write onto the referenced unit's
// inverse slot. Missing referents are tolerated: bootstrap data may
// reference units defined later.
func (s *Store) writeInverse(decl Slot, unit string, value any) {
	if decl.Inverse == "" {
		return
	}
	ref, ok := value.(string)
	if !ok {
		return
	}
	t, ok := s.units[ref]
	if !ok {
		return
	}
	inv, ok := s.registry.Slot(decl.Inverse)
	if !ok || !inv.Collection {
		return
	}
	cur := asList(t.props[decl.Inverse])
	if !slices.Contains(cur, any(unit)) {
		t.props[decl.Inverse] = append(cur, unit)
	}
}
