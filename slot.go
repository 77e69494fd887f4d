package eureka

import "fmt"

// Type defines a value type in the eureka slot type system.
// Slot values are validated against the declared type when they are
// written to a unit via the Store.
type Type interface {
	String() string

	// Valid reports whether v is an acceptable value of this type.
	Valid(v any) bool
}

// Number holds an integer value, e.g. a worth score or a measurement.
type Number struct{}

// Text holds a free-form string.
type Text struct{}

// UnitRef holds the name of another unit in the store.
type UnitRef struct{}

// List holds an ordered collection of arbitrary values.
type List struct{}

// Code holds a capability handle: a callable resolved ahead of time
// by the loader. The store never interprets source text; anything
// stored in a Code slot must already be a PhaseFunc.
type Code struct{}

func (t Number) String() string  { return "number" }
func (t Text) String() string    { return "text" }
func (t UnitRef) String() string { return "unitref" }
func (t List) String() string    { return "list" }
func (t Code) String() string    { return "code" }

func (t Number) Valid(v any) bool {
	switch v.(type) {
	case int, int64, float64:
		return true
	}
	return false
}

func (t Text) Valid(v any) bool {
	_, ok := v.(string)
	return ok
}

func (t UnitRef) Valid(v any) bool {
	s, ok := v.(string)
	return ok && s != ""
}

func (t List) Valid(v any) bool {
	switch v.(type) {
	case []any, []int, []string:
		return true
	}
	return false
}

func (t Code) Valid(v any) bool {
	_, ok := v.(PhaseFunc)
	return ok
}

// Slot declares the semantics of a named unit property: its value
// type, whether it participates in inheritance along the
// generalization graph, whether it holds a single value or a
// collection, and how it behaves when a unit is copied into a
// specialization.
type Slot struct {
	// Name of the slot, unique within a registry.
	Name string

	// Type of the values this slot accepts.
	Type Type

	// Inheritable slots are resolved along the generalizations graph
	// when a unit has no direct value.
	Inheritable bool

	// Collection slots hold an ordered list of values; Add appends to
	// them, and inheritance merges values by union. Singular slots
	// resolve by first-found.
	Collection bool

	// DontCopy slots are skipped when a unit is created as a
	// specialization of another (records, examples, creditors).
	DontCopy bool

	// Inverse names the slot on the referenced unit that mirrors this
	// one. Writing "b" into a's Inverse-declared slot also writes "a"
	// into b's inverse slot, keeping the concept graph bidirectionally
	// consistent. Only meaningful for UnitRef collection slots.
	Inverse string

	// Optional description of the slot.
	Description string
}

// Registry declares the slots known to a store. It is engine-scoped:
// each Store owns one, there are no process-wide registries.
type Registry struct {
	slots map[string]Slot
}

// NewRegistry returns a registry pre-populated with the core slots
// every unit can carry: identity, the relational slots forming the
// concept graph, the heuristic phase slots and their records.
func NewRegistry() *Registry {
	r := &Registry{slots: map[string]Slot{}}

	r.Register(Slot{Name: SlotWorth, Type: Number{}, Inheritable: true,
		Description: "importance score in [0,1000]"})
	r.Register(Slot{Name: SlotIsa, Type: UnitRef{}, Collection: true, Inheritable: true,
		Description: "categories this unit belongs to"})
	r.Register(Slot{Name: SlotEnglish, Type: Text{},
		Description: "explanatory text for the unit"})
	r.Register(Slot{Name: SlotGeneralizations, Type: UnitRef{}, Collection: true,
		Inverse: SlotSpecializations,
		Description: "more general forms of this unit"})
	r.Register(Slot{Name: SlotSpecializations, Type: UnitRef{}, Collection: true,
		Inverse: SlotGeneralizations,
		Description: "more specific forms of this unit"})
	r.Register(Slot{Name: SlotExamples, Type: List{}, Collection: true, Inheritable: true, DontCopy: true,
		Description: "known instances of this unit"})
	r.Register(Slot{Name: SlotNonExamples, Type: List{}, Collection: true, DontCopy: true,
		Description: "known non-instances of this unit"})
	r.Register(Slot{Name: SlotCreditors, Type: UnitRef{}, Collection: true, DontCopy: true,
		Description: "heuristics that helped create this unit"})
	r.Register(Slot{Name: SlotConjectures, Type: UnitRef{}, Collection: true, DontCopy: true,
		Description: "conjecture units recorded about this unit"})
	r.Register(Slot{Name: SlotClaim, Type: Text{},
		Description: "the claim a conjecture unit makes"})
	r.Register(Slot{Name: SlotEvidence, Type: List{}, Collection: true,
		Description: "evidence supporting a conjecture"})
	r.Register(Slot{Name: SlotSlotToChange, Type: Text{},
		Description: "which slot a specialization should vary"})

	for _, p := range AllPhases {
		r.Register(Slot{Name: string(p), Type: Code{}, DontCopy: true,
			Description: "phase callable"})
		r.Register(Slot{Name: recordSlot(p), Type: List{}, DontCopy: true,
			Description: "phase (successes, attempts) record"})
	}
	r.Register(Slot{Name: SlotOverallRecord, Type: List{}, DontCopy: true,
		Description: "overall (successes, attempts) record"})

	return r
}

// Core slot names.
const (
	SlotWorth           = "worth"
	SlotIsa             = "isa"
	SlotEnglish         = "english"
	SlotGeneralizations = "generalizations"
	SlotSpecializations = "specializations"
	SlotExamples        = "examples"
	SlotNonExamples     = "non_examples"
	SlotCreditors       = "creditors"
	SlotConjectures     = "conjectures"
	SlotClaim           = "claim"
	SlotEvidence        = "evidence"
	SlotSlotToChange    = "slot_to_change"
	SlotOverallRecord   = "overall_record"
)

// Register adds or replaces a slot declaration.
func (r *Registry) Register(s Slot) error {
	if s.Name == "" {
		return fmt.Errorf("registering slot: name is required")
	}
	if s.Type == nil {
		return fmt.Errorf("registering slot %s: type is required", s.Name)
	}
	r.slots[s.Name] = s
	return nil
}

// Slot returns the declaration for name.
func (r *Registry) Slot(name string) (Slot, bool) {
	s, ok := r.slots[name]
	return s, ok
}

// Exists reports whether a slot with the given name is declared.
func (r *Registry) Exists(name string) bool {
	_, ok := r.slots[name]
	return ok
}

// Names returns the names of all declared slots.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.slots))
	for n := range r.slots {
		names = append(names, n)
	}
	return names
}
