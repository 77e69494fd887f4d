package eureka_test

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/ezachrisen/eureka"
)

func TestCreateDuplicate(t *testing.T) {
	is := is.New(t)

	s := eureka.NewStore()
	_, err := s.Create("number")
	is.NoErr(err)

	_, err = s.Create("number")
	var dup *eureka.DuplicateUnitError
	is.True(errors.As(err, &dup)) // second create must fail with DuplicateUnitError
	is.Equal(dup.Name, "number")

	// With the return-existing policy the same call succeeds.
	s2 := eureka.NewStore(eureka.WithDuplicatePolicy(eureka.DuplicateReturnExisting))
	a, err := s2.Create("number")
	is.NoErr(err)
	b, err := s2.Create("number")
	is.NoErr(err)
	is.Equal(a, b)
}

// A unit with no worth of its own inherits the first worth found
// along its generalizations.
func TestInheritSingularFirstFound(t *testing.T) {
	is := is.New(t)

	s := eureka.NewStore()
	_, err := s.Create("a")
	is.NoErr(err)
	_, err = s.Create("b")
	is.NoErr(err)
	is.NoErr(s.Set("a", eureka.SlotWorth, 300))
	is.NoErr(s.Add("b", eureka.SlotGeneralizations, "a"))

	is.Equal(s.Get("b", eureka.SlotWorth, nil), 300)
}

// Get terminates on a cyclic generalization graph and falls back to
// the default when nothing is found.
func TestInheritCycleSafe(t *testing.T) {
	is := is.New(t)

	s := eureka.NewStore()
	for _, n := range []string{"a", "b", "c"} {
		_, err := s.Create(n)
		is.NoErr(err)
	}
	is.NoErr(s.Add("a", eureka.SlotGeneralizations, "b"))
	is.NoErr(s.Add("b", eureka.SlotGeneralizations, "c"))
	is.NoErr(s.Add("c", eureka.SlotGeneralizations, "a")) // cycle

	is.Equal(s.Get("a", eureka.SlotEnglish, "none"), "none")

	// A value anywhere on the cycle is still found.
	is.NoErr(s.Set("c", eureka.SlotWorth, 250))
	is.Equal(s.Get("a", eureka.SlotWorth, nil), 250)
}

// Collection slots merge by union along the walk, in visit order,
// without duplicates.
func TestInheritCollectionUnion(t *testing.T) {
	is := is.New(t)

	s := eureka.NewStore()
	for _, n := range []string{"child", "mid", "top"} {
		_, err := s.Create(n)
		is.NoErr(err)
	}
	is.NoErr(s.Add("child", eureka.SlotGeneralizations, "mid"))
	is.NoErr(s.Add("mid", eureka.SlotGeneralizations, "top"))
	is.NoErr(s.Set("mid", eureka.SlotExamples, []any{1, 2}))
	is.NoErr(s.Set("top", eureka.SlotExamples, []any{2, 3}))

	got := s.Get("child", eureka.SlotExamples, nil)
	is.Equal(got, []any{1, 2, 3})
}

func TestInvalidValueLeavesPriorState(t *testing.T) {
	is := is.New(t)

	s := eureka.NewStore()
	_, err := s.Create("seq")
	is.NoErr(err)
	is.NoErr(s.Set("seq", eureka.SlotEnglish, "a sequence"))

	err = s.Set("seq", eureka.SlotEnglish, 42)
	var inv *eureka.InvalidSlotValueError
	is.True(errors.As(err, &inv))
	is.Equal(inv.Slot, eureka.SlotEnglish)

	// The prior value is untouched.
	is.Equal(s.Get("seq", eureka.SlotEnglish, nil), "a sequence")
}

func TestAddRequiresCollection(t *testing.T) {
	s := eureka.NewStore()
	if _, err := s.Create("seq"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Add("seq", eureka.SlotEnglish, "x"); err == nil {
		t.Fatal("expected error adding to a singular slot")
	}
}

// Writing one side of an inverse-declared slot keeps the concept
// graph bidirectionally consistent.
func TestBidirectionalConsistency(t *testing.T) {
	is := is.New(t)

	s := eureka.NewStore()
	for _, n := range []string{"animal", "dog"} {
		_, err := s.Create(n)
		is.NoErr(err)
	}
	is.NoErr(s.Add("animal", eureka.SlotSpecializations, "dog"))

	dog, ok := s.Unit("dog")
	is.True(ok)
	is.Equal(dog.Generalizations(), []string{"animal"})
}

// Replacing a relational slot retracts the old referents' inverse
// links; re-parenting a unit leaves no stale back-references.
func TestSetReplacementScrubsInverse(t *testing.T) {
	is := is.New(t)

	s := eureka.NewStore()
	for _, n := range []string{"a", "b", "c"} {
		_, err := s.Create(n)
		is.NoErr(err)
	}
	is.NoErr(s.Set("b", eureka.SlotGeneralizations, []any{"a"}))
	is.NoErr(s.Set("b", eureka.SlotGeneralizations, []any{"c"}))

	a, _ := s.Unit("a")
	is.Equal(len(a.Specializations()), 0) // old parent no longer points back
	c, _ := s.Unit("c")
	is.Equal(c.Specializations(), []string{"b"})

	// The retraction works from either side of the relation.
	is.NoErr(s.Set("a", eureka.SlotSpecializations, []any{"b"}))
	is.NoErr(s.Set("a", eureka.SlotSpecializations, []any{}))
	b, _ := s.Unit("b")
	is.Equal(b.Generalizations(), []string{"c"})
}

// Set stores its own copy of a list value; mutating the slice a caller
// passed in cannot bypass validation.
func TestSetCopiesListValues(t *testing.T) {
	is := is.New(t)

	s := eureka.NewStore()
	_, err := s.Create("seq")
	is.NoErr(err)

	examples := []any{1, 4, 9}
	is.NoErr(s.Set("seq", eureka.SlotExamples, examples))
	examples[0] = 100

	u, _ := s.Unit("seq")
	is.Equal(u.Examples(), []any{1, 4, 9})
}

func TestDeleteScrubsReferences(t *testing.T) {
	is := is.New(t)

	s := eureka.NewStore()
	for _, n := range []string{"animal", "dog", "cat"} {
		_, err := s.Create(n)
		is.NoErr(err)
	}
	is.NoErr(s.Add("dog", eureka.SlotGeneralizations, "animal"))
	is.NoErr(s.Add("cat", eureka.SlotGeneralizations, "animal"))

	is.NoErr(s.Delete("animal"))

	_, ok := s.Unit("animal")
	is.True(!ok)
	for _, n := range []string{"dog", "cat"} {
		u, ok := s.Unit(n)
		is.True(ok)
		is.Equal(len(u.Generalizations()), 0) // no dangling names
	}
}

func TestSpecialize(t *testing.T) {
	is := is.New(t)

	s := eureka.NewStore()
	_, err := s.Create("sequence")
	is.NoErr(err)
	is.NoErr(s.Set("sequence", eureka.SlotWorth, 600))
	is.NoErr(s.Set("sequence", eureka.SlotEnglish, "an ordered list of numbers"))
	is.NoErr(s.Set("sequence", eureka.SlotExamples, []any{1, 4, 9}))

	u, err := s.Specialize("sequence", "square-sequence")
	is.NoErr(err)

	// Copyable slots come over; DontCopy slots (examples) do not.
	is.Equal(s.Get("square-sequence", eureka.SlotEnglish, nil), "an ordered list of numbers")
	is.True(!u.Has(eureka.SlotExamples))

	// Concept graph wired both ways.
	is.Equal(u.Generalizations(), []string{"sequence"})
	parent, _ := s.Unit("sequence")
	is.Equal(parent.Specializations(), []string{"square-sequence"})

	// Worth seeded from the parent's worth plus an example bonus,
	// capped at the parent's worth.
	is.Equal(u.Worth(), 510) // 600*4/5 + 3*10
}

func TestWorthAlwaysClipped(t *testing.T) {
	is := is.New(t)

	s := eureka.NewStore()
	_, err := s.Create("u")
	is.NoErr(err)

	is.NoErr(s.Set("u", eureka.SlotWorth, 5000))
	u, _ := s.Unit("u")
	is.Equal(u.Worth(), 1000)

	is.NoErr(s.AdjustWorth("u", -3000))
	is.Equal(u.Worth(), 0)

	is.NoErr(s.AdjustWorth("u", 150))
	is.Equal(u.Worth(), 150)
}

func TestUnitsInCategory(t *testing.T) {
	is := is.New(t)

	s := eureka.NewStore()
	for _, n := range []string{"b", "a", "x"} {
		_, err := s.Create(n)
		is.NoErr(err)
	}
	is.NoErr(s.Add("a", eureka.SlotIsa, "sequence"))
	is.NoErr(s.Add("b", eureka.SlotIsa, "sequence"))

	is.Equal(s.UnitsInCategory("sequence"), []string{"a", "b"})
}
