package heuristics_test

import (
	"context"
	"testing"

	"github.com/matryer/is"

	"github.com/ezachrisen/eureka"
	"github.com/ezachrisen/eureka/heuristics"
)

// A concept with examples and decent worth gets specialized, and the
// follow-up task populates the new concept's examples from the graph.
func TestSpecializationChain(t *testing.T) {
	is := is.New(t)

	e := eureka.NewEngine()
	is.NoErr(heuristics.RegisterAll(e))

	_, err := e.Store().Create("sequence")
	is.NoErr(err)
	is.NoErr(e.Store().Set("sequence", eureka.SlotWorth, 600))
	is.NoErr(e.Store().Set("sequence", eureka.SlotExamples, []any{1, 4, 9, 16}))

	e.Agenda().Add(eureka.NewTask("sequence", eureka.SlotSpecializations, 700, "bootstrap"))

	res, err := e.Run(context.Background(), 10)
	is.NoErr(err)

	// Task one specialized the concept; task two populated it.
	is.Equal(res.TasksRun, 2)
	is.Equal(res.NewUnits, []string{"sequence-by-examples"})

	u, ok := e.Store().Unit("sequence-by-examples")
	is.True(ok)
	is.Equal(u.Generalizations(), []string{"sequence"})
	is.Equal(e.Store().Get("sequence-by-examples", eureka.SlotCreditors, nil), []any{"h-specializer"})
	is.Equal(e.Store().Get("sequence-by-examples", eureka.SlotSlotToChange, nil), "examples")

	// The collector pulled the inherited examples into the new unit.
	is.Equal(len(u.Examples()), 4)

	// The specializer completed its whole pipeline once.
	h, ok := e.Heuristic("h-specializer")
	is.True(ok)
	is.Equal(h.OverallRecord().Successes, 1)
}

func TestConjecturerRecordsHypothesis(t *testing.T) {
	is := is.New(t)

	e := eureka.NewEngine()
	is.NoErr(heuristics.RegisterAll(e))

	_, err := e.Store().Create("primes")
	is.NoErr(err)
	is.NoErr(e.Store().Set("primes", eureka.SlotWorth, 500))
	is.NoErr(e.Store().Set("primes", eureka.SlotExamples, []any{2, 3, 5, 7}))

	task := eureka.NewTask("primes", eureka.SlotExamples, 500, "bootstrap")
	e.Agenda().Add(task)
	_, err = e.Run(context.Background(), 1)
	is.NoErr(err)

	is.Equal(len(task.Results.NewUnits), 1)
	conj := task.Results.NewUnits[0]
	u, ok := e.Store().Unit(conj)
	is.True(ok)
	is.True(u.IsaContains("conjecture"))
	is.Equal(e.Store().Get("primes", eureka.SlotConjectures, nil), []any{conj})
}

// Two examples are not enough for the conjecturer; the gate fails and
// nothing is recorded.
func TestConjecturerNeedsEnoughExamples(t *testing.T) {
	is := is.New(t)

	e := eureka.NewEngine()
	_, err := heuristics.RegisterConjecturer(e)
	is.NoErr(err)

	_, err = e.Store().Create("thin")
	is.NoErr(err)
	is.NoErr(e.Store().Set("thin", eureka.SlotExamples, []any{1, 2}))

	task := eureka.NewTask("thin", eureka.SlotExamples, 500, "bootstrap")
	e.RunTask(task)

	is.Equal(len(task.Results.NewUnits), 0)

	h, ok := e.Heuristic("h-conjecturer")
	is.True(ok)
	is.Equal(h.RecordFor(eureka.PhaseIfTrulyRelevant), eureka.Record{Successes: 0, Attempts: 1})
	is.Equal(h.RecordFor(eureka.PhaseThenConjecture), eureka.Record{Successes: 0, Attempts: 0})
}

func TestGarbageCollector(t *testing.T) {
	is := is.New(t)

	e := eureka.NewEngine()
	_, err := heuristics.RegisterGarbageCollector(e)
	is.NoErr(err)

	s := e.Store()
	for _, n := range []string{"dead", "junk", "ref"} {
		_, err := s.Create(n)
		is.NoErr(err)
	}
	is.NoErr(s.Set("dead", eureka.SlotWorth, 0))
	is.NoErr(s.Set("junk", eureka.SlotWorth, 50))
	is.NoErr(s.Set("ref", eureka.SlotWorth, 500))
	is.NoErr(s.Add("ref", eureka.SlotGeneralizations, "dead"))

	task := eureka.NewTask("ref", eureka.SlotWorth, 500, "cleanup")
	e.RunTask(task)

	// The worthless unit is gone and its references repaired.
	_, ok := s.Unit("dead")
	is.True(!ok)
	ref, _ := s.Unit("ref")
	is.Equal(len(ref.Generalizations()), 0)

	// The low-worth unit was demoted, not deleted.
	junk, _ := s.Unit("junk")
	is.Equal(junk.Worth(), 25)

	is.Equal(task.Results.Values["deleted"], []string{"dead"})
	is.Equal(task.Results.Values["demoted"], []string{"junk"})
}

// The garbage collector never touches heuristics.
func TestGarbageCollectorSparesHeuristics(t *testing.T) {
	is := is.New(t)

	e := eureka.NewEngine()
	_, err := heuristics.RegisterGarbageCollector(e)
	is.NoErr(err)

	weak, err := e.NewHeuristic("h-weak", 50)
	is.NoErr(err)

	_, err = e.Store().Create("anchor")
	is.NoErr(err)
	is.NoErr(e.Store().Set("anchor", eureka.SlotWorth, 500))

	e.RunTask(eureka.NewTask("anchor", eureka.SlotWorth, 500, "cleanup"))

	_, ok := e.Heuristic("h-weak")
	is.True(ok)
	is.Equal(weak.Worth(), 50)
}

func TestCapabilitiesCoverRegisteredPhases(t *testing.T) {
	caps := heuristics.Capabilities()
	for _, name := range []string{
		"specializer.guard", "specializer.compute", "specializer.define",
		"collector.compute", "conjecturer.conjecture", "gc.compute",
	} {
		if caps[name] == nil {
			t.Errorf("capability %q missing", name)
		}
	}
}
