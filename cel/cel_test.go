package cel_test

import (
	"testing"

	"github.com/matryer/is"

	"github.com/ezachrisen/eureka"
	"github.com/ezachrisen/eureka/cel"
)

// testContext builds a minimal execution context without running the
// engine loop.
func testContext(t *testing.T) *eureka.Context {
	t.Helper()
	s := eureka.NewStore()
	if _, err := s.Create("square-sequence"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Set("square-sequence", eureka.SlotWorth, 500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Add("square-sequence", eureka.SlotIsa, "sequence"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	u, _ := s.Unit("square-sequence")

	task := eureka.NewTask("square-sequence", eureka.SlotExamples, 600, "bootstrap")
	task.Supplemental["slot_to_change"] = "examples"
	return &eureka.Context{
		Task:    task,
		Unit:    u,
		Slot:    task.Slot,
		Results: task.Results.Values,
	}
}

func TestCompilePhase(t *testing.T) {
	is := is.New(t)

	c, err := cel.NewCompiler()
	is.NoErr(err)
	ctx := testContext(t)

	tests := []struct {
		expr string
		want bool
	}{
		{`unit_worth >= 300`, true},
		{`unit_worth > 500`, false},
		{`slot == "examples"`, true},
		{`unit_name.startsWith("square")`, true},
		{`"sequence" in isa`, true},
		{`task_priority >= 600 && "bootstrap" in reasons`, true},
		{`supplemental["slot_to_change"] == "examples"`, true},
	}
	for _, tc := range tests {
		fn, err := c.CompilePhase(tc.expr)
		is.NoErr(err)
		got, err := fn(nil, ctx)
		is.NoErr(err)
		if got != tc.want {
			t.Errorf("%q = %v, want %v", tc.expr, got, tc.want)
		}
	}
}

func TestCompilePhaseErrors(t *testing.T) {
	is := is.New(t)

	c, err := cel.NewCompiler()
	is.NoErr(err)

	// Unknown variable: rejected at compile time, not during a run.
	_, err = c.CompilePhase(`no_such_variable == 1`)
	is.True(err != nil)

	// Non-boolean result type: also rejected at compile time.
	_, err = c.CompilePhase(`unit_worth + 1`)
	is.True(err != nil)

	// Syntax error.
	_, err = c.CompilePhase(`unit_worth >=`)
	is.True(err != nil)
}

func TestCompiledPhaseIsReusable(t *testing.T) {
	is := is.New(t)

	c, err := cel.NewCompiler()
	is.NoErr(err)
	fn, err := c.CompilePhase(`unit_worth >= 300`)
	is.NoErr(err)

	// The same compiled program serves many evaluations.
	ctx := testContext(t)
	for i := 0; i < 3; i++ {
		got, err := fn(nil, ctx)
		is.NoErr(err)
		is.True(got)
	}
}
