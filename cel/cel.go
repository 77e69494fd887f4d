// Package cel compiles CEL expressions into eureka phase functions.
// See https://github.com/google/cel-go and https://cel.dev for more
// information about CEL.
//
// Expressions are compiled once, at registration time, against a
// declared environment of task-context variables; what reaches the
// engine is a pre-resolved callable, never source text. This makes
// CEL a convenient notation for the cheap relevance guards, while
// effect phases are usually written in Go.
package cel

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/ezachrisen/eureka"
)

// Variables available to guard expressions.
const (
	VarUnitName     = "unit_name"     // string: the task's target unit
	VarUnitWorth    = "unit_worth"    // int: the target unit's worth
	VarSlot         = "slot"          // string: the task's target slot
	VarTaskPriority = "task_priority" // int: the task's priority
	VarReasons      = "reasons"       // list<string>: why the task exists
	VarSupplemental = "supplemental"  // map<string, dyn>: forwarding context
	VarResults      = "results"       // map<string, dyn>: task results so far
	VarIsa          = "isa"           // list<string>: target unit's categories
)

// Compiler compiles guard expressions against the task-context
// environment. A single Compiler can be shared by all heuristics.
type Compiler struct {
	env *cel.Env
}

// NewCompiler builds the CEL environment with the task-context
// variable declarations.
func NewCompiler() (*Compiler, error) {
	env, err := cel.NewEnv(
		cel.Variable(VarUnitName, cel.StringType),
		cel.Variable(VarUnitWorth, cel.IntType),
		cel.Variable(VarSlot, cel.StringType),
		cel.Variable(VarTaskPriority, cel.IntType),
		cel.Variable(VarReasons, cel.ListType(cel.StringType)),
		cel.Variable(VarSupplemental, cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable(VarResults, cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable(VarIsa, cel.ListType(cel.StringType)),
	)
	if err != nil {
		return nil, fmt.Errorf("creating CEL environment: %w", err)
	}
	return &Compiler{env: env}, nil
}

// CompilePhase compiles a boolean CEL expression into a PhaseFunc.
// Compilation errors (including a non-boolean result type) are
// reported here, once, rather than during engine execution.
func (c *Compiler) CompilePhase(expr string) (eureka.PhaseFunc, error) {
	ast, iss := c.env.Compile(expr)
	if iss.Err() != nil {
		return nil, fmt.Errorf("compiling %q: %w", expr, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("compiling %q: result type is %s, want bool", expr, ast.OutputType())
	}
	prg, err := c.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("building program for %q: %w", expr, err)
	}

	return func(h *eureka.Heuristic, ec *eureka.Context) (bool, error) {
		out, _, err := prg.Eval(activation(ec))
		if err != nil {
			return false, fmt.Errorf("evaluating %q: %w", expr, err)
		}
		b, ok := out.Value().(bool)
		if !ok {
			return false, fmt.Errorf("evaluating %q: non-boolean result %v", expr, out.Value())
		}
		return b, nil
	}, nil
}

// activation maps the eureka execution context onto the declared CEL
// variables.
func activation(ec *eureka.Context) map[string]any {
	return map[string]any{
		VarUnitName:     ec.Unit.Name(),
		VarUnitWorth:    ec.Unit.Worth(),
		VarSlot:         ec.Slot,
		VarTaskPriority: ec.Task.Priority,
		VarReasons:      nonNil(ec.Task.Reasons),
		VarSupplemental: nonNilMap(ec.Task.Supplemental),
		VarResults:      nonNilMap(ec.Results),
		VarIsa:          nonNil(ec.Unit.Isa()),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
