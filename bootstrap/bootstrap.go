// Package bootstrap loads declarative unit, heuristic, and seed-task
// definitions from YAML and populates an engine.
//
// Code-valued slots appear in the source as references, either
// "code: name" (looked up in a caller-populated capability Registry)
// or "cel: expr" (compiled by the cel package). References are
// resolved before anything reaches the store; the store only ever
// sees callables.
package bootstrap

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ezachrisen/eureka"
	"github.com/ezachrisen/eureka/cel"
)

// Registry maps capability names to phase functions. The hosting
// application registers its Go-implemented phases here before
// loading; a bootstrap file can then refer to them by name.
type Registry struct {
	funcs map[string]eureka.PhaseFunc
}

// NewRegistry returns an empty capability registry.
func NewRegistry() *Registry {
	return &Registry{funcs: map[string]eureka.PhaseFunc{}}
}

// Register binds a name to a phase function.
func (r *Registry) Register(name string, fn eureka.PhaseFunc) error {
	if name == "" {
		return fmt.Errorf("registering capability: name is required")
	}
	if fn == nil {
		return fmt.Errorf("registering capability %s: function is required", name)
	}
	r.funcs[name] = fn
	return nil
}

// Resolve returns the function bound to name.
func (r *Registry) Resolve(name string) (eureka.PhaseFunc, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// File is the top-level shape of a bootstrap document.
type File struct {
	Units      []UnitDef      `yaml:"units"`
	Heuristics []HeuristicDef `yaml:"heuristics"`
	Tasks      []TaskDef      `yaml:"tasks"`
}

// UnitDef declares one unit.
type UnitDef struct {
	Name            string         `yaml:"name"`
	Worth           *int           `yaml:"worth"`
	Isa             []string       `yaml:"isa"`
	Generalizations []string       `yaml:"generalizations"`
	Slots           map[string]any `yaml:"slots"`
}

// HeuristicDef declares one heuristic: a unit plus phase references.
type HeuristicDef struct {
	Name    string            `yaml:"name"`
	Worth   *int              `yaml:"worth"`
	English string            `yaml:"english"`
	Phases  map[string]string `yaml:"phases"`
}

// TaskDef declares one seed task for the agenda.
type TaskDef struct {
	Unit     string   `yaml:"unit"`
	Slot     string   `yaml:"slot"`
	Priority int      `yaml:"priority"`
	Reasons  []string `yaml:"reasons"`
}

// Loader resolves references and populates an engine.
type Loader struct {
	caps     *Registry
	compiler *cel.Compiler
}

// NewLoader creates a loader. The capability registry may be nil if
// the bootstrap files use only cel: references.
func NewLoader(caps *Registry) (*Loader, error) {
	c, err := cel.NewCompiler()
	if err != nil {
		return nil, err
	}
	if caps == nil {
		caps = NewRegistry()
	}
	return &Loader{caps: caps, compiler: c}, nil
}

// LoadFile reads a YAML bootstrap document from path and populates
// the engine. Units are created before heuristics so phase guards can
// reference them; seed tasks are queued last.
func (l *Loader) LoadFile(path string, e *eureka.Engine) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening bootstrap file: %w", err)
	}
	defer f.Close()
	if err := l.Load(f, e); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load reads a YAML bootstrap document and populates the engine.
// The load fails fast on the first unresolvable reference or invalid
// slot value.
func (l *Loader) Load(r io.Reader, e *eureka.Engine) error {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return fmt.Errorf("decoding bootstrap document: %w", err)
	}

	for _, ud := range file.Units {
		if err := l.loadUnit(ud, e); err != nil {
			return err
		}
	}
	for _, hd := range file.Heuristics {
		if err := l.loadHeuristic(hd, e); err != nil {
			return err
		}
	}
	for _, td := range file.Tasks {
		t := eureka.NewTask(td.Unit, td.Slot, td.Priority, td.Reasons...)
		e.Agenda().Add(t)
	}
	return nil
}

func (l *Loader) loadUnit(ud UnitDef, e *eureka.Engine) error {
	s := e.Store()
	if _, err := s.Create(ud.Name); err != nil {
		return fmt.Errorf("unit %s: %w", ud.Name, err)
	}
	if ud.Worth != nil {
		if err := s.Set(ud.Name, eureka.SlotWorth, *ud.Worth); err != nil {
			return fmt.Errorf("unit %s: %w", ud.Name, err)
		}
	}
	for _, cat := range ud.Isa {
		if err := s.Add(ud.Name, eureka.SlotIsa, cat); err != nil {
			return fmt.Errorf("unit %s: %w", ud.Name, err)
		}
	}
	for _, g := range ud.Generalizations {
		if err := s.Add(ud.Name, eureka.SlotGeneralizations, g); err != nil {
			return fmt.Errorf("unit %s: %w", ud.Name, err)
		}
	}
	for slot, v := range ud.Slots {
		if err := s.Set(ud.Name, slot, v); err != nil {
			return fmt.Errorf("unit %s: %w", ud.Name, err)
		}
	}
	return nil
}

func (l *Loader) loadHeuristic(hd HeuristicDef, e *eureka.Engine) error {
	worth := eureka.DefaultWorth
	if hd.Worth != nil {
		worth = *hd.Worth
	}
	h, err := e.NewHeuristic(hd.Name, worth)
	if err != nil {
		return fmt.Errorf("heuristic %s: %w", hd.Name, err)
	}
	if hd.English != "" {
		if err := h.SetEnglish(hd.English); err != nil {
			return fmt.Errorf("heuristic %s: %w", hd.Name, err)
		}
	}
	for phase, ref := range hd.Phases {
		if !eureka.ValidPhase(phase) {
			return fmt.Errorf("heuristic %s: unknown phase %q", hd.Name, phase)
		}
		fn, err := l.resolve(ref)
		if err != nil {
			return fmt.Errorf("heuristic %s phase %s: %w", hd.Name, phase, err)
		}
		if err := h.SetPhase(eureka.Phase(phase), fn); err != nil {
			return fmt.Errorf("heuristic %s: %w", hd.Name, err)
		}
	}
	return nil
}

// resolve turns a "code: name" or "cel: expr" reference into a
// callable.
func (l *Loader) resolve(ref string) (eureka.PhaseFunc, error) {
	kind, arg, found := strings.Cut(ref, ":")
	if !found {
		return nil, fmt.Errorf("reference %q: want \"code: name\" or \"cel: expr\"", ref)
	}
	arg = strings.TrimSpace(arg)
	switch strings.TrimSpace(kind) {
	case "code":
		fn, ok := l.caps.Resolve(arg)
		if !ok {
			return nil, fmt.Errorf("capability %q is not registered", arg)
		}
		return fn, nil
	case "cel":
		return l.compiler.CompilePhase(arg)
	default:
		return nil, fmt.Errorf("reference %q: unknown kind %q", ref, kind)
	}
}
