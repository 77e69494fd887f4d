// Package eureka provides an agenda-driven discovery engine: a
// knowledge base of typed, inheritance-linked records (units), a
// priority-driven work queue (tasks), and a rule engine (heuristics)
// whose rules are themselves knowledge-base records with staged
// relevance/effect phases and self-tracked performance statistics.
//
// Typical use is as follows:
//
//  1. Create an engine; its store comes with the core slot registry
//  2. Create units describing the concepts you want explored
//  3. Create heuristics and install their phase callables
//  4. Seed the agenda with one or more tasks
//  5. Run the engine until the agenda is empty or a task cap is hit
//  6. Inspect the task history, the new units, and the heuristic records
//
// Heuristics are ordinary units tagged isa: heuristic. Their phase
// callables are capability handles stored in Code slots, resolved
// ahead of time by the caller or the bootstrap loader; the store
// never interprets source text. Because heuristics are plain units,
// a heuristic's then_define_new_concepts phase can create new
// heuristics that enter the same dispatch loop on the next task.
//
// Each heuristic keeps a (successes, attempts) record per phase.
// The engine schedules heuristics by effective worth,
// worth * (successes+1)/(attempts+2) over the overall record, so
// heuristics that reliably produce effects gain scheduling weight
// over a run.
//
// Execution Model
//
// Execution is single-threaded and cooperative. The agenda loop is
// the sole scheduler: one task runs to completion before the next is
// popped, and every phase callable runs to completion before the
// next phase or heuristic is considered. There are no transactions;
// the guard phases are expected to be side-effect free, and mutation
// belongs in the effect phases from then_compute on.
//
// A Unit obtained from a Store must only be written through the
// Store's Set and Add operations (or the Context helpers inside a
// phase), which validate values against the slot registry and keep
// the concept graph bidirectionally consistent.
package eureka
