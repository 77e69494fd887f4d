package eureka

import "go.uber.org/zap"

// Event describes one phase transition: which heuristic ran which
// phase against which task, and what came of it. The engine emits one
// event per phase invocation; format and sink are up to the Observer.
type Event struct {
	Heuristic string
	Phase     Phase
	TaskID    string
	Result    bool
	Err       error
}

// Observer receives phase-transition events for external logging or
// analysis. Observers must not mutate engine state.
type Observer interface {
	ObservePhase(e Event)
}

// NopObserver discards all events. It is the engine default.
type NopObserver struct{}

func (NopObserver) ObservePhase(Event) {}

// LoggingObserver writes one structured log line per phase
// transition.
type LoggingObserver struct {
	Log *zap.Logger
}

func (o LoggingObserver) ObservePhase(e Event) {
	fields := []zap.Field{
		zap.String("heuristic", e.Heuristic),
		zap.String("phase", string(e.Phase)),
		zap.String("task_id", e.TaskID),
		zap.Bool("result", e.Result),
	}
	if e.Err != nil {
		o.Log.Warn("phase", append(fields, zap.Error(e.Err))...)
		return
	}
	o.Log.Debug("phase", fields...)
}
