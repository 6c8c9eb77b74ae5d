package logger

import (
	"sync"
	"time"
)

// StageInfo describes one iterator stage of an assembled pipeline, for
// topology logging.
type StageInfo struct {
	Name       string
	Kind       string // "transform", "union", "clone", "source", ...
	IteratorID string
	BufferSize int
	Upstream   []string
}

// PipelineRegistry tracks the stages of one assembled pipeline so its
// topology can be logged in a single summary line per stage instead of
// scattered construction-time messages.
type PipelineRegistry struct {
	mu        sync.Mutex
	name      string
	startTime time.Time
	stages    []StageInfo
}

// NewPipelineRegistry creates a registry for the named pipeline.
func NewPipelineRegistry(name string) *PipelineRegistry {
	return &PipelineRegistry{
		name:      name,
		startTime: time.Now(),
	}
}

// Name returns the pipeline's name.
func (r *PipelineRegistry) Name() string { return r.name }

// StartTime returns when the registry was created (pipeline assembly start).
func (r *PipelineRegistry) StartTime() time.Time { return r.startTime }

// RegisterStage records one stage. Stages are reported in registration
// order, which for a linear pipeline is assembly order.
func (r *PipelineRegistry) RegisterStage(info StageInfo) {
	r.mu.Lock()
	r.stages = append(r.stages, info)
	r.mu.Unlock()
}

// Stages returns a snapshot of the registered stages.
func (r *PipelineRegistry) Stages() []StageInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]StageInfo(nil), r.stages...)
}

// LogSummary writes the pipeline topology to l (the global logger when l is
// nil): one summary line, then one line per stage.
func (r *PipelineRegistry) LogSummary(l *Logger) {
	if l == nil {
		l = GetGlobalLogger()
	}
	stages := r.Stages()
	l.Info("pipeline assembled", Fields(
		FieldPipeline, r.name,
		"stages", len(stages),
		FieldDuration, time.Since(r.startTime).Milliseconds(),
	))
	for i, s := range stages {
		l.Info("pipeline stage", Fields(
			FieldPipeline, r.name,
			FieldStage, s.Name,
			"position", i,
			"kind", s.Kind,
			FieldIterator, s.IteratorID,
			FieldBufferSize, s.BufferSize,
			"upstream", s.Upstream,
		))
	}
}
