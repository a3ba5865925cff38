// Package session maps browser clients to the pipeline built from their
// most recent upload.
package session

import (
	"sync"

	"docqa/internal/metrics"
	"docqa/internal/pipeline"
)

type Registry struct {
	mu        sync.RWMutex
	pipelines map[string]*pipeline.Pipeline
}

func NewRegistry() *Registry {
	return &Registry{pipelines: make(map[string]*pipeline.Pipeline)}
}

func (r *Registry) Get(id string) (*pipeline.Pipeline, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pipelines[id]
	return p, ok
}

// Swap installs p for id and returns the pipeline it replaced, if any.
// Callers already holding the old pipeline keep using it undisturbed.
func (r *Registry) Swap(id string, p *pipeline.Pipeline) *pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	old := r.pipelines[id]
	r.pipelines[id] = p
	metrics.ActiveSessions.Set(float64(len(r.pipelines)))
	return old
}

func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pipelines, id)
	metrics.ActiveSessions.Set(float64(len(r.pipelines)))
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pipelines)
}
