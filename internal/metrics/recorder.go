// Package metrics tracks LLM usage across an extraction run.
package metrics

import (
	"sync"
	"time"

	"github.com/buildply/intake/internal/providers"
)

// Usage aggregates request counts and token totals.
type Usage struct {
	Requests         int           `json:"requests" yaml:"requests"`
	Failures         int           `json:"failures" yaml:"failures"`
	PromptTokens     int           `json:"prompt_tokens" yaml:"prompt_tokens"`
	CompletionTokens int           `json:"completion_tokens" yaml:"completion_tokens"`
	TotalTokens      int           `json:"total_tokens" yaml:"total_tokens"`
	WallTime         time.Duration `json:"wall_time_ns" yaml:"wall_time_ns"`
}

func (u *Usage) add(res *providers.ChatResult) {
	u.Requests++
	if !res.Success {
		u.Failures++
	}
	u.PromptTokens += res.PromptTokens
	u.CompletionTokens += res.CompletionTokens
	u.TotalTokens += res.TotalTokens
	u.WallTime += res.ExecutionTime
}

// Recorder accumulates usage per provider. Safe for concurrent use.
type Recorder struct {
	mu         sync.Mutex
	total      Usage
	byProvider map[string]Usage
}

// NewRecorder creates an empty usage recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		byProvider: make(map[string]Usage),
	}
}

// Record accumulates one chat result, successful or not.
func (r *Recorder) Record(res *providers.ChatResult) {
	if res == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.total.add(res)
	u := r.byProvider[res.Provider]
	u.add(res)
	r.byProvider[res.Provider] = u
}

// Total returns aggregate usage across all providers.
func (r *Recorder) Total() Usage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

// ByProvider returns a copy of per-provider usage.
func (r *Recorder) ByProvider() map[string]Usage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]Usage, len(r.byProvider))
	for name, u := range r.byProvider {
		out[name] = u
	}
	return out
}
