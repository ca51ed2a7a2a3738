// Package mocks provides test doubles shared across packages.
package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/sanjibani/cardiology-ai-agent/llm"
	"github.com/sanjibani/cardiology-ai-agent/types"
)

// Oracle is a builder-style mock llm.Provider. Replies are served in order;
// the last reply repeats once the queue drains.
type Oracle struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   int
	prompts []string
}

// NewOracle creates a mock oracle with a default empty reply.
func NewOracle() *Oracle {
	return &Oracle{}
}

// WithReplies queues completion replies, served in order.
func (o *Oracle) WithReplies(replies ...string) *Oracle {
	o.replies = append(o.replies, replies...)
	return o
}

// WithError makes every Complete call fail.
func (o *Oracle) WithError(err error) *Oracle {
	o.err = err
	return o
}

// Complete implements llm.Provider.
func (o *Oracle) Complete(_ context.Context, systemPrompt string, _ []types.Message) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.calls++
	o.prompts = append(o.prompts, systemPrompt)
	if o.err != nil {
		return "", o.err
	}
	if len(o.replies) == 0 {
		return "", nil
	}
	reply := o.replies[0]
	if len(o.replies) > 1 {
		o.replies = o.replies[1:]
	}
	return reply, nil
}

// HealthCheck implements llm.Provider.
func (o *Oracle) HealthCheck(context.Context) (*llm.HealthStatus, error) {
	return &llm.HealthStatus{Healthy: true, Latency: time.Millisecond}, nil
}

// Name implements llm.Provider.
func (o *Oracle) Name() string { return "mock" }

// Calls reports how many completions were requested.
func (o *Oracle) Calls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls
}

// Prompts returns the system prompts seen so far.
func (o *Oracle) Prompts() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.prompts...)
}
