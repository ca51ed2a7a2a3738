// Package llm defines the text-completion oracle contract and its HTTP
// implementation. The rest of the service treats the oracle as opaque:
// text in, text out, no structure guaranteed. Structured replies must go
// through ParseOrDefault.
package llm

import (
	"context"
	"time"

	"github.com/sanjibani/cardiology-ai-agent/types"
)

// HealthStatus reports the outcome of a provider health probe.
type HealthStatus struct {
	Healthy bool          `json:"healthy"`
	Latency time.Duration `json:"latency"`
}

// Provider is the text-completion oracle. Implementations are synchronous;
// cancellation and timeouts arrive via ctx.
type Provider interface {
	// Complete sends a system prompt plus conversation turns and returns
	// the raw completion text. No output structure is guaranteed.
	Complete(ctx context.Context, systemPrompt string, turns []types.Message) (string, error)

	// HealthCheck performs a lightweight probe against the upstream.
	HealthCheck(ctx context.Context) (*HealthStatus, error)

	// Name returns the provider's unique identifier.
	Name() string
}
