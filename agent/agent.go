// Package agent implements the supervisor and the four specialist handlers.
// Handlers mutate the session state in place and never let a failure cross
// their boundary: internal errors become state fields that route the run to
// the error terminal.
package agent

import (
	"context"

	"github.com/sanjibani/cardiology-ai-agent/types"
)

// Handler is one processing unit in the routing graph.
type Handler interface {
	// Name returns the handler's node name.
	Name() types.HandlerName

	// Run executes the handler against the session state. It must not
	// return an error or panic; failures are recorded on the state.
	Run(ctx context.Context, state *types.SessionState)
}

// reply appends an assistant turn attributed to a handler.
func reply(state *types.SessionState, handler types.HandlerName, content string) {
	state.AppendMessage(types.NewAssistantMessage(string(handler), content))
}
