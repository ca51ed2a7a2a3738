// Package workflow implements the routing graph over the handler set:
// supervisor, triage, appointment, education, clinical docs, plus the two
// terminal markers. Execution is a single-threaded synchronous step loop;
// the graph has no cycles back to the supervisor, so a run terminates in at
// most three hops after classification.
package workflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/sanjibani/cardiology-ai-agent/agent"
	"github.com/sanjibani/cardiology-ai-agent/types"
)

// maxHops bounds a run at supervisor plus three specialist hops. The graph
// is acyclic so the bound is a backstop, not a scheduler.
const maxHops = 4

// TransitionObserver receives every node transition, for metrics.
type TransitionObserver interface {
	ObserveTransition(from, to types.HandlerName)
}

// Engine executes one session state through the routing graph.
type Engine struct {
	handlers map[types.HandlerName]agent.Handler
	observer TransitionObserver
	logger   *zap.Logger
}

// NewEngine builds the engine over a handler set. observer may be nil.
func NewEngine(handlers []agent.Handler, observer TransitionObserver, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := make(map[types.HandlerName]agent.Handler, len(handlers))
	for _, h := range handlers {
		m[h.Name()] = h
	}
	return &Engine{
		handlers: m,
		observer: observer,
		logger:   logger.With(zap.String("component", "workflow.engine")),
	}
}

// Run executes a full routing run starting at the supervisor.
func (e *Engine) Run(ctx context.Context, state *types.SessionState) *types.SessionState {
	return e.RunFrom(ctx, state, types.HandlerSupervisor)
}

// RunFrom executes a run entering at a specific node. The dedicated triage
// and appointment endpoints use it to force their first hop.
func (e *Engine) RunFrom(ctx context.Context, state *types.SessionState, entry types.HandlerName) *types.SessionState {
	current := entry

	for hop := 0; hop < maxHops; hop++ {
		if state.WorkflowComplete {
			return state
		}

		h, ok := e.handlers[current]
		if !ok {
			state.SetError("no handler registered for node " + string(current))
			e.observe(current, types.HandlerErrorTerminal)
			e.terminate(types.HandlerErrorTerminal, state)
			return state
		}

		h.Run(ctx, state)

		next := nextNode(current, state)
		e.observe(current, next)
		e.logger.Debug("node transition",
			zap.String("from", string(current)),
			zap.String("to", string(next)),
			zap.String("urgency", string(state.Urgency)))

		if next.IsTerminal() {
			e.terminate(next, state)
			return state
		}
		current = next
	}

	// Hop bound exhausted; close the run rather than keep going.
	e.observe(current, types.HandlerTerminal)
	e.terminate(types.HandlerTerminal, state)
	return state
}

// nextNode is the pure transition function over the updated state. Any
// recorded error overrides every edge and routes to the error terminal.
func nextNode(current types.HandlerName, state *types.SessionState) types.HandlerName {
	if state.HasError() {
		return types.HandlerErrorTerminal
	}

	switch current {
	case types.HandlerSupervisor:
		next := state.NextHandler
		if next == "" || next == types.HandlerSupervisor {
			return types.HandlerEducation
		}
		return next

	case types.HandlerTriage:
		switch state.Urgency {
		case types.UrgencyEmergency:
			// Emergencies end automated routing; a human takes over.
			return types.HandlerTerminal
		case types.UrgencyUrgent, types.UrgencyModerate:
			return types.HandlerAppointment
		default:
			return types.HandlerEducation
		}

	case types.HandlerAppointment:
		if state.AppointmentResult != nil && state.AppointmentResult.Success {
			return types.HandlerEducation
		}
		return types.HandlerTerminal

	default:
		// education and clinical docs are leaf handlers in every path.
		return types.HandlerTerminal
	}
}

// terminate closes the run at a terminal node. The error terminal always
// leaves requiresHumanReview set.
func (e *Engine) terminate(terminal types.HandlerName, state *types.SessionState) {
	if terminal == types.HandlerErrorTerminal {
		state.MarkHumanReview()
	}
	if state.Urgency == types.UrgencyEmergency {
		state.MarkHumanReview()
	}
	state.CurrentHandler = terminal
	state.MarkComplete()

	e.logger.Info("routing run complete",
		zap.String("patient_id", state.PatientID),
		zap.String("terminal", string(terminal)),
		zap.String("urgency", string(state.Urgency)),
		zap.Bool("human_review", state.RequiresHumanReview),
		zap.Strings("tools_used", state.ToolsUsed))
}

func (e *Engine) observe(from, to types.HandlerName) {
	if e.observer != nil && from != to {
		e.observer.ObserveTransition(from, to)
	}
}
