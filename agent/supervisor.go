package agent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sanjibani/cardiology-ai-agent/llm"
	"github.com/sanjibani/cardiology-ai-agent/types"
)

const supervisorPrompt = `You are a routing supervisor for a cardiology AI system.
Analyze the patient's message and route it to the appropriate specialist:

- triage: symptoms, pain, discomfort, emergency situations
- appointment: scheduling, rescheduling, appointment questions
- education: medication questions, general education, post-procedure care
- clinical_docs: documentation requests, test results, medical records
- end: the conversation is complete, nothing to do

Reply with JSON only: {"handler": "<name>", "urgency": "<emergency|urgent|moderate|routine>", "reasoning": "<one sentence>"}`

// routeDecision is the oracle's routing reply shape.
type routeDecision struct {
	Handler   string `json:"handler"`
	Urgency   string `json:"urgency"`
	Reasoning string `json:"reasoning"`
}

// Supervisor classifies an incoming message and selects the next handler.
// Any label outside the closed handler set falls back to education with a
// low-confidence marker; that fallback is the routing logic's only explicit
// recovery rule and is relied on by the engine.
type Supervisor struct {
	oracle llm.Provider
	logger *zap.Logger
}

// NewSupervisor creates the supervisor.
func NewSupervisor(oracle llm.Provider, logger *zap.Logger) *Supervisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Supervisor{
		oracle: oracle,
		logger: logger.With(zap.String("component", "agent.supervisor")),
	}
}

// Name implements Handler.
func (s *Supervisor) Name() types.HandlerName { return types.HandlerSupervisor }

// Run implements Handler.
func (s *Supervisor) Run(ctx context.Context, state *types.SessionState) {
	state.CurrentHandler = types.HandlerSupervisor

	message := state.LatestUserMessage()
	if strings.TrimSpace(message) == "" {
		state.SetError("empty patient message")
		return
	}

	raw, err := s.oracle.Complete(ctx, supervisorPrompt, state.Messages)
	if err != nil {
		state.SetError(fmt.Sprintf("routing classification failed: %v", err))
		return
	}

	decision, parsed := llm.ParseOrDefault(raw, routeDecision{Handler: "education", Urgency: "routine"})
	next, recognized := normalizeHandler(decision.Handler)
	if !parsed || !recognized {
		// Unrecognized oracle output never raises and never loops; it is
		// mapped to the default handler.
		s.logger.Warn("unrecognized routing decision, defaulting to education",
			zap.String("raw_handler", decision.Handler), zap.Bool("parsed", parsed))
		next = types.HandlerEducation
		decision.Reasoning = "low-confidence routing: unrecognized classifier output"
	}

	if u := types.Urgency(strings.ToLower(decision.Urgency)); u.Valid() {
		state.SetUrgency(u)
	}
	state.NextHandler = next

	s.logger.Info("message routed",
		zap.String("patient_id", state.PatientID),
		zap.String("next_handler", string(next)),
		zap.String("urgency", string(state.Urgency)))
	if decision.Reasoning != "" {
		reply(state, types.HandlerSupervisor, "Routing: "+decision.Reasoning)
	}
}

// normalizeHandler maps an oracle label onto the closed handler set. It
// tolerates the uppercase agent-name style some prompts produce.
func normalizeHandler(label string) (types.HandlerName, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "triage", "triage_agent":
		return types.HandlerTriage, true
	case "appointment", "appointment_agent":
		return types.HandlerAppointment, true
	case "education", "virtual_assistant", "virtual_assistant_agent":
		return types.HandlerEducation, true
	case "clinical_docs", "clinicaldocs", "clinical_docs_agent":
		return types.HandlerClinicalDocs, true
	case "end":
		return types.HandlerTerminal, true
	default:
		return "", false
	}
}
