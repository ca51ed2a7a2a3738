package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sanjibani/cardiology-ai-agent/api"
	"github.com/sanjibani/cardiology-ai-agent/internal/metrics"
	"github.com/sanjibani/cardiology-ai-agent/store"
	"github.com/sanjibani/cardiology-ai-agent/types"
	"github.com/sanjibani/cardiology-ai-agent/workflow"
)

// ChatHandler runs incoming patient messages through the routing graph.
// The triage and appointment endpoints are thin wrappers that force the
// first hop instead of letting the supervisor classify.
type ChatHandler struct {
	engine    *workflow.Engine
	sessions  *store.SessionContextStore
	collector *metrics.Collector
	logger    *zap.Logger
}

// NewChatHandler creates the chat handler. sessions and collector may be nil.
func NewChatHandler(engine *workflow.Engine, sessions *store.SessionContextStore, collector *metrics.Collector, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{
		engine:    engine,
		sessions:  sessions,
		collector: collector,
		logger:    logger.With(zap.String("component", "handlers.chat")),
	}
}

// HandleChat serves POST /chat.
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, types.HandlerSupervisor)
}

// HandleTriage serves POST /triage.
func (h *ChatHandler) HandleTriage(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, types.HandlerTriage)
}

// HandleAppointment serves POST /appointment.
func (h *ChatHandler) HandleAppointment(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, types.HandlerAppointment)
}

func (h *ChatHandler) run(w http.ResponseWriter, r *http.Request, entry types.HandlerName) {
	var req api.ChatRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}
	if req.Message == "" {
		WriteErrorMessage(w, http.StatusBadRequest, types.ErrInvalidRequest, "message is required", h.logger)
		return
	}

	state := types.NewSessionState(req.PatientID, req.Message)
	if len(req.Context) > 0 {
		state.Context = req.Context
	}
	priorTurns := h.loadHistory(r, state)

	start := time.Now()
	h.engine.RunFrom(r.Context(), state, entry)
	duration := time.Since(start)

	if h.collector != nil {
		h.collector.RecordSession(state, duration)
	}
	h.persistHistory(r, state, priorTurns)

	h.logger.Info("chat routed",
		zap.String("patient_id", req.PatientID),
		zap.String("entry", string(entry)),
		zap.String("terminal", string(state.CurrentHandler)),
		zap.String("urgency", string(state.Urgency)),
		zap.Bool("human_review", state.RequiresHumanReview),
		zap.Duration("duration", duration))

	WriteSuccess(w, buildChatResponse(state))
}

// loadHistory prepends the stored conversation history, returning the number
// of turns that predate this request.
func (h *ChatHandler) loadHistory(r *http.Request, state *types.SessionState) int {
	if h.sessions == nil || state.PatientID == "" {
		return 0
	}
	sc, err := h.sessions.Load(r.Context(), state.PatientID)
	if err != nil {
		// Session context is a convenience; routing proceeds without it.
		h.logger.Warn("session context unavailable",
			zap.String("patient_id", state.PatientID), zap.Error(err))
		return 0
	}
	if sc == nil {
		return 0
	}

	if len(sc.History) > 0 {
		state.Messages = append(append([]types.Message{}, sc.History...), state.Messages...)
	}
	for k, v := range sc.Data {
		if state.Context == nil {
			state.Context = make(map[string]string)
		}
		if _, ok := state.Context[k]; !ok {
			state.Context[k] = v
		}
	}
	return len(sc.History)
}

func (h *ChatHandler) persistHistory(r *http.Request, state *types.SessionState, priorTurns int) {
	if h.sessions == nil || state.PatientID == "" || priorTurns >= len(state.Messages) {
		return
	}
	if err := h.sessions.Append(r.Context(), state.PatientID, state.Messages[priorTurns:]...); err != nil {
		h.logger.Warn("failed to persist session context",
			zap.String("patient_id", state.PatientID), zap.Error(err))
	}
}

func buildChatResponse(state *types.SessionState) *api.ChatResponse {
	resp := &api.ChatResponse{
		Response:         "We could not process your message automatically. A member of the care team will follow up with you.",
		AgentUsed:        string(state.CurrentHandler),
		RequiresFollowUp: state.RequiresHumanReview,
	}

	for i := len(state.Messages) - 1; i >= 0; i-- {
		if state.Messages[i].Role == types.RoleAssistant {
			resp.Response = state.Messages[i].Content
			if state.Messages[i].Agent != "" {
				resp.AgentUsed = state.Messages[i].Agent
			}
			break
		}
	}

	if state.TriageResult != nil {
		resp.EmergencyAlert = state.TriageResult.Escalation
	}

	if state.Urgency != types.UrgencyUnset || len(state.ToolsUsed) > 0 {
		resp.StructuredData = &api.StructuredData{
			Urgency:       state.Urgency,
			SeverityScore: state.SeverityScore,
			Triage:        state.TriageResult,
			Appointment:   state.AppointmentResult,
			Education:     state.EducationResult,
			Docs:          state.DocsResult,
			ToolsUsed:     state.ToolsUsed,
		}
	}
	return resp
}
