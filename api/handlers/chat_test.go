package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjibani/cardiology-ai-agent/agent"
	"github.com/sanjibani/cardiology-ai-agent/api"
	"github.com/sanjibani/cardiology-ai-agent/store"
	"github.com/sanjibani/cardiology-ai-agent/testutil/mocks"
	"github.com/sanjibani/cardiology-ai-agent/types"
	"github.com/sanjibani/cardiology-ai-agent/workflow"
)

func newChatHandler(t *testing.T, oracle *mocks.Oracle, sessions *store.SessionContextStore) *ChatHandler {
	t.Helper()
	patients := store.NewPatientStore(nil)
	knowledge := store.NewKnowledgeStore()
	cal := store.NewMemoryAppointmentStore(nil)
	engine := workflow.NewEngine([]agent.Handler{
		agent.NewSupervisor(oracle, nil),
		agent.NewTriage(oracle, patients, nil),
		agent.NewAppointment(oracle, cal, nil),
		agent.NewEducation(knowledge, patients, nil),
		agent.NewClinicalDocs(nil),
	}, nil, nil)
	return NewChatHandler(engine, sessions, nil, nil)
}

func postChat(t *testing.T, handle http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handle(rec, req)
	return rec
}

func decodeChatResponse(t *testing.T, rec *httptest.ResponseRecorder) *api.ChatResponse {
	t.Helper()
	var envelope struct {
		Success bool             `json:"success"`
		Data    api.ChatResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	return &envelope.Data
}

func TestChatEducationPath(t *testing.T) {
	oracle := mocks.NewOracle().WithReplies(
		`{"handler":"education","urgency":"routine","reasoning":"general question"}`,
	)
	h := newChatHandler(t, oracle, nil)

	rec := postChat(t, h.HandleChat, api.ChatRequest{
		PatientID: "P001",
		Message:   "how do I stay heart healthy?",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeChatResponse(t, rec)
	assert.NotEmpty(t, resp.Response)
	assert.Equal(t, string(types.HandlerEducation), resp.AgentUsed)
	assert.False(t, resp.RequiresFollowUp)
	assert.Nil(t, resp.EmergencyAlert)
	require.NotNil(t, resp.StructuredData)
	require.NotNil(t, resp.StructuredData.Education)
	assert.Equal(t, "heart_healthy_lifestyle", resp.StructuredData.Education.Topic)
}

func TestChatEmergencyCarriesAlert(t *testing.T) {
	oracle := mocks.NewOracle().WithReplies(
		`{"handler":"triage","urgency":"urgent","reasoning":"acute symptoms"}`,
		"Symptoms consistent with acute coronary syndrome.",
	)
	h := newChatHandler(t, oracle, nil)

	rec := postChat(t, h.HandleChat, api.ChatRequest{
		PatientID: "P001",
		Message:   "I have crushing chest pain radiating to my arm",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeChatResponse(t, rec)
	assert.True(t, resp.RequiresFollowUp)
	require.NotNil(t, resp.EmergencyAlert)
	assert.NotEmpty(t, resp.EmergencyAlert.Contacts)
	require.NotNil(t, resp.StructuredData)
	assert.Equal(t, types.UrgencyEmergency, resp.StructuredData.Urgency)
	assert.Nil(t, resp.StructuredData.Appointment)
}

func TestChatRejectsMissingMessage(t *testing.T) {
	h := newChatHandler(t, mocks.NewOracle(), nil)
	rec := postChat(t, h.HandleChat, api.ChatRequest{PatientID: "P001"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatRejectsInvalidJSON(t *testing.T) {
	h := newChatHandler(t, mocks.NewOracle(), nil)
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte(`{"patient_id":`)))
	rec := httptest.NewRecorder()
	h.HandleChat(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTriageEndpointForcesFirstHop(t *testing.T) {
	// No routing reply needed: the run enters at triage directly. The single
	// reply serves the clinical note.
	oracle := mocks.NewOracle().WithReplies("Clinical note.")
	h := newChatHandler(t, oracle, nil)

	rec := postChat(t, h.HandleTriage, api.ChatRequest{
		PatientID: "P003",
		Message:   "occasional dizziness when standing up",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeChatResponse(t, rec)
	require.NotNil(t, resp.StructuredData)
	require.NotNil(t, resp.StructuredData.Triage)
	assert.Equal(t, types.UrgencyUrgent, resp.StructuredData.Urgency)
	// Urgent flows on to appointment booking.
	require.NotNil(t, resp.StructuredData.Appointment)
	assert.True(t, resp.StructuredData.Appointment.Success)
}

func TestAppointmentEndpointForcesFirstHop(t *testing.T) {
	oracle := mocks.NewOracle().WithReplies(`{"requires_approval": false}`)
	h := newChatHandler(t, oracle, nil)

	rec := postChat(t, h.HandleAppointment, api.ChatRequest{
		PatientID: "P002",
		Message:   "I need a check-up appointment",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeChatResponse(t, rec)
	require.NotNil(t, resp.StructuredData)
	require.NotNil(t, resp.StructuredData.Appointment)
	assert.True(t, resp.StructuredData.Appointment.Success)
	assert.Contains(t, resp.StructuredData.Appointment.BookingID, "CARD-")
}

func TestChatPersistsSessionContext(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := store.NewSessionContextStore(client, 0, nil)

	oracle := mocks.NewOracle().WithReplies(
		`{"handler":"education","urgency":"routine","reasoning":"general question"}`,
	)
	h := newChatHandler(t, oracle, sessions)

	rec := postChat(t, h.HandleChat, api.ChatRequest{
		PatientID: "P001",
		Message:   "how do I stay heart healthy?",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	sc, err := sessions.Load(t.Context(), "P001")
	require.NoError(t, err)
	require.NotNil(t, sc)
	require.NotEmpty(t, sc.History)
	assert.Equal(t, types.RoleUser, sc.History[0].Role)
	assert.Equal(t, "how do I stay heart healthy?", sc.History[0].Content)

	// A second message sees the stored history.
	oracle2 := mocks.NewOracle().WithReplies(
		`{"handler":"education","urgency":"routine","reasoning":"follow-up"}`,
	)
	h2 := newChatHandler(t, oracle2, sessions)
	rec2 := postChat(t, h2.HandleChat, api.ChatRequest{
		PatientID: "P001",
		Message:   "and what about diet?",
	})
	require.Equal(t, http.StatusOK, rec2.Code)

	sc2, err := sessions.Load(t.Context(), "P001")
	require.NoError(t, err)
	assert.Greater(t, len(sc2.History), len(sc.History))
}

func TestChatOracleFailureStillReturnsEnvelope(t *testing.T) {
	oracle := mocks.NewOracle().WithError(assert.AnError)
	h := newChatHandler(t, oracle, nil)

	rec := postChat(t, h.HandleChat, api.ChatRequest{
		PatientID: "P001",
		Message:   "hello",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeChatResponse(t, rec)
	assert.True(t, resp.RequiresFollowUp)
	assert.NotEmpty(t, resp.Response)
}
