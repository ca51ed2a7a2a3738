package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjibani/cardiology-ai-agent/store"
	"github.com/sanjibani/cardiology-ai-agent/types"
)

func newEducationHandler() *Education {
	return NewEducation(store.NewKnowledgeStore(), store.NewPatientStore(nil), nil)
}

func runEducation(t *testing.T, patientID, message string, urgency types.Urgency) *types.SessionState {
	t.Helper()
	state := types.NewSessionState(patientID, message)
	state.Urgency = urgency
	newEducationHandler().Run(context.Background(), state)
	require.False(t, state.HasError())
	require.NotNil(t, state.EducationResult, "education must always return one block")
	return state
}

func TestEducationBlockSelection(t *testing.T) {
	tests := []struct {
		name      string
		message   string
		urgency   types.Urgency
		wantTopic string
	}{
		{"urgent gets emergency recognition", "what now?", types.UrgencyUrgent, "emergency_recognition"},
		{"emergency gets emergency recognition", "help", types.UrgencyEmergency, "emergency_recognition"},
		{"moderate gets symptom monitoring", "mild dizziness", types.UrgencyModerate, "symptom_monitoring"},
		{"medication question gets medication block", "I forgot my medication dose", types.UrgencyRoutine, "medication_management"},
		{"default is lifestyle", "how do I stay healthy", types.UrgencyRoutine, "heart_healthy_lifestyle"},
		{"unset urgency is lifestyle", "hello there", types.UrgencyUnset, "heart_healthy_lifestyle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := runEducation(t, "P001", tt.message, tt.urgency)
			assert.Equal(t, tt.wantTopic, state.EducationResult.Topic)
			assert.NotEmpty(t, state.EducationResult.Content)
		})
	}
}

func TestEducationConcernExtraction(t *testing.T) {
	state := runEducation(t, "P001",
		"I'm worried about this ache and my breathing", types.UrgencyRoutine)

	concerns := state.EducationResult.Concerns
	assert.Contains(t, concerns, "emotional_support_needed")
	assert.Contains(t, concerns, "pain_management")
	assert.Contains(t, concerns, "breathing_difficulty")
}

func TestEducationPersonalizedRecommendations(t *testing.T) {
	// P002 has obesity and hypertension risk factors.
	state := runEducation(t, "P002", "lifestyle advice please", types.UrgencyRoutine)

	recs := state.EducationResult.Recommendations
	require.NotEmpty(t, recs)
	assert.Contains(t, recs, "Start with 10-15 minutes daily walking, gradually increase")
	assert.Contains(t, recs, "Follow DASH diet: low sodium, high fruits/vegetables")
}

func TestEducationUnknownPatientFallsBackToKnowledgeBase(t *testing.T) {
	state := runEducation(t, "P999", "lifestyle advice please", types.UrgencyRoutine)
	assert.NotEmpty(t, state.EducationResult.Recommendations)
}

func TestEducationNeverFailsOnEmptyMessage(t *testing.T) {
	state := &types.SessionState{PatientID: "P001"}
	newEducationHandler().Run(context.Background(), state)

	assert.False(t, state.HasError())
	require.NotNil(t, state.EducationResult)
	assert.Equal(t, "heart_healthy_lifestyle", state.EducationResult.Topic)
}

func TestEducationWellnessTracking(t *testing.T) {
	// P001 has hypertension, so a home-monitoring question yields blood
	// pressure guidance even without naming it.
	state := runEducation(t, "P001", "how should I monitor things at home?", types.UrgencyRoutine)

	require.NotEmpty(t, state.EducationResult.Tracking)
	assert.Equal(t, "blood_pressure", state.EducationResult.Tracking[0].Goal)
	assert.Equal(t, "Less than 130/80 mmHg for most adults", state.EducationResult.Tracking[0].TargetRange)
	assert.Contains(t, state.ToolsUsed, "wellness_tracking")
}

func TestEducationWellnessTrackingGoals(t *testing.T) {
	tests := []struct {
		name      string
		patientID string
		message   string
		wantGoals []string
	}{
		{"weight from message and heart failure", "P003", "help me track my weight", []string{"weight"}},
		{"exercise from activity words", "P999", "I want to track my walking", []string{"exercise"}},
		{"unknown patient defaults to symptoms", "P999", "what should I measure?", []string{"symptoms"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := runEducation(t, tt.patientID, tt.message, types.UrgencyRoutine)

			var goals []string
			for _, g := range state.EducationResult.Tracking {
				goals = append(goals, g.Goal)
			}
			assert.Equal(t, tt.wantGoals, goals)
		})
	}
}

func TestEducationNoTrackingWithoutMonitoringIntent(t *testing.T) {
	state := runEducation(t, "P001", "lifestyle advice please", types.UrgencyRoutine)

	assert.Empty(t, state.EducationResult.Tracking)
	assert.NotContains(t, state.ToolsUsed, "wellness_tracking")
}

func TestEducationToolAudit(t *testing.T) {
	state := runEducation(t, "P001", "hello", types.UrgencyRoutine)
	assert.Contains(t, state.ToolsUsed, "patient_education")
	assert.Contains(t, state.ToolsUsed, "knowledge_base")
}
