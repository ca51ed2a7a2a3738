package agent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sanjibani/cardiology-ai-agent/llm"
	"github.com/sanjibani/cardiology-ai-agent/store"
	"github.com/sanjibani/cardiology-ai-agent/types"
)

// cardiacKeywords mark symptoms warranting cardiac assessment.
var cardiacKeywords = []string{"chest pain", "shortness of breath", "palpitations", "dizziness"}

// emergencyModifiers upgrade a symptom description to emergency severity.
var emergencyModifiers = []string{"crushing", "radiating", "severe", "sudden onset"}

// emergencyKeywords trigger immediate escalation on their own.
var emergencyKeywords = []string{
	"chest pain", "can't breathe", "heart attack", "crushing pain",
	"pain radiating", "loss of consciousness", "severe shortness of breath",
	"cardiac arrest", "emergency", "911", "ambulance",
}

// highRiskConditions amplify the patient risk score.
var highRiskConditions = []string{"previous heart attack", "coronary artery disease", "heart failure"}

var emergencyContacts = []types.EmergencyContact{
	{Name: "emergency_services", Phone: "911"},
	{Name: "cardiology_emergency", Phone: "555-CARD-911"},
	{Name: "hospital_emergency", Phone: "555-HOSP-ER"},
	{Name: "poison_control", Phone: "1-800-222-1222"},
}

var emergencyInstructions = []string{
	"Call 911 right now",
	"Do not drive yourself to the hospital",
	"If experiencing chest pain, chew aspirin if not allergic",
	"Stay calm and follow dispatcher instructions",
	"Have someone stay with you if possible",
}

const triagePrompt = `As a cardiac triage specialist, briefly assess these symptoms.
Focus on cardiac vs non-cardiac presentation, emergency indicators, and immediate concerns.
Two sentences maximum.`

// Triage computes a severity score and urgency bucket from the message and
// the patient's risk factors, escalating emergencies.
type Triage struct {
	oracle   llm.Provider
	patients *store.PatientStore
	logger   *zap.Logger
}

// NewTriage creates the triage handler.
func NewTriage(oracle llm.Provider, patients *store.PatientStore, logger *zap.Logger) *Triage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Triage{
		oracle:   oracle,
		patients: patients,
		logger:   logger.With(zap.String("component", "agent.triage")),
	}
}

// Name implements Handler.
func (t *Triage) Name() types.HandlerName { return types.HandlerTriage }

// Run implements Handler.
func (t *Triage) Run(ctx context.Context, state *types.SessionState) {
	state.CurrentHandler = types.HandlerTriage

	message := state.LatestUserMessage()
	if strings.TrimSpace(message) == "" {
		state.SetError("no symptoms to analyze")
		return
	}

	cardiac, emergencyMods, baseSeverity, baseScore := analyzeSymptoms(message)
	state.RecordTool("symptom_analysis")

	// Clinical note from the oracle. The keyword analysis is authoritative;
	// the note is supplementary, so oracle failure degrades to an error
	// state the same way the store failures do.
	note, err := t.oracle.Complete(ctx, triagePrompt, []types.Message{types.NewUserMessage(message)})
	if err != nil {
		state.SetError(fmt.Sprintf("symptom analysis failed: %v", err))
		return
	}

	riskFactors, riskScore := t.assessRisk(state.PatientID)
	state.RecordTool("patient_risk_assessment")

	combined := baseScore * (riskScore / 5.0)
	if combined > 10 {
		combined = 10
	}

	emergencyHits := matchKeywords(message, emergencyKeywords)
	urgency := bucketUrgency(emergencyHits, emergencyMods, combined, baseSeverity)

	result := &types.TriageResult{
		Urgency:             urgency,
		SeverityScore:       combined,
		CardiacIndicators:   cardiac,
		EmergencyIndicators: append(emergencyMods, emergencyHits...),
		RiskFactors:         riskFactors,
		Recommendation:      recommendationFor(urgency),
	}

	if urgency == types.UrgencyEmergency {
		result.Escalation = t.escalate(state)
		state.MarkEscalation()
	} else if urgency == types.UrgencyUrgent {
		state.MarkEscalation()
	}

	state.SetUrgency(urgency)
	state.SeverityScore = combined
	state.SetTriageResult(result)

	t.logger.Info("triage complete",
		zap.String("patient_id", state.PatientID),
		zap.String("urgency", string(urgency)),
		zap.Float64("severity", combined))

	reply(state, types.HandlerTriage, fmt.Sprintf(
		"Triage complete: %s priority (severity %.1f/10). %s\n%s",
		strings.ToUpper(string(urgency)), combined, result.Recommendation, strings.TrimSpace(note)))
}

// analyzeSymptoms runs the keyword rule table: emergency modifiers score 9,
// two or more cardiac indicators 7, one indicator 5, otherwise 3.
func analyzeSymptoms(message string) (cardiac, emergency []string, severity types.Urgency, score float64) {
	cardiac = matchKeywords(message, cardiacKeywords)
	emergency = matchKeywords(message, emergencyModifiers)

	switch {
	case len(emergency) > 0:
		return cardiac, emergency, types.UrgencyEmergency, 9
	case len(cardiac) >= 2:
		return cardiac, emergency, types.UrgencyUrgent, 7
	case len(cardiac) == 1:
		return cardiac, emergency, types.UrgencyModerate, 5
	default:
		return cardiac, emergency, types.UrgencyRoutine, 3
	}
}

// assessRisk derives a 0-10 risk score from the patient record. Unknown
// patients get the neutral midpoint so the multiplier is 1.
func (t *Triage) assessRisk(patientID string) ([]string, float64) {
	p, ok := t.patients.Get(patientID)
	if !ok {
		return nil, 5.0
	}

	score := 5.0
	factors := append([]string(nil), p.RiskFactors...)
	score += 0.5 * float64(len(p.RiskFactors))
	for _, c := range p.Conditions {
		for _, hr := range highRiskConditions {
			if strings.Contains(strings.ToLower(c), hr) {
				factors = append(factors, c)
				score += 1.0
			}
		}
	}
	if score > 10 {
		score = 10
	}
	return factors, score
}

// bucketUrgency applies the strict ordering: emergency, urgent, moderate,
// routine, first match wins. An emergency keyword or a combined score of 9+
// takes precedence over every other signal.
func bucketUrgency(emergencyHits, emergencyMods []string, combined float64, base types.Urgency) types.Urgency {
	switch {
	case len(emergencyHits) > 0 || len(emergencyMods) > 0 || combined >= 9 || base == types.UrgencyEmergency:
		return types.UrgencyEmergency
	case combined >= 7 || base == types.UrgencyUrgent:
		return types.UrgencyUrgent
	case combined >= 5 || base == types.UrgencyModerate:
		return types.UrgencyModerate
	default:
		return types.UrgencyRoutine
	}
}

// escalate builds the emergency payload and audit-logs the escalation.
func (t *Triage) escalate(state *types.SessionState) *types.EscalationPayload {
	payload := &types.EscalationPayload{
		Contacts:     emergencyContacts,
		Instructions: emergencyInstructions,
	}
	if p, ok := t.patients.Get(state.PatientID); ok {
		payload.EMSInfo = &types.EMSPatientInfo{
			PatientID:   p.ID,
			Name:        p.Name,
			Age:         p.Age,
			Conditions:  p.Conditions,
			Medications: p.Medications,
			Allergies:   p.Allergies,
		}
	}
	state.RecordTool("emergency_escalation")

	// Audit trail for every escalation.
	t.logger.Warn("emergency escalation triggered",
		zap.String("patient_id", state.PatientID),
		zap.Strings("instructions", payload.Instructions))
	return payload
}

func recommendationFor(u types.Urgency) string {
	switch u {
	case types.UrgencyEmergency:
		return "Call 911 immediately - potential acute cardiac event."
	case types.UrgencyUrgent:
		return "Contact your cardiologist within 2 hours; if unavailable, go to the emergency department."
	case types.UrgencyModerate:
		return "Schedule a cardiology appointment within 1-2 weeks and monitor symptoms."
	default:
		return "Schedule routine cardiology follow-up as needed and continue heart-healthy habits."
	}
}

func matchKeywords(message string, keywords []string) []string {
	m := strings.ToLower(message)
	var hits []string
	for _, kw := range keywords {
		if strings.Contains(m, kw) {
			hits = append(hits, kw)
		}
	}
	return hits
}
