package agent

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sanjibani/cardiology-ai-agent/store"
	"github.com/sanjibani/cardiology-ai-agent/types"
)

// educationBlock is one canned patient-education content block.
type educationBlock struct {
	topic   string
	title   string
	content []string
}

var educationBlocks = map[string]educationBlock{
	"heart_healthy_lifestyle": {
		topic: "heart_healthy_lifestyle",
		title: "Heart-Healthy Lifestyle",
		content: []string{
			"Aim for 150 minutes of moderate exercise weekly",
			"Follow a Mediterranean-style diet",
			"Limit sodium intake to less than 2,300mg daily",
			"Maintain a healthy weight (BMI 18.5-24.9)",
			"Don't smoke and limit alcohol consumption",
			"Manage stress through relaxation techniques",
		},
	},
	"medication_management": {
		topic: "medication_management",
		title: "Cardiac Medication Management",
		content: []string{
			"Take medications exactly as prescribed",
			"Don't skip doses or stop without consulting your doctor",
			"Use pill organizers to track daily medications",
			"Know the names and purposes of all your medications",
			"Report side effects to your healthcare provider",
			"Keep an updated medication list with you",
		},
	},
	"symptom_monitoring": {
		topic: "symptom_monitoring",
		title: "Cardiac Symptom Monitoring",
		content: []string{
			"Monitor blood pressure regularly if prescribed",
			"Track daily weight if heart failure history",
			"Note changes in exercise tolerance",
			"Watch for new or worsening shortness of breath",
			"Monitor for chest pain or discomfort patterns",
			"Keep a symptom diary for doctor visits",
		},
	},
	"emergency_recognition": {
		topic: "emergency_recognition",
		title: "When to Seek Emergency Care",
		content: []string{
			"Severe chest pain or pressure lasting >5 minutes",
			"Chest pain with nausea, sweating, or shortness of breath",
			"Sudden severe shortness of breath",
			"Loss of consciousness or near-fainting",
			"Rapid or irregular heartbeat with symptoms",
			"Call 911 immediately - don't drive yourself",
		},
	},
}

// Education maps urgency and extracted concern keywords to exactly one
// canned content block, plus personalized lifestyle recommendations. It is
// the routing fallback handler and therefore never fails.
type Education struct {
	knowledge *store.KnowledgeStore
	patients  *store.PatientStore
	logger    *zap.Logger
}

// NewEducation creates the education handler.
func NewEducation(knowledge *store.KnowledgeStore, patients *store.PatientStore, logger *zap.Logger) *Education {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Education{
		knowledge: knowledge,
		patients:  patients,
		logger:    logger.With(zap.String("component", "agent.education")),
	}
}

// Name implements Handler.
func (e *Education) Name() types.HandlerName { return types.HandlerEducation }

// Run implements Handler.
func (e *Education) Run(ctx context.Context, state *types.SessionState) {
	state.CurrentHandler = types.HandlerEducation

	message := state.LatestUserMessage()
	concerns := extractConcerns(message)
	block := selectBlock(state.Urgency, message)
	state.RecordTool("patient_education")

	recs := e.recommendations(state.PatientID)
	state.RecordTool("knowledge_base")

	result := &types.EducationResult{
		Topic:           block.topic,
		Content:         block.title + ":\n- " + strings.Join(block.content, "\n- "),
		Concerns:        concerns,
		Recommendations: recs,
	}
	if tracking := e.trackingGuidance(message, state.PatientID); len(tracking) > 0 {
		result.Tracking = tracking
		state.RecordTool("wellness_tracking")
	}
	state.SetEducationResult(result)

	e.logger.Info("education provided",
		zap.String("patient_id", state.PatientID),
		zap.String("topic", block.topic),
		zap.Strings("concerns", concerns))

	var sb strings.Builder
	sb.WriteString(result.Content)
	if len(recs) > 0 {
		sb.WriteString("\n\nPersonalized recommendations:\n- ")
		sb.WriteString(strings.Join(recs, "\n- "))
	}
	if containsConcern(concerns, "emotional_support_needed") {
		sb.WriteString("\n\nIt's natural to feel worried about heart health. Your care team is here for you; reach out with any concern, however small.")
	}
	reply(state, types.HandlerEducation, sb.String())
}

// selectBlock picks exactly one content block: emergencies get emergency
// recognition, moderate cases symptom monitoring, medication questions the
// medication block, and everything else heart-healthy lifestyle.
func selectBlock(urgency types.Urgency, message string) educationBlock {
	m := strings.ToLower(message)
	switch {
	case urgency == types.UrgencyEmergency || urgency == types.UrgencyUrgent:
		return educationBlocks["emergency_recognition"]
	case urgency == types.UrgencyModerate:
		return educationBlocks["symptom_monitoring"]
	case strings.Contains(m, "medication") || strings.Contains(m, "pill") ||
		strings.Contains(m, "prescription") || strings.Contains(m, "dose"):
		return educationBlocks["medication_management"]
	default:
		return educationBlocks["heart_healthy_lifestyle"]
	}
}

// extractConcerns mines the message for concern categories.
func extractConcerns(message string) []string {
	m := strings.ToLower(message)
	var concerns []string
	if containsAny(m, "worried", "concerned", "scared", "anxious") {
		concerns = append(concerns, "emotional_support_needed")
	}
	if containsAny(m, "pain", "hurt", "ache") {
		concerns = append(concerns, "pain_management")
	}
	if containsAny(m, "breath", "breathing") {
		concerns = append(concerns, "breathing_difficulty")
	}
	return concerns
}

// trackingMethods are the supported home-monitoring goals. An unrecognized
// goal falls back to general symptom tracking.
var trackingMethods = map[string]types.TrackingGuidance{
	"blood_pressure": {
		Goal:        "blood_pressure",
		Frequency:   "Daily if prescribed, weekly otherwise",
		TargetRange: "Less than 130/80 mmHg for most adults",
		Tips:        []string{"Same time daily", "Sit quietly 5 min before", "Use properly sized cuff"},
	},
	"weight": {
		Goal:      "weight",
		Frequency: "Daily if heart failure, weekly otherwise",
		Tips:      []string{"Same time daily", "After bathroom, before breakfast", "Same scale and clothing"},
	},
	"exercise": {
		Goal:      "exercise",
		Frequency: "Daily activity logging",
		Tips:      []string{"Note duration and intensity", "Track how you feel", "Include any symptoms"},
	},
	"symptoms": {
		Goal:      "symptoms",
		Frequency: "As needed, daily if concerning",
		Tips:      []string{"Rate severity 1-10", "Note triggers", "Include timing and duration"},
	},
}

// trackingGuidance builds wellness-tracking guidance when the message asks
// about home monitoring. Goals come from the message and the patient's
// conditions; with nothing more specific it defaults to symptom tracking.
func (e *Education) trackingGuidance(message, patientID string) []types.TrackingGuidance {
	m := strings.ToLower(message)
	if !containsAny(m, "track", "monitor", "measure", "diary", "at home") {
		return nil
	}

	var conditions string
	if p, ok := e.patients.Get(patientID); ok {
		conditions = strings.ToLower(strings.Join(p.Conditions, " "))
	}

	var goals []string
	if strings.Contains(m, "blood pressure") || strings.Contains(conditions, "hypertension") {
		goals = append(goals, "blood_pressure")
	}
	if strings.Contains(m, "weight") || strings.Contains(conditions, "heart failure") {
		goals = append(goals, "weight")
	}
	if containsAny(m, "exercise", "activity", "walking") {
		goals = append(goals, "exercise")
	}
	if len(goals) == 0 {
		goals = []string{"symptoms"}
	}

	guidance := make([]types.TrackingGuidance, 0, len(goals))
	for _, goal := range goals {
		g, ok := trackingMethods[goal]
		if !ok {
			g = trackingMethods["symptoms"]
		}
		guidance = append(guidance, g)
	}
	return guidance
}

// recommendations personalizes lifestyle advice from the patient's risk
// factors, falling back to the knowledge base for unknown patients.
func (e *Education) recommendations(patientID string) []string {
	p, ok := e.patients.Get(patientID)
	if !ok {
		return e.knowledge.LifestyleTips("exercise")
	}

	profile := strings.ToLower(strings.Join(append(p.RiskFactors, p.Conditions...), " "))
	var recs []string
	if strings.Contains(profile, "sedentary") || strings.Contains(profile, "obesity") {
		recs = append(recs, "Start with 10-15 minutes daily walking, gradually increase")
	} else {
		recs = append(recs, "Maintain 150 minutes moderate exercise weekly")
	}
	if strings.Contains(profile, "diabetes") || strings.Contains(profile, "hypertension") {
		recs = append(recs, "Follow DASH diet: low sodium, high fruits/vegetables")
	}
	if strings.Contains(profile, "smoking") {
		recs = append(recs, "Quitting smoking is the single biggest step for your heart; ask about cessation support")
	}
	return recs
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func containsConcern(concerns []string, want string) bool {
	for _, c := range concerns {
		if c == want {
			return true
		}
	}
	return false
}
