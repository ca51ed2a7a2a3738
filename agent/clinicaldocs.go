package agent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sanjibani/cardiology-ai-agent/types"
)

// pendingPlaceholder stands in for any upstream field that is absent when
// the report is assembled. Documentation never fails on missing input.
const pendingPlaceholder = "pending"

// ClinicalDocs assembles an assessment/plan/discharge report from whatever
// the upstream handlers have already written onto the session state.
type ClinicalDocs struct {
	logger *zap.Logger
}

// NewClinicalDocs creates the documentation handler.
func NewClinicalDocs(logger *zap.Logger) *ClinicalDocs {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClinicalDocs{logger: logger.With(zap.String("component", "agent.clinicaldocs"))}
}

// Name implements Handler.
func (c *ClinicalDocs) Name() types.HandlerName { return types.HandlerClinicalDocs }

// Run implements Handler.
func (c *ClinicalDocs) Run(ctx context.Context, state *types.SessionState) {
	state.CurrentHandler = types.HandlerClinicalDocs

	result := &types.DocsResult{
		Assessment: c.assessment(state),
		Plan:       c.plan(state),
		Discharge:  c.discharge(state),
	}
	result.Report = fmt.Sprintf(
		"CLINICAL CONSULTATION REPORT\n\nASSESSMENT:\n%s\n\nTREATMENT PLAN:\n%s\n\nDISCHARGE:\n%s",
		result.Assessment, result.Plan, result.Discharge)

	state.SetDocsResult(result)
	state.RecordTool("clinical_documentation")

	c.logger.Info("clinical documentation assembled",
		zap.String("patient_id", state.PatientID),
		zap.String("urgency", string(state.Urgency)))

	reply(state, types.HandlerClinicalDocs, result.Report)
}

func (c *ClinicalDocs) assessment(state *types.SessionState) string {
	tr := state.TriageResult
	if tr == nil {
		return pendingPlaceholder
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Urgency: %s (severity %.1f/10).", tr.Urgency, tr.SeverityScore)
	if len(tr.CardiacIndicators) > 0 {
		fmt.Fprintf(&sb, " Symptoms: %s.", strings.Join(tr.CardiacIndicators, ", "))
	}
	if len(tr.RiskFactors) > 0 {
		fmt.Fprintf(&sb, " Risk factors: %s.", strings.Join(tr.RiskFactors, ", "))
	}
	return sb.String()
}

func (c *ClinicalDocs) plan(state *types.SessionState) string {
	var parts []string
	if tr := state.TriageResult; tr != nil && tr.Recommendation != "" {
		parts = append(parts, tr.Recommendation)
	}
	if ar := state.AppointmentResult; ar != nil && ar.Success {
		parts = append(parts, fmt.Sprintf("Follow-up appointment %s booked for %s at %s.",
			ar.BookingID, ar.Date, ar.Time))
	}
	if er := state.EducationResult; er != nil && len(er.Recommendations) > 0 {
		parts = append(parts, "Lifestyle: "+strings.Join(er.Recommendations, "; ")+".")
	}
	if len(parts) == 0 {
		return pendingPlaceholder
	}
	return strings.Join(parts, " ")
}

func (c *ClinicalDocs) discharge(state *types.SessionState) string {
	switch state.Urgency {
	case types.UrgencyEmergency:
		return "Emergency transport arranged. Do not discharge; human review required."
	case types.UrgencyUrgent:
		return "Discharged pending urgent cardiology follow-up within 24 hours."
	case types.UrgencyModerate, types.UrgencyRoutine:
		return "Discharged to home with instructions. Report worsening symptoms immediately."
	default:
		return pendingPlaceholder
	}
}
