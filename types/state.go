package types

// Urgency is the primary routing discriminant for a session.
type Urgency string

const (
	UrgencyUnset     Urgency = ""
	UrgencyRoutine   Urgency = "routine"
	UrgencyModerate  Urgency = "moderate"
	UrgencyUrgent    Urgency = "urgent"
	UrgencyEmergency Urgency = "emergency"
)

// Valid reports whether u is one of the recognized urgency buckets.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyRoutine, UrgencyModerate, UrgencyUrgent, UrgencyEmergency:
		return true
	}
	return false
}

// HandlerName identifies a node in the routing graph.
type HandlerName string

const (
	HandlerSupervisor    HandlerName = "supervisor"
	HandlerTriage        HandlerName = "triage"
	HandlerAppointment   HandlerName = "appointment"
	HandlerEducation     HandlerName = "education"
	HandlerClinicalDocs  HandlerName = "clinical_docs"
	HandlerTerminal      HandlerName = "terminal"
	HandlerErrorTerminal HandlerName = "error_terminal"
)

// IsSpecialist reports whether h is one of the four specialist handlers.
func (h HandlerName) IsSpecialist() bool {
	switch h {
	case HandlerTriage, HandlerAppointment, HandlerEducation, HandlerClinicalDocs:
		return true
	}
	return false
}

// IsTerminal reports whether h ends the routing run.
func (h HandlerName) IsTerminal() bool {
	return h == HandlerTerminal || h == HandlerErrorTerminal
}

// SessionState is the single mutable record threaded through one routing run.
// It is created fresh per chat message and owned by the workflow engine;
// handlers mutate it only through the methods below. Result fields are
// write-once, the review/complete/escalation flags are monotonic.
type SessionState struct {
	Messages  []Message `json:"messages"`
	PatientID string    `json:"patient_id,omitempty"`

	Urgency        Urgency     `json:"urgency_level"`
	SeverityScore  float64     `json:"severity_score,omitempty"`
	CurrentHandler HandlerName `json:"current_handler,omitempty"`
	NextHandler    HandlerName `json:"next_handler,omitempty"`

	TriageResult      *TriageResult      `json:"triage_result,omitempty"`
	AppointmentResult *AppointmentResult `json:"appointment_result,omitempty"`
	EducationResult   *EducationResult   `json:"education_result,omitempty"`
	DocsResult        *DocsResult        `json:"docs_result,omitempty"`

	ToolsUsed []string `json:"tools_used,omitempty"`

	RequiresHumanReview bool `json:"requires_human_review"`
	WorkflowComplete    bool `json:"workflow_complete"`
	EscalationNeeded    bool `json:"escalation_needed"`

	// ErrLast holds the most recent handler failure. Non-empty routes the
	// session to the error terminal.
	ErrLast string `json:"errors,omitempty"`

	// Context carries opaque session data supplied by the caller (prior
	// conversation history etc.). The workflow never interprets it.
	Context map[string]string `json:"session_context,omitempty"`
}

// NewSessionState creates a fresh state for one incoming patient message.
func NewSessionState(patientID, message string) *SessionState {
	return &SessionState{
		PatientID:      patientID,
		Messages:       []Message{NewUserMessage(message)},
		CurrentHandler: HandlerSupervisor,
	}
}

// AppendMessage appends a conversation turn. Messages are append-only.
func (s *SessionState) AppendMessage(m Message) {
	s.Messages = append(s.Messages, m)
}

// LatestUserMessage returns the content of the most recent user turn,
// or "" when none exists.
func (s *SessionState) LatestUserMessage() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleUser {
			return s.Messages[i].Content
		}
	}
	return ""
}

// RecordTool appends a tool name to the audit trail, skipping duplicates.
func (s *SessionState) RecordTool(name string) {
	for _, t := range s.ToolsUsed {
		if t == name {
			return
		}
	}
	s.ToolsUsed = append(s.ToolsUsed, name)
}

// SetUrgency upgrades the urgency bucket. Urgency never downgrades once
// set to emergency.
func (s *SessionState) SetUrgency(u Urgency) {
	if s.Urgency == UrgencyEmergency {
		return
	}
	s.Urgency = u
}

// MarkHumanReview sets the human-review flag. Monotonic: never reset.
func (s *SessionState) MarkHumanReview() {
	s.RequiresHumanReview = true
}

// MarkComplete marks the workflow finished. Monotonic: never reset.
func (s *SessionState) MarkComplete() {
	s.WorkflowComplete = true
}

// MarkEscalation flags the session for emergency escalation. Monotonic.
func (s *SessionState) MarkEscalation() {
	s.EscalationNeeded = true
	s.RequiresHumanReview = true
}

// SetError records a handler failure. Errors always imply human review.
func (s *SessionState) SetError(msg string) {
	s.ErrLast = msg
	s.RequiresHumanReview = true
}

// HasError reports whether a handler failure was recorded.
func (s *SessionState) HasError() bool {
	return s.ErrLast != ""
}

// SetTriageResult stores the triage payload. Write-once: a second call
// is ignored.
func (s *SessionState) SetTriageResult(r *TriageResult) {
	if s.TriageResult == nil {
		s.TriageResult = r
	}
}

// SetAppointmentResult stores the appointment payload. Write-once.
func (s *SessionState) SetAppointmentResult(r *AppointmentResult) {
	if s.AppointmentResult == nil {
		s.AppointmentResult = r
	}
}

// SetEducationResult stores the education payload. Write-once.
func (s *SessionState) SetEducationResult(r *EducationResult) {
	if s.EducationResult == nil {
		s.EducationResult = r
	}
}

// SetDocsResult stores the documentation payload. Write-once.
func (s *SessionState) SetDocsResult(r *DocsResult) {
	if s.DocsResult == nil {
		s.DocsResult = r
	}
}
