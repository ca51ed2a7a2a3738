package store

import "strings"

// MedicationInfo describes a medication class in the knowledge base.
type MedicationInfo struct {
	Class       string   `json:"medication_class"`
	CommonNames []string `json:"common_names"`
	Purpose     string   `json:"purpose"`
	SideEffects []string `json:"side_effects"`
	Monitoring  string   `json:"monitoring"`
}

// ProcedureInfo describes a cardiology procedure.
type ProcedureInfo struct {
	Name         string `json:"procedure"`
	Description  string `json:"description"`
	Preparation  string `json:"preparation"`
	Duration     string `json:"duration"`
	WhatToExpect string `json:"what_to_expect"`
}

// ConditionInfo describes a cardiac condition.
type ConditionInfo struct {
	Name             string   `json:"condition"`
	Description      string   `json:"description"`
	Symptoms         []string `json:"symptoms,omitempty"`
	RiskFactors      []string `json:"risk_factors,omitempty"`
	LifestyleChanges []string `json:"lifestyle_changes,omitempty"`
	TreatmentOptions []string `json:"treatment_options,omitempty"`
	Monitoring       string   `json:"monitoring,omitempty"`
}

// SearchResult groups knowledge-base matches by category.
type SearchResult struct {
	Medications []MedicationInfo `json:"medications,omitempty"`
	Procedures  []ProcedureInfo  `json:"procedures,omitempty"`
	Conditions  []ConditionInfo  `json:"conditions,omitempty"`
	Lifestyle   []string         `json:"lifestyle,omitempty"`
}

// KnowledgeStore is the static cardiology knowledge base, loaded once and
// read-only thereafter.
type KnowledgeStore struct {
	medications []MedicationInfo
	procedures  []ProcedureInfo
	conditions  []ConditionInfo
	lifestyle   map[string][]string
}

// NewKnowledgeStore builds the default cardiology knowledge base.
func NewKnowledgeStore() *KnowledgeStore {
	return &KnowledgeStore{
		medications: []MedicationInfo{
			{
				Class:       "ACE_inhibitors",
				CommonNames: []string{"lisinopril", "enalapril", "captopril"},
				Purpose:     "Lower blood pressure and reduce heart workload",
				SideEffects: []string{"dry cough", "elevated potassium", "dizziness"},
				Monitoring:  "Blood pressure, kidney function, potassium levels",
			},
			{
				Class:       "beta_blockers",
				CommonNames: []string{"metoprolol", "atenolol", "propranolol"},
				Purpose:     "Slow heart rate and reduce blood pressure",
				SideEffects: []string{"fatigue", "cold hands/feet", "depression"},
				Monitoring:  "Heart rate, blood pressure, blood sugar",
			},
		},
		procedures: []ProcedureInfo{
			{
				Name:         "echocardiogram",
				Description:  "Ultrasound imaging of the heart",
				Preparation:  "No special preparation needed",
				Duration:     "30-60 minutes",
				WhatToExpect: "Gel applied to chest, ultrasound probe moved around",
			},
			{
				Name:         "stress_test",
				Description:  "Test heart function during physical stress",
				Preparation:  "Avoid caffeine 24 hours before, wear comfortable shoes",
				Duration:     "60-90 minutes",
				WhatToExpect: "Exercise on treadmill while monitoring heart",
			},
		},
		conditions: []ConditionInfo{
			{
				Name:             "hypertension",
				Description:      "High blood pressure",
				RiskFactors:      []string{"age", "family history", "obesity", "smoking"},
				LifestyleChanges: []string{"low sodium diet", "regular exercise", "weight management"},
				Monitoring:       "Regular blood pressure checks",
			},
			{
				Name:             "coronary_artery_disease",
				Description:      "Narrowing of coronary arteries",
				Symptoms:         []string{"chest pain", "shortness of breath", "fatigue"},
				RiskFactors:      []string{"smoking", "diabetes", "high cholesterol"},
				TreatmentOptions: []string{"medications", "lifestyle changes", "procedures"},
			},
		},
		lifestyle: map[string][]string{
			"diet": {
				"Eat heart-healthy foods: fish, vegetables, whole grains, nuts",
				"Limit saturated fats, sodium, and added sugars",
				"Use smaller plates, eat slowly, stop when satisfied",
			},
			"exercise": {
				"150 minutes of moderate aerobic activity per week",
				"Strength training 2 days per week",
				"Start slowly and gradually increase intensity",
			},
		},
	}
}

// Search returns all knowledge entries matching the query, optionally
// limited to one category (medications, procedures, conditions, lifestyle).
func (k *KnowledgeStore) Search(query, category string) SearchResult {
	q := strings.ToLower(query)
	var out SearchResult

	if category == "" || category == "medications" {
		for _, m := range k.medications {
			if matchMedication(q, m) {
				out.Medications = append(out.Medications, m)
			}
		}
	}
	if category == "" || category == "procedures" {
		for _, p := range k.procedures {
			if strings.Contains(strings.ToLower(p.Name), q) ||
				strings.Contains(strings.ToLower(p.Description), q) {
				out.Procedures = append(out.Procedures, p)
			}
		}
	}
	if category == "" || category == "conditions" {
		for _, c := range k.conditions {
			if matchCondition(q, c) {
				out.Conditions = append(out.Conditions, c)
			}
		}
	}
	if category == "" || category == "lifestyle" {
		for topic, tips := range k.lifestyle {
			if strings.Contains(topic, q) {
				out.Lifestyle = append(out.Lifestyle, tips...)
			}
		}
	}
	return out
}

func matchMedication(q string, m MedicationInfo) bool {
	if strings.Contains(strings.ToLower(m.Class), q) {
		return true
	}
	for _, n := range m.CommonNames {
		if strings.Contains(strings.ToLower(n), q) {
			return true
		}
	}
	return false
}

func matchCondition(q string, c ConditionInfo) bool {
	if strings.Contains(strings.ToLower(c.Name), q) ||
		strings.Contains(strings.ToLower(c.Description), q) {
		return true
	}
	for _, s := range c.Symptoms {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

// MedicationInfo looks up a medication by class or common name.
func (k *KnowledgeStore) MedicationInfo(name string) (MedicationInfo, bool) {
	n := strings.ToLower(name)
	for _, m := range k.medications {
		if strings.Contains(strings.ToLower(m.Class), n) {
			return m, true
		}
		for _, cn := range m.CommonNames {
			if strings.ToLower(cn) == n {
				return m, true
			}
		}
	}
	return MedicationInfo{}, false
}

// ProcedureInfo looks up a procedure by name.
func (k *KnowledgeStore) ProcedureInfo(name string) (ProcedureInfo, bool) {
	n := strings.ToLower(name)
	for _, p := range k.procedures {
		if strings.Contains(strings.ToLower(p.Name), n) {
			return p, true
		}
	}
	return ProcedureInfo{}, false
}

// LifestyleTips returns recommendations for a topic, or every topic's tips
// when nothing matches.
func (k *KnowledgeStore) LifestyleTips(topic string) []string {
	t := strings.ToLower(topic)
	for name, tips := range k.lifestyle {
		if strings.Contains(name, t) {
			return tips
		}
	}
	var all []string
	for _, tips := range k.lifestyle {
		all = append(all, tips...)
	}
	return all
}
