package store

import (
	"encoding/json"
	"os"

	"go.uber.org/zap"

	"github.com/sanjibani/cardiology-ai-agent/types"
)

// PatientStore holds read-only patient records loaded once at process start.
type PatientStore struct {
	patients map[string]types.Patient
	logger   *zap.Logger
}

// NewPatientStore creates a store seeded with the built-in sample records.
func NewPatientStore(logger *zap.Logger) *PatientStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PatientStore{
		patients: defaultPatients(),
		logger:   logger.With(zap.String("component", "store.patients")),
	}
}

// LoadPatientStore loads records from a JSON file keyed by patient ID.
// An empty path falls back to the built-in sample data.
func LoadPatientStore(path string, logger *zap.Logger) (*PatientStore, error) {
	s := NewPatientStore(logger)
	if path == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, types.NewError(types.ErrStoreUnavailable, "read patient data file").WithCause(err)
	}
	loaded := make(map[string]types.Patient)
	if err := json.Unmarshal(raw, &loaded); err != nil {
		return nil, types.NewError(types.ErrStoreUnavailable, "parse patient data file").WithCause(err)
	}
	for id, p := range loaded {
		p.ID = id
		s.patients[id] = p
	}
	s.logger.Info("patient records loaded", zap.String("path", path), zap.Int("count", len(loaded)))
	return s, nil
}

// Get returns the record for a patient ID.
func (s *PatientStore) Get(patientID string) (types.Patient, bool) {
	p, ok := s.patients[patientID]
	return p, ok
}

// RiskFactors returns the risk factors for a patient, or nil when the
// patient is unknown.
func (s *PatientStore) RiskFactors(patientID string) []string {
	p, ok := s.patients[patientID]
	if !ok {
		return nil
	}
	return p.RiskFactors
}

func defaultPatients() map[string]types.Patient {
	return map[string]types.Patient{
		"P001": {
			ID:          "P001",
			Name:        "John Mitchell",
			Age:         58,
			Conditions:  []string{"hypertension", "coronary artery disease"},
			Medications: []string{"lisinopril", "metoprolol", "aspirin"},
			RiskFactors: []string{"smoking", "family history", "high cholesterol"},
			Allergies:   []string{"penicillin"},
			LastVisit:   "2026-07-15",
		},
		"P002": {
			ID:          "P002",
			Name:        "Maria Alvarez",
			Age:         45,
			Conditions:  []string{"hypertension"},
			Medications: []string{"enalapril"},
			RiskFactors: []string{"obesity"},
			LastVisit:   "2026-08-02",
		},
		"P003": {
			ID:          "P003",
			Name:        "Robert Chen",
			Age:         67,
			Conditions:  []string{"heart failure", "atrial fibrillation"},
			Medications: []string{"metoprolol", "warfarin", "furosemide"},
			RiskFactors: []string{"diabetes", "previous heart attack"},
			Allergies:   []string{"sulfa drugs"},
			LastVisit:   "2026-08-20",
		},
	}
}
