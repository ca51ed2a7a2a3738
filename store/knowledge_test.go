package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnowledgeStoreMedicationLookup(t *testing.T) {
	k := NewKnowledgeStore()

	med, ok := k.MedicationInfo("lisinopril")
	require.True(t, ok)
	assert.Equal(t, "ACE_inhibitors", med.Class)
	assert.Contains(t, med.SideEffects, "dry cough")

	med, ok = k.MedicationInfo("beta_blockers")
	require.True(t, ok)
	assert.Contains(t, med.CommonNames, "metoprolol")

	_, ok = k.MedicationInfo("ibuprofen")
	assert.False(t, ok)
}

func TestKnowledgeStoreProcedureLookup(t *testing.T) {
	k := NewKnowledgeStore()

	proc, ok := k.ProcedureInfo("echo")
	require.True(t, ok)
	assert.Equal(t, "echocardiogram", proc.Name)

	_, ok = k.ProcedureInfo("angioplasty")
	assert.False(t, ok)
}

func TestKnowledgeStoreSearch(t *testing.T) {
	k := NewKnowledgeStore()

	res := k.Search("chest pain", "")
	require.Len(t, res.Conditions, 1)
	assert.Equal(t, "coronary_artery_disease", res.Conditions[0].Name)

	res = k.Search("metoprolol", "medications")
	require.Len(t, res.Medications, 1)
	assert.Empty(t, res.Conditions)

	res = k.Search("diet", "lifestyle")
	assert.NotEmpty(t, res.Lifestyle)
}

func TestKnowledgeStoreLifestyleTips(t *testing.T) {
	k := NewKnowledgeStore()

	diet := k.LifestyleTips("diet")
	require.Len(t, diet, 3)

	// Unknown topic falls back to everything.
	all := k.LifestyleTips("sleep")
	assert.Len(t, all, 6)
}

func TestPatientStore(t *testing.T) {
	s := NewPatientStore(nil)

	p, ok := s.Get("P001")
	require.True(t, ok)
	assert.Equal(t, "John Mitchell", p.Name)
	assert.Contains(t, p.Conditions, "coronary artery disease")

	_, ok = s.Get("P999")
	assert.False(t, ok)

	assert.Contains(t, s.RiskFactors("P003"), "previous heart attack")
	assert.Nil(t, s.RiskFactors("P999"))
}
