package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartsteel/internal/composition"
	"smartsteel/pkg/api"
)

func fixtureModel() *composition.Model {
	m := composition.New()
	m.SetElement("C", 0.25)
	m.SetElement("Cr", 1.0)
	m.SetElement("Ni", 0.5)
	m.SetElement("Mn", 0.8)
	m.SetMeltMass(10)
	return m
}

func fixturePredicted() *api.PredictedProperties {
	return &api.PredictedProperties{
		TensileStrength: 750,
		Hardness:        210,
		CorrosionRate:   0.08,
		Density:         7.85,
	}
}

func fixtureDosing() []api.DosingItem {
	return []api.DosingItem{{
		Element:          "C",
		TargetMassKg:     25,
		RecoveryRate:     0.9,
		RequiredDosingKg: 27.8,
		InventoryStatus:  api.InventoryStatus{StockStatus: api.StockAvailable, Material: "Graphite"},
	}}
}

func TestBuildSkipsWithoutResults(t *testing.T) {
	model := fixtureModel()
	date := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	_, err := Build(model, nil, fixtureDosing(), date)
	assert.ErrorIs(t, err, ErrExportSkipped)

	_, err = Build(model, fixturePredicted(), nil, date)
	assert.ErrorIs(t, err, ErrExportSkipped)
}

func TestBuildRoundTrip(t *testing.T) {
	date := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	text, err := Build(fixtureModel(), fixturePredicted(), fixtureDosing(), date)
	require.NoError(t, err)

	assert.Contains(t, text, "C: 0.25%")
	assert.Contains(t, text, "Tensile Strength: 750 MPa")
	assert.Contains(t, text, "Date: 2024-03-01")

	want := "SMARTSTEEL-AI EXPERIMENT REPORT\n" +
		"Date: 2024-03-01\n" +
		"----------------------------\n" +
		"\n" +
		"1. ALLOY RECIPE (Target Composition)\n" +
		"C: 0.25%\n" +
		"Cr: 1%\n" +
		"Ni: 0.5%\n" +
		"Mn: 0.8%\n" +
		"\n" +
		"2. FURNACE SETTINGS\n" +
		"Melt Mass: 10 Tons\n" +
		"Recommended Tap Temp: 1650°C (AI Estimate)\n" +
		"\n" +
		"3. PREDICTED PROPERTIES\n" +
		"Tensile Strength: 750 MPa\n" +
		"Hardness: 210 HV\n" +
		"Corrosion Rate: 0.08 mm/yr\n" +
		"Density: 7.85 g/cm³\n" +
		"\n" +
		"4. DOSING PLAN & INVENTORY CHECK\n" +
		"Element | Target (kg) | Recovery (%) | Required (kg) | Status\n" +
		"------------------------------------------------------------\n" +
		"C       | 25          | 90           | 27.8          | OK\n"
	assert.Equal(t, want, text)
}

func TestBuildSubstituteRow(t *testing.T) {
	dosing := []api.DosingItem{{
		Element:          "Cr",
		TargetMassKg:     100,
		RecoveryRate:     0.92,
		RequiredDosingKg: 108.7,
		InventoryStatus: api.InventoryStatus{
			StockStatus:  api.StockUnavailable,
			Substitution: &api.Substitution{Material: "Ferro-Chrome High Carbon"},
		},
	}}

	text, err := Build(fixtureModel(), fixturePredicted(), dosing, time.Now())
	require.NoError(t, err)
	assert.Contains(t, text, "Cr      | 100         | 92           | 108.7         | SUBSTITUTE\n")
}

func TestExportWritesFile(t *testing.T) {
	dir := t.TempDir()
	path, err := Export(dir, fixtureModel(), fixturePredicted(), fixtureDosing())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, Filename(time.Now())), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "SMARTSTEEL-AI EXPERIMENT REPORT")
}

func TestExportSkippedWritesNothing(t *testing.T) {
	dir := t.TempDir()
	_, err := Export(dir, fixtureModel(), nil, nil)
	assert.ErrorIs(t, err, ErrExportSkipped)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestFilename(t *testing.T) {
	date := time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "Experiment_Plan_2024-12-31.txt", Filename(date))
}
