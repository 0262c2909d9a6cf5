package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"smartsteel/internal/composition"
	"smartsteel/pkg/api"
)

func TestReconcileWithoutResults(t *testing.T) {
	vm := Reconcile(composition.Default(), nil, nil)

	assert.Nil(t, vm.Predicted)
	assert.Empty(t, vm.Rows)
	assert.Len(t, vm.Chart, 4)
	for _, p := range vm.Chart {
		assert.Zero(t, p.Actual)
	}
	assert.Equal(t, 0.25, vm.Chart[0].Target)
}

func TestReconcileMatchesByElementNotPosition(t *testing.T) {
	model := composition.New()
	model.SetElement("C", 0.25)
	model.SetElement("Cr", 1.0)

	// Breakdown deliberately in reverse order and with an extra element
	// the composition no longer contains.
	dosing := []api.DosingItem{
		{Element: "Ni", RequiredDosingKg: 999, InventoryStatus: api.InventoryStatus{StockStatus: api.StockAvailable, Material: "Ferro-Nickel Briquettes"}},
		{Element: "Cr", RequiredDosingKg: 108.7, InventoryStatus: api.InventoryStatus{StockStatus: api.StockAvailable, Material: "Ferro-Chrome Low Carbon"}},
		{Element: "C", RequiredDosingKg: 25.51, InventoryStatus: api.InventoryStatus{StockStatus: api.StockAvailable, Material: "Ferro-Carbon High Purity"}},
	}

	vm := Reconcile(model, &api.PredictedProperties{}, dosing)

	assert.Equal(t, "C", vm.Chart[0].Name)
	assert.InDelta(t, 25.51/100, vm.Chart[0].Actual, 1e-9)
	assert.Equal(t, "Cr", vm.Chart[1].Name)
	assert.InDelta(t, 108.7/100, vm.Chart[1].Actual, 1e-9)
	assert.Len(t, vm.Rows, 3)
}

func TestReconcileMissingMatchYieldsZero(t *testing.T) {
	model := composition.New()
	model.SetElement("Mo", 0.4)

	vm := Reconcile(model, nil, []api.DosingItem{{Element: "C", RequiredDosingKg: 10}})

	assert.Equal(t, 0.0, vm.Chart[0].Actual)
}

func TestDisplayStatus(t *testing.T) {
	tests := []struct {
		name   string
		status api.InventoryStatus
		want   string
	}{
		{
			name:   "available",
			status: api.InventoryStatus{StockStatus: api.StockAvailable, Material: "Graphite"},
			want:   StatusOK,
		},
		{
			name:   "unavailable with substitute",
			status: api.InventoryStatus{StockStatus: api.StockUnavailable, Substitution: &api.Substitution{Material: "Ferro-Chrome High Carbon"}},
			want:   StatusSubstitute,
		},
		{
			name:   "critical shortage",
			status: api.InventoryStatus{StockStatus: api.StockCriticalShortage},
			want:   StatusSubstitute,
		},
		{
			name:   "empty status",
			status: api.InventoryStatus{},
			want:   StatusSubstitute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayStatus(tt.status))
		})
	}
}

func TestMaterialLabel(t *testing.T) {
	tests := []struct {
		name   string
		status api.InventoryStatus
		want   string
	}{
		{
			name:   "available names the stocked material",
			status: api.InventoryStatus{StockStatus: api.StockAvailable, Material: "Graphite"},
			want:   "Graphite",
		},
		{
			name:   "substitute names the proposal",
			status: api.InventoryStatus{StockStatus: api.StockUnavailable, Material: "Primary", Substitution: &api.Substitution{Material: "Backup"}},
			want:   "Backup",
		},
		{
			name:   "missing substitution falls back to Unknown",
			status: api.InventoryStatus{StockStatus: api.StockUnavailable, Material: "Primary"},
			want:   MaterialUnknown,
		},
		{
			name:   "empty substitute material falls back to Unknown",
			status: api.InventoryStatus{StockStatus: api.StockUnavailable, Substitution: &api.Substitution{}},
			want:   MaterialUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaterialLabel(tt.status))
		})
	}
}

func TestRowStatusMatchesDisplayStatus(t *testing.T) {
	dosing := []api.DosingItem{
		{Element: "C", InventoryStatus: api.InventoryStatus{StockStatus: api.StockAvailable, Material: "Graphite"}},
		{Element: "Cr", InventoryStatus: api.InventoryStatus{StockStatus: api.StockUnavailable}},
	}

	vm := Reconcile(composition.New(), nil, dosing)

	assert.Equal(t, StatusOK, vm.Rows[0].Status)
	assert.Equal(t, StatusSubstitute, vm.Rows[1].Status)
	assert.Equal(t, MaterialUnknown, vm.Rows[1].Material)
}
