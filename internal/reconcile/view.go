// Package reconcile merges the composition model with prediction and
// dosing results into a single render-ready view model. Reconcile is a
// pure function: absent results yield placeholder sections, never a
// failure.
package reconcile

import (
	"smartsteel/internal/composition"
	"smartsteel/pkg/api"
)

// Display statuses for dosing table rows.
const (
	StatusOK         = "OK"
	StatusSubstitute = "SUBSTITUTE"
)

// MaterialUnknown is rendered when a non-available item carries no
// substitution proposal. A missing substitute is a soft fallback, not an
// error.
const MaterialUnknown = "Unknown"

// actualScale keeps the Target and Actual chart series visually
// comparable on one axis. Display normalization only, not a unit
// conversion.
const actualScale = 100

// ChartPoint is one bar group of the composition chart.
type ChartPoint struct {
	Name   string  `json:"name"`
	Target float64 `json:"Target"`
	Actual float64 `json:"Actual"`
}

// TableRow is one row of the dosing table, annotated with its display
// status and resolved material label.
type TableRow struct {
	Element          string  `json:"element"`
	TargetMassKg     float64 `json:"target_mass_kg"`
	RecoveryRate     float64 `json:"recovery_rate"`
	RequiredDosingKg float64 `json:"required_dosing_kg"`
	Material         string  `json:"material"`
	Status           string  `json:"status"`
}

// ViewModel is the merged render-ready state.
type ViewModel struct {
	Chart     []ChartPoint             `json:"chart"`
	Rows      []TableRow               `json:"rows"`
	Predicted *api.PredictedProperties `json:"predicted,omitempty"`
}

// Reconcile builds the view model for the current composition and the
// most recent result pair. Either result may be nil when no calculation
// has succeeded yet.
func Reconcile(model *composition.Model, predicted *api.PredictedProperties, dosing []api.DosingItem) ViewModel {
	vm := ViewModel{
		Chart:     make([]ChartPoint, 0, len(model.Elements())),
		Rows:      make([]TableRow, 0, len(dosing)),
		Predicted: predicted,
	}

	for _, symbol := range model.Elements() {
		point := ChartPoint{Name: symbol, Target: model.Value(symbol)}
		// Breakdown order is not guaranteed to match composition order:
		// match by element symbol, never by index.
		if item, ok := findItem(dosing, symbol); ok {
			point.Actual = item.RequiredDosingKg / actualScale
		}
		vm.Chart = append(vm.Chart, point)
	}

	for _, item := range dosing {
		vm.Rows = append(vm.Rows, TableRow{
			Element:          item.Element,
			TargetMassKg:     item.TargetMassKg,
			RecoveryRate:     item.RecoveryRate,
			RequiredDosingKg: item.RequiredDosingKg,
			Material:         MaterialLabel(item.InventoryStatus),
			Status:           DisplayStatus(item.InventoryStatus),
		})
	}

	return vm
}

// DisplayStatus classifies an inventory status for display. This is the
// single source of truth shared with the report exporter: OK exactly
// when the stock status is Available, SUBSTITUTE otherwise.
func DisplayStatus(st api.InventoryStatus) string {
	if st.StockStatus == api.StockAvailable {
		return StatusOK
	}
	return StatusSubstitute
}

// MaterialLabel resolves the material name to show for an item: the
// stocked material when available, the proposed substitute otherwise,
// and the literal "Unknown" when neither exists.
func MaterialLabel(st api.InventoryStatus) string {
	if st.StockStatus == api.StockAvailable {
		if st.Material == "" {
			return MaterialUnknown
		}
		return st.Material
	}
	if st.Substitution != nil && st.Substitution.Material != "" {
		return st.Substitution.Material
	}
	return MaterialUnknown
}

func findItem(dosing []api.DosingItem, element string) (api.DosingItem, bool) {
	for _, item := range dosing {
		if item.Element == element {
			return item, true
		}
	}
	return api.DosingItem{}, false
}
