// Package api defines the shared request/response contracts for the
// SmartSteel service endpoints.
package api

// Composition maps an element symbol (C, Cr, Ni, Mn, ...) to its target
// weight percent. Percentages are free-form: no sum-to-100 rule applies,
// the service is the source of truth for validity.
type Composition map[string]float64

// PredictedProperties is the output of the property prediction model.
type PredictedProperties struct {
	TensileStrength float64 `json:"tensile_strength"`
	Hardness        float64 `json:"hardness"`
	CorrosionRate   float64 `json:"corrosion_rate"`
	Density         float64 `json:"density"`
}

// Substitution proposes an alternate material when the primary source
// for an element is insufficiently stocked.
type Substitution struct {
	Material      string  `json:"material"`
	RawMassNeeded float64 `json:"raw_mass_needed"`
	Reason        string  `json:"reason"`
}

// Stock status values carried in InventoryStatus.StockStatus.
const (
	StockAvailable        = "Available"
	StockUnavailable      = "Unavailable"
	StockCriticalShortage = "Critical Shortage"
)

// InventoryStatus describes stock coverage for one dosing item. When
// StockStatus is "Available", Material names the stocked source. In any
// other state a Substitution may be present; its absence means no
// substitute exists either.
type InventoryStatus struct {
	StockStatus   string        `json:"stock_status"`
	Material      string        `json:"material,omitempty"`
	RawMassNeeded float64       `json:"raw_mass_needed,omitempty"`
	Substitution  *Substitution `json:"substitution,omitempty"`
}

// DosingItem is one row of a dosing plan: the raw material mass required
// to hit one element's target, adjusted for recovery losses.
type DosingItem struct {
	Element          string          `json:"element"`
	Pct              float64         `json:"pct"`
	TargetMassKg     float64         `json:"target_mass_kg"`
	RecoveryRate     float64         `json:"recovery_rate"`
	RequiredDosingKg float64         `json:"required_dosing_kg"`
	InventoryStatus  InventoryStatus `json:"inventory_status"`
}

// PredictRequest is the input for POST /api/predict_properties.
type PredictRequest struct {
	Composition Composition `json:"composition"`
}

// DosingRequest is the input for POST /api/calculate_dosing.
type DosingRequest struct {
	MeltMassTons float64     `json:"melt_mass_tons"`
	Composition  Composition `json:"composition"`
}

// DosingResponse is the output of POST /api/calculate_dosing. Breakdown
// order is not guaranteed to match the request's composition order;
// consumers must match rows by Element.
type DosingResponse struct {
	MeltMassKg      float64      `json:"melt_mass_kg"`
	DosingBreakdown []DosingItem `json:"dosing_breakdown"`
}

// OptimizeRequest is the input for POST /api/optimize_alloy.
type OptimizeRequest struct {
	Targets map[string]float64 `json:"targets"`
	Weights map[string]float64 `json:"weights"`
}

// OptimizeResponse is the output of POST /api/optimize_alloy.
type OptimizeResponse struct {
	OptimizedComposition Composition         `json:"optimized_composition"`
	PredictedProperties  PredictedProperties `json:"predicted_properties"`
}

// Material is one inventory record as served by GET /api/inventory.
type Material struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	MainElement string  `json:"main_element"`
	Purity      float64 `json:"purity"`
	Recovery    float64 `json:"recovery"`
	StockKg     float64 `json:"stock_kg"`
}

// ResearchRequest is the input for POST /api/research/query.
type ResearchRequest struct {
	Query string `json:"query"`
}

// ResearchResult is one retrieved knowledge-base chunk.
type ResearchResult struct {
	Content string  `json:"content"`
	Source  string  `json:"source"`
	Score   float64 `json:"score"`
}

// ResearchResponse is the output of POST /api/research/query. The answer
// text presented to the operator is the joined content of all results.
type ResearchResponse struct {
	Results []ResearchResult `json:"results"`
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}
