package dosing

import (
	"github.com/shopspring/decimal"

	"smartsteel/pkg/api"
)

// DefaultElementPrices holds approximate per-kg alloying element prices.
var DefaultElementPrices = map[string]decimal.Decimal{
	"C":  decimal.NewFromInt(25),
	"Cr": decimal.NewFromInt(120),
	"Ni": decimal.NewFromInt(450),
	"Mn": decimal.NewFromInt(100),
}

// CostBreakdown is the priced view of a dosing plan.
type CostBreakdown struct {
	Total      decimal.Decimal            `json:"total"`
	PerElement map[string]decimal.Decimal `json:"per_element"`
}

// AlloyCost prices a plan of element masses (kg). Elements without a
// price contribute nothing.
func AlloyCost(plan map[string]float64, prices map[string]decimal.Decimal) CostBreakdown {
	if prices == nil {
		prices = DefaultElementPrices
	}
	breakdown := CostBreakdown{
		Total:      decimal.Zero,
		PerElement: make(map[string]decimal.Decimal, len(plan)),
	}
	for el, massKg := range plan {
		price, ok := prices[el]
		if !ok {
			continue
		}
		cost := price.Mul(decimal.NewFromFloat(massKg))
		breakdown.PerElement[el] = cost
		breakdown.Total = breakdown.Total.Add(cost)
	}
	return breakdown
}

// PlanMasses extracts element → required dosing mass from a breakdown,
// the shape AlloyCost consumes.
func PlanMasses(items []api.DosingItem) map[string]float64 {
	out := make(map[string]float64, len(items))
	for _, it := range items {
		out[it.Element] = it.RequiredDosingKg
	}
	return out
}
