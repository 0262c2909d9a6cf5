// Package predict implements the empirical property model. In a full
// deployment these formulas are stand-ins for trained regression models
// loaded from disk; the coefficients approximate the effect of the four
// workhorse alloying elements on a plain iron base.
package predict

import (
	"math"

	"smartsteel/pkg/api"
)

// Base values for unalloyed iron.
const (
	baseStrengthMPa = 300
	baseHardnessHV  = 100
	baseDensity     = 7.87
	baseCorrosion   = 0.5 // mm/yr
	minCorrosion    = 0.01
)

// Predictor derives mechanical and chemical properties from a target
// composition. Stateless; safe for concurrent use.
type Predictor struct{}

// New creates a predictor.
func New() *Predictor {
	return &Predictor{}
}

// Predict computes the property set for a composition. Strength rises
// with C, Mn, Ni and Cr; hardness with C, Cr and Mn; corrosion falls
// with Cr and Ni; density shifts slightly with C and Ni.
func (p *Predictor) Predict(comp api.Composition) api.PredictedProperties {
	c := comp["C"]
	cr := comp["Cr"]
	ni := comp["Ni"]
	mn := comp["Mn"]

	strength := baseStrengthMPa + c*800 + mn*100 + ni*50 + cr*60
	hardness := baseHardnessHV + c*300 + cr*40 + mn*30
	corrosion := math.Max(minCorrosion, baseCorrosion-cr*0.05-ni*0.02)
	density := baseDensity - c*0.05 + ni*0.01

	return api.PredictedProperties{
		TensileStrength: round(strength, 2),
		Hardness:        round(hardness, 2),
		CorrosionRate:   round(corrosion, 4),
		Density:         round(density, 2),
	}
}

func round(v float64, places int) float64 {
	scale := math.Pow10(places)
	return math.Round(v*scale) / scale
}
