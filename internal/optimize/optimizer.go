// Package optimize searches the composition space for the best alloy
// against operator targets. The search is a seeded random sample plus
// local refinement, optimizing the same weighted fitness the dashboard
// sliders express: closeness to the strength target, raw material cost,
// and corrosion resistance.
package optimize

import (
	"math"
	"math/rand"

	"smartsteel/internal/dosing"
	"smartsteel/internal/predict"
	"smartsteel/pkg/api"
)

// geneBound limits one element's weight percent during search.
type geneBound struct {
	element string
	low, hi float64
}

// Search bounds for the four workhorse elements.
var geneSpace = []geneBound{
	{"C", 0.05, 1.0},
	{"Cr", 0.0, 5.0},
	{"Ni", 0.0, 5.0},
	{"Mn", 0.0, 2.0},
}

const (
	sampleRounds = 1000
	refineRounds = 500
	refineStep   = 0.1 // fraction of each gene's range
)

// Optimizer runs composition searches. Deterministic for a fixed seed.
type Optimizer struct {
	predictor *predict.Predictor
	rng       *rand.Rand
}

// New creates an optimizer around the property model.
func New(predictor *predict.Predictor, seed int64) *Optimizer {
	return &Optimizer{
		predictor: predictor,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// Optimize returns the best composition found for the given targets and
// weights, with element values rounded to 3 decimals, plus its fitness.
func (o *Optimizer) Optimize(targets, weights map[string]float64) (api.Composition, float64) {
	best := o.randomCandidate()
	bestScore := o.fitness(best, targets, weights)

	for i := 0; i < sampleRounds; i++ {
		cand := o.randomCandidate()
		if score := o.fitness(cand, targets, weights); score > bestScore {
			best, bestScore = cand, score
		}
	}

	for i := 0; i < refineRounds; i++ {
		cand := o.perturb(best)
		if score := o.fitness(cand, targets, weights); score > bestScore {
			best, bestScore = cand, score
		}
	}

	rounded := make(api.Composition, len(best))
	for el, v := range best {
		rounded[el] = math.Round(v*1000) / 1000
	}
	return rounded, bestScore
}

func (o *Optimizer) randomCandidate() api.Composition {
	cand := make(api.Composition, len(geneSpace))
	for _, g := range geneSpace {
		cand[g.element] = g.low + o.rng.Float64()*(g.hi-g.low)
	}
	return cand
}

func (o *Optimizer) perturb(base api.Composition) api.Composition {
	cand := make(api.Composition, len(base))
	for _, g := range geneSpace {
		step := (g.hi - g.low) * refineStep
		v := base[g.element] + (o.rng.Float64()*2-1)*step
		cand[g.element] = math.Max(g.low, math.Min(g.hi, v))
	}
	return cand
}

// fitness rewards hitting the strength target, low cost, and low
// corrosion, each scaled by its slider weight.
func (o *Optimizer) fitness(comp api.Composition, targets, weights map[string]float64) float64 {
	props := o.predictor.Predict(comp)
	cost, _ := dosing.AlloyCost(comp, nil).Total.Float64()

	var score float64
	if target, ok := targets["strength"]; ok {
		diff := math.Abs(props.TensileStrength - target)
		score += weight(weights, "strength") * (1000 / (diff + 1))
	}
	score += weight(weights, "cost") * (10000 / (cost + 1))
	if _, ok := targets["corrosion"]; ok {
		score += weight(weights, "corrosion") * (1 / (props.CorrosionRate + 0.001))
	}
	return score
}

func weight(weights map[string]float64, key string) float64 {
	if w, ok := weights[key]; ok {
		return w
	}
	return 1
}
