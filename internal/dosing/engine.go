// Package dosing turns a target composition and melt mass into the raw
// material masses to charge, adjusted for recovery losses and checked
// against inventory.
package dosing

import (
	"context"
	"fmt"
	"math"
	"sort"

	"smartsteel/internal/inventory"
	"smartsteel/pkg/api"
)

// DefaultRecoveryRates is the fraction of each element's charged mass
// that ends up in the melt. Unlisted elements recover fully.
var DefaultRecoveryRates = map[string]float64{
	"C":  0.98,
	"Cr": 0.92,
	"Ni": 0.96,
	"Mn": 0.90,
}

// Engine computes dosing plans against an inventory store.
type Engine struct {
	inventory inventory.Store
	recovery  map[string]float64
}

// NewEngine creates a dosing engine with the default recovery rates.
func NewEngine(store inventory.Store) *Engine {
	return &Engine{
		inventory: store,
		recovery:  DefaultRecoveryRates,
	}
}

// WithRecoveryRates overrides the recovery table. Returns the engine for
// chaining.
func (e *Engine) WithRecoveryRates(rates map[string]float64) *Engine {
	e.recovery = rates
	return e
}

// Calculate produces a dosing plan for meltMassTons of melt at the given
// composition. Elements with a non-positive percent are skipped. Rows
// are emitted in sorted element order, which deliberately does not track
// the request's composition order: consumers match by element.
func (e *Engine) Calculate(ctx context.Context, meltMassTons float64, comp api.Composition) (*api.DosingResponse, error) {
	meltKg := meltMassTons * 1000

	elements := make([]string, 0, len(comp))
	for el := range comp {
		elements = append(elements, el)
	}
	sort.Strings(elements)

	resp := &api.DosingResponse{
		MeltMassKg:      meltKg,
		DosingBreakdown: make([]api.DosingItem, 0, len(elements)),
	}

	for _, el := range elements {
		pct := comp[el]
		if pct <= 0 {
			continue
		}

		targetKg := meltKg * pct / 100
		rate, ok := e.recovery[el]
		if !ok {
			rate = 1.0
		}
		requiredKg := ApplyRecovery(targetKg, rate)

		status, err := inventory.CheckAvailability(ctx, e.inventory, el, requiredKg)
		if err != nil {
			return nil, fmt.Errorf("dosing %s: %w", el, err)
		}

		resp.DosingBreakdown = append(resp.DosingBreakdown, api.DosingItem{
			Element:          el,
			Pct:              pct,
			TargetMassKg:     round2(targetKg),
			RecoveryRate:     rate,
			RequiredDosingKg: requiredKg,
			InventoryStatus:  status,
		})
	}

	return resp, nil
}

// ApplyRecovery returns the charge mass needed for requiredMass to
// survive melting at the given recovery rate. A non-positive rate leaves
// the mass unchanged.
func ApplyRecovery(requiredMass, recoveryRate float64) float64 {
	if recoveryRate <= 0 {
		return requiredMass
	}
	return round2(requiredMass / recoveryRate)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
