package inventory

import (
	"context"
	"fmt"
	"math"

	"smartsteel/pkg/api"
)

// CheckAvailability determines whether the stock can cover requiredKg of
// an element. Candidates are ranked by purity; the raw mass needed is
// the dosing mass divided by the candidate's purity. When the preferred
// material is short, the first stocked substitute is proposed; when no
// candidate can cover the demand the status is a critical shortage with
// no substitution (consumers render the material as "Unknown").
func CheckAvailability(ctx context.Context, store Store, element string, requiredKg float64) (api.InventoryStatus, error) {
	candidates, err := store.ForElement(ctx, element)
	if err != nil {
		return api.InventoryStatus{}, fmt.Errorf("inventory lookup for %s: %w", element, err)
	}
	if len(candidates) == 0 {
		return api.InventoryStatus{StockStatus: api.StockCriticalShortage}, nil
	}

	ranked := rankCandidates(candidates)
	best := ranked[0]
	rawNeeded := round2(requiredKg / best.Purity)
	if best.StockKg >= rawNeeded {
		return api.InventoryStatus{
			StockStatus:   api.StockAvailable,
			Material:      best.Name,
			RawMassNeeded: rawNeeded,
		}, nil
	}

	for _, sub := range ranked[1:] {
		rawNeededSub := round2(requiredKg / sub.Purity)
		if sub.StockKg >= rawNeededSub {
			return api.InventoryStatus{
				StockStatus: api.StockUnavailable,
				Material:    best.Name,
				Substitution: &api.Substitution{
					Material:      sub.Name,
					RawMassNeeded: rawNeededSub,
					Reason:        fmt.Sprintf("Insufficient stock of %s. Switched to %s.", best.Name, sub.Name),
				},
			}, nil
		}
	}

	return api.InventoryStatus{
		StockStatus: api.StockCriticalShortage,
		Material:    best.Name,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
