// Package inventory manages the raw material stock used by the dosing
// engine: a Store abstraction with an in-memory seeded implementation
// and a Postgres-backed one, plus the availability check that drives
// substitution proposals.
package inventory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"smartsteel/pkg/api"
)

// Store is the material inventory contract.
type Store interface {
	// List returns all materials.
	List(ctx context.Context) ([]api.Material, error)
	// ForElement returns the materials whose main element matches.
	ForElement(ctx context.Context, element string) ([]api.Material, error)
	// Add inserts a material, assigning an ID when absent, and returns
	// the stored record.
	Add(ctx context.Context, m api.Material) (api.Material, error)
}

// SeedMaterials returns the plant's stock baseline. MAT005 is a known
// low-stock lot used to exercise substitution paths.
func SeedMaterials() []api.Material {
	return []api.Material{
		{ID: "MAT001", Name: "Ferro-Carbon High Purity", MainElement: "C", Purity: 0.99, StockKg: 5000, Recovery: 0.98},
		{ID: "MAT002", Name: "Ferro-Chrome Low Carbon", MainElement: "Cr", Purity: 0.65, StockKg: 2000, Recovery: 0.92},
		{ID: "MAT003", Name: "Ferro-Nickel Briquettes", MainElement: "Ni", Purity: 0.95, StockKg: 1500, Recovery: 0.96},
		{ID: "MAT004", Name: "Ferro-Manganese Std", MainElement: "Mn", Purity: 0.78, StockKg: 3000, Recovery: 0.90},
		{ID: "MAT005", Name: "Ferro-Chrome High Carbon", MainElement: "Cr", Purity: 0.60, StockKg: 100, Recovery: 0.88},
	}
}

// MemoryStore is an in-memory inventory, seeded by default. Safe for
// concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	materials []api.Material
}

// NewMemoryStore creates a store holding the seed materials.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{materials: SeedMaterials()}
}

// NewEmptyMemoryStore creates a store with no stock.
func NewEmptyMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) List(ctx context.Context) ([]api.Material, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]api.Material, len(s.materials))
	copy(out, s.materials)
	return out, nil
}

func (s *MemoryStore) ForElement(ctx context.Context, element string) ([]api.Material, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []api.Material
	for _, m := range s.materials {
		if strings.EqualFold(m.MainElement, element) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *MemoryStore) Add(ctx context.Context, m api.Material) (api.Material, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.materials = append(s.materials, m)
	return m, nil
}

// rankCandidates orders materials by purity descending, the preference
// order for both primary picks and substitutes.
func rankCandidates(materials []api.Material) []api.Material {
	ranked := make([]api.Material, len(materials))
	copy(ranked, materials)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Purity > ranked[j].Purity
	})
	return ranked
}
