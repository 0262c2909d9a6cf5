// Package composition holds the session-scoped target composition and
// melt mass. It is pure data plus validation: values are stored as the
// operator typed them, with no clamping and no sum-to-100 enforcement.
// The remote service is the source of truth for metallurgical validity.
package composition

import (
	"math"
	"strconv"
	"strings"

	"smartsteel/pkg/api"
)

// Model is the mutable target composition for one operator session.
// Element insertion order is preserved so that reports and chart series
// iterate deterministically. Mutation happens only through the setters;
// the model is owned by a single session and is not safe for concurrent
// writers.
type Model struct {
	elements     []string
	values       map[string]float64
	meltMassTons float64
}

// New returns an empty model.
func New() *Model {
	return &Model{values: make(map[string]float64)}
}

// Default returns a model seeded with the standard low-alloy starting
// recipe and a 10 ton melt.
func Default() *Model {
	m := New()
	m.SetElement("C", 0.25)
	m.SetElement("Cr", 1.0)
	m.SetElement("Ni", 0.5)
	m.SetElement("Mn", 0.8)
	m.SetMeltMass(10)
	return m
}

// SetElement replaces the weight percent for symbol, creating the entry
// if absent. Non-finite values are ignored: a transient invalid
// keystroke (empty field mid-edit) must never disturb the model.
func (m *Model) SetElement(symbol string, value float64) {
	if !isFinite(value) {
		return
	}
	if _, ok := m.values[symbol]; !ok {
		m.elements = append(m.elements, symbol)
	}
	m.values[symbol] = value
}

// SetMeltMass replaces the melt mass in tons. Same silent-reject rule as
// SetElement; positivity is advisory and checked at request time, not
// here.
func (m *Model) SetMeltMass(tons float64) {
	if !isFinite(tons) {
		return
	}
	m.meltMassTons = tons
}

// Elements returns the element symbols in insertion order.
func (m *Model) Elements() []string {
	out := make([]string, len(m.elements))
	copy(out, m.elements)
	return out
}

// Value returns the weight percent for symbol, or 0 when absent.
func (m *Model) Value(symbol string) float64 {
	return m.values[symbol]
}

// MeltMassTons returns the melt mass in tons.
func (m *Model) MeltMassTons() float64 {
	return m.meltMassTons
}

// Composition returns a copy of the element map in wire form.
func (m *Model) Composition() api.Composition {
	out := make(api.Composition, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// ParseValue is the single parse-or-reject boundary for numeric operator
// input. It reports false for anything that is not a finite number and
// never panics.
func ParseValue(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(v) {
		return 0, false
	}
	return v, true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
