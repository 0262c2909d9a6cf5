package composition

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{name: "plain decimal", input: "0.25", want: 0.25, ok: true},
		{name: "integer", input: "10", want: 10, ok: true},
		{name: "whitespace trimmed", input: " 1.5 ", want: 1.5, ok: true},
		{name: "negative accepted", input: "-2", want: -2, ok: true},
		{name: "empty field mid-edit", input: "", ok: false},
		{name: "garbage", input: "abc", ok: false},
		{name: "trailing junk", input: "1.2x", ok: false},
		{name: "nan literal", input: "NaN", ok: false},
		{name: "infinity literal", input: "Inf", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseValue(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSetElementRejectsNonFinite(t *testing.T) {
	m := New()
	m.SetElement("C", 0.25)

	m.SetElement("C", math.NaN())
	m.SetElement("C", math.Inf(1))
	m.SetElement("Zr", math.NaN()) // must not create the key either

	assert.Equal(t, 0.25, m.Value("C"))
	assert.Equal(t, []string{"C"}, m.Elements())
}

func TestSetMeltMassRejectsNonFinite(t *testing.T) {
	m := New()
	m.SetMeltMass(10)
	m.SetMeltMass(math.Inf(-1))
	assert.Equal(t, 10.0, m.MeltMassTons())
}

func TestElementOrderPreserved(t *testing.T) {
	m := New()
	m.SetElement("Mn", 0.8)
	m.SetElement("C", 0.25)
	m.SetElement("Cr", 1.0)
	m.SetElement("C", 0.3) // update must not reorder

	assert.Equal(t, []string{"Mn", "C", "Cr"}, m.Elements())
	assert.Equal(t, 0.3, m.Value("C"))
}

func TestDefaultRecipe(t *testing.T) {
	m := Default()
	assert.Equal(t, []string{"C", "Cr", "Ni", "Mn"}, m.Elements())
	assert.Equal(t, 10.0, m.MeltMassTons())
	assert.Equal(t, 1.0, m.Value("Cr"))
}

func TestCompositionCopyIsDetached(t *testing.T) {
	m := Default()
	comp := m.Composition()
	comp["C"] = 99

	assert.Equal(t, 0.25, m.Value("C"))
}
