// Package furnace provides energy and emissions calculations for the
// melt cycle.
package furnace

// Defaults for an electric arc furnace on a mixed grid.
const (
	DefaultEfficiency     = 0.7
	DefaultGridFactorKg   = 0.82 // kg CO2 per kWh
	DefaultSpecificHeatKJ = 0.49 // kJ/(kg·°C), liquid steel region
	TapTemperatureC       = 1650
	AmbientTemperatureC   = 25
)

const joulesPerKWh = 3.6e6

// EnergyKWh returns the electrical energy needed to heat massKg by
// deltaT degrees, given the material's specific heat in kJ/(kg·°C) and
// the furnace efficiency. A non-positive efficiency falls back to the
// ideal (lossless) figure.
func EnergyKWh(massKg, specificHeatKJ, deltaT, efficiency float64) float64 {
	joules := massKg * (specificHeatKJ * 1000) * deltaT
	kwh := joules / joulesPerKWh
	if efficiency <= 0 {
		return kwh
	}
	return kwh / efficiency
}

// CO2Tons converts an energy figure to emitted CO2 in tons using a grid
// intensity factor in kg CO2/kWh.
func CO2Tons(energyKWh, gridFactorKg float64) float64 {
	return energyKWh * gridFactorKg / 1000
}

// Estimate returns the energy and emissions for bringing massKg of steel
// from ambient to tap temperature with the default furnace parameters.
func Estimate(massKg float64) (energyKWh, co2Tons float64) {
	deltaT := float64(TapTemperatureC - AmbientTemperatureC)
	energyKWh = EnergyKWh(massKg, DefaultSpecificHeatKJ, deltaT, DefaultEfficiency)
	co2Tons = CO2Tons(energyKWh, DefaultGridFactorKg)
	return energyKWh, co2Tons
}
