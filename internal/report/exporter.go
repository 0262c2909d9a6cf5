// Package report serializes the current session state into the
// fixed-format experiment plan document. The byte layout is a
// compatibility contract with downstream tooling: section order, labels,
// column order and padding widths must not change.
package report

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"smartsteel/internal/composition"
	"smartsteel/internal/reconcile"
	"smartsteel/pkg/api"
)

// ErrExportSkipped is returned when no complete result pair is held yet.
// A partial or malformed report must never be produced.
var ErrExportSkipped = errors.New("export skipped: no prediction or dosing results yet")

const (
	reportTitle = "SMARTSTEEL-AI EXPERIMENT REPORT"

	// Fixed display value, not derived from predicted properties.
	tapTempLine = "Recommended Tap Temp: 1650°C (AI Estimate)"

	headerRuleWidth = 28
	tableRuleWidth  = 60
)

// Filename returns the export file name for a given date.
func Filename(date time.Time) string {
	return fmt.Sprintf("Experiment_Plan_%s.txt", date.Format("2006-01-02"))
}

// Build assembles the report text for the given state and date stamp.
// The report is regenerated from current state on every call and never
// cached; two exports on different days differ only in the date line.
func Build(model *composition.Model, predicted *api.PredictedProperties, dosing []api.DosingItem, date time.Time) (string, error) {
	if predicted == nil || dosing == nil {
		return "", ErrExportSkipped
	}

	var b strings.Builder

	b.WriteString(reportTitle + "\n")
	b.WriteString("Date: " + date.Format("2006-01-02") + "\n")
	b.WriteString(strings.Repeat("-", headerRuleWidth) + "\n\n")

	b.WriteString("1. ALLOY RECIPE (Target Composition)\n")
	for _, symbol := range model.Elements() {
		b.WriteString(fmt.Sprintf("%s: %s%%\n", symbol, formatNum(model.Value(symbol))))
	}

	b.WriteString("\n2. FURNACE SETTINGS\n")
	b.WriteString(fmt.Sprintf("Melt Mass: %s Tons\n", formatNum(model.MeltMassTons())))
	b.WriteString(tapTempLine + "\n")

	b.WriteString("\n3. PREDICTED PROPERTIES\n")
	b.WriteString(fmt.Sprintf("Tensile Strength: %s MPa\n", formatNum(predicted.TensileStrength)))
	b.WriteString(fmt.Sprintf("Hardness: %s HV\n", formatNum(predicted.Hardness)))
	b.WriteString(fmt.Sprintf("Corrosion Rate: %s mm/yr\n", formatNum(predicted.CorrosionRate)))
	b.WriteString(fmt.Sprintf("Density: %s g/cm³\n", formatNum(predicted.Density)))

	b.WriteString("\n4. DOSING PLAN & INVENTORY CHECK\n")
	b.WriteString("Element | Target (kg) | Recovery (%) | Required (kg) | Status\n")
	b.WriteString(strings.Repeat("-", tableRuleWidth) + "\n")
	for _, item := range dosing {
		b.WriteString(fmt.Sprintf("%s | %s | %s | %s | %s\n",
			pad(item.Element, 7),
			pad(formatNum(item.TargetMassKg), 11),
			pad(recoveryPercent(item.RecoveryRate), 12),
			pad(formatNum(item.RequiredDosingKg), 13),
			reconcile.DisplayStatus(item.InventoryStatus),
		))
	}

	return b.String(), nil
}

// Export builds the report for today and writes it to dir as
// Experiment_Plan_<YYYY-MM-DD>.txt, returning the written path. The file
// save is an I/O boundary: a write failure surfaces but held state is
// untouched.
func Export(dir string, model *composition.Model, predicted *api.PredictedProperties, dosing []api.DosingItem) (string, error) {
	now := time.Now()
	text, err := Build(model, predicted, dosing, now)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, Filename(now))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// formatNum renders a float the way the dashboard does: shortest exact
// decimal representation, no trailing zeros.
func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// recoveryPercent renders a recovery rate as a whole percent.
func recoveryPercent(rate float64) string {
	return strconv.Itoa(int(math.Round(rate * 100)))
}

// pad right-pads s with spaces to width; longer values are left intact.
func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
