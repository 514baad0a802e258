package cockpit

import (
	"fmt"
	"math"
)

// DeltaColor is the three-tier severity of a delta.
type DeltaColor string

const (
	DeltaGreen DeltaColor = "green"
	DeltaAmber DeltaColor = "amber"
	DeltaRed   DeltaColor = "red"
)

const (
	PerfectMatchMm = 3
	GreenMaxMm     = 10
	AmberMaxMm     = 25
)

var DeltaColors = map[DeltaColor]string{
	DeltaGreen: "#10B981",
	DeltaAmber: "#F59E0B",
	DeltaRed:   "#EF4444",
}

type Palette struct {
	Current string `json:"current"`
	Target  string `json:"target"`
	Grid    string `json:"grid"`
	Frame   string `json:"frame"`
}

var CockpitColors = Palette{
	Current: "#9CA3AF",
	Target:  "#2563EB",
	Grid:    "rgba(0,0,0,0.06)",
	Frame:   "#6B7280",
}

// GetDeltaColor classifies a delta by magnitude: up to 10mm is green, up to
// 25mm amber, anything larger red.
func GetDeltaColor(delta int) DeltaColor {
	abs := absInt(delta)
	switch {
	case abs <= GreenMaxMm:
		return DeltaGreen
	case abs <= AmberMaxMm:
		return DeltaAmber
	default:
		return DeltaRed
	}
}

// DeltaLabel describes a delta for the legend.
func DeltaLabel(delta int) string {
	abs := absInt(delta)
	switch {
	case abs <= PerfectMatchMm:
		return "Perfect match"
	case abs <= GreenMaxMm:
		return "Within ideal range"
	case abs <= AmberMaxMm:
		return "Minor adjustment needed"
	default:
		return "Significant adjustment needed"
	}
}

// FormatDelta renders a delta with an explicit sign, e.g. "+12mm".
func FormatDelta(delta int) string {
	if delta > 0 {
		return fmt.Sprintf("+%dmm", delta)
	}
	return fmt.Sprintf("%dmm", delta)
}

type LegendEntry struct {
	DeltaMm   int        `json:"deltaMm"`
	Formatted string     `json:"formatted"`
	Label     string     `json:"label"`
	Color     DeltaColor `json:"color"`
	Hex       string     `json:"hex"`
}

type Legend struct {
	Reach  LegendEntry `json:"reach"`
	Drop   LegendEntry `json:"drop"`
	Colors Palette     `json:"colors"`
}

// BuildLegend derives the legend rows for a projected model.
func BuildLegend(d Deltas) Legend {
	return Legend{
		Reach:  legendEntry(d.Reach, d.ReachColor),
		Drop:   legendEntry(d.Drop, d.DropColor),
		Colors: CockpitColors,
	}
}

func legendEntry(delta int, color DeltaColor) LegendEntry {
	return LegendEntry{
		DeltaMm:   delta,
		Formatted: FormatDelta(delta),
		Label:     DeltaLabel(delta),
		Color:     color,
		Hex:       DeltaColors[color],
	}
}

func absInt(v int) int {
	return int(math.Abs(float64(v)))
}
