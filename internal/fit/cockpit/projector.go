package cockpit

import (
	"math"

	"cockpit-fit-workers/internal/fit"
)

const (
	CanvasWidthPx   = 720
	CanvasHeightPx  = 420
	CanvasPaddingPx = 40
	ReachHeadroomMm = 80
	StackHeadroomMm = 60
)

// Projector turns a VizInput into canvas coordinates. It is stateless apart
// from the hood geometry and safe for concurrent use.
type Projector struct {
	hood fit.HoodGeometry
}

func NewProjector(hood fit.HoodGeometry) *Projector {
	return &Projector{hood: hood}
}

var defaultProjector = NewProjector(fit.DefaultHoodGeometry())

// ProjectToSvgModel projects with the default hood geometry.
func ProjectToSvgModel(viz VizInput, overrides Overrides) SvgModel {
	return defaultProjector.Project(viz, overrides)
}

// DefaultOverrides starts the controls at the recommended values.
func DefaultOverrides(viz VizInput) Overrides {
	return Overrides{
		StemMm:     viz.Target.IdealStemMm,
		SpacersMm:  viz.Target.IdealSpacerMm,
		BarReachMm: viz.Target.IdealBarReachMm,
	}
}

// Project lays out the frame and the current, target and live cockpits using
// a single mm to px scale for both axes.
func (p *Projector) Project(viz VizInput, overrides Overrides) SvgModel {
	frame, current, target := viz.Frame, viz.Current, viz.Target

	currentHood := current.HoodOffsetMm
	if currentHood == 0 {
		currentHood = p.hood.VisualOffsetMm
	}

	reach := Extents{
		Current: frame.ReachMm + current.StemMm + current.BarReachMm + currentHood,
		Target:  frame.ReachMm + target.IdealStemMm + target.IdealBarReachMm + p.hood.VisualOffsetMm,
		Live:    frame.ReachMm + overrides.StemMm + overrides.BarReachMm + p.hood.VisualOffsetMm,
	}
	stack := Extents{
		Current: frame.StackMm + current.SpacerMm,
		Target:  frame.StackMm + target.IdealSpacerMm,
		Live:    frame.StackMm + overrides.SpacersMm,
	}

	scale := uniformScale(reach, stack)

	bb := Point{X: CanvasPaddingPx, Y: CanvasHeightPx - CanvasPaddingPx}
	headTop := bb.Add(Point{X: frame.ReachMm * scale, Y: -frame.StackMm * scale})

	currentModel := p.cockpit(headTop, current.StemMm, current.SpacerMm, current.BarReachMm, scale)
	targetModel := p.cockpit(headTop, target.IdealStemMm, target.IdealSpacerMm, target.IdealBarReachMm, scale)
	liveModel := p.cockpit(headTop, overrides.StemMm, overrides.SpacersMm, overrides.BarReachMm, scale)

	reachDelta := fit.RoundToInt(reach.Live - reach.Target)
	// Positive when the live hood sits lower on screen than the current one.
	dropDelta := fit.RoundToInt((liveModel.Hood.Y - currentModel.Hood.Y) / scale)

	deltas := Deltas{
		Reach:      reachDelta,
		Drop:       dropDelta,
		ReachColor: GetDeltaColor(reachDelta),
		DropColor:  GetDeltaColor(dropDelta),
	}
	if target.TargetReachMm > 0 {
		gap := fit.RoundToInt(reach.Live - float64(target.TargetReachMm))
		deltas.TargetGap = &gap
		deltas.TargetGapColor = GetDeltaColor(gap)
	}

	return SvgModel{
		Size: CanvasSize{Width: CanvasWidthPx, Height: CanvasHeightPx, Padding: CanvasPaddingPx},
		Frame: FrameModel{
			BB:        bb,
			HeadTop:   headTop,
			ReachLine: Line{X1: bb.X, Y1: bb.Y, X2: headTop.X, Y2: bb.Y},
			StackLine: Line{X1: headTop.X, Y1: bb.Y, X2: headTop.X, Y2: headTop.Y},
		},
		Current: currentModel,
		Target:  targetModel,
		Live:    liveModel,
		Deltas:  deltas,
		Bands: Bands{
			StemRange:   target.IdealStemRangeMm,
			SpacerRange: target.IdealSpacerRangeMm,
		},
		Scale:            Scale{XScale: scale, YScale: scale},
		EffectiveReachMm: reach,
		EffectiveStackMm: stack,
	}
}

func (p *Projector) cockpit(headTop Point, stemMm, spacerMm, barMm, scale float64) CockpitModel {
	stemPx := stemMm * scale
	barPx := barMm * scale
	spacerPx := spacerMm * scale

	stemEnd := headTop.Add(Point{X: stemPx, Y: -spacerPx})
	barEnd := stemEnd.Add(Point{X: barPx})
	hood := barEnd.Add(Point{X: p.hood.VisualOffsetMm * scale, Y: -p.hood.VisualRisePx})

	return CockpitModel{
		StemPx:   stemPx,
		BarPx:    barPx,
		SpacerPx: spacerPx,
		StemEnd:  stemEnd,
		BarEnd:   barEnd,
		Hood:     hood,
	}
}

// uniformScale fits the largest reach and stack, plus headroom, inside the
// padded canvas and returns the smaller of the two axis scales.
func uniformScale(reach, stack Extents) float64 {
	maxReach := math.Max(reach.Current, math.Max(reach.Target, reach.Live)) + ReachHeadroomMm
	maxStack := math.Max(stack.Current, math.Max(stack.Target, stack.Live)) + StackHeadroomMm

	xScale := (CanvasWidthPx - 2*CanvasPaddingPx) / maxReach
	yScale := (CanvasHeightPx - 2*CanvasPaddingPx) / maxStack

	return math.Min(xScale, yScale)
}
