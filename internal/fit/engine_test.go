package fit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baselineRider() RiderProfile {
	return RiderProfile{
		HeightCm:      Float(175),
		InseamCm:      Float(82),
		TorsoLengthCm: 60,
		ArmLengthCm:   65,
		Flexibility:   FlexibilityMedium,
		RidingStyle:   RidingStyleEndurance,
	}
}

func baselineFrame() FrameGeometry {
	return FrameGeometry{
		StackMm:          590,
		ReachMm:          386,
		HeadTubeAngleDeg: Float(72.5),
		SeatTubeAngleDeg: Float(73.0),
		WheelbaseMm:      Float(1020),
	}
}

func baselineSetup() CurrentSetup {
	return CurrentSetup{
		StemLengthMm:      90,
		SpacerStackMm:     Float(20),
		BarReachMm:        80,
		HoodReachOffsetMm: Float(10),
		SaddleHeightMm:    Float(740),
		SaddleSetbackMm:   Float(25),
	}
}

func TestComputeFitRecommendation_Baseline(t *testing.T) {
	result := ComputeFitRecommendation(baselineRider(), baselineFrame(), baselineSetup())

	assert.Equal(t, ReachBand{MinMm: 481, MidMm: 486, MaxMm: 491}, result.TargetReach)
	assert.Equal(t, DropBand{MinMm: 20, MaxMm: 40}, result.TargetDrop)
	assert.Equal(t, 10, result.Stem.BasisMm)
	assert.Equal(t, 50, result.Stem.SnappedMm)
	assert.Equal(t, []int{50, 60}, result.Stem.AllowedMm)
	assert.Equal(t, 1.0, result.Confidence)
	assert.Empty(t, result.Notes)

	require.NotNil(t, result.Spacers.MinMm)
	require.NotNil(t, result.Spacers.MaxMm)
	assert.Equal(t, 20.0, result.Spacers.RecommendedMm)
	assert.Equal(t, 0.0, *result.Spacers.MinMm)
	assert.Equal(t, 40.0, *result.Spacers.MaxMm)
}

func TestComputeFitRecommendation_MissingBarReachAndStem(t *testing.T) {
	setup := baselineSetup()
	setup.BarReachMm = 0
	setup.StemLengthMm = 0

	result := ComputeFitRecommendation(baselineRider(), baselineFrame(), setup)

	assert.Equal(t, 0.7, result.Confidence)
	assert.Contains(t, result.Notes, "Missing bar reach reduces confidence")
	assert.Contains(t, result.Notes, "Missing stem length reduces confidence")
	assert.Len(t, result.Notes, 2)
}

func TestComputeFitRecommendation_Flexibility(t *testing.T) {
	medium := ComputeFitRecommendation(baselineRider(), baselineFrame(), baselineSetup())

	tests := []struct {
		name        string
		flexibility Flexibility
		offset      int
	}{
		{name: "low subtracts 15mm", flexibility: FlexibilityLow, offset: -15},
		{name: "medium is the baseline", flexibility: FlexibilityMedium, offset: 0},
		{name: "high adds 10mm", flexibility: FlexibilityHigh, offset: 10},
		{name: "unknown value adds nothing", flexibility: Flexibility("bendy"), offset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rider := baselineRider()
			rider.Flexibility = tt.flexibility

			result := ComputeFitRecommendation(rider, baselineFrame(), baselineSetup())

			assert.Equal(t, medium.TargetReach.MidMm+tt.offset, result.TargetReach.MidMm)
		})
	}
}

func TestComputeFitRecommendation_RidingStyle(t *testing.T) {
	endurance := ComputeFitRecommendation(baselineRider(), baselineFrame(), baselineSetup())

	tests := []struct {
		name   string
		style  RidingStyle
		offset int
		drop   DropBand
	}{
		{name: "comfort", style: RidingStyleComfort, offset: -20, drop: DropBand{MinMm: 10, MaxMm: 20}},
		{name: "endurance", style: RidingStyleEndurance, offset: 0, drop: DropBand{MinMm: 20, MaxMm: 40}},
		{name: "race", style: RidingStyleRace, offset: 15, drop: DropBand{MinMm: 50, MaxMm: 80}},
		{name: "unknown falls back to endurance drop", style: RidingStyle("gravel"), offset: 0, drop: DropBand{MinMm: 20, MaxMm: 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rider := baselineRider()
			rider.RidingStyle = tt.style

			result := ComputeFitRecommendation(rider, baselineFrame(), baselineSetup())

			assert.Equal(t, endurance.TargetReach.MidMm+tt.offset, result.TargetReach.MidMm)
			assert.Equal(t, tt.drop, result.TargetDrop)
			assert.LessOrEqual(t, result.TargetDrop.MinMm, result.TargetDrop.MaxMm)
		})
	}
}

func TestComputeFitRecommendation_AdjustmentsAreAdditive(t *testing.T) {
	baseline := ComputeFitRecommendation(baselineRider(), baselineFrame(), baselineSetup())

	rider := baselineRider()
	rider.Flexibility = FlexibilityHigh
	rider.RidingStyle = RidingStyleRace
	result := ComputeFitRecommendation(rider, baselineFrame(), baselineSetup())

	assert.Equal(t, baseline.TargetReach.MidMm+25, result.TargetReach.MidMm)
}

func TestComputeFitRecommendation_HoodOffset(t *testing.T) {
	t.Run("nil offset uses calculator default", func(t *testing.T) {
		setup := baselineSetup()
		setup.HoodReachOffsetMm = nil

		result := ComputeFitRecommendation(baselineRider(), baselineFrame(), setup)

		assert.Equal(t, 10, result.Stem.BasisMm)
	})

	t.Run("explicit zero offset is honoured", func(t *testing.T) {
		setup := baselineSetup()
		setup.HoodReachOffsetMm = Float(0)

		result := ComputeFitRecommendation(baselineRider(), baselineFrame(), setup)

		assert.Equal(t, 20, result.Stem.BasisMm)
	})

	t.Run("configured default", func(t *testing.T) {
		hood := DefaultHoodGeometry()
		hood.DefaultOffsetMm = 25
		setup := baselineSetup()
		setup.HoodReachOffsetMm = nil

		result := NewCalculator(hood).Compute(baselineRider(), baselineFrame(), setup)

		assert.Equal(t, -5, result.Stem.BasisMm)
		assert.Equal(t, 50, result.Stem.SnappedMm)
	})
}

func TestComputeFitRecommendation_LongReachRider(t *testing.T) {
	rider := baselineRider()
	rider.TorsoLengthCm = 70
	rider.ArmLengthCm = 72
	rider.RidingStyle = RidingStyleRace
	rider.Flexibility = FlexibilityHigh

	frame := baselineFrame()
	frame.ReachMm = 360

	// 700*0.43 + 720*0.35 + 25 = 578; basis = 578 - (360 + 80 + 10) = 128
	result := ComputeFitRecommendation(rider, frame, baselineSetup())

	assert.Equal(t, 578, result.TargetReach.MidMm)
	assert.Equal(t, 128, result.Stem.BasisMm)
	assert.Equal(t, 120, result.Stem.SnappedMm)
	assert.Equal(t, []int{110, 120}, result.Stem.AllowedMm)
}

func TestComputeFitRecommendation_Spacers(t *testing.T) {
	tests := []struct {
		name           string
		frameStack     float64
		spacers        *float64
		expectedRec    float64
		expectBand     bool
		expectedMin    float64
		expectedMax    float64
		expectFallback bool
	}{
		{name: "band around current", frameStack: 590, spacers: Float(35), expectedRec: 35, expectBand: true, expectedMin: 15, expectedMax: 55},
		{name: "band floor at zero", frameStack: 590, spacers: Float(5), expectedRec: 5, expectBand: true, expectedMin: 0, expectedMax: 25},
		{name: "zero spacers is a real value", frameStack: 590, spacers: Float(0), expectedRec: 0, expectBand: true, expectedMin: 0, expectedMax: 20},
		{name: "missing frame stack keeps current", frameStack: 0, spacers: Float(15), expectedRec: 15, expectFallback: true},
		{name: "missing spacers defaults to 20", frameStack: 590, spacers: nil, expectedRec: 20, expectFallback: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := baselineFrame()
			frame.StackMm = tt.frameStack
			setup := baselineSetup()
			setup.SpacerStackMm = tt.spacers

			result := ComputeFitRecommendation(baselineRider(), frame, setup)

			assert.Equal(t, tt.expectedRec, result.Spacers.RecommendedMm)
			if tt.expectBand {
				require.NotNil(t, result.Spacers.MinMm)
				require.NotNil(t, result.Spacers.MaxMm)
				assert.Equal(t, tt.expectedMin, *result.Spacers.MinMm)
				assert.Equal(t, tt.expectedMax, *result.Spacers.MaxMm)
			} else {
				assert.Nil(t, result.Spacers.MinMm)
				assert.Nil(t, result.Spacers.MaxMm)
			}
			if tt.expectFallback {
				assert.Equal(t, spacerFallbackNote, result.Notes[0])
			}
		})
	}
}

func TestComputeFitRecommendation_ConfidenceBounds(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(r *RiderProfile, f *FrameGeometry, c *CurrentSetup)
		expected float64
	}{
		{
			name:     "complete",
			mutate:   func(r *RiderProfile, f *FrameGeometry, c *CurrentSetup) {},
			expected: 1.0,
		},
		{
			name:     "one missing",
			mutate:   func(r *RiderProfile, f *FrameGeometry, c *CurrentSetup) { r.TorsoLengthCm = 0 },
			expected: 0.85,
		},
		{
			name: "three missing",
			mutate: func(r *RiderProfile, f *FrameGeometry, c *CurrentSetup) {
				r.ArmLengthCm = 0
				f.ReachMm = 0
				c.StemLengthMm = 0
			},
			expected: 0.55,
		},
		{
			name: "four missing hits 0.4",
			mutate: func(r *RiderProfile, f *FrameGeometry, c *CurrentSetup) {
				r.TorsoLengthCm = 0
				r.ArmLengthCm = 0
				f.StackMm = 0
				f.ReachMm = 0
			},
			expected: 0.4,
		},
		{
			name: "everything missing is floored",
			mutate: func(r *RiderProfile, f *FrameGeometry, c *CurrentSetup) {
				*r = RiderProfile{}
				*f = FrameGeometry{}
				*c = CurrentSetup{}
			},
			expected: 0.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rider, frame, setup := baselineRider(), baselineFrame(), baselineSetup()
			tt.mutate(&rider, &frame, &setup)

			result := ComputeFitRecommendation(rider, frame, setup)

			assert.Equal(t, tt.expected, result.Confidence)
			assert.GreaterOrEqual(t, result.Confidence, MinConfidence)
			assert.LessOrEqual(t, result.Confidence, MaxConfidence)
			assert.Less(t, result.TargetReach.MinMm, result.TargetReach.MidMm)
			assert.Less(t, result.TargetReach.MidMm, result.TargetReach.MaxMm)
		})
	}
}

func TestComputeFitRecommendation_AllMissingStillProduces(t *testing.T) {
	result := ComputeFitRecommendation(RiderProfile{}, FrameGeometry{}, CurrentSetup{})

	assert.Equal(t, ReachBand{MinMm: -5, MidMm: 0, MaxMm: 5}, result.TargetReach)
	assert.Equal(t, -10, result.Stem.BasisMm)
	assert.Equal(t, 50, result.Stem.SnappedMm)
	assert.Equal(t, 20.0, result.Spacers.RecommendedMm)
	// spacer fallback plus six missing fields
	assert.Len(t, result.Notes, 7)
}

func TestSnapStemLength(t *testing.T) {
	tests := []struct {
		basis    float64
		expected int
	}{
		{basis: -40, expected: 50},
		{basis: 10, expected: 50},
		{basis: 54.9, expected: 50},
		{basis: 55, expected: 60},
		{basis: 64.5, expected: 60},
		{basis: 65, expected: 70},
		{basis: 85, expected: 90},
		{basis: 104.99, expected: 100},
		{basis: 115, expected: 120},
		{basis: 119, expected: 120},
		{basis: 400, expected: 120},
	}

	sizes := StemSizes()
	for _, tt := range tests {
		snapped := SnapStemLength(tt.basis)
		assert.Equal(t, tt.expected, snapped, "basis %v", tt.basis)
		assert.Contains(t, sizes, snapped)
	}
}

func TestAllowedStems(t *testing.T) {
	tests := []struct {
		snapped  int
		expected []int
	}{
		{snapped: 50, expected: []int{50, 60}},
		{snapped: 80, expected: []int{70, 80, 90}},
		{snapped: 120, expected: []int{110, 120}},
	}

	for _, tt := range tests {
		allowed := AllowedStems(tt.snapped)
		assert.Equal(t, tt.expected, allowed)
		for _, size := range allowed {
			assert.LessOrEqual(t, size-tt.snapped, AllowedStemWindowMm)
			assert.GreaterOrEqual(t, size-tt.snapped, -AllowedStemWindowMm)
		}
	}
}

func TestStemSizes_ReturnsCopy(t *testing.T) {
	sizes := StemSizes()
	sizes[0] = 999

	assert.Equal(t, 50, StemSizes()[0])
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 486.0, RoundHalfUp(485.5))
	assert.Equal(t, 10.0, RoundHalfUp(9.5))
	assert.Equal(t, -2.0, RoundHalfUp(-2.5))
	assert.Equal(t, -3.0, RoundHalfUp(-2.6))
	assert.Equal(t, 3, RoundToInt(2.5))
}

func TestUnits(t *testing.T) {
	assert.Equal(t, 600.0, CmToMm(60))
	assert.Equal(t, 6.5, MmToCm(65))
	assert.Equal(t, 42.0, Mm(42))
}
