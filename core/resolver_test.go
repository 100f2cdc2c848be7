package core

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/scanmasterndt/calibration-engine/kb"
	"github.com/scanmasterndt/calibration-engine/model"
)

// fakeMetrics captures recorder calls for assertions.
type fakeMetrics struct {
	selections  []string
	resolutions []string
	warnings    []string
}

func (f *fakeMetrics) RecordSelection(code string, _ float64) {
	f.selections = append(f.selections, code)
}

func (f *fakeMetrics) RecordResolution(templateID string, _ bool, _ float64) {
	f.resolutions = append(f.resolutions, templateID)
}

func (f *fakeMetrics) RecordWarning(_, code string) {
	f.warnings = append(f.warnings, code)
}

func newResolver(metrics MetricsRecorder) *RingSegmentResolver {
	return &RingSegmentResolver{Catalog: kb.DefaultCatalog(), Metrics: metrics}
}

func warningCodes(warnings []model.ValidationWarning) map[string]int {
	out := make(map[string]int)
	for _, w := range warnings {
		out[w.Code]++
	}
	return out
}

func fptr(v float64) *float64 { return &v }

func TestResolve_DefaultTemplateIsCompliant(t *testing.T) {
	r := newResolver(nil)

	block, err := r.Resolve(context.Background(), ResolveRequest{TemplateID: kb.TemplateRingSegmentEN})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	if !block.GeometryValidation.IsValid {
		t.Fatalf("expected valid geometry, got errors %v", block.GeometryValidation.Errors)
	}
	if !block.IsCompliant {
		t.Fatalf("expected compliant block, warnings: %v", block.Warnings)
	}
	if len(block.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", block.Warnings)
	}
	if len(block.Holes) != 3 {
		t.Fatalf("expected 3 holes, got %d", len(block.Holes))
	}

	calc := block.CalculatedGeometry
	if calc.WallThicknessMm != 25 {
		t.Errorf("wall = %v, want 25", calc.WallThicknessMm)
	}
	if calc.OuterRadiusMm != 100 || calc.InnerRadiusMm != 75 {
		t.Errorf("radii = (%v, %v), want (100, 75)", calc.OuterRadiusMm, calc.InnerRadiusMm)
	}
	if calc.MeanRadiusMm != 87.5 {
		t.Errorf("mean radius = %v, want 87.5", calc.MeanRadiusMm)
	}
	wantArc := 87.5 * math.Pi / 2
	if math.Abs(calc.ArcLengthMm-wantArc) > 1e-9 {
		t.Errorf("arc length = %v, want %v", calc.ArcLengthMm, wantArc)
	}
}

func TestResolve_HolePositionsAndProjections(t *testing.T) {
	r := newResolver(nil)

	block, err := r.Resolve(context.Background(), ResolveRequest{TemplateID: kb.TemplateRingSegmentEN})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	// Hole A: 6.25 mm below the outer surface at 20 degrees on the arc.
	holeA := block.Holes[0]
	if holeA.Label != "A" {
		t.Fatalf("first hole label = %q, want A", holeA.Label)
	}

	radius := 100 - 6.25
	rad := DegToRad(20)
	if math.Abs(holeA.Cartesian.X-radius*math.Cos(rad)) > 1e-9 {
		t.Errorf("hole A X = %v, want %v", holeA.Cartesian.X, radius*math.Cos(rad))
	}
	if math.Abs(holeA.Cartesian.Y-radius*math.Sin(rad)) > 1e-9 {
		t.Errorf("hole A Y = %v, want %v", holeA.Cartesian.Y, radius*math.Sin(rad))
	}
	if holeA.Cartesian.Z != 20 {
		t.Errorf("hole A Z = %v, want 20", holeA.Cartesian.Z)
	}

	// Top view unrolls the outer surface; section view shows depth from OD.
	if math.Abs(holeA.TopViewPosition.X-100*rad) > 1e-9 {
		t.Errorf("hole A top view X = %v, want %v", holeA.TopViewPosition.X, 100*rad)
	}
	if holeA.TopViewPosition.Y != 20 {
		t.Errorf("hole A top view Y = %v, want 20", holeA.TopViewPosition.Y)
	}
	if math.Abs(holeA.SectionViewPosition.Y-6.25) > 1e-9 {
		t.Errorf("hole A section view depth = %v, want 6.25", holeA.SectionViewPosition.Y)
	}
}

func TestResolve_OverrideClampsDeepHole(t *testing.T) {
	r := newResolver(nil)

	// Wall drops to 17.5 mm; with the 2 mm margin the 18.75 mm hole must
	// clamp to 15.5 mm while the shallower two stay untouched.
	block, err := r.Resolve(context.Background(), ResolveRequest{
		TemplateID: kb.TemplateRingSegmentEN,
		Override:   &model.PartDimensionsOverride{InnerDiameterMm: fptr(165)},
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	if !block.IsCompliant {
		t.Fatalf("expected compliant block after clamping, warnings: %v", block.Warnings)
	}
	codes := warningCodes(block.Warnings)
	if codes[model.WarnThinWallDepthAdjusted] != 1 {
		t.Fatalf("expected one depth-adjusted warning, got %v", block.Warnings)
	}

	var holeC model.ResolvedHole
	for _, h := range block.Holes {
		if h.Label == "C" {
			holeC = h
		}
	}
	if holeC.Label == "" {
		t.Fatalf("hole C missing from resolved block")
	}
	if !holeC.WasAdjusted {
		t.Errorf("hole C should be marked adjusted")
	}
	if math.Abs(holeC.DepthMm-15.5) > 1e-9 {
		t.Errorf("hole C depth = %v, want 15.5", holeC.DepthMm)
	}
	if holeC.OriginalDepthMm != 18.75 {
		t.Errorf("hole C original depth = %v, want 18.75", holeC.OriginalDepthMm)
	}
}

func TestResolve_FallbackReflectorsWhenMinimumNotMet(t *testing.T) {
	r := newResolver(nil)

	// The ASTM segment carries 2 holes; demanding 3 forces the ratio-based
	// fallback set, which fits comfortably in the 15 mm wall.
	policy := model.DefaultThinWallPolicy
	policy.MinimumReflectors.ASTM = 3

	block, err := r.Resolve(context.Background(), ResolveRequest{
		TemplateID: kb.TemplateRingSegmentASTM,
		Policy:     &policy,
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	codes := warningCodes(block.Warnings)
	if codes[model.WarnThinWallFallbackApplied] != 1 {
		t.Fatalf("expected fallback warning, got %v", block.Warnings)
	}
	if !block.IsCompliant {
		t.Fatalf("expected compliant block via fallback, warnings: %v", block.Warnings)
	}
	if len(block.Holes) != 3 {
		t.Fatalf("expected 3 fallback holes, got %d", len(block.Holes))
	}

	wall := block.CalculatedGeometry.WallThicknessMm
	wantDepths := []float64{0.25 * wall, 0.5 * wall, 0.75 * wall}
	for i, h := range block.Holes {
		if h.Label != []string{"F1", "F2", "F3"}[i] {
			t.Errorf("fallback hole %d label = %q", i, h.Label)
		}
		if math.Abs(h.DepthMm-wantDepths[i]) > 1e-9 {
			t.Errorf("fallback hole %d depth = %v, want %v", i, h.DepthMm, wantDepths[i])
		}
	}
}

func TestResolve_TooThinWallIsNonCompliant(t *testing.T) {
	metrics := &fakeMetrics{}
	r := newResolver(metrics)

	// Wall of 1.5 mm: every template hole collapses under the 2 mm margin
	// and no fallback depth fits either.
	block, err := r.Resolve(context.Background(), ResolveRequest{
		TemplateID: kb.TemplateRingSegmentEN,
		Override:   &model.PartDimensionsOverride{InnerDiameterMm: fptr(197)},
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	if block.IsCompliant {
		t.Fatalf("expected non-compliant block for a 1.5 mm wall")
	}
	if len(block.Holes) != 0 {
		t.Errorf("expected no holes, got %d", len(block.Holes))
	}

	codes := warningCodes(block.Warnings)
	if codes[model.WarnThinWallReflectorRemoved] != 3 {
		t.Errorf("expected 3 removal warnings, got %v", codes)
	}
	if codes[model.WarnComplianceTooThin] != 1 {
		t.Errorf("expected a too-thin compliance error, got %v", codes)
	}
	if codes[model.WarnMinimumReflectorsNotMet] != 1 {
		t.Errorf("expected a minimum-reflectors error, got %v", codes)
	}
	if !model.HasError(block.Warnings) {
		t.Errorf("expected error-level warnings")
	}

	if len(metrics.resolutions) != 1 || metrics.resolutions[0] != kb.TemplateRingSegmentEN {
		t.Errorf("metrics resolutions = %v, want one for %s", metrics.resolutions, kb.TemplateRingSegmentEN)
	}
	if len(metrics.warnings) != len(block.Warnings) {
		t.Errorf("metrics warnings = %d, want %d", len(metrics.warnings), len(block.Warnings))
	}
}

func TestResolve_InvalidGeometryShortCircuits(t *testing.T) {
	r := newResolver(nil)

	block, err := r.Resolve(context.Background(), ResolveRequest{
		TemplateID: kb.TemplateRingSegmentEN,
		Override:   &model.PartDimensionsOverride{OuterDiameterMm: fptr(100), InnerDiameterMm: fptr(150)},
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	if block.GeometryValidation.IsValid {
		t.Fatalf("expected invalid geometry")
	}
	if block.IsCompliant {
		t.Errorf("invalid geometry must not be compliant")
	}
	if len(block.Holes) != 0 {
		t.Errorf("expected no holes for invalid geometry, got %d", len(block.Holes))
	}
	codes := warningCodes(block.Warnings)
	if codes[model.WarnGeometryInvalid] == 0 {
		t.Errorf("expected GEOMETRY_INVALID warnings, got %v", block.Warnings)
	}
}

func TestResolve_UnknownTemplate(t *testing.T) {
	r := newResolver(nil)

	_, err := r.Resolve(context.Background(), ResolveRequest{TemplateID: "no_such_template"})
	if !errors.Is(err, kb.ErrTemplateNotFound) {
		t.Fatalf("error = %v, want ErrTemplateNotFound", err)
	}
}

func TestResolve_FlatTemplateRejected(t *testing.T) {
	r := newResolver(nil)

	_, err := r.Resolve(context.Background(), ResolveRequest{TemplateID: kb.TemplateIIWV1})
	if !errors.Is(err, kb.ErrTemplateNotFound) {
		t.Fatalf("error = %v, want ErrTemplateNotFound for a flat template", err)
	}
}

func TestResolve_MarginAndSpacingWarnings(t *testing.T) {
	catalog := kb.DefaultCatalog()
	if err := catalog.AddTemplate(&model.BlockTemplate{
		ID:             "tight_segment",
		Name:           "Tight test segment",
		StandardFamily: model.FamilyASTM,
		Kind:           model.KindRingSegment,
		Geometry: model.RingSegmentGeometry{
			OuterDiameterMm:  120,
			InnerDiameterMm:  100,
			AxialWidthMm:     30,
			SegmentAngleDeg:  90,
			EdgeMarginMm:     10,
			MinHoleSpacingMm: 15,
		},
		AxialOrigin: model.AxialOriginEdge,
		HolePositions: []model.CurvedHolePosition{
			{Label: "A", AngleOnArcDeg: 44, AxialPositionMm: 2, DepthDefinition: model.DepthFromOD},
			{Label: "B", AngleOnArcDeg: 46, AxialPositionMm: 15, DepthDefinition: model.DepthFromOD},
		},
		HoleFeatures: []model.HoleFeature{
			{Label: "A", ReflectorType: model.ReflectorSDH, DiameterMm: 2.0, DepthMm: 5},
			{Label: "B", ReflectorType: model.ReflectorSDH, DiameterMm: 2.0, DepthMm: 7},
		},
	}); err != nil {
		t.Fatalf("AddTemplate: %v", err)
	}

	r := &RingSegmentResolver{Catalog: catalog}
	block, err := r.Resolve(context.Background(), ResolveRequest{TemplateID: "tight_segment"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	codes := warningCodes(block.Warnings)
	if codes[model.WarnHoleOutsideMargins] != 1 {
		t.Errorf("expected one margin warning for hole A, got %v", block.Warnings)
	}
	if codes[model.WarnHoleSpacingTooSmall] != 1 {
		t.Errorf("expected one spacing warning, got %v", block.Warnings)
	}
	// Margin and spacing are advisory; the block stays compliant.
	if !block.IsCompliant {
		t.Errorf("expected compliant block despite advisory warnings")
	}
}

func TestResolve_DepthFromIDPlacesHoleAboveBore(t *testing.T) {
	catalog := kb.DefaultCatalog()
	if err := catalog.AddTemplate(&model.BlockTemplate{
		ID:             "id_referenced",
		Name:           "ID-referenced segment",
		StandardFamily: model.FamilyASTM,
		Kind:           model.KindRingSegment,
		Geometry: model.RingSegmentGeometry{
			OuterDiameterMm:  120,
			InnerDiameterMm:  100,
			AxialWidthMm:     30,
			SegmentAngleDeg:  90,
			EdgeMarginMm:     5,
			MinHoleSpacingMm: 5,
		},
		AxialOrigin: model.AxialOriginEdge,
		HolePositions: []model.CurvedHolePosition{
			{Label: "A", AngleOnArcDeg: 30, AxialPositionMm: 15, DepthDefinition: model.DepthFromID},
			{Label: "B", AngleOnArcDeg: 60, AxialPositionMm: 15, DepthDefinition: model.DepthFromOD},
		},
		HoleFeatures: []model.HoleFeature{
			{Label: "A", ReflectorType: model.ReflectorSDH, DiameterMm: 2.0, DepthMm: 4},
			{Label: "B", ReflectorType: model.ReflectorSDH, DiameterMm: 2.0, DepthMm: 4},
		},
	}); err != nil {
		t.Fatalf("AddTemplate: %v", err)
	}

	r := &RingSegmentResolver{Catalog: catalog}
	block, err := r.Resolve(context.Background(), ResolveRequest{TemplateID: "id_referenced"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(block.Holes) != 2 {
		t.Fatalf("expected 2 holes, got %d", len(block.Holes))
	}

	// Hole A sits 4 mm above the 50 mm bore radius.
	wantRadius := 54.0
	hole := block.Holes[0]
	gotRadius := math.Hypot(hole.Cartesian.X, hole.Cartesian.Y)
	if math.Abs(gotRadius-wantRadius) > 1e-9 {
		t.Errorf("hole radius = %v, want %v", gotRadius, wantRadius)
	}
	if math.Abs(hole.SectionViewPosition.Y-(60-wantRadius)) > 1e-9 {
		t.Errorf("section view depth = %v, want %v", hole.SectionViewPosition.Y, 60-wantRadius)
	}
}
