package core

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/scanmasterndt/calibration-engine/internal/logging"
	"github.com/scanmasterndt/calibration-engine/kb"
	"github.com/scanmasterndt/calibration-engine/model"
)

const tracerName = "github.com/scanmasterndt/calibration-engine/core"

// MetricsRecorder receives engine events; implemented by the prometheus
// collector in internal/observability. A nil recorder disables metrics.
type MetricsRecorder interface {
	RecordSelection(code string, seconds float64)
	RecordResolution(templateID string, compliant bool, seconds float64)
	RecordWarning(level, code string)
}

// ResolveRequest asks for a block template to be resolved against a part.
type ResolveRequest struct {
	TemplateID string                        `json:"template_id"`
	Override   *model.PartDimensionsOverride `json:"override,omitempty"`
	// Policy defaults to model.DefaultThinWallPolicy when nil.
	Policy *model.ThinWallPolicy `json:"policy,omitempty"`
}

// RingSegmentResolver turns a parametric ring-segment template plus
// optional part-dimension overrides into a fully dimensioned block.
//
// Resolve is a single-pass pipeline and always produces a result: every
// failure mode except an unknown template id surfaces as warnings inside
// the resolved block, never as a Go error.
type RingSegmentResolver struct {
	Catalog *kb.Catalog
	Log     logging.Logger
	Metrics MetricsRecorder
}

// Resolve runs the five pipeline stages: geometry resolution, derived
// geometry, thin-wall policy, position resolution, and compliance.
func (r *RingSegmentResolver) Resolve(ctx context.Context, req ResolveRequest) (*model.ResolvedRingSegmentBlock, error) {
	start := time.Now()
	ctx, log := logging.WithRequestLogger(ctx, r.Log)

	ctx, span := otel.Tracer(tracerName).Start(ctx, "resolver.Resolve",
		trace.WithAttributes(attribute.String("template_id", req.TemplateID)))
	defer span.End()

	tmpl, err := r.Catalog.Template(req.TemplateID)
	if err != nil {
		return nil, err
	}
	if tmpl.Kind != model.KindRingSegment {
		return nil, fmt.Errorf("%w: %q is not a ring-segment template", kb.ErrTemplateNotFound, req.TemplateID)
	}

	policy := model.DefaultThinWallPolicy
	if req.Policy != nil {
		policy = *req.Policy
	}

	block := &model.ResolvedRingSegmentBlock{
		TemplateID:  tmpl.ID,
		AxialOrigin: tmpl.AxialOrigin,
	}

	// Stage 1: merge overrides onto the template envelope and validate.
	block.Geometry = mergeGeometry(tmpl.Geometry, req.Override)
	block.GeometryValidation = validateGeometry(block.Geometry)
	if !block.GeometryValidation.IsValid {
		for _, msg := range block.GeometryValidation.Errors {
			r.warn(block, model.ValidationWarning{
				Level:   model.LevelError,
				Code:    model.WarnGeometryInvalid,
				Message: msg,
			})
		}
		block.IsCompliant = false
		log.Warn(ctx, "geometry validation failed",
			logging.String("template_id", tmpl.ID),
			logging.Int("errors", len(block.GeometryValidation.Errors)))
		r.recordResolution(tmpl.ID, false, time.Since(start))
		return block, nil
	}

	// Stage 2: derived geometry.
	block.CalculatedGeometry = DeriveCalculatedGeometry(block.Geometry)

	// Stage 3: thin-wall policy.
	holes := r.applyThinWallPolicy(block, tmpl, policy)

	// Stage 4: positions and projections.
	r.resolvePositions(block, holes)

	// Stage 5: compliance.
	minCount := policy.Minimum(tmpl.StandardFamily)
	block.IsCompliant = !model.HasError(block.Warnings) && len(block.Holes) >= minCount

	log.Info(ctx, "block resolved",
		logging.String("template_id", tmpl.ID),
		logging.Int("holes", len(block.Holes)),
		logging.Int("warnings", len(block.Warnings)),
		logging.Bool("compliant", block.IsCompliant))
	span.SetAttributes(attribute.Bool("compliant", block.IsCompliant))
	r.recordResolution(tmpl.ID, block.IsCompliant, time.Since(start))

	return block, nil
}

func (r *RingSegmentResolver) recordResolution(templateID string, compliant bool, d time.Duration) {
	if r.Metrics != nil {
		r.Metrics.RecordResolution(templateID, compliant, d.Seconds())
	}
}

// warn appends a warning and forwards it to the metrics recorder.
func (r *RingSegmentResolver) warn(block *model.ResolvedRingSegmentBlock, w model.ValidationWarning) {
	block.Warnings = append(block.Warnings, w)
	if r.Metrics != nil {
		r.Metrics.RecordWarning(string(w.Level), w.Code)
	}
}

// mergeGeometry applies non-nil override fields onto the template envelope.
func mergeGeometry(g model.RingSegmentGeometry, o *model.PartDimensionsOverride) model.RingSegmentGeometry {
	if o == nil {
		return g
	}
	if o.OuterDiameterMm != nil {
		g.OuterDiameterMm = *o.OuterDiameterMm
	}
	if o.InnerDiameterMm != nil {
		g.InnerDiameterMm = *o.InnerDiameterMm
	}
	if o.AxialWidthMm != nil {
		g.AxialWidthMm = *o.AxialWidthMm
	}
	if o.SegmentAngleDeg != nil {
		g.SegmentAngleDeg = *o.SegmentAngleDeg
	}
	return g
}

func validateGeometry(g model.RingSegmentGeometry) model.GeometryValidationResult {
	var errs []string
	if !(g.OuterDiameterMm > g.InnerDiameterMm) {
		errs = append(errs, fmt.Sprintf("outer diameter %.3f mm must exceed inner diameter %.3f mm", g.OuterDiameterMm, g.InnerDiameterMm))
	}
	if !(g.InnerDiameterMm > 0) {
		errs = append(errs, fmt.Sprintf("inner diameter %.3f mm must be positive", g.InnerDiameterMm))
	}
	if !(g.SegmentAngleDeg > 0 && g.SegmentAngleDeg <= 360) {
		errs = append(errs, fmt.Sprintf("segment angle %.3f deg must be in (0, 360]", g.SegmentAngleDeg))
	}
	if !(g.AxialWidthMm > 0) {
		errs = append(errs, fmt.Sprintf("axial width %.3f mm must be positive", g.AxialWidthMm))
	}
	return model.GeometryValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// DeriveCalculatedGeometry computes the quantities downstream stages and
// renderers need from a valid ring-segment envelope.
func DeriveCalculatedGeometry(g model.RingSegmentGeometry) model.CalculatedGeometry {
	outerR := g.OuterDiameterMm / 2
	innerR := g.InnerDiameterMm / 2
	meanR := (outerR + innerR) / 2
	return model.CalculatedGeometry{
		WallThicknessMm: outerR - innerR,
		MeanRadiusMm:    meanR,
		OuterRadiusMm:   outerR,
		InnerRadiusMm:   innerR,
		ArcLengthMm:     meanR * DegToRad(g.SegmentAngleDeg),
	}
}

// pendingHole pairs a position with its feature while depths are being
// reconciled against the wall.
type pendingHole struct {
	pos           model.CurvedHolePosition
	feature       model.HoleFeature
	depth         float64
	originalDepth float64
	adjusted      bool
}

// applyThinWallPolicy reconciles every reflector depth with the wall: clamp
// first, remove when the clamp collapses the depth, then fall back to
// ratio-placed reflectors when the survivors no longer meet the code
// minimum. The worst case marks the block too thin rather than failing.
func (r *RingSegmentResolver) applyThinWallPolicy(block *model.ResolvedRingSegmentBlock, tmpl *model.BlockTemplate, policy model.ThinWallPolicy) []pendingHole {
	wall := block.CalculatedGeometry.WallThicknessMm
	maxDepth := wall - policy.SafetyMarginMm

	positions := make(map[string]model.CurvedHolePosition, len(tmpl.HolePositions))
	for _, p := range tmpl.HolePositions {
		positions[p.Label] = p
	}

	var survivors []pendingHole
	for _, f := range tmpl.HoleFeatures {
		pos, ok := positions[f.Label]
		if !ok {
			continue
		}

		h := pendingHole{pos: pos, feature: f, depth: f.DepthMm, originalDepth: f.DepthMm}
		if h.depth > maxDepth {
			h.depth = maxDepth
			h.adjusted = true
		}

		if h.depth <= 0 {
			r.warn(block, model.ValidationWarning{
				Level:      model.LevelWarning,
				Code:       model.WarnThinWallReflectorRemoved,
				Message:    fmt.Sprintf("reflector %s at %.2f mm cannot fit a %.2f mm wall with %.2f mm safety margin", f.Label, f.DepthMm, wall, policy.SafetyMarginMm),
				Suggestion: "increase wall thickness or reduce the safety margin",
			})
			continue
		}
		if h.adjusted {
			r.warn(block, model.ValidationWarning{
				Level:   model.LevelWarning,
				Code:    model.WarnThinWallDepthAdjusted,
				Message: fmt.Sprintf("reflector %s depth clamped from %.2f mm to %.2f mm", f.Label, h.originalDepth, h.depth),
			})
		}
		survivors = append(survivors, h)
	}

	minCount := policy.Minimum(tmpl.StandardFamily)
	if len(survivors) >= minCount {
		return survivors
	}

	// Fallback: replace the hole set with reflectors at the configured
	// depth ratios of the wall, spread across the usable arc.
	fallback := r.synthesizeFallback(block, tmpl, policy, maxDepth)
	if len(fallback) >= minCount {
		r.warn(block, model.ValidationWarning{
			Level:   model.LevelWarning,
			Code:    model.WarnThinWallFallbackApplied,
			Message: fmt.Sprintf("template reflectors replaced by %d fallback reflectors at ratios of the %.2f mm wall", len(fallback), wall),
		})
		return fallback
	}

	r.warn(block, model.ValidationWarning{
		Level:      model.LevelError,
		Code:       model.WarnComplianceTooThin,
		Message:    fmt.Sprintf("wall thickness %.2f mm cannot host the %d reflectors required by the %s family", wall, minCount, tmpl.StandardFamily),
		Suggestion: "use a thicker reference block or a notch-based technique",
	})
	r.warn(block, model.ValidationWarning{
		Level:   model.LevelError,
		Code:    model.WarnMinimumReflectorsNotMet,
		Message: fmt.Sprintf("only %d of %d required reflectors remain", len(survivors), minCount),
	})
	return survivors
}

// synthesizeFallback builds ratio-depth reflectors inside the edge margins.
// Ratios whose depth violates the safety margin are skipped.
func (r *RingSegmentResolver) synthesizeFallback(block *model.ResolvedRingSegmentBlock, tmpl *model.BlockTemplate, policy model.ThinWallPolicy, maxDepth float64) []pendingHole {
	g := block.Geometry
	calc := block.CalculatedGeometry

	diameter := 2.4
	if len(tmpl.HoleFeatures) > 0 {
		diameter = tmpl.HoleFeatures[0].DiameterMm
	}

	var depths []float64
	for _, ratio := range policy.FallbackDepthRatios {
		d := ratio * calc.WallThicknessMm
		if d > 0 && d <= maxDepth {
			depths = append(depths, d)
		}
	}
	if len(depths) == 0 {
		return nil
	}

	// Usable arc between the edge margins, converted via the mean radius.
	marginDeg := 0.0
	if calc.MeanRadiusMm > 0 {
		marginDeg = RadToDeg(g.EdgeMarginMm / calc.MeanRadiusMm)
	}
	span := g.SegmentAngleDeg - 2*marginDeg
	if span <= 0 {
		return nil
	}

	out := make([]pendingHole, 0, len(depths))
	for i, d := range depths {
		frac := (float64(i) + 0.5) / float64(len(depths))
		pos := model.CurvedHolePosition{
			Label:           fmt.Sprintf("F%d", i+1),
			AngleOnArcDeg:   marginDeg + frac*span,
			AxialPositionMm: g.AxialWidthMm / 2,
			DepthDefinition: model.DepthFromOD,
		}
		out = append(out, pendingHole{
			pos: pos,
			feature: model.HoleFeature{
				Label:         pos.Label,
				ReflectorType: model.ReflectorSDH,
				DiameterMm:    diameter,
				DepthMm:       d,
			},
			depth:         d,
			originalDepth: d,
			adjusted:      true,
		})
	}
	return out
}

// resolvePositions computes Cartesian coordinates and drawing projections
// for every surviving hole and raises margin and spacing warnings.
func (r *RingSegmentResolver) resolvePositions(block *model.ResolvedRingSegmentBlock, holes []pendingHole) {
	g := block.Geometry
	calc := block.CalculatedGeometry

	for _, h := range holes {
		radius := calc.OuterRadiusMm - h.depth
		if h.pos.DepthDefinition == model.DepthFromID {
			radius = calc.InnerRadiusMm + h.depth
		}
		rad := DegToRad(h.pos.AngleOnArcDeg)

		resolved := model.ResolvedHole{
			Label:           h.feature.Label,
			ReflectorType:   h.feature.ReflectorType,
			DiameterMm:      h.feature.DiameterMm,
			DepthMm:         h.depth,
			OriginalDepthMm: h.originalDepth,
			WasAdjusted:     h.adjusted,
			AngleOnArcDeg:   h.pos.AngleOnArcDeg,
			AxialPositionMm: h.pos.AxialPositionMm,
			Cartesian: model.Vec3{
				X: radius * math.Cos(rad),
				Y: radius * math.Sin(rad),
				Z: h.pos.AxialPositionMm,
			},
			TopViewPosition: model.Point2{
				X: calc.OuterRadiusMm * rad,
				Y: h.pos.AxialPositionMm,
			},
			SectionViewPosition: model.Point2{
				X: h.pos.AxialPositionMm,
				Y: calc.OuterRadiusMm - radius,
			},
		}

		if outsideMargins(g, calc, h.pos) {
			r.warn(block, model.ValidationWarning{
				Level:   model.LevelWarning,
				Code:    model.WarnHoleOutsideMargins,
				Message: fmt.Sprintf("hole %s lies within %.2f mm of a block edge", h.feature.Label, g.EdgeMarginMm),
			})
		}

		block.Holes = append(block.Holes, resolved)
	}

	// Pairwise centre-to-centre arc spacing at the mean radius.
	for i := 0; i < len(holes); i++ {
		for j := i + 1; j < len(holes); j++ {
			arcDist := calc.MeanRadiusMm * math.Abs(DegToRad(holes[i].pos.AngleOnArcDeg-holes[j].pos.AngleOnArcDeg))
			if arcDist < g.MinHoleSpacingMm {
				r.warn(block, model.ValidationWarning{
					Level:   model.LevelWarning,
					Code:    model.WarnHoleSpacingTooSmall,
					Message: fmt.Sprintf("holes %s and %s are %.2f mm apart on the arc, below the %.2f mm minimum", holes[i].feature.Label, holes[j].feature.Label, arcDist, g.MinHoleSpacingMm),
				})
			}
		}
	}
}

// outsideMargins reports whether a hole centre violates the edge margin
// axially or along the arc.
func outsideMargins(g model.RingSegmentGeometry, calc model.CalculatedGeometry, pos model.CurvedHolePosition) bool {
	if pos.AxialPositionMm < g.EdgeMarginMm || pos.AxialPositionMm > g.AxialWidthMm-g.EdgeMarginMm {
		return true
	}
	fromStart := calc.MeanRadiusMm * DegToRad(pos.AngleOnArcDeg)
	fromEnd := calc.MeanRadiusMm * DegToRad(g.SegmentAngleDeg-pos.AngleOnArcDeg)
	return fromStart < g.EdgeMarginMm || fromEnd < g.EdgeMarginMm
}
