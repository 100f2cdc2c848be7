package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/scanmasterndt/calibration-engine/internal/logging"
	"github.com/scanmasterndt/calibration-engine/kb"
	"github.com/scanmasterndt/calibration-engine/model"
)

// smallPipeODThresholdMm is the outer diameter below which a flat
// calibration block no longer matches the part curvature and a ring
// segment is recommended instead.
const smallPipeODThresholdMm = 75.0

// CalibrationBlockSelector is the engine's top-level orchestrator: given a
// part description and the requested beam angles it recommends a block
// family, sizes the reflectors, and derives per-angle wedge and beam-path
// data. Select always returns a best-effort result; infeasible angles show
// up as nil wedge angles, never as errors.
type CalibrationBlockSelector struct {
	Catalog *kb.Catalog
	Log     logging.Logger
	Metrics MetricsRecorder
}

// Select runs the decision procedure in a fixed order so results are
// deterministic for identical inputs.
func (s *CalibrationBlockSelector) Select(ctx context.Context, req model.SelectionRequest) *model.SelectionResult {
	start := time.Now()
	ctx, log := logging.WithRequestLogger(ctx, s.Log)

	ctx, span := otel.Tracer(tracerName).Start(ctx, "selector.Select",
		trace.WithAttributes(
			attribute.String("code", string(req.Code)),
			attribute.String("geometry", string(req.PartGeometry)),
			attribute.Float64("thickness_mm", req.PartThicknessMm)))
	defer span.End()

	part := s.Catalog.Resolve(req.PartMaterial)
	wedgeName := req.WedgeMaterial
	if wedgeName == "" {
		wedgeName = string(model.MaterialPerspex)
	}
	wedge := s.Catalog.Resolve(wedgeName)
	refraction := Refraction{Materials: s.Catalog}

	result := &model.SelectionResult{
		BeamPathData:      make(map[float64]model.BeamPathResult, len(req.BeamAnglesDeg)),
		WedgeRequirements: make(map[float64]model.WedgeRequirement, len(req.BeamAnglesDeg)),
	}

	// Reflector sizing. AWS pins the SDH at 1.5 mm regardless of wall.
	result.SDHSize = SDHSize(req.PartThicknessMm, req.Code)
	if req.PartGeometry == model.GeometryWeld || req.PartGeometry == model.GeometryPipe {
		notch := NotchRule(req.PartThicknessMm, req.Code)
		result.NotchSpec = &notch
	}

	// Block family.
	result.RecommendedBlock = s.recommendBlock(req, result)

	// Per-angle wedge and beam-path data.
	for _, angle := range req.BeamAnglesDeg {
		wr := WedgeRequirement(s.Catalog, angle, req.PartThicknessMm)
		if deg, ok := refraction.WedgeAngle(angle, wedge.ID, part.ID, model.ModeShear); ok {
			wr.WedgeAngleDeg = &deg
		}
		result.WedgeRequirements[angle] = wr
		result.BeamPathData[angle] = BeamPath(req.PartThicknessMm, angle)
	}

	result.CriticalAngles = refraction.CriticalAngles(wedge.ID, part.ID)

	s.appendAdvisories(req, result)

	if req.PartGeometry == model.GeometryWeld {
		result.CalibrationNotes = append(result.CalibrationNotes,
			"Scan the weld from both sides where access allows.",
			"Establish a DAC curve from the side-drilled holes before evaluation.")
	}
	result.CalibrationNotes = append(result.CalibrationNotes, skipSummary(req.BeamAnglesDeg, result.BeamPathData))

	for _, w := range result.Warnings {
		if s.Metrics != nil {
			s.Metrics.RecordWarning(string(w.Level), w.Code)
		}
	}
	if s.Metrics != nil {
		s.Metrics.RecordSelection(string(req.Code), time.Since(start).Seconds())
	}
	log.Info(ctx, "calibration block selected",
		logging.String("code", string(req.Code)),
		logging.String("material", string(part.ID)),
		logging.String("block", result.RecommendedBlock.Type),
		logging.Int("warnings", len(result.Warnings)))
	span.SetAttributes(attribute.String("block", result.RecommendedBlock.Type))

	return result
}

// recommendBlock walks the family checks in their fixed order and falls
// back to the IIW V1 family, which has the widest angle coverage.
func (s *CalibrationBlockSelector) recommendBlock(req model.SelectionRequest, result *model.SelectionResult) model.BlockRecommendation {
	smallPipe := req.PartGeometry == model.GeometryPipe &&
		req.OuterDiameterMm > 0 && req.OuterDiameterMm < smallPipeODThresholdMm

	switch {
	case req.Code == model.CodeEN1714 && (req.PartGeometry == model.GeometryWeld || req.PartGeometry == model.GeometryPlate):
		return s.recommendation(kb.TemplateIIWV1)

	case smallPipe:
		result.CalibrationNotes = append(result.CalibrationNotes,
			fmt.Sprintf("Small diameter pipe (%.0f mm OD): use a curved calibration block matching the part radius.", req.OuterDiameterMm))
		id := kb.TemplateRingSegmentASTM
		if req.Code == model.CodeEN1714 || req.Code == model.CodeENISO10893 {
			id = kb.TemplateRingSegmentEN
		}
		return s.recommendation(id)

	case req.Code == model.CodeASME:
		return s.recommendation(kb.TemplateASMEBasic)

	case req.Code == model.CodeAWS:
		return s.recommendation(kb.TemplateDSC)

	default:
		result.CalibrationNotes = append(result.CalibrationNotes,
			"No family-specific block is mandated for this code and geometry; the IIW Type 1 block covers all three angles.")
		return s.recommendation(kb.TemplateIIWV1)
	}
}

func (s *CalibrationBlockSelector) recommendation(templateID string) model.BlockRecommendation {
	rec := model.BlockRecommendation{Type: templateID, TemplateID: templateID}
	if tmpl, err := s.Catalog.Template(templateID); err == nil {
		rec.Name = tmpl.Name
		rec.StandardReference = tmpl.StandardReference
	}
	return rec
}

// appendAdvisories raises the non-fatal warnings of the decision procedure.
func (s *CalibrationBlockSelector) appendAdvisories(req model.SelectionRequest, result *model.SelectionResult) {
	warn := func(w model.ValidationWarning) {
		result.Warnings = append(result.Warnings, w)
	}

	if req.PartThicknessMm < 6 {
		warn(model.ValidationWarning{
			Level:      model.LevelWarning,
			Code:       model.WarnVeryThinMaterial,
			Message:    fmt.Sprintf("Very thin material (%.1f mm): angle-beam calibration is unreliable below 6 mm.", req.PartThicknessMm),
			Suggestion: "consider a notch-based or normal-beam technique",
		})
	}

	if req.PartThicknessMm > 100 {
		for _, angle := range req.BeamAnglesDeg {
			if angle == 70 {
				warn(model.ValidationWarning{
					Level:   model.LevelWarning,
					Code:    model.WarnBeamPathRange,
					Message: fmt.Sprintf("70° beam path may exceed practical range in %.0f mm thickness.", req.PartThicknessMm),
				})
				break
			}
		}
	}

	if req.PartGeometry == model.GeometryPipe && req.OuterDiameterMm > 0 &&
		req.PartThicknessMm/req.OuterDiameterMm > 0.25 {
		warn(model.ValidationWarning{
			Level:   model.LevelWarning,
			Code:    model.WarnCurvatureCorrection,
			Message: fmt.Sprintf("Curvature correction required: wall/OD ratio %.2f exceeds 0.25.", req.PartThicknessMm/req.OuterDiameterMm),
		})
	}
}

// skipSummary builds the always-present note listing the full skip
// distance per requested angle.
func skipSummary(angles []float64, paths map[float64]model.BeamPathResult) string {
	sorted := append([]float64(nil), angles...)
	sort.Float64s(sorted)

	parts := make([]string, 0, len(sorted))
	for _, a := range sorted {
		parts = append(parts, fmt.Sprintf("%g°: %.1f mm", a, paths[a].SkipDistanceMm))
	}
	return "Skip distances: " + strings.Join(parts, ", ") + "."
}
