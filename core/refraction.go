package core

import (
	"math"

	"github.com/scanmasterndt/calibration-engine/kb"
	"github.com/scanmasterndt/calibration-engine/model"
)

// RefractedAngle applies Snell's law: sin(refracted) = (v2/v1)·sin(incident).
// The boolean is false when the sine argument exceeds 1, i.e. the incident
// angle is beyond the critical angle and the refracted wave does not exist.
// That is an expected physical outcome, not an error.
func RefractedAngle(incidentDeg, v1, v2 float64) (float64, bool) {
	if v1 <= 0 || v2 <= 0 {
		return 0, false
	}
	s := (v2 / v1) * math.Sin(DegToRad(incidentDeg))
	if s > 1 || s < -1 {
		return 0, false
	}
	return RadToDeg(math.Asin(s)), true
}

// Refraction answers material-pair questions against the catalog. Material
// ids must be canonical; unknown ids make the computation meaningless and
// yield a not-ok result rather than a fallback.
type Refraction struct {
	Materials *kb.Catalog
}

// WedgeAngle is the inverse Snell solve: the incident angle to cut into the
// wedge so the part sees the target refracted angle in the given wave mode.
// sin(wedge) = (v_wedge_long/v_part_mode)·sin(target).
func (r Refraction) WedgeAngle(targetRefractedDeg float64, wedgeMaterial, partMaterial model.MaterialID, mode model.WaveMode) (float64, bool) {
	wedge, ok := r.Materials.Get(wedgeMaterial)
	if !ok {
		return 0, false
	}
	part, ok := r.Materials.Get(partMaterial)
	if !ok {
		return 0, false
	}

	vPart := part.Velocity(mode)
	if vPart <= 0 {
		return 0, false
	}
	s := (wedge.LongitudinalVelocityMS / vPart) * math.Sin(DegToRad(targetRefractedDeg))
	if s > 1 || s < -1 {
		return 0, false
	}
	return RadToDeg(math.Asin(s)), true
}

// CriticalAngles computes the two critical incident angles for a wedge/part
// pair: the first is the longitudinal cutoff (mode conversion onset), the
// second the shear cutoff (total reflection). A nil result means one of the
// material ids is unknown; a nil field means that critical angle does not
// exist because the wedge is already slower than that mode in the part.
func (r Refraction) CriticalAngles(wedgeMaterial, partMaterial model.MaterialID) *model.CriticalAngles {
	wedge, ok := r.Materials.Get(wedgeMaterial)
	if !ok {
		return nil
	}
	part, ok := r.Materials.Get(partMaterial)
	if !ok {
		return nil
	}

	out := &model.CriticalAngles{}
	if ratio := wedge.LongitudinalVelocityMS / part.LongitudinalVelocityMS; ratio <= 1 {
		deg := RadToDeg(math.Asin(ratio))
		out.FirstCriticalDeg = &deg
	}
	if ratio := wedge.LongitudinalVelocityMS / part.ShearVelocityMS; ratio <= 1 {
		deg := RadToDeg(math.Asin(ratio))
		out.SecondCriticalDeg = &deg
	}
	return out
}
