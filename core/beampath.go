package core

import (
	"math"

	"github.com/scanmasterndt/calibration-engine/model"
)

// BeamPath computes the skip geometry for an angle beam in a wall of the
// given thickness with no particular target: half-skip and full-skip
// surface distances plus the one-leg sound path.
func BeamPath(thicknessMm, refractedAngleDeg float64) model.BeamPathResult {
	rad := DegToRad(refractedAngleDeg)
	halfSkip := thicknessMm * math.Tan(rad)
	return model.BeamPathResult{
		HalfSkipMm:     halfSkip,
		SkipDistanceMm: 2 * halfSkip,
		SoundPathMm:    thicknessMm / math.Cos(rad),
		LegNumber:      1,
	}
}

// BeamPathToDepth computes the skip geometry needed to place the beam at a
// cumulative target depth, folding the zig-zag: on odd legs the beam runs
// from the entry surface toward the far wall, on even legs it has reflected
// and runs back. DepthAtLegMm is the folded depth inside the wall,
// SurfaceDistanceMm the total surface distance to the hit point, and
// SoundPathMm the hit leg's own path length.
func BeamPathToDepth(thicknessMm, refractedAngleDeg, targetDepthMm float64) model.BeamPathResult {
	out := BeamPath(thicknessMm, refractedAngleDeg)
	if thicknessMm <= 0 || targetDepthMm < 0 {
		return out
	}

	rad := DegToRad(refractedAngleDeg)
	leg := 1 + int(math.Floor(targetDepthMm/thicknessMm))
	remaining := targetDepthMm - float64(leg-1)*thicknessMm

	depth := remaining
	if leg%2 == 0 {
		depth = thicknessMm - remaining
	}

	surface := targetDepthMm * math.Tan(rad)

	out.LegNumber = leg
	out.SoundPathMm = depth / math.Cos(rad)
	out.DepthAtLegMm = &depth
	out.SurfaceDistanceMm = &surface
	return out
}

// DepthFromSurfaceDistance is the inverse transform: given where the beam
// meets the surface projection, recover the folded depth and the leg the
// beam is on. It is the exact inverse of BeamPathToDepth's surface
// distance: applying one after the other recovers the folded depth up to
// numeric tolerance on every leg.
func DepthFromSurfaceDistance(surfaceDistanceMm, refractedAngleDeg, thicknessMm float64) (depthMm float64, legNumber int) {
	rad := DegToRad(refractedAngleDeg)
	tan := math.Tan(rad)
	halfSkip := thicknessMm * tan
	if halfSkip <= 0 || surfaceDistanceMm < 0 {
		return 0, 1
	}

	legs := int(math.Floor(surfaceDistanceMm / halfSkip))
	remainder := math.Mod(surfaceDistanceMm, halfSkip)
	remainderDepth := remainder / tan

	depth := remainderDepth
	if legs%2 == 1 {
		// Even-numbered leg: the beam has reflected off the far wall and
		// depth decreases as surface distance grows.
		depth = thicknessMm - remainderDepth
	}
	return depth, legs + 1
}
