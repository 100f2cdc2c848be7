package model

// WarningLevel grades a validation warning. Only LevelError affects
// compliance; info and warning entries are advisory.
type WarningLevel string

const (
	LevelInfo    WarningLevel = "info"
	LevelWarning WarningLevel = "warning"
	LevelError   WarningLevel = "error"
)

// Warning codes form a closed set so downstream consumers can switch on
// them without string matching the message text.
const (
	WarnThinWallDepthAdjusted    = "THIN_WALL_DEPTH_ADJUSTED"
	WarnThinWallReflectorRemoved = "THIN_WALL_REFLECTOR_REMOVED"
	WarnThinWallFallbackApplied  = "THIN_WALL_FALLBACK_APPLIED"
	WarnComplianceTooThin        = "COMPLIANCE_ERROR_TOO_THIN"
	WarnMinimumReflectorsNotMet  = "MINIMUM_REFLECTORS_NOT_MET"
	WarnHoleOutsideMargins       = "HOLE_OUTSIDE_MARGINS"
	WarnHoleSpacingTooSmall      = "HOLE_SPACING_TOO_SMALL"
	WarnGeometryInvalid          = "GEOMETRY_INVALID"
	WarnVeryThinMaterial         = "VERY_THIN_MATERIAL"
	WarnBeamPathRange            = "BEAM_PATH_RANGE"
	WarnCurvatureCorrection      = "CURVATURE_CORRECTION_REQUIRED"
)

// ValidationWarning is a non-fatal deviation reported inside a result.
// Processing always continues after appending one.
type ValidationWarning struct {
	Level      WarningLevel `json:"level"`
	Code       string       `json:"code"`
	Message    string       `json:"message"`
	Suggestion string       `json:"suggestion,omitempty"`
}

// HasError reports whether any warning in the slice is error-level.
func HasError(warnings []ValidationWarning) bool {
	for _, w := range warnings {
		if w.Level == LevelError {
			return true
		}
	}
	return false
}
