package model

// InspectionCode identifies the governing inspection standard.
type InspectionCode string

const (
	CodeAWS        InspectionCode = "aws"
	CodeASME       InspectionCode = "asme"
	CodeEN1714     InspectionCode = "en1714" // EN 1714 / ISO 17640
	CodeMILSTD2154 InspectionCode = "mil_std_2154"
	CodeENISO10893 InspectionCode = "en_iso_10893"
	CodeAPI        InspectionCode = "api"
)

// PartGeometry classifies the inspected part's shape.
type PartGeometry string

const (
	GeometryPlate   PartGeometry = "plate"
	GeometryWeld    PartGeometry = "weld"
	GeometryPipe    PartGeometry = "pipe"
	GeometryForging PartGeometry = "forging"
	GeometryCasting PartGeometry = "casting"
)

// NotchLocation states which surface(s) carry a reference notch.
type NotchLocation string

const (
	NotchOD   NotchLocation = "od"
	NotchID   NotchLocation = "id"
	NotchBoth NotchLocation = "both"
)

// SDHSpec is a side-drilled-hole sizing result.
type SDHSpec struct {
	DiameterMm float64 `json:"diameter_mm"`
}

// NotchSpec is a reference-notch sizing result. DepthPercent is set when
// the governing rule is a percentage of wall thickness.
type NotchSpec struct {
	DepthMm      float64       `json:"depth_mm"`
	DepthPercent float64       `json:"depth_percent,omitempty"`
	Location     NotchLocation `json:"location"`
}

// SelectionRequest is the full input to the calibration block selector,
// as collected by the UI or a batch caller.
type SelectionRequest struct {
	PartThicknessMm float64        `json:"part_thickness_mm"`
	PartMaterial    string         `json:"part_material"`
	BeamAnglesDeg   []float64      `json:"beam_angles_deg"`
	PartGeometry    PartGeometry   `json:"part_geometry"`
	OuterDiameterMm float64        `json:"outer_diameter_mm,omitempty"`
	Code            InspectionCode `json:"code"`
	// WedgeMaterial defaults to perspex when empty.
	WedgeMaterial string `json:"wedge_material,omitempty"`
}

// BeamPathResult is the skip-distance geometry for one refracted angle in
// a wall of a given thickness. Optional fields are populated only when the
// computation targeted a specific depth.
type BeamPathResult struct {
	HalfSkipMm        float64  `json:"half_skip_mm"`
	SkipDistanceMm    float64  `json:"skip_distance_mm"`
	SoundPathMm       float64  `json:"sound_path_mm"`
	LegNumber         int      `json:"leg_number"`
	DepthAtLegMm      *float64 `json:"depth_at_leg_mm,omitempty"`
	SurfaceDistanceMm *float64 `json:"surface_distance_mm,omitempty"`
}

// BlockRecommendation names the chosen calibration block family.
type BlockRecommendation struct {
	Type              string `json:"type"`
	TemplateID        string `json:"template_id"`
	Name              string `json:"name"`
	StandardReference string `json:"standard_reference"`
}

// SelectionResult aggregates everything the selector derives for a part.
type SelectionResult struct {
	RecommendedBlock  BlockRecommendation          `json:"recommended_block"`
	SDHSize           SDHSpec                      `json:"sdh_size"`
	NotchSpec         *NotchSpec                   `json:"notch_spec,omitempty"`
	CriticalAngles    *CriticalAngles              `json:"critical_angles,omitempty"`
	BeamPathData      map[float64]BeamPathResult   `json:"beam_path_data"`
	WedgeRequirements map[float64]WedgeRequirement `json:"wedge_requirements"`
	Warnings          []ValidationWarning          `json:"warnings"`
	CalibrationNotes  []string                     `json:"calibration_notes"`
}
