package model

// StandardFamily groups block templates by the standards body whose
// minimum-reflector rules apply during thin-wall resolution.
type StandardFamily string

const (
	FamilyEN   StandardFamily = "EN"
	FamilyASTM StandardFamily = "ASTM"
	FamilyASME StandardFamily = "ASME"
	FamilyAWS  StandardFamily = "AWS"
)

// ReflectorType distinguishes the two supported machined reflectors.
type ReflectorType string

const (
	ReflectorSDH ReflectorType = "SDH" // side-drilled hole
	ReflectorFBH ReflectorType = "FBH" // flat-bottom hole
)

// DepthDefinition states which surface a hole depth is measured from.
type DepthDefinition string

const (
	DepthFromOD DepthDefinition = "from_od" // radial depth below the outer surface
	DepthFromID DepthDefinition = "from_id" // radial height above the inner surface
)

// AxialOrigin states where axial positions are measured from.
type AxialOrigin string

const (
	AxialOriginEdge   AxialOrigin = "edge"
	AxialOriginCenter AxialOrigin = "center"
)

// BlockKind separates flat reference blocks from curved ring segments.
// Only ring-segment templates go through the RingSegmentResolver.
type BlockKind string

const (
	KindFlat        BlockKind = "flat"
	KindRingSegment BlockKind = "ring_segment"
)

// FlatBlockGeometry is the envelope of a flat reference block.
type FlatBlockGeometry struct {
	LengthMm float64 `json:"length_mm"`
	WidthMm  float64 `json:"width_mm"`
	HeightMm float64 `json:"height_mm"`
}

// RingSegmentGeometry is the parametric envelope of a curved block.
// Invariant: OuterDiameterMm > InnerDiameterMm > 0.
type RingSegmentGeometry struct {
	OuterDiameterMm  float64 `json:"outer_diameter_mm"`
	InnerDiameterMm  float64 `json:"inner_diameter_mm"`
	AxialWidthMm     float64 `json:"axial_width_mm"`
	SegmentAngleDeg  float64 `json:"segment_angle_deg"`
	EdgeMarginMm     float64 `json:"edge_margin_mm"`
	MinHoleSpacingMm float64 `json:"min_hole_spacing_mm"`
}

// CalculatedGeometry holds quantities derived from a RingSegmentGeometry.
type CalculatedGeometry struct {
	WallThicknessMm float64 `json:"wall_thickness_mm"`
	MeanRadiusMm    float64 `json:"mean_radius_mm"`
	OuterRadiusMm   float64 `json:"outer_radius_mm"`
	InnerRadiusMm   float64 `json:"inner_radius_mm"`
	ArcLengthMm     float64 `json:"arc_length_mm"`
}

// CurvedHolePosition locates a hole on the segment; the matching
// HoleFeature (same Label) says what kind of reflector sits there.
type CurvedHolePosition struct {
	Label           string          `json:"label"`
	AngleOnArcDeg   float64         `json:"angle_on_arc_deg"`
	AxialPositionMm float64         `json:"axial_position_mm"`
	DepthDefinition DepthDefinition `json:"depth_definition"`
}

// HoleFeature describes the reflector machined at a labelled position.
type HoleFeature struct {
	Label         string        `json:"label"`
	ReflectorType ReflectorType `json:"reflector_type"`
	DiameterMm    float64       `json:"diameter_mm"`
	DepthMm       float64       `json:"depth_mm"`
}

// BlockTemplate is a static catalog entry: a parametric definition of a
// standard calibration block family. Templates are loaded once at process
// start and never mutated.
type BlockTemplate struct {
	ID                string               `json:"id"`
	Name              string               `json:"name"`
	StandardReference string               `json:"standard_reference"`
	StandardFamily    StandardFamily       `json:"standard_family"`
	Kind              BlockKind            `json:"kind"`
	Flat              *FlatBlockGeometry   `json:"flat,omitempty"`
	Geometry          RingSegmentGeometry  `json:"geometry"`
	HolePositions     []CurvedHolePosition `json:"hole_positions"`
	HoleFeatures      []HoleFeature        `json:"hole_features"`
	AxialOrigin       AxialOrigin          `json:"axial_origin"`
	Notes             []string             `json:"notes,omitempty"`
}

// PartDimensionsOverride replaces selected template dimensions with the
// inspected part's own. Nil fields keep the template value.
type PartDimensionsOverride struct {
	OuterDiameterMm *float64 `json:"outer_diameter_mm,omitempty"`
	InnerDiameterMm *float64 `json:"inner_diameter_mm,omitempty"`
	AxialWidthMm    *float64 `json:"axial_width_mm,omitempty"`
	SegmentAngleDeg *float64 `json:"segment_angle_deg,omitempty"`
}

// MinimumReflectors is the code-mandated minimum reflector count per
// standard family.
type MinimumReflectors struct {
	EN   int `json:"en" yaml:"en"`
	ASTM int `json:"astm" yaml:"astm"`
}

// ThinWallPolicy governs how reflector depths are reconciled with a wall
// too thin to host them. It is configuration, not state; the yaml tags
// exist because the cmd tools accept a policy override in their config.
type ThinWallPolicy struct {
	SafetyMarginMm      float64           `json:"safety_margin_mm" yaml:"safety_margin_mm"`
	MinimumReflectors   MinimumReflectors `json:"minimum_reflectors" yaml:"minimum_reflectors"`
	FallbackDepthRatios []float64         `json:"fallback_depth_ratios" yaml:"fallback_depth_ratios"`
}

// DefaultThinWallPolicy is used whenever a resolve request does not carry
// its own policy.
var DefaultThinWallPolicy = ThinWallPolicy{
	SafetyMarginMm:      2.0,
	MinimumReflectors:   MinimumReflectors{EN: 3, ASTM: 2},
	FallbackDepthRatios: []float64{0.25, 0.5, 0.75},
}

// Minimum returns the mandated reflector count for a template's family.
// Families without an explicit rule inherit the ASTM minimum.
func (p ThinWallPolicy) Minimum(family StandardFamily) int {
	if family == FamilyEN {
		return p.MinimumReflectors.EN
	}
	return p.MinimumReflectors.ASTM
}

// Vec3 is a point in block coordinates, millimetres. The segment arc lies
// in the XY plane; Z runs along the block axis.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Point2 is a 2-D projected position for a drawing view, millimetres.
type Point2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ResolvedHole is a hole position and feature merged against the resolved
// geometry. Created once per resolve and immutable afterwards.
type ResolvedHole struct {
	Label           string        `json:"label"`
	ReflectorType   ReflectorType `json:"reflector_type"`
	DiameterMm      float64       `json:"diameter_mm"`
	DepthMm         float64       `json:"depth_mm"`
	OriginalDepthMm float64       `json:"original_depth_mm"`
	WasAdjusted     bool          `json:"was_adjusted"`
	AngleOnArcDeg   float64       `json:"angle_on_arc_deg"`
	AxialPositionMm float64       `json:"axial_position_mm"`

	Cartesian           Vec3   `json:"cartesian"`
	TopViewPosition     Point2 `json:"top_view_position"`
	SectionViewPosition Point2 `json:"section_view_position"`
}

// GeometryValidationResult reports structural validity of the merged
// template/override geometry.
type GeometryValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors,omitempty"`
}

// ResolvedRingSegmentBlock is the resolver's output: fully dimensioned
// geometry plus final hole coordinates. The rendering layer draws this
// as-is and re-derives nothing.
type ResolvedRingSegmentBlock struct {
	TemplateID         string                   `json:"template_id"`
	Geometry           RingSegmentGeometry      `json:"geometry"`
	CalculatedGeometry CalculatedGeometry       `json:"calculated_geometry"`
	GeometryValidation GeometryValidationResult `json:"geometry_validation"`
	Holes              []ResolvedHole           `json:"holes"`
	Warnings           []ValidationWarning      `json:"warnings"`
	IsCompliant        bool                     `json:"is_compliant"`
	AxialOrigin        AxialOrigin              `json:"axial_origin"`
}
