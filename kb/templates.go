package kb

import "github.com/scanmasterndt/calibration-engine/model"

// Stock template ids referenced by the selector's decision procedure.
const (
	TemplateIIWV1           = "iiw_v1"
	TemplateDSC             = "dsc"
	TemplateASMEBasic       = "asme_basic"
	TemplateRingSegmentEN   = "ring_segment_en"
	TemplateRingSegmentASTM = "ring_segment_astm"
)

// defaultTemplates enumerates the stock block families. Flat blocks carry
// their machined features as notes only; the resolver works on the
// ring-segment templates, whose positions and features pair up by label.
func defaultTemplates() []*model.BlockTemplate {
	return []*model.BlockTemplate{
		{
			ID:                TemplateIIWV1,
			Name:              "IIW Type 1 calibration block",
			StandardReference: "EN ISO 2400",
			StandardFamily:    model.FamilyEN,
			Kind:              model.KindFlat,
			Flat:              &model.FlatBlockGeometry{LengthMm: 300, WidthMm: 100, HeightMm: 25},
			AxialOrigin:       model.AxialOriginEdge,
			Notes: []string{
				"100 mm radius for time-base calibration, 1.5 mm SDH for resolution checks.",
				"Supports 45/60/70 degree angle-beam index and range calibration.",
			},
		},
		{
			ID:                TemplateDSC,
			Name:              "DSC distance and sensitivity block",
			StandardReference: "AWS D1.1",
			StandardFamily:    model.FamilyAWS,
			Kind:              model.KindFlat,
			Flat:              &model.FlatBlockGeometry{LengthMm: 175, WidthMm: 75, HeightMm: 25},
			AxialOrigin:       model.AxialOriginEdge,
			Notes: []string{
				"Combined distance/sensitivity calibration with the 1.5 mm SDH per AWS D1.1.",
			},
		},
		{
			ID:                TemplateASMEBasic,
			Name:              "ASME basic calibration block",
			StandardReference: "ASME V Article 4 T-434",
			StandardFamily:    model.FamilyASME,
			Kind:              model.KindFlat,
			Flat:              &model.FlatBlockGeometry{LengthMm: 300, WidthMm: 150, HeightMm: 75},
			AxialOrigin:       model.AxialOriginEdge,
			Notes: []string{
				"Wide thickness coverage; SDHs at 1/4T, 1/2T and 3/4T for DAC construction.",
				"Usable with all three standard refracted angles.",
			},
		},
		{
			ID:                TemplateRingSegmentEN,
			Name:              "EN curved calibration segment",
			StandardReference: "EN ISO 17640",
			StandardFamily:    model.FamilyEN,
			Kind:              model.KindRingSegment,
			Geometry: model.RingSegmentGeometry{
				OuterDiameterMm:  200,
				InnerDiameterMm:  150,
				AxialWidthMm:     40,
				SegmentAngleDeg:  90,
				EdgeMarginMm:     10,
				MinHoleSpacingMm: 15,
			},
			AxialOrigin: model.AxialOriginEdge,
			HolePositions: []model.CurvedHolePosition{
				{Label: "A", AngleOnArcDeg: 20, AxialPositionMm: 20, DepthDefinition: model.DepthFromOD},
				{Label: "B", AngleOnArcDeg: 45, AxialPositionMm: 20, DepthDefinition: model.DepthFromOD},
				{Label: "C", AngleOnArcDeg: 70, AxialPositionMm: 20, DepthDefinition: model.DepthFromOD},
			},
			HoleFeatures: []model.HoleFeature{
				{Label: "A", ReflectorType: model.ReflectorSDH, DiameterMm: 2.4, DepthMm: 6.25},
				{Label: "B", ReflectorType: model.ReflectorSDH, DiameterMm: 2.4, DepthMm: 12.5},
				{Label: "C", ReflectorType: model.ReflectorSDH, DiameterMm: 2.4, DepthMm: 18.75},
			},
			Notes: []string{
				"SDHs at 1/4, 1/2 and 3/4 of wall thickness for curved-surface DAC.",
			},
		},
		{
			ID:                TemplateRingSegmentASTM,
			Name:              "ASTM curved reference segment",
			StandardReference: "ASTM E428",
			StandardFamily:    model.FamilyASTM,
			Kind:              model.KindRingSegment,
			Geometry: model.RingSegmentGeometry{
				OuterDiameterMm:  150,
				InnerDiameterMm:  120,
				AxialWidthMm:     30,
				SegmentAngleDeg:  120,
				EdgeMarginMm:     8,
				MinHoleSpacingMm: 12,
			},
			AxialOrigin: model.AxialOriginEdge,
			HolePositions: []model.CurvedHolePosition{
				{Label: "A", AngleOnArcDeg: 40, AxialPositionMm: 15, DepthDefinition: model.DepthFromOD},
				{Label: "B", AngleOnArcDeg: 80, AxialPositionMm: 15, DepthDefinition: model.DepthFromOD},
			},
			HoleFeatures: []model.HoleFeature{
				{Label: "A", ReflectorType: model.ReflectorSDH, DiameterMm: 2.0, DepthMm: 5},
				{Label: "B", ReflectorType: model.ReflectorSDH, DiameterMm: 2.0, DepthMm: 10},
			},
		},
	}
}
