package core

import "github.com/scanmasterndt/calibration-engine/model"

// sdhTier is one step of a code's SDH diameter function. A thickness t
// falls into the first tier with t <= UpToMm; boundaries belong to the
// lower tier.
type sdhTier struct {
	UpToMm     float64
	DiameterMm float64
}

// Per-code SDH diameter tiers. The final tier of each table carries the
// open upper bound. AWS is a constant 1.5 mm at every thickness.
var sdhTiers = map[model.InspectionCode][]sdhTier{
	model.CodeASME: {
		{UpToMm: 25, DiameterMm: 1.5},
		{UpToMm: 50, DiameterMm: 2.4},
		{DiameterMm: 3.0},
	},
	model.CodeEN1714: {
		{UpToMm: 15, DiameterMm: 1.5},
		{UpToMm: 40, DiameterMm: 2.0},
		{UpToMm: 60, DiameterMm: 2.5},
		{DiameterMm: 3.0},
	},
	model.CodeMILSTD2154: {
		{UpToMm: 25, DiameterMm: 1.2},
		{UpToMm: 50, DiameterMm: 2.0},
		{DiameterMm: 2.8},
	},
	model.CodeENISO10893: {
		{DiameterMm: 1.6},
	},
	model.CodeAPI: {
		{DiameterMm: 1.6},
	},
}

// SDHSize returns the side-drilled-hole diameter mandated by the code for
// the given wall thickness. Unrecognised codes use the EN1714 tiers.
func SDHSize(thicknessMm float64, code model.InspectionCode) model.SDHSpec {
	if code == model.CodeAWS {
		return model.SDHSpec{DiameterMm: 1.5}
	}

	tiers, ok := sdhTiers[code]
	if !ok {
		tiers = sdhTiers[model.CodeEN1714]
	}
	for _, tier := range tiers[:len(tiers)-1] {
		if thicknessMm <= tier.UpToMm {
			return model.SDHSpec{DiameterMm: tier.DiameterMm}
		}
	}
	return model.SDHSpec{DiameterMm: tiers[len(tiers)-1].DiameterMm}
}

// notchRule captures one code's reference-notch sizing: either a fixed
// absolute depth, or a percentage of wall with an absolute floor.
type notchRule struct {
	FixedDepthMm float64
	DepthPercent float64
	MinDepthMm   float64
	Location     model.NotchLocation
}

var notchRules = map[model.InspectionCode]notchRule{
	model.CodeAWS:        {FixedDepthMm: 2.0, Location: model.NotchOD},
	model.CodeASME:       {DepthPercent: 10, MinDepthMm: 1.0, Location: model.NotchBoth},
	model.CodeEN1714:     {DepthPercent: 5, MinDepthMm: 0.5, Location: model.NotchBoth},
	model.CodeMILSTD2154: {DepthPercent: 3, MinDepthMm: 0.25, Location: model.NotchOD},
	model.CodeENISO10893: {DepthPercent: 5, MinDepthMm: 0.3, Location: model.NotchBoth},
	model.CodeAPI:        {DepthPercent: 12.5, MinDepthMm: 0.3, Location: model.NotchBoth},
}

// NotchRule returns the reference-notch depth and location for the code at
// the given wall thickness. Percentage rules report the percentage applied
// and respect the code's absolute floor; unrecognised codes use the EN1714
// rule.
func NotchRule(thicknessMm float64, code model.InspectionCode) model.NotchSpec {
	rule, ok := notchRules[code]
	if !ok {
		rule = notchRules[model.CodeEN1714]
	}

	if rule.FixedDepthMm > 0 {
		return model.NotchSpec{DepthMm: rule.FixedDepthMm, Location: rule.Location}
	}

	depth := thicknessMm * rule.DepthPercent / 100.0
	if depth < rule.MinDepthMm {
		depth = rule.MinDepthMm
	}
	return model.NotchSpec{
		DepthMm:      depth,
		DepthPercent: rule.DepthPercent,
		Location:     rule.Location,
	}
}
