package core

import (
	"github.com/scanmasterndt/calibration-engine/kb"
	"github.com/scanmasterndt/calibration-engine/model"
)

// frequencyBandBoundaryMm is the thickness above which the lower probe
// frequency is preferred: thick sections attenuate high frequencies.
const frequencyBandBoundaryMm = 50.0

// FrequencyForThickness picks the probe frequency band for a wall
// thickness: 2 MHz above the band boundary, 4 MHz otherwise.
func FrequencyForThickness(thicknessMm float64) float64 {
	if thicknessMm > frequencyBandBoundaryMm {
		return 2
	}
	return 4
}

// WedgeRequirement selects the standard wedge for a target refracted angle
// and part thickness: thickness-banded frequency plus the composed wedge
// id. When the catalog carries a matching stock wedge its id is used;
// otherwise the id is composed directly so the result is still actionable.
func WedgeRequirement(catalog *kb.Catalog, targetAngleDeg, thicknessMm float64) model.WedgeRequirement {
	freq := FrequencyForThickness(thicknessMm)

	id := model.StandardWedgeID(targetAngleDeg, freq)
	if catalog != nil {
		if w := catalog.FindWedge(targetAngleDeg, freq); w != nil {
			id = w.ID
		}
	}

	return model.WedgeRequirement{
		FrequencyMHz:  freq,
		StandardWedge: id,
	}
}
