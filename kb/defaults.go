package kb

import "github.com/scanmasterndt/calibration-engine/model"

// Standard handbook velocities (m/s), densities (kg/m³), and impedances
// (MRayl). Values are the conventional UT reference figures, not lab
// measurements.
var defaultMaterials = []model.MaterialAcousticProperties{
	{ID: model.MaterialCarbonSteel, LongitudinalVelocityMS: 5920, ShearVelocityMS: 3250, DensityKgM3: 7850, AcousticImpedanceMRayl: 46.5},
	{ID: model.MaterialStainlessSteel304, LongitudinalVelocityMS: 5790, ShearVelocityMS: 3100, DensityKgM3: 8000, AcousticImpedanceMRayl: 46.3},
	{ID: model.MaterialAluminum, LongitudinalVelocityMS: 6320, ShearVelocityMS: 3130, DensityKgM3: 2700, AcousticImpedanceMRayl: 17.1},
	{ID: model.MaterialTitanium6Al4V, LongitudinalVelocityMS: 6100, ShearVelocityMS: 3120, DensityKgM3: 4420, AcousticImpedanceMRayl: 27.0},
	{ID: model.MaterialCopper, LongitudinalVelocityMS: 4660, ShearVelocityMS: 2330, DensityKgM3: 8930, AcousticImpedanceMRayl: 41.6},
	{ID: model.MaterialInconel625, LongitudinalVelocityMS: 5820, ShearVelocityMS: 3020, DensityKgM3: 8440, AcousticImpedanceMRayl: 49.1},
	{ID: model.MaterialPerspex, LongitudinalVelocityMS: 2730, ShearVelocityMS: 1430, DensityKgM3: 1180, AcousticImpedanceMRayl: 3.2},
	{ID: model.MaterialRexolite, LongitudinalVelocityMS: 2340, ShearVelocityMS: 1160, DensityKgM3: 1050, AcousticImpedanceMRayl: 2.5},
}

var defaultAliases = map[string]model.MaterialID{
	"steel":           model.MaterialCarbonSteel,
	"mild steel":      model.MaterialCarbonSteel,
	"cs":              model.MaterialCarbonSteel,
	"a36":             model.MaterialCarbonSteel,
	"stainless":       model.MaterialStainlessSteel304,
	"304":             model.MaterialStainlessSteel304,
	"316":             model.MaterialStainlessSteel304,
	"aluminium":       model.MaterialAluminum,
	"6061":            model.MaterialAluminum,
	"titanium":        model.MaterialTitanium6Al4V,
	"Ti-6Al-4V":       model.MaterialTitanium6Al4V,
	"ti64":            model.MaterialTitanium6Al4V,
	"inconel":         model.MaterialInconel625,
	"acrylic":         model.MaterialPerspex,
	"pmma":            model.MaterialPerspex,
	"plexiglass":      model.MaterialPerspex,
	"cross linked ps": model.MaterialRexolite,
}

// DefaultCatalog builds the full static catalog: materials with aliases,
// the standard wedge set, and the stock block templates. It is intended to
// be called once at process start; the result is then read-only.
func DefaultCatalog() *Catalog {
	c := NewCatalog()

	for _, m := range defaultMaterials {
		if err := c.AddMaterial(m); err != nil {
			panic(err)
		}
	}
	for alias, id := range defaultAliases {
		if err := c.AddAlias(alias, id); err != nil {
			panic(err)
		}
	}

	for _, w := range defaultWedges() {
		if err := c.AddWedge(w); err != nil {
			panic(err)
		}
	}

	for _, t := range defaultTemplates() {
		if err := c.AddTemplate(t); err != nil {
			panic(err)
		}
	}

	return c
}

// defaultWedges enumerates the stock perspex wedge set: the three standard
// refracted angles in the two frequency bands the selector chooses between.
func defaultWedges() []*model.Wedge {
	angles := []float64{45, 60, 70}
	freqs := []float64{2, 4}

	out := make([]*model.Wedge, 0, len(angles)*len(freqs))
	for _, a := range angles {
		for _, f := range freqs {
			out = append(out, &model.Wedge{
				ID:                model.StandardWedgeID(a, f),
				RefractedAngleDeg: a,
				FrequencyMHz:      f,
				Material:          model.MaterialPerspex,
			})
		}
	}
	return out
}
