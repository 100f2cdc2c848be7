package model

// MaterialID is the canonical identifier of a cataloged material.
// Caller-supplied names and trade aliases are normalised to one of these
// by the catalog's fuzzy resolver.
type MaterialID string

const (
	MaterialCarbonSteel       MaterialID = "carbon_steel"
	MaterialStainlessSteel304 MaterialID = "stainless_steel_304"
	MaterialAluminum          MaterialID = "aluminum"
	MaterialTitanium6Al4V     MaterialID = "titanium_6al4v"
	MaterialCopper            MaterialID = "copper"
	MaterialInconel625        MaterialID = "inconel_625"
	MaterialPerspex           MaterialID = "perspex"
	MaterialRexolite          MaterialID = "rexolite"
)

// MaterialAcousticProperties holds the per-material constants used by the
// refraction and beam-path models. Velocities are in m/s, density in kg/m³,
// impedance in MRayl. Entries are immutable once cataloged; for every valid
// entry LongitudinalVelocityMS > ShearVelocityMS.
type MaterialAcousticProperties struct {
	ID                     MaterialID `json:"id"`
	LongitudinalVelocityMS float64    `json:"longitudinal_velocity_ms"`
	ShearVelocityMS        float64    `json:"shear_velocity_ms"`
	DensityKgM3            float64    `json:"density_kg_m3"`
	AcousticImpedanceMRayl float64    `json:"acoustic_impedance_mrayl"`
}

// WaveMode selects which bulk wave mode a computation refers to.
type WaveMode string

const (
	ModeShear        WaveMode = "shear"
	ModeLongitudinal WaveMode = "longitudinal"
)

// Velocity returns the velocity for the requested wave mode.
func (m MaterialAcousticProperties) Velocity(mode WaveMode) float64 {
	if mode == ModeLongitudinal {
		return m.LongitudinalVelocityMS
	}
	return m.ShearVelocityMS
}
