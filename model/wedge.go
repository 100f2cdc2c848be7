package model

import "fmt"

// StandardWedgeID composes the catalog id of a stock wedge from its
// refracted angle and frequency, e.g. "SW-60-4MHZ".
func StandardWedgeID(angleDeg, frequencyMHz float64) string {
	return fmt.Sprintf("SW-%g-%gMHZ", angleDeg, frequencyMHz)
}

// Wedge is a standard angled coupling shoe. RefractedAngleDeg is the nominal
// refracted angle produced in steel; the catalog only carries the three
// angles used by every supported code.
type Wedge struct {
	ID                string     `json:"id"`
	RefractedAngleDeg float64    `json:"refracted_angle_deg"` // one of 45, 60, 70
	FrequencyMHz      float64    `json:"frequency_mhz"`
	Material          MaterialID `json:"material"`
}

// CriticalAngles are the incident angles (in the wedge material) at which
// longitudinal and shear transmission into the part cut off. A nil pointer
// means that critical angle does not exist for the material pair.
type CriticalAngles struct {
	FirstCriticalDeg  *float64 `json:"first_critical_deg,omitempty"`
	SecondCriticalDeg *float64 `json:"second_critical_deg,omitempty"`
}

// WedgeRequirement is the per-angle probe recommendation emitted by the
// selector: the incident wedge angle to cut (nil when the target refracted
// angle is not achievable in the part material), the frequency band for the
// part thickness, and the composed standard wedge id.
type WedgeRequirement struct {
	WedgeAngleDeg *float64 `json:"wedge_angle_deg,omitempty"`
	FrequencyMHz  float64  `json:"frequency_mhz"`
	StandardWedge string   `json:"standard_wedge"`
}
