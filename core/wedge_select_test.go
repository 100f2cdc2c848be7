package core

import (
	"testing"

	"github.com/scanmasterndt/calibration-engine/kb"
)

func TestFrequencyForThickness_Bands(t *testing.T) {
	cases := []struct {
		thickness float64
		want      float64
	}{
		{10, 4},
		{50, 4}, // boundary stays in the high band
		{50.1, 2},
		{120, 2},
	}

	for _, c := range cases {
		if got := FrequencyForThickness(c.thickness); got != c.want {
			t.Errorf("FrequencyForThickness(%v) = %v, want %v", c.thickness, got, c.want)
		}
	}
}

func TestWedgeRequirement_UsesCatalogWedge(t *testing.T) {
	catalog := kb.DefaultCatalog()

	got := WedgeRequirement(catalog, 60, 25)
	if got.FrequencyMHz != 4 {
		t.Errorf("frequency = %v, want 4", got.FrequencyMHz)
	}
	if got.StandardWedge != "SW-60-4MHZ" {
		t.Errorf("standard wedge = %q, want SW-60-4MHZ", got.StandardWedge)
	}
}

func TestWedgeRequirement_ComposesIDWithoutCatalog(t *testing.T) {
	got := WedgeRequirement(nil, 70, 80)
	if got.FrequencyMHz != 2 {
		t.Errorf("frequency = %v, want 2", got.FrequencyMHz)
	}
	if got.StandardWedge != "SW-70-2MHZ" {
		t.Errorf("standard wedge = %q, want SW-70-2MHZ", got.StandardWedge)
	}
}
