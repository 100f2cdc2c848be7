package core

import (
	"strings"
	"testing"

	"github.com/scanmasterndt/calibration-engine/kb"
)

func TestLoadCatalogOverlay_PopulatesCatalog(t *testing.T) {
	jsonData := `
{
  "materials": [
    {
      "id": "monel_400",
      "longitudinal_velocity_ms": 5350,
      "shear_velocity_ms": 2720,
      "density_kg_m3": 8800,
      "acoustic_impedance_mrayl": 47.1
    }
  ],
  "aliases": {
    "monel": "monel_400"
  },
  "wedges": [
    {
      "id": "SW-45-5MHZ",
      "refracted_angle_deg": 45,
      "frequency_mhz": 5,
      "material": "perspex"
    }
  ],
  "templates": [
    {
      "id": "custom_segment",
      "name": "Customer ring segment",
      "standard_family": "ASTM",
      "kind": "ring_segment",
      "geometry": {
        "outer_diameter_mm": 100,
        "inner_diameter_mm": 80,
        "axial_width_mm": 25,
        "segment_angle_deg": 90,
        "edge_margin_mm": 5,
        "min_hole_spacing_mm": 10
      },
      "axial_origin": "edge",
      "hole_positions": [
        {"label": "A", "angle_on_arc_deg": 45, "axial_position_mm": 12, "depth_definition": "from_od"}
      ],
      "hole_features": [
        {"label": "A", "reflector_type": "SDH", "diameter_mm": 2.0, "depth_mm": 5}
      ]
    }
  ]
}
`

	catalog := kb.DefaultCatalog()
	overlay, err := LoadCatalogOverlay(catalog, strings.NewReader(jsonData))
	if err != nil {
		t.Fatalf("LoadCatalogOverlay returned error: %v", err)
	}

	if len(overlay.MaterialIDs) != 1 || overlay.MaterialIDs[0] != "monel_400" {
		t.Errorf("overlay materials = %v, want [monel_400]", overlay.MaterialIDs)
	}
	if len(overlay.WedgeIDs) != 1 || len(overlay.TemplateIDs) != 1 {
		t.Errorf("overlay summary = %+v, want 1 wedge and 1 template", overlay)
	}

	m := catalog.Resolve("monel")
	if m.ID != "monel_400" {
		t.Errorf("Resolve(monel) = %q, want monel_400", m.ID)
	}
	if w := catalog.FindWedge(45, 5); w == nil {
		t.Errorf("expected the overlay wedge SW-45-5MHZ to be cataloged")
	}
	if _, err := catalog.Template("custom_segment"); err != nil {
		t.Errorf("Template(custom_segment) returned error: %v", err)
	}
}

func TestLoadCatalogOverlay_BadJSON(t *testing.T) {
	catalog := kb.DefaultCatalog()
	if _, err := LoadCatalogOverlay(catalog, strings.NewReader("{not json")); err == nil {
		t.Fatalf("expected a decode error")
	}
}

func TestLoadCatalogOverlay_RejectsDuplicateMaterial(t *testing.T) {
	catalog := kb.DefaultCatalog()
	jsonData := `{"materials": [{"id": "carbon_steel", "longitudinal_velocity_ms": 5920, "shear_velocity_ms": 3250}]}`

	if _, err := LoadCatalogOverlay(catalog, strings.NewReader(jsonData)); err == nil {
		t.Fatalf("expected a duplicate-material error")
	}
}

func TestLoadCatalogOverlay_NilCatalog(t *testing.T) {
	if _, err := LoadCatalogOverlay(nil, strings.NewReader("{}")); err == nil {
		t.Fatalf("expected an error for a nil catalog")
	}
}
