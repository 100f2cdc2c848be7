package kb

import (
	"errors"
	"testing"

	"github.com/scanmasterndt/calibration-engine/model"
)

func TestDefaultCatalog_MaterialInvariant(t *testing.T) {
	catalog := DefaultCatalog()

	materials := catalog.ListMaterials()
	if len(materials) != 8 {
		t.Fatalf("expected 8 default materials, got %d", len(materials))
	}
	for _, m := range materials {
		if m.LongitudinalVelocityMS <= m.ShearVelocityMS {
			t.Errorf("%q: longitudinal %v must exceed shear %v", m.ID, m.LongitudinalVelocityMS, m.ShearVelocityMS)
		}
	}
}

func TestResolve_ExactAndAlias(t *testing.T) {
	catalog := DefaultCatalog()

	cases := []struct {
		name string
		want model.MaterialID
	}{
		{"carbon_steel", model.MaterialCarbonSteel},
		{"steel", model.MaterialCarbonSteel},
		{"Mild Steel", model.MaterialCarbonSteel},
		{"A36", model.MaterialCarbonSteel},
		{"stainless", model.MaterialStainlessSteel304},
		{"316", model.MaterialStainlessSteel304},
		{"aluminium", model.MaterialAluminum},
		{"Ti-6Al-4V", model.MaterialTitanium6Al4V},
		{"ti 6al 4v", model.MaterialTitanium6Al4V},
		{"inconel", model.MaterialInconel625},
		{"PMMA", model.MaterialPerspex},
	}

	for _, c := range cases {
		got := catalog.Resolve(c.name)
		if got.ID != c.want {
			t.Errorf("Resolve(%q) = %q, want %q", c.name, got.ID, c.want)
		}
	}
}

func TestResolve_SubstringMatch(t *testing.T) {
	catalog := DefaultCatalog()

	// "304 stainless plate" normalises to "304stainlessplate", which
	// contains the "304" alias.
	got := catalog.Resolve("304 stainless plate")
	if got.ID != model.MaterialStainlessSteel304 {
		t.Errorf("Resolve(304 stainless plate) = %q, want stainless_steel_304", got.ID)
	}
}

func TestResolve_UnknownFallsBackToCarbonSteel(t *testing.T) {
	catalog := DefaultCatalog()

	got := catalog.Resolve("unobtainium")
	if got.ID != model.MaterialCarbonSteel {
		t.Errorf("Resolve(unobtainium) = %q, want carbon_steel fallback", got.ID)
	}
}

func TestGet_IsStrict(t *testing.T) {
	catalog := DefaultCatalog()

	if _, ok := catalog.Get("steel"); ok {
		t.Errorf("Get must not apply aliases")
	}
	if _, ok := catalog.Get(model.MaterialCopper); !ok {
		t.Errorf("Get(copper) should succeed")
	}
}

func TestAddMaterial_RejectsBadEntries(t *testing.T) {
	catalog := NewCatalog()

	cases := []model.MaterialAcousticProperties{
		{},
		{ID: "x", LongitudinalVelocityMS: 0, ShearVelocityMS: 1000},
		{ID: "x", LongitudinalVelocityMS: 1000, ShearVelocityMS: 2000},
	}
	for _, m := range cases {
		if err := catalog.AddMaterial(m); !errors.Is(err, ErrBadEntry) {
			t.Errorf("AddMaterial(%+v) error = %v, want ErrBadEntry", m, err)
		}
	}

	ok := model.MaterialAcousticProperties{ID: "x", LongitudinalVelocityMS: 2000, ShearVelocityMS: 1000}
	if err := catalog.AddMaterial(ok); err != nil {
		t.Fatalf("AddMaterial: %v", err)
	}
	if err := catalog.AddMaterial(ok); !errors.Is(err, ErrMaterialExists) {
		t.Errorf("duplicate AddMaterial error = %v, want ErrMaterialExists", err)
	}
}

func TestAddAlias_RequiresKnownMaterial(t *testing.T) {
	catalog := NewCatalog()
	if err := catalog.AddAlias("mystery", "ghost"); !errors.Is(err, ErrBadEntry) {
		t.Errorf("alias to unknown material error = %v, want ErrBadEntry", err)
	}
}

func TestAddWedge_AngleWhitelist(t *testing.T) {
	catalog := NewCatalog()

	bad := &model.Wedge{ID: "SW-50-4MHZ", RefractedAngleDeg: 50, FrequencyMHz: 4, Material: model.MaterialPerspex}
	if err := catalog.AddWedge(bad); !errors.Is(err, ErrBadEntry) {
		t.Errorf("AddWedge(50 deg) error = %v, want ErrBadEntry", err)
	}

	good := &model.Wedge{ID: "SW-60-4MHZ", RefractedAngleDeg: 60, FrequencyMHz: 4, Material: model.MaterialPerspex}
	if err := catalog.AddWedge(good); err != nil {
		t.Fatalf("AddWedge: %v", err)
	}
	if err := catalog.AddWedge(good); !errors.Is(err, ErrWedgeExists) {
		t.Errorf("duplicate AddWedge error = %v, want ErrWedgeExists", err)
	}
}

func TestFindWedge(t *testing.T) {
	catalog := DefaultCatalog()

	if w := catalog.FindWedge(60, 4); w == nil || w.ID != "SW-60-4MHZ" {
		t.Errorf("FindWedge(60, 4) = %v, want SW-60-4MHZ", w)
	}
	if w := catalog.FindWedge(60, 10); w != nil {
		t.Errorf("FindWedge(60, 10) = %v, want nil", w)
	}
}

func TestDefaultCatalog_WedgeSet(t *testing.T) {
	catalog := DefaultCatalog()
	if got := len(catalog.ListWedges()); got != 6 {
		t.Errorf("expected 6 stock wedges, got %d", got)
	}
}

func TestAddTemplate_Validation(t *testing.T) {
	catalog := NewCatalog()

	badRing := &model.BlockTemplate{
		ID:   "bad_ring",
		Kind: model.KindRingSegment,
		Geometry: model.RingSegmentGeometry{
			OuterDiameterMm: 100,
			InnerDiameterMm: 120,
		},
	}
	if err := catalog.AddTemplate(badRing); !errors.Is(err, ErrBadEntry) {
		t.Errorf("inverted diameters error = %v, want ErrBadEntry", err)
	}

	badFlat := &model.BlockTemplate{ID: "bad_flat", Kind: model.KindFlat}
	if err := catalog.AddTemplate(badFlat); !errors.Is(err, ErrBadEntry) {
		t.Errorf("flat without dimensions error = %v, want ErrBadEntry", err)
	}

	orphanFeature := &model.BlockTemplate{
		ID:   "orphan",
		Kind: model.KindRingSegment,
		Geometry: model.RingSegmentGeometry{
			OuterDiameterMm: 100,
			InnerDiameterMm: 80,
		},
		HoleFeatures: []model.HoleFeature{
			{Label: "Z", ReflectorType: model.ReflectorSDH, DiameterMm: 2, DepthMm: 5},
		},
	}
	if err := catalog.AddTemplate(orphanFeature); !errors.Is(err, ErrBadEntry) {
		t.Errorf("orphan feature error = %v, want ErrBadEntry", err)
	}

	dupLabels := &model.BlockTemplate{
		ID:   "dup",
		Kind: model.KindRingSegment,
		Geometry: model.RingSegmentGeometry{
			OuterDiameterMm: 100,
			InnerDiameterMm: 80,
		},
		HolePositions: []model.CurvedHolePosition{
			{Label: "A", AngleOnArcDeg: 10},
			{Label: "A", AngleOnArcDeg: 20},
		},
	}
	if err := catalog.AddTemplate(dupLabels); !errors.Is(err, ErrBadEntry) {
		t.Errorf("duplicate labels error = %v, want ErrBadEntry", err)
	}
}

func TestTemplate_NotFound(t *testing.T) {
	catalog := DefaultCatalog()

	if _, err := catalog.Template("nope"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("Template(nope) error = %v, want ErrTemplateNotFound", err)
	}
	if _, err := catalog.Template(TemplateRingSegmentEN); err != nil {
		t.Errorf("Template(ring_segment_en) error = %v", err)
	}
}

func TestDefaultCatalog_TemplateSet(t *testing.T) {
	catalog := DefaultCatalog()

	templates := catalog.ListTemplates()
	if len(templates) != 5 {
		t.Fatalf("expected 5 stock templates, got %d", len(templates))
	}

	want := []string{TemplateASMEBasic, TemplateDSC, TemplateIIWV1, TemplateRingSegmentASTM, TemplateRingSegmentEN}
	for i, id := range want {
		if templates[i].ID != id {
			t.Errorf("template %d = %q, want %q", i, templates[i].ID, id)
		}
	}
}

func TestNormalizeMaterialName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Ti-6Al-4V", "ti6al4v"},
		{"ti 6al 4v", "ti6al4v"},
		{"TI6AL4V", "ti6al4v"},
		{"Mild Steel", "mildsteel"},
		{"  ", ""},
	}
	for _, c := range cases {
		if got := NormalizeMaterialName(c.in); got != c.want {
			t.Errorf("NormalizeMaterialName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
