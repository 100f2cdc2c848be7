package core

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/scanmasterndt/calibration-engine/kb"
	"github.com/scanmasterndt/calibration-engine/model"
)

// CatalogOverlay summarises what an overlay file added to the catalog.
// Mainly useful for logging from main().
type CatalogOverlay struct {
	MaterialIDs []string
	WedgeIDs    []string
	TemplateIDs []string
}

// internal JSON shape; kept unexported so the file format can evolve.
type catalogOverlayJSON struct {
	Materials []model.MaterialAcousticProperties `json:"materials"`
	Aliases   map[string]string                  `json:"aliases"`
	Wedges    []model.Wedge                      `json:"wedges"`
	Templates []model.BlockTemplate              `json:"templates"`
}

// LoadCatalogOverlay reads a JSON overlay from r and adds its materials,
// aliases, wedges and block templates to the catalog. Deployments use it
// to extend the built-in tables without recompiling.
//
// It fails on decode errors and on entries the catalog rejects (duplicate
// ids, broken invariants); entries added before the failing one stay in
// the catalog.
func LoadCatalogOverlay(c *kb.Catalog, r io.Reader) (*CatalogOverlay, error) {
	if c == nil {
		return nil, fmt.Errorf("LoadCatalogOverlay: catalog is nil")
	}

	var payload catalogOverlayJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadCatalogOverlay: decode failed: %w", err)
	}

	result := &CatalogOverlay{}

	for _, m := range payload.Materials {
		if err := c.AddMaterial(m); err != nil {
			return nil, fmt.Errorf("LoadCatalogOverlay: %w", err)
		}
		result.MaterialIDs = append(result.MaterialIDs, string(m.ID))
	}

	for alias, id := range payload.Aliases {
		if err := c.AddAlias(alias, model.MaterialID(id)); err != nil {
			return nil, fmt.Errorf("LoadCatalogOverlay: %w", err)
		}
	}

	for i := range payload.Wedges {
		w := payload.Wedges[i]
		if err := c.AddWedge(&w); err != nil {
			return nil, fmt.Errorf("LoadCatalogOverlay: %w", err)
		}
		result.WedgeIDs = append(result.WedgeIDs, w.ID)
	}

	for i := range payload.Templates {
		t := payload.Templates[i]
		if err := c.AddTemplate(&t); err != nil {
			return nil, fmt.Errorf("LoadCatalogOverlay: %w", err)
		}
		result.TemplateIDs = append(result.TemplateIDs, t.ID)
	}

	return result, nil
}
