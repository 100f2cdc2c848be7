package kb

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/scanmasterndt/calibration-engine/model"
)

var (
	ErrMaterialExists   = errors.New("material already exists")
	ErrWedgeExists      = errors.New("wedge already exists")
	ErrTemplateExists   = errors.New("block template already exists")
	ErrTemplateNotFound = errors.New("block template not found")
	ErrBadEntry         = errors.New("invalid catalog entry")
)

// Catalog holds the static reference tables the engine computes against:
// material acoustic properties (with a caller-facing alias table), standard
// wedges, and parametric block templates.
//
// A Catalog is constructed once at process start and treated as read-only
// afterwards; the internal RWMutex only exists so tests and overlay loading
// can populate alternate catalogs through the same methods without global
// mutation.
type Catalog struct {
	mu sync.RWMutex

	materials map[model.MaterialID]model.MaterialAcousticProperties
	aliases   map[string]model.MaterialID
	wedges    map[string]*model.Wedge
	templates map[string]*model.BlockTemplate
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		materials: make(map[model.MaterialID]model.MaterialAcousticProperties),
		aliases:   make(map[string]model.MaterialID),
		wedges:    make(map[string]*model.Wedge),
		templates: make(map[string]*model.BlockTemplate),
	}
}

//
// ---------- Materials ----------
//

// AddMaterial inserts a material entry. It enforces the catalog invariant
// that longitudinal velocity exceeds shear velocity.
func (c *Catalog) AddMaterial(m model.MaterialAcousticProperties) error {
	if m.ID == "" {
		return fmt.Errorf("%w: empty material ID", ErrBadEntry)
	}
	if m.LongitudinalVelocityMS <= 0 || m.ShearVelocityMS <= 0 {
		return fmt.Errorf("%w: material %q has non-positive velocity", ErrBadEntry, m.ID)
	}
	if m.LongitudinalVelocityMS <= m.ShearVelocityMS {
		return fmt.Errorf("%w: material %q longitudinal velocity must exceed shear velocity", ErrBadEntry, m.ID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.materials[m.ID]; exists {
		return fmt.Errorf("%w: %q", ErrMaterialExists, m.ID)
	}
	c.materials[m.ID] = m
	return nil
}

// AddAlias maps a caller-facing name onto a canonical material id. The
// alias is stored in normalised form.
func (c *Catalog) AddAlias(alias string, id model.MaterialID) error {
	key := NormalizeMaterialName(alias)
	if key == "" {
		return fmt.Errorf("%w: empty alias", ErrBadEntry)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.materials[id]; !ok {
		return fmt.Errorf("%w: alias %q references unknown material %q", ErrBadEntry, alias, id)
	}
	c.aliases[key] = id
	return nil
}

// Get returns the material with the given canonical id. The boolean is
// false when the id is not cataloged; there is no fallback at this level.
func (c *Catalog) Get(id model.MaterialID) (model.MaterialAcousticProperties, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.materials[id]
	return m, ok
}

// Resolve maps an arbitrary caller-supplied material name onto a cataloged
// entry. Lookup order: exact canonical id, normalised alias, normalised
// substring match against aliases and ids. When nothing matches, the
// carbon-steel entry is returned as the documented deterministic fallback,
// so Resolve never fails.
func (c *Catalog) Resolve(nameOrAlias string) model.MaterialAcousticProperties {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if m, ok := c.materials[model.MaterialID(nameOrAlias)]; ok {
		return m
	}

	key := NormalizeMaterialName(nameOrAlias)
	if id, ok := c.aliases[key]; ok {
		return c.materials[id]
	}
	if m, ok := c.materials[model.MaterialID(key)]; ok {
		return m
	}

	if key != "" {
		// Substring pass, deterministic: sorted alias keys first, then ids.
		aliasKeys := make([]string, 0, len(c.aliases))
		for k := range c.aliases {
			aliasKeys = append(aliasKeys, k)
		}
		sort.Strings(aliasKeys)
		for _, k := range aliasKeys {
			if strings.Contains(key, k) || strings.Contains(k, key) {
				return c.materials[c.aliases[k]]
			}
		}

		ids := make([]string, 0, len(c.materials))
		for id := range c.materials {
			ids = append(ids, string(id))
		}
		sort.Strings(ids)
		for _, id := range ids {
			norm := NormalizeMaterialName(id)
			if strings.Contains(key, norm) || strings.Contains(norm, key) {
				return c.materials[model.MaterialID(id)]
			}
		}
	}

	return c.materials[model.MaterialCarbonSteel]
}

// ListMaterials returns a snapshot of all cataloged materials, sorted by id.
func (c *Catalog) ListMaterials() []model.MaterialAcousticProperties {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]model.MaterialAcousticProperties, 0, len(c.materials))
	for _, m := range c.materials {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

//
// ---------- Wedges ----------
//

// AddWedge inserts a standard wedge; only the three supported refracted
// angles are accepted.
func (c *Catalog) AddWedge(w *model.Wedge) error {
	if w == nil || w.ID == "" {
		return fmt.Errorf("%w: nil or empty wedge", ErrBadEntry)
	}
	switch w.RefractedAngleDeg {
	case 45, 60, 70:
	default:
		return fmt.Errorf("%w: wedge %q angle %v is not one of 45/60/70", ErrBadEntry, w.ID, w.RefractedAngleDeg)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.wedges[w.ID]; exists {
		return fmt.Errorf("%w: %q", ErrWedgeExists, w.ID)
	}
	c.wedges[w.ID] = w
	return nil
}

// FindWedge returns the cataloged wedge matching angle and frequency, or
// nil when no such wedge exists.
func (c *Catalog) FindWedge(angleDeg, frequencyMHz float64) *model.Wedge {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, w := range c.wedges {
		if w.RefractedAngleDeg == angleDeg && w.FrequencyMHz == frequencyMHz {
			return w
		}
	}
	return nil
}

// ListWedges returns all cataloged wedges sorted by id.
func (c *Catalog) ListWedges() []*model.Wedge {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*model.Wedge, 0, len(c.wedges))
	for _, w := range c.wedges {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

//
// ---------- Block templates ----------
//

// AddTemplate inserts a block template after checking structural sanity:
// valid envelope and position/feature labels that pair up.
func (c *Catalog) AddTemplate(t *model.BlockTemplate) error {
	if t == nil || t.ID == "" {
		return fmt.Errorf("%w: nil or empty template", ErrBadEntry)
	}
	switch t.Kind {
	case model.KindRingSegment:
		g := t.Geometry
		if !(g.OuterDiameterMm > g.InnerDiameterMm && g.InnerDiameterMm > 0) {
			return fmt.Errorf("%w: template %q requires OD > ID > 0", ErrBadEntry, t.ID)
		}
	case model.KindFlat:
		if t.Flat == nil || t.Flat.LengthMm <= 0 || t.Flat.WidthMm <= 0 || t.Flat.HeightMm <= 0 {
			return fmt.Errorf("%w: template %q requires positive flat dimensions", ErrBadEntry, t.ID)
		}
	default:
		return fmt.Errorf("%w: template %q has unknown kind %q", ErrBadEntry, t.ID, t.Kind)
	}

	seen := make(map[string]struct{}, len(t.HolePositions))
	for _, p := range t.HolePositions {
		if p.Label == "" {
			return fmt.Errorf("%w: template %q has a position with no label", ErrBadEntry, t.ID)
		}
		if _, dup := seen[p.Label]; dup {
			return fmt.Errorf("%w: template %q duplicates position label %q", ErrBadEntry, t.ID, p.Label)
		}
		seen[p.Label] = struct{}{}
	}
	for _, f := range t.HoleFeatures {
		if _, ok := seen[f.Label]; !ok {
			return fmt.Errorf("%w: template %q feature %q has no matching position", ErrBadEntry, t.ID, f.Label)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.templates[t.ID]; exists {
		return fmt.Errorf("%w: %q", ErrTemplateExists, t.ID)
	}
	c.templates[t.ID] = t
	return nil
}

// Template returns the template with the given id. An unknown id is the
// engine's one hard configuration error: there is no sensible default
// geometry to fall back to.
func (c *Catalog) Template(id string) (*model.BlockTemplate, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.templates[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, id)
	}
	return t, nil
}

// ListTemplates returns all templates sorted by id.
func (c *Catalog) ListTemplates() []*model.BlockTemplate {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*model.BlockTemplate, 0, len(c.templates))
	for _, t := range c.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

//
// ---------- Helpers ----------
//

// NormalizeMaterialName lowercases a material name and strips punctuation
// and whitespace so "Ti-6Al-4V", "ti 6al 4v" and "TI6AL4V" all compare equal.
func NormalizeMaterialName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
