// Command blockresolve resolves a ring-segment block template against
// optional part dimensions and prints the fully dimensioned block as JSON.
//
// Example:
//
//	blockresolve -template ring_segment_en -od 60 -id 50
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/scanmasterndt/calibration-engine/core"
	"github.com/scanmasterndt/calibration-engine/internal/config"
	"github.com/scanmasterndt/calibration-engine/internal/logging"
	"github.com/scanmasterndt/calibration-engine/internal/observability"
	"github.com/scanmasterndt/calibration-engine/kb"
	"github.com/scanmasterndt/calibration-engine/model"
)

func main() {
	templateID := flag.String("template", kb.TemplateRingSegmentEN, "block template id")
	outerDiameter := flag.Float64("od", 0, "override outer diameter in mm (0 keeps the template value)")
	innerDiameter := flag.Float64("id", 0, "override inner diameter in mm (0 keeps the template value)")
	axialWidth := flag.Float64("width", 0, "override axial width in mm (0 keeps the template value)")
	segmentAngle := flag.Float64("segment-angle", 0, "override segment angle in degrees (0 keeps the template value)")
	list := flag.Bool("list", false, "list available templates and exit")
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "blockresolve: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	tracingCfg := observability.TracingConfig{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		SampleRatio: cfg.Tracing.SampleRatio,
	}
	if *configPath == "" {
		log = logging.NewFromEnv()
		tracingCfg = observability.TracingConfigFromEnv()
	}
	ctx := context.Background()

	shutdown, err := observability.InitTracing(ctx, tracingCfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "blockresolve: init tracing: %v\n", err)
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdown, log)

	collector, err := observability.NewCalibrationCollector(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "blockresolve: init metrics: %v\n", err)
		os.Exit(1)
	}

	catalog := kb.DefaultCatalog()
	if cfg.CatalogFile != "" {
		f, err := os.Open(cfg.CatalogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "blockresolve: open catalog overlay: %v\n", err)
			os.Exit(1)
		}
		if _, err := core.LoadCatalogOverlay(catalog, f); err != nil {
			f.Close()
			fmt.Fprintf(os.Stderr, "blockresolve: %v\n", err)
			os.Exit(1)
		}
		f.Close()
	}

	if *list {
		listTemplates(catalog)
		return
	}

	resolver := &core.RingSegmentResolver{
		Catalog: catalog,
		Log:     log,
		Metrics: collector,
	}

	req := core.ResolveRequest{
		TemplateID: *templateID,
		Override:   buildOverride(*outerDiameter, *innerDiameter, *axialWidth, *segmentAngle),
		Policy:     cfg.ThinWall,
	}

	block, err := resolver.Resolve(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "blockresolve: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(block); err != nil {
		fmt.Fprintf(os.Stderr, "blockresolve: encode result: %v\n", err)
		os.Exit(1)
	}
	if !block.IsCompliant {
		os.Exit(2)
	}
}

// buildOverride turns the flag values into an override, treating zero as
// "keep the template dimension".
func buildOverride(od, id, width, angle float64) *model.PartDimensionsOverride {
	o := &model.PartDimensionsOverride{}
	set := false
	if od > 0 {
		o.OuterDiameterMm = &od
		set = true
	}
	if id > 0 {
		o.InnerDiameterMm = &id
		set = true
	}
	if width > 0 {
		o.AxialWidthMm = &width
		set = true
	}
	if angle > 0 {
		o.SegmentAngleDeg = &angle
		set = true
	}
	if !set {
		return nil
	}
	return o
}

func listTemplates(catalog *kb.Catalog) {
	for _, t := range catalog.ListTemplates() {
		fmt.Printf("%-20s %-10s %-32s %s\n", t.ID, t.Kind, t.Name, t.StandardReference)
	}
}
