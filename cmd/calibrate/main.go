// Command calibrate recommends a calibration block for an angle-beam
// inspection and prints the full selection result as JSON.
//
// Example:
//
//	calibrate -thickness 25 -material "carbon steel" -code aws \
//	    -geometry weld -angles 45,60,70
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/scanmasterndt/calibration-engine/core"
	"github.com/scanmasterndt/calibration-engine/internal/config"
	"github.com/scanmasterndt/calibration-engine/internal/logging"
	"github.com/scanmasterndt/calibration-engine/internal/observability"
	"github.com/scanmasterndt/calibration-engine/kb"
	"github.com/scanmasterndt/calibration-engine/model"
)

func main() {
	thickness := flag.Float64("thickness", 25.0, "part thickness in mm")
	material := flag.String("material", "carbon_steel", "part material (id or common name)")
	wedgeMaterial := flag.String("wedge-material", "", "wedge material (defaults to perspex)")
	code := flag.String("code", "asme", "inspection code: aws, asme, en1714, mil_std_2154, en_iso_10893, api")
	geometry := flag.String("geometry", "plate", "part geometry: plate, weld, pipe, forging, casting")
	angles := flag.String("angles", "45,60,70", "comma-separated beam angles in degrees")
	outerDiameter := flag.Float64("od", 0, "pipe outer diameter in mm (pipe geometry only)")
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "calibrate: %v\n", err)
		os.Exit(1)
	}

	// Without a config file, logging and tracing fall back to the
	// environment (LOG_LEVEL, LOG_FORMAT, CAL_TRACING_*).
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
		fmt.Fprintf(os.Stderr, "calibrate: init tracing: %v\n", err)
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdown, log)

	collector, err := observability.NewCalibrationCollector(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "calibrate: init metrics: %v\n", err)
		os.Exit(1)
	}
	if cfg.Metrics.ListenAddr != "" {
		go serveMetrics(cfg.Metrics.ListenAddr, collector, log)
	}

	catalog := loadCatalog(ctx, cfg, log)

	beamAngles, err := parseAngles(*angles)
	if err != nil {
		fmt.Fprintf(os.Stderr, "calibrate: %v\n", err)
		os.Exit(1)
	}

	selector := &core.CalibrationBlockSelector{
		Catalog: catalog,
		Log:     log,
		Metrics: collector,
	}

	result := selector.Select(ctx, model.SelectionRequest{
		PartThicknessMm: *thickness,
		PartMaterial:    *material,
		WedgeMaterial:   *wedgeMaterial,
		BeamAnglesDeg:   beamAngles,
		PartGeometry:    model.PartGeometry(*geometry),
		OuterDiameterMm: *outerDiameter,
		Code:            model.InspectionCode(*code),
	})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "calibrate: encode result: %v\n", err)
		os.Exit(1)
	}
}

// loadCatalog builds the built-in catalog and applies the configured
// overlay file when one is set.
func loadCatalog(ctx context.Context, cfg *config.Config, log logging.Logger) *kb.Catalog {
	catalog := kb.DefaultCatalog()
	if cfg.CatalogFile == "" {
		return catalog
	}

	f, err := os.Open(cfg.CatalogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "calibrate: open catalog overlay: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	overlay, err := core.LoadCatalogOverlay(catalog, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "calibrate: %v\n", err)
		os.Exit(1)
	}
	log.Info(ctx, "catalog overlay loaded",
		logging.String("file", cfg.CatalogFile),
		logging.Int("materials", len(overlay.MaterialIDs)),
		logging.Int("wedges", len(overlay.WedgeIDs)),
		logging.Int("templates", len(overlay.TemplateIDs)))
	return catalog
}

func serveMetrics(addr string, collector *observability.CalibrationCollector, log logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	log.Info(context.Background(), "metrics listener started", logging.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error(context.Background(), "metrics listener failed", logging.String("error", err.Error()))
	}
}

func parseAngles(raw string) ([]float64, error) {
	parts := strings.Split(raw, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("bad angle %q: %w", p, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no beam angles given")
	}
	return out, nil
}
