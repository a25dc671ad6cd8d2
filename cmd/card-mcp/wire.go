package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ironsheep/card-tools-mcp/internal/config"
	"github.com/ironsheep/card-tools-mcp/internal/corners"
	"github.com/ironsheep/card-tools-mcp/internal/detection"
	"github.com/ironsheep/card-tools-mcp/internal/imaging"
	"github.com/ironsheep/card-tools-mcp/internal/match"
	"github.com/ironsheep/card-tools-mcp/internal/pipeline"
	"github.com/ironsheep/card-tools-mcp/internal/rectify"
	"github.com/ironsheep/card-tools-mcp/internal/reference"
)

// newLogger returns a production logger writing to stderr at level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}

// newExtractor assembles the corner, rectification and detection stages.
func newExtractor(cfg *config.Config, prims imaging.Primitives) (*pipeline.Extractor, error) {
	strategy, err := corners.NewStrategy(cfg.Strategy, cfg.RotationDegrees, cfg.BandTolerance)
	if err != nil {
		return nil, err
	}

	d := detection.NewDetector(prims)
	d.Threshold = cfg.DetectThreshold
	d.BlurSigma = cfg.DetectBlurSigma
	d.AreaLower = cfg.AreaLowerBound
	d.AreaUpper = cfg.AreaUpperBound

	return &pipeline.Extractor{
		Strategy:       strategy,
		ErrorThreshold: cfg.ErrorThreshold,
		Rectifier:      rectify.New(prims, cfg.CanonicalSize),
		Detector:       d,
	}, nil
}

// loadStore reads the configured reference set. It returns nil when no
// reference path is configured.
func loadStore(ctx context.Context, cfg *config.Config) (*reference.Store, error) {
	if cfg.Reference.Path == "" {
		return nil, nil
	}

	switch cfg.Reference.Kind {
	case config.ReferenceSQLite:
		db, err := reference.OpenSQLite(cfg.Reference.Path)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return db.Load(ctx)
	default:
		return reference.DirLoader{Dir: cfg.Reference.Path}.Load(ctx)
	}
}

// newRecognizer wires the full recognition pipeline. It returns nil without an
// error when no reference set is configured.
func newRecognizer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pipeline.Recognizer, error) {
	prims, err := imaging.NewPrimitives(cfg.Backend)
	if err != nil {
		return nil, err
	}
	ex, err := newExtractor(cfg, prims)
	if err != nil {
		return nil, err
	}

	store, err := loadStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load references: %w", err)
	}
	if store == nil {
		return nil, nil
	}
	logger.Info("loaded references",
		zap.String("kind", cfg.Reference.Kind),
		zap.String("path", cfg.Reference.Path),
		zap.Int("count", store.Len()))

	m, err := match.New(prims, store, cfg.Match)
	if err != nil {
		return nil, err
	}
	return pipeline.New(ex, m, cfg.Workers, logger)
}

// buildReference extracts one card per photograph in photoDir and appends it to
// the sqlite database at dbPath.
func buildReference(ctx context.Context, cfg *config.Config, logger *zap.Logger, photoDir, dbPath string) error {
	prims, err := imaging.NewPrimitives(cfg.Backend)
	if err != nil {
		return err
	}
	ex, err := newExtractor(cfg, prims)
	if err != nil {
		return err
	}

	paths, err := reference.ImagePaths(photoDir)
	if err != nil {
		return err
	}
	store, err := reference.Build(ctx, ex, paths)
	if err != nil {
		return err
	}

	db, err := reference.OpenSQLite(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, e := range store.Entries() {
		id, err := db.Add(ctx, e.Label, e.Image)
		if err != nil {
			return err
		}
		logger.Info("stored reference", zap.String("label", e.Label), zap.Int64("id", id))
	}
	return nil
}
