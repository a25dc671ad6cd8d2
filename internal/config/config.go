// Package config loads the card recognizer's settings from an optional JSON file
// and environment variables.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ironsheep/card-tools-mcp/internal/corners"
	"github.com/ironsheep/card-tools-mcp/internal/detection"
	"github.com/ironsheep/card-tools-mcp/internal/match"
	"github.com/ironsheep/card-tools-mcp/internal/rectify"
)

// Environment variables read by ApplyEnv.
const (
	EnvConfig        = "CARD_MCP_CONFIG"
	EnvReferenceKind = "CARD_MCP_REFERENCE_KIND"
	EnvReferencePath = "CARD_MCP_REFERENCE_PATH"
	EnvStrategy      = "CARD_MCP_STRATEGY"
	EnvWorkers       = "CARD_MCP_WORKERS"
	EnvLogLevel      = "CARD_MCP_LOG_LEVEL"
)

// Reference store kinds.
const (
	ReferenceDir    = "dir"
	ReferenceSQLite = "sqlite"
)

const maxFileSize = 1 * 1024 * 1024 // 1MB

// Reference locates the reference images.
type Reference struct {
	Kind string `json:"kind"`
	Path string `json:"path"`
}

// Config holds every tunable of the recognizer.
type Config struct {
	Strategy        string  `json:"strategy"`
	RotationDegrees float64 `json:"rotation_degrees"`
	BandTolerance   float64 `json:"band_tolerance"`
	ErrorThreshold  float64 `json:"error_threshold"`
	CanonicalSize   int     `json:"canonical_size"`
	Workers         int     `json:"workers"`

	AreaLowerBound  float64 `json:"area_lower_bound"`
	AreaUpperBound  float64 `json:"area_upper_bound"`
	DetectThreshold uint8   `json:"detect_threshold"`
	DetectBlurSigma float64 `json:"detect_blur_sigma"`

	Match     match.Params `json:"match"`
	Reference Reference    `json:"reference"`

	// Backend selects the image primitives: "go" or "opencv".
	Backend  string `json:"backend"`
	LogLevel string `json:"log_level"`
}

// Default returns the standard configuration.
func Default() *Config {
	return &Config{
		Strategy:        "diagonal",
		RotationDegrees: corners.DefaultAngle,
		BandTolerance:   corners.DefaultBand,
		ErrorThreshold:  20,
		CanonicalSize:   rectify.DefaultSide,
		Workers:         0,
		AreaLowerBound:  detection.DefaultAreaLower,
		AreaUpperBound:  detection.DefaultAreaUpper,
		DetectThreshold: detection.DefaultThreshold,
		Match:           match.DefaultParams(),
		Reference:       Reference{Kind: ReferenceDir},
		Backend:         "go",
		LogLevel:        "info",
	}
}

// Load reads a JSON config file over the defaults. Fields absent from the file
// keep their default values; unknown fields are rejected.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// FromEnv builds the configuration from CARD_MCP_CONFIG (if set) and the other
// environment overrides, then validates it.
func FromEnv() (*Config, error) {
	cfg := Default()
	if path := os.Getenv(EnvConfig); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables looked up with getenv.
// Empty values leave the field unchanged.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvReferenceKind); v != "" {
		c.Reference.Kind = strings.ToLower(v)
	}
	if v := getenv(EnvReferencePath); v != "" {
		c.Reference.Path = v
	}
	if v := getenv(EnvStrategy); v != "" {
		c.Strategy = strings.ToLower(v)
	}
	if v := getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	return nil
}

// Validate checks the configuration for values the recognizer cannot run with.
func (c *Config) Validate() error {
	if _, err := corners.NewStrategy(c.Strategy, c.RotationDegrees, c.BandTolerance); err != nil {
		return err
	}
	if c.ErrorThreshold <= 0 {
		return fmt.Errorf("error_threshold must be positive, got %v", c.ErrorThreshold)
	}
	if c.CanonicalSize < 16 {
		return fmt.Errorf("canonical_size must be at least 16, got %d", c.CanonicalSize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	if c.AreaLowerBound < 0 || c.AreaUpperBound <= c.AreaLowerBound {
		return fmt.Errorf("area bounds must satisfy 0 <= lower < upper, got (%v, %v)", c.AreaLowerBound, c.AreaUpperBound)
	}
	if c.Match.AdaptiveBlockSize < 3 || c.Match.AdaptiveBlockSize%2 == 0 {
		return fmt.Errorf("match.adaptive_block_size must be odd and at least 3, got %d", c.Match.AdaptiveBlockSize)
	}
	if c.Match.PreBlurSigma < 0 || c.Match.PostBlurSigma < 0 || c.Match.DiffBlurSigma < 0 {
		return fmt.Errorf("match blur sigmas must be non-negative")
	}
	switch c.Reference.Kind {
	case ReferenceDir, ReferenceSQLite:
	default:
		return fmt.Errorf("reference.kind must be %q or %q, got %q", ReferenceDir, ReferenceSQLite, c.Reference.Kind)
	}
	switch c.Backend {
	case "go", "opencv":
	default:
		return fmt.Errorf("backend must be \"go\" or \"opencv\", got %q", c.Backend)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}
