// Package vision builds field-of-view snapshots for a single viewer and answers
// point and region visibility queries against them.
package vision

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"chosenoffset.com/pixelescape/internal/core/shadows"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid vision config")

// Ray resolution strategies.
const (
	RayModeExact   = "exact"
	RayModeStepped = "stepped"
)

// Point classification strategies for the last oracle step.
const (
	PointTestRaycast = "raycast"
	PointTestPolygon = "polygon"
)

// Config holds the tunables of the vision system.
type Config struct {
	ViewDistance      float64 `json:"view_distance" yaml:"view_distance"`             // World units
	ConeAngle         float64 `json:"cone_angle" yaml:"cone_angle"`                   // Full cone width in radians
	RayCount          int     `json:"ray_count" yaml:"ray_count"`                     // Intervals across the cone, at least 2
	CloseVisionRadius float64 `json:"close_vision_radius" yaml:"close_vision_radius"` // Always-visible disc around the viewer

	// OcclusionTolerance absorbs numeric error when a confirmation ray hits
	// just short of the queried point.
	OcclusionTolerance float64 `json:"occlusion_tolerance" yaml:"occlusion_tolerance"`

	// PoseEpsilon lets the cache treat nearly identical poses as equal.
	// Zero keeps exact matching.
	PoseEpsilon float64 `json:"pose_epsilon" yaml:"pose_epsilon"`

	RayMode   string  `json:"ray_mode" yaml:"ray_mode"`     // "exact" or "stepped"
	MarchStep float64 `json:"march_step" yaml:"march_step"` // Step for "stepped"; walls must be at least this thick
	PointTest string  `json:"point_test" yaml:"point_test"` // "raycast" or "polygon"
}

// DefaultConfig returns the tuning used by the shipped game.
func DefaultConfig() *Config {
	return &Config{
		ViewDistance:       500,
		ConeAngle:          2 * math.Pi / 3,
		RayCount:           150,
		CloseVisionRadius:  50,
		OcclusionTolerance: 2,
		PoseEpsilon:        0,
		RayMode:            RayModeExact,
		MarchStep:          5,
		PointTest:          PointTestRaycast,
	}
}

// LoadConfig loads vision config from a JSON or YAML file on top of the defaults.
// An empty path or a missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read vision config: %w", err)
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse vision config %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("vision config %s: %w", path, err)
	}
	return config, nil
}

// Validate rejects configurations that cannot produce a meaningful field of view.
func (c *Config) Validate() error {
	switch {
	case c == nil:
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	case !(c.ViewDistance > 0) || math.IsInf(c.ViewDistance, 0):
		return fmt.Errorf("%w: view_distance must be positive and finite, got %v", ErrInvalidConfig, c.ViewDistance)
	case !(c.ConeAngle > 0) || c.ConeAngle > 2*math.Pi:
		return fmt.Errorf("%w: cone_angle must be in (0, 2π], got %v", ErrInvalidConfig, c.ConeAngle)
	case c.RayCount < 2:
		return fmt.Errorf("%w: ray_count must be at least 2, got %d", ErrInvalidConfig, c.RayCount)
	case !(c.CloseVisionRadius >= 0):
		return fmt.Errorf("%w: close_vision_radius must not be negative, got %v", ErrInvalidConfig, c.CloseVisionRadius)
	case !(c.OcclusionTolerance >= 0):
		return fmt.Errorf("%w: occlusion_tolerance must not be negative, got %v", ErrInvalidConfig, c.OcclusionTolerance)
	case !(c.PoseEpsilon >= 0):
		return fmt.Errorf("%w: pose_epsilon must not be negative, got %v", ErrInvalidConfig, c.PoseEpsilon)
	}

	switch c.RayMode {
	case RayModeExact:
	case RayModeStepped:
		if !(c.MarchStep > 0) {
			return fmt.Errorf("%w: march_step must be positive in stepped mode, got %v", ErrInvalidConfig, c.MarchStep)
		}
		if c.ViewDistance/c.MarchStep > shadows.MaxMarchSteps {
			return fmt.Errorf("%w: march_step %v needs more than %d samples to cover view_distance %v",
				ErrInvalidConfig, c.MarchStep, shadows.MaxMarchSteps, c.ViewDistance)
		}
	default:
		return fmt.Errorf("%w: unknown ray_mode %q", ErrInvalidConfig, c.RayMode)
	}

	switch c.PointTest {
	case PointTestRaycast, PointTestPolygon:
	default:
		return fmt.Errorf("%w: unknown point_test %q", ErrInvalidConfig, c.PointTest)
	}
	return nil
}

// FullCircle reports whether the cone covers every direction.
func (c *Config) FullCircle() bool {
	return c.ConeAngle >= 2*math.Pi
}

// Caster returns the ray caster selected by RayMode.
func (c *Config) Caster() shadows.Caster {
	if c.RayMode == RayModeStepped {
		return shadows.SteppedCaster{Step: c.MarchStep}
	}
	return shadows.ExactCaster{}
}
