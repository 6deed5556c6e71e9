// Package maploader loads level descriptions: walls that block sight and
// movement, plus the loot, terrain, extraction zones and decorations drawn on top.
package maploader

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"chosenoffset.com/pixelescape/internal/core/shadows"
)

// ErrInvalidMap is wrapped by every structural or semantic map error.
var ErrInvalidMap = errors.New("invalid map")

//go:embed default_map.json
var defaultMapJSON []byte

// SpawnPoint defines a player spawn location
type SpawnPoint struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Wall is a solid rectangle. Rotation is in radians around its centre.
type Wall struct {
	X        float64 `json:"x" yaml:"x"`
	Y        float64 `json:"y" yaml:"y"`
	W        float64 `json:"w" yaml:"w"`
	H        float64 `json:"h" yaml:"h"`
	Rotation float64 `json:"rotation,omitempty" yaml:"rotation,omitempty"`
	Color    string  `json:"color,omitempty" yaml:"color,omitempty"`
}

// Obstacle converts the wall to the form the ray caster uses.
func (w Wall) Obstacle() shadows.Obstacle {
	return shadows.Obstacle{X: w.X, Y: w.Y, Width: w.W, Height: w.H, Rotation: w.Rotation}
}

// Loot is a pickup placed in the world.
type Loot struct {
	ID   string  `json:"id,omitempty" yaml:"id,omitempty"`
	Kind string  `json:"kind" yaml:"kind"` // e.g. "crate", "medkit", "ammo_box"
	X    float64 `json:"x" yaml:"x"`
	Y    float64 `json:"y" yaml:"y"`
}

// Position returns the loot location.
func (l Loot) Position() shadows.Point {
	return shadows.Point{X: l.X, Y: l.Y}
}

// Region is a terrain patch drawn under everything else.
type Region struct {
	Type  string  `json:"type" yaml:"type"` // "grass", "dirt", "concrete", "water"
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
	W     float64 `json:"w" yaml:"w"`
	H     float64 `json:"h" yaml:"h"`
	Color string  `json:"color,omitempty" yaml:"color,omitempty"`
}

// Zone is a circular extraction point.
type Zone struct {
	Name   string  `json:"name" yaml:"name"`
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Radius float64 `json:"radius" yaml:"radius"`
}

// Decoration is a cosmetic tree or rock.
type Decoration struct {
	Type string  `json:"type" yaml:"type"`
	X    float64 `json:"x" yaml:"x"`
	Y    float64 `json:"y" yaml:"y"`
	Size float64 `json:"size,omitempty" yaml:"size,omitempty"`
}

// MapData represents the loaded map document
type MapData struct {
	Name            string       `json:"name" yaml:"name"`
	Width           float64      `json:"width" yaml:"width"`
	Height          float64      `json:"height" yaml:"height"`
	PlayerSpawn     SpawnPoint   `json:"player_spawn" yaml:"player_spawn"`
	Walls           []Wall       `json:"walls" yaml:"walls"`
	Loot            []Loot       `json:"loot" yaml:"loot"`
	Terrain         []Region     `json:"terrain" yaml:"terrain"`
	ExtractionZones []Zone       `json:"extraction_zones" yaml:"extraction_zones"`
	Decorations     []Decoration `json:"decorations" yaml:"decorations"`
}

// Map is a loaded, validated level. It is read-only once built.
type Map struct {
	Data *MapData

	obstacles []shadows.Obstacle
}

// LoadMap loads a map from a JSON or YAML file
func LoadMap(mapPath string) (*Map, error) {
	data, err := os.ReadFile(mapPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read map file %s: %w", mapPath, err)
	}

	format := "json"
	switch strings.ToLower(filepath.Ext(mapPath)) {
	case ".yaml", ".yml":
		format = "yaml"
	}

	m, err := ParseMap(data, format)
	if err != nil {
		return nil, fmt.Errorf("map file %s: %w", mapPath, err)
	}
	return m, nil
}

// DefaultMap returns the level bundled with the binary.
func DefaultMap() (*Map, error) {
	m, err := ParseMap(defaultMapJSON, "json")
	if err != nil {
		return nil, fmt.Errorf("default map: %w", err)
	}
	return m, nil
}

// ParseMap decodes, schema-checks and validates a map document.
// format is "json" or "yaml".
func ParseMap(data []byte, format string) (*Map, error) {
	var mapData MapData

	switch format {
	case "json":
		if err := validateDocument(gojsonschema.NewBytesLoader(data)); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &mapData); err != nil {
			return nil, fmt.Errorf("failed to parse map: %w", err)
		}
	case "yaml":
		var doc map[string]interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse map: %w", err)
		}
		if err := validateDocument(gojsonschema.NewGoLoader(doc)); err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &mapData); err != nil {
			return nil, fmt.Errorf("failed to parse map: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported map format %q", format)
	}

	return NewMap(&mapData)
}

// NewMap validates map data, assigns missing loot IDs and precomputes obstacles.
func NewMap(data *MapData) (*Map, error) {
	if err := validateMapData(data); err != nil {
		return nil, err
	}

	for i := range data.Loot {
		if data.Loot[i].ID == "" {
			data.Loot[i].ID = uuid.NewString()
		}
	}

	obstacles := make([]shadows.Obstacle, 0, len(data.Walls))
	for _, w := range data.Walls {
		obstacles = append(obstacles, w.Obstacle())
	}

	return &Map{Data: data, obstacles: obstacles}, nil
}

// validateMapData checks semantic rules the schema cannot express.
func validateMapData(data *MapData) error {
	if data == nil {
		return fmt.Errorf("%w: no map data", ErrInvalidMap)
	}
	if !(data.Width > 0) || !(data.Height > 0) {
		return fmt.Errorf("%w: invalid map dimensions: %vx%v", ErrInvalidMap, data.Width, data.Height)
	}

	for i, w := range data.Walls {
		if w.W < 0 || w.H < 0 {
			return fmt.Errorf("%w: wall %d has negative size %vx%v", ErrInvalidMap, i, w.W, w.H)
		}
		if !finite(w.X, w.Y, w.W, w.H, w.Rotation) {
			return fmt.Errorf("%w: wall %d has non-finite geometry", ErrInvalidMap, i)
		}
	}

	seen := make(map[string]bool)
	for i, l := range data.Loot {
		if l.ID == "" {
			continue
		}
		if seen[l.ID] {
			return fmt.Errorf("%w: loot %d reuses id %q", ErrInvalidMap, i, l.ID)
		}
		seen[l.ID] = true
	}

	for i, z := range data.ExtractionZones {
		if !(z.Radius > 0) {
			return fmt.Errorf("%w: extraction zone %d has radius %v", ErrInvalidMap, i, z.Radius)
		}
	}

	return nil
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Obstacles returns the sight-blocking walls. A nil map has none.
// The returned slice is shared and must not be modified.
func (m *Map) Obstacles() []shadows.Obstacle {
	if m == nil {
		return nil
	}
	return m.obstacles
}

// Bounds returns the map size in world units.
func (m *Map) Bounds() (width, height float64) {
	if m == nil {
		return 0, 0
	}
	return m.Data.Width, m.Data.Height
}

// Spawn returns the player spawn point.
func (m *Map) Spawn() shadows.Point {
	if m == nil {
		return shadows.Point{}
	}
	return shadows.Point{X: m.Data.PlayerSpawn.X, Y: m.Data.PlayerSpawn.Y}
}

// Collides reports whether a circle at (x, y) overlaps any wall.
func (m *Map) Collides(x, y, radius float64) bool {
	for _, o := range m.Obstacles() {
		if o.Degenerate() {
			continue
		}
		if circleHitsObstacle(shadows.Point{X: x, Y: y}, radius, o) {
			return true
		}
	}
	return false
}

// circleHitsObstacle measures from the circle centre to the closest point of
// the rectangle in the obstacle's local frame.
func circleHitsObstacle(p shadows.Point, radius float64, o shadows.Obstacle) bool {
	if o.Rotation != 0 {
		c := o.Center()
		sin, cos := math.Sincos(-o.Rotation)
		dx, dy := p.X-c.X, p.Y-c.Y
		p = shadows.Point{X: c.X + dx*cos - dy*sin, Y: c.Y + dx*sin + dy*cos}
	}
	nearX := math.Max(o.X, math.Min(p.X, o.X+o.Width))
	nearY := math.Max(o.Y, math.Min(p.Y, o.Y+o.Height))
	return math.Hypot(p.X-nearX, p.Y-nearY) < radius
}

// LootPoints returns the position of every loot item, in map order.
func (m *Map) LootPoints() []shadows.Point {
	if m == nil {
		return nil
	}
	points := make([]shadows.Point, len(m.Data.Loot))
	for i, l := range m.Data.Loot {
		points[i] = l.Position()
	}
	return points
}
