// Command visprobe answers visibility queries against a map without opening a
// window: it builds one field of view and reports what the viewer can see.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/sirupsen/logrus"

	"chosenoffset.com/pixelescape/internal/core/shadows"
	"chosenoffset.com/pixelescape/internal/core/vision"
	"chosenoffset.com/pixelescape/internal/logger"
	"chosenoffset.com/pixelescape/internal/world/maploader"
)

type itemReport struct {
	Type    string  `json:"type"` // "loot", "decoration" or "zone"
	ID      string  `json:"id,omitempty"`
	Kind    string  `json:"kind"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Visible bool    `json:"visible"`
}

type report struct {
	Map           string       `json:"map"`
	X             float64      `json:"x"`
	Y             float64      `json:"y"`
	AngleDegrees  float64      `json:"angle_degrees"`
	PolygonPoints int          `json:"polygon_points"`
	Items         []itemReport `json:"items"`
}

func main() {
	logger.Init()
	if err := run(os.Args[1:], os.Stdout); err != nil {
		logger.Log.Error(err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("visprobe", flag.ContinueOnError)
	var (
		mapPath    = fs.String("map", "", "Map file (.json or .yaml); empty uses the bundled map")
		configPath = fs.String("config", "", "Vision config file (.json or .yaml)")
		x          = fs.Float64("x", 0, "Viewer X (default: map spawn)")
		y          = fs.Float64("y", 0, "Viewer Y (default: map spawn)")
		angle      = fs.Float64("angle", 0, "Facing angle in degrees, 0 is +X, 90 is +Y")
		asJSON     = fs.Bool("json", false, "Print the report as JSON")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		gameMap *maploader.Map
		err     error
	)
	if *mapPath == "" {
		gameMap, err = maploader.DefaultMap()
	} else {
		gameMap, err = maploader.LoadMap(*mapPath)
	}
	if err != nil {
		return err
	}

	cfg, err := vision.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	spawn := gameMap.Spawn()
	pose := shadows.Pose{X: spawn.X, Y: spawn.Y, Angle: *angle * math.Pi / 180}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "x":
			pose.X = *x
		case "y":
			pose.Y = *y
		}
	})

	vd, err := vision.BuildFOV(pose, gameMap.Obstacles(), cfg, nil)
	if err != nil {
		return err
	}

	rep := probe(gameMap, vd)
	rep.AngleDegrees = *angle

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return nil
	}

	logReport(logger.To(stdout), rep)
	return nil
}

// probe classifies every loot item, decoration and extraction zone.
func probe(m *maploader.Map, vd *vision.VisibilityData) report {
	rep := report{
		Map:           m.Data.Name,
		X:             vd.Apex.X,
		Y:             vd.Apex.Y,
		PolygonPoints: len(vd.Polygon),
	}
	for _, l := range m.Data.Loot {
		rep.Items = append(rep.Items, itemReport{
			Type: "loot", ID: l.ID, Kind: l.Kind, X: l.X, Y: l.Y,
			Visible: vd.IsVisible(l.Position()),
		})
	}
	for _, d := range m.Data.Decorations {
		p := shadows.Point{X: d.X, Y: d.Y}
		rep.Items = append(rep.Items, itemReport{
			Type: "decoration", Kind: d.Type, X: d.X, Y: d.Y,
			Visible: vd.IsVisible(p),
		})
	}
	for _, z := range m.Data.ExtractionZones {
		c := shadows.Point{X: z.X, Y: z.Y}
		rep.Items = append(rep.Items, itemReport{
			Type: "zone", Kind: z.Name, X: z.X, Y: z.Y,
			Visible: vision.IsCircleVisible(c, z.Radius, vd),
		})
	}
	return rep
}

// logReport writes the report as one structured line per item plus a summary.
func logReport(out *logrus.Logger, rep report) {
	visible := 0
	for _, item := range rep.Items {
		if item.Visible {
			visible++
		}
		out.WithFields(logrus.Fields{
			"type":    item.Type,
			"kind":    item.Kind,
			"id":      item.ID,
			"x":       item.X,
			"y":       item.Y,
			"visible": item.Visible,
		}).Info("item")
	}
	out.WithFields(logrus.Fields{
		"map":     rep.Map,
		"x":       rep.X,
		"y":       rep.Y,
		"angle":   rep.AngleDegrees,
		"points":  rep.PolygonPoints,
		"visible": visible,
		"total":   len(rep.Items),
	}).Info("visibility probe")
}
