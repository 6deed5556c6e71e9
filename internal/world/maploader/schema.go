package maploader

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// mapSchema describes the structure of a map document.
const mapSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["width", "height", "walls"],
  "properties": {
    "name":   {"type": "string"},
    "width":  {"type": "number", "exclusiveMinimum": 0},
    "height": {"type": "number", "exclusiveMinimum": 0},
    "player_spawn": {"$ref": "#/definitions/point"},
    "walls": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["x", "y", "w", "h"],
        "properties": {
          "x": {"type": "number"},
          "y": {"type": "number"},
          "w": {"type": "number", "minimum": 0},
          "h": {"type": "number", "minimum": 0},
          "rotation": {"type": "number"},
          "color": {"type": "string"}
        }
      }
    },
    "loot": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["kind", "x", "y"],
        "properties": {
          "id":   {"type": "string"},
          "kind": {"type": "string", "minLength": 1},
          "x":    {"type": "number"},
          "y":    {"type": "number"}
        }
      }
    },
    "terrain": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["type", "x", "y", "w", "h"],
        "properties": {
          "type":  {"type": "string"},
          "x":     {"type": "number"},
          "y":     {"type": "number"},
          "w":     {"type": "number", "minimum": 0},
          "h":     {"type": "number", "minimum": 0},
          "color": {"type": "string"}
        }
      }
    },
    "extraction_zones": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["x", "y", "radius"],
        "properties": {
          "name":   {"type": "string"},
          "x":      {"type": "number"},
          "y":      {"type": "number"},
          "radius": {"type": "number", "exclusiveMinimum": 0}
        }
      }
    },
    "decorations": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["type", "x", "y"],
        "properties": {
          "type": {"type": "string", "enum": ["tree", "rock"]},
          "x":    {"type": "number"},
          "y":    {"type": "number"},
          "size": {"type": "number", "minimum": 0}
        }
      }
    }
  },
  "definitions": {
    "point": {
      "type": "object",
      "required": ["x", "y"],
      "properties": {
        "x": {"type": "number"},
        "y": {"type": "number"}
      }
    }
  }
}`

var (
	compiledSchema *gojsonschema.Schema
	schemaErr      error
	schemaOnce     sync.Once
)

func loadSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(mapSchema))
	})
	return compiledSchema, schemaErr
}

// validateDocument checks a decoded or raw map document against mapSchema.
func validateDocument(doc gojsonschema.JSONLoader) error {
	schema, err := loadSchema()
	if err != nil {
		return fmt.Errorf("compile map schema: %w", err)
	}

	result, err := schema.Validate(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMap, err)
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidMap, strings.Join(problems, "; "))
	}
	return nil
}
