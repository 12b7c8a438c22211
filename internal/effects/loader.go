// Package effects loads effect definition files and classifies their type.
// Loading has no side effects; a malformed document is a load error, never
// a crash further down the pipeline.
package effects

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/nightsky30/polychromatic/internal/models"
)

// LoadError wraps any failure to read, parse or validate an effect file.
type LoadError struct {
	Path   string
	Detail string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("effect %s: %s", e.Path, e.Detail)
}

// document is the on-disk shape of an effect file. Frames use string keys
// for rows and columns because JSON objects only have string keys.
type document struct {
	Name string            `json:"name"`
	Icon string            `json:"icon,omitempty"`
	Type models.EffectType `json:"type"`

	// Sequence payload
	Frames []map[string]map[string]string `json:"frames,omitempty"`
	Loop   *bool                          `json:"loop,omitempty"`
	FPS    *int                           `json:"fps,omitempty"`

	// Scripted payload
	Script    string             `json:"script,omitempty"`
	Checksum  string             `json:"checksum,omitempty"`
	Platforms []string           `json:"platforms,omitempty"`
	Devices   []string           `json:"devices,omitempty"`
	Requires  []string           `json:"requires,omitempty"`
	Params    []models.ParamSpec `json:"parameters,omitempty"`

	// Layered payload
	Layers []models.LayerRef `json:"layers,omitempty"`
}

// Load reads an effect file and returns its descriptor. The declared type
// tag must match the payload shape actually present.
func Load(path string) (*models.Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Detail: fmt.Sprintf("unreadable: %v", err)}
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Path: path, Detail: fmt.Sprintf("malformed JSON: %v", err)}
	}

	desc := &models.Descriptor{
		Name: doc.Name,
		Icon: doc.Icon,
		Path: path,
		Type: doc.Type,
	}

	switch doc.Type {
	case models.EffectTypeSequence:
		if doc.Frames == nil {
			return nil, &LoadError{Path: path, Detail: "sequence effect has no frames"}
		}
		frames, err := parseFrames(doc.Frames)
		if err != nil {
			return nil, &LoadError{Path: path, Detail: err.Error()}
		}
		payload := &models.SequencePayload{Frames: frames}
		if doc.Loop != nil {
			payload.Loop = *doc.Loop
		}
		if doc.FPS != nil {
			payload.FPS = *doc.FPS
		}
		desc.Sequence = payload

	case models.EffectTypeScripted:
		if doc.Script == "" {
			return nil, &LoadError{Path: path, Detail: "scripted effect names no script"}
		}
		desc.Script = &models.ScriptPayload{
			Script:    doc.Script,
			Checksum:  doc.Checksum,
			Platforms: doc.Platforms,
			Devices:   doc.Devices,
			Requires:  doc.Requires,
			Params:    doc.Params,
		}

	case models.EffectTypeLayered:
		if doc.Layers == nil {
			return nil, &LoadError{Path: path, Detail: "layered effect has no layers"}
		}
		desc.Layered = &models.LayeredPayload{Layers: doc.Layers}

	case "":
		return nil, &LoadError{Path: path, Detail: "missing type tag"}

	default:
		return nil, &LoadError{Path: path, Detail: fmt.Sprintf("unknown effect type %q", doc.Type)}
	}

	return desc, nil
}

// parseFrames converts string-keyed rows/columns into sparse frames.
// Absent coordinates stay absent: "no change", not black.
func parseFrames(raw []map[string]map[string]string) ([]models.Frame, error) {
	frames := make([]models.Frame, len(raw))
	for i, rawFrame := range raw {
		frame := make(models.Frame, len(rawFrame))
		for rowKey, cols := range rawFrame {
			row, err := strconv.Atoi(rowKey)
			if err != nil {
				return nil, fmt.Errorf("frame %d: bad row key %q", i, rowKey)
			}
			frame[row] = make(map[int]string, len(cols))
			for colKey, color := range cols {
				col, err := strconv.Atoi(colKey)
				if err != nil {
					return nil, fmt.Errorf("frame %d: bad column key %q", i, colKey)
				}
				if _, _, _, err := ParseHexColor(color); err != nil {
					return nil, fmt.Errorf("frame %d cell (%d,%d): %v", i, row, col, err)
				}
				frame[row][col] = color
			}
		}
		frames[i] = frame
	}
	return frames, nil
}

// ParseHexColor converts a "#RRGGBB" string into channel values.
func ParseHexColor(s string) (r, g, b uint8, err error) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0, fmt.Errorf("bad color %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("bad color %q", s)
	}
	return uint8(v >> 16), uint8(v >> 8 & 0xFF), uint8(v & 0xFF), nil
}
