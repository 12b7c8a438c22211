package effects

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nightsky30/polychromatic/internal/models"
)

func writeEffect(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "effect.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write effect file: %v", err)
	}
	return path
}

func TestLoadSequence(t *testing.T) {
	path := writeEffect(t, `{
		"name": "Alert",
		"icon": "alert.svg",
		"type": "sequence",
		"frames": [{"0": {"0": "#FF0000", "3": "#00FF00"}}, {}],
		"loop": true,
		"fps": 10
	}`)

	desc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if desc.Name != "Alert" {
		t.Errorf("Name = %q, want %q", desc.Name, "Alert")
	}
	if desc.Type != models.EffectTypeSequence {
		t.Errorf("Type = %q, want sequence", desc.Type)
	}
	if desc.Sequence == nil {
		t.Fatal("Sequence payload is nil")
	}
	if desc.Script != nil || desc.Layered != nil {
		t.Error("non-sequence payloads should be nil")
	}
	if !desc.Sequence.Loop {
		t.Error("Loop = false, want true")
	}
	if desc.Sequence.FPS != 10 {
		t.Errorf("FPS = %d, want 10", desc.Sequence.FPS)
	}
	if len(desc.Sequence.Frames) != 2 {
		t.Fatalf("len(Frames) = %d, want 2", len(desc.Sequence.Frames))
	}
	if got := desc.Sequence.Frames[0][0][3]; got != "#00FF00" {
		t.Errorf("frame 0 cell (0,3) = %q, want #00FF00", got)
	}
	if desc.Sequence.Frames[1].Cells() != 0 {
		t.Errorf("frame 1 should be empty, has %d cells", desc.Sequence.Frames[1].Cells())
	}
}

func TestLoadScripted(t *testing.T) {
	path := writeEffect(t, `{
		"name": "Ripple",
		"type": "scripted",
		"script": "ripple.so",
		"checksum": "abc123",
		"platforms": ["linux"],
		"devices": ["keyboard"],
		"requires": ["libx.so"],
		"parameters": [{"key": "speed", "type": "int", "default": 3}]
	}`)

	desc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if desc.Type != models.EffectTypeScripted {
		t.Errorf("Type = %q, want scripted", desc.Type)
	}
	if desc.Script == nil {
		t.Fatal("Script payload is nil")
	}
	if desc.Script.Script != "ripple.so" {
		t.Errorf("Script = %q, want ripple.so", desc.Script.Script)
	}
	if len(desc.Script.Params) != 1 || desc.Script.Params[0].Key != "speed" {
		t.Errorf("Params = %+v, want one spec keyed speed", desc.Script.Params)
	}
}

func TestLoadLayered(t *testing.T) {
	path := writeEffect(t, `{
		"name": "Combo",
		"type": "layered",
		"layers": [{"path": "base.json"}, {"path": "top.json"}]
	}`)

	desc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if desc.Layered == nil || len(desc.Layered.Layers) != 2 {
		t.Errorf("Layered = %+v, want 2 layers", desc.Layered)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "malformed JSON",
			content: `{"type": "sequence",`,
		},
		{
			name:    "missing type tag",
			content: `{"name": "X", "frames": []}`,
		},
		{
			name:    "unknown type",
			content: `{"type": "plasma"}`,
		},
		{
			name:    "sequence without frames",
			content: `{"type": "sequence", "loop": true, "fps": 10}`,
		},
		{
			name:    "scripted without script",
			content: `{"type": "scripted", "platforms": ["linux"]}`,
		},
		{
			name:    "layered without layers",
			content: `{"type": "layered"}`,
		},
		{
			name:    "bad row key",
			content: `{"type": "sequence", "frames": [{"x": {"0": "#FF0000"}}]}`,
		},
		{
			name:    "bad color",
			content: `{"type": "sequence", "frames": [{"0": {"0": "red"}}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeEffect(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Error("Load() succeeded, want error")
			}
		})
	}
}

func TestLoadUnreadable(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Load() succeeded on missing file, want error")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		r, g, b uint8
		wantErr bool
	}{
		{name: "red", input: "#FF0000", r: 255},
		{name: "green", input: "#00FF00", g: 255},
		{name: "blue", input: "#0000FF", b: 255},
		{name: "mixed", input: "#12aB3c", r: 0x12, g: 0xAB, b: 0x3C},
		{name: "no hash", input: "FF0000", wantErr: true},
		{name: "short", input: "#F00", wantErr: true},
		{name: "not hex", input: "#GGGGGG", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b, err := ParseHexColor(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseHexColor(%q) succeeded, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHexColor(%q) error: %v", tt.input, err)
			}
			if r != tt.r || g != tt.g || b != tt.b {
				t.Errorf("ParseHexColor(%q) = (%d,%d,%d), want (%d,%d,%d)",
					tt.input, r, g, b, tt.r, tt.g, tt.b)
			}
		})
	}
}
