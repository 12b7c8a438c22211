package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nightsky30/polychromatic/internal/models"
)

func TestGetAbsentRecord(t *testing.T) {
	store := NewStore(t.TempDir())

	record, err := store.Get("ABC123")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if record.Serial != "ABC123" {
		t.Errorf("Serial = %q, want ABC123", record.Serial)
	}
	if record.HasEffect() {
		t.Error("absent record reports an active effect")
	}
}

func TestPutGetRoundtrip(t *testing.T) {
	store := NewStore(t.TempDir())

	record := models.NewSoftwareState("ABC123")
	record.SetEffect("Alert", "alert.svg", "/tmp/alert.json")
	record.Preset = "gaming"
	if err := store.Put(record); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	got, err := store.Get("ABC123")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !got.HasEffect() {
		t.Fatal("record lost its effect")
	}
	if got.Effect.Name != "Alert" || got.Effect.Path != "/tmp/alert.json" {
		t.Errorf("Effect = %+v, want Alert at /tmp/alert.json", got.Effect)
	}
	if got.Preset != "gaming" {
		t.Errorf("Preset = %q, want gaming", got.Preset)
	}
}

func TestPutRequiresSerial(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Put(&models.SoftwareState{}); err == nil {
		t.Error("Put() succeeded on a record without serial")
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	for _, serial := range []string{"AAA", "BBB", "CCC"} {
		if err := store.Put(models.NewSoftwareState(serial)); err != nil {
			t.Fatalf("Put(%s) error: %v", serial, err)
		}
	}

	// A corrupt record is skipped, not fatal.
	if err := os.WriteFile(filepath.Join(dir, "DDD.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}

	records, err := store.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("len(List()) = %d, want 3", len(records))
	}
}

func TestListEmptyDir(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "does-not-exist"))
	records, err := store.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("len(List()) = %d, want 0", len(records))
	}
}

func TestRemoveIdempotent(t *testing.T) {
	store := NewStore(t.TempDir())

	if err := store.Put(models.NewSoftwareState("AAA")); err != nil {
		t.Fatal(err)
	}
	if err := store.Remove("AAA"); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if err := store.Remove("AAA"); err != nil {
		t.Errorf("Remove() on absent record error: %v", err)
	}
}

func TestClearPresetIdempotent(t *testing.T) {
	record := models.NewSoftwareState("AAA")
	savedAt := record.SavedAt

	// No preset set: clearing is a no-op, state unchanged.
	record.ClearPreset()
	if record.SavedAt != savedAt {
		t.Error("ClearPreset() on empty preset modified the record")
	}

	record.Preset = "gaming"
	record.ClearPreset()
	if record.Preset != "" {
		t.Errorf("Preset = %q after clear, want empty", record.Preset)
	}
}
