package bootstrap

import (
	"strings"
	"testing"
	"time"

	"github.com/nightsky30/polychromatic/internal/device"
	"github.com/nightsky30/polychromatic/internal/device/devicetest"
	"github.com/nightsky30/polychromatic/internal/logging"
	"github.com/nightsky30/polychromatic/internal/models"
	"github.com/nightsky30/polychromatic/internal/state"
)

type spawnCall struct {
	name string
	args []string
}

// testBootstrap wires a bootstrap against a fake backend, a temp store and
// recording Spawn/Sleep seams.
func testBootstrap(t *testing.T, backend device.Backend, settings *models.Settings) (*Bootstrap, *state.Store, *[]spawnCall, *[]time.Duration) {
	t.Helper()

	log := logging.New("test")
	store := state.NewStore(t.TempDir())
	b := New(log, device.NewResolver(log, backend), store, settings)

	var spawned []spawnCall
	var slept []time.Duration
	b.Spawn = func(name string, args ...string) error {
		spawned = append(spawned, spawnCall{name: name, args: args})
		return nil
	}
	b.Sleep = func(d time.Duration) { slept = append(slept, d) }
	return b, store, &spawned, &slept
}

func readyBackend() *devicetest.Backend {
	backend := devicetest.New()
	backend.AddDevice(device.Info{
		DeviceID: "kbd0", Serial: "ABC123", Name: "Test Keyboard",
		Type: "keyboard", MatrixRows: 6, MatrixCols: 22, HasMatrix: true,
	})
	return backend
}

func TestWaitForBackendsReturnsWhenAvailable(t *testing.T) {
	b, _, _, slept := testBootstrap(t, readyBackend(), models.NewSettings())

	b.WaitForBackends()
	if len(*slept) != 0 {
		t.Errorf("slept %d times with a ready backend, want 0", len(*slept))
	}
}

func TestWaitForBackendsExhaustsPollBudget(t *testing.T) {
	backend := devicetest.New()
	backend.EnumerateErr = &device.LoadError{Backend: "fake", Detail: "daemon not running"}
	b, _, _, slept := testBootstrap(t, backend, models.NewSettings())

	b.WaitForBackends()
	if len(*slept) != pollAttempts {
		t.Errorf("slept %d times, want %d", len(*slept), pollAttempts)
	}
	for _, d := range *slept {
		if d != pollInterval {
			t.Errorf("slept %v, want %v", d, pollInterval)
		}
	}
}

func TestResumeSpawnsHelperPerActiveEffect(t *testing.T) {
	b, store, spawned, _ := testBootstrap(t, readyBackend(), models.NewSettings())

	active := models.NewSoftwareState("ABC123")
	active.SetEffect("Waves", "", "/effects/waves.json")
	if err := store.Put(active); err != nil {
		t.Fatal(err)
	}
	idle := models.NewSoftwareState("XYZ789")
	if err := store.Put(idle); err != nil {
		t.Fatal(err)
	}

	if err := b.Resume(); err != nil {
		t.Fatal(err)
	}

	if len(*spawned) != 1 {
		t.Fatalf("spawned %d processes, want 1", len(*spawned))
	}
	call := (*spawned)[0]
	want := []string{"run-fx", "/effects/waves.json", "--device-serial", "ABC123"}
	if len(call.args) != len(want) {
		t.Fatalf("args = %v, want %v", call.args, want)
	}
	for i := range want {
		if call.args[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, call.args[i], want[i])
		}
	}
}

func TestResumeClearsPresets(t *testing.T) {
	b, store, _, _ := testBootstrap(t, readyBackend(), models.NewSettings())

	record := models.NewSoftwareState("ABC123")
	record.Preset = "gaming"
	if err := store.Put(record); err != nil {
		t.Fatal(err)
	}

	if err := b.Resume(); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get("ABC123")
	if err != nil {
		t.Fatal(err)
	}
	if got.Preset != "" {
		t.Errorf("Preset = %q after resume, want cleared", got.Preset)
	}
}

func TestResumeLoginTriggerSkipsEffects(t *testing.T) {
	settings := models.NewSettings()
	settings.Login.TriggerCommand = "/usr/local/bin/my-login-hook"
	b, store, spawned, _ := testBootstrap(t, readyBackend(), settings)

	active := models.NewSoftwareState("ABC123")
	active.SetEffect("Waves", "", "/effects/waves.json")
	if err := store.Put(active); err != nil {
		t.Fatal(err)
	}

	if err := b.Resume(); err != nil {
		t.Fatal(err)
	}

	if len(*spawned) != 1 {
		t.Fatalf("spawned %d processes, want only the trigger", len(*spawned))
	}
	if (*spawned)[0].name != "/usr/local/bin/my-login-hook" {
		t.Errorf("spawned %q, want the trigger command", (*spawned)[0].name)
	}
	for _, call := range *spawned {
		if strings.Contains(call.name, "run-fx") || len(call.args) > 0 {
			t.Errorf("trigger spawn carried helper args: %+v", call)
		}
	}
}

func TestStartTrayRespectsSettings(t *testing.T) {
	tests := []struct {
		name      string
		enabled   bool
		delay     int
		wantSpawn int
		wantSleep time.Duration
	}{
		{name: "enabled no delay", enabled: true, wantSpawn: 1},
		{name: "enabled with delay", enabled: true, delay: 3, wantSpawn: 1, wantSleep: 3 * time.Second},
		{name: "disabled", enabled: false, delay: 3, wantSpawn: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := models.NewSettings()
			settings.Tray.Enabled = tt.enabled
			settings.Tray.DelaySeconds = tt.delay
			b, _, spawned, slept := testBootstrap(t, readyBackend(), settings)

			if err := b.StartTray(); err != nil {
				t.Fatal(err)
			}
			if len(*spawned) != tt.wantSpawn {
				t.Fatalf("spawned %d processes, want %d", len(*spawned), tt.wantSpawn)
			}
			if tt.wantSleep > 0 {
				if len(*slept) != 1 || (*slept)[0] != tt.wantSleep {
					t.Errorf("slept %v, want one %v delay", *slept, tt.wantSleep)
				}
			} else if len(*slept) != 0 {
				t.Errorf("slept %v, want none", *slept)
			}
		})
	}
}
