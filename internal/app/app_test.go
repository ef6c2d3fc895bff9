package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/mohammed-shakir/parkmap/internal/core/config"
	"github.com/mohammed-shakir/parkmap/internal/overlay"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func testConfig(t *testing.T) config.Config {
	t.Helper()
	t.Setenv("CHARACTER_SEED", "42")
	t.Setenv("INITIAL_LAYERS", "boundary,characters")
	return config.FromEnv()
}

func TestNew_EmbeddedDataAndInitialLayers(t *testing.T) {
	a, err := New(context.Background(), testConfig(t), quiet())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })

	st := a.Controller.State()
	if !st.Boundary || !st.Characters || st.Pins {
		t.Fatalf("state=%+v", st)
	}

	circles := 0
	for _, o := range a.Surface.Overlays() {
		if m, ok := o.(*overlay.CharacterMarker); ok {
			circles++
			if m.Degenerate() {
				t.Fatalf("%s must not be degenerate with embedded data", m.Name)
			}
		}
	}
	if circles != 3 {
		t.Fatalf("circles=%d want 3", circles)
	}
}

func TestNew_SeedIsReproducible(t *testing.T) {
	centers := func() []string {
		a, err := New(context.Background(), testConfig(t), quiet())
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		defer func() { _ = a.Close() }()
		var out []string
		for _, o := range a.Surface.Overlays() {
			if m, ok := o.(*overlay.CharacterMarker); ok {
				out = append(out, m.Center.String())
			}
		}
		return out
	}
	a, b := centers(), centers()
	if len(a) != 3 || len(a) != len(b) {
		t.Fatalf("a=%v b=%v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("seeded runs differ: %v vs %v", a, b)
		}
	}
}

func TestNew_RejectsBadInputs(t *testing.T) {
	cfg := testConfig(t)
	cfg.InitialLayers = []string{"weather"}
	if _, err := New(context.Background(), cfg, quiet()); err == nil {
		t.Fatalf("want error for unknown initial layer")
	}

	cfg = testConfig(t)
	cfg.Characters.Traces = []config.NamedValue{{Name: "TazLocations", Value: "plaid"}}
	if _, err := New(context.Background(), cfg, quiet()); err == nil {
		t.Fatalf("want error for unknown color")
	}

	cfg = testConfig(t)
	cfg.ParkName = "Atlantis"
	if _, err := New(context.Background(), cfg, quiet()); err == nil {
		t.Fatalf("want error for missing park")
	}
}

func TestDataFS(t *testing.T) {
	if _, err := dataFS("").Open("MagicMountain.json"); err != nil {
		t.Fatalf("embedded data: %v", err)
	}
}
