package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mohammed-shakir/parkmap/internal/assets"
	"github.com/mohammed-shakir/parkmap/internal/core/config"
	"github.com/mohammed-shakir/parkmap/internal/core/router"
	"github.com/mohammed-shakir/parkmap/internal/data"
	"github.com/mohammed-shakir/parkmap/internal/layers"
	"github.com/mohammed-shakir/parkmap/internal/mapper"
	"github.com/mohammed-shakir/parkmap/internal/records"
	"github.com/mohammed-shakir/parkmap/internal/render"
	"github.com/mohammed-shakir/parkmap/internal/surface"
)

func TestNewHandler_HealthMetricsAndAPI(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := records.LoadDir(data.MagicMountain(), ".", logger)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	park, err := mapper.LoadPark(store, "MagicMountain")
	if err != nil {
		t.Fatalf("LoadPark: %v", err)
	}
	mem := surface.NewMemory()
	ctrl, err := layers.New(park, store, mem, layers.WithLogger(logger))
	if err != nil {
		t.Fatalf("layers.New: %v", err)
	}
	api, err := router.NewAPI(router.Deps{
		Controller: ctrl,
		Dispatcher: render.NewDispatcher(assets.New("/assets", 4), logger),
		Callouts:   mem,
		Logger:     logger,
		H3Res:      8,
	})
	if err != nil {
		t.Fatalf("NewAPI: %v", err)
	}

	srv := httptest.NewServer(NewHandler(config.Config{ParkName: "MagicMountain"}, logger, api))
	defer srv.Close()

	for path, want := range map[string]string{
		"/healthz": "ok",
		"/metrics": "http_requests_total",
		"/layers":  `"boundary":false`,
	} {
		if path == "/metrics" {
			// populate the counter before scraping
			resp, err := http.Get(srv.URL + "/layers")
			if err != nil {
				t.Fatalf("GET /layers: %v", err)
			}
			_ = resp.Body.Close()
		}
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s status=%d", path, resp.StatusCode)
		}
		if !strings.Contains(string(body), want) {
			t.Fatalf("%s body missing %q", path, want)
		}
		if resp.Header.Get("X-Request-ID") == "" {
			t.Fatalf("%s missing X-Request-ID", path)
		}
	}
}
