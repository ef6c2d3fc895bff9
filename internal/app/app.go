// Package app assembles the park map from configuration. Both commands use it.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/mohammed-shakir/parkmap/internal/assets"
	"github.com/mohammed-shakir/parkmap/internal/core/config"
	"github.com/mohammed-shakir/parkmap/internal/core/model"
	"github.com/mohammed-shakir/parkmap/internal/core/router"
	"github.com/mohammed-shakir/parkmap/internal/data"
	"github.com/mohammed-shakir/parkmap/internal/layers"
	"github.com/mohammed-shakir/parkmap/internal/mapper"
	h3mapper "github.com/mohammed-shakir/parkmap/internal/mapper/h3"
	"github.com/mohammed-shakir/parkmap/internal/overlay"
	"github.com/mohammed-shakir/parkmap/internal/records"
	"github.com/mohammed-shakir/parkmap/internal/render"
	"github.com/mohammed-shakir/parkmap/internal/surface"
	"github.com/mohammed-shakir/parkmap/internal/toggleevents"
)

type App struct {
	Park       model.ParkGeometry
	Store      *records.Static
	Surface    *surface.Memory
	Assets     *assets.Resolver
	Dispatcher *render.Dispatcher
	Controller *layers.Controller
	Events     toggleevents.Sink
	API        *router.API
}

// New loads records, builds the controller and applies cfg.InitialLayers.
// The caller owns the returned App and must Close it.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	store, err := records.LoadDir(dataFS(cfg.DataDir), ".", logger.With("component", "records"))
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	park, err := mapper.LoadPark(store, cfg.ParkName)
	if err != nil {
		return nil, fmt.Errorf("load park: %w", err)
	}

	traces, err := parseTraces(cfg.Characters.Traces)
	if err != nil {
		return nil, err
	}
	initial, err := layers.StateOf(cfg.InitialLayers)
	if err != nil {
		return nil, fmt.Errorf("INITIAL_LAYERS: %w", err)
	}

	cell, err := h3mapper.CellForCoordinate(mapper.ComputeRegion(park).Center, cfg.H3Res)
	if err != nil {
		return nil, fmt.Errorf("park cell: %w", err)
	}

	events, err := toggleevents.New(ctx, cfg.Events, logger.With("component", "events"))
	if err != nil {
		return nil, fmt.Errorf("events sink: %w", err)
	}

	assetOpts := []assets.Option{assets.WithLogger(logger.With("component", "assets"))}
	if cfg.AssetDir != "" {
		assetOpts = append(assetOpts, assets.WithFS(os.DirFS(cfg.AssetDir)))
	}
	res := assets.New(cfg.AssetBaseURL, cfg.AssetCacheSize, assetOpts...)
	disp := render.NewDispatcher(res, logger.With("component", "render"))

	mem := surface.NewMemory()
	ctrl, err := layers.New(park, store, mem,
		layers.WithLogger(logger.With("component", "layers")),
		layers.WithRand(overlay.NewRand(cfg.Characters.Seed)),
		layers.WithCollections(layers.Collections{
			Attractions: cfg.AttractionsColl,
			Route:       cfg.RouteColl,
			Characters:  traces,
		}),
		layers.WithCharacterOptions(overlay.CharacterOptions{
			CenterCandidates: cfg.Characters.CenterCandidates,
			RadiusMin:        cfg.Characters.RadiusMin,
			RadiusMax:        cfg.Characters.RadiusMax,
		}),
		layers.WithEvents(events),
		layers.WithEventCell(cell),
	)
	if err != nil {
		_ = events.Close()
		return nil, err
	}

	api, err := router.NewAPI(router.Deps{
		Controller:          ctrl,
		Dispatcher:          disp,
		Callouts:            mem,
		Logger:              logger.With("component", "http"),
		CalloutMaxDistanceM: cfg.CalloutMaxDistanceM,
		H3Res:               cfg.H3Res,
	})
	if err != nil {
		_ = events.Close()
		return nil, err
	}

	ctrl.Apply(initial)
	logger.Info("park loaded",
		"park", park.Name,
		"collections", len(store.Names()),
		"boundary_points", len(park.Boundary),
		"initial_layers", cfg.InitialLayers,
	)

	return &App{
		Park:       park,
		Store:      store,
		Surface:    mem,
		Assets:     res,
		Dispatcher: disp,
		Controller: ctrl,
		Events:     events,
		API:        api,
	}, nil
}

func (a *App) Close() error {
	if a.Events == nil {
		return nil
	}
	return a.Events.Close()
}

func dataFS(dir string) fs.FS {
	if dir == "" {
		return data.MagicMountain()
	}
	return os.DirFS(dir)
}

func parseTraces(in []config.NamedValue) ([]layers.Trace, error) {
	out := make([]layers.Trace, 0, len(in))
	var errs []error
	for _, nv := range in {
		c, err := overlay.ParseColor(nv.Value)
		if err != nil {
			errs = append(errs, fmt.Errorf("CHARACTERS %s: %w", nv.Name, err))
			continue
		}
		out = append(out, layers.Trace{Collection: nv.Name, Color: c})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}
