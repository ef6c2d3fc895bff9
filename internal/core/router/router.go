// Package router exposes the layer toggles and the composed map over HTTP.
package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mohammed-shakir/parkmap/internal/composer"
	"github.com/mohammed-shakir/parkmap/internal/core/model"
	"github.com/mohammed-shakir/parkmap/internal/core/observability"
	"github.com/mohammed-shakir/parkmap/internal/layers"
	mylog "github.com/mohammed-shakir/parkmap/internal/logger"
	"github.com/mohammed-shakir/parkmap/internal/mapper"
	h3mapper "github.com/mohammed-shakir/parkmap/internal/mapper/h3"
	"github.com/mohammed-shakir/parkmap/internal/overlay"
	"github.com/mohammed-shakir/parkmap/internal/render"
)

// CalloutFinder is satisfied by *surface.Memory.
type CalloutFinder interface {
	Nearest(c model.GeoCoordinate, maxMetres float64) (overlay.Annotation, float64, bool)
}

type Deps struct {
	Controller *layers.Controller
	Dispatcher *render.Dispatcher
	Callouts   CalloutFinder
	Logger     *slog.Logger
	// callout hit radius in metres
	CalloutMaxDistanceM float64
	H3Res               int
}

type API struct {
	ctrl      *layers.Controller
	disp      *render.Dispatcher
	callouts  CalloutFinder
	logger    *slog.Logger
	maxCallM  float64
	h3Res     int
	parkCells []string
}

func NewAPI(d Deps) (*API, error) {
	if d.Controller == nil || d.Dispatcher == nil {
		return nil, errors.New("router: controller and dispatcher are required")
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	cells, err := h3mapper.CellsForBoundary(d.Controller.Park().Boundary, d.H3Res)
	if err != nil {
		return nil, fmt.Errorf("router: park coverage: %w", err)
	}
	return &API{
		ctrl:      d.Controller,
		disp:      d.Dispatcher,
		callouts:  d.Callouts,
		logger:    d.Logger,
		maxCallM:  d.CalloutMaxDistanceM,
		h3Res:     d.H3Res,
		parkCells: cells,
	}, nil
}

func (a *API) Mount(r chi.Router) {
	r.Get("/layers", a.instrument("/layers", a.getLayers))
	r.Put("/layers/{layer}", a.instrument("/layers/{layer}", a.setLayer))
	r.Post("/layers/{layer}/toggle", a.instrument("/layers/{layer}/toggle", a.toggleLayer))
	r.Get("/map", a.instrument("/map", a.getMap))
	r.Get("/map/region", a.instrument("/map/region", a.getRegion))
	r.Get("/map/callout", a.instrument("/map/callout", a.getCallout))
	r.Get("/park", a.instrument("/park", a.getPark))
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func (a *API) instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		h(sw, r)
		observability.ObserveHTTP(r.Method, route, sw.code, time.Since(start).Seconds())
	}
}

type layersResponse struct {
	State layers.State  `json:"state"`
	Stats *layers.Stats `json:"stats,omitempty"`
}

func (a *API) getLayers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, layersResponse{State: a.ctrl.State()})
}

func (a *API) setLayer(w http.ResponseWriter, r *http.Request) {
	l, ok := a.layerParam(w, r)
	if !ok {
		return
	}
	raw := strings.TrimSpace(r.URL.Query().Get("on"))
	on, err := strconv.ParseBool(raw)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid on=%q: want true or false", raw), http.StatusBadRequest)
		return
	}
	st, err := a.ctrl.Set(l, on)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	a.logLayerChange(r, l, on)
	writeJSON(w, http.StatusOK, layersResponse{State: a.ctrl.State(), Stats: &st})
}

func (a *API) toggleLayer(w http.ResponseWriter, r *http.Request) {
	l, ok := a.layerParam(w, r)
	if !ok {
		return
	}
	on, st, err := a.ctrl.Toggle(l)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	a.logLayerChange(r, l, on)
	writeJSON(w, http.StatusOK, layersResponse{State: a.ctrl.State(), Stats: &st})
}

func (a *API) layerParam(w http.ResponseWriter, r *http.Request) (layers.Layer, bool) {
	l, err := layers.ParseLayer(chi.URLParam(r, "layer"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return 0, false
	}
	return l, true
}

func (a *API) logLayerChange(r *http.Request, l layers.Layer, on bool) {
	ctx := mylog.WithLayer(r.Context(), l.String())
	a.logger.InfoContext(ctx, "layer changed", "on", on)
}

func (a *API) getMap(w http.ResponseWriter, r *http.Request) {
	neg := composer.NegotiateFormat(composer.NegotiationInput{
		AcceptHeader: r.Header.Get("Accept"),
		OutputFormat: r.URL.Query().Get("f"),
	})

	var (
		res composer.Result
		err error
	)
	a.ctrl.View(func(s layers.Snapshot) {
		res, err = composer.Encode(composer.Compose(s.Overlays, s.Annotations, a.disp), neg)
	})
	if err != nil {
		a.logger.ErrorContext(r.Context(), "compose map", "err", err)
		http.Error(w, "compose failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", res.ETag)
	w.Header().Set("Cache-Control", "no-cache")
	if etagMatches(r.Header.Get("If-None-Match"), res.ETag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", res.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Body)
}

func etagMatches(header, etag string) bool {
	for part := range strings.SplitSeq(header, ",") {
		p := strings.TrimSpace(part)
		p = strings.TrimPrefix(p, "W/")
		if p == "*" || p == etag {
			return true
		}
	}
	return false
}

func (a *API) getRegion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, mapper.ComputeRegion(a.ctrl.Park()))
}

type calloutResponse struct {
	Title      string              `json:"title"`
	Subtitle   string              `json:"subtitle"`
	Category   string              `json:"category"`
	Marker     string              `json:"marker"`
	MarkerURL  string              `json:"marker_url"`
	Coordinate model.GeoCoordinate `json:"coordinate"`
	DistanceM  float64             `json:"distance_m"`
}

func (a *API) getCallout(w http.ResponseWriter, r *http.Request) {
	c, err := parseCoordinateQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if a.callouts == nil {
		http.Error(w, "callouts unavailable", http.StatusNotFound)
		return
	}

	var (
		hit  overlay.Annotation
		dist float64
		ok   bool
	)
	a.ctrl.View(func(layers.Snapshot) {
		hit, dist, ok = a.callouts.Nearest(c, a.maxCallM)
	})
	if !ok {
		http.Error(w, "no attraction nearby", http.StatusNotFound)
		return
	}

	m := a.disp.MarkerFor(hit)
	writeJSON(w, http.StatusOK, calloutResponse{
		Title:      hit.Title(),
		Subtitle:   hit.Subtitle(),
		Category:   m.Category.String(),
		Marker:     m.Image.Name,
		MarkerURL:  m.Image.URL,
		Coordinate: hit.Coordinate(),
		DistanceM:  dist,
	})
}

type parkResponse struct {
	Name        string                `json:"name"`
	TopLeft     model.GeoCoordinate   `json:"top_left"`
	BottomRight model.GeoCoordinate   `json:"bottom_right"`
	Boundary    []model.GeoCoordinate `json:"boundary"`
	H3Res       int                   `json:"h3_res"`
	Cells       []string              `json:"cells"`
}

func (a *API) getPark(w http.ResponseWriter, _ *http.Request) {
	g := a.ctrl.Park()
	writeJSON(w, http.StatusOK, parkResponse{
		Name:        g.Name,
		TopLeft:     g.TopLeft,
		BottomRight: g.BottomRight,
		Boundary:    g.Boundary,
		H3Res:       a.h3Res,
		Cells:       a.parkCells,
	})
}

func parseCoordinateQuery(r *http.Request) (model.GeoCoordinate, error) {
	q := r.URL.Query()
	lat, err := parseFloat(q.Get("lat"))
	if err != nil {
		return model.GeoCoordinate{}, fmt.Errorf("lat: %w", err)
	}
	lon, err := parseFloat(q.Get("lon"))
	if err != nil {
		return model.GeoCoordinate{}, fmt.Errorf("lon: %w", err)
	}
	if lat < -90 || lat > 90 {
		return model.GeoCoordinate{}, errors.New("latitude must be in [-90,90]")
	}
	if lon < -180 || lon > 180 {
		return model.GeoCoordinate{}, errors.New("longitude must be in [-180,180]")
	}
	return model.GeoCoordinate{Lat: lat, Lon: lon}, nil
}

func parseFloat(v string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("parse float: %w", err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("parse float: %q is not finite", v)
	}
	return f, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
