// Package layers owns the five toggleable map layers and rebuilds the live
// set on the map surface whenever any of them changes.
package layers

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownLayer = errors.New("unknown layer")

// Layer values are in rebuild order.
type Layer int

const (
	Boundary Layer = iota
	Overlay
	Pins
	Characters
	Route

	numLayers
)

var layerNames = [numLayers]string{
	Boundary:   "boundary",
	Overlay:    "overlay",
	Pins:       "pins",
	Characters: "characters",
	Route:      "route",
}

func (l Layer) String() string {
	if !l.Valid() {
		return fmt.Sprintf("layer(%d)", int(l))
	}
	return layerNames[l]
}

func (l Layer) Valid() bool { return l >= 0 && l < numLayers }

func All() []Layer {
	return []Layer{Boundary, Overlay, Pins, Characters, Route}
}

func ParseLayer(s string) (Layer, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range layerNames {
		if n == name {
			return Layer(i), nil
		}
	}
	if name == "raster" {
		return Overlay, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLayer, s)
}

// State holds the five layer flags. The zero value has every layer off.
type State struct {
	Boundary   bool `json:"boundary"`
	Overlay    bool `json:"overlay"`
	Pins       bool `json:"pins"`
	Characters bool `json:"characters"`
	Route      bool `json:"route"`
}

func (s State) Get(l Layer) bool {
	switch l {
	case Boundary:
		return s.Boundary
	case Overlay:
		return s.Overlay
	case Pins:
		return s.Pins
	case Characters:
		return s.Characters
	case Route:
		return s.Route
	}
	return false
}

// With returns a copy of s with l set to on. Invalid layers leave s unchanged.
func (s State) With(l Layer, on bool) State {
	switch l {
	case Boundary:
		s.Boundary = on
	case Overlay:
		s.Overlay = on
	case Pins:
		s.Pins = on
	case Characters:
		s.Characters = on
	case Route:
		s.Route = on
	}
	return s
}

func (s State) Map() map[string]bool {
	m := make(map[string]bool, numLayers)
	for _, l := range All() {
		m[l.String()] = s.Get(l)
	}
	return m
}

// StateOf turns on exactly the named layers.
func StateOf(names []string) (State, error) {
	var s State
	for _, n := range names {
		l, err := ParseLayer(n)
		if err != nil {
			return State{}, err
		}
		s = s.With(l, true)
	}
	return s, nil
}
