package mapper

import (
	"fmt"

	"github.com/mohammed-shakir/parkmap/internal/core/model"
	"github.com/mohammed-shakir/parkmap/internal/records"
)

const (
	fieldTopLeft     = "overlayTopLeftCoord"
	fieldBottomRight = "overlayBottomRightCoord"
)

// LoadPark reads the park metadata record from collection name and the
// boundary ring from <name>Boundary. Invalid corners are a data-integrity
// fault and are reported as model.ErrInvalidGeometry.
func LoadPark(store records.Store, name string) (model.ParkGeometry, error) {
	meta, ok := store.Load(name)
	if !ok || len(meta.Records) == 0 {
		return model.ParkGeometry{}, fmt.Errorf("%w: park metadata %q not found", model.ErrInvalidGeometry, name)
	}
	rec := meta.Records[0]

	tl, err := ParseCoordinate(rec, fieldTopLeft)
	if err != nil {
		return model.ParkGeometry{}, fmt.Errorf("%w: park %q: %v", model.ErrInvalidGeometry, name, err)
	}
	br, err := ParseCoordinate(rec, fieldBottomRight)
	if err != nil {
		return model.ParkGeometry{}, fmt.Errorf("%w: park %q: %v", model.ErrInvalidGeometry, name, err)
	}

	var boundary []model.GeoCoordinate
	if b, ok := store.Load(name + "Boundary"); ok {
		boundary, _ = ParsePoints(b.Points)
	}

	g := model.ParkGeometry{
		Name:        name,
		Boundary:    boundary,
		TopLeft:     tl,
		BottomRight: br,
	}
	if err := g.Validate(); err != nil {
		return model.ParkGeometry{}, err
	}
	return g, nil
}
