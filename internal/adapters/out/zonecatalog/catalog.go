// Package zonecatalog resolves coordinates to delivery zones from a YAML file
// of bounding boxes.
//
//	zones:
//	  - code: HYD-CENTRAL
//	    min_lat: 17.36
//	    max_lat: 17.42
//	    min_lng: 78.44
//	    max_lng: 78.51
package zonecatalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"gopkg.in/yaml.v3"
)

// Box is an axis-aligned latitude/longitude rectangle, bounds inclusive.
type Box struct {
	Code   string  `yaml:"code"`
	MinLat float64 `yaml:"min_lat"`
	MaxLat float64 `yaml:"max_lat"`
	MinLng float64 `yaml:"min_lng"`
	MaxLng float64 `yaml:"max_lng"`
}

func (b Box) contains(p kernel.GeoPoint) bool {
	return p.Lat() >= b.MinLat && p.Lat() <= b.MaxLat &&
		p.Lng() >= b.MinLng && p.Lng() <= b.MaxLng
}

func (b Box) validate() error {
	if strings.TrimSpace(b.Code) == "" {
		return errs.NewValueIsRequiredError("zone code")
	}
	if _, err := kernel.NewGeoPoint(b.MinLat, b.MinLng); err != nil {
		return errs.NewValueIsInvalidErrorWithCause(b.Code, err)
	}
	if _, err := kernel.NewGeoPoint(b.MaxLat, b.MaxLng); err != nil {
		return errs.NewValueIsInvalidErrorWithCause(b.Code, err)
	}
	if b.MinLat > b.MaxLat || b.MinLng > b.MaxLng {
		return errs.NewValueIsInvalidErrorWithCause(b.Code, fmt.Errorf("min bound exceeds max bound"))
	}
	return nil
}

type file struct {
	Zones []Box `yaml:"zones"`
}

// Catalog implements ports.ZoneResolver. The first box containing a point
// wins, so overlapping zones resolve in file order.
type Catalog struct {
	boxes []Box
}

var _ ports.ZoneResolver = (*Catalog)(nil)

// New validates boxes and returns a catalog over them.
func New(boxes []Box) (*Catalog, error) {
	for i := range boxes {
		if err := boxes[i].validate(); err != nil {
			return nil, fmt.Errorf("zone #%d: %w", i, err)
		}
	}
	return &Catalog{boxes: append([]Box(nil), boxes...)}, nil
}

// Parse reads a catalog document.
func Parse(r io.Reader) (*Catalog, error) {
	var doc file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode zone catalog: %w", err)
	}
	return New(doc.Zones)
}

// Load reads the catalog at path.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Resolve never fails; points outside every box resolve to kernel.UnknownZone.
func (c *Catalog) Resolve(_ context.Context, point kernel.GeoPoint) (kernel.Zone, error) {
	if err := point.Validate(); err != nil {
		return kernel.UnknownZone, err
	}
	for _, b := range c.boxes {
		if b.contains(point) {
			return kernel.NewZone(b.Code), nil
		}
	}
	return kernel.UnknownZone, nil
}

// Len is the number of zones in the catalog.
func (c *Catalog) Len() int {
	return len(c.boxes)
}
