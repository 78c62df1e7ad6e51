package bim

import (
	"errors"
	"fmt"

	"github.com/NikBel3476/evacuation-gui-iced/pkg/geo"
)

// ErrIndexOutOfRange is returned when a level index is outside the building.
var ErrIndexOutOfRange = errors.New("index out of range")

// LevelAt returns the level at index i.
func (b Building) LevelAt(i int) (Level, error) {
	if i < 0 || i >= len(b.Level) {
		return Level{}, fmt.Errorf("level %d of %d: %w", i, len(b.Level), ErrIndexOutOfRange)
	}
	return b.Level[i], nil
}

// ElementByID searches every level for the element with the given id.
func (b Building) ElementByID(id string) (BuildingElement, bool) {
	for _, l := range b.Level {
		if e, ok := l.ElementByID(id); ok {
			return e, true
		}
	}
	return BuildingElement{}, false
}

// ElementCount returns the number of elements over all levels.
func (b Building) ElementCount() int {
	n := 0
	for _, l := range b.Level {
		n += len(l.BuildElement)
	}
	return n
}

// ElementByID returns the element on this level with the given id.
func (l Level) ElementByID(id string) (BuildingElement, bool) {
	for _, e := range l.BuildElement {
		if e.ID == id {
			return e, true
		}
	}
	return BuildingElement{}, false
}

// ElementsOfSign returns the elements classified as sign, in level order.
func (l Level) ElementsOfSign(sign Sign) []BuildingElement {
	var out []BuildingElement
	for _, e := range l.BuildElement {
		if e.Sign == sign {
			out = append(out, e)
		}
	}
	return out
}

// Bounds returns the bounding box over the footprints of every element.
// ok is false when the level has no footprint points at all.
func (l Level) Bounds() (box geo.BoundingBox, ok bool) {
	for _, e := range l.BuildElement {
		fp := e.Footprint()
		if len(fp) == 0 {
			continue
		}
		b := geo.Bounds(fp)
		if !ok {
			box, ok = b, true
			continue
		}
		box = box.Union(b)
	}
	return box, ok
}

// Footprint returns the authoritative outline, XY[0].points, or nil when the
// element carries no rings.
func (e BuildingElement) Footprint() []geo.Point {
	if len(e.XY) == 0 {
		return nil
	}
	return e.XY[0].Points
}

// Polygon returns the footprint as a geo.Polygon.
func (e BuildingElement) Polygon() geo.Polygon {
	return geo.Polygon{Vertices: e.Footprint()}
}

// Area returns the footprint area in square meters.
func (e BuildingElement) Area() float64 {
	return geo.PolygonArea(e.Footprint())
}

// Color is a named fill colour for a building element.
type Color string

const (
	ColorWhite  Color = "white"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorBlue   Color = "blue"
)

// SignColor maps an element classification to its fill colour.
func SignColor(sign Sign) Color {
	switch sign {
	case SignStaircase:
		return ColorGreen
	case SignDoorWay, SignDoorWayInt:
		return ColorYellow
	case SignDoorWayOut:
		return ColorBlue
	default:
		return ColorWhite
	}
}
