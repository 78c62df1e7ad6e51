package camera

import (
	"github.com/NikBel3476/evacuation-gui-iced/pkg/bim"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/geo"
)

// HitTest returns the element under a viewport pixel. The first element
// whose footprint contains the pixel wins, except that a later DoorWay or
// DoorWayInt overrides it: doors sit on top of the rooms they join.
func HitTest(elements []bim.BuildingElement, cam Camera, px geo.Point) (bim.BuildingElement, bool) {
	// Compare in scaled space, before the offset is removed.
	probe := px.Add(cam.Offset)

	var (
		hit   bim.BuildingElement
		found bool
	)
	for _, e := range elements {
		ring := geo.Ring(e.Footprint())
		xs := make([]float64, len(ring))
		ys := make([]float64, len(ring))
		for i, p := range ring {
			xs[i] = p.X * cam.Scale
			ys[i] = p.Y * cam.Scale
		}
		if geo.PointInPolygon(probe, xs, ys)&1 == 0 {
			continue
		}
		if !found {
			hit, found = e, true
			continue
		}
		if e.Sign == bim.SignDoorWay || e.Sign == bim.SignDoorWayInt {
			return e, true
		}
	}
	return hit, found
}
