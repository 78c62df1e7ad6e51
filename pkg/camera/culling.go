package camera

import (
	"fmt"

	"github.com/NikBel3476/evacuation-gui-iced/pkg/bim"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/geo"
)

// IsVisible reports whether any vertex of points lands inside the viewport.
//
// Only vertices are tested: a polygon that covers the viewport without
// having a vertex inside it is culled. That is a known limitation kept for
// speed.
func IsVisible(points []geo.Point, cam Camera, vp Viewport) bool {
	for _, p := range points {
		if vp.Contains(cam.ToPixel(p)) {
			return true
		}
	}
	return false
}

// VisibleElements returns the elements of level whose footprint passes
// IsVisible, in level order. A camera with a non-positive scale is an error.
func VisibleElements(level bim.Level, cam Camera, vp Viewport) ([]bim.BuildingElement, error) {
	if err := cam.Validate(); err != nil {
		return nil, err
	}
	if err := vp.Validate(); err != nil {
		return nil, err
	}
	return visible(level, cam, vp), nil
}

func visible(level bim.Level, cam Camera, vp Viewport) []bim.BuildingElement {
	out := make([]bim.BuildingElement, 0, len(level.BuildElement))
	for _, e := range level.BuildElement {
		if IsVisible(e.Footprint(), cam, vp) {
			out = append(out, e)
		}
	}
	return out
}

// FitToLevel returns the camera that scales the level's bounding-box
// diagonal onto the viewport diagonal and puts the box's min corner at the
// viewport origin.
func FitToLevel(level bim.Level, vp Viewport) (Camera, error) {
	if err := vp.Validate(); err != nil {
		return Camera{}, err
	}
	box, ok := level.Bounds()
	if !ok {
		return Camera{}, fmt.Errorf("level %q has no footprints: %w", level.NameLevel, ErrDegenerateBoundingBox)
	}
	diag := box.Diagonal()
	if diag == 0 {
		return Camera{}, fmt.Errorf("level %q collapses to %v: %w", level.NameLevel, box.Min, ErrDegenerateBoundingBox)
	}

	scale := vp.Diagonal() / diag
	return Camera{
		Offset: box.Min.Scale(scale),
		Scale:  scale,
	}, nil
}

// AdjustOptions bounds the scale search of AdjustScaleToFitAll.
type AdjustOptions struct {
	Step          float64 // scale decrement per iteration
	MaxIterations int
	MinScale      float64 // scale never goes below this
}

// DefaultAdjustOptions decrements by 1 for at most 10 000 iterations.
func DefaultAdjustOptions() AdjustOptions {
	return AdjustOptions{Step: 1, MaxIterations: 10_000, MinScale: 1e-6}
}

// AdjustScaleToFitAll lowers the camera scale by opts.Step until every
// element of the level has a vertex on screen. The offset is left as is.
// It fails with ErrScaleNotConverged when the iteration cap or the scale
// floor is reached first.
func AdjustScaleToFitAll(level bim.Level, cam Camera, vp Viewport, opts AdjustOptions) (Camera, error) {
	if err := cam.Validate(); err != nil {
		return cam, err
	}
	if err := vp.Validate(); err != nil {
		return cam, err
	}
	if opts.Step <= 0 {
		opts.Step = DefaultAdjustOptions().Step
	}

	want := len(level.BuildElement)
	for i := 0; ; i++ {
		if len(visible(level, cam, vp)) == want {
			return cam, nil
		}
		if i >= opts.MaxIterations {
			return cam, fmt.Errorf("%w: %d iterations, scale %g", ErrScaleNotConverged, i, cam.Scale)
		}
		next := cam.Scale - opts.Step
		if next < opts.MinScale || next <= 0 {
			return cam, fmt.Errorf("%w: scale floor %g reached", ErrScaleNotConverged, opts.MinScale)
		}
		cam.Scale = next
	}
}
