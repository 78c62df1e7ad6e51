// Package camera maps building-model coordinates onto a viewport and decides
// which elements of a level are on screen.
package camera

import (
	"errors"
	"fmt"
	"math"

	"github.com/NikBel3476/evacuation-gui-iced/pkg/geo"
)

var (
	// ErrDegenerateBoundingBox is returned when a level's content has zero
	// extent and cannot be fitted.
	ErrDegenerateBoundingBox = errors.New("degenerate bounding box")
	// ErrDegenerateCamera is returned for a camera whose scale is not a
	// positive finite number.
	ErrDegenerateCamera = errors.New("degenerate camera")
	// ErrInvalidViewport is returned for a viewport without positive size.
	ErrInvalidViewport = errors.New("invalid viewport")
	// ErrScaleNotConverged is returned when scale adjustment hits its
	// iteration cap or scale floor.
	ErrScaleNotConverged = errors.New("scale adjustment did not converge")
)

// Camera is the affine transform pixel = model*Scale - Offset.
type Camera struct {
	Offset geo.Point `json:"offset"`
	Scale  float64   `json:"scale"`
}

// Viewport is the drawing surface size in pixels.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Validate returns ErrInvalidViewport unless both sides are positive.
func (vp Viewport) Validate() error {
	if !(vp.Width > 0) || !(vp.Height > 0) || math.IsInf(vp.Width, 0) || math.IsInf(vp.Height, 0) {
		return fmt.Errorf("%w: %gx%g", ErrInvalidViewport, vp.Width, vp.Height)
	}
	return nil
}

// Diagonal returns the viewport diagonal in pixels.
func (vp Viewport) Diagonal() float64 {
	return math.Hypot(vp.Width, vp.Height)
}

// Contains reports whether a pixel lies in [0,Width]x[0,Height].
func (vp Viewport) Contains(px geo.Point) bool {
	return px.X >= 0 && px.X <= vp.Width && px.Y >= 0 && px.Y <= vp.Height
}

// Validate returns ErrDegenerateCamera unless Scale is positive and finite.
func (c Camera) Validate() error {
	if !(c.Scale > 0) || math.IsInf(c.Scale, 0) || !c.Offset.IsFinite() {
		return fmt.Errorf("%w: scale %g", ErrDegenerateCamera, c.Scale)
	}
	return nil
}

// ToPixel maps a model point to viewport pixels.
func (c Camera) ToPixel(p geo.Point) geo.Point {
	return p.Scale(c.Scale).Sub(c.Offset)
}

// ToModel maps a viewport pixel back to model coordinates. The camera must
// be valid.
func (c Camera) ToModel(px geo.Point) geo.Point {
	return px.Add(c.Offset).Scale(1 / c.Scale)
}

// Pan moves the view by a pointer drag of (dx, dy) pixels: content follows
// the pointer.
func (c Camera) Pan(dx, dy float64) Camera {
	c.Offset = c.Offset.Sub(geo.Pt(dx, dy))
	return c
}

// Zoom changes the scale by delta, keeping the offset. A zoom that would
// leave a non-positive scale fails and the camera is returned unchanged.
func (c Camera) Zoom(delta float64) (Camera, error) {
	next := c
	next.Scale += delta
	if err := next.Validate(); err != nil {
		return c, err
	}
	return next, nil
}
