package geo

import "math"

// BoundingBox is an axis-aligned rectangle given by its min and max corners.
type BoundingBox struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// MinCoordinates returns the componentwise minimum over points.
// Returns the zero point for an empty list.
func MinCoordinates(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}
	minP := points[0]
	for _, p := range points[1:] {
		if p.X < minP.X {
			minP.X = p.X
		}
		if p.Y < minP.Y {
			minP.Y = p.Y
		}
	}
	return minP
}

// MaxCoordinates returns the componentwise maximum over points.
// Returns the zero point for an empty list.
func MaxCoordinates(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}
	maxP := points[0]
	for _, p := range points[1:] {
		if p.X > maxP.X {
			maxP.X = p.X
		}
		if p.Y > maxP.Y {
			maxP.Y = p.Y
		}
	}
	return maxP
}

// Bounds returns the bounding box of points.
func Bounds(points []Point) BoundingBox {
	return BoundingBox{Min: MinCoordinates(points), Max: MaxCoordinates(points)}
}

// Width returns the horizontal extent.
func (b BoundingBox) Width() float64 {
	return b.Max.X - b.Min.X
}

// Height returns the vertical extent.
func (b BoundingBox) Height() float64 {
	return b.Max.Y - b.Min.Y
}

// Diagonal returns the length of the box diagonal.
func (b BoundingBox) Diagonal() float64 {
	return math.Hypot(b.Width(), b.Height())
}

// Center returns the middle of the box.
func (b BoundingBox) Center() Point {
	return MidPoint(b.Min, b.Max)
}

// Union returns the smallest box containing both b and o.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	return BoundingBox{
		Min: Point{math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y)},
		Max: Point{math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y)},
	}
}

// ContainsPoint reports whether p lies inside the box, edges included.
func (b BoundingBox) ContainsPoint(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}
