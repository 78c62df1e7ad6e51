package geo

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidPolygon is returned for rings with fewer than 3 effective vertices.
var ErrInvalidPolygon = errors.New("invalid polygon")

// Polygon is a closed ring defined by its vertices in order. The source data
// repeats the first vertex at the end; Vertices may or may not carry that
// closing duplicate, every method below accepts both forms.
type Polygon struct {
	Vertices []Point `json:"points"`
}

// NewPolygon creates a polygon from a list of vertices.
func NewPolygon(pts ...Point) Polygon {
	return Polygon{Vertices: pts}
}

// Ring returns points without the duplicated closing vertex. The input slice
// is not modified.
func Ring(points []Point) []Point {
	n := len(points)
	if n > 1 && points[0] == points[n-1] {
		return points[:n-1]
	}
	return points
}

// Validate returns ErrInvalidPolygon when points describe fewer than 3
// effective vertices.
func Validate(points []Point) error {
	if n := len(Ring(points)); n < 3 {
		return fmt.Errorf("%w: %d effective vertices, need at least 3", ErrInvalidPolygon, n)
	}
	return nil
}

// Coordinates splits a ring into parallel X and Y arrays, dropping the
// closing vertex. The result is the input PointInPolygon expects.
func Coordinates(points []Point) (xs, ys []float64) {
	ring := Ring(points)
	xs = make([]float64, len(ring))
	ys = make([]float64, len(ring))
	for i, p := range ring {
		xs[i] = p.X
		ys[i] = p.Y
	}
	return xs, ys
}

// PointInPolygon returns the number of polygon edges crossed by a horizontal
// ray cast from p towards -X. An odd count means p is inside (c&1 == 1).
//
// xs and ys hold the vertices without the closing duplicate. Points lying
// exactly on an edge or vertex get whatever the half-open rule yields.
func PointInPolygon(p Point, xs, ys []float64) int {
	n := len(xs)
	c := 0
	j := n - 1
	for i := 0; i < n; i++ {
		if ((ys[i] <= p.Y && p.Y < ys[j]) || (ys[j] <= p.Y && p.Y < ys[i])) &&
			p.X > (xs[j]-xs[i])*(p.Y-ys[i])/(ys[j]-ys[i])+xs[i] {
			c++
		}
		j = i
	}
	return c
}

// Len returns the number of effective vertices.
func (p Polygon) Len() int {
	return len(Ring(p.Vertices))
}

// IsEmpty returns true if the polygon has fewer than 3 effective vertices.
func (p Polygon) IsEmpty() bool {
	return p.Len() < 3
}

// Crossings returns the raw crossing count of pt against the polygon.
func (p Polygon) Crossings(pt Point) int {
	xs, ys := Coordinates(p.Vertices)
	return PointInPolygon(pt, xs, ys)
}

// Contains reports whether pt is inside the polygon (odd crossing count).
func (p Polygon) Contains(pt Point) bool {
	return p.Crossings(pt)&1 == 1
}

// BoundingBox returns the axis-aligned bounding box of all vertices.
func (p Polygon) BoundingBox() BoundingBox {
	return Bounds(p.Vertices)
}

// Area returns the unsigned shoelace area.
func (p Polygon) Area() float64 {
	return PolygonArea(p.Vertices)
}

// Centroid returns the area-weighted centroid.
func (p Polygon) Centroid() Point {
	return Centroid(p.Vertices)
}

// SignedArea returns the signed area using the shoelace formula.
// Positive for counterclockwise winding, negative for clockwise.
func SignedArea(points []Point) float64 {
	ring := Ring(points)
	n := len(ring)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += ring[i].X * ring[j].Y
		area -= ring[j].X * ring[i].Y
	}
	return area / 2
}

// PolygonArea returns the unsigned area of a ring in model units squared.
func PolygonArea(points []Point) float64 {
	return math.Abs(SignedArea(points))
}

// Centroid returns the centroid of a ring. Degenerate rings (zero area or
// fewer than 3 vertices) yield the vertex average.
func Centroid(points []Point) Point {
	ring := Ring(points)
	n := len(ring)
	if n == 0 {
		return Point{}
	}
	a := SignedArea(ring)
	if n < 3 || math.Abs(a) < 1e-12 {
		sum := Point{}
		for _, v := range ring {
			sum = sum.Add(v)
		}
		return sum.Scale(1.0 / float64(n))
	}
	cx, cy := 0.0, 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
		cx += (ring[i].X + ring[j].X) * cross
		cy += (ring[i].Y + ring[j].Y) * cross
	}
	f := 1.0 / (6.0 * a)
	return Point{cx * f, cy * f}
}
