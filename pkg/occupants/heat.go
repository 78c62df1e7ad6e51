package occupants

import (
	"fmt"
	"math"
)

// RGB is an 8-bit colour.
type RGB struct {
	R, G, B uint8
}

// String formats the colour as a CSS rgb() value.
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// RoomDensity returns people per square meter. Rooms without area report 0.
func RoomDensity(people, area float64) float64 {
	if !(area > 0) || math.IsNaN(people) {
		return 0
	}
	return people / area
}

// heatSaturation is the density, in people per square meter, that maps to
// full red.
const heatSaturation = 5.0

// HeatColor shades a room from blue (empty) to red (heatSaturation people
// per square meter or more).
func HeatColor(people, area float64) RGB {
	v := math.Floor(RoomDensity(people, area) * 255 / heatSaturation)
	v = math.Max(0, math.Min(255, v))
	return RGB{R: uint8(v), B: uint8(255 - v)}
}
