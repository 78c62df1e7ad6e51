// Package timeline gives read-only access to the per-step room occupancy
// produced by the evacuation simulation.
package timeline

import (
	"errors"
	"fmt"
	"math"

	"github.com/NikBel3476/evacuation-gui-iced/pkg/bim"
)

// ErrIndexOutOfRange is returned when a step index is outside the series.
var ErrIndexOutOfRange = errors.New("index out of range")

// MaxRoomDensity is the largest headcount a single room record may carry.
const MaxRoomDensity = 100_000

// RoomOccupancy is the expected headcount of one room at one instant.
// Density is fractional.
type RoomOccupancy struct {
	UUID    string  `json:"uuid"`
	Density float64 `json:"density"`
}

// DoorState is the flow through one door at one instant.
type DoorState struct {
	UUID  string  `json:"uuid"`
	From  string  `json:"from"`
	NFrom float64 `json:"nfrom"`
}

// TimeStep is the simulation state at Time seconds.
type TimeStep struct {
	Time  float64         `json:"time"`
	Rooms []RoomOccupancy `json:"rooms"`
	Doors []DoorState     `json:"doors"`
}

// TimeSeries is the ordered simulation output, Items sorted by Time.
type TimeSeries struct {
	Items []TimeStep `json:"items"`
}

// OccupancyAtTime returns the rooms of the first step whose floored time
// equals floor(t). ok is false when no step matches; callers treat that as
// an empty building.
func (s TimeSeries) OccupancyAtTime(t float64) (rooms []RoomOccupancy, ok bool) {
	want := math.Floor(t)
	for _, step := range s.Items {
		if math.Floor(step.Time) == want {
			return step.Rooms, true
		}
	}
	return nil, false
}

// OccupancyAtStep returns the rooms of step i.
func (s TimeSeries) OccupancyAtStep(i int) ([]RoomOccupancy, error) {
	if i < 0 || i >= len(s.Items) {
		return nil, fmt.Errorf("step %d of %d: %w", i, len(s.Items), ErrIndexOutOfRange)
	}
	return s.Items[i].Rooms, nil
}

// TotalOccupantsAtStep0 sums density over every room of the first step. It
// is the population baseline for counting evacuated people.
func (s TimeSeries) TotalOccupantsAtStep0() (float64, error) {
	rooms, err := s.OccupancyAtStep(0)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, r := range rooms {
		total += r.Density
	}
	return total, nil
}

// Duration returns the time of the last step, or 0 for an empty series.
func (s TimeSeries) Duration() float64 {
	if len(s.Items) == 0 {
		return 0
	}
	return s.Items[len(s.Items)-1].Time
}

// InsideAt sums density over rooms, skipping the outside pseudo-room.
func InsideAt(rooms []RoomOccupancy) float64 {
	total := 0.0
	for _, r := range rooms {
		if bim.IsOutside(r.UUID) {
			continue
		}
		total += r.Density
	}
	return total
}

// DensityOf returns the density recorded for room id, or 0 when absent.
func DensityOf(rooms []RoomOccupancy, id string) float64 {
	for _, r := range rooms {
		if r.UUID == id {
			return r.Density
		}
	}
	return 0
}
