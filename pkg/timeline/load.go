package timeline

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/NikBel3476/evacuation-gui-iced/pkg/bim"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/validation"
)

// ErrInvalidDocument is returned when a time series file does not match the
// schema.
var ErrInvalidDocument = errors.New("invalid time series document")

//go:embed schema.json
var schemaJSON []byte

var schemaValidator = sync.OnceValues(func() (*validation.SchemaValidator, error) {
	return validation.NewSchemaValidator(schemaJSON)
})

// Load reads and parses a simulation result file.
func Load(path string) (*TimeSeries, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading time series file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse checks data against the time series schema and decodes it.
func Parse(data []byte) (*TimeSeries, error) {
	v, err := schemaValidator()
	if err != nil {
		return nil, err
	}
	report, err := v.Check(data)
	if err != nil {
		return nil, fmt.Errorf("parsing time series JSON: %w", err)
	}
	if err := report.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	var s TimeSeries
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing time series JSON: %w", err)
	}
	return &s, nil
}

// Validate checks ordering and density invariants of a series.
func Validate(s *TimeSeries) *validation.Report {
	r := validation.NewReport()
	if len(s.Items) == 0 {
		r.AddWarning(validation.Result{
			Level:   validation.LevelOccupancy,
			Message: "time series has no steps",
			Path:    "items",
		})
		return r
	}

	prev := math.Inf(-1)
	for i, step := range s.Items {
		path := fmt.Sprintf("items[%d]", i)
		if step.Time < prev {
			r.AddError(validation.Result{
				Level:       validation.LevelOccupancy,
				Message:     "step time decreases",
				Path:        path + ".time",
				ActualValue: step.Time,
				Expected:    fmt.Sprintf(">= %g", prev),
			})
		}
		prev = step.Time

		for j, room := range step.Rooms {
			if room.Density < 0 || math.IsNaN(room.Density) || room.Density >= MaxRoomDensity+1 {
				r.AddError(validation.Result{
					Level:       validation.LevelOccupancy,
					Message:     "room density out of range",
					Path:        fmt.Sprintf("%s.rooms[%d].density", path, j),
					ElementID:   room.UUID,
					ActualValue: room.Density,
					Expected:    fmt.Sprintf("0 <= density < %d", MaxRoomDensity+1),
				})
			}
		}
	}

	r.AddInfo(validation.Result{
		Level:   validation.LevelOccupancy,
		Message: fmt.Sprintf("%d steps covering %gs", len(s.Items), s.Duration()),
	})
	return r
}

// ValidateAgainst reports occupancy records that name no element of b.
// Each unknown id is reported once. The outside pseudo-room is always known.
func ValidateAgainst(s *TimeSeries, b *bim.Building) *validation.Report {
	r := validation.NewReport()
	seen := make(map[string]bool)
	for i, step := range s.Items {
		for j, room := range step.Rooms {
			if seen[room.UUID] || bim.IsOutside(room.UUID) {
				continue
			}
			seen[room.UUID] = true
			if _, ok := b.ElementByID(room.UUID); ok {
				continue
			}
			r.AddWarning(validation.Result{
				Level:     validation.LevelOccupancy,
				Message:   "occupancy for a room not in the building",
				Path:      fmt.Sprintf("items[%d].rooms[%d].uuid", i, j),
				ElementID: room.UUID,
			})
		}
	}
	return r
}
