// Package occupants turns per-room occupancy densities into concrete person
// positions by rejection sampling inside each room footprint.
package occupants

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/NikBel3476/evacuation-gui-iced/pkg/bim"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/geo"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/timeline"
)

var (
	// ErrInvalidDensity is returned for a negative, NaN or infinite density,
	// and for one whose headcount exceeds Options.MaxOccupants.
	ErrInvalidDensity = errors.New("invalid density")
	// ErrSamplingExhausted is returned when a sample could not be placed
	// within the attempt budget and the centroid fallback is outside the room.
	ErrSamplingExhausted = errors.New("sampling exhausted")
)

// DefaultMaxAttempts is the per-sample rejection budget.
const DefaultMaxAttempts = 10_000

// DefaultMaxOccupants caps the points generated for one room.
const DefaultMaxOccupants = timeline.MaxRoomDensity

// Options tunes a Generator.
type Options struct {
	// MaxAttempts is the number of candidates drawn for one sample before
	// falling back to the room centroid.
	MaxAttempts int
	// MaxOccupants is the largest floor(density) Generate accepts.
	MaxOccupants int
	// OnFallback, if set, is called with the room id every time a sample
	// falls back to the centroid. It may be called from several goroutines.
	OnFallback func(roomID string)
}

// DefaultOptions returns Options with DefaultMaxAttempts and
// DefaultMaxOccupants.
func DefaultOptions() Options {
	return Options{MaxAttempts: DefaultMaxAttempts, MaxOccupants: DefaultMaxOccupants}
}

// OccupantPoint is one generated person position.
type OccupantPoint struct {
	RoomID   string    `json:"room_id"`
	Position geo.Point `json:"position"`
}

// Generator draws occupant positions. A Generator is not safe for
// concurrent use; ForBuilding derives one per level.
type Generator struct {
	rng  *rand.Rand
	opts Options
}

// NewGenerator returns a generator seeded with seed. Equal seeds give equal
// output. A zero seed picks a random one.
func NewGenerator(seed uint64, opts Options) *Generator {
	if seed == 0 {
		seed = rand.Uint64()
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.MaxOccupants <= 0 {
		opts.MaxOccupants = DefaultMaxOccupants
	}
	return &Generator{
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		opts: opts,
	}
}

// derive returns an independent generator seeded from g.
func (g *Generator) derive() *Generator {
	return NewGenerator(g.rng.Uint64()|1, g.opts)
}

// Generate returns exactly floor(density) points inside the room footprint.
//
// Candidates are drawn from the middle half of the footprint's bounding box
// on each axis, [c - c/2 + min, c + c/2 + min) with c = (max-min)/2, and kept
// when their crossing count is odd. Points near the walls of a room are
// therefore never produced.
func (g *Generator) Generate(room bim.BuildingElement, density float64) ([]geo.Point, error) {
	if math.IsNaN(density) || math.IsInf(density, 0) || density < 0 {
		return nil, fmt.Errorf("room %s: %w: %g", room.ID, ErrInvalidDensity, density)
	}
	if density >= float64(g.opts.MaxOccupants)+1 {
		return nil, fmt.Errorf("room %s: %w: %g exceeds %d occupants", room.ID, ErrInvalidDensity, density, g.opts.MaxOccupants)
	}
	fp := room.Footprint()
	if err := geo.Validate(fp); err != nil {
		return nil, fmt.Errorf("room %s: %w", room.ID, err)
	}

	n := int(math.Floor(density))
	if n == 0 {
		return []geo.Point{}, nil
	}

	s := newSampler(fp)
	out := make([]geo.Point, 0, n)
	for len(out) < n {
		p, ok := s.draw(g.rng, g.opts.MaxAttempts)
		if !ok {
			c, inside := s.centroid()
			if !inside {
				return nil, fmt.Errorf("room %s: %w after %d attempts", room.ID, ErrSamplingExhausted, g.opts.MaxAttempts)
			}
			if g.opts.OnFallback != nil {
				g.opts.OnFallback(room.ID)
			}
			p = c
		}
		out = append(out, p)
	}
	return out, nil
}

type sampler struct {
	points   []geo.Point
	xs, ys   []float64
	from, to geo.Point
}

func newSampler(fp []geo.Point) *sampler {
	xs, ys := geo.Coordinates(fp)
	lo := geo.MinCoordinates(fp)
	hi := geo.MaxCoordinates(fp)
	c := hi.Sub(lo).Scale(0.5)
	return &sampler{
		points: fp,
		xs:     xs,
		ys:     ys,
		from:   c.Sub(c.Scale(0.5)).Add(lo),
		to:     c.Add(c.Scale(0.5)).Add(lo),
	}
}

func (s *sampler) inside(p geo.Point) bool {
	return geo.PointInPolygon(p, s.xs, s.ys)&1 == 1
}

func (s *sampler) draw(rng *rand.Rand, attempts int) (geo.Point, bool) {
	for i := 0; i < attempts; i++ {
		p := geo.Pt(
			s.from.X+rng.Float64()*(s.to.X-s.from.X),
			s.from.Y+rng.Float64()*(s.to.Y-s.from.Y),
		)
		if s.inside(p) {
			return p, true
		}
	}
	return geo.Point{}, false
}

func (s *sampler) centroid() (geo.Point, bool) {
	c := geo.Centroid(s.points)
	return c, s.inside(c)
}
