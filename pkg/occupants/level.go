package occupants

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/NikBel3476/evacuation-gui-iced/pkg/bim"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/timeline"
)

// ForLevel generates points for every occupancy record whose uuid names an
// element of level. Records for other rooms are skipped, rooms without a
// record get no points.
func (g *Generator) ForLevel(level bim.Level, rooms []timeline.RoomOccupancy) ([]OccupantPoint, error) {
	var out []OccupantPoint
	for _, occ := range rooms {
		room, ok := level.ElementByID(occ.UUID)
		if !ok {
			continue
		}
		pts, err := g.Generate(room, occ.Density)
		if err != nil {
			return nil, fmt.Errorf("level %q: %w", level.NameLevel, err)
		}
		for _, p := range pts {
			out = append(out, OccupantPoint{RoomID: room.ID, Position: p})
		}
	}
	return out, nil
}

// ForBuilding runs ForLevel for every level concurrently. The result is
// indexed like b.Level. Each level draws from its own generator derived from
// g, so the output for a given seed does not depend on scheduling.
func (g *Generator) ForBuilding(ctx context.Context, b bim.Building, rooms []timeline.RoomOccupancy) ([][]OccupantPoint, error) {
	gens := make([]*Generator, len(b.Level))
	for i := range gens {
		gens[i] = g.derive()
	}

	out := make([][]OccupantPoint, len(b.Level))
	eg, ctx := errgroup.WithContext(ctx)
	for i, level := range b.Level {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pts, err := gens[i].ForLevel(level, rooms)
			if err != nil {
				return err
			}
			out[i] = pts
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
