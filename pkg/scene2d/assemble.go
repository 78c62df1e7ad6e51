// Package scene2d assembles renderer payloads: the visible part of a level,
// coloured and projected to pixels, with the occupants of the displayed
// time step.
package scene2d

import (
	"errors"
	"math"
	"time"

	"github.com/NikBel3476/evacuation-gui-iced/pkg/bim"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/camera"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/geo"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/occupants"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/timeline"
)

// DefaultViewport is the drawing surface used when a request leaves it unset.
var DefaultViewport = camera.Viewport{Width: 900, Height: 900}

// FrameRequest selects what to draw.
type FrameRequest struct {
	Level    int
	Time     float64
	Viewport camera.Viewport
	// Camera overrides the automatic fit when set.
	Camera *camera.Camera
	Adjust camera.AdjustOptions
}

// Assemble builds the frame for req. Without an explicit camera the level is
// fitted to the viewport and then zoomed out until every element shows; if
// that search gives up the fitted camera is used and AllVisible is false.
//
// Occupants are generated only for visible rooms. A time outside the
// simulated window yields an empty building.
func Assemble(b *bim.Building, s *timeline.TimeSeries, req FrameRequest, gen *occupants.Generator) (*Frame, error) {
	level, err := b.LevelAt(req.Level)
	if err != nil {
		return nil, err
	}
	vp := req.Viewport
	if vp == (camera.Viewport{}) {
		vp = DefaultViewport
	}

	cam, allVisible, err := resolveCamera(level, vp, req)
	if err != nil {
		return nil, err
	}

	shown, err := camera.VisibleElements(level, cam, vp)
	if err != nil {
		return nil, err
	}
	rooms, _ := s.OccupancyAtTime(req.Time)

	view := bim.Level{NameLevel: level.NameLevel, ZLevel: level.ZLevel, BuildElement: shown}
	people, err := gen.ForLevel(view, rooms)
	if err != nil {
		return nil, err
	}

	return &Frame{
		Metadata: Metadata{
			Building:    b.NameBuilding,
			Level:       level.NameLevel,
			LevelIndex:  req.Level,
			ZLevel:      level.ZLevel,
			Viewport:    vp,
			AllVisible:  allVisible,
			Summary:     s.Summarize(req.Time),
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		},
		Camera:   cam,
		Elements: assembleElements(shown, rooms, cam),
		People:   assemblePeople(people, cam),
		Rooms:    assembleRooms(shown, rooms, level.ZLevel),
	}, nil
}

func resolveCamera(level bim.Level, vp camera.Viewport, req FrameRequest) (camera.Camera, bool, error) {
	if req.Camera != nil {
		cam := *req.Camera
		if err := cam.Validate(); err != nil {
			return cam, false, err
		}
		if err := vp.Validate(); err != nil {
			return cam, false, err
		}
		shown, _ := camera.VisibleElements(level, cam, vp)
		return cam, len(shown) == len(level.BuildElement), nil
	}

	fit, err := camera.FitToLevel(level, vp)
	if err != nil {
		return fit, false, err
	}
	opts := req.Adjust
	if opts == (camera.AdjustOptions{}) {
		opts = camera.DefaultAdjustOptions()
	}
	cam, err := camera.AdjustScaleToFitAll(level, fit, vp, opts)
	if errors.Is(err, camera.ErrScaleNotConverged) {
		return fit, false, nil
	}
	if err != nil {
		return fit, false, err
	}
	return cam, true, nil
}

func assembleElements(shown []bim.BuildingElement, rooms []timeline.RoomOccupancy, cam camera.Camera) []Element2D {
	result := make([]Element2D, 0, len(shown))
	for _, e := range shown {
		el := Element2D{
			ID:      e.ID,
			Name:    e.Name,
			Sign:    string(e.Sign),
			Color:   string(bim.SignColor(e.Sign)),
			Polygon: pointsToCoords(e.Footprint(), cam),
		}
		if e.Sign == bim.SignRoom || e.Sign == bim.SignStaircase {
			el.Heat = occupants.HeatColor(timeline.DensityOf(rooms, e.ID), e.Area()).String()
		}
		result = append(result, el)
	}
	return result
}

func assemblePeople(people []occupants.OccupantPoint, cam camera.Camera) []Person2D {
	result := make([]Person2D, 0, len(people))
	for _, p := range people {
		px := cam.ToPixel(p.Position)
		result = append(result, Person2D{
			RoomID:   p.RoomID,
			Position: [2]float64{px.X, px.Y},
		})
	}
	return result
}

func assembleRooms(shown []bim.BuildingElement, rooms []timeline.RoomOccupancy, z float64) []RoomInfo {
	result := make([]RoomInfo, 0, len(shown))
	for _, e := range shown {
		result = append(result, NewRoomInfo(e, rooms, z))
	}
	return result
}

// NewRoomInfo summarises element e at elevation z from the occupancy
// records rooms. NumberOfPeople is the floored density.
func NewRoomInfo(e bim.BuildingElement, rooms []timeline.RoomOccupancy, z float64) RoomInfo {
	people := timeline.DensityOf(rooms, e.ID)
	area := e.Area()
	return RoomInfo{
		ID:             e.ID,
		Name:           e.Name,
		Type:           string(e.Sign),
		Area:           area,
		Level:          z,
		NumberOfPeople: int(math.Floor(people)),
		Density:        occupants.RoomDensity(people, area),
	}
}

// pointsToCoords projects model points to a [][2]float64 pixel list.
func pointsToCoords(pts []geo.Point, cam camera.Camera) [][2]float64 {
	coords := make([][2]float64, len(pts))
	for i, p := range pts {
		px := cam.ToPixel(p)
		coords[i] = [2]float64{px.X, px.Y}
	}
	return coords
}
