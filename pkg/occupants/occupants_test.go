package occupants

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/NikBel3476/evacuation-gui-iced/pkg/bim"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/geo"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/timeline"
)

const tolerance = 1e-9

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func room(id string, pts ...geo.Point) bim.BuildingElement {
	return bim.BuildingElement{ID: id, Sign: bim.SignRoom, XY: []bim.Ring{{Points: pts}}}
}

// lRoom is a 10x10 square with the 6x6 top-left corner removed.
var lRoom = room("l",
	geo.Pt(0, 0), geo.Pt(10, 0), geo.Pt(10, 10), geo.Pt(6, 10), geo.Pt(6, 4), geo.Pt(0, 4), geo.Pt(0, 0))

var hall = room("hall", geo.Pt(0, 0), geo.Pt(10, 0), geo.Pt(10, 4), geo.Pt(0, 4), geo.Pt(0, 0))

func inside(p geo.Point, e bim.BuildingElement) bool {
	xs, ys := geo.Coordinates(e.Footprint())
	return geo.PointInPolygon(p, xs, ys)&1 == 1
}

func TestGenerateCount(t *testing.T) {
	g := NewGenerator(1, DefaultOptions())
	cases := []struct {
		density float64
		want    int
	}{
		{4.7, 4},
		{0, 0},
		{0.99, 0},
		{1, 1},
		{12, 12},
	}
	for _, tc := range cases {
		pts, err := g.Generate(hall, tc.density)
		if err != nil {
			t.Fatalf("density %g: %v", tc.density, err)
		}
		if len(pts) != tc.want {
			t.Errorf("density %g: expected %d points, got %d", tc.density, tc.want, len(pts))
		}
	}
}

func TestGenerateInvalidDensity(t *testing.T) {
	g := NewGenerator(1, DefaultOptions())
	for _, d := range []float64{-1, -0.5, math.NaN(), math.Inf(1)} {
		if _, err := g.Generate(hall, d); !errors.Is(err, ErrInvalidDensity) {
			t.Errorf("density %g: expected ErrInvalidDensity, got %v", d, err)
		}
	}
}

func TestGenerateDensityAboveCap(t *testing.T) {
	g := NewGenerator(1, DefaultOptions())
	for _, d := range []float64{DefaultMaxOccupants + 1, 1e12, 1e300, math.MaxFloat64} {
		pts, err := g.Generate(hall, d)
		if !errors.Is(err, ErrInvalidDensity) {
			t.Errorf("density %g: expected ErrInvalidDensity, got %v", d, err)
		}
		if pts != nil {
			t.Errorf("density %g: expected no points, got %d", d, len(pts))
		}
	}

	small := NewGenerator(1, Options{MaxOccupants: 4})
	if pts, err := small.Generate(hall, 4.99); err != nil || len(pts) != 4 {
		t.Errorf("expected 4 points at the cap, got %d (%v)", len(pts), err)
	}
	if _, err := small.Generate(hall, 5); !errors.Is(err, ErrInvalidDensity) {
		t.Errorf("expected ErrInvalidDensity above the cap, got %v", err)
	}
}

func TestGenerateInvalidPolygon(t *testing.T) {
	g := NewGenerator(1, DefaultOptions())
	line := room("line", geo.Pt(0, 0), geo.Pt(5, 0), geo.Pt(0, 0))
	if _, err := g.Generate(line, 3); !errors.Is(err, geo.ErrInvalidPolygon) {
		t.Errorf("expected ErrInvalidPolygon, got %v", err)
	}
	if _, err := g.Generate(bim.BuildingElement{ID: "none"}, 3); !errors.Is(err, geo.ErrInvalidPolygon) {
		t.Errorf("expected ErrInvalidPolygon for missing footprint, got %v", err)
	}
}

func TestGenerateContainment(t *testing.T) {
	g := NewGenerator(42, DefaultOptions())
	for trial := 0; trial < 100; trial++ {
		pts, err := g.Generate(lRoom, 7.9)
		if err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
		if len(pts) != 7 {
			t.Fatalf("trial %d: expected 7 points, got %d", trial, len(pts))
		}
		for _, p := range pts {
			if !inside(p, lRoom) {
				t.Fatalf("trial %d: point %v outside room", trial, p)
			}
		}
	}
}

func TestGenerateSamplingWindow(t *testing.T) {
	g := NewGenerator(7, DefaultOptions())
	pts, err := g.Generate(hall, 200)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	// The hall is 10x4: candidates come from [2.5,7.5) x [1,3).
	for _, p := range pts {
		if p.X < 2.5 || p.X >= 7.5 || p.Y < 1 || p.Y >= 3 {
			t.Fatalf("point %v outside the sampling window", p)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := NewGenerator(99, DefaultOptions()).Generate(lRoom, 20)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewGenerator(99, DefaultOptions()).Generate(lRoom, 20)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("point %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestGenerateCentroidFallback(t *testing.T) {
	// A 10x10 square with a thin spike out to x=100. The sampling window
	// [25,75) x [2.5,7.5) misses the room entirely; the centroid stays in
	// the square.
	spiked := room("spiked",
		geo.Pt(0, 0), geo.Pt(100, 0), geo.Pt(100, 0.1), geo.Pt(10, 0.1), geo.Pt(10, 10), geo.Pt(0, 10), geo.Pt(0, 0))

	var fallbacks int
	opts := Options{MaxAttempts: 50, OnFallback: func(id string) {
		if id != "spiked" {
			t.Errorf("unexpected room id %q", id)
		}
		fallbacks++
	}}
	pts, err := NewGenerator(3, opts).Generate(spiked, 3)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(pts) != 3 || fallbacks != 3 {
		t.Fatalf("expected 3 fallback points, got %d points and %d fallbacks", len(pts), fallbacks)
	}
	c := geo.Centroid(spiked.Footprint())
	for _, p := range pts {
		if !approxEqual(p.X, c.X, tolerance) || !approxEqual(p.Y, c.Y, tolerance) {
			t.Errorf("expected centroid %v, got %v", c, p)
		}
		if !inside(p, spiked) {
			t.Errorf("fallback point %v outside room", p)
		}
	}
}

func TestGenerateSamplingExhausted(t *testing.T) {
	// A C-shaped room: the middle of its bounding box and its centroid are
	// both in the open side.
	c := room("c",
		geo.Pt(0, 0), geo.Pt(10, 0), geo.Pt(10, 1), geo.Pt(1, 1), geo.Pt(1, 9), geo.Pt(10, 9), geo.Pt(10, 10), geo.Pt(0, 10), geo.Pt(0, 0))
	_, err := NewGenerator(5, Options{MaxAttempts: 100}).Generate(c, 2)
	if !errors.Is(err, ErrSamplingExhausted) {
		t.Errorf("expected ErrSamplingExhausted, got %v", err)
	}
	// Zero occupants never samples.
	pts, err := NewGenerator(5, Options{MaxAttempts: 100}).Generate(c, 0.5)
	if err != nil || len(pts) != 0 {
		t.Errorf("expected no points and no error, got %d, %v", len(pts), err)
	}
}

func loadFixtures(t *testing.T) (*bim.Building, *timeline.TimeSeries) {
	t.Helper()
	b, err := bim.Load("../bim/testdata/building.json")
	if err != nil {
		t.Fatalf("loading building: %v", err)
	}
	s, err := timeline.Load("../timeline/testdata/series.json")
	if err != nil {
		t.Fatalf("loading series: %v", err)
	}
	return b, s
}

func TestOccupantPointJSON(t *testing.T) {
	data, err := json.Marshal(OccupantPoint{RoomID: "hall", Position: geo.Pt(1, 2)})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"room_id":"hall","position":{"x":1,"y":2}}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}
}

func TestForLevel(t *testing.T) {
	b, s := loadFixtures(t)
	rooms, err := s.OccupancyAtStep(0)
	if err != nil {
		t.Fatal(err)
	}
	pts, err := NewGenerator(11, DefaultOptions()).ForLevel(b.Level[0], rooms)
	if err != nil {
		t.Fatalf("ForLevel: %v", err)
	}

	counts := map[string]int{}
	for _, p := range pts {
		counts[p.RoomID]++
		e, ok := b.Level[0].ElementByID(p.RoomID)
		if !ok {
			t.Fatalf("point tagged with unknown room %q", p.RoomID)
		}
		if !inside(p.Position, e) {
			t.Errorf("point %v outside room %s", p.Position, p.RoomID)
		}
	}
	if counts["11111111-1111-1111-1111-111111111111"] != 6 {
		t.Errorf("expected 6 hall points, got %d", counts["11111111-1111-1111-1111-111111111111"])
	}
	if counts["22222222-2222-2222-2222-222222222222"] != 12 {
		t.Errorf("expected 12 classroom points, got %d", counts["22222222-2222-2222-2222-222222222222"])
	}
	if counts[bim.OutsideID] != 0 {
		t.Errorf("outside pseudo-room has no footprint on the level, got %d points", counts[bim.OutsideID])
	}
}

func TestForLevelNoMatches(t *testing.T) {
	b, s := loadFixtures(t)
	rooms, _ := s.OccupancyAtStep(0)
	pts, err := NewGenerator(11, DefaultOptions()).ForLevel(b.Level[1], rooms)
	if err != nil {
		t.Fatalf("ForLevel: %v", err)
	}
	if len(pts) != 0 {
		t.Errorf("expected no points on a level without occupied rooms, got %d", len(pts))
	}
}

func TestForLevelPropagatesErrors(t *testing.T) {
	b, _ := loadFixtures(t)
	rooms := []timeline.RoomOccupancy{{UUID: "11111111-1111-1111-1111-111111111111", Density: -2}}
	if _, err := NewGenerator(1, DefaultOptions()).ForLevel(b.Level[0], rooms); !errors.Is(err, ErrInvalidDensity) {
		t.Errorf("expected ErrInvalidDensity, got %v", err)
	}
}

func TestForBuilding(t *testing.T) {
	b, s := loadFixtures(t)
	rooms, _ := s.OccupancyAtStep(1)

	got, err := NewGenerator(5, DefaultOptions()).ForBuilding(context.Background(), *b, rooms)
	if err != nil {
		t.Fatalf("ForBuilding: %v", err)
	}
	if len(got) != len(b.Level) {
		t.Fatalf("expected %d levels, got %d", len(b.Level), len(got))
	}
	// 4.7 hall + 9.1 classroom -> 4 + 9.
	if len(got[0]) != 13 {
		t.Errorf("expected 13 points on floor 1, got %d", len(got[0]))
	}
	if len(got[1]) != 0 {
		t.Errorf("expected no points on floor 2, got %d", len(got[1]))
	}

	again, err := NewGenerator(5, DefaultOptions()).ForBuilding(context.Background(), *b, rooms)
	if err != nil {
		t.Fatal(err)
	}
	for i := range got[0] {
		if got[0][i] != again[0][i] {
			t.Fatalf("seeded output differs at %d: %v vs %v", i, got[0][i], again[0][i])
		}
	}
}

func TestForBuildingCancelled(t *testing.T) {
	b, s := loadFixtures(t)
	rooms, _ := s.OccupancyAtStep(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewGenerator(5, DefaultOptions()).ForBuilding(ctx, *b, rooms); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRoomDensity(t *testing.T) {
	if d := RoomDensity(20, 40); !approxEqual(d, 0.5, tolerance) {
		t.Errorf("expected 0.5 people/m2, got %f", d)
	}
	if d := RoomDensity(5, 0); d != 0 {
		t.Errorf("expected 0 for a room without area, got %f", d)
	}
}

func TestHeatColor(t *testing.T) {
	cases := []struct {
		people, area float64
		want         RGB
		css          string
	}{
		{0, 40, RGB{0, 0, 255}, "rgb(0,0,255)"},
		{20, 40, RGB{25, 0, 230}, "rgb(25,0,230)"},
		{200, 40, RGB{255, 0, 0}, "rgb(255,0,0)"},
		{1000, 40, RGB{255, 0, 0}, "rgb(255,0,0)"},
	}
	for _, tc := range cases {
		got := HeatColor(tc.people, tc.area)
		if got != tc.want {
			t.Errorf("HeatColor(%g, %g) = %v, want %v", tc.people, tc.area, got, tc.want)
		}
		if got.String() != tc.css {
			t.Errorf("expected %s, got %s", tc.css, got.String())
		}
	}
}
