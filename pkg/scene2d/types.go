package scene2d

import (
	"github.com/NikBel3476/evacuation-gui-iced/pkg/camera"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/timeline"
)

// Frame is one renderer-ready view of a level at a point in simulated time.
// All coordinates are viewport pixels.
type Frame struct {
	Metadata Metadata      `json:"metadata"`
	Camera   camera.Camera `json:"camera"`
	Elements []Element2D   `json:"elements"`
	People   []Person2D    `json:"people"`
	Rooms    []RoomInfo    `json:"rooms"`
}

// Metadata holds frame-level summary data.
type Metadata struct {
	Building    string           `json:"building"`
	Level       string           `json:"level"`
	LevelIndex  int              `json:"level_index"`
	ZLevel      float64          `json:"z_level"`
	Viewport    camera.Viewport  `json:"viewport"`
	AllVisible  bool             `json:"all_visible"`
	Summary     timeline.Summary `json:"summary"`
	GeneratedAt string           `json:"generated_at"`
}

// Element2D is a visible building element with its outline in pixels.
type Element2D struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Sign    string       `json:"sign"`
	Color   string       `json:"color"`
	Heat    string       `json:"heat,omitempty"`
	Polygon [][2]float64 `json:"polygon"`
}

// Person2D is one occupant position.
type Person2D struct {
	RoomID   string     `json:"room_id"`
	Position [2]float64 `json:"position"`
}

// RoomInfo is the per-element detail shown when an element is selected.
type RoomInfo struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	Area           float64 `json:"area"`
	Level          float64 `json:"level"`
	NumberOfPeople int     `json:"number_of_people"`
	Density        float64 `json:"density"`
}
