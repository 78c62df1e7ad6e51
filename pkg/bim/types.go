// Package bim holds the building information model loaded from a BIM JSON
// file and read-only accessors over it.
package bim

import (
	"github.com/google/uuid"

	"github.com/NikBel3476/evacuation-gui-iced/pkg/geo"
)

// Sign classifies a building element. The set is open: unknown values are
// kept verbatim.
type Sign string

const (
	SignRoom       Sign = "Room"
	SignStaircase  Sign = "Staircase"
	SignDoorWay    Sign = "DoorWay"
	SignDoorWayInt Sign = "DoorWayInt"
	SignDoorWayOut Sign = "DoorWayOut"
)

// IsDoor reports whether the sign is any of the doorway kinds.
func (s Sign) IsDoor() bool {
	return s == SignDoorWay || s == SignDoorWayInt || s == SignDoorWayOut
}

// OutsideID is the pseudo-room the simulation moves evacuated people into.
var OutsideID = uuid.Nil.String()

// IsOutside reports whether id names the outside pseudo-room.
func IsOutside(id string) bool {
	u, err := uuid.Parse(id)
	return err == nil && u == uuid.Nil
}

// Building is the root aggregate of a BIM file.
type Building struct {
	NameBuilding string  `json:"NameBuilding"`
	Level        []Level `json:"Level"`
	Address      Address `json:"Address"`
}

// Address is the postal address of a building.
type Address struct {
	City          string `json:"City"`
	StreetAddress string `json:"StreetAddress"`
	AddInfo       string `json:"AddInfo"`
}

// Level is a single floor.
type Level struct {
	NameLevel    string            `json:"NameLevel"`
	ZLevel       float64           `json:"ZLevel"`
	BuildElement []BuildingElement `json:"BuildElement"`
}

// BuildingElement is one physical feature on a floor: a room, a staircase or
// a doorway.
type BuildingElement struct {
	Type   string   `json:"@"`
	Name   string   `json:"Name"`
	SizeZ  float64  `json:"SizeZ"`
	Sign   Sign     `json:"Sign"`
	Up     string   `json:"Up,omitempty"`
	Down   string   `json:"Down,omitempty"`
	XY     []Ring   `json:"XY"`
	Output []string `json:"Output"`
	ID     string   `json:"Id"`
}

// Ring is one closed polygon ring of an element outline.
type Ring struct {
	Points []geo.Point `json:"points"`
}
