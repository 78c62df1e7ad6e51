package bim

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/NikBel3476/evacuation-gui-iced/pkg/geo"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/validation"
)

// Validate checks the structural invariants the geometric core relies on:
// every footprint has at least 3 effective vertices and element ids are
// unique. Ids that are not UUIDs only produce a warning.
func Validate(b *Building) *validation.Report {
	r := validation.NewReport()

	if len(b.Level) == 0 {
		r.AddError(validation.Result{
			Level:    validation.LevelSchema,
			Message:  "building has no levels",
			Path:     "Level",
			Expected: ">= 1 level",
		})
		return r
	}

	seen := make(map[string]string)
	for li, l := range b.Level {
		if len(l.BuildElement) == 0 {
			r.AddWarning(validation.Result{
				Level:   validation.LevelSchema,
				Message: fmt.Sprintf("level %q has no elements", l.NameLevel),
				Path:    fmt.Sprintf("Level[%d]", li),
			})
		}
		for ei, e := range l.BuildElement {
			path := fmt.Sprintf("Level[%d].BuildElement[%d]", li, ei)
			validateElement(e, path, seen, r)
		}
	}

	r.AddInfo(validation.Result{
		Level:   validation.LevelGeometry,
		Message: fmt.Sprintf("checked %d elements on %d levels", b.ElementCount(), len(b.Level)),
	})
	return r
}

func validateElement(e BuildingElement, path string, seen map[string]string, r *validation.Report) {
	if prev, dup := seen[e.ID]; dup {
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     fmt.Sprintf("duplicate element id (first seen at %s)", prev),
			Path:        path,
			ElementID:   e.ID,
			ActualValue: e.ID,
		})
	} else {
		seen[e.ID] = path
	}

	if _, err := uuid.Parse(e.ID); err != nil {
		r.AddWarning(validation.Result{
			Level:       validation.LevelSchema,
			Message:     "element id is not a UUID",
			Path:        path + ".Id",
			ElementID:   e.ID,
			ActualValue: e.ID,
		})
	}

	fp := e.Footprint()
	if err := geo.Validate(fp); err != nil {
		r.AddError(validation.Result{
			Level:       validation.LevelGeometry,
			Message:     err.Error(),
			Path:        path + ".XY[0]",
			ElementID:   e.ID,
			ActualValue: len(fp),
			Expected:    ">= 3 effective vertices",
		})
		return
	}
	for _, p := range fp {
		if !p.IsFinite() {
			r.AddError(validation.Result{
				Level:       validation.LevelGeometry,
				Message:     "footprint has a non-finite coordinate",
				Path:        path + ".XY[0]",
				ElementID:   e.ID,
				ActualValue: p,
			})
			return
		}
	}
	if e.Area() == 0 {
		r.AddWarning(validation.Result{
			Level:     validation.LevelGeometry,
			Message:   "footprint has zero area",
			Path:      path + ".XY[0]",
			ElementID: e.ID,
		})
	}
}
