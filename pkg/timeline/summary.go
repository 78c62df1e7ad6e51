package timeline

import "math"

// Summary is the headline numbers shown next to the floor plan.
type Summary struct {
	Time      float64 `json:"time_in_seconds"`
	Total     int     `json:"total_people"`
	Inside    int     `json:"number_of_people_inside_building"`
	Evacuated int     `json:"number_of_evacuated_people"`
	Matched   bool    `json:"matched"`
}

// Summarize returns whole-person counts at time t. Times outside the
// simulated window report nobody inside, like the floor plan does.
func (s TimeSeries) Summarize(t float64) Summary {
	sum := Summary{Time: t}
	total, err := s.TotalOccupantsAtStep0()
	if err != nil {
		return sum
	}
	sum.Total = int(math.Floor(total))

	rooms, ok := s.OccupancyAtTime(t)
	if !ok {
		return sum
	}
	sum.Matched = true
	inside := InsideAt(rooms)
	sum.Inside = int(math.Floor(inside))
	sum.Evacuated = int(math.Floor(total - inside))
	return sum
}

// Tracker accumulates the number of people who left the building while a
// player steps through the series, mirroring the on-screen counters.
type Tracker struct {
	label   int
	exited  int
	started bool
}

// Observe records the headcount at a newly displayed step. Unmatched times
// reset the current headcount to zero without counting anyone as exited.
func (tr *Tracker) Observe(rooms []RoomOccupancy, ok bool) {
	if !ok {
		tr.label = 0
		tr.started = false
		return
	}
	label := int(math.Floor(InsideAt(rooms)))
	if tr.started {
		tr.exited += tr.label - label
	}
	tr.label = label
	tr.started = true
}

// Inside returns the last observed headcount.
func (tr *Tracker) Inside() int { return tr.label }

// Exited returns the accumulated number of people who left.
func (tr *Tracker) Exited() int { return tr.exited }
