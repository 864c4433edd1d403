package replay

import "fmt"

// Calibration is the affine transform from the map API's relative
// coordinates into game-world coordinates. The constants were fitted
// offline against known landmark correspondences (symmetric objective
// pairs, lane endpoints, spawn points); they are configuration, not
// something to re-derive per match.
type Calibration struct {
	CenterX float64
	CenterY float64
	ScaleX  float64
	ScaleY  float64
}

var DefaultCalibration = Calibration{
	CenterX: 0.45,
	CenterY: 0.46,
	ScaleX:  29500,
	ScaleY:  21600,
}

// GamePoint maps a relative map position into game-world coordinates.
// The map's top edge is y-positive in game space, hence the flipped y
// term.
func (c Calibration) GamePoint(leftRelative, topRelative float64) (x, y float64) {
	x = (leftRelative - c.CenterX) * c.ScaleX
	y = (c.CenterY - topRelative) * c.ScaleY

	return x, y
}

// RelativePosition is a map-API coordinate normalized to [0,1] of map
// width/height.
type RelativePosition struct {
	LeftRelative float64
	TopRelative  float64
}

// Destruction records one structure lost during the match.
type Destruction struct {
	ObjectiveID    int
	Team           int
	DestroyedTimeS int
}

// ObjectiveMarker is one structure placed on the minimap, calibrated into
// game-world coordinates. DestroyedTimeS is nil for structures that
// survived the match. Markers are immutable once built.
type ObjectiveMarker struct {
	ObjectiveID    int
	Team           int
	Name           string
	Relative       RelativePosition
	X              float64
	Y              float64
	DestroyedTimeS *int
}

// VisibleAt reports whether the structure is still standing at the given
// timestamp.
func (m ObjectiveMarker) VisibleAt(timestampS int) bool {
	return m.DestroyedTimeS == nil || *m.DestroyedTimeS > timestampS
}

// structureNames is the fixed identity table from team objective ID to
// map-geometry slot name. The gaps in the ID sequence are the API's, not
// ours.
var structureNames = map[int]string{
	1:  "tier1_1",
	3:  "tier1_3",
	4:  "tier1_4",
	5:  "tier2_1",
	7:  "tier2_3",
	8:  "tier2_4",
	10: "titan",
	11: "core",
}

// ObjectiveIDs lists every tracked structure in drawing order.
var ObjectiveIDs = []int{1, 3, 4, 5, 7, 8, 10, 11}

// TeamMarkers joins the map API's static geometry with one team's
// destruction events and returns that side's eight calibrated markers. A
// destruction event whose objective ID is not in the structure table
// fails the whole replay with UnknownObjectiveError, whichever team it
// belongs to.
func TeamMarkers(cal Calibration, team int, geometry map[string]RelativePosition, events []Destruction) ([]ObjectiveMarker, error) {
	destroyed := make(map[int]int, len(events))

	for _, e := range events {
		if _, ok := structureNames[e.ObjectiveID]; !ok {
			return nil, &UnknownObjectiveError{ObjectiveID: e.ObjectiveID}
		}

		if e.Team != team {
			continue
		}

		destroyed[e.ObjectiveID] = e.DestroyedTimeS
	}

	markers := make([]ObjectiveMarker, 0, len(ObjectiveIDs))

	for _, id := range ObjectiveIDs {
		name := structureNames[id]

		key := fmt.Sprintf("team%d_%s", team, name)

		rel, ok := geometry[key]
		if !ok {
			return nil, fmt.Errorf("map geometry has no position %q", key)
		}

		x, y := cal.GamePoint(rel.LeftRelative, rel.TopRelative)

		m := ObjectiveMarker{
			ObjectiveID: id,
			Team:        team,
			Name:        name,
			Relative:    rel,
			X:           x,
			Y:           y,
		}

		if t, ok := destroyed[id]; ok {
			ts := t
			m.DestroyedTimeS = &ts
		}

		markers = append(markers, m)
	}

	return markers, nil
}
