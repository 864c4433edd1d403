// Package replay turns raw match metadata into a precomputed sequence of
// minimap animation frames: encoded player trajectories are decoded into
// game-world coordinates, static objective positions are calibrated into
// the same coordinate space, and both are merged into time-ordered frame
// snapshots for a rendering layer to draw.
package replay

// EncodedResolution is the shared integer range of encoded path
// coordinates. Every player's x_pos/y_pos values lie in
// [0, EncodedResolution] and scale into that player's bounding box.
const EncodedResolution = 16383

// DefaultStrideSeconds spaces frames three seconds of game time apart,
// bounding the frame count for long matches.
const DefaultStrideSeconds = 3

type BoundingBox struct {
	XMin float64
	XMax float64
	YMin float64
	YMax float64
}

// PlayerPath holds one player's encoded trajectory for a whole match.
// The per-tick slices are aligned by index; Health may legitimately be
// shorter than the position slices. Paths are built once from match
// metadata and never mutated.
type PlayerPath struct {
	Slot   int
	Bounds BoundingBox
	XPos   []int
	YPos   []int
	Health []int
}

// PlayerState is one player's drawable snapshot at a single tick.
type PlayerState struct {
	Slot  int
	X     float64
	Y     float64
	Alive bool
}

func (p PlayerPath) Validate() error {
	if len(p.XPos) == 0 || len(p.YPos) == 0 {
		return &MalformedPathError{Slot: p.Slot}
	}

	return nil
}

// samples is the number of decodable ticks: x and y are aligned by index,
// so the shorter slice bounds both.
func (p PlayerPath) samples() int {
	n := len(p.XPos)
	if len(p.YPos) < n {
		n = len(p.YPos)
	}

	return n
}

// At decodes the player's position and aliveness at tick (seconds into
// the match). Ticks past the end of the path clamp to the last sample,
// freezing the player at their last known position; paths commonly end
// early on elimination or disconnect.
func (p PlayerPath) At(tick int) (PlayerState, error) {
	if err := p.Validate(); err != nil {
		return PlayerState{}, err
	}

	i := tick
	if n := p.samples(); i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}

	state := PlayerState{
		Slot:  p.Slot,
		X:     decodeAxis(p.XPos[i], p.Bounds.XMin, p.Bounds.XMax),
		Y:     decodeAxis(p.YPos[i], p.Bounds.YMin, p.Bounds.YMax),
		Alive: true,
	}

	if len(p.Health) > 0 {
		j := i
		if j >= len(p.Health) {
			j = len(p.Health) - 1
		}

		state.Alive = p.Health[j] > 0
	}

	return state, nil
}

// decodeAxis scales an encoded coordinate into [min, max]. Encoded values
// outside [0, EncodedResolution] are clamped, not rejected: minor API
// encoding drift should not abort an entire replay.
func decodeAxis(encoded int, min, max float64) float64 {
	if encoded < 0 {
		encoded = 0
	}
	if encoded > EncodedResolution {
		encoded = EncodedResolution
	}

	return min + (float64(encoded)/EncodedResolution)*(max-min)
}
