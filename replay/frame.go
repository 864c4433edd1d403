package replay

// ObjectiveState is one structure's visibility at a single tick.
type ObjectiveState struct {
	ObjectiveID int
	Team        int
	Visible     bool
}

// Frame is a complete drawable snapshot of the match at one timestamp.
// Frames are value objects: built once, never mutated, consumed in
// timestamp order.
type Frame struct {
	TimestampS int
	Players    []PlayerState
	Objectives []ObjectiveState
}

// BuildFrames merges decoded player paths and calibrated markers into the
// full, time-ordered frame sequence spanning [0, durationS] at the given
// stride. The whole replay is precomputed as a plain slice rather than
// streamed so consumers can seek anywhere on the timeline as well as play
// forward. For identical inputs the output is identical; any malformed
// path aborts construction with no partial sequence.
func BuildFrames(paths []PlayerPath, markers []ObjectiveMarker, durationS, strideS int) ([]Frame, error) {
	if strideS <= 0 {
		strideS = DefaultStrideSeconds
	}

	if durationS < 0 {
		durationS = 0
	}

	for _, p := range paths {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}

	frames := make([]Frame, 0, durationS/strideS+1)

	// Matches shorter than one stride still get the initial frame.
	for ts := 0; ts <= durationS; ts += strideS {
		frame := Frame{
			TimestampS: ts,
			Players:    make([]PlayerState, 0, len(paths)),
			Objectives: make([]ObjectiveState, 0, len(markers)),
		}

		for _, p := range paths {
			state, err := p.At(ts)
			if err != nil {
				return nil, err
			}

			frame.Players = append(frame.Players, state)
		}

		for _, m := range markers {
			state := ObjectiveState{
				ObjectiveID: m.ObjectiveID,
				Team:        m.Team,
				Visible:     m.VisibleAt(ts),
			}

			frame.Objectives = append(frame.Objectives, state)
		}

		frames = append(frames, frame)
	}

	return frames, nil
}
