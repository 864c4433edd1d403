package replay

import "fmt"

// MalformedPathError reports a player path with no position samples. No
// position can be decoded for such a player, so the whole replay fails
// rather than guessing.
type MalformedPathError struct {
	Slot int
}

func (e *MalformedPathError) Error() string {
	return fmt.Sprintf("player slot %d: path has no position samples", e.Slot)
}

// UnknownObjectiveError reports a team objective ID with no entry in the
// structure table. It indicates the API schema moved out from under this
// build; dropping the marker silently would desync the replay from the
// match.
type UnknownObjectiveError struct {
	ObjectiveID int
}

func (e *UnknownObjectiveError) Error() string {
	return fmt.Sprintf("team objective id %d has no structure mapping", e.ObjectiveID)
}
