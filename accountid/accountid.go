package accountid

import (
	"fmt"
	"strconv"
)

// The deadlock API identifies players by account ID (the SteamID3 account
// number); SteamID64 values offset that number by the individual-account
// identifier.
const steamID64Offset = 76561197960265728

func ToSteamID64(accountID uint64) uint64 {
	return accountID + steamID64Offset
}

func FromSteamID64(steamID64 uint64) (uint64, error) {
	if steamID64 < steamID64Offset {
		return 0, fmt.Errorf("%d is below the SteamID64 offset", steamID64)
	}

	return steamID64 - steamID64Offset, nil
}

// Parse accepts either a plain account ID or a SteamID64 and returns the
// account ID.
func Parse(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse id: %w", err)
	}

	if id >= steamID64Offset {
		return id - steamID64Offset, nil
	}

	return id, nil
}
