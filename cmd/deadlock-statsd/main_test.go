package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"deadlock-analytics/cmd/deadlock-fetcher/matchstore"
	"deadlock-analytics/deadlockhttp"
	"deadlock-analytics/deadlockhttprpc"
	"deadlock-analytics/replay"
)

func testMetadata() *deadlockhttp.GetMatchMetadataResponse {
	return &deadlockhttp.GetMatchMetadataResponse{
		MatchInfo: deadlockhttp.MatchInfo{
			MatchID:   31345678,
			DurationS: 9,
			MatchPaths: deadlockhttp.MatchPaths{
				XResolution: replay.EncodedResolution,
				YResolution: replay.EncodedResolution,
				Paths: []deadlockhttp.MatchPlayerPath{
					{
						PlayerSlot: 0,
						XMin:       -9984, XMax: 9984,
						YMin: -9472, YMax: 9472,
						XPos:   []int{0, 8191, 16383, 16383},
						YPos:   []int{0, 8191, 16383, 16383},
						Health: []int{100, 100, 0, 0},
					},
					{
						PlayerSlot: 6,
						XMin:       -9984, XMax: 9984,
						YMin: -9472, YMax: 9472,
						XPos:   []int{16383, 8191, 0, 0},
						YPos:   []int{16383, 8191, 0, 0},
						Health: []int{100, 100, 100, 100},
					},
				},
			},
			Objectives: []deadlockhttp.MatchObjective{
				{TeamObjectiveID: 1, Team: 0, DestroyedTimeS: 5},
				{TeamObjectiveID: 11, Team: 1, DestroyedTimeS: 0},
			},
		},
	}
}

func testGeometry() *deadlockhttp.GetMapResponse {
	names := []string{
		"tier1_1", "tier1_3", "tier1_4",
		"tier2_1", "tier2_3", "tier2_4",
		"titan", "core",
	}

	positions := make(map[string]deadlockhttp.ObjectivePosition, 2*len(names))

	for team := 0; team <= 1; team++ {
		for i, name := range names {
			key := fmt.Sprintf("team%d_%s", team, name)
			positions[key] = deadlockhttp.ObjectivePosition{
				LeftRelative: 0.3 + 0.05*float64(i),
				TopRelative:  0.4 + 0.02*float64(team),
			}
		}
	}

	return &deadlockhttp.GetMapResponse{
		ObjectivePositions: positions,
		RadiusUnits:        16000,
	}
}

func TestBuildReplay(t *testing.T) {
	h := &Handler{calibration: replay.DefaultCalibration}

	response, err := h.buildReplay(testMetadata(), testGeometry(), 3)
	if err != nil {
		t.Fatalf("build replay: %v", err)
	}

	if response.MatchID != 31345678 {
		t.Fatalf("expected match ID 31345678, got %d", response.MatchID)
	}

	// 9 seconds at a 3 second stride is frames at 0, 3, 6, 9.
	if len(response.Frames) != 4 {
		t.Fatalf("expected 4 frames, got %d", len(response.Frames))
	}

	if response.FrameCount != len(response.Frames) {
		t.Fatalf("frame count %d does not match %d frames", response.FrameCount, len(response.Frames))
	}

	if len(response.Objectives) != 16 {
		t.Fatalf("expected 16 objective markers, got %d", len(response.Objectives))
	}

	for i, f := range response.Frames {
		if f.TimestampS != i*3 {
			t.Fatalf("frame %d has timestamp %d, expected %d", i, f.TimestampS, i*3)
		}

		if len(f.Players) != 2 {
			t.Fatalf("frame %d has %d players, expected 2", i, len(f.Players))
		}

		if len(f.Objectives) != 16 {
			t.Fatalf("frame %d has %d objective states, expected 16", i, len(f.Objectives))
		}
	}

	// Objective 1 on team 0 was destroyed at second 5, so its last
	// visible frame is at second 3.
	for _, f := range response.Frames {
		for _, o := range f.Objectives {
			if o.ObjectiveID != 1 || o.Team != 0 {
				continue
			}

			visible := f.TimestampS < 5

			if o.Visible != visible {
				t.Fatalf("objective 1 team 0 at %ds: visible %t, expected %t", f.TimestampS, o.Visible, visible)
			}
		}
	}
}

func TestBuildReplayUnknownObjective(t *testing.T) {
	h := &Handler{calibration: replay.DefaultCalibration}

	metadata := testMetadata()
	metadata.MatchInfo.Objectives = append(metadata.MatchInfo.Objectives, deadlockhttp.MatchObjective{
		TeamObjectiveID: 99,
		Team:            0,
		DestroyedTimeS:  10,
	})

	_, err := h.buildReplay(metadata, testGeometry(), 3)

	var unknown *replay.UnknownObjectiveError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownObjectiveError, got %v", err)
	}

	if unknown.ObjectiveID != 99 {
		t.Fatalf("expected objective ID 99, got %d", unknown.ObjectiveID)
	}
}

func TestBuildReplayMalformedPath(t *testing.T) {
	h := &Handler{calibration: replay.DefaultCalibration}

	metadata := testMetadata()
	metadata.MatchInfo.MatchPaths.Paths[1].XPos = nil

	_, err := h.buildReplay(metadata, testGeometry(), 3)

	var malformed *replay.MalformedPathError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedPathError, got %v", err)
	}

	if malformed.Slot != 6 {
		t.Fatalf("expected slot 6, got %d", malformed.Slot)
	}
}

type fakeStore struct{}

func (fakeStore) TrackAccount(ctx context.Context, accountID uint64) error { return nil }

func (fakeStore) GetDashboard(ctx context.Context, accountID uint64) (*matchstore.Dashboard, bool, error) {
	return nil, false, nil
}

func (fakeStore) InsertDashboard(ctx context.Context, d matchstore.Dashboard) error { return nil }

func (fakeStore) GetMatchMetadata(ctx context.Context, matchID uint64) (*deadlockhttp.GetMatchMetadataResponse, bool, error) {
	return nil, false, nil
}

func (fakeStore) InsertMatchMetadata(ctx context.Context, metadata *deadlockhttp.GetMatchMetadataResponse) error {
	return nil
}

func (fakeStore) GetHeroes(ctx context.Context) (deadlockhttp.GetHeroesResponse, time.Time, bool, error) {
	return nil, time.Time{}, false, nil
}

func (fakeStore) GetRanks(ctx context.Context) (deadlockhttp.GetRanksResponse, time.Time, bool, error) {
	return nil, time.Time{}, false, nil
}

func (fakeStore) GetMap(ctx context.Context) (*deadlockhttp.GetMapResponse, time.Time, bool, error) {
	return nil, time.Time{}, false, nil
}

func (fakeStore) InsertMap(ctx context.Context, geometry *deadlockhttp.GetMapResponse, updated time.Time) error {
	return nil
}

func TestBuildDashboardResolvesProfile(t *testing.T) {
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/players/199540209/match-history", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"match_id": 31345678, "hero_id": 15, "start_time": 1000, "player_team": 0, "match_result": 0, "player_kills": 9}]`)
	})

	mux.HandleFunc("/v1/players/199540209/mmr-history", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})

	mux.HandleFunc("/v1/players/steam-search", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("search_query"); got != "199540209" {
			t.Errorf("expected search_query=199540209, got %q", got)
		}

		fmt.Fprint(w, `[{"account_id": 199540209, "personaname": "Haze Main", "avatarfull": "https://avatars/haze.jpg"}]`)
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	h := &Handler{
		client:      deadlockhttprpc.NewClient(http.Client{}, ts.URL, ts.URL),
		store:       fakeStore{},
		calibration: replay.DefaultCalibration,
	}

	ctx := context.Background()

	d, matches, err := h.buildDashboard(ctx, 199540209, nil)
	if err != nil {
		t.Fatalf("build dashboard: %s", err)
	}

	if d.Profile.Username != "Haze Main" {
		t.Fatalf("expected resolved profile, got %+v", d.Profile)
	}

	if d.Profile.AccountID != 199540209 || d.Profile.AvatarURL != "https://avatars/haze.jpg" {
		t.Fatalf("profile off: %+v", d.Profile)
	}

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
}

func TestKillDeathsToHTTP(t *testing.T) {
	stats := deadlockhttp.GetKillDeathStatsResponse{
		{PositionX: -4200, PositionY: 1800, Kills: 2},
		{PositionX: 100, PositionY: 100},
		{PositionX: 3100, PositionY: -2650, Deaths: 1},
	}

	points := killDeathsToHTTP(stats)

	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}

	if points[0].X != -4200 || points[0].Kills != 2 {
		t.Fatalf("point off: %+v", points[0])
	}

	if points[1].Y != -2650 || points[1].Deaths != 1 {
		t.Fatalf("point off: %+v", points[1])
	}
}

func TestPerformanceToHTTP(t *testing.T) {
	curve := deadlockhttp.GetPlayerPerformanceCurveResponse{
		{GameTime: 60, NetWorthAvg: 1450.5, KillsAvg: 0.2, DeathsAvg: 0.1, AssistsAvg: 0.3},
	}

	points := performanceToHTTP(curve)

	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}

	if points[0].GameTimeS != 60 || points[0].NetWorthAvg != 1450.5 {
		t.Fatalf("point off: %+v", points[0])
	}
}
