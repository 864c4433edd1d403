package matchstats_test

import (
	"deadlock-analytics/cmd/deadlock-fetcher/matchstats"
	"deadlock-analytics/cmd/deadlock-fetcher/matchstore"
	"deadlock-analytics/deadlockhttp"
	"math"
	"testing"
	"time"
)

var testHeroes = deadlockhttp.GetHeroesResponse{
	{ID: 15, Name: "Vindicta", Images: deadlockhttp.HeroImages{IconHeroCard: "https://assets/vindicta_card.png"}},
	{ID: 7, Name: "Wraith", Images: deadlockhttp.HeroImages{IconImageSmall: "https://assets/wraith_sm.png"}},
}

func TestJoinMatches(t *testing.T) {
	history := deadlockhttp.GetMatchHistoryResponse{
		{MatchID: 2, HeroID: 7, StartTime: 2000, PlayerTeam: 1, MatchResult: 0, PlayerKills: 3},
		{MatchID: 1, HeroID: 15, StartTime: 1000, PlayerTeam: 0, MatchResult: 0, PlayerKills: 9},
	}

	matches := matchstats.JoinMatches(history, testHeroes)

	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}

	// Sorted oldest first.
	if matches[0].MatchID != 1 || matches[1].MatchID != 2 {
		t.Fatalf("matches not sorted by start time")
	}

	if matches[0].HeroName != "Vindicta" {
		t.Fatalf("hero name not joined: %q", matches[0].HeroName)
	}

	if !matches[0].Won {
		t.Fatalf("team 0 with result 0 should be a win")
	}

	if matches[1].Won {
		t.Fatalf("team 1 with result 0 should be a loss")
	}
}

func TestSummarize(t *testing.T) {
	matches := []matchstore.Match{
		{Won: true, Kills: 10, Deaths: 2, Assists: 4},
		{Won: false, Kills: 2, Deaths: 8, Assists: 6},
		{Won: true, Kills: 6, Deaths: 5, Assists: 8},
		{Won: true, Kills: 2, Deaths: 1, Assists: 2},
	}

	s := matchstats.Summarize(matches)

	if s.TotalMatches != 4 || s.Wins != 3 || s.Losses != 1 {
		t.Fatalf("summary counts off: %+v", s)
	}

	if s.WinRate != 75 {
		t.Fatalf("expected win rate 75, got %f", s.WinRate)
	}

	if s.AvgKills != 5 || s.AvgDeaths != 4 || s.AvgAssists != 5 {
		t.Fatalf("averages off: %+v", s)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := matchstats.Summarize(nil)

	if s.TotalMatches != 0 || s.WinRate != 0 {
		t.Fatalf("empty summary should be zero: %+v", s)
	}
}

func TestKDATrendWindow(t *testing.T) {
	day := 24 * time.Hour
	base := time.Unix(1700000000, 0)

	matches := []matchstore.Match{
		{Started: base, Kills: 10},
		{Started: base.Add(2 * day), Kills: 2},
		// Ten days later: the first two matches fall out of the window.
		{Started: base.Add(12 * day), Kills: 6},
	}

	points := matchstats.KDATrend(matches, matchstats.RollingWindow)

	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}

	if points[0].KillsAvg != 10 {
		t.Fatalf("first point average should be the raw value, got %f", points[0].KillsAvg)
	}

	if points[1].KillsAvg != 6 {
		t.Fatalf("expected window average 6, got %f", points[1].KillsAvg)
	}

	if points[2].KillsAvg != 6 {
		t.Fatalf("old matches should have left the window, got %f", points[2].KillsAvg)
	}
}

func TestMMRTrendSortsInput(t *testing.T) {
	history := deadlockhttp.GetMMRHistoryResponse{
		{StartTime: 3000, PlayerScore: 30, Rank: 3},
		{StartTime: 1000, PlayerScore: 10, Rank: 1},
		{StartTime: 2000, PlayerScore: 20, Rank: 2},
	}

	points := matchstats.MMRTrend(history, matchstats.RollingWindow)

	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}

	if points[0].Score != 10 || points[2].Score != 30 {
		t.Fatalf("points not in chronological order")
	}

	if points[2].ScoreAvg != 20 {
		t.Fatalf("expected running average 20, got %f", points[2].ScoreAvg)
	}
}

func TestTopHeroes(t *testing.T) {
	matches := []matchstore.Match{
		{HeroID: 15, HeroName: "Vindicta", Won: true},
		{HeroID: 15, HeroName: "Vindicta", Won: false},
		{HeroID: 15, HeroName: "Vindicta", Won: true},
		{HeroID: 7, HeroName: "Wraith", Won: true},
	}

	top := matchstats.TopHeroes(matches, testHeroes, 5)

	if len(top) != 2 {
		t.Fatalf("expected 2 heroes, got %d", len(top))
	}

	if top[0].HeroID != 15 || top[0].Matches != 3 || top[0].Wins != 2 {
		t.Fatalf("top hero off: %+v", top[0])
	}

	if math.Abs(top[0].WinRate-200.0/3) > 1e-9 {
		t.Fatalf("win rate off: %f", top[0].WinRate)
	}

	if top[0].IconURL != "https://assets/vindicta_card.png" {
		t.Fatalf("icon not resolved: %q", top[0].IconURL)
	}

	top = matchstats.TopHeroes(matches, testHeroes, 1)

	if len(top) != 1 {
		t.Fatalf("expected truncation to 1 hero, got %d", len(top))
	}
}

func TestResolveRankBadge(t *testing.T) {
	ranks := deadlockhttp.GetRanksResponse{
		{Tier: 7, Name: "Oracle", Images: map[string]string{
			"small":          "https://assets/oracle_sm.png",
			"small_subrank3": "https://assets/oracle_sm3.png",
		}},
	}

	badge, ok := matchstats.ResolveRankBadge(ranks, 7, 3)
	if !ok {
		t.Fatalf("expected badge")
	}

	if badge.Name != "Oracle" || badge.BadgeURL != "https://assets/oracle_sm3.png" {
		t.Fatalf("badge off: %+v", badge)
	}

	badge, ok = matchstats.ResolveRankBadge(ranks, 7, 0)
	if !ok || badge.BadgeURL != "https://assets/oracle_sm.png" {
		t.Fatalf("expected plain badge fallback, got %+v", badge)
	}

	if _, ok := matchstats.ResolveRankBadge(ranks, 2, 1); ok {
		t.Fatalf("expected no badge for unknown division")
	}
}

func TestFindProfile(t *testing.T) {
	profiles := deadlockhttp.SteamSearchResponse{
		{AccountID: 42, PersonaName: "Decoy", AvatarFull: "https://avatars/decoy.jpg"},
		{AccountID: 199540209, PersonaName: "Haze Main", AvatarFull: "https://avatars/haze.jpg"},
	}

	profile, ok := matchstats.FindProfile(profiles, 199540209)
	if !ok {
		t.Fatalf("expected profile")
	}

	if profile.Username != "Haze Main" || profile.AvatarURL != "https://avatars/haze.jpg" {
		t.Fatalf("profile off: %+v", profile)
	}

	if profile.AccountID != 199540209 {
		t.Fatalf("expected account 199540209, got %d", profile.AccountID)
	}

	if _, ok := matchstats.FindProfile(profiles, 7); ok {
		t.Fatalf("expected no profile for unknown account")
	}
}

func TestDistributionCurve(t *testing.T) {
	m := deadlockhttp.MetricPercentiles{
		Avg:          6.2,
		Percentile1:  1,
		Percentile10: 2,
		Percentile25: 4,
		Percentile50: 6,
		Percentile75: 8,
		Percentile90: 10,
		Percentile99: 12,
	}

	points := matchstats.DistributionCurve(m, 101)

	if len(points) != 101 {
		t.Fatalf("expected 101 samples, got %d", len(points))
	}

	for i := 1; i < len(points); i++ {
		if points[i].X <= points[i-1].X {
			t.Fatalf("x samples not strictly increasing")
		}
	}

	// The curve peaks at the median.
	peak := points[0]

	for _, p := range points[1:] {
		if p.Y > peak.Y {
			peak = p
		}
	}

	if math.Abs(peak.X-6) > 0.2 {
		t.Fatalf("expected peak near median 6, got %f", peak.X)
	}
}

func TestDistributionCurveDegenerate(t *testing.T) {
	if points := matchstats.DistributionCurve(deadlockhttp.MetricPercentiles{}, 50); points != nil {
		t.Fatalf("expected nil curve for degenerate percentiles")
	}
}
