// Package dashhttp holds the JSON response types served by the dashboard.
package dashhttp

type PlayerState struct {
	Slot  int     `json:"slot"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Alive bool    `json:"alive"`
}

type ObjectiveState struct {
	ObjectiveID int  `json:"objective_id"`
	Team        int  `json:"team"`
	Visible     bool `json:"visible"`
}

type Frame struct {
	TimestampS int              `json:"timestamp_s"`
	Players    []PlayerState    `json:"players"`
	Objectives []ObjectiveState `json:"objectives"`
}

// ObjectiveMarker carries the fixed minimap position of a structure.
// Frames reference markers by objective ID and team.
type ObjectiveMarker struct {
	ObjectiveID int     `json:"objective_id"`
	Team        int     `json:"team"`
	Name        string  `json:"name"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

type ReplayResponse struct {
	MatchID    uint64            `json:"match_id"`
	DurationS  int               `json:"duration_s"`
	StrideS    int               `json:"stride_s"`
	Objectives []ObjectiveMarker `json:"objectives"`
	Frames     []Frame           `json:"frames"`
	FrameCount int               `json:"frame_count"`
}

type SteamProfile struct {
	AccountID uint64 `json:"account_id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

type RankBadge struct {
	Name         string `json:"name"`
	Division     int    `json:"division"`
	DivisionTier int    `json:"division_tier"`
	BadgeURL     string `json:"badge_url"`
}

type PlayerSummary struct {
	TotalMatches int     `json:"total_matches"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	WinRate      float64 `json:"win_rate"`
	AvgKills     float64 `json:"avg_kills"`
	AvgDeaths    float64 `json:"avg_deaths"`
	AvgAssists   float64 `json:"avg_assists"`
}

type HeroUsage struct {
	HeroID  int     `json:"hero_id"`
	Name    string  `json:"name"`
	IconURL string  `json:"icon_url"`
	Matches int     `json:"matches"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"win_rate"`
}

type TrendPoint struct {
	Time       int64   `json:"time"`
	Kills      int     `json:"kills"`
	Deaths     int     `json:"deaths"`
	Assists    int     `json:"assists"`
	KillsAvg   float64 `json:"kills_avg"`
	DeathsAvg  float64 `json:"deaths_avg"`
	AssistsAvg float64 `json:"assists_avg"`
}

type MMRPoint struct {
	Time     int64   `json:"time"`
	Score    float64 `json:"score"`
	Rank     int     `json:"rank"`
	ScoreAvg float64 `json:"score_avg"`
	RankAvg  float64 `json:"rank_avg"`
}

// PerformancePoint is one sample of the account's per-game-time
// averages across its matches.
type PerformancePoint struct {
	GameTimeS   int     `json:"game_time_s"`
	NetWorthAvg float64 `json:"net_worth_avg"`
	KillsAvg    float64 `json:"kills_avg"`
	DeathsAvg   float64 `json:"deaths_avg"`
	AssistsAvg  float64 `json:"assists_avg"`
}

// KillDeathPoint is a minimap location with the number of kills and
// deaths recorded there, in the same game units as replay frames.
type KillDeathPoint struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Kills  int     `json:"kills"`
	Deaths int     `json:"deaths"`
}

type CurvePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type MetricCurve struct {
	Metric string       `json:"metric"`
	Avg    float64      `json:"avg"`
	Curve  []CurvePoint `json:"curve"`
}

type DashboardResponse struct {
	AccountID uint64        `json:"account_id"`
	Fetched   int64         `json:"fetched"`
	Profile   SteamProfile  `json:"profile"`
	Rank      *RankBadge    `json:"rank,omitempty"`
	Summary   PlayerSummary `json:"summary"`
	TopHeroes []HeroUsage   `json:"top_heroes"`
	KDATrend  []TrendPoint  `json:"kda_trend"`
	MMRTrend  []MMRPoint    `json:"mmr_trend"`

	Performance []PerformancePoint `json:"performance,omitempty"`
	KDLocations []KillDeathPoint   `json:"kd_locations,omitempty"`
	Curves      []MetricCurve      `json:"curves,omitempty"`
}
