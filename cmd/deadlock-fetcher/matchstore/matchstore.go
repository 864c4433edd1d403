package matchstore

import "time"

// Match is one entry of a player's match history joined with hero assets.
type Match struct {
	MatchID   uint64    `json:"match_id"`
	AccountID uint64    `json:"account_id"`
	HeroID    int       `json:"hero_id"`
	HeroName  string    `json:"hero_name"`
	Started   time.Time `json:"started"`
	DurationS int       `json:"duration_s"`
	Won       bool      `json:"won"`
	Kills     int       `json:"kills"`
	Deaths    int       `json:"deaths"`
	Assists   int       `json:"assists"`
	NetWorth  int       `json:"net_worth"`
	LastHits  int       `json:"last_hits"`
	Denies    int       `json:"denies"`
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

// HeroUsage is one row of the top-heroes table.
type HeroUsage struct {
	HeroID  int     `json:"hero_id"`
	Name    string  `json:"name"`
	IconURL string  `json:"icon_url"`
	Matches int     `json:"matches"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"win_rate"`
}

// TrendPoint is one match's raw KDA together with its trailing
// time-window averages.
type TrendPoint struct {
	Time       time.Time `json:"time"`
	Kills      int       `json:"kills"`
	Deaths     int       `json:"deaths"`
	Assists    int       `json:"assists"`
	KillsAvg   float64   `json:"kills_avg"`
	DeathsAvg  float64   `json:"deaths_avg"`
	AssistsAvg float64   `json:"assists_avg"`
}

type MMRPoint struct {
	Time     time.Time `json:"time"`
	Score    float64   `json:"score"`
	Rank     int       `json:"rank"`
	ScoreAvg float64   `json:"score_avg"`
	RankAvg  float64   `json:"rank_avg"`
}

type RankBadge struct {
	Name         string `json:"name"`
	Division     int    `json:"division"`
	DivisionTier int    `json:"division_tier"`
	BadgeURL     string `json:"badge_url"`
}

type SteamProfile struct {
	AccountID uint64 `json:"account_id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// Dashboard is the fully aggregated view of one player, computed by the
// fetcher and rendered by the stats server.
type Dashboard struct {
	AccountID uint64        `json:"account_id"`
	Fetched   time.Time     `json:"fetched"`
	Profile   SteamProfile  `json:"profile"`
	Rank      *RankBadge    `json:"rank,omitempty"`
	Summary   PlayerSummary `json:"summary"`
	TopHeroes []HeroUsage   `json:"top_heroes"`
	KDATrend  []TrendPoint  `json:"kda_trend"`
	MMRTrend  []MMRPoint    `json:"mmr_trend"`
}

type TrackedAccount struct {
	AccountID uint64
	Added     time.Time
}

type StaleAccount struct {
	AccountID   uint64
	LastFetched time.Time
}
