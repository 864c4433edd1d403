package deadlockhttp

type GetMatchHistoryResponse []MatchHistoryMatch

type MatchHistoryMatch struct {
	AccountID      uint64 `json:"account_id"`
	MatchID        uint64 `json:"match_id"`
	HeroID         int    `json:"hero_id"`
	StartTime      int64  `json:"start_time"`
	MatchDurationS int    `json:"match_duration_s"`
	PlayerTeam     int    `json:"player_team"`
	MatchResult    int    `json:"match_result"`
	PlayerKills    int    `json:"player_kills"`
	PlayerDeaths   int    `json:"player_deaths"`
	PlayerAssists  int    `json:"player_assists"`
	NetWorth       int    `json:"net_worth"`
	LastHits       int    `json:"last_hits"`
	Denies         int    `json:"denies"`
	HeroLevel      int    `json:"hero_level"`
}

type GetMMRHistoryResponse []MMRHistoryEntry

type MMRHistoryEntry struct {
	MatchID      uint64  `json:"match_id"`
	StartTime    int64   `json:"start_time"`
	PlayerScore  float64 `json:"player_score"`
	Rank         int     `json:"rank"`
	Division     int     `json:"division"`
	DivisionTier int     `json:"division_tier"`
}

type GetPlayerStatsMetricsResponse struct {
	Kills          MetricPercentiles `json:"kills"`
	Deaths         MetricPercentiles `json:"deaths"`
	Assists        MetricPercentiles `json:"assists"`
	KD             MetricPercentiles `json:"kd"`
	KDA            MetricPercentiles `json:"kda"`
	NetWorth       MetricPercentiles `json:"net_worth"`
	NetWorthPerMin MetricPercentiles `json:"net_worth_per_min"`
	LastHits       MetricPercentiles `json:"last_hits"`
	Denies         MetricPercentiles `json:"denies"`
	PlayerDamage   MetricPercentiles `json:"player_damage"`
	Accuracy       MetricPercentiles `json:"accuracy"`
	HeadshotRate   MetricPercentiles `json:"headshot_rate"`
}

type MetricPercentiles struct {
	Avg          float64 `json:"avg"`
	Percentile1  float64 `json:"percentile1"`
	Percentile5  float64 `json:"percentile5"`
	Percentile10 float64 `json:"percentile10"`
	Percentile25 float64 `json:"percentile25"`
	Percentile50 float64 `json:"percentile50"`
	Percentile75 float64 `json:"percentile75"`
	Percentile90 float64 `json:"percentile90"`
	Percentile95 float64 `json:"percentile95"`
	Percentile99 float64 `json:"percentile99"`
}

type GetPlayerPerformanceCurveResponse []PerformanceCurvePoint

type PerformanceCurvePoint struct {
	GameTime    int     `json:"game_time"`
	NetWorthAvg float64 `json:"net_worth_avg"`
	KillsAvg    float64 `json:"kills_avg"`
	DeathsAvg   float64 `json:"deaths_avg"`
	AssistsAvg  float64 `json:"assists_avg"`
}

type GetKillDeathStatsResponse []KillDeathLocation

// KillDeathLocation is a map position bucket with the number of kills
// and deaths the player recorded there, in game units.
type KillDeathLocation struct {
	PositionX float64 `json:"position_x"`
	PositionY float64 `json:"position_y"`
	Kills     int     `json:"kills"`
	Deaths    int     `json:"deaths"`
}

type SteamSearchResponse []SteamProfile

type SteamProfile struct {
	AccountID   uint64 `json:"account_id"`
	PersonaName string `json:"personaname"`
	AvatarFull  string `json:"avatarfull"`
	ProfileURL  string `json:"profileurl"`
	CountryCode string `json:"countrycode"`
}

type GetHeroesResponse []Hero

type Hero struct {
	ID     int        `json:"id"`
	Name   string     `json:"name"`
	Images HeroImages `json:"images"`
}

type HeroImages struct {
	IconHeroCard   string `json:"icon_hero_card"`
	IconImageSmall string `json:"icon_image_small"`
	MinimapImage   string `json:"minimap_image"`
	SelectionImage string `json:"selection_image"`
}

type GetRanksResponse []Rank

type Rank struct {
	Tier int    `json:"tier"`
	Name string `json:"name"`

	// Badge image URLs keyed by size, including per-subrank variants
	// such as "small_subrank3".
	Images map[string]string `json:"images"`
}

type GetMapResponse struct {
	ObjectivePositions map[string]ObjectivePosition `json:"objective_positions"`
	RadiusUnits        float64                      `json:"radius_units"`
}

type ObjectivePosition struct {
	LeftRelative float64 `json:"left_relative"`
	TopRelative  float64 `json:"top_relative"`
}

type GetMatchMetadataResponse struct {
	MatchInfo MatchInfo `json:"match_info"`
}

type MatchInfo struct {
	MatchID    uint64           `json:"match_id"`
	StartTime  int64            `json:"start_time"`
	DurationS  int              `json:"duration_s"`
	MatchPaths MatchPaths       `json:"match_paths"`
	Objectives []MatchObjective `json:"objectives"`
	Players    []MatchPlayer    `json:"players"`
}

type MatchPaths struct {
	XResolution int               `json:"x_resolution"`
	YResolution int               `json:"y_resolution"`
	Paths       []MatchPlayerPath `json:"paths"`
}

type MatchPlayerPath struct {
	PlayerSlot int     `json:"player_slot"`
	XMin       float64 `json:"x_min"`
	XMax       float64 `json:"x_max"`
	YMin       float64 `json:"y_min"`
	YMax       float64 `json:"y_max"`
	XPos       []int   `json:"x_pos"`
	YPos       []int   `json:"y_pos"`
	Health     []int   `json:"health"`
}

type MatchObjective struct {
	TeamObjectiveID int `json:"team_objective_id"`
	Team            int `json:"team"`
	DestroyedTimeS  int `json:"destroyed_time_s"`
}

type MatchPlayer struct {
	AccountID  uint64 `json:"account_id"`
	PlayerSlot int    `json:"player_slot"`
	Team       int    `json:"team"`
	HeroID     int    `json:"hero_id"`
	Kills      int    `json:"kills"`
	Deaths     int    `json:"deaths"`
	Assists    int    `json:"assists"`
	NetWorth   int    `json:"net_worth"`
}
