// Package matchstats holds the pure aggregation steps between raw API
// payloads and the dashboard: match-history joins, summary and rolling
// statistics, and distribution-curve sampling. Nothing here does I/O.
package matchstats

import (
	"deadlock-analytics/cmd/deadlock-fetcher/matchstore"
	"deadlock-analytics/deadlockhttp"
	"math"
	"sort"
	"strconv"
	"time"
)

// RollingWindow is the trailing time window used for trend averages.
const RollingWindow = 7 * 24 * time.Hour

// JoinMatches converts raw match history into store matches, resolving
// hero names from the assets payload. Heroes missing from the assets list
// keep an empty name; the assets endpoint fails often enough that match
// history must survive without it.
func JoinMatches(history deadlockhttp.GetMatchHistoryResponse, heroes deadlockhttp.GetHeroesResponse) []matchstore.Match {
	names := make(map[int]string, len(heroes))

	for _, h := range heroes {
		names[h.ID] = h.Name
	}

	matches := make([]matchstore.Match, 0, len(history))

	for _, m := range history {
		matches = append(matches, matchstore.Match{
			MatchID:   m.MatchID,
			AccountID: m.AccountID,
			HeroID:    m.HeroID,
			HeroName:  names[m.HeroID],
			Started:   time.Unix(m.StartTime, 0),
			DurationS: m.MatchDurationS,
			Won:       m.PlayerTeam == m.MatchResult,
			Kills:     m.PlayerKills,
			Deaths:    m.PlayerDeaths,
			Assists:   m.PlayerAssists,
			NetWorth:  m.NetWorth,
			LastHits:  m.LastHits,
			Denies:    m.Denies,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Started.Before(matches[j].Started)
	})

	return matches
}

func Summarize(matches []matchstore.Match) matchstore.PlayerSummary {
	var s matchstore.PlayerSummary

	s.TotalMatches = len(matches)

	if len(matches) == 0 {
		return s
	}

	var kills, deaths, assists int

	for _, m := range matches {
		if m.Won {
			s.Wins++
		} else {
			s.Losses++
		}

		kills += m.Kills
		deaths += m.Deaths
		assists += m.Assists
	}

	n := float64(len(matches))

	s.WinRate = float64(s.Wins) / n * 100
	s.AvgKills = float64(kills) / n
	s.AvgDeaths = float64(deaths) / n
	s.AvgAssists = float64(assists) / n

	return s
}

// KDATrend computes each match's trailing window average of kills, deaths
// and assists. Matches must be ordered oldest first (JoinMatches sorts).
func KDATrend(matches []matchstore.Match, window time.Duration) []matchstore.TrendPoint {
	points := make([]matchstore.TrendPoint, 0, len(matches))

	var kills, deaths, assists int
	start := 0

	for i, m := range matches {
		kills += m.Kills
		deaths += m.Deaths
		assists += m.Assists

		for matches[start].Started.Before(m.Started.Add(-window)) {
			kills -= matches[start].Kills
			deaths -= matches[start].Deaths
			assists -= matches[start].Assists
			start++
		}

		n := float64(i - start + 1)

		points = append(points, matchstore.TrendPoint{
			Time:       m.Started,
			Kills:      m.Kills,
			Deaths:     m.Deaths,
			Assists:    m.Assists,
			KillsAvg:   float64(kills) / n,
			DeathsAvg:  float64(deaths) / n,
			AssistsAvg: float64(assists) / n,
		})
	}

	return points
}

// MMRTrend mirrors KDATrend for MMR history entries.
func MMRTrend(history deadlockhttp.GetMMRHistoryResponse, window time.Duration) []matchstore.MMRPoint {
	entries := make([]deadlockhttp.MMRHistoryEntry, len(history))
	copy(entries, history)

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].StartTime < entries[j].StartTime
	})

	points := make([]matchstore.MMRPoint, 0, len(entries))

	var score, rank float64
	start := 0

	for i, e := range entries {
		score += e.PlayerScore
		rank += float64(e.Rank)

		cutoff := time.Unix(e.StartTime, 0).Add(-window).Unix()

		for entries[start].StartTime < cutoff {
			score -= entries[start].PlayerScore
			rank -= float64(entries[start].Rank)
			start++
		}

		n := float64(i - start + 1)

		points = append(points, matchstore.MMRPoint{
			Time:     time.Unix(e.StartTime, 0),
			Score:    e.PlayerScore,
			Rank:     e.Rank,
			ScoreAvg: score / n,
			RankAvg:  rank / n,
		})
	}

	return points
}

// TopHeroes ranks heroes by matches played and returns the first n.
func TopHeroes(matches []matchstore.Match, heroes deadlockhttp.GetHeroesResponse, n int) []matchstore.HeroUsage {
	byHero := make(map[int]*matchstore.HeroUsage)

	for _, m := range matches {
		u, ok := byHero[m.HeroID]
		if !ok {
			u = &matchstore.HeroUsage{
				HeroID: m.HeroID,
				Name:   m.HeroName,
			}

			byHero[m.HeroID] = u
		}

		u.Matches++

		if m.Won {
			u.Wins++
		}
	}

	icons := make(map[int]string, len(heroes))

	for _, h := range heroes {
		icons[h.ID] = heroIcon(h.Images)
	}

	usage := make([]matchstore.HeroUsage, 0, len(byHero))

	for _, u := range byHero {
		u.WinRate = float64(u.Wins) / float64(u.Matches) * 100
		u.IconURL = icons[u.HeroID]
		usage = append(usage, *u)
	}

	sort.Slice(usage, func(i, j int) bool {
		if usage[i].Matches != usage[j].Matches {
			return usage[i].Matches > usage[j].Matches
		}

		return usage[i].Name < usage[j].Name
	})

	if len(usage) > n {
		usage = usage[:n]
	}

	return usage
}

// heroIcon picks the first populated image in order of preference.
func heroIcon(images deadlockhttp.HeroImages) string {
	for _, u := range []string{images.IconHeroCard, images.IconImageSmall, images.MinimapImage, images.SelectionImage} {
		if u != "" {
			return u
		}
	}

	return ""
}

// ResolveRankBadge finds the badge for a division/tier pair in the ranks
// asset payload, preferring the subrank-specific image.
func ResolveRankBadge(ranks deadlockhttp.GetRanksResponse, division, divisionTier int) (*matchstore.RankBadge, bool) {
	for _, r := range ranks {
		if r.Tier != division {
			continue
		}

		badge := &matchstore.RankBadge{
			Name:         r.Name,
			Division:     division,
			DivisionTier: divisionTier,
		}

		if divisionTier > 0 {
			key := "small_subrank" + strconv.Itoa(divisionTier)

			if url, ok := r.Images[key]; ok && url != "" {
				badge.BadgeURL = url
				return badge, true
			}
		}

		badge.BadgeURL = r.Images["small"]

		return badge, true
	}

	return nil, false
}

// FindProfile picks the steam profile matching accountID out of a
// search result. The steam search is the only profile lookup the API
// offers; it matches plain account IDs as well as names.
func FindProfile(profiles deadlockhttp.SteamSearchResponse, accountID uint64) (matchstore.SteamProfile, bool) {
	for _, p := range profiles {
		if p.AccountID != accountID {
			continue
		}

		profile := matchstore.SteamProfile{
			AccountID: p.AccountID,
			Username:  p.PersonaName,
			AvatarURL: p.AvatarFull,
		}

		return profile, true
	}

	return matchstore.SteamProfile{}, false
}

// CurvePoint is one sample of the community distribution curve.
type CurvePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistributionCurve samples a normal approximation of the community's
// distribution for one metric. The median is the center; the spread is
// estimated from the interquartile range, falling back to wider
// percentile spans when the quartiles are degenerate.
func DistributionCurve(m deadlockhttp.MetricPercentiles, samples int) []CurvePoint {
	if samples < 2 {
		samples = 2
	}

	mean := m.Percentile50

	var std float64

	switch {
	case m.Percentile75-m.Percentile25 > 0:
		std = (m.Percentile75 - m.Percentile25) / 1.35
	case m.Percentile90-m.Percentile10 > 0:
		std = (m.Percentile90 - m.Percentile10) / 2.56
	default:
		std = (m.Percentile99 - m.Percentile1) / 6
	}

	if std <= 0 {
		return nil
	}

	lo := m.Percentile1 * 0.9
	hi := m.Percentile99 * 1.1

	if hi <= lo {
		lo = mean - 4*std
		hi = mean + 4*std
	}

	points := make([]CurvePoint, 0, samples)
	step := (hi - lo) / float64(samples-1)

	for i := 0; i < samples; i++ {
		x := lo + float64(i)*step

		points = append(points, CurvePoint{
			X: x,
			Y: normPDF(x, mean, std),
		})
	}

	return points
}

func normPDF(x, mean, std float64) float64 {
	z := (x - mean) / std

	return math.Exp(-z*z/2) / (std * math.Sqrt(2*math.Pi))
}
