package main

import (
	"context"
	"deadlock-analytics/accountid"
	"deadlock-analytics/cmd/deadlock-fetcher/matchstats"
	"deadlock-analytics/cmd/deadlock-fetcher/matchstore"
	"deadlock-analytics/cmd/deadlock-fetcher/rqlitematchstore"
	"deadlock-analytics/cmd/deadlock-statsd/dashhttp"
	"deadlock-analytics/cmd/deadlock-statsd/httpserveutil"
	"deadlock-analytics/cmd/deadlock-statsd/templateutil"
	"deadlock-analytics/deadlockhttp"
	"deadlock-analytics/deadlockhttprpc"
	"deadlock-analytics/replay"
	"embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"syscall"
	"time"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	flags := NewFlagSet("statsd")

	var rqliteaddr string
	var certpath string
	var keypath string
	var port string
	var address string
	var dataapi string
	var assetsapi string

	flags.StringVar(&rqliteaddr, "rqlite-address", "", "")
	flags.StringVar(&certpath, "cert", "", "")
	flags.StringVar(&keypath, "key", "", "")
	flags.StringVar(&port, "port", "9876", "")
	flags.StringVar(&address, "address", "0.0.0.0", "")
	flags.StringVar(&dataapi, "data-api", "", "")
	flags.StringVar(&assetsapi, "assets-api", "", "")

	ok, err := ParseArgs(flags, args, stderr, "")
	if err != nil {
		return fmt.Errorf("parse args: %w", err)
	}

	if !ok {
		return nil
	}

	if rqliteaddr == "" {
		return fmt.Errorf("-rqlite-address must be set")
	}

	mux := http.NewServeMux()

	pt, err := parseTemplates()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	store, err := rqlitematchstore.New(rqliteaddr)
	if err != nil {
		return fmt.Errorf("new match store: %w", err)
	}

	httpc := http.Client{}

	client := deadlockhttprpc.NewClient(httpc, dataapi, assetsapi)

	h := &Handler{
		templates:   pt,
		store:       store,
		client:      client,
		calibration: replay.DefaultCalibration,
	}

	httpserveutil.Register(mux, stdout, h)

	ctx := context.Background()
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGQUIT, syscall.SIGTERM)
	defer cancel()

	addr := fmt.Sprintf("[%s]:%s", address, port)

	server := httpserveutil.NewServer(addr, certpath, keypath, mux, stdout)

	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("run server: %w", err)
	}

	return nil
}

type Store interface {
	TrackAccount(ctx context.Context, accountID uint64) error
	GetDashboard(ctx context.Context, accountID uint64) (*matchstore.Dashboard, bool, error)
	InsertDashboard(ctx context.Context, d matchstore.Dashboard) error
	GetMatchMetadata(ctx context.Context, matchID uint64) (*deadlockhttp.GetMatchMetadataResponse, bool, error)
	InsertMatchMetadata(ctx context.Context, metadata *deadlockhttp.GetMatchMetadataResponse) error
	GetHeroes(ctx context.Context) (deadlockhttp.GetHeroesResponse, time.Time, bool, error)
	GetRanks(ctx context.Context) (deadlockhttp.GetRanksResponse, time.Time, bool, error)
	GetMap(ctx context.Context) (*deadlockhttp.GetMapResponse, time.Time, bool, error)
	InsertMap(ctx context.Context, geometry *deadlockhttp.GetMapResponse, updated time.Time) error
}

type Handler struct {
	client      *deadlockhttprpc.Client
	templates   PageTemplates
	store       Store
	calibration replay.Calibration
}

var (
	//go:embed static/*
	staticFS embed.FS
)

type recentAccountsCookie struct {
	Accounts []recentAccountsCookieAccount `json:"accounts"`
}

type recentAccountsCookieAccount struct {
	Name      string `json:"name"`
	AccountID uint64 `json:"account_id"`
}

const recentAccountsCookieName = "recent-accounts"

func unmarshalRecentAccountsCookie(r *http.Request, recentAccounts *recentAccountsCookie) (*http.Cookie, error) {
	cookie, err := r.Cookie(recentAccountsCookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			c := &http.Cookie{
				Name:     recentAccountsCookieName,
				Value:    "",
				Path:     "/",
				Secure:   false,
				HttpOnly: false,
			}

			return c, nil
		}

		return nil, fmt.Errorf("parse cookie: %w", err)
	}

	b, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil, fmt.Errorf("base64 decode: %w", err)
	}

	if err := json.Unmarshal(b, recentAccounts); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	return cookie, nil
}

func (h *Handler) serveIndexPage(w http.ResponseWriter, r *http.Request) error {
	type pageData struct {
		RecentAccounts recentAccountsCookie
	}

	var recentAccounts recentAccountsCookie

	if _, err := unmarshalRecentAccountsCookie(r, &recentAccounts); err != nil {
		c := &http.Cookie{
			Name:     recentAccountsCookieName,
			Value:    "",
			Path:     "/",
			Expires:  time.Time{},
			HttpOnly: true,
		}

		http.SetCookie(w, c)
	}

	slices.Reverse(recentAccounts.Accounts)

	data := pageData{
		RecentAccounts: recentAccounts,
	}

	if err := h.templates.index.Execute(w, data); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}

	return nil
}

func (h *Handler) serveSearchPage(w http.ResponseWriter, r *http.Request) error {
	if err := h.templates.search.Execute(w, nil); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}

	return nil
}

func (h *Handler) serveSearchResultsPage(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()

	query := q.Get("name")
	if query == "" {
		return httpserveutil.BadRequest(w, "must specify name")
	}

	ctx := r.Context()

	// Plain account IDs and SteamID64s skip the name search.
	if id, err := accountid.Parse(query); err == nil {
		addr := fmt.Sprintf("/player?accountid=%d", id)

		http.Redirect(w, r, addr, http.StatusPermanentRedirect)
		return nil
	}

	profiles, err := h.client.SearchSteamProfiles(ctx, query)
	if err != nil {
		return httpserveutil.BadRequest(w, "search steam profiles: %w", err)
	}

	type pageData struct {
		Profiles deadlockhttp.SteamSearchResponse
	}

	data := pageData{
		Profiles: profiles,
	}

	if err := h.templates.results.Execute(w, data); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}

	return nil
}

// buildDashboard computes a dashboard live from the upstream API. Used
// when the fetcher has not yet produced one for this account.
func (h *Handler) buildDashboard(ctx context.Context, accountID uint64, heroes deadlockhttp.GetHeroesResponse) (*matchstore.Dashboard, []matchstore.Match, error) {
	history, err := h.client.GetMatchHistory(ctx, accountID)
	if err != nil {
		return nil, nil, fmt.Errorf("get match history: %w", err)
	}

	mmr, err := h.client.GetMMRHistory(ctx, accountID)
	if err != nil {
		return nil, nil, fmt.Errorf("get mmr history: %w", err)
	}

	matches := matchstats.JoinMatches(history, heroes)

	d := &matchstore.Dashboard{
		AccountID: accountID,
		Fetched:   time.Now(),
		Summary:   matchstats.Summarize(matches),
		TopHeroes: matchstats.TopHeroes(matches, heroes, 5),
		KDATrend:  matchstats.KDATrend(matches, matchstats.RollingWindow),
		MMRTrend:  matchstats.MMRTrend(mmr, matchstats.RollingWindow),
	}

	// The steam search matches plain account IDs, so it doubles as a
	// profile lookup. Empty results mean a private profile.
	profiles, err := h.client.SearchSteamProfiles(ctx, strconv.FormatUint(accountID, 10))
	if err != nil {
		return nil, nil, fmt.Errorf("search steam profiles: %w", err)
	}

	if profile, ok := matchstats.FindProfile(profiles, accountID); ok {
		d.Profile = profile
	}

	if len(mmr) > 0 {
		ranks, _, ok, err := h.store.GetRanks(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("get ranks: %w", err)
		}

		if !ok {
			ranks, err = h.client.GetRanks(ctx)
			if err != nil {
				return nil, nil, fmt.Errorf("get ranks from api: %w", err)
			}
		}

		latest := mmr[len(mmr)-1]

		if badge, ok := matchstats.ResolveRankBadge(ranks, latest.Division, latest.DivisionTier); ok {
			d.Rank = badge
		}
	}

	return d, matches, nil
}

func (h *Handler) getHeroes(ctx context.Context) (deadlockhttp.GetHeroesResponse, error) {
	heroes, _, ok, err := h.store.GetHeroes(ctx)
	if err != nil {
		return nil, fmt.Errorf("get heroes: %w", err)
	}

	if !ok {
		heroes, err = h.client.GetHeroes(ctx)
		if err != nil {
			return nil, fmt.Errorf("get heroes from api: %w", err)
		}
	}

	return heroes, nil
}

func (h *Handler) servePlayerPage(w http.ResponseWriter, r *http.Request) error {
	var recentAccounts recentAccountsCookie

	cookie, err := unmarshalRecentAccountsCookie(r, &recentAccounts)
	if err != nil {
		cookie = &http.Cookie{
			Name:     recentAccountsCookieName,
			Value:    "",
			Path:     "/",
			Expires:  time.Time{},
			HttpOnly: true,
		}

		http.SetCookie(w, cookie)
	}

	q := r.URL.Query()

	aid := q.Get("accountid")
	if aid == "" {
		return httpserveutil.BadRequest(w, "must specify accountid")
	}

	accountID, err := accountid.Parse(aid)
	if err != nil {
		return httpserveutil.BadRequest(w, "malformed accountid: %w", err)
	}

	ctx := r.Context()

	heroes, err := h.getHeroes(ctx)
	if err != nil {
		return httpserveutil.InternalError(w, "get heroes: %w", err)
	}

	dashboard, ok, err := h.store.GetDashboard(ctx, accountID)
	if err != nil {
		return httpserveutil.InternalError(w, "get dashboard: %w", err)
	}

	var matches []matchstore.Match

	if ok {
		// Recent matches are not part of the stored dashboard, so fetch
		// them live to keep replay links current.
		history, err := h.client.GetMatchHistory(ctx, accountID)
		if err != nil {
			return httpserveutil.InternalError(w, "get match history: %w", err)
		}

		matches = matchstats.JoinMatches(history, heroes)
	} else {
		dashboard, matches, err = h.buildDashboard(ctx, accountID, heroes)
		if err != nil {
			return httpserveutil.InternalError(w, "build dashboard: %w", err)
		}

		if err := h.store.InsertDashboard(ctx, *dashboard); err != nil {
			return httpserveutil.InternalError(w, "insert dashboard: %w", err)
		}

		// Keep the account fresh from now on.
		if err := h.store.TrackAccount(ctx, accountID); err != nil {
			return httpserveutil.InternalError(w, "track account: %w", err)
		}
	}

	// Most recent first for the match table.
	slices.Reverse(matches)

	if len(matches) > 20 {
		matches = matches[:20]
	}

	{
		name := dashboard.Profile.Username
		if name == "" {
			name = fmt.Sprintf("Player %d", accountID)
		}

		ra := recentAccountsCookieAccount{
			Name:      name,
			AccountID: accountID,
		}

		accounts := make([]recentAccountsCookieAccount, 0, 5)

		for _, a := range recentAccounts.Accounts {
			if a.AccountID == accountID {
				continue
			}

			accounts = append(accounts, a)
		}
		accounts = append(accounts, ra)
		if len(accounts) > 4 {
			accounts = accounts[1:]
		}

		recentAccounts.Accounts = accounts
	}

	b, err := json.Marshal(recentAccounts)
	if err != nil {
		return httpserveutil.InternalError(w, "marshal recent accounts: %w", err)
	}

	cookie.Value = base64.URLEncoding.EncodeToString(b)
	http.SetCookie(w, cookie)

	// The analytics endpoints cover fewer matches than the history
	// endpoint and fail for fresh accounts, so their charts are
	// best-effort.
	var performance []dashhttp.PerformancePoint

	if curve, err := h.client.GetPlayerPerformanceCurve(ctx, accountID); err == nil {
		performance = performanceToHTTP(curve)
	}

	var locations []dashhttp.KillDeathPoint

	if stats, err := h.client.GetKillDeathStats(ctx, accountID); err == nil {
		locations = killDeathsToHTTP(stats)
	}

	format := q.Get("format")

	if format == "json" {
		response := dashboardToHTTP(dashboard)
		response.Performance = performance
		response.KDLocations = locations

		metrics, err := h.client.GetPlayerStatsMetrics(ctx, accountID)
		if err == nil {
			response.Curves = metricCurves(metrics)
		}

		return httpserveutil.WriteJSON(w, http.StatusOK, response)
	}

	type pageData struct {
		AccountID   uint64
		Profile     matchstore.SteamProfile
		Rank        *matchstore.RankBadge
		Summary     matchstore.PlayerSummary
		TopHeroes   []matchstore.HeroUsage
		KDATrend    []matchstore.TrendPoint
		Matches     []matchstore.Match
		Performance []dashhttp.PerformancePoint
		KDStats     template.JS
		Kills       int
		Deaths      int
	}

	data := pageData{
		AccountID:   accountID,
		Profile:     dashboard.Profile,
		Rank:        dashboard.Rank,
		Summary:     dashboard.Summary,
		TopHeroes:   dashboard.TopHeroes,
		KDATrend:    dashboard.KDATrend,
		Matches:     matches,
		Performance: performance,
	}

	if len(locations) > 0 {
		b, err := json.Marshal(locations)
		if err != nil {
			return httpserveutil.InternalError(w, "marshal kill death locations: %w", err)
		}

		data.KDStats = template.JS(b)

		for _, l := range locations {
			if l.Kills > 0 {
				data.Kills++
			}

			if l.Deaths > 0 {
				data.Deaths++
			}
		}
	}

	if err := h.templates.player.Execute(w, data); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}

	return nil
}

// curveMetrics is the subset of percentile metrics rendered as
// distribution curves, in display order.
var curveMetrics = []string{"kda", "net_worth_per_min", "accuracy"}

func metricCurves(metrics *deadlockhttp.GetPlayerStatsMetricsResponse) []dashhttp.MetricCurve {
	byName := map[string]deadlockhttp.MetricPercentiles{
		"kda":               metrics.KDA,
		"net_worth_per_min": metrics.NetWorthPerMin,
		"accuracy":          metrics.Accuracy,
	}

	curves := make([]dashhttp.MetricCurve, 0, len(curveMetrics))

	for _, name := range curveMetrics {
		m := byName[name]

		points := matchstats.DistributionCurve(m, 100)
		if points == nil {
			continue
		}

		curve := dashhttp.MetricCurve{
			Metric: name,
			Avg:    m.Avg,
			Curve:  make([]dashhttp.CurvePoint, 0, len(points)),
		}

		for _, p := range points {
			curve.Curve = append(curve.Curve, dashhttp.CurvePoint{X: p.X, Y: p.Y})
		}

		curves = append(curves, curve)
	}

	return curves
}

func performanceToHTTP(curve deadlockhttp.GetPlayerPerformanceCurveResponse) []dashhttp.PerformancePoint {
	points := make([]dashhttp.PerformancePoint, 0, len(curve))

	for _, p := range curve {
		points = append(points, dashhttp.PerformancePoint{
			GameTimeS:   p.GameTime,
			NetWorthAvg: p.NetWorthAvg,
			KillsAvg:    p.KillsAvg,
			DeathsAvg:   p.DeathsAvg,
			AssistsAvg:  p.AssistsAvg,
		})
	}

	return points
}

func killDeathsToHTTP(stats deadlockhttp.GetKillDeathStatsResponse) []dashhttp.KillDeathPoint {
	points := make([]dashhttp.KillDeathPoint, 0, len(stats))

	for _, l := range stats {
		// Locations with neither kills nor deaths carry nothing worth
		// plotting.
		if l.Kills <= 0 && l.Deaths <= 0 {
			continue
		}

		points = append(points, dashhttp.KillDeathPoint{
			X:      l.PositionX,
			Y:      l.PositionY,
			Kills:  l.Kills,
			Deaths: l.Deaths,
		})
	}

	return points
}

func (h *Handler) getMapGeometry(ctx context.Context) (*deadlockhttp.GetMapResponse, error) {
	geometry, _, ok, err := h.store.GetMap(ctx)
	if err != nil {
		return nil, fmt.Errorf("get map: %w", err)
	}

	if ok {
		return geometry, nil
	}

	geometry, err = h.client.GetMap(ctx)
	if err != nil {
		return nil, fmt.Errorf("get map from api: %w", err)
	}

	if err := h.store.InsertMap(ctx, geometry, time.Now()); err != nil {
		return nil, fmt.Errorf("insert map: %w", err)
	}

	return geometry, nil
}

func (h *Handler) getMatchMetadata(ctx context.Context, matchID uint64) (*deadlockhttp.GetMatchMetadataResponse, error) {
	metadata, ok, err := h.store.GetMatchMetadata(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("get match metadata: %w", err)
	}

	if ok {
		return metadata, nil
	}

	metadata, err = h.client.GetMatchMetadata(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("get match metadata from api: %w", err)
	}

	if err := h.store.InsertMatchMetadata(ctx, metadata); err != nil {
		return nil, fmt.Errorf("insert match metadata: %w", err)
	}

	return metadata, nil
}

func (h *Handler) buildReplay(metadata *deadlockhttp.GetMatchMetadataResponse, geometry *deadlockhttp.GetMapResponse, strideS int) (*dashhttp.ReplayResponse, error) {
	info := metadata.MatchInfo

	paths := make([]replay.PlayerPath, 0, len(info.MatchPaths.Paths))

	for _, p := range info.MatchPaths.Paths {
		path := replay.PlayerPath{
			Slot: p.PlayerSlot,
			Bounds: replay.BoundingBox{
				XMin: p.XMin,
				XMax: p.XMax,
				YMin: p.YMin,
				YMax: p.YMax,
			},
			XPos:   p.XPos,
			YPos:   p.YPos,
			Health: p.Health,
		}

		paths = append(paths, path)
	}

	events := make([]replay.Destruction, 0, len(info.Objectives))

	for _, o := range info.Objectives {
		// A zero destruction time means the structure survived.
		if o.DestroyedTimeS <= 0 {
			continue
		}

		event := replay.Destruction{
			ObjectiveID:    o.TeamObjectiveID,
			Team:           o.Team,
			DestroyedTimeS: o.DestroyedTimeS,
		}

		events = append(events, event)
	}

	positions := make(map[string]replay.RelativePosition, len(geometry.ObjectivePositions))

	for key, pos := range geometry.ObjectivePositions {
		positions[key] = replay.RelativePosition{
			LeftRelative: pos.LeftRelative,
			TopRelative:  pos.TopRelative,
		}
	}

	markers := make([]replay.ObjectiveMarker, 0, 2*len(replay.ObjectiveIDs))

	for team := 0; team <= 1; team++ {
		teamMarkers, err := replay.TeamMarkers(h.calibration, team, positions, events)
		if err != nil {
			return nil, fmt.Errorf("build team %d markers: %w", team, err)
		}

		markers = append(markers, teamMarkers...)
	}

	frames, err := replay.BuildFrames(paths, markers, info.DurationS, strideS)
	if err != nil {
		return nil, fmt.Errorf("build frames: %w", err)
	}

	response := &dashhttp.ReplayResponse{
		MatchID:    info.MatchID,
		DurationS:  info.DurationS,
		StrideS:    strideS,
		Objectives: make([]dashhttp.ObjectiveMarker, 0, len(markers)),
		Frames:     make([]dashhttp.Frame, 0, len(frames)),
		FrameCount: len(frames),
	}

	for _, m := range markers {
		marker := dashhttp.ObjectiveMarker{
			ObjectiveID: m.ObjectiveID,
			Team:        m.Team,
			Name:        m.Name,
			X:           m.X,
			Y:           m.Y,
		}

		response.Objectives = append(response.Objectives, marker)
	}

	for _, f := range frames {
		frame := dashhttp.Frame{
			TimestampS: f.TimestampS,
			Players:    make([]dashhttp.PlayerState, 0, len(f.Players)),
			Objectives: make([]dashhttp.ObjectiveState, 0, len(f.Objectives)),
		}

		for _, p := range f.Players {
			frame.Players = append(frame.Players, dashhttp.PlayerState{
				Slot:  p.Slot,
				X:     p.X,
				Y:     p.Y,
				Alive: p.Alive,
			})
		}

		for _, o := range f.Objectives {
			frame.Objectives = append(frame.Objectives, dashhttp.ObjectiveState{
				ObjectiveID: o.ObjectiveID,
				Team:        o.Team,
				Visible:     o.Visible,
			})
		}

		response.Frames = append(response.Frames, frame)
	}

	return response, nil
}

func (h *Handler) serveReplayPage(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()

	mid := q.Get("matchid")
	if mid == "" {
		return httpserveutil.BadRequest(w, "must specify matchid")
	}

	matchID, err := strconv.ParseUint(mid, 10, 64)
	if err != nil {
		return httpserveutil.BadRequest(w, "malformed matchid: %w", err)
	}

	strideS := replay.DefaultStrideSeconds

	if s := q.Get("stride"); s != "" {
		strideS, err = strconv.Atoi(s)
		if err != nil || strideS <= 0 {
			return httpserveutil.BadRequest(w, "stride must be a positive integer")
		}
	}

	ctx := r.Context()

	metadata, err := h.getMatchMetadata(ctx, matchID)
	if err != nil {
		return httpserveutil.InternalError(w, "get match metadata: %w", err)
	}

	geometry, err := h.getMapGeometry(ctx)
	if err != nil {
		return httpserveutil.InternalError(w, "get map geometry: %w", err)
	}

	response, err := h.buildReplay(metadata, geometry, strideS)
	if err != nil {
		var malformed *replay.MalformedPathError
		if errors.As(err, &malformed) {
			return httpserveutil.UnprocessableEntity(w, "player slot %d has no path data", malformed.Slot)
		}

		var unknown *replay.UnknownObjectiveError
		if errors.As(err, &unknown) {
			return httpserveutil.UnprocessableEntity(w, "unknown objective ID %d in match data", unknown.ObjectiveID)
		}

		return httpserveutil.InternalError(w, "build replay: %w", err)
	}

	format := q.Get("format")

	if format == "json" {
		return httpserveutil.WriteJSON(w, http.StatusOK, response)
	}

	b, err := json.Marshal(response)
	if err != nil {
		return httpserveutil.InternalError(w, "marshal replay: %w", err)
	}

	lastFrame := len(response.Frames) - 1
	if lastFrame < 0 {
		lastFrame = 0
	}

	duration := fmt.Sprintf("%d:%02d", response.DurationS/60, response.DurationS%60)

	type pageData struct {
		MatchID   uint64
		Replay    template.JS
		LastFrame int
		Duration  string
		Extent    float64
	}

	data := pageData{
		MatchID:   matchID,
		Replay:    template.JS(b),
		LastFrame: lastFrame,
		Duration:  duration,
		Extent:    replayExtent(h.calibration),
	}

	if err := h.templates.replay.Execute(w, data); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}

	return nil
}

// replayExtent is the half-width of the square canvas viewport in game
// units, wide enough to contain both calibrated axes.
func replayExtent(cal replay.Calibration) float64 {
	x := cal.ScaleX / 2
	y := cal.ScaleY / 2

	if x > y {
		return x * 1.05
	}

	return y * 1.05
}

func dashboardToHTTP(d *matchstore.Dashboard) *dashhttp.DashboardResponse {
	response := &dashhttp.DashboardResponse{
		AccountID: d.AccountID,
		Fetched:   d.Fetched.UnixMilli(),
		Profile: dashhttp.SteamProfile{
			AccountID: d.Profile.AccountID,
			Username:  d.Profile.Username,
			AvatarURL: d.Profile.AvatarURL,
		},
		Summary: dashhttp.PlayerSummary{
			TotalMatches: d.Summary.TotalMatches,
			Wins:         d.Summary.Wins,
			Losses:       d.Summary.Losses,
			WinRate:      d.Summary.WinRate,
			AvgKills:     d.Summary.AvgKills,
			AvgDeaths:    d.Summary.AvgDeaths,
			AvgAssists:   d.Summary.AvgAssists,
		},
		TopHeroes: make([]dashhttp.HeroUsage, 0, len(d.TopHeroes)),
		KDATrend:  make([]dashhttp.TrendPoint, 0, len(d.KDATrend)),
		MMRTrend:  make([]dashhttp.MMRPoint, 0, len(d.MMRTrend)),
	}

	if d.Rank != nil {
		response.Rank = &dashhttp.RankBadge{
			Name:         d.Rank.Name,
			Division:     d.Rank.Division,
			DivisionTier: d.Rank.DivisionTier,
			BadgeURL:     d.Rank.BadgeURL,
		}
	}

	for _, hu := range d.TopHeroes {
		response.TopHeroes = append(response.TopHeroes, dashhttp.HeroUsage{
			HeroID:  hu.HeroID,
			Name:    hu.Name,
			IconURL: hu.IconURL,
			Matches: hu.Matches,
			Wins:    hu.Wins,
			WinRate: hu.WinRate,
		})
	}

	for _, p := range d.KDATrend {
		response.KDATrend = append(response.KDATrend, dashhttp.TrendPoint{
			Time:       p.Time.UnixMilli(),
			Kills:      p.Kills,
			Deaths:     p.Deaths,
			Assists:    p.Assists,
			KillsAvg:   p.KillsAvg,
			DeathsAvg:  p.DeathsAvg,
			AssistsAvg: p.AssistsAvg,
		})
	}

	for _, p := range d.MMRTrend {
		response.MMRTrend = append(response.MMRTrend, dashhttp.MMRPoint{
			Time:     p.Time.UnixMilli(),
			Score:    p.Score,
			Rank:     p.Rank,
			ScoreAvg: p.ScoreAvg,
			RankAvg:  p.RankAvg,
		})
	}

	return response
}

func (h *Handler) Routes(out io.Writer) map[string]http.Handler {
	return map[string]http.Handler{
		"/":              httpserveutil.Handle(out, h.serveIndexPage),
		"/player":        httpserveutil.Handle(out, h.servePlayerPage),
		"/player/search": httpserveutil.Handle(out, h.serveSearchResultsPage),
		"/search":        httpserveutil.Handle(out, h.serveSearchPage),
		"/replay":        httpserveutil.Handle(out, h.serveReplayPage),
	}
}

func NewFlagSet(prog string) *flag.FlagSet {
	f := flag.NewFlagSet(prog, flag.ContinueOnError)
	f.SetOutput(io.Discard)
	f.Usage = nil

	return f
}

func ParseArgs(flags *flag.FlagSet, args []string, stderr io.Writer, usage string) (bool, error) {
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, usage)
			return false, nil
		}

		return false, fmt.Errorf("argument parsing failure: %w\n\n%s", err, usage)
	}

	return true, nil
}

type PageTemplates struct {
	index   *template.Template
	search  *template.Template
	results *template.Template
	player  *template.Template
	replay  *template.Template
}

func parseTemplates() (PageTemplates, error) {
	pt := PageTemplates{}

	groups := []templateutil.TemplateGroup{
		{
			Files: []string{
				"static/templates/base.html",
				"static/templates/pages/index.html",
			},
			Add: func(t *template.Template) { pt.index = t },
		},
		{
			Files: []string{
				"static/templates/base.html",
				"static/templates/pages/search.html",
			},
			Add: func(t *template.Template) { pt.search = t },
		},
		{
			Files: []string{
				"static/templates/base.html",
				"static/templates/pages/results.html",
			},
			Add: func(t *template.Template) { pt.results = t },
		},
		{
			Files: []string{
				"static/templates/base.html",
				"static/templates/pages/player.html",
			},
			Add: func(t *template.Template) { pt.player = t },
		},
		{
			Files: []string{
				"static/templates/base.html",
				"static/templates/pages/replay.html",
			},
			Add: func(t *template.Template) { pt.replay = t },
		},
	}

	if err := templateutil.ParseFS(staticFS, groups); err != nil {
		return pt, fmt.Errorf("parse templates: %w", err)
	}

	return pt, nil
}
