package main

import (
	"context"
	"deadlock-analytics/accountid"
	"deadlock-analytics/cmd/deadlock-fetcher/matchstats"
	"deadlock-analytics/cmd/deadlock-fetcher/matchstore"
	"deadlock-analytics/cmd/deadlock-fetcher/rqlitematchstore"
	"deadlock-analytics/deadlockhttp"
	"deadlock-analytics/deadlockhttprpc"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

type Store interface {
	TrackAccount(ctx context.Context, accountID uint64) error
	GetStaleAccounts(ctx context.Context, threshold time.Time) ([]matchstore.StaleAccount, error)
	InsertDashboard(ctx context.Context, d matchstore.Dashboard) error
	GetDashboard(ctx context.Context, accountID uint64) (*matchstore.Dashboard, bool, error)
	InsertHeroes(ctx context.Context, heroes deadlockhttp.GetHeroesResponse, updated time.Time) error
	GetHeroes(ctx context.Context) (deadlockhttp.GetHeroesResponse, time.Time, bool, error)
	InsertRanks(ctx context.Context, ranks deadlockhttp.GetRanksResponse, updated time.Time) error
	GetRanks(ctx context.Context) (deadlockhttp.GetRanksResponse, time.Time, bool, error)
	InsertMap(ctx context.Context, geometry *deadlockhttp.GetMapResponse, updated time.Time) error
	GetMap(ctx context.Context) (*deadlockhttp.GetMapResponse, time.Time, bool, error)
}

type Fetcher struct {
	client *deadlockhttprpc.Client
	store  Store

	heroes        deadlockhttp.GetHeroesResponse
	ranks         deadlockhttp.GetRanksResponse
	assetsUpdated time.Time

	stdout io.Writer
}

// UpdateAssets refreshes the hero, rank, and map asset caches. The map
// geometry is stored for the dashboard server; the fetcher itself only
// joins heroes and ranks into dashboards.
func (f *Fetcher) UpdateAssets(ctx context.Context) error {
	now := time.Now()

	heroes, err := f.client.GetHeroes(ctx)
	if err != nil {
		return fmt.Errorf("get heroes: %w", err)
	}

	if err := f.store.InsertHeroes(ctx, heroes, now); err != nil {
		return fmt.Errorf("insert heroes: %w", err)
	}

	ranks, err := f.client.GetRanks(ctx)
	if err != nil {
		return fmt.Errorf("get ranks: %w", err)
	}

	if err := f.store.InsertRanks(ctx, ranks, now); err != nil {
		return fmt.Errorf("insert ranks: %w", err)
	}

	geometry, err := f.client.GetMap(ctx)
	if err != nil {
		return fmt.Errorf("get map: %w", err)
	}

	if err := f.store.InsertMap(ctx, geometry, now); err != nil {
		return fmt.Errorf("insert map: %w", err)
	}

	f.heroes = heroes
	f.ranks = ranks
	f.assetsUpdated = now

	fmt.Fprintf(f.stdout, "refreshed assets: %d heroes, %d ranks\n", len(heroes), len(ranks))

	return nil
}

func (f *Fetcher) buildDashboard(ctx context.Context, accountID uint64, fetched time.Time) (matchstore.Dashboard, error) {
	var d matchstore.Dashboard

	history, err := f.client.GetMatchHistory(ctx, accountID)
	if err != nil {
		return d, fmt.Errorf("get match history: %w", err)
	}

	mmr, err := f.client.GetMMRHistory(ctx, accountID)
	if err != nil {
		return d, fmt.Errorf("get mmr history: %w", err)
	}

	matches := matchstats.JoinMatches(history, f.heroes)

	d = matchstore.Dashboard{
		AccountID: accountID,
		Fetched:   fetched,
		Summary:   matchstats.Summarize(matches),
		TopHeroes: matchstats.TopHeroes(matches, f.heroes, 5),
		KDATrend:  matchstats.KDATrend(matches, matchstats.RollingWindow),
		MMRTrend:  matchstats.MMRTrend(mmr, matchstats.RollingWindow),
	}

	if len(mmr) > 0 {
		latest := mmr[len(mmr)-1]

		if badge, ok := matchstats.ResolveRankBadge(f.ranks, latest.Division, latest.DivisionTier); ok {
			d.Rank = badge
		}
	}

	profiles, err := f.client.SearchSteamProfiles(ctx, strconv.FormatUint(accountID, 10))
	if err != nil {
		return d, fmt.Errorf("search steam profiles: %w", err)
	}

	if profile, ok := matchstats.FindProfile(profiles, accountID); ok {
		d.Profile = profile
		return d, nil
	}

	// The search comes back empty for private profiles, so a refresh
	// keeps whatever profile the previous dashboard carried.
	previous, ok, err := f.store.GetDashboard(ctx, accountID)
	if err != nil {
		return d, fmt.Errorf("get previous dashboard: %w", err)
	}

	if ok {
		d.Profile = previous.Profile
	}

	return d, nil
}

func (f *Fetcher) fetchDashboards(ctx context.Context, accounts []matchstore.StaleAccount) ([]matchstore.Dashboard, error) {
	estsize := len(accounts)

	in := make(chan matchstore.StaleAccount, estsize)
	out := make(chan matchstore.Dashboard, estsize)
	defer close(out)

	g, ctx := errgroup.WithContext(ctx)

	fetched := time.Now()

	for i := 0; i < 4; i++ {
		g.Go(func() error {
			for account := range in {
				ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
				d, err := f.buildDashboard(ctx, account.AccountID, fetched)
				cancel()

				if err != nil {
					return fmt.Errorf("build dashboard for %d: %w", account.AccountID, err)
				}

				out <- d
			}

			return nil
		})
	}

	start := time.Now()
	for _, a := range accounts {
		in <- a
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	done := ctx.Done()

	dashboards := make([]matchstore.Dashboard, 0, len(accounts))

loop:
	for i := 0; i < len(accounts); i++ {
		select {
		case <-done:
			break loop
		case d := <-out:
			dashboards = append(dashboards, d)
		}
	}

	close(in)

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("errgroup: %w", err)
	}

	elapsed := time.Since(start)

	fmt.Fprintf(f.stdout, "built %d dashboards in %s\n", len(dashboards), elapsed)

	return dashboards, nil
}

func (f *Fetcher) updateStaleDashboards(ctx context.Context) (bool, error) {
	threshold := time.Now().Add(-1 * time.Hour)

	accounts, err := f.store.GetStaleAccounts(ctx, threshold)
	if err != nil {
		return false, fmt.Errorf("get stale accounts: %w", err)
	}

	fmt.Fprintf(f.stdout, "found %d stale accounts\n", len(accounts))

	if len(accounts) == 0 {
		return false, nil
	}

	dashboards, err := f.fetchDashboards(ctx, accounts)
	if err != nil {
		return false, fmt.Errorf("fetch dashboards: %w", err)
	}

	for _, d := range dashboards {
		if err := f.store.InsertDashboard(ctx, d); err != nil {
			return false, fmt.Errorf("insert dashboard for %d: %w", d.AccountID, err)
		}
	}

	return true, nil
}

func (f *Fetcher) Run(ctx context.Context) (bool, error) {
	if time.Since(f.assetsUpdated) > 24*time.Hour {
		fmt.Fprintln(f.stdout, "asset data out-of-date, updating")

		if err := f.UpdateAssets(ctx); err != nil {
			return false, fmt.Errorf("update assets: %w", err)
		}
	}

	ok, err := f.updateStaleDashboards(ctx)
	if err != nil {
		return false, fmt.Errorf("update stale dashboards: %w", err)
	}

	return ok, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	flags := NewFlagSet("fetcher")

	var rqliteaddr string
	var initialize bool
	var track string

	flags.StringVar(&rqliteaddr, "rqlite-address", "", "")
	flags.BoolVar(&initialize, "initialize", false, "")
	flags.StringVar(&track, "track", "", "")

	ok, err := Parse(flags, args, stderr, "")
	if err != nil {
		return fmt.Errorf("parse args: %w", err)
	}

	if !ok {
		return nil
	}

	if rqliteaddr == "" {
		return fmt.Errorf("-rqlite-address must be set")
	}

	ctx := context.Background()
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGQUIT, syscall.SIGKILL, syscall.SIGTERM)
	defer cancel()

	httpc := http.Client{}

	client := deadlockhttprpc.NewClient(httpc, "", "")

	store, err := rqlitematchstore.New(rqliteaddr)
	if err != nil {
		return fmt.Errorf("new match store: %w", err)
	}

	if initialize {
		if err := store.CreateSchema(ctx); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	if track != "" {
		id, err := accountid.Parse(track)
		if err != nil {
			return fmt.Errorf("parse account: %w", err)
		}

		if err := store.TrackAccount(ctx, id); err != nil {
			return fmt.Errorf("track account: %w", err)
		}

		fmt.Fprintf(stdout, "tracking account %d\n", id)
	}

	heroes, heroesUpdated, _, err := store.GetHeroes(ctx)
	if err != nil {
		return fmt.Errorf("get heroes: %w", err)
	}

	ranks, _, _, err := store.GetRanks(ctx)
	if err != nil {
		return fmt.Errorf("get ranks: %w", err)
	}

	f := &Fetcher{
		client:        client,
		store:         store,
		heroes:        heroes,
		ranks:         ranks,
		assetsUpdated: heroesUpdated,
		stdout:        stdout,
	}

	done := ctx.Done()

	var retries uint8

	timer := time.NewTimer(0)
	sleep := 60 * time.Second

	for i := 0; ; i++ {
		select {
		case <-done:
			fmt.Fprintln(stdout, "Received exit signal, shutting down")
			return nil
		case <-timer.C:
			fmt.Fprintf(stdout, "running iteration %d\n", i)

			ok, err := f.Run(ctx)
			if err != nil {
				fmt.Fprintf(stdout, "error during iteration: %s\n", err)
				retries++
				timer.Reset(sleep * time.Duration(retries+1))
				continue
			}

			retries = 0

			fmt.Fprintf(stdout, "finished iteration %d\n", i)

			if ok {
				timer.Reset(0)
			} else {
				timer.Reset(sleep)
			}
		}
	}
}

func NewFlagSet(prog string) *flag.FlagSet {
	f := flag.NewFlagSet(prog, flag.ContinueOnError)
	f.SetOutput(io.Discard)
	f.Usage = nil

	return f
}

func Parse(flags *flag.FlagSet, args []string, stderr io.Writer, usage string) (bool, error) {
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, usage)
			return false, nil
		}

		return false, fmt.Errorf("argument parsing failure: %w\n\n%s", err, usage)
	}

	return true, nil
}
