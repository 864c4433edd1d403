package deadlockhttprpc_test

import (
	"bytes"
	"context"
	"deadlock-analytics/deadlockhttprpc"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newFixtureServer(t *testing.T, name string) *httptest.Server {
	t.Helper()

	b, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read %s: %s", name, err)
	}

	handler := func(w http.ResponseWriter, r *http.Request) {
		io.Copy(w, bytes.NewReader(b))
	}

	return httptest.NewServer(http.HandlerFunc(handler))
}

func TestClientGetMatchHistory(t *testing.T) {
	ts := newFixtureServer(t, "match-history.json")
	defer ts.Close()

	httpc := http.Client{}
	c := deadlockhttprpc.NewClient(httpc, ts.URL, "")

	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)

	defer cancel()

	response, err := c.GetMatchHistory(ctx, 199540209)
	if err != nil {
		t.Fatalf("request error: %s", err)
	}

	if len(response) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(response))
	}

	if response[0].MatchID != 31345678 {
		t.Fatalf("response malformed")
	}

	if response[0].PlayerKills != 9 {
		t.Fatalf("expected 9 kills, got %d", response[0].PlayerKills)
	}
}

func TestClientGetMatchMetadata(t *testing.T) {
	ts := newFixtureServer(t, "match-metadata.json")
	defer ts.Close()

	httpc := http.Client{}
	c := deadlockhttprpc.NewClient(httpc, ts.URL, "")

	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)

	defer cancel()

	response, err := c.GetMatchMetadata(ctx, 31345678)
	if err != nil {
		t.Fatalf("request error: %s", err)
	}

	info := response.MatchInfo

	if info.MatchID != 31345678 {
		t.Fatalf("response malformed")
	}

	if info.MatchPaths.XResolution != 16383 {
		t.Fatalf("expected x resolution 16383, got %d", info.MatchPaths.XResolution)
	}

	if len(info.MatchPaths.Paths) != 2 {
		t.Fatalf("expected 2 paths, got %d", len(info.MatchPaths.Paths))
	}

	if len(info.Objectives) != 2 {
		t.Fatalf("expected 2 objectives, got %d", len(info.Objectives))
	}

	if info.Objectives[0].TeamObjectiveID != 1 || info.Objectives[0].DestroyedTimeS != 9 {
		t.Fatalf("objective malformed: %+v", info.Objectives[0])
	}
}

func TestClientGetPlayerPerformanceCurve(t *testing.T) {
	b, err := os.ReadFile(filepath.Join("testdata", "performance-curve.json"))
	if err != nil {
		t.Fatalf("read fixture: %s", err)
	}

	var gotQuery url.Values

	handler := func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		io.Copy(w, bytes.NewReader(b))
	}

	ts := httptest.NewServer(http.HandlerFunc(handler))
	defer ts.Close()

	httpc := http.Client{}
	c := deadlockhttprpc.NewClient(httpc, ts.URL, "")

	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)

	defer cancel()

	response, err := c.GetPlayerPerformanceCurve(ctx, 199540209)
	if err != nil {
		t.Fatalf("request error: %s", err)
	}

	if len(response) != 3 {
		t.Fatalf("expected 3 points, got %d", len(response))
	}

	if response[2].GameTime != 120 || response[2].NetWorthAvg != 2380.0 {
		t.Fatalf("point malformed: %+v", response[2])
	}

	if gotQuery.Get("account_ids") != "199540209" {
		t.Fatalf("expected account_ids=199540209, got query %q", gotQuery.Encode())
	}

	if gotQuery.Get("resolution") != "0" {
		t.Fatalf("expected resolution=0, got query %q", gotQuery.Encode())
	}
}

func TestClientGetKillDeathStats(t *testing.T) {
	b, err := os.ReadFile(filepath.Join("testdata", "kill-death-stats.json"))
	if err != nil {
		t.Fatalf("read fixture: %s", err)
	}

	var gotQuery url.Values

	handler := func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		io.Copy(w, bytes.NewReader(b))
	}

	ts := httptest.NewServer(http.HandlerFunc(handler))
	defer ts.Close()

	httpc := http.Client{}
	c := deadlockhttprpc.NewClient(httpc, ts.URL, "")

	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)

	defer cancel()

	response, err := c.GetKillDeathStats(ctx, 199540209)
	if err != nil {
		t.Fatalf("request error: %s", err)
	}

	if len(response) != 3 {
		t.Fatalf("expected 3 locations, got %d", len(response))
	}

	if response[0].PositionX != -4200.0 || response[0].Kills != 2 {
		t.Fatalf("location malformed: %+v", response[0])
	}

	if gotQuery.Get("account_ids") != "199540209" {
		t.Fatalf("expected account_ids=199540209, got query %q", gotQuery.Encode())
	}
}

func TestClientGetMap(t *testing.T) {
	ts := newFixtureServer(t, "map.json")
	defer ts.Close()

	httpc := http.Client{}
	c := deadlockhttprpc.NewClient(httpc, ts.URL, ts.URL)

	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)

	defer cancel()

	response, err := c.GetMap(ctx)
	if err != nil {
		t.Fatalf("request error: %s", err)
	}

	if len(response.ObjectivePositions) != 16 {
		t.Fatalf("expected 16 objective positions, got %d", len(response.ObjectivePositions))
	}

	pos, ok := response.ObjectivePositions["team0_titan"]
	if !ok {
		t.Fatalf("missing team0_titan position")
	}

	if pos.LeftRelative != 0.45 || pos.TopRelative != 0.57 {
		t.Fatalf("position malformed: %+v", pos)
	}
}

func TestClientErrorStatus(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such match", http.StatusNotFound)
	}

	ts := httptest.NewServer(http.HandlerFunc(handler))
	defer ts.Close()

	httpc := http.Client{}
	c := deadlockhttprpc.NewClient(httpc, ts.URL, "")

	ctx := context.Background()

	if _, err := c.GetMatchMetadata(ctx, 1); err == nil {
		t.Fatalf("expected error for non-200 status")
	}
}
