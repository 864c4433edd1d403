package deadlockhttprpc

import (
	"context"
	"deadlock-analytics/deadlockhttp"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

type Client struct {
	dataAddress   string
	assetsAddress string
	httpc         http.Client
}

func NewClient(httpc http.Client, dataAddress, assetsAddress string) *Client {
	if dataAddress == "" {
		dataAddress = "https://api.deadlock-api.com"
	}

	if assetsAddress == "" {
		assetsAddress = "https://assets.deadlock-api.com"
	}

	return &Client{
		dataAddress:   dataAddress,
		assetsAddress: assetsAddress,
		httpc:         httpc,
	}
}

// get issues a GET to addr and decodes the JSON body into response. The
// API payloads carry many fields this client does not model, so unknown
// fields are not rejected.
func (c *Client) get(ctx context.Context, addr string, response any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	req.Header.Set("Accept", "*/*")

	res, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}

	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", res.StatusCode, string(b))
	}

	if err := json.Unmarshal(b, response); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (c *Client) GetMatchHistory(ctx context.Context, accountID uint64) (deadlockhttp.GetMatchHistoryResponse, error) {
	addr := fmt.Sprintf("%s/v1/players/%d/match-history?only_stored_history=false", c.dataAddress, accountID)

	var response deadlockhttp.GetMatchHistoryResponse

	if err := c.get(ctx, addr, &response); err != nil {
		return nil, fmt.Errorf("get match history: %w", err)
	}

	return response, nil
}

func (c *Client) GetMMRHistory(ctx context.Context, accountID uint64) (deadlockhttp.GetMMRHistoryResponse, error) {
	addr := fmt.Sprintf("%s/v1/players/%d/mmr-history", c.dataAddress, accountID)

	var response deadlockhttp.GetMMRHistoryResponse

	if err := c.get(ctx, addr, &response); err != nil {
		return nil, fmt.Errorf("get mmr history: %w", err)
	}

	return response, nil
}

func (c *Client) GetPlayerStatsMetrics(ctx context.Context, accountID uint64) (*deadlockhttp.GetPlayerStatsMetricsResponse, error) {
	addr := fmt.Sprintf("%s/v1/analytics/player-stats/metrics?account_id=%d", c.dataAddress, accountID)

	var response deadlockhttp.GetPlayerStatsMetricsResponse

	if err := c.get(ctx, addr, &response); err != nil {
		return nil, fmt.Errorf("get player stats metrics: %w", err)
	}

	return &response, nil
}

// GetPlayerPerformanceCurve returns per-game-time averages across the
// account's matches. Unlike the metrics endpoint this one takes the
// plural account_ids parameter, even for a single account.
func (c *Client) GetPlayerPerformanceCurve(ctx context.Context, accountID uint64) (deadlockhttp.GetPlayerPerformanceCurveResponse, error) {
	addr := fmt.Sprintf("%s/v1/analytics/player-performance-curve?account_ids=%d&resolution=0", c.dataAddress, accountID)

	var response deadlockhttp.GetPlayerPerformanceCurveResponse

	if err := c.get(ctx, addr, &response); err != nil {
		return nil, fmt.Errorf("get player performance curve: %w", err)
	}

	return response, nil
}

func (c *Client) GetKillDeathStats(ctx context.Context, accountID uint64) (deadlockhttp.GetKillDeathStatsResponse, error) {
	addr := fmt.Sprintf("%s/v1/analytics/kill-death-stats?account_ids=%d", c.dataAddress, accountID)

	var response deadlockhttp.GetKillDeathStatsResponse

	if err := c.get(ctx, addr, &response); err != nil {
		return nil, fmt.Errorf("get kill death stats: %w", err)
	}

	return response, nil
}

func (c *Client) SearchSteamProfiles(ctx context.Context, query string) (deadlockhttp.SteamSearchResponse, error) {
	addr := fmt.Sprintf("%s/v1/players/steam-search?search_query=%s", c.dataAddress, url.QueryEscape(query))

	var response deadlockhttp.SteamSearchResponse

	if err := c.get(ctx, addr, &response); err != nil {
		return nil, fmt.Errorf("search steam profiles: %w", err)
	}

	return response, nil
}

func (c *Client) GetMatchMetadata(ctx context.Context, matchID uint64) (*deadlockhttp.GetMatchMetadataResponse, error) {
	addr := fmt.Sprintf("%s/v1/matches/%d/metadata", c.dataAddress, matchID)

	var response deadlockhttp.GetMatchMetadataResponse

	if err := c.get(ctx, addr, &response); err != nil {
		return nil, fmt.Errorf("get match metadata: %w", err)
	}

	return &response, nil
}

func (c *Client) GetHeroes(ctx context.Context) (deadlockhttp.GetHeroesResponse, error) {
	addr := c.assetsAddress + "/v2/heroes"

	var response deadlockhttp.GetHeroesResponse

	if err := c.get(ctx, addr, &response); err != nil {
		return nil, fmt.Errorf("get heroes: %w", err)
	}

	return response, nil
}

func (c *Client) GetRanks(ctx context.Context) (deadlockhttp.GetRanksResponse, error) {
	addr := c.assetsAddress + "/v2/ranks"

	var response deadlockhttp.GetRanksResponse

	if err := c.get(ctx, addr, &response); err != nil {
		return nil, fmt.Errorf("get ranks: %w", err)
	}

	return response, nil
}

func (c *Client) GetMap(ctx context.Context) (*deadlockhttp.GetMapResponse, error) {
	addr := c.assetsAddress + "/v2/map"

	var response deadlockhttp.GetMapResponse

	if err := c.get(ctx, addr, &response); err != nil {
		return nil, fmt.Errorf("get map: %w", err)
	}

	return &response, nil
}
