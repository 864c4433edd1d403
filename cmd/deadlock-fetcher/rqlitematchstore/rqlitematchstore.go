package rqlitematchstore

import (
	"context"
	"deadlock-analytics/cmd/deadlock-fetcher/matchstore"
	"deadlock-analytics/deadlockhttp"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rqlite/gorqlite"
)

type DB struct {
	conn *gorqlite.Connection
}

func New(addr string) (*DB, error) {
	conn, err := gorqlite.Open(addr)
	if err != nil {
		return nil, fmt.Errorf("open connection: %w", err)
	}

	if err := conn.SetExecutionWithTransaction(true); err != nil {
		return nil, fmt.Errorf("set execution with transaction: %w", err)
	}

	db := &DB{
		conn: conn,
	}

	return db, nil
}

func (db *DB) TrackAccount(ctx context.Context, accountID uint64) error {
	const q = `
INSERT INTO tracked_accounts (account_id, added)
VALUES (?, ?)
ON CONFLICT (account_id) DO NOTHING;
`

	param := gorqlite.ParameterizedStatement{
		Query:     q,
		Arguments: []any{accountID, time.Now().UnixMilli()},
	}

	result, err := db.conn.WriteOneParameterizedContext(ctx, param)
	if err != nil {
		return fmt.Errorf("do query: %w", err)
	}

	if result.Err != nil {
		return fmt.Errorf("result error: %w", result.Err)
	}

	return nil
}

// GetStaleAccounts returns tracked accounts whose dashboard is missing or
// was fetched before the threshold.
func (db *DB) GetStaleAccounts(ctx context.Context, threshold time.Time) ([]matchstore.StaleAccount, error) {
	const query = `
SELECT
	tracked_accounts.account_id,
	IFNULL(player_dashboards.fetched, 0)
FROM
	tracked_accounts
LEFT JOIN
	player_dashboards
ON
	player_dashboards.account_id = tracked_accounts.account_id
WHERE
	player_dashboards.fetched IS NULL
	OR player_dashboards.fetched < ?
LIMIT 10;`

	param := gorqlite.ParameterizedStatement{
		Query:     query,
		Arguments: []any{threshold.UnixMilli()},
	}

	results, err := db.conn.QueryOneParameterizedContext(ctx, param)
	if err != nil {
		return nil, fmt.Errorf("do query: %w", err)
	}

	var (
		id      int64
		fetched int64
	)

	accounts := make([]matchstore.StaleAccount, 0, results.NumRows())

	for results.Next() {
		if err := results.Scan(&id, &fetched); err != nil {
			return nil, fmt.Errorf("scan results: %w", err)
		}

		a := matchstore.StaleAccount{
			AccountID:   uint64(id),
			LastFetched: time.UnixMilli(fetched),
		}

		accounts = append(accounts, a)
	}

	return accounts, nil
}

func (db *DB) InsertDashboard(ctx context.Context, d matchstore.Dashboard) error {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal dashboard: %w", err)
	}

	const q = `
INSERT INTO player_dashboards (account_id, fetched, data)
VALUES (?, ?, ?)
ON CONFLICT (account_id) DO UPDATE SET
fetched = excluded.fetched,
data = excluded.data;
`

	param := gorqlite.ParameterizedStatement{
		Query:     q,
		Arguments: []any{d.AccountID, d.Fetched.UnixMilli(), string(b)},
	}

	result, err := db.conn.WriteOneParameterizedContext(ctx, param)
	if err != nil {
		return fmt.Errorf("do query: %w", err)
	}

	if result.Err != nil {
		return fmt.Errorf("result error: %w", result.Err)
	}

	return nil
}

func (db *DB) GetDashboard(ctx context.Context, accountID uint64) (*matchstore.Dashboard, bool, error) {
	const query = "SELECT data FROM player_dashboards WHERE account_id = ?;"

	param := gorqlite.ParameterizedStatement{
		Query:     query,
		Arguments: []any{accountID},
	}

	results, err := db.conn.QueryOneParameterizedContext(ctx, param)
	if err != nil {
		return nil, false, fmt.Errorf("do query: %w", err)
	}

	if results.NumRows() == 0 {
		return nil, false, nil
	}

	data := make([]byte, 0, 1000000)

	for results.Next() {
		if err := results.Scan(&data); err != nil {
			return nil, false, fmt.Errorf("scan results: %w", err)
		}
	}

	var d matchstore.Dashboard

	if err := json.Unmarshal(data, &d); err != nil {
		return nil, false, fmt.Errorf("unmarshal data: %w", err)
	}

	return &d, true, nil
}

// InsertMatchMetadata caches a full metadata payload; replays reuse it
// instead of refetching, since path data never changes after the match.
func (db *DB) InsertMatchMetadata(ctx context.Context, metadata *deadlockhttp.GetMatchMetadataResponse) error {
	b, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	const q = `
INSERT INTO match_metadata (match_id, updated, data)
VALUES (?, ?, ?)
ON CONFLICT (match_id) DO UPDATE SET
updated = excluded.updated,
data = excluded.data;
`

	param := gorqlite.ParameterizedStatement{
		Query:     q,
		Arguments: []any{metadata.MatchInfo.MatchID, time.Now().UnixMilli(), string(b)},
	}

	result, err := db.conn.WriteOneParameterizedContext(ctx, param)
	if err != nil {
		return fmt.Errorf("do query: %w", err)
	}

	if result.Err != nil {
		return fmt.Errorf("result error: %w", result.Err)
	}

	return nil
}

func (db *DB) GetMatchMetadata(ctx context.Context, matchID uint64) (*deadlockhttp.GetMatchMetadataResponse, bool, error) {
	const query = "SELECT data FROM match_metadata WHERE match_id = ?;"

	param := gorqlite.ParameterizedStatement{
		Query:     query,
		Arguments: []any{matchID},
	}

	results, err := db.conn.QueryOneParameterizedContext(ctx, param)
	if err != nil {
		return nil, false, fmt.Errorf("do query: %w", err)
	}

	if results.NumRows() == 0 {
		return nil, false, nil
	}

	data := make([]byte, 0, 1000000)

	for results.Next() {
		if err := results.Scan(&data); err != nil {
			return nil, false, fmt.Errorf("scan results: %w", err)
		}
	}

	var metadata deadlockhttp.GetMatchMetadataResponse

	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, false, fmt.Errorf("unmarshal data: %w", err)
	}

	return &metadata, true, nil
}

const (
	heroeskey = "heroes"
	rankskey  = "ranks"
	mapkey    = "map"
)

func (db *DB) putKV(ctx context.Context, key string, value any, updated time.Time) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}

	const q = `
INSERT INTO kv (key, value, updated)
VALUES (?, ?, ?)
ON CONFLICT (key) DO UPDATE SET
updated = excluded.updated,
value = excluded.value;
`

	param := gorqlite.ParameterizedStatement{
		Query:     q,
		Arguments: []any{key, string(b), updated.UnixMilli()},
	}

	result, err := db.conn.WriteOneParameterizedContext(ctx, param)
	if err != nil {
		return fmt.Errorf("do query: %w", err)
	}

	if result.Err != nil {
		return fmt.Errorf("result error: %w", result.Err)
	}

	return nil
}

func (db *DB) getKV(ctx context.Context, key string, value any) (time.Time, bool, error) {
	const query = "SELECT value, updated FROM kv WHERE key = ?;"

	param := gorqlite.ParameterizedStatement{
		Query:     query,
		Arguments: []any{key},
	}

	results, err := db.conn.QueryOneParameterizedContext(ctx, param)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("do query: %w", err)
	}

	if results.NumRows() == 0 {
		return time.Time{}, false, nil
	}

	data := make([]byte, 0, 1000000)
	var updated int64

	for results.Next() {
		if err := results.Scan(&data, &updated); err != nil {
			return time.Time{}, false, fmt.Errorf("scan results: %w", err)
		}
	}

	if err := json.Unmarshal(data, value); err != nil {
		return time.Time{}, false, fmt.Errorf("unmarshal data: %w", err)
	}

	return time.UnixMilli(updated), true, nil
}

func (db *DB) InsertHeroes(ctx context.Context, heroes deadlockhttp.GetHeroesResponse, updated time.Time) error {
	return db.putKV(ctx, heroeskey, heroes, updated)
}

func (db *DB) GetHeroes(ctx context.Context) (deadlockhttp.GetHeroesResponse, time.Time, bool, error) {
	var heroes deadlockhttp.GetHeroesResponse

	updated, ok, err := db.getKV(ctx, heroeskey, &heroes)
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("get heroes: %w", err)
	}

	return heroes, updated, ok, nil
}

func (db *DB) InsertRanks(ctx context.Context, ranks deadlockhttp.GetRanksResponse, updated time.Time) error {
	return db.putKV(ctx, rankskey, ranks, updated)
}

func (db *DB) GetRanks(ctx context.Context) (deadlockhttp.GetRanksResponse, time.Time, bool, error) {
	var ranks deadlockhttp.GetRanksResponse

	updated, ok, err := db.getKV(ctx, rankskey, &ranks)
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("get ranks: %w", err)
	}

	return ranks, updated, ok, nil
}

func (db *DB) InsertMap(ctx context.Context, geometry *deadlockhttp.GetMapResponse, updated time.Time) error {
	return db.putKV(ctx, mapkey, geometry, updated)
}

func (db *DB) GetMap(ctx context.Context) (*deadlockhttp.GetMapResponse, time.Time, bool, error) {
	var geometry deadlockhttp.GetMapResponse

	updated, ok, err := db.getKV(ctx, mapkey, &geometry)
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("get map: %w", err)
	}

	if !ok {
		return nil, time.Time{}, false, nil
	}

	return &geometry, updated, true, nil
}

func (db *DB) CreateSchema(ctx context.Context) error {
	const query = `
CREATE TABLE kv (
	key     TEXT     NOT NULL,
	updated INTEGER  NOT NULL,
	value   TEXT     NOT NULL,
	PRIMARY KEY (key)
);

CREATE INDEX kv_updated_index
ON kv (updated);

CREATE TABLE tracked_accounts (
	account_id INTEGER NOT NULL,
	added      INTEGER NOT NULL,
	PRIMARY KEY (account_id)
);

CREATE TABLE player_dashboards (
	account_id INTEGER NOT NULL,
	fetched    INTEGER NOT NULL,
	data       TEXT    NOT NULL,
	PRIMARY KEY (account_id)
);

CREATE INDEX player_dashboards_fetched_index
ON player_dashboards (fetched);

CREATE TABLE match_metadata (
	match_id INTEGER NOT NULL,
	updated  INTEGER NOT NULL,
	data     TEXT    NOT NULL,
	PRIMARY KEY (match_id)
);
`

	param := gorqlite.ParameterizedStatement{
		Query:     query,
		Arguments: []any{},
	}

	result, err := db.conn.WriteOneParameterizedContext(ctx, param)
	if err != nil {
		return fmt.Errorf("do query: %w", err)
	}

	if result.Err != nil {
		return fmt.Errorf("result error: %w", result.Err)
	}

	return nil
}
