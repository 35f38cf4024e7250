// Package database persists finished games to Postgres.
package database

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/gillessed/palantarot/engine"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

//go:embed schema.sql
var schema embed.FS

// DB is the shared pool. It stays nil when no database is configured.
var DB *pgxpool.Pool

// Connect opens the shared pool and applies the schema.
func Connect(ctx context.Context, dsn string) error {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("ping database: %w", err)
	}
	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return fmt.Errorf("migrate: %w", err)
	}
	DB = pool
	log.Info("Connected to Postgres")
	return nil
}

// Migrate applies the embedded schema. It is idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, string(sqlBytes))
	return err
}

// ScoreRow is one player's delta for a finished game.
type ScoreRow struct {
	Player engine.PlayerID
	Delta  int
}

// scoreRows flattens the per-player deltas in a stable order.
func scoreRows(o engine.Outcome) []ScoreRow {
	rows := make([]ScoreRow, 0, len(o.Scores))
	for p, d := range o.Scores {
		rows = append(rows, ScoreRow{Player: p, Delta: d})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Player < rows[j].Player })
	return rows
}

// StoreOutcome writes a finished game and its score deltas in one
// transaction. Storing the same game twice is a no-op.
func StoreOutcome(ctx context.Context, pool *pgxpool.Pool, gameID string, o engine.Outcome) error {
	payload, err := json.Marshal(o)
	if err != nil {
		return err
	}
	var partner any
	if o.Partner != "" {
		partner = string(o.Partner)
	}
	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO games(id, bidder, partner, bid, bidder_won, points_result, outcome)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
			ON CONFLICT (id) DO NOTHING
		`, gameID, string(o.Bidder), partner, int(o.Bid), o.BidderWon, o.PointsResult, payload)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		batch := &pgx.Batch{}
		for _, row := range scoreRows(o) {
			batch.Queue(`INSERT INTO game_scores(game_id, player_id, delta) VALUES ($1,$2,$3)`,
				gameID, string(row.Player), row.Delta)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}

// PlayerTotal is a player's summed score over stored games.
type PlayerTotal struct {
	Player engine.PlayerID `json:"player"`
	Games  int             `json:"games"`
	Total  int             `json:"total"`
}

// PlayerTotals returns the running score of every player seen.
func PlayerTotals(ctx context.Context, pool *pgxpool.Pool) ([]PlayerTotal, error) {
	rows, err := pool.Query(ctx, `
		SELECT player_id, COUNT(*), COALESCE(SUM(delta), 0)
		  FROM game_scores
		 GROUP BY player_id
		 ORDER BY player_id
	`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (PlayerTotal, error) {
		var t PlayerTotal
		var player string
		err := row.Scan(&player, &t.Games, &t.Total)
		t.Player = engine.PlayerID(player)
		return t, err
	})
}

// OutcomeSink persists outcomes off the caller's goroutine. It matches
// play.CompleteFunc.
func OutcomeSink(pool *pgxpool.Pool) func(gameID string, o engine.Outcome) {
	return func(gameID string, o engine.Outcome) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := StoreOutcome(ctx, pool, gameID, o); err != nil {
				log.Errorf("Game %s: failed storing outcome: %v", gameID, err)
			}
		}()
	}
}
