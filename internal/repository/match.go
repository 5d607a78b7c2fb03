package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ptcgsim/ptcg-server-go/internal/game/rules"
)

// MatchRecord is one finished match.
type MatchRecord struct {
	ID         string
	Seed       uint32
	Winner     int
	Reason     string
	Turns      int
	FinishedAt time.Time
}

// MatchRepository stores finished matches and their event journals.
type MatchRepository struct {
	db *DB
}

// NewMatchRepository creates a repository over the shared pool.
func NewMatchRepository(db *DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// SaveResult records a finished match.
func (r *MatchRepository) SaveResult(ctx context.Context, rec MatchRecord) error {
	_, err := r.db.pool.Exec(ctx,
		`INSERT INTO matches (id, seed, winner, reason, turns)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE
		 SET winner = EXCLUDED.winner, reason = EXCLUDED.reason, turns = EXCLUDED.turns`,
		rec.ID, int64(rec.Seed), rec.Winner, rec.Reason, rec.Turns,
	)
	if err != nil {
		return fmt.Errorf("save match %s: %w", rec.ID, err)
	}
	r.db.logger.Debug("match result saved",
		zap.String("match", rec.ID),
		zap.Int("winner", rec.Winner),
	)
	return nil
}

// SaveJournal records the ordered event stream of a match. Payloads that
// cannot be serialized are stored as nulls rather than aborting the write.
func (r *MatchRepository) SaveJournal(ctx context.Context, matchID string, events []rules.Event) error {
	batchSize := 0
	for seq, ev := range events {
		payload, err := json.Marshal(ev.Payload)
		if err != nil {
			payload = nil
		}
		if _, err := r.db.pool.Exec(ctx,
			`INSERT INTO match_events (match_id, seq, type, payload)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (match_id, seq) DO NOTHING`,
			matchID, seq, string(ev.Type), payload,
		); err != nil {
			return fmt.Errorf("save journal %s seq %d: %w", matchID, seq, err)
		}
		batchSize++
	}
	r.db.logger.Debug("match journal saved",
		zap.String("match", matchID),
		zap.Int("events", batchSize),
	)
	return nil
}

// Recent returns the most recently finished matches.
func (r *MatchRepository) Recent(ctx context.Context, limit int) ([]MatchRecord, error) {
	rows, err := r.db.pool.Query(ctx,
		`SELECT id, seed, winner, reason, turns, finished_at
		 FROM matches ORDER BY finished_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent matches: %w", err)
	}
	defer rows.Close()

	var records []MatchRecord
	for rows.Next() {
		var rec MatchRecord
		var seed int64
		if err := rows.Scan(&rec.ID, &seed, &rec.Winner, &rec.Reason, &rec.Turns, &rec.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan match row: %w", err)
		}
		rec.Seed = uint32(seed)
		records = append(records, rec)
	}
	return records, rows.Err()
}
