package store

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"

	"pixelduel/internal/game"
)

// PlayerResult is one seat's contribution to a finished round.
type PlayerResult struct {
	UserID   string
	Username string
	Grid     game.Grid
}

// OutcomeRecord is everything the session layer hands over when a round
// ends, by resolution or by forfeit.
type OutcomeRecord struct {
	GameID  string
	Players [2]PlayerResult
	// WinnerSeat is the winning seat, or -1 for a draw.
	WinnerSeat int
	Theme      string
	Mode       string
	Forfeit    bool
}

// RecordOutcome bumps both players' counters, appends the round to
// game_history and returns the refreshed stats per seat, all in one
// transaction so a crash cannot count a game it did not record.
func (s *Store) RecordOutcome(ctx context.Context, rec OutcomeRecord) ([2]UserStats, error) {
	var stats [2]UserStats

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return stats, err
	}
	defer tx.Rollback(ctx)

	for seat, p := range rec.Players {
		col := "losses"
		if rec.WinnerSeat == -1 {
			col = "draws"
		} else if rec.WinnerSeat == seat {
			col = "wins"
		}
		if _, err := tx.Exec(ctx,
			`UPDATE users SET `+col+` = `+col+` + 1 WHERE user_id = $1`,
			p.UserID); err != nil {
			return stats, err
		}
	}

	var winnerID *string
	if rec.WinnerSeat == 0 || rec.WinnerSeat == 1 {
		winnerID = &rec.Players[rec.WinnerSeat].UserID
	}
	grid1, err := json.Marshal(rec.Players[0].Grid)
	if err != nil {
		return stats, err
	}
	grid2, err := json.Marshal(rec.Players[1].Grid)
	if err != nil {
		return stats, err
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO game_history (id, game_id, player1_id, player2_id, winner_id, theme, mode, forfeit, player1_grid, player2_grid)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, NewID(), rec.GameID, rec.Players[0].UserID, rec.Players[1].UserID,
		winnerID, rec.Theme, rec.Mode, rec.Forfeit, grid1, grid2); err != nil {
		return stats, err
	}

	for seat, p := range rec.Players {
		err := tx.QueryRow(ctx, `
			SELECT username, wins, losses, draws FROM users WHERE user_id = $1
		`, p.UserID).Scan(&stats[seat].Username, &stats[seat].Wins, &stats[seat].Losses, &stats[seat].Draws)
		if err != nil {
			return stats, mapNotFound(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return stats, err
	}
	return stats, nil
}

// GameHistoryEntry is one archived round.
type GameHistoryEntry struct {
	ID       string
	GameID   string
	WinnerID *string
	Theme    string
	Mode     string
	Forfeit  bool
}

// ListUserHistory returns a user's most recent rounds, newest first.
func (s *Store) ListUserHistory(ctx context.Context, userID string, limit int) ([]GameHistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, game_id, winner_id, theme, mode, forfeit
		FROM game_history
		WHERE player1_id = $1 OR player2_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GameHistoryEntry
	for rows.Next() {
		var e GameHistoryEntry
		if err := rows.Scan(&e.ID, &e.GameID, &e.WinnerID, &e.Theme, &e.Mode, &e.Forfeit); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
