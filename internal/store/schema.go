package store

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
    user_id TEXT PRIMARY KEY,
    username TEXT NOT NULL,
    wins INTEGER DEFAULT 0,
    losses INTEGER DEFAULT 0,
    draws INTEGER DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS game_history (
    id TEXT PRIMARY KEY,
    game_id TEXT NOT NULL,
    player1_id TEXT NOT NULL,
    player2_id TEXT NOT NULL,
    winner_id TEXT,
    theme TEXT NOT NULL,
    mode TEXT NOT NULL DEFAULT 'vote',
    forfeit BOOLEAN NOT NULL DEFAULT FALSE,
    player1_grid JSONB,
    player2_grid JSONB,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS game_history_game_id_idx ON game_history (game_id);
`

// EnsureSchema creates the tables on startup when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, schemaSQL)
	return err
}
