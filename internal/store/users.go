package store

import "context"

// UserStats is a user's lifetime scoreboard row.
type UserStats struct {
	Username string `json:"username"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Draws    int    `json:"draws"`
}

// UpsertUser registers a user id or renames an existing one. Stats persist
// across renames.
func (s *Store) UpsertUser(ctx context.Context, userID, username string) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO users (user_id, username)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET username = $2
	`, userID, username)
	return err
}

func (s *Store) GetUserStats(ctx context.Context, userID string) (UserStats, error) {
	var st UserStats
	err := s.Pool.QueryRow(ctx, `
		SELECT username, wins, losses, draws FROM users WHERE user_id = $1
	`, userID).Scan(&st.Username, &st.Wins, &st.Losses, &st.Draws)
	if err != nil {
		return UserStats{}, mapNotFound(err)
	}
	return st, nil
}
