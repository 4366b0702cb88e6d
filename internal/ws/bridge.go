package ws

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"pixelduel/internal/store"
)

// Bridge persists a finished round and returns both players' refreshed
// stats. *store.Store implements it.
type Bridge interface {
	RecordOutcome(ctx context.Context, rec store.OutcomeRecord) ([2]store.UserStats, error)
}

const bridgeTimeout = 5 * time.Second

// record calls the bridge with a bounded deadline so a slow database cannot
// wedge a session goroutine. On failure the round still resolves; the
// players just see zero stats for this frame.
func record(bridge Bridge, rec store.OutcomeRecord) [2]store.UserStats {
	ctx, cancel := context.WithTimeout(context.Background(), bridgeTimeout)
	defer cancel()

	stats, err := bridge.RecordOutcome(ctx, rec)
	if err != nil {
		log.Error().Err(err).Str("game_id", rec.GameID).Msg("record outcome failed")
		return [2]store.UserStats{}
	}
	return stats
}
