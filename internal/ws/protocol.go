package ws

import (
	"pixelduel/internal/game"
	"pixelduel/internal/store"
)

// Envelope is the single inbound frame shape. Numeric fields are pointers so
// a missing field is distinguishable from zero; frames with missing required
// fields are dropped.
type Envelope struct {
	Action     string `json:"action"`
	Index      *int   `json:"index,omitempty"`
	X          *int   `json:"x,omitempty"`
	Y          *int   `json:"y,omitempty"`
	ColorIndex *int   `json:"colorIndex,omitempty"`
	Vote       *int   `json:"vote,omitempty"`
	Guess      string `json:"guess,omitempty"`
}

type Queued struct {
	Type string `json:"type"`
}

type QueueCancelled struct {
	Type string `json:"type"`
}

// Matched announces the pairing. Theme is the recipient's own prompt, which
// in vote mode is the shared theme; an opponent's guess-mode prompt is never
// sent before results.
type Matched struct {
	Type        string `json:"type"`
	GameID      string `json:"gameId"`
	Opponent    string `json:"opponent"`
	PlayerIndex int    `json:"playerIndex"`
	Mode        string `json:"mode"`
	Theme       string `json:"theme"`
}

type PickOptions struct {
	Type   string   `json:"type"`
	Round  int      `json:"round"`
	Colors []string `json:"colors"`
}

type ChoiceMade struct {
	Type  string `json:"type"`
	Round int    `json:"round"`
	Color string `json:"color"`
}

type DrawingStart struct {
	Type       string   `json:"type"`
	YourColors []string `json:"yourColors"`
	Timer      int      `json:"timer"`
}

type OpponentSubmitted struct {
	Type string `json:"type"`
}

type JudgingStart struct {
	Type           string    `json:"type"`
	PlayerIndex    int       `json:"playerIndex"`
	YourGrid       game.Grid `json:"yourGrid"`
	OpponentGrid   game.Grid `json:"opponentGrid"`
	YourColors     []string  `json:"yourColors"`
	OpponentColors []string  `json:"opponentColors"`
	// Theme is only present in vote mode; in guess mode the opponent's
	// prompt is the secret being guessed.
	Theme string `json:"theme,omitempty"`
}

type Results struct {
	Type            string          `json:"type"`
	Winner          int             `json:"winner"`
	YourIndex       int             `json:"yourIndex"`
	YourVote        *int            `json:"yourVote,omitempty"`
	OpponentVote    *int            `json:"opponentVote,omitempty"`
	YourGuess       string          `json:"yourGuess,omitempty"`
	OpponentGuess   string          `json:"opponentGuess,omitempty"`
	YourCorrect     *bool           `json:"yourCorrect,omitempty"`
	OpponentCorrect *bool           `json:"opponentCorrect,omitempty"`
	YourGrid        game.Grid       `json:"yourGrid"`
	OpponentGrid    game.Grid       `json:"opponentGrid"`
	YourColors      []string        `json:"yourColors"`
	OpponentColors  []string        `json:"opponentColors"`
	Theme           string          `json:"theme"`
	OpponentPrompt  string          `json:"opponentPrompt,omitempty"`
	Stats           store.UserStats `json:"stats"`
}

type OpponentLeft struct {
	Type    string           `json:"type"`
	Forfeit bool             `json:"forfeit,omitempty"`
	Stats   *store.UserStats `json:"stats,omitempty"`
}

type RematchRequested struct {
	Type string `json:"type"`
}

type RematchStart struct {
	Type  string `json:"type"`
	Theme string `json:"theme"`
}
