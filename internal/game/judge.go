package game

import (
	"strings"
	"unicode/utf8"
)

// Judgment is the single datum each player supplies during the judging phase.
// Exactly one of the fields is meaningful, depending on the judge in play.
type Judgment struct {
	Vote  int    // seat index the judging player voted for
	Guess string // normalized guess at the opponent's prompt
}

// Outcome is the resolved result of one round.
type Outcome struct {
	Winner  int     // winning seat, or -1 for a draw
	Votes   [2]int  // votes received per seat (vote mode)
	Correct [2]bool // guess correctness per seat (guess mode)
}

// Judge decides whether a judgment is acceptable and how two judgments
// resolve into an outcome. Implementations must be stateless; all round
// state lives on the Match.
type Judge interface {
	Mode() string
	// Accept validates and normalizes a raw judgment for the given seat.
	Accept(m *Match, seat int, j Judgment) (Judgment, bool)
	// Outcome resolves the round once both players have judged.
	Outcome(m *Match) Outcome
}

// VoteJudge resolves a round by preference vote: each player votes for one of
// the two drawings, the seat with more votes wins. With two voters a split
// vote is a draw, and both voting for the same seat gives that seat the win.
type VoteJudge struct{}

func (VoteJudge) Mode() string { return "vote" }

func (VoteJudge) Accept(_ *Match, _ int, j Judgment) (Judgment, bool) {
	if j.Vote != 0 && j.Vote != 1 {
		return Judgment{}, false
	}
	return Judgment{Vote: j.Vote}, true
}

func (VoteJudge) Outcome(m *Match) Outcome {
	var votes [2]int
	for _, p := range m.Players {
		votes[p.Judgment.Vote]++
	}
	winner := -1
	if votes[0] > votes[1] {
		winner = 0
	} else if votes[1] > votes[0] {
		winner = 1
	}
	return Outcome{Winner: winner, Votes: votes}
}

// GuessJudge resolves a round by prompt guessing: each player guesses the
// opponent's hidden prompt. A seat is correct when its normalized guess
// matches the opponent's prompt. Exactly one correct guess wins; both correct
// or both wrong is a draw.
type GuessJudge struct {
	MaxLen int
}

func (GuessJudge) Mode() string { return "guess" }

func (g GuessJudge) Accept(_ *Match, _ int, j Judgment) (Judgment, bool) {
	guess := normalizeGuess(j.Guess, g.MaxLen)
	if guess == "" {
		return Judgment{}, false
	}
	return Judgment{Guess: guess}, true
}

func (g GuessJudge) Outcome(m *Match) Outcome {
	var correct [2]bool
	for seat, p := range m.Players {
		target := normalizeGuess(m.Players[1-seat].Prompt, g.MaxLen)
		correct[seat] = p.Judgment.Guess == target
	}
	winner := -1
	if correct[0] != correct[1] {
		if correct[0] {
			winner = 0
		} else {
			winner = 1
		}
	}
	return Outcome{Winner: winner, Correct: correct}
}

func normalizeGuess(s string, maxLen int) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if maxLen > 0 && len(s) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return s
}
