package game

import "math/rand"

type Phase string

const (
	PhaseColorPick  Phase = "color_pick"
	PhaseDrawing    Phase = "drawing"
	PhaseJudging    Phase = "judging"
	PhaseResults    Phase = "results"
	PhaseTerminated Phase = "terminated"
)

// Config is the process-wide rule set for a duel.
type Config struct {
	GridSize    int
	PickRounds  int
	PickChoices int
	GuessMaxLen int
}

// PlayerRef identifies a participant at match creation.
type PlayerRef struct {
	ID   string
	Name string
}

// PlayerState is one seat's mutable round state. It is mutated only through
// Match methods, each guarded by the current phase.
type PlayerState struct {
	ID   string
	Name string

	// Prompt is this player's hidden drawing subject. In vote mode it equals
	// the shared match theme.
	Prompt string

	Colors       []string
	Grid         Grid
	Submitted    bool
	HasJudged    bool
	Judgment     Judgment
	WantsRematch bool
}

// Match is the state machine for one paired duel. It carries no transport or
// storage concerns and is not safe for concurrent use; the session runner
// serializes access (one goroutine per match).
//
// The two seats are fixed for the lifetime of the match: a rematch resets
// round state but never reorders or replaces players.
type Match struct {
	ID      string
	Theme   string
	Players [2]*PlayerState

	phase     Phase
	pickRound int
	options   [2][]string

	cfg   Config
	judge Judge
	rng   *rand.Rand
}

func NewMatch(id string, cfg Config, judge Judge, rng *rand.Rand, p0, p1 PlayerRef) *Match {
	m := &Match{
		ID:    id,
		cfg:   cfg,
		judge: judge,
		rng:   rng,
		phase: PhaseColorPick,
	}
	m.Players[0] = &PlayerState{ID: p0.ID, Name: p0.Name, Grid: NewGrid(cfg.GridSize)}
	m.Players[1] = &PlayerState{ID: p1.ID, Name: p1.Name, Grid: NewGrid(cfg.GridSize)}
	m.drawPrompts()
	return m
}

func (m *Match) Phase() Phase { return m.phase }

func (m *Match) PickRound() int { return m.pickRound }

func (m *Match) Mode() string { return m.judge.Mode() }

func (m *Match) Config() Config { return m.cfg }

// Player returns the state for a seat, or nil for an invalid seat.
func (m *Match) Player(seat int) *PlayerState {
	if seat != 0 && seat != 1 {
		return nil
	}
	return m.Players[seat]
}

func (m *Match) Opponent(seat int) *PlayerState {
	return m.Player(1 - seat)
}

// drawPrompts picks the shared theme and per-player prompts. Guess mode gives
// each player a distinct secret prompt; vote mode shares the theme.
func (m *Match) drawPrompts() {
	m.Theme = randomTheme(m.rng)
	if m.judge.Mode() == "guess" {
		m.Players[0].Prompt = m.Theme
		other := randomTheme(m.rng)
		for other == m.Theme {
			other = randomTheme(m.rng)
		}
		m.Players[1].Prompt = other
		return
	}
	m.Players[0].Prompt = m.Theme
	m.Players[1].Prompt = m.Theme
}

// DealOptions draws this round's choice set for both seats, excluding colors
// a player already holds, and returns them in seat order.
func (m *Match) DealOptions() [2][]string {
	for seat, p := range m.Players {
		m.options[seat] = randomColors(m.rng, m.cfg.PickChoices, p.Colors)
	}
	return m.options
}

// PickResult reports what a successful color pick changed.
type PickResult struct {
	Color         string
	Round         int
	RoundComplete bool
	AllRoundsDone bool
}

// PickColor applies one player's choice for the current pick round. A second
// choice in the same round, an out-of-range index, or a wrong-phase call is
// rejected without any state change.
func (m *Match) PickColor(seat, index int) (PickResult, bool) {
	p := m.Player(seat)
	if p == nil || m.phase != PhaseColorPick {
		return PickResult{}, false
	}
	if index < 0 || index >= len(m.options[seat]) {
		return PickResult{}, false
	}
	if len(p.Colors) > m.pickRound {
		return PickResult{}, false
	}

	res := PickResult{Color: m.options[seat][index], Round: m.pickRound}
	p.Colors = append(p.Colors, res.Color)

	if len(m.Players[0].Colors) > m.pickRound && len(m.Players[1].Colors) > m.pickRound {
		res.RoundComplete = true
		m.pickRound++
		if m.pickRound >= m.cfg.PickRounds {
			res.AllRoundsDone = true
			m.startDrawing()
		}
	}
	return res, true
}

func (m *Match) startDrawing() {
	m.phase = PhaseDrawing
	for _, p := range m.Players {
		p.Grid = NewGrid(m.cfg.GridSize)
		p.Submitted = false
	}
}

// Draw paints one cell of the acting player's private grid. Frozen grids
// (after submit), bad coordinates and bad palette indices are ignored.
func (m *Match) Draw(seat, x, y, colorIndex int) bool {
	p := m.Player(seat)
	if p == nil || m.phase != PhaseDrawing || p.Submitted {
		return false
	}
	return p.Grid.Set(x, y, colorIndex, len(p.Colors))
}

// ClearGrid wipes the acting player's grid while it is not yet frozen.
func (m *Match) ClearGrid(seat int) bool {
	p := m.Player(seat)
	if p == nil || m.phase != PhaseDrawing || p.Submitted {
		return false
	}
	p.Grid = NewGrid(m.cfg.GridSize)
	return true
}

// Submit freezes the acting player's grid. The second successful submit
// reports both=true so the caller can end the phase early.
func (m *Match) Submit(seat int) (both, ok bool) {
	p := m.Player(seat)
	if p == nil || m.phase != PhaseDrawing || p.Submitted {
		return false, false
	}
	p.Submitted = true
	return m.Players[0].Submitted && m.Players[1].Submitted, true
}

// EndDrawing moves drawing → judging. It is the single-execution barrier for
// the deadline-vs-second-submit race: only the first caller observes true,
// whatever grids happen to hold at that moment are the frozen artifacts.
func (m *Match) EndDrawing() bool {
	if m.phase != PhaseDrawing {
		return false
	}
	m.phase = PhaseJudging
	for _, p := range m.Players {
		p.HasJudged = false
		p.Judgment = Judgment{}
	}
	return true
}

// SubmitJudgment records one player's judgment. One per player; repeats and
// invalid values are ignored.
func (m *Match) SubmitJudgment(seat int, j Judgment) (both, ok bool) {
	p := m.Player(seat)
	if p == nil || m.phase != PhaseJudging || p.HasJudged {
		return false, false
	}
	accepted, ok := m.judge.Accept(m, seat, j)
	if !ok {
		return false, false
	}
	p.Judgment = accepted
	p.HasJudged = true
	return m.Players[0].HasJudged && m.Players[1].HasJudged, true
}

// Resolve computes the outcome from the two judgments and enters results.
// Rematch consent flags are reset so a stale flag can never carry a player
// into a new round.
func (m *Match) Resolve() (Outcome, bool) {
	if m.phase != PhaseJudging {
		return Outcome{}, false
	}
	m.phase = PhaseResults
	for _, p := range m.Players {
		p.WantsRematch = false
	}
	return m.judge.Outcome(m), true
}

// RequestRematch sets one player's consent flag. Both=true means the caller
// should reset the match via Rematch.
func (m *Match) RequestRematch(seat int) (both, ok bool) {
	p := m.Player(seat)
	if p == nil || m.phase != PhaseResults || p.WantsRematch {
		return false, false
	}
	p.WantsRematch = true
	return m.Players[0].WantsRematch && m.Players[1].WantsRematch, true
}

// Rematch resets all round state and re-enters color_pick with fresh
// prompts. Seats, ids and names persist.
func (m *Match) Rematch() bool {
	if m.phase != PhaseResults {
		return false
	}
	for _, p := range m.Players {
		p.Colors = nil
		p.Grid = NewGrid(m.cfg.GridSize)
		p.Submitted = false
		p.HasJudged = false
		p.Judgment = Judgment{}
		p.WantsRematch = false
	}
	m.pickRound = 0
	m.options = [2][]string{}
	m.drawPrompts()
	m.phase = PhaseColorPick
	return true
}

// Forfeitable reports whether a departure now costs the leaver the game.
// Leaving during results is a plain exit with no score change.
func (m *Match) Forfeitable() bool {
	return m.phase != PhaseResults && m.phase != PhaseTerminated
}

// Terminate marks the match dead. Every subsequent operation is rejected by
// its phase guard.
func (m *Match) Terminate() {
	m.phase = PhaseTerminated
}
