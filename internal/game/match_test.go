package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMatch(t *testing.T) *Match {
	t.Helper()
	cfg := Config{GridSize: 8, PickRounds: 3, PickChoices: 3}
	return NewMatch("m1", cfg, VoteJudge{}, rand.New(rand.NewSource(42)),
		PlayerRef{ID: "a", Name: "Alice"}, PlayerRef{ID: "b", Name: "Bob"})
}

func TestNewMatchStartsInColorPick(t *testing.T) {
	m := newTestMatch(t)

	assert.Equal(t, PhaseColorPick, m.Phase())
	assert.Equal(t, 0, m.PickRound())
	assert.NotEmpty(t, m.Theme)
	assert.Equal(t, m.Theme, m.Players[0].Prompt)
	assert.Equal(t, m.Theme, m.Players[1].Prompt)
}

func TestGuessModeGivesDistinctPrompts(t *testing.T) {
	cfg := Config{GridSize: 8, PickRounds: 3, PickChoices: 3, GuessMaxLen: 40}
	m := NewMatch("m1", cfg, GuessJudge{MaxLen: 40}, rand.New(rand.NewSource(7)),
		PlayerRef{ID: "a", Name: "Alice"}, PlayerRef{ID: "b", Name: "Bob"})

	assert.NotEqual(t, m.Players[0].Prompt, m.Players[1].Prompt)
}

func TestDealOptionsExcludesHeldColors(t *testing.T) {
	m := newTestMatch(t)

	opts := m.DealOptions()
	require.Len(t, opts[0], 3)
	require.Len(t, opts[1], 3)

	_, ok := m.PickColor(0, 1)
	require.True(t, ok)
	held := m.Players[0].Colors[0]
	_, ok = m.PickColor(1, 0)
	require.True(t, ok)

	opts = m.DealOptions()
	assert.NotContains(t, opts[0], held)
}

func TestPickColorRoundProgression(t *testing.T) {
	m := newTestMatch(t)

	for round := 0; round < 3; round++ {
		m.DealOptions()

		res, ok := m.PickColor(0, 0)
		require.True(t, ok)
		assert.Equal(t, round, res.Round)
		assert.False(t, res.RoundComplete)

		// double pick in the same round is rejected
		_, ok = m.PickColor(0, 1)
		assert.False(t, ok)

		res, ok = m.PickColor(1, 0)
		require.True(t, ok)
		assert.True(t, res.RoundComplete)
		assert.Equal(t, round == 2, res.AllRoundsDone)
	}

	assert.Equal(t, PhaseDrawing, m.Phase())
	assert.Len(t, m.Players[0].Colors, 3)
	assert.Len(t, m.Players[1].Colors, 3)
}

func TestPickColorRejectsBadInput(t *testing.T) {
	m := newTestMatch(t)
	m.DealOptions()

	_, ok := m.PickColor(2, 0)
	assert.False(t, ok)
	_, ok = m.PickColor(0, -1)
	assert.False(t, ok)
	_, ok = m.PickColor(0, 3)
	assert.False(t, ok)
	assert.Empty(t, m.Players[0].Colors)
}

func advanceToDrawing(t *testing.T, m *Match) {
	t.Helper()
	for m.Phase() == PhaseColorPick {
		m.DealOptions()
		_, ok := m.PickColor(0, 0)
		require.True(t, ok)
		_, ok = m.PickColor(1, 0)
		require.True(t, ok)
	}
	require.Equal(t, PhaseDrawing, m.Phase())
}

func TestDrawAndClear(t *testing.T) {
	m := newTestMatch(t)

	// wrong phase
	assert.False(t, m.Draw(0, 0, 0, 0))

	advanceToDrawing(t, m)

	assert.True(t, m.Draw(0, 3, 4, 2))
	assert.Equal(t, 2, m.Players[0].Grid[4][3])
	assert.Equal(t, -1, m.Players[1].Grid[4][3])

	// palette index beyond the three picked colors
	assert.False(t, m.Draw(0, 0, 0, 3))

	assert.True(t, m.ClearGrid(0))
	assert.Equal(t, -1, m.Players[0].Grid[4][3])
}

func TestSubmitFreezesGrid(t *testing.T) {
	m := newTestMatch(t)
	advanceToDrawing(t, m)

	both, ok := m.Submit(0)
	require.True(t, ok)
	assert.False(t, both)

	assert.False(t, m.Draw(0, 0, 0, 0))
	assert.False(t, m.ClearGrid(0))
	_, ok = m.Submit(0)
	assert.False(t, ok)

	// opponent keeps drawing
	assert.True(t, m.Draw(1, 0, 0, 0))

	both, ok = m.Submit(1)
	require.True(t, ok)
	assert.True(t, both)
}

func TestEndDrawingRunsOnce(t *testing.T) {
	m := newTestMatch(t)
	advanceToDrawing(t, m)

	assert.True(t, m.EndDrawing())
	assert.Equal(t, PhaseJudging, m.Phase())
	assert.False(t, m.EndDrawing())
}

func TestResolveRequiresJudging(t *testing.T) {
	m := newTestMatch(t)

	_, ok := m.Resolve()
	assert.False(t, ok)
}

func advanceToResults(t *testing.T, m *Match) Outcome {
	t.Helper()
	advanceToDrawing(t, m)
	m.Submit(0)
	m.Submit(1)
	require.True(t, m.EndDrawing())
	_, ok := m.SubmitJudgment(0, Judgment{Vote: 0})
	require.True(t, ok)
	both, ok := m.SubmitJudgment(1, Judgment{Vote: 0})
	require.True(t, ok)
	require.True(t, both)
	out, ok := m.Resolve()
	require.True(t, ok)
	return out
}

func TestFullRoundToResults(t *testing.T) {
	m := newTestMatch(t)
	out := advanceToResults(t, m)

	assert.Equal(t, 0, out.Winner)
	assert.Equal(t, PhaseResults, m.Phase())
	assert.False(t, m.Forfeitable())
}

func TestRematchResetsRoundState(t *testing.T) {
	m := newTestMatch(t)
	advanceToResults(t, m)

	both, ok := m.RequestRematch(0)
	require.True(t, ok)
	assert.False(t, both)

	// repeat consent is a no-op
	_, ok = m.RequestRematch(0)
	assert.False(t, ok)

	both, ok = m.RequestRematch(1)
	require.True(t, ok)
	require.True(t, both)

	require.True(t, m.Rematch())

	assert.Equal(t, PhaseColorPick, m.Phase())
	assert.Equal(t, 0, m.PickRound())
	for _, p := range m.Players {
		assert.Empty(t, p.Colors)
		assert.False(t, p.Submitted)
		assert.False(t, p.HasJudged)
		assert.False(t, p.WantsRematch)
	}
	assert.Equal(t, "a", m.Players[0].ID)
	assert.Equal(t, "b", m.Players[1].ID)
}

func TestRematchConsentOnlyInResults(t *testing.T) {
	m := newTestMatch(t)

	_, ok := m.RequestRematch(0)
	assert.False(t, ok)
	assert.False(t, m.Rematch())
}

func TestForfeitableByPhase(t *testing.T) {
	m := newTestMatch(t)
	assert.True(t, m.Forfeitable())

	advanceToDrawing(t, m)
	assert.True(t, m.Forfeitable())

	m.EndDrawing()
	assert.True(t, m.Forfeitable())

	m.SubmitJudgment(0, Judgment{Vote: 0})
	m.SubmitJudgment(1, Judgment{Vote: 1})
	m.Resolve()
	assert.False(t, m.Forfeitable())

	m.Terminate()
	assert.False(t, m.Forfeitable())
}

func TestTerminateBlocksEverything(t *testing.T) {
	m := newTestMatch(t)
	m.DealOptions()
	m.Terminate()

	_, ok := m.PickColor(0, 0)
	assert.False(t, ok)
	assert.False(t, m.Draw(0, 0, 0, 0))
	_, ok = m.Submit(0)
	assert.False(t, ok)
	assert.False(t, m.EndDrawing())
	_, ok = m.SubmitJudgment(0, Judgment{Vote: 0})
	assert.False(t, ok)
	_, ok = m.Resolve()
	assert.False(t, ok)
	_, ok = m.RequestRematch(0)
	assert.False(t, ok)
	assert.False(t, m.Rematch())
}
