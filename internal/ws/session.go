package ws

import (
	"time"

	"github.com/rs/zerolog/log"

	"pixelduel/internal/game"
	"pixelduel/internal/store"
)

type eventKind int

const (
	actionEvent eventKind = iota
	leaveEvent
)

type event struct {
	kind eventKind
	seat int
	env  Envelope
}

// Session owns one duel. Every mutation of the match flows through the
// events channel or the drawing deadline, consumed by a single goroutine in
// run, so phase transitions need no further locking.
type Session struct {
	id           string
	srv          *Server
	match        *game.Match
	clients      [2]*Client
	events       chan event
	done         chan struct{}
	drawDeadline time.Duration

	deadline  *time.Timer
	deadlineC <-chan time.Time
}

// deliver hands an event to the session goroutine. After teardown the done
// channel is closed and the event is dropped.
func (sn *Session) deliver(ev event) {
	select {
	case sn.events <- ev:
	case <-sn.done:
	}
}

func (sn *Session) run() {
	defer sn.teardown()

	sn.announceMatch()
	sn.startPickRound()

	for {
		select {
		case ev := <-sn.events:
			if ev.kind == leaveEvent {
				sn.handleLeave(ev.seat)
				return
			}
			sn.handleAction(ev.seat, ev.env)
		case <-sn.deadlineC:
			sn.deadline = nil
			sn.deadlineC = nil
			if sn.match.EndDrawing() {
				log.Info().Str("game_id", sn.id).Msg("drawing deadline hit")
				sn.startJudging()
			}
		}
	}
}

func (sn *Session) sendTo(seat int, v any) {
	sn.clients[seat].sendJSON(v)
}

func (sn *Session) announceMatch() {
	for seat, p := range sn.match.Players {
		sn.sendTo(seat, Matched{
			Type:        "matched",
			GameID:      sn.id,
			Opponent:    sn.match.Opponent(seat).Name,
			PlayerIndex: seat,
			Mode:        sn.match.Mode(),
			Theme:       p.Prompt,
		})
	}
}

func (sn *Session) startPickRound() {
	opts := sn.match.DealOptions()
	round := sn.match.PickRound()
	for seat := range sn.clients {
		sn.sendTo(seat, PickOptions{Type: "pick_options", Round: round, Colors: opts[seat]})
	}
}

func (sn *Session) handleAction(seat int, env Envelope) {
	switch env.Action {
	case "pick_choice":
		if env.Index == nil {
			return
		}
		sn.handlePick(seat, *env.Index)
	case "draw":
		if env.X == nil || env.Y == nil || env.ColorIndex == nil {
			return
		}
		sn.match.Draw(seat, *env.X, *env.Y, *env.ColorIndex)
	case "clear":
		sn.match.ClearGrid(seat)
	case "submit":
		sn.handleSubmit(seat)
	case "judge":
		sn.handleJudge(seat, env)
	case "rematch_consent":
		sn.handleRematchConsent(seat)
	}
}

func (sn *Session) handlePick(seat, index int) {
	res, ok := sn.match.PickColor(seat, index)
	if !ok {
		return
	}
	sn.sendTo(seat, ChoiceMade{Type: "choice_made", Round: res.Round, Color: res.Color})
	if !res.RoundComplete {
		return
	}
	if res.AllRoundsDone {
		sn.startDrawing()
		return
	}
	sn.startPickRound()
}

func (sn *Session) startDrawing() {
	for seat, p := range sn.match.Players {
		sn.sendTo(seat, DrawingStart{
			Type:       "drawing_start",
			YourColors: p.Colors,
			Timer:      int(sn.drawDeadline / time.Second),
		})
	}
	sn.deadline = time.NewTimer(sn.drawDeadline)
	sn.deadlineC = sn.deadline.C
}

func (sn *Session) cancelDeadline() {
	if sn.deadline != nil {
		sn.deadline.Stop()
		sn.deadline = nil
		sn.deadlineC = nil
	}
}

func (sn *Session) handleSubmit(seat int) {
	both, ok := sn.match.Submit(seat)
	if !ok {
		return
	}
	sn.sendTo(1-seat, OpponentSubmitted{Type: "opponent_submitted"})
	if both {
		sn.cancelDeadline()
		if sn.match.EndDrawing() {
			sn.startJudging()
		}
	}
}

func (sn *Session) startJudging() {
	theme := ""
	if sn.match.Mode() == "vote" {
		theme = sn.match.Theme
	}
	for seat, p := range sn.match.Players {
		opp := sn.match.Opponent(seat)
		sn.sendTo(seat, JudgingStart{
			Type:           "judging_start",
			PlayerIndex:    seat,
			YourGrid:       p.Grid.Clone(),
			OpponentGrid:   opp.Grid.Clone(),
			YourColors:     p.Colors,
			OpponentColors: opp.Colors,
			Theme:          theme,
		})
	}
}

func (sn *Session) handleJudge(seat int, env Envelope) {
	j := game.Judgment{Guess: env.Guess}
	if env.Vote != nil {
		j.Vote = *env.Vote
	} else if sn.match.Mode() == "vote" {
		return
	}
	both, ok := sn.match.SubmitJudgment(seat, j)
	if !ok {
		return
	}
	if both {
		sn.resolve()
	}
}

func (sn *Session) resolve() {
	out, ok := sn.match.Resolve()
	if !ok {
		return
	}
	stats := record(sn.srv.bridge, sn.outcomeRecord(out.Winner, false))

	mode := sn.match.Mode()
	for seat, p := range sn.match.Players {
		opp := sn.match.Opponent(seat)
		res := Results{
			Type:           "results",
			Winner:         out.Winner,
			YourIndex:      seat,
			YourGrid:       p.Grid.Clone(),
			OpponentGrid:   opp.Grid.Clone(),
			YourColors:     p.Colors,
			OpponentColors: opp.Colors,
			Theme:          sn.match.Theme,
			Stats:          stats[seat],
		}
		if mode == "vote" {
			yours, theirs := p.Judgment.Vote, opp.Judgment.Vote
			res.YourVote, res.OpponentVote = &yours, &theirs
		} else {
			res.YourGuess = p.Judgment.Guess
			res.OpponentGuess = opp.Judgment.Guess
			yours, theirs := out.Correct[seat], out.Correct[1-seat]
			res.YourCorrect, res.OpponentCorrect = &yours, &theirs
			res.Theme = p.Prompt
			res.OpponentPrompt = opp.Prompt
		}
		sn.sendTo(seat, res)
	}
	log.Info().Str("game_id", sn.id).Int("winner", out.Winner).Msg("round resolved")
}

// handleLeave ends the session on any departure: a dropped connection or an
// explicit exit. Before results the leaver forfeits and the opponent's win
// is persisted; in results it is a plain departure with nothing to score.
func (sn *Session) handleLeave(seat int) {
	opp := 1 - seat
	if !sn.match.Forfeitable() {
		sn.sendTo(opp, OpponentLeft{Type: "opponent_left"})
		return
	}

	sn.cancelDeadline()
	sn.match.Terminate()
	stats := record(sn.srv.bridge, sn.outcomeRecord(opp, true))
	oppStats := stats[opp]
	sn.sendTo(opp, OpponentLeft{Type: "opponent_left", Forfeit: true, Stats: &oppStats})
	log.Info().Str("game_id", sn.id).Int("leaver", seat).Msg("forfeit")
}

func (sn *Session) handleRematchConsent(seat int) {
	both, ok := sn.match.RequestRematch(seat)
	if !ok {
		return
	}
	sn.sendTo(1-seat, RematchRequested{Type: "rematch_requested"})
	if !both {
		return
	}
	if !sn.match.Rematch() {
		return
	}
	for seat, p := range sn.match.Players {
		sn.sendTo(seat, RematchStart{Type: "rematch_start", Theme: p.Prompt})
	}
	log.Info().Str("game_id", sn.id).Msg("rematch")
	sn.startPickRound()
}

func (sn *Session) outcomeRecord(winner int, forfeit bool) store.OutcomeRecord {
	rec := store.OutcomeRecord{
		GameID:     sn.id,
		WinnerSeat: winner,
		Theme:      sn.match.Theme,
		Mode:       sn.match.Mode(),
		Forfeit:    forfeit,
	}
	for seat, p := range sn.match.Players {
		rec.Players[seat] = store.PlayerResult{
			UserID:   p.ID,
			Username: p.Name,
			Grid:     p.Grid.Clone(),
		}
	}
	return rec
}

func (sn *Session) teardown() {
	sn.cancelDeadline()
	close(sn.done)
	sn.srv.mu.Lock()
	delete(sn.srv.sessions, sn.id)
	for _, c := range sn.clients {
		if c != nil && c.session == sn {
			c.session = nil
		}
	}
	sn.srv.mu.Unlock()
}
