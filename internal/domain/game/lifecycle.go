package game

import "time"

// GracePeriod is how long after kickoff a game stays pending before it counts
// as played and post-game actions unlock.
const GracePeriod = 2 * time.Hour

type Phase string

const (
	PhaseDormant      Phase = "DORMANT"
	PhaseUpcoming     Phase = "UPCOMING"
	PhaseTodayPending Phase = "TODAY_PENDING"
	PhaseComplete     Phase = "COMPLETE"
)

// State is the lifecycle snapshot for one instant. Every evaluation produces a
// fresh value; nothing is mutated across ticks.
type State struct {
	Phase Phase
	// Game is the in-window occurrence for TodayPending and Complete.
	Game *Occurrence
	// Next is the nearest future occurrence for Upcoming.
	Next *Occurrence
}

// PostGameActionsEnabled gates MOTM nominations, kudos, attendance and
// goals & assists submissions.
func (s State) PostGameActionsEnabled() bool {
	return s.Phase == PhaseComplete
}

// Resolve derives the lifecycle state from an evaluation. Pure: resolving the
// same evaluation and instant twice yields the same state.
func Resolve(ev Evaluation, now time.Time) State {
	if current := inWindowGame(ev, now); current != nil {
		if now.Sub(current.Date) >= GracePeriod {
			return State{Phase: PhaseComplete, Game: current}
		}
		return State{Phase: PhaseTodayPending, Game: current}
	}
	if ev.Next != nil {
		return State{Phase: PhaseUpcoming, Next: ev.Next}
	}
	return State{Phase: PhaseDormant}
}

// inWindowGame picks the occurrence whose calendar day is today or yesterday,
// preferring today when both would qualify.
func inWindowGame(ev Evaluation, now time.Time) *Occurrence {
	if ev.Today != nil && withinDayAfterWindow(ev.Today.Date, now) {
		return ev.Today
	}
	if ev.Yesterday != nil && withinDayAfterWindow(ev.Yesterday.Date, now) {
		return ev.Yesterday
	}
	return nil
}

// withinDayAfterWindow reports whether now falls on the game's calendar day or
// the one after. Both sides are compared as date-only values, never as 24h
// offsets, so a 23:00 game is still in window at 00:05 the next day.
func withinDayAfterWindow(gameDate, now time.Time) bool {
	today := civilOf(now)
	gameDay := civilOf(gameDate)
	return today == gameDay || today == gameDay.next()
}

// civilDate is a date with no time component. All day-boundary comparisons go
// through it so instant arithmetic and calendar arithmetic never mix.
type civilDate struct {
	year  int
	month time.Month
	day   int
}

func civilOf(t time.Time) civilDate {
	year, month, day := t.Date()
	return civilDate{year: year, month: month, day: day}
}

func (d civilDate) next() civilDate {
	return civilOf(time.Date(d.year, d.month, d.day+1, 0, 0, 0, 0, time.UTC))
}
