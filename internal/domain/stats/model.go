package stats

import (
	"errors"
	"fmt"
	"time"
)

// Ledger entry reasons written by this service. GamesPlayed is derived by
// counting ReasonPlayedInGame entries, every other counter by summing deltas.
const (
	ReasonPlayedInGame  = "Played in game"
	ReasonGoalsAssists  = "Goals & Assists approved"
	ReasonAdminEdit     = "Admin stat correction"
	ReasonManOfTheMatch = "Man of the Match"
)

var ErrNegativeStat = errors.New("stat value cannot go negative")

// LedgerEntry is one immutable signed adjustment in a player's history. Once
// appended it is never modified or removed; it is the audit trail from which
// the aggregate counters are always re-derivable.
type LedgerEntry struct {
	PointsDelta  int
	GoalsDelta   int
	AssistsDelta int
	MOTMDelta    int
	Reason       string
	AddedBy      string
	AddedAt      time.Time
	// MatchDate ties the entry to a game day ("2006-01-02"); empty otherwise.
	MatchDate string
	Automatic bool
	AdminEdit bool
}

// PlayerStats is the per-player aggregate document. The counters are a cached
// fold over History; Fold must reproduce them exactly.
type PlayerStats struct {
	PlayerID    string
	PlayerName  string
	TotalPoints int
	Goals       int
	Assists     int
	MOTMAwards  int
	GamesPlayed int
	History     []LedgerEntry
}

// Apply folds one entry into the aggregate. It fails without mutating the
// input when any counter would go negative (all stats are clamped at >= 0).
func Apply(agg PlayerStats, entry LedgerEntry) (PlayerStats, error) {
	switch {
	case agg.TotalPoints+entry.PointsDelta < 0:
		return agg, fmt.Errorf("%w: points %d%+d", ErrNegativeStat, agg.TotalPoints, entry.PointsDelta)
	case agg.Goals+entry.GoalsDelta < 0:
		return agg, fmt.Errorf("%w: goals %d%+d", ErrNegativeStat, agg.Goals, entry.GoalsDelta)
	case agg.Assists+entry.AssistsDelta < 0:
		return agg, fmt.Errorf("%w: assists %d%+d", ErrNegativeStat, agg.Assists, entry.AssistsDelta)
	case agg.MOTMAwards+entry.MOTMDelta < 0:
		return agg, fmt.Errorf("%w: motm awards %d%+d", ErrNegativeStat, agg.MOTMAwards, entry.MOTMDelta)
	}

	agg.TotalPoints += entry.PointsDelta
	agg.Goals += entry.GoalsDelta
	agg.Assists += entry.AssistsDelta
	agg.MOTMAwards += entry.MOTMDelta
	if entry.Reason == ReasonPlayedInGame && entry.Automatic {
		agg.GamesPlayed++
	}

	history := make([]LedgerEntry, 0, len(agg.History)+1)
	history = append(history, agg.History...)
	agg.History = append(history, entry)
	return agg, nil
}

// Fold rebuilds the aggregate for a player from history alone.
func Fold(playerID, playerName string, history []LedgerEntry) (PlayerStats, error) {
	agg := PlayerStats{PlayerID: playerID, PlayerName: playerName}
	for i, entry := range history {
		next, err := Apply(agg, entry)
		if err != nil {
			return PlayerStats{}, fmt.Errorf("fold entry %d: %w", i, err)
		}
		agg = next
	}
	return agg, nil
}

// GoalsAssistsEntry records an approved player submission. Approved values are
// additive on top of whatever the aggregate already holds.
func GoalsAssistsEntry(goals, assists int, matchDate, reviewedBy string, at time.Time) LedgerEntry {
	return LedgerEntry{
		GoalsDelta:   goals,
		AssistsDelta: assists,
		Reason:       ReasonGoalsAssists,
		AddedBy:      reviewedBy,
		AddedAt:      at,
		MatchDate:    matchDate,
	}
}

// AttendanceEntry marks a player as having played on matchDate. These entries
// drive the GamesPlayed counter.
func AttendanceEntry(points int, matchDate, addedBy string, at time.Time) LedgerEntry {
	return LedgerEntry{
		PointsDelta: points,
		Reason:      ReasonPlayedInGame,
		AddedBy:     addedBy,
		AddedAt:     at,
		MatchDate:   matchDate,
		Automatic:   true,
	}
}

// MOTMEntry awards a Man of the Match nomination win.
func MOTMEntry(points int, matchDate, addedBy string, at time.Time) LedgerEntry {
	return LedgerEntry{
		PointsDelta: points,
		MOTMDelta:   1,
		Reason:      ReasonManOfTheMatch,
		AddedBy:     addedBy,
		AddedAt:     at,
		MatchDate:   matchDate,
	}
}
