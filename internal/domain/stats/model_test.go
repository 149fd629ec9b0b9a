package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var entryTime = time.Date(2025, 6, 7, 20, 30, 0, 0, time.UTC)

func TestApplyAccumulatesCounters(t *testing.T) {
	agg := PlayerStats{PlayerID: "p1", PlayerName: "Dan"}

	agg, err := Apply(agg, GoalsAssistsEntry(2, 1, "2025-06-07", "admin", entryTime))
	require.NoError(t, err)
	agg, err = Apply(agg, MOTMEntry(3, "2025-06-07", "admin", entryTime))
	require.NoError(t, err)
	agg, err = Apply(agg, AttendanceEntry(1, "2025-06-07", "system", entryTime))
	require.NoError(t, err)

	assert.Equal(t, 2, agg.Goals)
	assert.Equal(t, 1, agg.Assists)
	assert.Equal(t, 1, agg.MOTMAwards)
	assert.Equal(t, 4, agg.TotalPoints)
	assert.Equal(t, 1, agg.GamesPlayed)
	assert.Len(t, agg.History, 3)
}

func TestApplyRejectsNegativeResults(t *testing.T) {
	agg := PlayerStats{PlayerID: "p1", Goals: 1, TotalPoints: 2}

	_, err := Apply(agg, LedgerEntry{GoalsDelta: -2, Reason: ReasonAdminEdit, AdminEdit: true})
	assert.ErrorIs(t, err, ErrNegativeStat)

	_, err = Apply(agg, LedgerEntry{PointsDelta: -3, Reason: ReasonAdminEdit, AdminEdit: true})
	assert.ErrorIs(t, err, ErrNegativeStat)

	// The failed apply must not have touched the input.
	assert.Equal(t, 1, agg.Goals)
	assert.Empty(t, agg.History)
}

func TestApplyDoesNotShareHistoryWithInput(t *testing.T) {
	agg := PlayerStats{PlayerID: "p1"}

	first, err := Apply(agg, AttendanceEntry(0, "2025-06-07", "system", entryTime))
	require.NoError(t, err)
	second, err := Apply(first, AttendanceEntry(0, "2025-06-14", "system", entryTime))
	require.NoError(t, err)

	require.Len(t, first.History, 1)
	require.Len(t, second.History, 2)
	assert.Equal(t, "2025-06-07", first.History[0].MatchDate)
}

func TestGamesPlayedOnlyCountsAutomaticAttendance(t *testing.T) {
	agg := PlayerStats{PlayerID: "p1"}

	agg, err := Apply(agg, AttendanceEntry(0, "2025-06-07", "system", entryTime))
	require.NoError(t, err)
	// Same reason recorded manually must not count.
	agg, err = Apply(agg, LedgerEntry{Reason: ReasonPlayedInGame, AddedBy: "admin", AddedAt: entryTime})
	require.NoError(t, err)

	assert.Equal(t, 1, agg.GamesPlayed)
}

// The cached counters are an optimization only: folding the history from
// scratch must land on the exact same aggregate.
func TestFoldReproducesCachedCounters(t *testing.T) {
	sequences := [][]LedgerEntry{
		{
			GoalsAssistsEntry(2, 1, "2025-06-07", "admin", entryTime),
			AttendanceEntry(1, "2025-06-07", "system", entryTime),
			MOTMEntry(3, "2025-06-07", "kate", entryTime),
		},
		{
			AttendanceEntry(0, "2025-05-31", "system", entryTime),
			AttendanceEntry(0, "2025-06-07", "system", entryTime),
			{GoalsDelta: 5, Reason: ReasonAdminEdit, AdminEdit: true, AddedBy: "admin", AddedAt: entryTime},
			{GoalsDelta: -3, PointsDelta: 2, Reason: ReasonAdminEdit, AdminEdit: true, AddedBy: "admin", AddedAt: entryTime},
		},
		{},
	}

	for _, history := range sequences {
		agg := PlayerStats{PlayerID: "p1", PlayerName: "Dan"}
		var err error
		for _, entry := range history {
			agg, err = Apply(agg, entry)
			require.NoError(t, err)
		}

		folded, err := Fold("p1", "Dan", history)
		require.NoError(t, err)

		assert.Equal(t, agg.TotalPoints, folded.TotalPoints)
		assert.Equal(t, agg.Goals, folded.Goals)
		assert.Equal(t, agg.Assists, folded.Assists)
		assert.Equal(t, agg.MOTMAwards, folded.MOTMAwards)
		assert.Equal(t, agg.GamesPlayed, folded.GamesPlayed)
		assert.Equal(t, agg.History, folded.History)
	}
}
