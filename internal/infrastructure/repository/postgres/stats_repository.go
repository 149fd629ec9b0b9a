package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/matchnight/clubhouse/internal/domain/stats"
)

type playerStatsRow struct {
	PlayerID    string `db:"player_id"`
	PlayerName  string `db:"player_name"`
	TotalPoints int    `db:"total_points"`
	Goals       int    `db:"goals"`
	Assists     int    `db:"assists"`
	MOTMAwards  int    `db:"motm_awards"`
	GamesPlayed int    `db:"games_played"`
}

type ledgerRow struct {
	PointsDelta  int       `db:"points_delta"`
	GoalsDelta   int       `db:"goals_delta"`
	AssistsDelta int       `db:"assists_delta"`
	MOTMDelta    int       `db:"motm_delta"`
	Reason       string    `db:"reason"`
	AddedBy      string    `db:"added_by"`
	AddedAt      time.Time `db:"added_at"`
	MatchDate    string    `db:"match_date"`
	Automatic    bool      `db:"automatic"`
	AdminEdit    bool      `db:"admin_edit"`
}

func (row playerStatsRow) toAggregate() stats.PlayerStats {
	return stats.PlayerStats{
		PlayerID:    row.PlayerID,
		PlayerName:  row.PlayerName,
		TotalPoints: row.TotalPoints,
		Goals:       row.Goals,
		Assists:     row.Assists,
		MOTMAwards:  row.MOTMAwards,
		GamesPlayed: row.GamesPlayed,
	}
}

func (row ledgerRow) toEntry() stats.LedgerEntry {
	return stats.LedgerEntry{
		PointsDelta:  row.PointsDelta,
		GoalsDelta:   row.GoalsDelta,
		AssistsDelta: row.AssistsDelta,
		MOTMDelta:    row.MOTMDelta,
		Reason:       row.Reason,
		AddedBy:      row.AddedBy,
		AddedAt:      row.AddedAt,
		MatchDate:    row.MatchDate,
		Automatic:    row.Automatic,
		AdminEdit:    row.AdminEdit,
	}
}

// StatsRepository keeps the cached counters in player_stats and the ledger in
// points_history. Every write folds its entries onto the row under
// SELECT ... FOR UPDATE so the cached counters always equal the fold of the
// history.
type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) Get(ctx context.Context, playerID string) (stats.PlayerStats, bool, error) {
	var row playerStatsRow
	err := r.db.GetContext(ctx, &row,
		`SELECT player_id, player_name, total_points, goals, assists, motm_awards, games_played
		 FROM player_stats WHERE player_id = $1`,
		playerID,
	)
	if isNotFound(err) {
		return stats.PlayerStats{}, false, nil
	}
	if err != nil {
		return stats.PlayerStats{}, false, fmt.Errorf("select player stats: %w", err)
	}

	agg := row.toAggregate()
	history, err := r.history(ctx, playerID)
	if err != nil {
		return stats.PlayerStats{}, false, err
	}
	agg.History = history
	return agg, true, nil
}

// List returns counters only; ledger history is loaded per player via Get.
func (r *StatsRepository) List(ctx context.Context) ([]stats.PlayerStats, error) {
	var rows []playerStatsRow
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT player_id, player_name, total_points, goals, assists, motm_awards, games_played
		 FROM player_stats ORDER BY player_id`,
	); err != nil {
		return nil, fmt.Errorf("list player stats: %w", err)
	}

	out := make([]stats.PlayerStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toAggregate())
	}
	return out, nil
}

func (r *StatsRepository) Append(ctx context.Context, playerID, playerName string, entries ...stats.LedgerEntry) (stats.PlayerStats, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return stats.PlayerStats{}, fmt.Errorf("begin stats append: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	agg, err := applyEntriesTx(ctx, tx, playerID, playerName, entries)
	if err != nil {
		return stats.PlayerStats{}, err
	}

	if err := tx.Commit(); err != nil {
		return stats.PlayerStats{}, fmt.Errorf("commit stats append: %w", err)
	}

	history, err := r.history(ctx, playerID)
	if err != nil {
		return stats.PlayerStats{}, err
	}
	agg.History = history
	return agg, nil
}

func (r *StatsRepository) history(ctx context.Context, playerID string) ([]stats.LedgerEntry, error) {
	var rows []ledgerRow
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT points_delta, goals_delta, assists_delta, motm_delta, reason,
		        added_by, added_at, match_date, automatic, admin_edit
		 FROM points_history WHERE player_id = $1 ORDER BY id`,
		playerID,
	); err != nil {
		return nil, fmt.Errorf("select points history: %w", err)
	}

	history := make([]stats.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		history = append(history, row.toEntry())
	}
	return history, nil
}

// applyEntriesTx locks the player row, folds the entries onto the cached
// counters and inserts the ledger rows, all inside the caller's transaction.
// Submission approval shares this helper so the approval status flip and the
// ledger write commit together.
func applyEntriesTx(ctx context.Context, tx *sqlx.Tx, playerID, playerName string, entries []stats.LedgerEntry) (stats.PlayerStats, error) {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO player_stats (player_id, player_name)
		 VALUES ($1, $2)
		 ON CONFLICT (player_id) DO NOTHING`,
		playerID, playerName,
	); err != nil {
		return stats.PlayerStats{}, fmt.Errorf("ensure player stats row: %w", err)
	}

	var row playerStatsRow
	if err := tx.GetContext(ctx, &row,
		`SELECT player_id, player_name, total_points, goals, assists, motm_awards, games_played
		 FROM player_stats WHERE player_id = $1 FOR UPDATE`,
		playerID,
	); err != nil {
		return stats.PlayerStats{}, fmt.Errorf("lock player stats row: %w", err)
	}

	agg := row.toAggregate()
	if playerName != "" {
		agg.PlayerName = playerName
	}
	for _, entry := range entries {
		next, err := stats.Apply(agg, entry)
		if err != nil {
			return stats.PlayerStats{}, err
		}
		next.History = nil
		agg = next

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO points_history
			   (player_id, points_delta, goals_delta, assists_delta, motm_delta,
			    reason, added_by, added_at, match_date, automatic, admin_edit)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			playerID, entry.PointsDelta, entry.GoalsDelta, entry.AssistsDelta, entry.MOTMDelta,
			entry.Reason, entry.AddedBy, entry.AddedAt, entry.MatchDate, entry.Automatic, entry.AdminEdit,
		); err != nil {
			return stats.PlayerStats{}, fmt.Errorf("insert ledger entry: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE player_stats
		 SET player_name = $2, total_points = $3, goals = $4, assists = $5,
		     motm_awards = $6, games_played = $7, updated_at = now()
		 WHERE player_id = $1`,
		playerID, agg.PlayerName, agg.TotalPoints, agg.Goals, agg.Assists,
		agg.MOTMAwards, agg.GamesPlayed,
	); err != nil {
		return stats.PlayerStats{}, fmt.Errorf("update player stats: %w", err)
	}
	return agg, nil
}
