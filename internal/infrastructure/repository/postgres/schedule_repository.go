package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/matchnight/clubhouse/internal/domain/schedule"
)

type scheduleRow struct {
	Day      int    `db:"day"`
	Kickoff  string `db:"kickoff"`
	Location string `db:"location"`
}

// ScheduleRepository stores the singleton weekly schedule as one row per
// scheduled day. Replace swaps the whole document in a transaction.
type ScheduleRepository struct {
	db *sqlx.DB
}

func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) Get(ctx context.Context) (schedule.Schedule, bool, error) {
	var rows []scheduleRow
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT day, kickoff, location FROM game_schedule ORDER BY day`,
	); err != nil {
		return schedule.Schedule{}, false, fmt.Errorf("select schedule: %w", err)
	}
	if len(rows) == 0 {
		return schedule.Schedule{}, false, nil
	}

	s := schedule.Schedule{
		Days:      make(map[time.Weekday]string, len(rows)),
		Locations: make(map[time.Weekday]string),
	}
	for _, row := range rows {
		day := time.Weekday(row.Day)
		s.Days[day] = row.Kickoff
		if row.Location != "" {
			s.Locations[day] = row.Location
		}
	}
	return s, true, nil
}

func (r *ScheduleRepository) Replace(ctx context.Context, s schedule.Schedule) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace schedule: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM game_schedule`); err != nil {
		return fmt.Errorf("clear schedule: %w", err)
	}
	for day, kickoff := range s.Days {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO game_schedule (day, kickoff, location) VALUES ($1, $2, $3)`,
			int(day), kickoff, s.Locations[day],
		); err != nil {
			return fmt.Errorf("insert schedule day %d: %w", int(day), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace schedule: %w", err)
	}
	return nil
}
