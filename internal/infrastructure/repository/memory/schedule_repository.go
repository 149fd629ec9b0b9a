package memory

import (
	"context"
	"sync"

	"github.com/matchnight/clubhouse/internal/domain/schedule"
)

type ScheduleRepository struct {
	mu      sync.RWMutex
	current schedule.Schedule
	set     bool
}

func NewScheduleRepository() *ScheduleRepository {
	return &ScheduleRepository{}
}

func NewScheduleRepositoryWith(s schedule.Schedule) *ScheduleRepository {
	return &ScheduleRepository{current: schedule.Clone(s), set: true}
}

func (r *ScheduleRepository) Get(_ context.Context) (schedule.Schedule, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.set {
		return schedule.Schedule{}, false, nil
	}
	return schedule.Clone(r.current), true, nil
}

func (r *ScheduleRepository) Replace(_ context.Context, s schedule.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = schedule.Clone(s)
	r.set = true
	return nil
}
