package schedule

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidSchedule = errors.New("invalid schedule")

// Schedule is the club's weekly recurring game schedule. There is exactly one
// current schedule; admins replace it wholesale, there is no per-day edit API.
type Schedule struct {
	// Days maps a scheduled weekday to its kickoff time in "HH:MM" wall-clock
	// notation (club-local timezone).
	Days map[time.Weekday]string
	// Locations optionally names the venue for a scheduled day. Keys must be a
	// subset of Days.
	Locations map[time.Weekday]string
}

func (s Schedule) IsZero() bool {
	return len(s.Days) == 0
}

// Validate checks the schedule document before it is stored.
func Validate(s Schedule) error {
	if len(s.Days) == 0 {
		return fmt.Errorf("%w: at least one game day is required", ErrInvalidSchedule)
	}

	for day, kickoff := range s.Days {
		if day < time.Sunday || day > time.Saturday {
			return fmt.Errorf("%w: unknown weekday %d", ErrInvalidSchedule, int(day))
		}
		if _, _, err := ParseKickoff(kickoff); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidSchedule, day, err)
		}
	}

	for day := range s.Locations {
		if _, ok := s.Days[day]; !ok {
			return fmt.Errorf("%w: location set for %s which has no game day", ErrInvalidSchedule, day)
		}
	}

	return nil
}

// ParseKickoff parses a "HH:MM" kickoff time into its wall-clock components.
func ParseKickoff(value string) (hour, minute int, err error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed kickoff time %q", value)
	}
	return parsed.Hour(), parsed.Minute(), nil
}

// Clone returns an independent copy so callers can hold a schedule across
// concurrent replacements.
func Clone(s Schedule) Schedule {
	copied := Schedule{}
	if s.Days != nil {
		copied.Days = make(map[time.Weekday]string, len(s.Days))
		for day, kickoff := range s.Days {
			copied.Days[day] = kickoff
		}
	}
	if s.Locations != nil {
		copied.Locations = make(map[time.Weekday]string, len(s.Locations))
		for day, location := range s.Locations {
			copied.Locations[day] = location
		}
	}
	return copied
}
