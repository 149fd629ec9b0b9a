package schedule

import (
	"errors"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		s       Schedule
		wantErr bool
	}{
		{
			name: "single day",
			s:    Schedule{Days: map[time.Weekday]string{time.Saturday: "18:00"}},
		},
		{
			name: "day with location",
			s: Schedule{
				Days:      map[time.Weekday]string{time.Wednesday: "20:00"},
				Locations: map[time.Weekday]string{time.Wednesday: "Powerleague Shoreditch"},
			},
		},
		{
			name:    "empty days",
			s:       Schedule{},
			wantErr: true,
		},
		{
			name:    "malformed kickoff",
			s:       Schedule{Days: map[time.Weekday]string{time.Saturday: "6pm"}},
			wantErr: true,
		},
		{
			name:    "out of range kickoff",
			s:       Schedule{Days: map[time.Weekday]string{time.Saturday: "25:00"}},
			wantErr: true,
		},
		{
			name: "location without game day",
			s: Schedule{
				Days:      map[time.Weekday]string{time.Saturday: "18:00"},
				Locations: map[time.Weekday]string{time.Sunday: "somewhere"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.s)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSchedule) {
					t.Fatalf("expected ErrInvalidSchedule, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	original := Schedule{
		Days:      map[time.Weekday]string{time.Saturday: "18:00"},
		Locations: map[time.Weekday]string{time.Saturday: "Victoria Park"},
	}

	copied := Clone(original)
	copied.Days[time.Sunday] = "10:00"
	copied.Locations[time.Saturday] = "elsewhere"

	if _, ok := original.Days[time.Sunday]; ok {
		t.Fatal("clone shares the Days map")
	}
	if original.Locations[time.Saturday] != "Victoria Park" {
		t.Fatal("clone shares the Locations map")
	}
}
