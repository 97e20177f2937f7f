package sim

import "testing"

func TestClock_AdvanceWithinDay(t *testing.T) {
	// GIVEN a clock with a 1440-minute day
	c := NewClock(1440)

	// WHEN advancing 100 minutes
	boundaries, err := c.Advance(100)
	if err != nil {
		t.Fatal(err)
	}

	// THEN no day boundary is crossed
	if len(boundaries) != 0 {
		t.Errorf("crossed %d boundaries, want 0", len(boundaries))
	}
	if c.Day() != 0 || c.MinuteOfDay() != 100 {
		t.Errorf("clock at day %d minute %d, want day 0 minute 100", c.Day(), c.MinuteOfDay())
	}
}

func TestClock_ThreeCallsCrossOneBoundary(t *testing.T) {
	// GIVEN a 180-minute day
	c := NewClock(180)

	// WHEN three 75-minute tool calls execute
	total := 0
	for i := 0; i < 3; i++ {
		b, err := c.Advance(75)
		if err != nil {
			t.Fatal(err)
		}
		total += len(b)
	}

	// THEN exactly one rollover fired and the clock reads day 1, minute 45
	if total != 1 {
		t.Errorf("crossed %d boundaries, want 1", total)
	}
	if c.Day() != 1 {
		t.Errorf("day = %d, want 1", c.Day())
	}
	if c.MinuteOfDay() != 45 {
		t.Errorf("minute = %d, want 45", c.MinuteOfDay())
	}
}

func TestClock_MultiDayAdvance(t *testing.T) {
	// GIVEN a 100-minute day
	c := NewClock(100)

	// WHEN a single advance spans three days
	boundaries, err := c.Advance(350)
	if err != nil {
		t.Fatal(err)
	}

	// THEN one boundary per completed day, in order
	if len(boundaries) != 3 {
		t.Fatalf("crossed %d boundaries, want 3", len(boundaries))
	}
	for i, b := range boundaries {
		if b.CompletedDay != i {
			t.Errorf("boundary %d completed day %d, want %d", i, b.CompletedDay, i)
		}
	}
	if c.Day() != 3 || c.MinuteOfDay() != 50 {
		t.Errorf("clock at day %d minute %d, want day 3 minute 50", c.Day(), c.MinuteOfDay())
	}
}

func TestClock_RejectsNonPositiveAdvance(t *testing.T) {
	c := NewClock(1440)
	for _, minutes := range []int{0, -5} {
		if _, err := c.Advance(minutes); err == nil {
			t.Errorf("Advance(%d) succeeded, want error", minutes)
		}
	}
}

func TestClock_MinutesUntilNextDay(t *testing.T) {
	tests := []struct {
		name    string
		advance int
		want    int
	}{
		{"at day start", 0, 180},
		{"mid-day", 50, 130},
		{"one minute left", 179, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClock(180)
			if tt.advance > 0 {
				if _, err := c.Advance(tt.advance); err != nil {
					t.Fatal(err)
				}
			}
			if got := c.MinutesUntilNextDay(); got != tt.want {
				t.Errorf("MinutesUntilNextDay() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestClock_Timestamp(t *testing.T) {
	c := NewClock(1440)
	if ts := c.Timestamp(2, 30); ts != 2*1440+30 {
		t.Errorf("Timestamp(2, 30) = %d, want %d", ts, 2*1440+30)
	}
}

func TestClock_TotalMinutesAccumulates(t *testing.T) {
	c := NewClock(60)
	c.Advance(45)
	c.Advance(45)
	if c.TotalMinutes() != 90 {
		t.Errorf("TotalMinutes() = %d, want 90", c.TotalMinutes())
	}
}
