// Simulated time for one episode. Time advances only through tool calls;
// there is no wall-clock coupling anywhere in the engine.

package sim

import "fmt"

// DayBoundary marks one day-rollover produced by a clock advance.
// CompletedDay is the day that just ended; the clock is already on
// CompletedDay+1 when the boundary is handed to the engine.
type DayBoundary struct {
	CompletedDay int
}

// Clock tracks the current day and minute-of-day of an episode.
// A single advance may cross several day boundaries; callers must handle
// every returned boundary in order, not just the first.
type Clock struct {
	dayLength    int
	day          int
	minute       int
	totalMinutes int64
}

// NewClock creates a clock at day 0, minute 0.
func NewClock(dayLengthMinutes int) *Clock {
	if dayLengthMinutes <= 0 {
		panic(fmt.Sprintf("NewClock: day length must be positive, got %d", dayLengthMinutes))
	}
	return &Clock{dayLength: dayLengthMinutes}
}

// Advance moves the clock forward by the given number of minutes and
// returns one DayBoundary per day boundary crossed, in order.
// minutes must be positive: a tool call with zero time cost would let the
// agent act for free and break minute-of-day monotonicity.
func (c *Clock) Advance(minutes int) ([]DayBoundary, error) {
	if minutes <= 0 {
		return nil, fmt.Errorf("clock advance must be positive, got %d minutes", minutes)
	}
	c.totalMinutes += int64(minutes)
	c.minute += minutes
	var boundaries []DayBoundary
	for c.minute >= c.dayLength {
		c.minute -= c.dayLength
		boundaries = append(boundaries, DayBoundary{CompletedDay: c.day})
		c.day++
	}
	return boundaries, nil
}

// Day returns the current simulated day (0-based).
func (c *Clock) Day() int { return c.day }

// MinuteOfDay returns the minute within the current day, in [0, dayLength).
func (c *Clock) MinuteOfDay() int { return c.minute }

// TotalMinutes returns the total simulated minutes elapsed this episode.
func (c *Clock) TotalMinutes() int64 { return c.totalMinutes }

// MinutesUntilNextDay returns the advance needed to reach the next day
// boundary. Always positive: at minute 0 it is a full day.
func (c *Clock) MinutesUntilNextDay() int {
	return c.dayLength - c.minute
}

// Timestamp returns the absolute minute timestamp for a given day and
// minute-of-day, used to order events on the event heap.
func (c *Clock) Timestamp(day, minute int) int64 {
	return int64(day)*int64(c.dayLength) + int64(minute)
}
