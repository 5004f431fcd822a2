package analytics

import "time"

// Test hooks for the injectable clock and probability roll.

func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

func (e *Engine) SetChance(roll func() float64) {
	e.chance = roll
}
