// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package scoring

import (
	"time"

	"kalem/internal/models"
)

// UpdateStreak applies one activity event to a streak at time now and
// returns the new state. The transition compares whole 24-hour periods
// since the last activity: same day leaves the counter alone, exactly
// one day extends it, and a longer gap resets it to 1. LastActive is
// always moved to now, including on same-day activity.
func UpdateStreak(s models.Streak, now time.Time) models.Streak {
	days := int(now.Sub(s.LastActive).Hours() / 24)

	switch {
	case days == 1:
		s.Current++
		if s.Current > s.Longest {
			s.Longest = s.Current
		}
	case days > 1:
		s.Current = 1
	}

	s.LastActive = now
	return s
}
