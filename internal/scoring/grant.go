// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package scoring

import (
	"time"

	"kalem/internal/models"
)

// GrantState is the slice of user state that an XP grant reads and
// rewrites as a whole.
type GrantState struct {
	XP     int
	Level  int
	Stats  models.Stats
	Streak models.Streak
	Badges []models.Badge
}

// ApplyXP applies one XP grant to the state: adds the amount,
// recomputes the level from scratch, bumps the stats counter matching
// the reason by one, advances the streak, and evaluates badge rules.
// It returns the updated state and the badges newly earned by this
// grant.
func ApplyXP(s GrantState, amount int, reason XPReason, now time.Time) (GrantState, []models.Badge) {
	if amount > 0 {
		s.XP += amount
	}
	s.Level = LevelOf(s.XP)

	switch reason {
	case ReasonPost:
		s.Stats.TotalPosts++
	case ReasonLike:
		s.Stats.TotalLikes++
	case ReasonComment:
		s.Stats.TotalComments++
	}

	s.Streak = UpdateStreak(s.Streak, now)

	earned := CheckBadges(s.Stats, s.Streak, s.Badges, now)
	s.Badges = append(s.Badges, earned...)
	return s, earned
}
