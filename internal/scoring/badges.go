// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package scoring

import (
	"time"

	"kalem/internal/models"
)

// badgeRule pairs a badge's display metadata with the predicate that
// earns it.
type badgeRule struct {
	id          string
	name        string
	description string
	icon        string
	earned      func(stats models.Stats, streak models.Streak) bool
}

// badgeRules is the fixed award table, checked in order after every
// stats or streak mutation.
var badgeRules = []badgeRule{
	{
		id:          "first_post",
		name:        "İlk Adım",
		description: "İlk gönderini yayınladın!",
		icon:        "🌟",
		earned:      func(st models.Stats, _ models.Streak) bool { return st.TotalPosts >= 1 },
	},
	{
		id:          "active_writer",
		name:        "Aktif Yazar",
		description: "10 gönderi yayınladın!",
		icon:        "✍️",
		earned:      func(st models.Stats, _ models.Streak) bool { return st.TotalPosts >= 10 },
	},
	{
		id:          "popular_writer",
		name:        "Popüler Yazar",
		description: "50 beğeni topladın!",
		icon:        "❤️",
		earned:      func(st models.Stats, _ models.Streak) bool { return st.TotalLikes >= 50 },
	},
	{
		id:          "social_user",
		name:        "Sosyal Kullanıcı",
		description: "25 yorum yaptın!",
		icon:        "💬",
		earned:      func(st models.Stats, _ models.Streak) bool { return st.TotalComments >= 25 },
	},
	{
		id:          "streak_master",
		name:        "Streak Master",
		description: "7 gün üst üste aktif oldun!",
		icon:        "🔥",
		earned:      func(_ models.Stats, sk models.Streak) bool { return sk.Longest >= 7 },
	},
}

// CheckBadges evaluates the award table against the given state and
// returns the badges newly earned, stamped with now. Badges already in
// held are never re-granted, so calling twice with unchanged state
// yields an empty set the second time.
func CheckBadges(stats models.Stats, streak models.Streak, held []models.Badge, now time.Time) []models.Badge {
	have := make(map[string]bool, len(held))
	for _, b := range held {
		have[b.ID] = true
	}

	var earned []models.Badge
	for _, rule := range badgeRules {
		if have[rule.id] || !rule.earned(stats, streak) {
			continue
		}
		earned = append(earned, models.Badge{
			ID:          rule.id,
			Name:        rule.name,
			Description: rule.description,
			Icon:        rule.icon,
			EarnedAt:    now,
		})
	}
	return earned
}
