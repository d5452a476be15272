// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package scoring

// XPReason tags what activity an XP grant rewards. The reason only
// drives which stats counter is incremented; the XP amount itself is
// supplied by the caller.
type XPReason string

const (
	ReasonPost    XPReason = "post"
	ReasonLike    XPReason = "like"
	ReasonComment XPReason = "comment"
)

// LevelOf converts cumulative XP into a level using a triangular curve:
// each level requires 100 XP more than the previous one (1→2 costs 100,
// 2→3 costs 200, ...), so the cumulative threshold for level L is
// 50*L*(L-1). The result is recomputed from scratch on every call so
// the stored level can never drift from the stored XP.
func LevelOf(xp int) int {
	if xp < 0 {
		xp = 0
	}
	level := 1
	required := 0
	for {
		required += level * 100
		if required > xp {
			return level
		}
		level++
	}
}

// LevelThreshold returns the cumulative XP required to reach level.
// Level 1 requires 0 XP.
func LevelThreshold(level int) int {
	if level <= 1 {
		return 0
	}
	return 50 * level * (level - 1)
}
