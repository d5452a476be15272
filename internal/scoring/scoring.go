// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package scoring implements the engagement-ranking and gamification
// formulas: feed scores for posts, ranking scores for authors, the XP
// level curve, streak transitions, and badge thresholds. All functions
// are pure; missing or negative counters are treated as zero and no
// function ever returns an error.
package scoring

import (
	"math"
	"time"
)

// Weights for the featured feed score. Comments carry the most weight
// because they indicate deeper engagement than a like or a view.
const (
	FeaturedLikeWeight    = 3
	FeaturedViewWeight    = 1
	FeaturedCommentWeight = 5
)

// Weights for the trending feed score. Engagement weighs heavier than
// on the featured feed, and posts from the last week get a flat bonus
// so fresh content can outrank older high-engagement posts.
const (
	TrendLikeWeight    = 5
	TrendViewWeight    = 1
	TrendCommentWeight = 10
	TrendRecencyBonus  = 50
)

// Weights for the featured-authors ranking, applied to per-author sums
// across all of their posts.
const (
	AuthorPostWeight    = 10
	AuthorLikeWeight    = 5
	AuthorViewWeight    = 1
	AuthorCommentWeight = 8
)

// Candidate windows and result sizes for the three feeds.
const (
	FeedWindow        = 30 * 24 * time.Hour
	TrendRecentWindow = 7 * 24 * time.Hour
	AuthorWindow      = 60 * 24 * time.Hour

	FeaturedLimit = 6
	TrendLimit    = 10
	AuthorLimit   = 6
)

// FeaturedScore computes the ranking score for the featured feed.
func FeaturedScore(likes, views, comments int) int {
	return clamp(likes)*FeaturedLikeWeight +
		clamp(views)*FeaturedViewWeight +
		clamp(comments)*FeaturedCommentWeight
}

// TrendScore computes the ranking score for the trending feed. recent
// is true when the post was created within TrendRecentWindow.
func TrendScore(likes, views, comments int, recent bool) int {
	score := clamp(likes)*TrendLikeWeight +
		clamp(views)*TrendViewWeight +
		clamp(comments)*TrendCommentWeight
	if recent {
		score += TrendRecencyBonus
	}
	return score
}

// AuthorScore computes the featured-authors ranking score from an
// author's aggregate counters.
func AuthorScore(posts, likes, views, comments int) int {
	return clamp(posts)*AuthorPostWeight +
		clamp(likes)*AuthorLikeWeight +
		clamp(views)*AuthorViewWeight +
		clamp(comments)*AuthorCommentWeight
}

// EngagementRate returns (likes+comments)/posts rounded to one decimal
// place, or 0 when the author has no posts.
func EngagementRate(likes, comments, posts int) float64 {
	if posts <= 0 {
		return 0
	}
	return math.Round(float64(clamp(likes)+clamp(comments))/float64(posts)*10) / 10
}

// RankLabel maps a user level to the display tier shown next to
// featured authors.
func RankLabel(level int) string {
	switch {
	case level >= 5:
		return "Pro"
	case level >= 3:
		return "Aktif"
	default:
		return "Yeni"
	}
}

// clamp treats negative counters as zero so malformed input can never
// produce a negative score.
func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
