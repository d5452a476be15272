// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's permission level in the system.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Streak tracks consecutive days of activity for a user.
type Streak struct {
	Current    int       `json:"current"`
	Longest    int       `json:"longest"`
	LastActive time.Time `json:"lastActive"`
}

// Stats holds cumulative activity counters for a user. Counters only
// grow; they are incremented by XP grants, never recomputed.
type Stats struct {
	TotalPosts    int `json:"totalPosts"`
	TotalLikes    int `json:"totalLikes"`
	TotalComments int `json:"totalComments"`
	TotalViews    int `json:"totalViews"`
}

// Badge is an achievement a user has earned. Each badge ID is earned
// at most once per user.
type Badge struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	EarnedAt    time.Time `json:"earnedAt"`
}

// User represents a registered user. Profile fields (bio, location,
// website) and gamification fields (xp, level, streak, stats) live on
// the same entity.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	Image        *string   `json:"image,omitempty"`
	Role         Role      `json:"role"`
	Bio          string    `json:"bio"`
	Location     string    `json:"location"`
	Website      string    `json:"website"`

	XP     int    `json:"xp"`
	Level  int    `json:"level"`
	Streak Streak `json:"streak"`
	Stats  Stats  `json:"stats"`

	TOTPSecret  *string `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled bool    `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Virtual field populated by store methods.
	Badges []Badge `json:"badges,omitempty"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// FeaturedAuthor is a row of the featured-authors ranking: a user
// enriched with aggregate counters across all their posts and a
// recomputed ranking score.
type FeaturedAuthor struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Image          *string   `json:"image,omitempty"`
	Level          int       `json:"level"`
	XP             int       `json:"xp"`
	TotalPosts     int       `json:"totalPosts"`
	TotalLikes     int       `json:"totalLikes"`
	TotalViews     int       `json:"totalViews"`
	TotalComments  int       `json:"totalComments"`
	LatestPost     time.Time `json:"latestPost"`
	Score          int       `json:"score"`
	Bio            string    `json:"bio"`
	Rank           string    `json:"rank"`
	EngagementRate float64   `json:"engagementRate"`
}
