// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is the fixed set of post categories. Posts with any other
// value are rejected at creation.
type Category string

const (
	CategoryTeknoloji Category = "Teknoloji"
	CategoryBilim     Category = "Bilim"
	CategorySanat     Category = "Sanat"
	CategorySpor      Category = "Spor"
	CategoryDiger     Category = "Diğer"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryTeknoloji,
	CategoryBilim,
	CategorySanat,
	CategorySpor,
	CategoryDiger,
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryTeknoloji, CategoryBilim, CategorySanat, CategorySpor, CategoryDiger:
		return true
	}
	return false
}

// Post represents a blog post. The like set lives in post_likes and
// comments in the comments table; LikesCount and CommentsCount are
// populated by store queries.
type Post struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Body      string    `json:"content"`
	Category  Category  `json:"category"`
	AuthorID  uuid.UUID `json:"authorId"`
	Views     int       `json:"views"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Virtual fields populated by store methods.
	Author        *Author `json:"author,omitempty"`
	LikesCount    int     `json:"likesCount"`
	CommentsCount int     `json:"commentsCount"`
	BodyHTML      string  `json:"contentHtml,omitempty"`
}

// Author is the subset of user fields embedded in post and comment
// responses.
type Author struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Image *string   `json:"image,omitempty"`
}

// Comment is a single comment on a post.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"postId"`
	AuthorID  uuid.UUID `json:"authorId"`
	Body      string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`

	Author *Author `json:"author,omitempty"`
}

// FeedPost is a post shaped for the featured/trending feeds: counters
// plus the ranking score recomputed at query time, and a plain-text
// excerpt of the body.
type FeedPost struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Category      Category  `json:"category"`
	Excerpt       string    `json:"excerpt"`
	Views         int       `json:"views"`
	LikesCount    int       `json:"likesCount"`
	CommentsCount int       `json:"commentsCount"`
	Score         int       `json:"score"`
	CreatedAt     time.Time `json:"createdAt"`
	Author        Author    `json:"author"`
}

// CategoryStat is a per-category post count with display metadata for
// the explore page.
type CategoryStat struct {
	Name        Category   `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Color       string     `json:"color"`
	PostCount   int        `json:"postCount"`
	LatestPost  *time.Time `json:"latestPost,omitempty"`
}
