// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kalem/internal/markdown"
	"kalem/internal/models"
	"kalem/internal/scoring"
)

// Excerpt lengths for the two feeds.
const (
	featuredExcerptLen = 150
	trendingExcerptLen = 200
)

// PostStore handles all post-related database operations: CRUD, the
// embedded like set and comment list, and the ranked feed queries.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// postColumns selects a post row joined with its author and the like
// and comment counts. Counters are always recomputed from the live
// tables; no score or count is ever persisted.
const postColumns = `
	p.id, p.title, p.slug, p.body, p.category, p.author_id, p.views,
	p.created_at, p.updated_at,
	u.id, u.name, u.email, u.image,
	(SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id) AS likes_count,
	(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comments_count`

// scanPost scans a joined post row into a Post with its author embedded.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	p := &models.Post{Author: &models.Author{}}
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Body, &p.Category, &p.AuthorID, &p.Views,
		&p.CreatedAt, &p.UpdatedAt,
		&p.Author.ID, &p.Author.Name, &p.Author.Email, &p.Author.Image,
		&p.LikesCount, &p.CommentsCount,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new post and returns it with the author populated.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	var id uuid.UUID
	err := s.db.QueryRow(`
		INSERT INTO posts (title, slug, body, category, author_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, p.Title, p.Slug, p.Body, p.Category, p.AuthorID).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return s.FindByID(id)
}

// FindByID retrieves a post by its UUID. Returns nil if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(`
		SELECT `+postColumns+`
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE p.id = $1
	`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves a post by its slug. Returns nil if not found.
func (s *PostStore) FindBySlug(slug string) (*models.Post, error) {
	row := s.db.QueryRow(`
		SELECT `+postColumns+`
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE p.slug = $1
	`, slug)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// List returns posts newest first, optionally filtered by category,
// with skip/limit pagination.
func (s *PostStore) List(category models.Category, skip, limit int) ([]models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p JOIN users u ON u.id = p.author_id`
	args := []any{}
	if category != "" {
		query += ` WHERE p.category = $1`
		args = append(args, category)
	}
	query += fmt.Sprintf(` ORDER BY p.created_at DESC OFFSET $%d LIMIT $%d`, len(args)+1, len(args)+2)
	args = append(args, skip, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// Delete removes a post by ID. Likes, comments, and notification post
// references are handled by foreign key actions.
func (s *PostStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// IncrementViews bumps the post's view counter and the author's
// cumulative view stat, and returns the new post value.
func (s *PostStore) IncrementViews(id uuid.UUID) (int, error) {
	var views int
	var authorID uuid.UUID
	err := s.db.QueryRow(`
		UPDATE posts SET views = views + 1 WHERE id = $1 RETURNING views, author_id
	`, id).Scan(&views, &authorID)
	if err != nil {
		return 0, fmt.Errorf("increment views: %w", err)
	}
	if _, err := s.db.Exec(`
		UPDATE users SET total_views = total_views + 1 WHERE id = $1
	`, authorID); err != nil {
		return views, fmt.Errorf("increment author views: %w", err)
	}
	return views, nil
}

// ToggleLike flips the (post, user) like membership: present → removed,
// absent → added. Returns the resulting state and like count. Toggling
// twice returns the set to its original state.
func (s *PostStore) ToggleLike(postID, userID uuid.UUID) (liked bool, count int, err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, 0, fmt.Errorf("toggle like begin: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM post_likes WHERE post_id = $1 AND user_id = $2)
	`, postID, userID).Scan(&exists)
	if err != nil {
		return false, 0, fmt.Errorf("toggle like check: %w", err)
	}

	if exists {
		_, err = tx.Exec(`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	} else {
		_, err = tx.Exec(`
			INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, postID, userID)
	}
	if err != nil {
		return false, 0, fmt.Errorf("toggle like write: %w", err)
	}

	if err := tx.QueryRow(`SELECT COUNT(*) FROM post_likes WHERE post_id = $1`, postID).Scan(&count); err != nil {
		return false, 0, fmt.Errorf("toggle like count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, 0, fmt.Errorf("toggle like commit: %w", err)
	}
	return !exists, count, nil
}

// LikeStatus reports whether the user has liked the post and the
// current like count. userID may be uuid.Nil for anonymous callers.
func (s *PostStore) LikeStatus(postID, userID uuid.UUID) (liked bool, count int, err error) {
	err = s.db.QueryRow(`
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE user_id = $2) > 0
		FROM post_likes WHERE post_id = $1
	`, postID, userID).Scan(&count, &liked)
	if err != nil {
		return false, 0, fmt.Errorf("like status: %w", err)
	}
	return liked, count, nil
}

// AddComment appends a comment to a post and returns it with the
// author populated.
func (s *PostStore) AddComment(postID, authorID uuid.UUID, body string) (*models.Comment, error) {
	c := &models.Comment{Author: &models.Author{}}
	err := s.db.QueryRow(`
		WITH inserted AS (
			INSERT INTO comments (post_id, author_id, body)
			VALUES ($1, $2, $3)
			RETURNING id, post_id, author_id, body, created_at
		)
		SELECT i.id, i.post_id, i.author_id, i.body, i.created_at,
		       u.id, u.name, u.email, u.image
		FROM inserted i JOIN users u ON u.id = i.author_id
	`, postID, authorID, body).Scan(
		&c.ID, &c.PostID, &c.AuthorID, &c.Body, &c.CreatedAt,
		&c.Author.ID, &c.Author.Name, &c.Author.Email, &c.Author.Image,
	)
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return c, nil
}

// Comments returns a post's comments newest first with authors populated.
func (s *PostStore) Comments(postID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.post_id, c.author_id, c.body, c.created_at,
		       u.id, u.name, u.email, u.image
		FROM comments c JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at DESC
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		c := models.Comment{Author: &models.Author{}}
		if err := rows.Scan(
			&c.ID, &c.PostID, &c.AuthorID, &c.Body, &c.CreatedAt,
			&c.Author.ID, &c.Author.Name, &c.Author.Email, &c.Author.Image,
		); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// Featured returns the featured feed: posts from the candidate window
// ranked by the featured score, top N. The score is recomputed from
// live counters on every call.
func (s *PostStore) Featured() ([]models.FeedPost, error) {
	now := time.Now()
	return s.feed(`
		SELECT `+feedColumns+`
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE p.created_at >= $1
		ORDER BY (SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id) * $2::int
		       + p.views * $3::int
		       + (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) * $4::int DESC
		LIMIT $5
	`, []any{
		now.Add(-scoring.FeedWindow),
		scoring.FeaturedLikeWeight, scoring.FeaturedViewWeight, scoring.FeaturedCommentWeight,
		scoring.FeaturedLimit,
	}, func(fp *models.FeedPost, body string) {
		fp.Score = scoring.FeaturedScore(fp.LikesCount, fp.Views, fp.CommentsCount)
		fp.Excerpt = markdown.Excerpt(body, featuredExcerptLen)
	})
}

// Trending returns the trending feed: posts from the candidate window
// ranked by the trend score, which adds a flat bonus for posts created
// within the recent window. Top N, recomputed on every call.
func (s *PostStore) Trending() ([]models.FeedPost, error) {
	now := time.Now()
	recentCutoff := now.Add(-scoring.TrendRecentWindow)
	return s.feed(`
		SELECT `+feedColumns+`
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE p.created_at >= $1
		ORDER BY (SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id) * $2::int
		       + p.views * $3::int
		       + (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) * $4::int
		       + CASE WHEN p.created_at >= $5 THEN $6::int ELSE 0 END DESC
		LIMIT $7
	`, []any{
		now.Add(-scoring.FeedWindow),
		scoring.TrendLikeWeight, scoring.TrendViewWeight, scoring.TrendCommentWeight,
		recentCutoff, scoring.TrendRecencyBonus,
		scoring.TrendLimit,
	}, func(fp *models.FeedPost, body string) {
		recent := !fp.CreatedAt.Before(recentCutoff)
		fp.Score = scoring.TrendScore(fp.LikesCount, fp.Views, fp.CommentsCount, recent)
		fp.Excerpt = markdown.Excerpt(body, trendingExcerptLen)
	})
}

const feedColumns = `
	p.id, p.title, p.slug, p.body, p.category, p.views, p.created_at,
	u.id, u.name, u.email, u.image,
	(SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id) AS likes_count,
	(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comments_count`

// feed runs a feed query and shapes each row through the given score
// function.
func (s *PostStore) feed(query string, args []any, shape func(*models.FeedPost, string)) ([]models.FeedPost, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("feed query: %w", err)
	}
	defer rows.Close()

	var feed []models.FeedPost
	for rows.Next() {
		var fp models.FeedPost
		var body string
		if err := rows.Scan(
			&fp.ID, &fp.Title, &fp.Slug, &body, &fp.Category, &fp.Views, &fp.CreatedAt,
			&fp.Author.ID, &fp.Author.Name, &fp.Author.Email, &fp.Author.Image,
			&fp.LikesCount, &fp.CommentsCount,
		); err != nil {
			return nil, fmt.Errorf("scan feed post: %w", err)
		}
		shape(&fp, body)
		feed = append(feed, fp)
	}
	return feed, rows.Err()
}

// categoryMeta is the fixed display metadata attached to category stats.
var categoryMeta = map[models.Category]struct {
	description string
	icon        string
	color       string
}{
	models.CategoryTeknoloji: {"Yazılım, AI, yenilikler", "Flame", "from-blue-500 to-purple-500"},
	models.CategoryBilim:     {"Araştırma, keşifler, bilimsel gelişmeler", "Star", "from-green-500 to-blue-500"},
	models.CategorySanat:     {"Yaratıcılık, kültür, estetik", "FileText", "from-pink-500 to-purple-500"},
	models.CategorySpor:      {"Spor haberleri, analiz, sağlık", "TrendingUp", "from-orange-500 to-red-500"},
	models.CategoryDiger:     {"Genel konular ve çeşitli içerikler", "Users", "from-gray-500 to-gray-600"},
}

// CategoryStats returns per-category post counts and latest post times,
// in fixed category order, skipping categories with no posts.
func (s *PostStore) CategoryStats() ([]models.CategoryStat, error) {
	rows, err := s.db.Query(`
		SELECT category, COUNT(*), MAX(created_at)
		FROM posts
		GROUP BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("category stats: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Category]models.CategoryStat)
	for rows.Next() {
		var st models.CategoryStat
		if err := rows.Scan(&st.Name, &st.PostCount, &st.LatestPost); err != nil {
			return nil, fmt.Errorf("scan category stat: %w", err)
		}
		counts[st.Name] = st
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var stats []models.CategoryStat
	for _, cat := range models.Categories {
		st, ok := counts[cat]
		if !ok {
			continue
		}
		meta := categoryMeta[cat]
		st.Description = meta.description
		st.Icon = meta.icon
		st.Color = meta.color
		stats = append(stats, st)
	}
	return stats, nil
}
