// Package store provides database access methods for all kalem
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"kalem/internal/models"
	"kalem/internal/scoring"
)

// UserStore handles all user-related database operations, including the
// gamification state (XP, level, streak, stats, badges).
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, name, email, password_hash, image, role, bio, location, website,
	xp, level, streak_current, streak_longest, streak_last_active,
	total_posts, total_likes, total_comments, total_views,
	totp_secret, totp_enabled, created_at, updated_at`

// scanUser scans a full user row into a User struct.
func scanUser(scanner interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	err := scanner.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Image, &u.Role,
		&u.Bio, &u.Location, &u.Website,
		&u.XP, &u.Level, &u.Streak.Current, &u.Streak.Longest, &u.Streak.LastActive,
		&u.Stats.TotalPosts, &u.Stats.TotalLikes, &u.Stats.TotalComments, &u.Stats.TotalViews,
		&u.TOTPSecret, &u.TOTPEnabled, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// FindByEmail retrieves a user by their email address. Returns nil if not found.
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by their UUID. Returns nil if not found.
func (s *UserStore) FindByID(id uuid.UUID) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// Create inserts a new user with a bcrypt-hashed password.
func (s *UserStore) Create(name, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	row := s.db.QueryRow(`
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		name, email, string(hash),
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// CheckPassword verifies a plaintext password against the user's stored hash.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// UpdateProfile modifies the user's editable profile fields.
func (s *UserStore) UpdateProfile(id uuid.UUID, name, bio, location, website string) error {
	_, err := s.db.Exec(`
		UPDATE users SET name = $1, bio = $2, location = $3, website = $4, updated_at = NOW()
		WHERE id = $5
	`, name, bio, location, website, id)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// SetImage stores the user's avatar URL.
func (s *UserStore) SetImage(id uuid.UUID, url string) error {
	_, err := s.db.Exec(`UPDATE users SET image = $1, updated_at = NOW() WHERE id = $2`, url, id)
	if err != nil {
		return fmt.Errorf("set image: %w", err)
	}
	return nil
}

// SetTOTPSecret saves the TOTP secret for a user (during 2FA setup).
func (s *UserStore) SetTOTPSecret(userID uuid.UUID, secret string) error {
	_, err := s.db.Exec(`
		UPDATE users SET totp_secret = $1, updated_at = NOW() WHERE id = $2
	`, secret, userID)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks 2FA as active for a user (after successful code verification).
func (s *UserStore) EnableTOTP(userID uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE users SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}

// Badges returns the badges a user holds, oldest first.
func (s *UserStore) Badges(userID uuid.UUID) ([]models.Badge, error) {
	rows, err := s.db.Query(`
		SELECT badge_id, name, description, icon, earned_at
		FROM user_badges WHERE user_id = $1
		ORDER BY earned_at ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	defer rows.Close()

	var badges []models.Badge
	for rows.Next() {
		var b models.Badge
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.Icon, &b.EarnedAt); err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}

// GrantXP applies one XP grant to a user inside a transaction: the
// gamification state is read with a row lock, rewritten through the
// scoring rules, and any newly earned badges are inserted. Returns the
// badges earned by this grant.
func (s *UserStore) GrantXP(userID uuid.UUID, amount int, reason scoring.XPReason) ([]models.Badge, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("grant xp begin: %w", err)
	}
	defer tx.Rollback()

	var state scoring.GrantState
	err = tx.QueryRow(`
		SELECT xp, level, streak_current, streak_longest, streak_last_active,
		       total_posts, total_likes, total_comments, total_views
		FROM users WHERE id = $1
		FOR UPDATE
	`, userID).Scan(
		&state.XP, &state.Level,
		&state.Streak.Current, &state.Streak.Longest, &state.Streak.LastActive,
		&state.Stats.TotalPosts, &state.Stats.TotalLikes, &state.Stats.TotalComments, &state.Stats.TotalViews,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("grant xp read state: %w", err)
	}

	rows, err := tx.Query(`SELECT badge_id FROM user_badges WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("grant xp read badges: %w", err)
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan badge id: %w", err)
		}
		state.Badges = append(state.Badges, models.Badge{ID: id})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("grant xp read badges: %w", err)
	}

	state, earned := scoring.ApplyXP(state, amount, reason, time.Now())

	_, err = tx.Exec(`
		UPDATE users SET
			xp = $1, level = $2,
			streak_current = $3, streak_longest = $4, streak_last_active = $5,
			total_posts = $6, total_likes = $7, total_comments = $8,
			updated_at = NOW()
		WHERE id = $9
	`, state.XP, state.Level,
		state.Streak.Current, state.Streak.Longest, state.Streak.LastActive,
		state.Stats.TotalPosts, state.Stats.TotalLikes, state.Stats.TotalComments,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("grant xp write state: %w", err)
	}

	for _, b := range earned {
		_, err := tx.Exec(`
			INSERT INTO user_badges (user_id, badge_id, name, description, icon, earned_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (user_id, badge_id) DO NOTHING
		`, userID, b.ID, b.Name, b.Description, b.Icon, b.EarnedAt)
		if err != nil {
			return nil, fmt.Errorf("grant xp insert badge %s: %w", b.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("grant xp commit: %w", err)
	}
	return earned, nil
}

// FeaturedAuthors ranks authors by their aggregate post performance:
// at least one post, active within the window, ordered by the weighted
// author score, top N. Scores and display fields are recomputed from
// the counters on every call.
func (s *UserStore) FeaturedAuthors() ([]models.FeaturedAuthor, error) {
	since := time.Now().Add(-scoring.AuthorWindow)

	rows, err := s.db.Query(`
		SELECT u.id, u.name, u.email, u.image, u.level, u.xp,
		       COUNT(p.id) AS total_posts,
		       COALESCE(SUM(p.views), 0) AS total_views,
		       COALESCE(SUM((SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id)), 0) AS total_likes,
		       COALESCE(SUM((SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)), 0) AS total_comments,
		       MAX(p.created_at) AS latest_post
		FROM users u
		JOIN posts p ON p.author_id = u.id
		GROUP BY u.id
		HAVING COUNT(p.id) >= 1 AND MAX(p.created_at) >= $1
		ORDER BY COUNT(p.id) * $2::int
		       + COALESCE(SUM((SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id)), 0) * $3::int
		       + COALESCE(SUM(p.views), 0) * $4::int
		       + COALESCE(SUM((SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)), 0) * $5::int DESC
		LIMIT $6
	`, since,
		scoring.AuthorPostWeight, scoring.AuthorLikeWeight,
		scoring.AuthorViewWeight, scoring.AuthorCommentWeight,
		scoring.AuthorLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("featured authors: %w", err)
	}
	defer rows.Close()

	var authors []models.FeaturedAuthor
	for rows.Next() {
		var a models.FeaturedAuthor
		if err := rows.Scan(
			&a.ID, &a.Name, &a.Email, &a.Image, &a.Level, &a.XP,
			&a.TotalPosts, &a.TotalViews, &a.TotalLikes, &a.TotalComments,
			&a.LatestPost,
		); err != nil {
			return nil, fmt.Errorf("scan featured author: %w", err)
		}

		a.Score = scoring.AuthorScore(a.TotalPosts, a.TotalLikes, a.TotalViews, a.TotalComments)
		a.EngagementRate = scoring.EngagementRate(a.TotalLikes, a.TotalComments, a.TotalPosts)
		a.Rank = scoring.RankLabel(a.Level)
		a.Bio = fmt.Sprintf("%d içerik, %d beğeni", a.TotalPosts, a.TotalLikes)

		authors = append(authors, a)
	}
	return authors, rows.Err()
}
