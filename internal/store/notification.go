// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"kalem/internal/models"
)

// NotificationStore handles notification persistence and read-state
// transitions. Notifications are never deleted.
type NotificationStore struct {
	db *sql.DB
}

// NewNotificationStore creates a new NotificationStore.
func NewNotificationStore(db *sql.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

// Create inserts a notification. The schema rejects self-notifications
// (recipient = sender); callers should have filtered those out already.
func (s *NotificationStore) Create(n *models.Notification) error {
	err := s.db.QueryRow(`
		INSERT INTO notifications (recipient_id, sender_id, type, message, post_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_read, created_at
	`, n.Recipient, n.SenderID, n.Type, n.Message, n.PostID).Scan(
		&n.ID, &n.IsRead, &n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// ListByRecipient returns a page of the user's notifications, newest
// first, enriched with sender and post fields, plus the total matching
// count and the user's overall unread count.
func (s *NotificationStore) ListByRecipient(recipient uuid.UUID, skip, limit int, unreadOnly bool) ([]models.Notification, int, int, error) {
	query := `
		SELECT n.id, n.recipient_id, n.sender_id, n.type, n.message, n.post_id,
		       n.is_read, n.created_at,
		       u.id, u.name, u.email, u.image,
		       p.title, p.slug
		FROM notifications n
		JOIN users u ON u.id = n.sender_id
		LEFT JOIN posts p ON p.id = n.post_id
		WHERE n.recipient_id = $1`
	if unreadOnly {
		query += ` AND n.is_read = FALSE`
	}
	query += `
		ORDER BY n.created_at DESC
		OFFSET $2 LIMIT $3`

	rows, err := s.db.Query(query, recipient, skip, limit)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var items []models.Notification
	for rows.Next() {
		n := models.Notification{Sender: &models.Author{}}
		if err := rows.Scan(
			&n.ID, &n.Recipient, &n.SenderID, &n.Type, &n.Message, &n.PostID,
			&n.IsRead, &n.CreatedAt,
			&n.Sender.ID, &n.Sender.Name, &n.Sender.Email, &n.Sender.Image,
			&n.PostTitle, &n.PostSlug,
		); err != nil {
			return nil, 0, 0, fmt.Errorf("scan notification: %w", err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	countQuery := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1`
	if unreadOnly {
		countQuery += ` AND is_read = FALSE`
	}
	var total int
	if err := s.db.QueryRow(countQuery, recipient).Scan(&total); err != nil {
		return nil, 0, 0, fmt.Errorf("count notifications: %w", err)
	}

	var unread int
	err = s.db.QueryRow(`
		SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE
	`, recipient).Scan(&unread)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("count unread: %w", err)
	}

	return items, total, unread, nil
}

// MarkRead flags a single notification as read, scoped to the
// recipient so users cannot touch each other's notifications. Returns
// false if no matching notification exists.
func (s *NotificationStore) MarkRead(id, recipient uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE notifications SET is_read = TRUE
		WHERE id = $1 AND recipient_id = $2
	`, id, recipient)
	if err != nil {
		return false, fmt.Errorf("mark read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark read rows: %w", err)
	}
	return affected > 0, nil
}

// MarkAllRead flags every unread notification for the recipient as
// read and returns how many were updated.
func (s *NotificationStore) MarkAllRead(recipient uuid.UUID) (int64, error) {
	res, err := s.db.Exec(`
		UPDATE notifications SET is_read = TRUE
		WHERE recipient_id = $1 AND is_read = FALSE
	`, recipient)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark all read rows: %w", err)
	}
	return affected, nil
}
