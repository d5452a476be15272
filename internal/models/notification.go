// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType is the fixed set of notification kinds.
type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
	NotificationMention NotificationType = "mention"
)

// Valid reports whether t is a known notification type.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationLike, NotificationComment, NotificationFollow, NotificationMention:
		return true
	}
	return false
}

// Notification is a message delivered to a user as a side effect of
// another user's action. Sender and recipient are always distinct.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	Recipient uuid.UUID        `json:"recipient"`
	SenderID  uuid.UUID        `json:"senderId"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	PostID    *uuid.UUID       `json:"postId,omitempty"`
	IsRead    bool             `json:"isRead"`
	CreatedAt time.Time        `json:"createdAt"`

	// Virtual fields populated by store methods.
	Sender    *Author `json:"sender,omitempty"`
	PostTitle *string `json:"postTitle,omitempty"`
	PostSlug  *string `json:"postSlug,omitempty"`
}
