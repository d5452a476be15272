// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"kalem/internal/middleware"
	"kalem/internal/models"
	"kalem/internal/store"
)

// Notifications groups the notification HTTP handlers. All routes
// require authentication and only ever touch the caller's own rows.
type Notifications struct {
	notifications *store.NotificationStore
}

// NewNotifications creates a new Notifications handler group.
func NewNotifications(notifications *store.NotificationStore) *Notifications {
	return &Notifications{notifications: notifications}
}

// List returns a page of the caller's notifications with the total and
// unread counts.
func (h *Notifications) List(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	skip, limit := pagination(r)
	unreadOnly := r.URL.Query().Get("unread") == "true"

	items, total, unread, err := h.notifications.ListByRecipient(sess.UserID, skip, limit, unreadOnly)
	if err != nil {
		slog.Error("notification list failed", "user", sess.UserID, "error", err)
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	if items == nil {
		items = []models.Notification{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"notifications": items,
		"total":         total,
		"unreadCount":   unread,
	})
}

// Create inserts a notification on behalf of the caller. The session
// user is always the sender; self-notifications are rejected.
func (h *Notifications) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req struct {
		Recipient string                  `json:"recipient"`
		Type      models.NotificationType `json:"type"`
		Message   string                  `json:"message"`
		PostID    *uuid.UUID              `json:"postId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	recipient, err := uuid.Parse(req.Recipient)
	if err != nil || !req.Type.Valid() || req.Message == "" {
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if recipient == sess.UserID {
		respondError(w, http.StatusBadRequest, "Kendinize bildirim gönderemezsiniz")
		return
	}

	n := &models.Notification{
		Recipient: recipient,
		SenderID:  sess.UserID,
		Type:      req.Type,
		Message:   req.Message,
		PostID:    req.PostID,
	}
	if err := h.notifications.Create(n); err != nil {
		slog.Error("notification create failed", "sender", sess.UserID, "error", err)
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	respondJSON(w, http.StatusCreated, n)
}

// MarkRead flags one of the caller's notifications as read.
func (h *Notifications) MarkRead(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	ok, err := h.notifications.MarkRead(id, sess.UserID)
	if err != nil {
		slog.Error("mark read failed", "notification", id, "error", err)
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, "Bildirim bulunamadı")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Bildirim okundu olarak işaretlendi"})
}

// MarkAllRead flags all of the caller's unread notifications as read.
func (h *Notifications) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	affected, err := h.notifications.MarkAllRead(sess.UserID)
	if err != nil {
		slog.Error("mark all read failed", "user", sess.UserID, "error", err)
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"updated": affected})
}
