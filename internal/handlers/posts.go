// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"kalem/internal/cache"
	"kalem/internal/markdown"
	"kalem/internal/middleware"
	"kalem/internal/models"
	"kalem/internal/notify"
	"kalem/internal/scoring"
	"kalem/internal/slug"
	"kalem/internal/store"
)

// XP awarded per activity. The reason tag drives the stats counter;
// the amount is fixed here, not in the scoring package.
const (
	xpPost    = 50
	xpComment = 15
	xpLike    = 10
)

// Default and maximum page sizes for list endpoints.
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Posts groups the post, like, and comment HTTP handlers.
type Posts struct {
	posts    *store.PostStore
	users    *store.UserStore
	notifier *notify.Worker
	cache    *cache.FeedCache
}

// NewPosts creates a new Posts handler group. A nil feed cache disables
// feed invalidation.
func NewPosts(posts *store.PostStore, users *store.UserStore, notifier *notify.Worker, feedCache *cache.FeedCache) *Posts {
	return &Posts{
		posts:    posts,
		users:    users,
		notifier: notifier,
		cache:    feedCache,
	}
}

// invalidateFeeds drops cached feeds the write may have moved. Creating
// or deleting a post also shifts category counts, so those writes clear
// everything; likes and comments only move the score-based feeds.
func (h *Posts) invalidateFeeds(ctx context.Context, categoriesToo bool) {
	if h.cache == nil {
		return
	}
	if categoriesToo {
		h.cache.InvalidateAll(ctx)
		return
	}
	for _, key := range []string{cache.KeyFeatured, cache.KeyTrending, cache.KeyFeaturedAuthors} {
		h.cache.Invalidate(ctx, key)
	}
}

// List returns posts newest first, optionally filtered by category.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	category := models.Category(r.URL.Query().Get("category"))
	if category != "" && !category.Valid() {
		respondError(w, http.StatusBadRequest, "Geçersiz kategori")
		return
	}

	skip, limit := pagination(r)
	posts, err := h.posts.List(category, skip, limit)
	if err != nil {
		slog.Error("post list failed", "error", err)
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

// Create publishes a new post and awards the author post XP.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req struct {
		Title    string          `json:"title"`
		Body     string          `json:"content"`
		Category models.Category `json:"category"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if msg := validatePost(req.Title, req.Body, req.Category); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	// Slugs are derived from the title, so a colliding slug means a
	// post with this title already exists.
	postSlug := slug.Generate(req.Title)
	existing, err := h.posts.FindBySlug(postSlug)
	if err != nil {
		slog.Error("slug lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if existing != nil {
		respondError(w, http.StatusBadRequest, "Bu başlıkta bir gönderi zaten var")
		return
	}

	post, err := h.posts.Create(&models.Post{
		Title:    req.Title,
		Slug:     postSlug,
		Body:     req.Body,
		Category: req.Category,
		AuthorID: sess.UserID,
	})
	if err != nil {
		slog.Error("post create failed", "error", err)
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	h.invalidateFeeds(r.Context(), true)

	earned, err := h.users.GrantXP(sess.UserID, xpPost, scoring.ReasonPost)
	if err != nil {
		// The post exists; losing the XP grant is logged, not fatal.
		slog.Error("post xp grant failed", "user", sess.UserID, "error", err)
	}

	slog.Info("post created", "post", post.ID, "author", sess.UserID, "category", post.Category)
	respondJSON(w, http.StatusCreated, map[string]any{
		"post":         post,
		"earnedBadges": earned,
	})
}

// Detail returns a single post by slug, increments its view counter,
// and renders the markdown body to HTML. The route wildcard is named
// "id" for chi's sake but carries the slug.
func (h *Posts) Detail(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.FindBySlug(chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("post lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, msgPostNotFound)
		return
	}

	views, err := h.posts.IncrementViews(post.ID)
	if err != nil {
		slog.Error("view increment failed", "post", post.ID, "error", err)
	} else {
		post.Views = views
	}

	html, err := markdown.ToHTML(post.Body)
	if err != nil {
		slog.Error("markdown render failed", "post", post.ID, "error", err)
	} else {
		post.BodyHTML = html
	}

	respondJSON(w, http.StatusOK, post)
}

// Delete removes a post. Only the author or an admin may delete.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	post, err := h.posts.FindByID(id)
	if err != nil {
		slog.Error("post lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, msgPostNotFound)
		return
	}

	if post.AuthorID != sess.UserID && sess.Role != string(models.RoleAdmin) {
		respondError(w, http.StatusForbidden, msgForbidden)
		return
	}

	if err := h.posts.Delete(id); err != nil {
		slog.Error("post delete failed", "post", id, "error", err)
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	h.invalidateFeeds(r.Context(), true)

	slog.Info("post deleted", "post", id, "by", sess.UserID)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Gönderi silindi"})
}

// ToggleLike flips the caller's like on a post. A fresh like awards the
// post's author like XP and queues a notification.
func (h *Posts) ToggleLike(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	post, err := h.posts.FindByID(id)
	if err != nil {
		slog.Error("post lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, msgPostNotFound)
		return
	}

	liked, count, err := h.posts.ToggleLike(id, sess.UserID)
	if err != nil {
		slog.Error("like toggle failed", "post", id, "error", err)
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	// Both directions move the scores.
	h.invalidateFeeds(r.Context(), false)

	if liked {
		if _, err := h.users.GrantXP(post.AuthorID, xpLike, scoring.ReasonLike); err != nil {
			slog.Error("like xp grant failed", "user", post.AuthorID, "error", err)
		}
		h.notifier.Enqueue(models.Notification{
			Recipient: post.AuthorID,
			SenderID:  sess.UserID,
			Type:      models.NotificationLike,
			Message:   "gönderinizi beğendi",
			PostID:    &post.ID,
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"liked":      liked,
		"likesCount": count,
	})
}

// LikeStatus returns the like count and whether the caller has liked
// the post. Works for anonymous callers too.
func (h *Posts) LikeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	userID := uuid.Nil
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		userID = sess.UserID
	}

	liked, count, err := h.posts.LikeStatus(id, userID)
	if err != nil {
		slog.Error("like status failed", "post", id, "error", err)
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"liked":      liked,
		"likesCount": count,
	})
}

// Comments returns a post's comments, newest first.
func (h *Posts) Comments(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	comments, err := h.posts.Comments(id)
	if err != nil {
		slog.Error("comment list failed", "post", id, "error", err)
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"comments": comments})
}

// AddComment attaches a comment to a post, awards the commenter XP,
// and queues a notification for the post's author.
func (h *Posts) AddComment(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	var req struct {
		Body string `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if msg := validateComment(req.Body); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	post, err := h.posts.FindByID(id)
	if err != nil {
		slog.Error("post lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, msgPostNotFound)
		return
	}

	comment, err := h.posts.AddComment(id, sess.UserID, req.Body)
	if err != nil {
		slog.Error("comment create failed", "post", id, "error", err)
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	h.invalidateFeeds(r.Context(), false)

	earned, err := h.users.GrantXP(sess.UserID, xpComment, scoring.ReasonComment)
	if err != nil {
		slog.Error("comment xp grant failed", "user", sess.UserID, "error", err)
	}

	h.notifier.Enqueue(models.Notification{
		Recipient: post.AuthorID,
		SenderID:  sess.UserID,
		Type:      models.NotificationComment,
		Message:   "gönderinize yorum yaptı",
		PostID:    &post.ID,
	})

	respondJSON(w, http.StatusCreated, map[string]any{
		"comment":      comment,
		"earnedBadges": earned,
	})
}

// pagination extracts skip/limit query parameters with sane bounds.
func pagination(r *http.Request) (skip, limit int) {
	skip, _ = strconv.Atoi(r.URL.Query().Get("skip"))
	if skip < 0 {
		skip = 0
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return skip, limit
}
