// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"kalem/internal/cache"
	"kalem/internal/store"
)

// Feeds serves the computed rankings: featured posts, trending posts,
// featured authors, and category stats. Every feed is recomputed from
// live counters on a cache miss; the short-TTL Valkey cache absorbs the
// aggregation cost on the hot path.
type Feeds struct {
	posts *store.PostStore
	users *store.UserStore
	cache *cache.FeedCache
}

// NewFeeds creates a new Feeds handler group.
func NewFeeds(posts *store.PostStore, users *store.UserStore, feedCache *cache.FeedCache) *Feeds {
	return &Feeds{
		posts: posts,
		users: users,
		cache: feedCache,
	}
}

// Featured returns the top editor-free featured posts ranking.
func (h *Feeds) Featured(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, cache.KeyFeatured, func() (any, error) {
		posts, err := h.posts.Featured()
		if err != nil {
			return nil, err
		}
		return map[string]any{"posts": posts}, nil
	})
}

// Trending returns the recency-boosted trending posts ranking.
func (h *Feeds) Trending(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, cache.KeyTrending, func() (any, error) {
		posts, err := h.posts.Trending()
		if err != nil {
			return nil, err
		}
		return map[string]any{"posts": posts}, nil
	})
}

// FeaturedAuthors returns the top authors ranked by aggregate
// engagement across their posts.
func (h *Feeds) FeaturedAuthors(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, cache.KeyFeaturedAuthors, func() (any, error) {
		authors, err := h.users.FeaturedAuthors()
		if err != nil {
			return nil, err
		}
		return map[string]any{"authors": authors}, nil
	})
}

// Categories returns per-category post counts with display metadata.
func (h *Feeds) Categories(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, cache.KeyCategories, func() (any, error) {
		stats, err := h.posts.CategoryStats()
		if err != nil {
			return nil, err
		}
		return map[string]any{"categories": stats}, nil
	})
}

// serve answers from the feed cache when possible, otherwise computes
// the feed, caches the serialized payload, and writes it. A nil cache
// (e.g. in tests) just disables caching.
func (h *Feeds) serve(w http.ResponseWriter, r *http.Request, key string, compute func() (any, error)) {
	if h.cache != nil {
		if payload, ok := h.cache.Get(r.Context(), key); ok {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			w.Write(payload)
			return
		}
	}

	result, err := compute()
	if err != nil {
		slog.Error("feed compute failed", "feed", key, "error", err)
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		slog.Error("feed encode failed", "feed", key, "error", err)
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	if h.cache != nil {
		h.cache.Set(r.Context(), key, payload)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}
