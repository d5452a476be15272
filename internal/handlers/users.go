// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"kalem/internal/middleware"
	"kalem/internal/storage"
	"kalem/internal/store"
)

// maxAvatarSize caps avatar uploads at 5 MB.
const maxAvatarSize = 5 << 20

// avatarContentTypes maps accepted upload content types to file extensions.
var avatarContentTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// Users groups the public profile and own-profile HTTP handlers.
type Users struct {
	users   *store.UserStore
	storage *storage.Client // nil when object storage is not configured
}

// NewUsers creates a new Users handler group.
func NewUsers(users *store.UserStore, storageClient *storage.Client) *Users {
	return &Users{
		users:   users,
		storage: storageClient,
	}
}

// Profile returns a user's public profile with earned badges.
func (h *Users) Profile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	user, err := h.users.FindByID(id)
	if err != nil {
		slog.Error("profile lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, msgUserNotFound)
		return
	}

	badges, err := h.users.Badges(user.ID)
	if err != nil {
		slog.Error("profile badges failed", "user", user.ID, "error", err)
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	user.Badges = badges

	respondJSON(w, http.StatusOK, user)
}

// UpdateProfile updates the caller's own profile fields.
func (h *Users) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req struct {
		Name     string `json:"name"`
		Bio      string `json:"bio"`
		Location string `json:"location"`
		Website  string `json:"website"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if msg := validateProfile(req.Name, req.Bio, req.Location, req.Website); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.users.UpdateProfile(sess.UserID, req.Name, req.Bio, req.Location, req.Website); err != nil {
		slog.Error("profile update failed", "user", sess.UserID, "error", err)
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	user, err := h.users.FindByID(sess.UserID)
	if err != nil || user == nil {
		slog.Error("profile reload failed", "user", sess.UserID, "error", err)
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// UploadAvatar stores a new avatar image in object storage and points
// the caller's profile at it. The previous avatar is deleted from
// storage when it was ours.
func (h *Users) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	if h.storage == nil {
		respondError(w, http.StatusServiceUnavailable, "Dosya yükleme şu anda kullanılamıyor")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarSize)
	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		respondError(w, http.StatusBadRequest, "Dosya çok büyük (en fazla 5 MB)")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Avatar dosyası gerekli")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	ext, ok := avatarContentTypes[contentType]
	if !ok {
		respondError(w, http.StatusBadRequest, "Desteklenmeyen dosya türü (PNG, JPEG veya WebP)")
		return
	}

	user, err := h.users.FindByID(sess.UserID)
	if err != nil || user == nil {
		slog.Error("avatar user lookup failed", "user", sess.UserID, "error", err)
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	key := path.Join("avatars", fmt.Sprintf("%s%s", uuid.New(), ext))
	if err := h.storage.Upload(r.Context(), key, contentType, file, header.Size); err != nil {
		slog.Error("avatar upload failed", "user", sess.UserID, "error", err)
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	url := h.storage.FileURL(key)
	if err := h.users.SetImage(sess.UserID, url); err != nil {
		slog.Error("avatar save failed", "user", sess.UserID, "error", err)
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	// Best-effort cleanup of the previous avatar.
	if user.Image != nil {
		if oldKey, ours := h.storage.ExtractKey(*user.Image); ours {
			if err := h.storage.Delete(r.Context(), oldKey); err != nil {
				slog.Warn("old avatar delete failed", "key", oldKey, "error", err)
			}
		}
	}

	slog.Info("avatar updated", "user", sess.UserID)
	respondJSON(w, http.StatusOK, map[string]string{"image": url})
}
