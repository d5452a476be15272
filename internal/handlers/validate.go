// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"kalem/internal/models"
)

// Validation limits for user-submitted fields.
const (
	maxNameLen     = 100
	minPasswordLen = 8
	maxTitleLen    = 200
	maxBodyLen     = 50_000
	maxCommentLen  = 1_000
	maxBioLen      = 500
	maxLocationLen = 100
	maxWebsiteLen  = 200
)

// validateRegister checks registration inputs and returns the first
// error found, or "" when the input is acceptable.
func validateRegister(name, email, password string) string {
	if strings.TrimSpace(name) == "" {
		return "İsim gerekli"
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "İsim çok uzun (en fazla 100 karakter)"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "Geçerli bir e-posta adresi girin"
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return "Şifre en az 8 karakter olmalı"
	}
	return ""
}

// validatePost checks post creation inputs.
func validatePost(title, body string, category models.Category) string {
	if strings.TrimSpace(title) == "" {
		return "Başlık gerekli"
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Başlık çok uzun (en fazla 200 karakter)"
	}
	if strings.TrimSpace(body) == "" {
		return "İçerik gerekli"
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		return "İçerik çok uzun (en fazla 50.000 karakter)"
	}
	if !category.Valid() {
		return "Geçersiz kategori"
	}
	return ""
}

// validateComment checks a comment body.
func validateComment(body string) string {
	if strings.TrimSpace(body) == "" {
		return "Yorum boş olamaz"
	}
	if utf8.RuneCountInString(body) > maxCommentLen {
		return "Yorum çok uzun (en fazla 1.000 karakter)"
	}
	return ""
}

// validateProfile checks profile update inputs.
func validateProfile(name, bio, location, website string) string {
	if strings.TrimSpace(name) == "" {
		return "İsim gerekli"
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "İsim çok uzun (en fazla 100 karakter)"
	}
	if utf8.RuneCountInString(bio) > maxBioLen {
		return "Biyografi çok uzun (en fazla 500 karakter)"
	}
	if utf8.RuneCountInString(location) > maxLocationLen {
		return "Konum çok uzun (en fazla 100 karakter)"
	}
	if utf8.RuneCountInString(website) > maxWebsiteLen {
		return "Web sitesi adresi çok uzun (en fazla 200 karakter)"
	}
	if website != "" && !strings.HasPrefix(website, "http://") && !strings.HasPrefix(website, "https://") {
		return "Web sitesi adresi http:// veya https:// ile başlamalı"
	}
	return ""
}
