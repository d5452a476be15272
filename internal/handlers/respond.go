// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP handlers for the kalem JSON API.
// Handlers are grouped per resource; each group holds its store and
// service dependencies and exposes chi-compatible handler methods.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// User-facing error messages. The API speaks Turkish to its users;
// operational detail stays in the logs.
const (
	msgInternal     = "Sunucu hatası"
	msgInvalidBody  = "Geçersiz istek"
	msgUnauthorized = "Giriş yapmalısınız"
	msgForbidden    = "Bu işlem için yetkiniz yok"
	msgPostNotFound = "Gönderi bulunamadı"
	msgUserNotFound = "Kullanıcı bulunamadı"
)

// respondJSON writes v as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// respondError writes a JSON error body with the given status code.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON parses the request body into v. Unknown fields are
// rejected so typos in client payloads surface instead of silently
// zeroing a field.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
