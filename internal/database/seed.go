package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: an admin
// account and a couple of regular users with sample posts, so feeds
// have something to rank. No-op if any users exist already.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	var adminID string
	err = db.QueryRow(`
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, 'admin')
		RETURNING id
	`, "Admin", "admin@kalem.local", string(hash)).Scan(&adminID)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	userHash, err := bcrypt.GenerateFromPassword([]byte("kalem123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	var demoID string
	err = db.QueryRow(`
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id
	`, "Deniz Yazar", "deniz@kalem.local", string(userHash)).Scan(&demoID)
	if err != nil {
		return fmt.Errorf("seed insert demo user: %w", err)
	}

	posts := []struct {
		title, slug, body, category string
	}{
		{
			"Go ile Web Servisleri",
			"go-ile-web-servisleri",
			"Go'nun standart kütüphanesi ile üretime hazır web servisleri yazmak üzerine notlar.",
			"Teknoloji",
		},
		{
			"Kuantum Hesaplamaya Giriş",
			"kuantum-hesaplamaya-giris",
			"Kübitler, süperpozisyon ve dolanıklık kavramlarına kısa bir bakış.",
			"Bilim",
		},
		{
			"Modern Resmin Kısa Tarihi",
			"modern-resmin-kisa-tarihi",
			"Empresyonizmden soyut ekspresyonizme modern resmin dönüm noktaları.",
			"Sanat",
		},
	}

	for _, p := range posts {
		_, err := db.Exec(`
			INSERT INTO posts (title, slug, body, category, author_id)
			VALUES ($1, $2, $3, $4, $5)
		`, p.title, p.slug, p.body, p.category, demoID)
		if err != nil {
			return fmt.Errorf("seed insert post %q: %w", p.slug, err)
		}
	}

	slog.Info("database seeded with development data",
		"admin", "admin@kalem.local",
		"user", "deniz@kalem.local",
	)

	return nil
}
