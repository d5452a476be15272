// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"kalem/internal/database"
	"kalem/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "kalem")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "kalem")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanUsers removes test users by email. Deleting the user cascades
// to their posts, likes, comments, badges, and notifications.
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

// mustCreateUser creates a user for a test, registering cascade cleanup.
func mustCreateUser(t *testing.T, db *sql.DB, name, email string) *models.User {
	t.Helper()
	users := NewUserStore(db)
	u, err := users.Create(name, email, "test-password")
	if err != nil {
		t.Fatalf("create test user %s: %v", email, err)
	}
	t.Cleanup(func() { cleanUsers(t, db, email) })
	return u
}

// mustCreatePost creates a post for a test; it is removed by the
// author's cascade cleanup.
func mustCreatePost(t *testing.T, db *sql.DB, author *models.User, title, slug string, category models.Category) *models.Post {
	t.Helper()
	posts := NewPostStore(db)
	p, err := posts.Create(&models.Post{
		Title:    title,
		Slug:     slug,
		Body:     "test body for " + title,
		Category: category,
		AuthorID: author.ID,
	})
	if err != nil {
		t.Fatalf("create test post %s: %v", slug, err)
	}
	return p
}
