package repository_test

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"auralink/internal/model"
	"auralink/internal/testutil"

	"github.com/jackc/pgx/v5/pgxpool"
)

// testDB 為 nil 表示沒有可用的測試資料庫
var testDB *pgxpool.Pool

func TestMain(m *testing.M) {
	pool, cleanup, err := testutil.SetupDatabase()
	if err != nil {
		log.Printf("Skipping repository integration tests: %v", err)
	} else {
		testDB = pool
	}

	code := m.Run()
	if cleanup != nil {
		cleanup()
	}
	os.Exit(code)
}

func getTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testDB == nil {
		t.Skip("test database is not available")
	}
	return testDB
}

func setupTestWithTruncate(t *testing.T) {
	t.Helper()
	if err := testutil.Truncate(context.Background(), getTestDB(t)); err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}

func createTestUser(t *testing.T, username string, staff bool) int {
	t.Helper()
	var id int
	err := testDB.QueryRow(context.Background(),
		`INSERT INTO users (username, email, password_hash, is_staff) VALUES ($1, $2, 'x', $3) RETURNING id`,
		username, username+"@example.com", staff,
	).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return id
}

func createTestCategory(t *testing.T, name, slug string) int {
	t.Helper()
	var id int
	err := testDB.QueryRow(context.Background(),
		`INSERT INTO categories (name, slug) VALUES ($1, $2) RETURNING id`, name, slug,
	).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test category: %v", err)
	}
	return id
}

var baseTime = time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

func newTestEvent(title, slug string, startOffsetDays int, categoryID, organizerID *int) *model.Event {
	start := baseTime.AddDate(0, 0, startOffsetDays)
	return &model.Event{
		Title:       title,
		Slug:        slug,
		Description: "Description of " + title,
		StartTime:   start,
		EndTime:     start.Add(3 * time.Hour),
		Venue:       "Main Campus Auditorium",
		Price:       12.5,
		Capacity:    50,
		CategoryID:  categoryID,
		OrganizerID: organizerID,
	}
}

func intPtr(v int) *int {
	return &v
}
