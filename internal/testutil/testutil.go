package testutil

import (
	"context"
	"fmt"
	"log"

	"auralink/config"
	"auralink/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SetupDatabase 連線測試資料庫並建立 schema，連不上時回傳 error 讓呼叫端略過測試
func SetupDatabase() (*pgxpool.Pool, func(), error) {
	cfg := config.LoadTestConfig()

	testDB, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize test database: %v", err)
	}

	if err := database.Migrate(context.Background(), testDB); err != nil {
		testDB.Close()
		return nil, nil, fmt.Errorf("failed to migrate test database: %v", err)
	}
	log.Println("Test database connected successfully")

	cleanup := func() {
		testDB.Close()
		log.Println("Test database closed")
	}
	return testDB, cleanup, nil
}

// Truncate 清空所有資料並重設序號，保留 schema
func Truncate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, "TRUNCATE registrations, events, categories, users RESTART IDENTITY CASCADE")
	return err
}
