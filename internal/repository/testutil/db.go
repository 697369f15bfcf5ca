package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/moldandyeast/tinyfeed/internal/db"
	"github.com/moldandyeast/tinyfeed/internal/model"
	"github.com/moldandyeast/tinyfeed/internal/repository"
	"github.com/moldandyeast/tinyfeed/pkg/snowflake"

	_ "modernc.org/sqlite"
)

var snowflakeOnce sync.Once

// NewTestDB opens a private in-memory database with every migration applied.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	snowflakeOnce.Do(func() {
		if err := snowflake.Init(0); err != nil {
			panic("failed to initialize snowflake: " + err.Error())
		}
	})

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", name, time.Now().UnixNano())
	database, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	database.SetMaxOpenConns(1)

	if err := db.Migrate(database); err != nil {
		database.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		database.Close()
	})

	return database
}

// SeedFeed inserts a feed record directly through the repository.
func SeedFeed(t *testing.T, database *sql.DB, feed model.Feed) model.Feed {
	t.Helper()

	if feed.CreatedAt.IsZero() {
		feed.CreatedAt = time.UnixMilli(time.Now().UnixMilli()).UTC()
	}
	if err := repository.NewFeedRepository(database).Create(context.Background(), feed); err != nil {
		t.Fatalf("failed to seed feed %s: %v", feed.ID, err)
	}
	return feed
}
