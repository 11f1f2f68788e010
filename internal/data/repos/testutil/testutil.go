// Package testutil provides database helpers for repository and aggregate
// integration tests. Tests that need a live database are gated on
// TEST_POSTGRES_DSN and skip when it is unset.
package testutil

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/bookshelf-backend/internal/data/db"
	catalogtypes "github.com/yungbote/bookshelf-backend/internal/domain/catalog"
	usertypes "github.com/yungbote/bookshelf-backend/internal/domain/user"
	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
)

// Logger returns a quiet logger suitable for tests.
func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("test")
	if err != nil {
		tb.Fatalf("create logger: %v", err)
	}
	return log
}

// DB opens the test database named by TEST_POSTGRES_DSN and migrates the
// schema. The test is skipped when the variable is unset.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		tb.Skip("TEST_POSTGRES_DSN not set; skipping database test")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open test database: %v", err)
	}
	if err := db.AutoMigrateAll(gdb); err != nil {
		tb.Fatalf("migrate test database: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

// Tx begins a transaction that rolls back when the test finishes, so tests
// never leave rows behind.
func Tx(tb testing.TB, gdb *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := gdb.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin test transaction: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback()
	})
	return tx
}

// SeedUser inserts a user row with a unique username.
func SeedUser(tb testing.TB, tx *gorm.DB) *usertypes.User {
	tb.Helper()
	row := &usertypes.User{
		Username: "user-" + uuid.NewString(),
		Password: "test-password-hash",
	}
	if err := tx.Create(row).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return row
}

// SeedBook inserts a book row.
func SeedBook(tb testing.TB, tx *gorm.DB, title string) *catalogtypes.Book {
	tb.Helper()
	if title == "" {
		title = "book-" + uuid.NewString()
	}
	pub := time.Date(2001, 6, 1, 0, 0, 0, 0, time.UTC)
	row := &catalogtypes.Book{
		Title:           title,
		Description:     "seeded for tests",
		PublicationDate: &pub,
		CopiesOwned:     1,
	}
	if err := tx.Create(row).Error; err != nil {
		tb.Fatalf("seed book: %v", err)
	}
	return row
}

// SeedAuthor inserts an author row.
func SeedAuthor(tb testing.TB, tx *gorm.DB, first, last string) *catalogtypes.Author {
	tb.Helper()
	if first == "" {
		first = "First-" + uuid.NewString()[:8]
	}
	if last == "" {
		last = "Last-" + uuid.NewString()[:8]
	}
	row := &catalogtypes.Author{FirstName: first, LastName: last}
	if err := tx.Create(row).Error; err != nil {
		tb.Fatalf("seed author: %v", err)
	}
	return row
}

// SeedCategory inserts a category row with a unique name.
func SeedCategory(tb testing.TB, tx *gorm.DB, name string) *catalogtypes.Category {
	tb.Helper()
	if name == "" {
		name = "category-" + uuid.NewString()
	}
	row := &catalogtypes.Category{Name: name}
	if err := tx.Create(row).Error; err != nil {
		tb.Fatalf("seed category: %v", err)
	}
	return row
}
