// Package testdb opens migrated in-memory databases for package tests.
package testdb

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"tush00nka/bbbab_chat/internal/model"
	"tush00nka/bbbab_chat/internal/repository"
)

// New returns a private in-memory database with foreign keys enforced. It is
// pinned to a single connection: every new connection to :memory: would see
// an empty database, and it serializes writers the way a single sqlite file does.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := repository.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

// CreateUsers inserts users with the given usernames and returns them in order.
func CreateUsers(t testing.TB, db *gorm.DB, usernames ...string) []model.User {
	t.Helper()

	users := make([]model.User, 0, len(usernames))
	for _, name := range usernames {
		user := model.User{Username: name}
		if err := db.Create(&user).Error; err != nil {
			t.Fatalf("create user %q: %v", name, err)
		}
		users = append(users, user)
	}

	return users
}
