// Package testkit holds shared helpers for package tests: an in-memory
// database fixture and small HTTP request utilities.
package testkit

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"github.com/velocart/velocart/pkg/database"
)

var dbSeq atomic.Int64

// OpenDB opens a fresh in-memory sqlite database and migrates the given
// models. Each call gets its own named memory database so parallel tests
// and pooled connections all see the same data.
func OpenDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := database.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			t.Fatalf("migrate test database: %v", err)
		}
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}
