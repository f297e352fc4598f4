package db

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewTest opens an isolated in-memory sqlite database for tests. Foreign key
// enforcement is off by default in sqlite, so the DSN switches it on to keep
// the delete cascades working.
func NewTest() (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
}
