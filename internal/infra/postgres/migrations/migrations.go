// Package migrations holds the schema for games and ownerships, applied with gormigrate.
package migrations

import (
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

var options = &gormigrate.Options{
	TableName:      "schema_migrations",
	IDColumnName:   "id",
	IDColumnSize:   255,
	UseTransaction: true,
}

// Migrations returns the schema steps in application order.
func Migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		createGamesTable(),
		createOwnershipsTable(),
	}
}

// Run applies every pending migration.
func Run(db *gorm.DB) error {
	if err := gormigrate.New(db, options, Migrations()).Migrate(); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// Rollback undoes the most recent migration.
func Rollback(db *gorm.DB) error {
	if err := gormigrate.New(db, options, Migrations()).RollbackLast(); err != nil {
		return fmt.Errorf("rollback schema: %w", err)
	}
	return nil
}
