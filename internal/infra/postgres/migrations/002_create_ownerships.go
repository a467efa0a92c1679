package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createOwnershipsTable links Steam users to the games they own.
//
// The (steam_id, app_id) primary key is the upsert target. There is no
// foreign key to games: an ownership may arrive before its catalog record.
func createOwnershipsTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "002_create_ownerships",
		Migrate: func(tx *gorm.DB) error {
			err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS ownerships (
					steam_id VARCHAR(32) NOT NULL,
					app_id INTEGER NOT NULL,
					playtime_minutes INTEGER NOT NULL DEFAULT 0,
					last_played_at TIMESTAMP,
					achievements_total INTEGER,
					achievements_unlocked INTEGER,

					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

					PRIMARY KEY (steam_id, app_id),
					CONSTRAINT chk_ownerships_playtime CHECK (playtime_minutes >= 0)
				);
			`).Error
			if err != nil {
				return err
			}

			return tx.Exec("CREATE INDEX IF NOT EXISTS idx_ownerships_app_id ON ownerships(app_id);").Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec("DROP TABLE IF EXISTS ownerships;").Error
		},
	}
}
