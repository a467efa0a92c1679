package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createGamesTable creates the games table keyed by Steam app id.
func createGamesTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "001_create_games",
		Migrate: func(tx *gorm.DB) error {
			err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS games (
					app_id INTEGER PRIMARY KEY,
					source VARCHAR(20) NOT NULL DEFAULT 'Steam',
					external_id VARCHAR(100),
					name VARCHAR(500) NOT NULL,
					summary TEXT,
					genres TEXT[],
					tags TEXT[],

					-- Quality
					critic_rating_value DOUBLE PRECISION,
					critic_rating_max DOUBLE PRECISION,
					critic_rating_source VARCHAR(50),
					metacritic DOUBLE PRECISION,
					open_critic DOUBLE PRECISION,
					steam_positive_pct DOUBLE PRECISION,
					steam_positive INTEGER,
					steam_negative INTEGER,

					-- Duration
					estimated_hours DOUBLE PRECISION,

					-- Presentation
					image_url VARCHAR(1000),
					store_url VARCHAR(1000),

					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

					CONSTRAINT chk_games_app_id CHECK (app_id > 0)
				);
			`).Error
			if err != nil {
				return err
			}

			return tx.Exec("CREATE INDEX IF NOT EXISTS idx_games_genres ON games USING GIN (genres);").Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec("DROP TABLE IF EXISTS games;").Error
		},
	}
}
