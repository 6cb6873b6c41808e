package db

import (
	"gexwatch/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.WatchlistEntry{},
		&models.GexSummary{},
		&models.StrikeDetail{},
		&models.PricePoint{},
		&models.FetchRun{},
	)
}
