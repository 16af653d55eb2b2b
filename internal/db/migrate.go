package db

import (
	"p2pmonitor/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.SymbolInfo{},
		&models.ExternalUser{},
		&models.PaymentMethod{},
		&models.Asset{},
		&models.OfferSnapshot{},
		&models.OfferPayment{},
		&models.TradingPreferences{},
		&models.IngestState{},
	)
}
