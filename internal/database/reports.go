package database

import (
	"go-boutique-store/internal/models"

	"gorm.io/gorm"
)

// CollectionStat is the number of stored documents in one collection.
type CollectionStat struct {
	Collection string `json:"collection"`
	Documents  int64  `json:"documents"`
}

// CollectionStats counts documents per collection, for the status page.
func CollectionStats(db *gorm.DB) ([]CollectionStat, error) {
	var out []CollectionStat
	err := db.Model(&models.Document{}).
		Select("collection, COUNT(*) AS documents").
		Group("collection").
		Order("collection").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
