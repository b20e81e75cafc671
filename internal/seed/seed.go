// Package seed bootstraps a fresh database with the rows the app
// expects to exist.
package seed

import (
	"context"
	"errors"
	"sort"
	"time"

	settingsdomain "github.com/fizzlog/fizzlog/internal/settings/domain"
	"gorm.io/gorm"
)

// EnsureDefaultSettings inserts a row for every known setting key that
// has never been written, so the settings list shows the effective
// defaults instead of an empty table.
func EnsureDefaultSettings(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	keys := make([]string, 0, len(settingsdomain.Defaults))
	for key := range settingsdomain.Defaults {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, key := range keys {
			var count int64
			if err := tx.Model(&settingsdomain.Setting{}).Where("setting_key = ?", key).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			row := settingsdomain.Setting{
				Key:       key,
				Value:     settingsdomain.Defaults[key],
				UpdatedAt: time.Now().UTC(),
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
