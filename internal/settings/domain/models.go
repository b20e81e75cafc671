// Package domain contains the settings key/value model and defaults.
package domain

import (
	"errors"
	"time"
)

// Setting is a named scalar configuration value.
type Setting struct {
	Key       string    `gorm:"column:setting_key;primaryKey" json:"key"`
	Value     string    `gorm:"type:varchar(255);not null" json:"value"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Setting) TableName() string { return "settings" }

const (
	KeyRetailPricePer500ML = "retail_price_per_500ml"
	KeyInitialDeviceCost   = "initial_device_cost"
	KeyDefaultPushes1L     = "default_pushes_1L"
	KeyDefaultPushesHalfL  = "default_pushes_0.5L"
)

// Defaults maps every known key to its hardcoded default so reads
// never fail for known keys.
var Defaults = map[string]string{
	KeyRetailPricePer500ML: "45.0",
	KeyInitialDeviceCost:   "0.0",
	KeyDefaultPushes1L:     "4",
	KeyDefaultPushesHalfL:  "2",
}

var (
	ErrNotFound     = errors.New("setting_not_found")
	ErrInvalidKey   = errors.New("invalid_setting_key")
	ErrInvalidValue = errors.New("invalid_setting_value")
)
