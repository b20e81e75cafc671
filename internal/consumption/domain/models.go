// Package domain contains the consumption ledger model and contracts.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	settingsdomain "github.com/fizzlog/fizzlog/internal/settings/domain"
	"github.com/fizzlog/fizzlog/pkg/dateonly"
)

// BottleSize is the closed set of bottle variants the device carbonates.
type BottleSize string

const (
	BottleOneLiter  BottleSize = "1L"
	BottleHalfLiter BottleSize = "0.5L"
)

// Nominal filled volumes per bottle, in mL. The bottles hold less than
// their label size because of the fill line.
const (
	volumeOneLiterML  = 840
	volumeHalfLiterML = 455
)

func (s BottleSize) Valid() bool {
	switch s {
	case BottleOneLiter, BottleHalfLiter:
		return true
	default:
		return false
	}
}

// VolumeML returns the nominal volume of one bottle of this size.
func (s BottleSize) VolumeML() float64 {
	switch s {
	case BottleOneLiter:
		return volumeOneLiterML
	case BottleHalfLiter:
		return volumeHalfLiterML
	default:
		return 0
	}
}

// DefaultPushesKey names the setting holding the default CO2 pushes
// per bottle of this size.
func (s BottleSize) DefaultPushesKey() string {
	switch s {
	case BottleOneLiter:
		return settingsdomain.KeyDefaultPushes1L
	case BottleHalfLiter:
		return settingsdomain.KeyDefaultPushesHalfL
	default:
		return ""
	}
}

// ConsumptionLog records bottles produced on one date. volume_ml,
// co2_cost and total_cost are derived at write time and frozen; a later
// change to the cylinder's price does not rewrite history.
type ConsumptionLog struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	Date        dateonly.Date `gorm:"not null;index" json:"date"`
	BottleSize  BottleSize    `gorm:"type:varchar(8);not null" json:"bottle_size"`
	BottleCount int           `gorm:"not null" json:"bottle_count"`
	CO2Pushes   int           `gorm:"column:co2_pushes;not null" json:"co2_pushes"`
	VolumeML    float64       `gorm:"column:volume_ml;not null" json:"volume_ml"`
	CO2Cost     float64       `gorm:"column:co2_cost;not null" json:"co2_cost"`
	TotalCost   float64       `gorm:"not null" json:"total_cost"`
	CylinderID  snowflake.ID  `gorm:"not null;index" json:"cylinder_id"`
	CreatedAt   time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (ConsumptionLog) TableName() string { return "consumption_logs" }

type CreateRequest struct {
	Date        dateonly.Date `json:"date"`
	BottleSize  BottleSize    `json:"bottle_size"`
	BottleCount int           `json:"bottle_count"`
	CylinderID  snowflake.ID  `json:"cylinder_id"`
	CO2Pushes   *int          `json:"co2_pushes"`
}

type UpdateRequest struct {
	ID          snowflake.ID   `json:"-"`
	Date        *dateonly.Date `json:"date"`
	BottleSize  *BottleSize    `json:"bottle_size"`
	BottleCount *int           `json:"bottle_count"`
	CylinderID  *snowflake.ID  `json:"cylinder_id"`
	CO2Pushes   *int           `json:"co2_pushes"`
}

// ListFilter narrows List to a date range. Zero dates mean unbounded.
type ListFilter struct {
	From dateonly.Date
	To   dateonly.Date
}

var (
	ErrNotFound           = errors.New("log_not_found")
	ErrInvalidDate        = errors.New("invalid_date")
	ErrInvalidBottleSize  = errors.New("invalid_bottle_size")
	ErrInvalidBottleCount = errors.New("invalid_bottle_count")
	ErrInvalidPushes      = errors.New("invalid_co2_pushes")
)
