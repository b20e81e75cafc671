// Package domain contains the cylinder registry model and contracts.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fizzlog/fizzlog/pkg/dateonly"
)

// DefaultMaxPushes is the rated capacity assumed for a new cylinder
// when none is supplied.
const DefaultMaxPushes = 150

// Cylinder is a replaceable CO2 cylinder. At most one cylinder is
// active across the whole registry at any time.
type Cylinder struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Number    int          `gorm:"not null;uniqueIndex:uq_cylinders_number" json:"number"`
	Cost      float64      `gorm:"not null;default:0" json:"cost"`
	MaxPushes int          `gorm:"not null;default:150" json:"max_pushes"`
	IsActive  bool         `gorm:"not null;default:false" json:"is_active"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Cylinder) TableName() string { return "cylinders" }

// CostPerPush is the amortized unit cost of one CO2 push. The registry
// rejects max_pushes < 1 so the division is always defined.
func (c Cylinder) CostPerPush() float64 {
	return c.Cost / float64(c.MaxPushes)
}

type CreateRequest struct {
	Number    int      `json:"number"`
	Cost      float64  `json:"cost"`
	MaxPushes *int     `json:"max_pushes"`
}

type UpdateRequest struct {
	ID        snowflake.ID `json:"-"`
	Cost      *float64     `json:"cost"`
	MaxPushes *int         `json:"max_pushes"`
}

// UsageSummary aggregates the ledger entries referencing a cylinder.
type UsageSummary struct {
	TotalPushes int            `json:"total_pushes"`
	StartDate   *dateonly.Date `json:"start_date"`
	EndDate     *dateonly.Date `json:"end_date"`
}

var (
	ErrNotFound         = errors.New("cylinder_not_found")
	ErrDuplicateNumber  = errors.New("cylinder_number_exists")
	ErrHasLogs          = errors.New("cylinder_has_logs")
	ErrInvalidNumber    = errors.New("invalid_cylinder_number")
	ErrInvalidCost      = errors.New("invalid_cylinder_cost")
	ErrInvalidMaxPushes = errors.New("invalid_max_pushes")
)
