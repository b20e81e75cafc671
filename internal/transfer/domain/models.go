// Package domain contains the import/export row shape and contracts.
// The adapter is agnostic to the row transport format; the HTTP layer
// owns CSV encoding.
package domain

import (
	"errors"

	consumptiondomain "github.com/fizzlog/fizzlog/internal/consumption/domain"
	"github.com/fizzlog/fizzlog/pkg/dateonly"
)

// Row is one external record of consumption, keyed by the user-facing
// cylinder number rather than an internal id.
type Row struct {
	Date           dateonly.Date                `json:"date"`
	BottleSize     consumptiondomain.BottleSize `json:"bottle_size"`
	BottleCount    int                          `json:"bottle_count"`
	CylinderNumber int                          `json:"cylinder_number"`
	CO2Pushes      *int                         `json:"co2_pushes"`
}

// RowError records one failed import row; the rest of the batch is
// unaffected.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportResult struct {
	ImportedCount int        `json:"imported_count"`
	Errors        []RowError `json:"errors"`
}

var ErrUnknownCylinder = errors.New("unknown_cylinder")
