package service

import (
	"context"
	"errors"
	"sort"

	consumptiondomain "github.com/fizzlog/fizzlog/internal/consumption/domain"
	cylinderdomain "github.com/fizzlog/fizzlog/internal/cylinder/domain"
	obsmetrics "github.com/fizzlog/fizzlog/internal/observability/metrics"
	transferdomain "github.com/fizzlog/fizzlog/internal/transfer/domain"
	"github.com/fizzlog/fizzlog/pkg/dateonly"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log            *zap.Logger
	CylinderSvc    cylinderdomain.Service
	ConsumptionSvc consumptiondomain.Service
	Metrics        *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	log         *zap.Logger
	cylinders   cylinderdomain.Service
	consumption consumptiondomain.Service
	metrics     *obsmetrics.Metrics
}

func NewService(p ServiceParam) transferdomain.Service {
	return &Service{
		log:         p.Log.Named("transfer.service"),
		cylinders:   p.CylinderSvc,
		consumption: p.ConsumptionSvc,
		metrics:     p.Metrics,
	}
}

func (s *Service) Import(ctx context.Context, rows []transferdomain.Row) (*transferdomain.ImportResult, error) {
	result := transferdomain.ImportResult{Errors: []transferdomain.RowError{}}

	for i, row := range rows {
		if err := s.importRow(ctx, row); err != nil {
			result.Errors = append(result.Errors, transferdomain.RowError{
				Row:    i + 1,
				Reason: err.Error(),
			})
			s.metrics.RecordImportRow("failed")
			continue
		}
		result.ImportedCount++
		s.metrics.RecordImportRow("imported")
	}

	s.log.Info("import finished",
		zap.Int("imported", result.ImportedCount),
		zap.Int("failed", len(result.Errors)),
	)
	return &result, nil
}

func (s *Service) importRow(ctx context.Context, row transferdomain.Row) error {
	cylinder, err := s.cylinders.GetByNumber(ctx, row.CylinderNumber)
	if err != nil {
		if errors.Is(err, cylinderdomain.ErrNotFound) {
			return transferdomain.ErrUnknownCylinder
		}
		return err
	}

	_, err = s.consumption.Create(ctx, consumptiondomain.CreateRequest{
		Date:        row.Date,
		BottleSize:  row.BottleSize,
		BottleCount: row.BottleCount,
		CylinderID:  cylinder.ID,
		CO2Pushes:   row.CO2Pushes,
	})
	return err
}

func (s *Service) Export(ctx context.Context) ([]transferdomain.Row, error) {
	entries, err := s.consumption.List(ctx, consumptiondomain.ListFilter{})
	if err != nil {
		return nil, err
	}

	cylinders, err := s.cylinders.List(ctx)
	if err != nil {
		return nil, err
	}
	numbers := make(map[int64]int, len(cylinders))
	for _, c := range cylinders {
		numbers[c.ID.Int64()] = c.Number
	}

	rows := make([]transferdomain.Row, 0, len(entries))
	for _, entry := range entries {
		pushes := entry.CO2Pushes
		rows = append(rows, transferdomain.Row{
			Date:           entry.Date,
			BottleSize:     entry.BottleSize,
			BottleCount:    entry.BottleCount,
			CylinderNumber: numbers[entry.CylinderID.Int64()],
			CO2Pushes:      &pushes,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})
	return rows, nil
}

func (s *Service) Sample() []transferdomain.Row {
	pushes := 2
	return []transferdomain.Row{
		{
			Date:           dateonly.New(2024, 1, 1),
			BottleSize:     consumptiondomain.BottleOneLiter,
			BottleCount:    2,
			CylinderNumber: 1,
		},
		{
			Date:           dateonly.New(2024, 1, 2),
			BottleSize:     consumptiondomain.BottleHalfLiter,
			BottleCount:    1,
			CylinderNumber: 1,
			CO2Pushes:      &pushes,
		},
	}
}
