package service

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	consumptiondomain "github.com/fizzlog/fizzlog/internal/consumption/domain"
	cylinderdomain "github.com/fizzlog/fizzlog/internal/cylinder/domain"
	obsmetrics "github.com/fizzlog/fizzlog/internal/observability/metrics"
	settingsdomain "github.com/fizzlog/fizzlog/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	CylinderSvc cylinderdomain.Service
	SettingsSvc settingsdomain.Service
	Metrics     *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	cylindersvc cylinderdomain.Service
	settings    settingsdomain.Service
	metrics     *obsmetrics.Metrics
}

func NewService(p ServiceParam) consumptiondomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("consumption.service"),
		genID:       p.GenID,
		cylindersvc: p.CylinderSvc,
		settings:    p.SettingsSvc,
		metrics:     p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req consumptiondomain.CreateRequest) (*consumptiondomain.ConsumptionLog, error) {
	if req.Date.IsZero() {
		return nil, consumptiondomain.ErrInvalidDate
	}
	if !req.BottleSize.Valid() {
		return nil, consumptiondomain.ErrInvalidBottleSize
	}
	if req.BottleCount < 1 {
		return nil, consumptiondomain.ErrInvalidBottleCount
	}

	cylinder, err := s.cylindersvc.GetByID(ctx, req.CylinderID)
	if err != nil {
		return nil, err
	}

	pushes, err := s.resolvePushes(ctx, req.CO2Pushes, req.BottleSize, req.BottleCount)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := consumptiondomain.ConsumptionLog{
		ID:          s.genID.Generate(),
		Date:        req.Date,
		BottleSize:  req.BottleSize,
		BottleCount: req.BottleCount,
		CO2Pushes:   pushes,
		CylinderID:  cylinder.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	derive(&entry, cylinder)

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}

	s.metrics.RecordLogCreated(string(entry.BottleSize))
	s.log.Info("consumption log created",
		zap.String("log_id", entry.ID.String()),
		zap.String("date", entry.Date.String()),
		zap.Float64("volume_ml", entry.VolumeML),
	)
	return &entry, nil
}

// Update re-validates and re-derives like Create, against the current
// state of whichever cylinder the entry now references.
func (s *Service) Update(ctx context.Context, req consumptiondomain.UpdateRequest) (*consumptiondomain.ConsumptionLog, error) {
	entry, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	bottleChanged := false
	if req.Date != nil {
		if req.Date.IsZero() {
			return nil, consumptiondomain.ErrInvalidDate
		}
		entry.Date = *req.Date
	}
	if req.BottleSize != nil {
		if !req.BottleSize.Valid() {
			return nil, consumptiondomain.ErrInvalidBottleSize
		}
		entry.BottleSize = *req.BottleSize
		bottleChanged = true
	}
	if req.BottleCount != nil {
		if *req.BottleCount < 1 {
			return nil, consumptiondomain.ErrInvalidBottleCount
		}
		entry.BottleCount = *req.BottleCount
		bottleChanged = true
	}
	if req.CylinderID != nil {
		entry.CylinderID = *req.CylinderID
	}

	cylinder, err := s.cylindersvc.GetByID(ctx, entry.CylinderID)
	if err != nil {
		return nil, err
	}

	switch {
	case req.CO2Pushes != nil:
		if *req.CO2Pushes < 0 {
			return nil, consumptiondomain.ErrInvalidPushes
		}
		entry.CO2Pushes = *req.CO2Pushes
	case bottleChanged:
		// Bottle fields changed without an explicit push count, so the
		// stored count no longer matches; fall back to the defaults.
		pushes, err := s.defaultPushes(ctx, entry.BottleSize, entry.BottleCount)
		if err != nil {
			return nil, err
		}
		entry.CO2Pushes = pushes
	}

	entry.UpdatedAt = time.Now().UTC()
	derive(entry, cylinder)

	if err := s.db.WithContext(ctx).Save(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&consumptiondomain.ConsumptionLog{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return consumptiondomain.ErrNotFound
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*consumptiondomain.ConsumptionLog, error) {
	var entry consumptiondomain.ConsumptionLog
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, consumptiondomain.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (s *Service) List(ctx context.Context, filter consumptiondomain.ListFilter) ([]consumptiondomain.ConsumptionLog, error) {
	stmt := s.db.WithContext(ctx).Model(&consumptiondomain.ConsumptionLog{})
	if !filter.From.IsZero() {
		stmt = stmt.Where("date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		stmt = stmt.Where("date <= ?", filter.To)
	}

	var entries []consumptiondomain.ConsumptionLog
	if err := stmt.Order("date DESC, created_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// resolvePushes uses the supplied count or falls back to the per-size
// default read from settings at call time.
func (s *Service) resolvePushes(ctx context.Context, supplied *int, size consumptiondomain.BottleSize, count int) (int, error) {
	if supplied != nil {
		if *supplied < 0 {
			return 0, consumptiondomain.ErrInvalidPushes
		}
		return *supplied, nil
	}
	return s.defaultPushes(ctx, size, count)
}

func (s *Service) defaultPushes(ctx context.Context, size consumptiondomain.BottleSize, count int) (int, error) {
	perBottle, err := s.settings.Int(ctx, size.DefaultPushesKey())
	if err != nil {
		return 0, err
	}
	return count * perBottle, nil
}

// derive computes the stored volume and cost fields from the entry's
// inputs and the referenced cylinder's current amortized push cost.
func derive(entry *consumptiondomain.ConsumptionLog, cylinder *cylinderdomain.Cylinder) {
	entry.VolumeML = float64(entry.BottleCount) * entry.BottleSize.VolumeML()
	entry.CO2Cost = float64(entry.CO2Pushes) * cylinder.CostPerPush()
	entry.TotalCost = entry.CO2Cost
}
