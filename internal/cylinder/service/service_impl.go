package service

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	cylinderdomain "github.com/fizzlog/fizzlog/internal/cylinder/domain"
	"github.com/fizzlog/fizzlog/pkg/dateonly"
	"github.com/fizzlog/fizzlog/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func NewService(p ServiceParam) cylinderdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("cylinder.service"),
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req cylinderdomain.CreateRequest) (*cylinderdomain.Cylinder, error) {
	if req.Number < 1 {
		return nil, cylinderdomain.ErrInvalidNumber
	}
	if req.Cost < 0 {
		return nil, cylinderdomain.ErrInvalidCost
	}

	maxPushes := cylinderdomain.DefaultMaxPushes
	if req.MaxPushes != nil {
		maxPushes = *req.MaxPushes
	}
	if maxPushes < 1 {
		return nil, cylinderdomain.ErrInvalidMaxPushes
	}

	now := time.Now().UTC()
	cylinder := cylinderdomain.Cylinder{
		ID:        s.genID.Generate(),
		Number:    req.Number,
		Cost:      req.Cost,
		MaxPushes: maxPushes,
		IsActive:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.db.WithContext(ctx).Create(&cylinder).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, cylinderdomain.ErrDuplicateNumber
		}
		return nil, err
	}

	s.log.Info("cylinder created",
		zap.String("cylinder_id", cylinder.ID.String()),
		zap.Int("number", cylinder.Number),
	)
	return &cylinder, nil
}

// Update mutates only the supplied fields; number and is_active cannot
// be altered through this operation.
func (s *Service) Update(ctx context.Context, req cylinderdomain.UpdateRequest) (*cylinderdomain.Cylinder, error) {
	cylinder, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Cost != nil {
		if *req.Cost < 0 {
			return nil, cylinderdomain.ErrInvalidCost
		}
		cylinder.Cost = *req.Cost
	}
	if req.MaxPushes != nil {
		if *req.MaxPushes < 1 {
			return nil, cylinderdomain.ErrInvalidMaxPushes
		}
		cylinder.MaxPushes = *req.MaxPushes
	}
	cylinder.UpdatedAt = time.Now().UTC()

	err = s.db.WithContext(ctx).Model(&cylinderdomain.Cylinder{}).
		Where("id = ?", cylinder.ID).
		Updates(map[string]any{
			"cost":       cylinder.Cost,
			"max_pushes": cylinder.MaxPushes,
			"updated_at": cylinder.UpdatedAt,
		}).Error
	if err != nil {
		return nil, err
	}
	return cylinder, nil
}

// Delete removes a cylinder. The referencing-log check runs in the same
// transaction as the deletion so a concurrently created log cannot
// orphan its reference.
func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Table("consumption_logs").Where("cylinder_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return cylinderdomain.ErrHasLogs
		}

		result := tx.Where("id = ?", id).Delete(&cylinderdomain.Cylinder{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return cylinderdomain.ErrNotFound
		}
		return nil
	})
}

// SetActive flips the active flag to id in a single transaction so
// readers never observe two active cylinders.
func (s *Service) SetActive(ctx context.Context, id snowflake.ID) (*cylinderdomain.Cylinder, error) {
	var activated cylinderdomain.Cylinder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&activated).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return cylinderdomain.ErrNotFound
			}
			return err
		}

		now := time.Now().UTC()
		if err := tx.Model(&cylinderdomain.Cylinder{}).
			Where("is_active = ?", true).
			Updates(map[string]any{"is_active": false, "updated_at": now}).Error; err != nil {
			return err
		}
		if err := tx.Model(&cylinderdomain.Cylinder{}).
			Where("id = ?", id).
			Updates(map[string]any{"is_active": true, "updated_at": now}).Error; err != nil {
			return err
		}

		activated.IsActive = true
		activated.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("active cylinder changed",
		zap.String("cylinder_id", activated.ID.String()),
		zap.Int("number", activated.Number),
	)
	return &activated, nil
}

func (s *Service) List(ctx context.Context) ([]cylinderdomain.Cylinder, error) {
	var cylinders []cylinderdomain.Cylinder
	if err := s.db.WithContext(ctx).Order("number ASC").Find(&cylinders).Error; err != nil {
		return nil, err
	}
	return cylinders, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*cylinderdomain.Cylinder, error) {
	var cylinder cylinderdomain.Cylinder
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&cylinder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cylinderdomain.ErrNotFound
		}
		return nil, err
	}
	return &cylinder, nil
}

func (s *Service) GetByNumber(ctx context.Context, number int) (*cylinderdomain.Cylinder, error) {
	var cylinder cylinderdomain.Cylinder
	if err := s.db.WithContext(ctx).Where("number = ?", number).First(&cylinder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cylinderdomain.ErrNotFound
		}
		return nil, err
	}
	return &cylinder, nil
}

func (s *Service) Active(ctx context.Context) (*cylinderdomain.Cylinder, error) {
	var cylinder cylinderdomain.Cylinder
	err := s.db.WithContext(ctx).Where("is_active = ?", true).First(&cylinder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cylinder, nil
}

type usageRow struct {
	TotalPushes int            `gorm:"column:total_pushes"`
	StartDate   *dateonly.Date `gorm:"column:start_date"`
	EndDate     *dateonly.Date `gorm:"column:end_date"`
}

func (s *Service) UsageSummary(ctx context.Context, id snowflake.ID) (*cylinderdomain.UsageSummary, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	var row usageRow
	err := s.db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(co2_pushes), 0) AS total_pushes,
		        MIN(date) AS start_date,
		        MAX(date) AS end_date
		 FROM consumption_logs
		 WHERE cylinder_id = ?`,
		id,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &cylinderdomain.UsageSummary{
		TotalPushes: row.TotalPushes,
		StartDate:   row.StartDate,
		EndDate:     row.EndDate,
	}, nil
}
