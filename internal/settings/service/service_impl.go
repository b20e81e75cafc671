package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	settingsdomain "github.com/fizzlog/fizzlog/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ServiceParam struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(p ServiceParam) settingsdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("settings.service"),
	}
}

func (s *Service) List(ctx context.Context) ([]settingsdomain.Setting, error) {
	var rows []settingsdomain.Setting
	if err := s.db.WithContext(ctx).Order("setting_key ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Get returns the stored setting, or a default-backed value for known
// keys that have never been written.
func (s *Service) Get(ctx context.Context, key string) (*settingsdomain.Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, settingsdomain.ErrInvalidKey
	}

	var row settingsdomain.Setting
	err := s.db.WithContext(ctx).Where("setting_key = ?", key).First(&row).Error
	if err == nil {
		return &row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if def, ok := settingsdomain.Defaults[key]; ok {
		return &settingsdomain.Setting{Key: key, Value: def}, nil
	}
	return nil, settingsdomain.ErrNotFound
}

func (s *Service) Put(ctx context.Context, key, value string) (*settingsdomain.Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, settingsdomain.ErrInvalidKey
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, settingsdomain.ErrInvalidValue
	}

	row := settingsdomain.Setting{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Service) Float(ctx context.Context, key string) (float64, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	parsed, parseErr := strconv.ParseFloat(strings.TrimSpace(raw.Value), 64)
	if parseErr == nil {
		return parsed, nil
	}
	return s.fallbackFloat(key, raw.Value, parseErr)
}

func (s *Service) Int(ctx context.Context, key string) (int, error) {
	value, err := s.Float(ctx, key)
	if err != nil {
		return 0, err
	}
	return int(value), nil
}

// fallbackFloat recovers from a corrupt stored value so reads never fail
// for known keys.
func (s *Service) fallbackFloat(key, value string, parseErr error) (float64, error) {
	def, ok := settingsdomain.Defaults[key]
	if !ok {
		return 0, settingsdomain.ErrInvalidValue
	}
	s.log.Warn("stored setting is not numeric, using default",
		zap.String("key", key),
		zap.String("value", value),
		zap.Error(parseErr),
	)
	parsed, err := strconv.ParseFloat(def, 64)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}
