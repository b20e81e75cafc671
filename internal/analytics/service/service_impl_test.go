package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	analyticsdomain "github.com/fizzlog/fizzlog/internal/analytics/domain"
	"github.com/fizzlog/fizzlog/internal/clock"
	consumptiondomain "github.com/fizzlog/fizzlog/internal/consumption/domain"
	cylinderdomain "github.com/fizzlog/fizzlog/internal/cylinder/domain"
	settingsdomain "github.com/fizzlog/fizzlog/internal/settings/domain"
	"github.com/fizzlog/fizzlog/pkg/dateonly"
	"go.uber.org/zap"
)

type consumptionStub struct {
	entries []consumptiondomain.ConsumptionLog
}

func (s *consumptionStub) Create(ctx context.Context, req consumptiondomain.CreateRequest) (*consumptiondomain.ConsumptionLog, error) {
	return nil, errors.New("not implemented")
}

func (s *consumptionStub) Update(ctx context.Context, req consumptiondomain.UpdateRequest) (*consumptiondomain.ConsumptionLog, error) {
	return nil, errors.New("not implemented")
}

func (s *consumptionStub) Delete(ctx context.Context, id snowflake.ID) error {
	return errors.New("not implemented")
}

func (s *consumptionStub) Get(ctx context.Context, id snowflake.ID) (*consumptiondomain.ConsumptionLog, error) {
	return nil, errors.New("not implemented")
}

func (s *consumptionStub) List(ctx context.Context, filter consumptiondomain.ListFilter) ([]consumptiondomain.ConsumptionLog, error) {
	var out []consumptiondomain.ConsumptionLog
	for _, entry := range s.entries {
		if !filter.From.IsZero() && entry.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && entry.Date.After(filter.To) {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

type cylinderStub struct {
	active *cylinderdomain.Cylinder
}

func (s *cylinderStub) Create(ctx context.Context, req cylinderdomain.CreateRequest) (*cylinderdomain.Cylinder, error) {
	return nil, errors.New("not implemented")
}

func (s *cylinderStub) Update(ctx context.Context, req cylinderdomain.UpdateRequest) (*cylinderdomain.Cylinder, error) {
	return nil, errors.New("not implemented")
}

func (s *cylinderStub) Delete(ctx context.Context, id snowflake.ID) error {
	return errors.New("not implemented")
}

func (s *cylinderStub) SetActive(ctx context.Context, id snowflake.ID) (*cylinderdomain.Cylinder, error) {
	return nil, errors.New("not implemented")
}

func (s *cylinderStub) List(ctx context.Context) ([]cylinderdomain.Cylinder, error) {
	return nil, errors.New("not implemented")
}

func (s *cylinderStub) GetByID(ctx context.Context, id snowflake.ID) (*cylinderdomain.Cylinder, error) {
	return nil, errors.New("not implemented")
}

func (s *cylinderStub) GetByNumber(ctx context.Context, number int) (*cylinderdomain.Cylinder, error) {
	return nil, errors.New("not implemented")
}

func (s *cylinderStub) Active(ctx context.Context) (*cylinderdomain.Cylinder, error) {
	return s.active, nil
}

func (s *cylinderStub) UsageSummary(ctx context.Context, id snowflake.ID) (*cylinderdomain.UsageSummary, error) {
	return nil, errors.New("not implemented")
}

type settingsStub struct {
	retailPrice float64
}

func (s *settingsStub) List(ctx context.Context) ([]settingsdomain.Setting, error) {
	return nil, errors.New("not implemented")
}

func (s *settingsStub) Get(ctx context.Context, key string) (*settingsdomain.Setting, error) {
	return nil, errors.New("not implemented")
}

func (s *settingsStub) Put(ctx context.Context, key, value string) (*settingsdomain.Setting, error) {
	return nil, errors.New("not implemented")
}

func (s *settingsStub) Float(ctx context.Context, key string) (float64, error) {
	if key == settingsdomain.KeyRetailPricePer500ML {
		return s.retailPrice, nil
	}
	return 0, settingsdomain.ErrNotFound
}

func (s *settingsStub) Int(ctx context.Context, key string) (int, error) {
	value, err := s.Float(ctx, key)
	return int(value), err
}

func setupAnalyticsService(t *testing.T, now time.Time, entries []consumptiondomain.ConsumptionLog, active *cylinderdomain.Cylinder, retailPrice float64) analyticsdomain.Service {
	t.Helper()
	return NewService(ServiceParam{
		Log:            zap.NewNop(),
		Clock:          clock.NewFakeClock(now),
		ConsumptionSvc: &consumptionStub{entries: entries},
		CylinderSvc:    &cylinderStub{active: active},
		SettingsSvc:    &settingsStub{retailPrice: retailPrice},
	})
}

func entryOn(date dateonly.Date, volume, cost float64) consumptiondomain.ConsumptionLog {
	return consumptiondomain.ConsumptionLog{
		Date:      date,
		VolumeML:  volume,
		CO2Cost:   cost,
		TotalCost: cost,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPeriodAveragesOverWindowDays(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	entries := []consumptiondomain.ConsumptionLog{
		entryOn(dateonly.New(2024, time.June, 10), 840, 40),
		entryOn(dateonly.New(2024, time.June, 12), 455, 20),
	}
	svc := setupAnalyticsService(t, now, entries, nil, 45)

	result, err := svc.Period(context.Background(), analyticsdomain.Period30d)
	if err != nil {
		t.Fatalf("period: %v", err)
	}

	if result.TotalConsumptionML != 1295 {
		t.Fatalf("expected total 1295, got %v", result.TotalConsumptionML)
	}
	if result.PeriodDays != 30 {
		t.Fatalf("expected 30 period days, got %d", result.PeriodDays)
	}
	// The divisor is the window length, not the number of days with data.
	if !almostEqual(result.AverageDailyConsumptionML, 1295.0/30) {
		t.Fatalf("expected average %v, got %v", 1295.0/30, result.AverageDailyConsumptionML)
	}
	if !almostEqual(result.CostPerLiter, 60/(1295.0/1000)) {
		t.Fatalf("expected cost per liter %v, got %v", 60/(1295.0/1000), result.CostPerLiter)
	}
}

func TestPeriodEmptyWindow(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	svc := setupAnalyticsService(t, now, nil, nil, 45)

	result, err := svc.Period(context.Background(), analyticsdomain.Period90d)
	if err != nil {
		t.Fatalf("period: %v", err)
	}
	if result.TotalConsumptionML != 0 || result.AverageDailyConsumptionML != 0 {
		t.Fatalf("expected zero totals, got %+v", result)
	}
	if result.CostPerLiter != 0 {
		t.Fatalf("cost per liter must be zero without volume, got %v", result.CostPerLiter)
	}
	if len(result.ConsumptionData) != 0 {
		t.Fatalf("expected no buckets, got %d", len(result.ConsumptionData))
	}
}

func TestDailyBucketsGroupAndAccumulate(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	day := dateonly.New(2024, time.June, 10)
	later := dateonly.New(2024, time.June, 12)
	entries := []consumptiondomain.ConsumptionLog{
		// Two entries on the same day must collapse into one bucket.
		entryOn(day, 840, 40),
		entryOn(day, 455, 20),
		entryOn(later, 840, 40),
	}
	svc := setupAnalyticsService(t, now, entries, nil, 45)

	result, err := svc.Period(context.Background(), analyticsdomain.Period30d)
	if err != nil {
		t.Fatalf("period: %v", err)
	}

	buckets := result.ConsumptionData
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if !buckets[0].Date.Equal(day) || buckets[0].VolumeML != 1295 {
		t.Fatalf("expected first bucket 1295 on %s, got %+v", day, buckets[0])
	}
	if buckets[0].CumulativeVolumeML != 1295 {
		t.Fatalf("expected cumulative 1295, got %v", buckets[0].CumulativeVolumeML)
	}
	if buckets[1].CumulativeVolumeML != 2135 {
		t.Fatalf("expected cumulative 2135, got %v", buckets[1].CumulativeVolumeML)
	}
}

func TestDailyBucketRetailCost(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	entries := []consumptiondomain.ConsumptionLog{
		entryOn(dateonly.New(2024, time.June, 10), 1000, 40),
	}
	svc := setupAnalyticsService(t, now, entries, nil, 45)

	result, err := svc.Period(context.Background(), analyticsdomain.Period30d)
	if err != nil {
		t.Fatalf("period: %v", err)
	}
	if len(result.ConsumptionData) != 1 {
		t.Fatalf("expected one bucket, got %d", len(result.ConsumptionData))
	}
	if !almostEqual(result.ConsumptionData[0].RetailCost, 90) {
		t.Fatalf("expected retail cost 90 for 1000 mL at 45/500mL, got %v", result.ConsumptionData[0].RetailCost)
	}
}

func TestParsePeriodRejectsUnknown(t *testing.T) {
	if _, err := analyticsdomain.ParsePeriod("7d"); !errors.Is(err, analyticsdomain.ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestDashboardSummary(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	node, _ := snowflake.NewNode(1)
	active := &cylinderdomain.Cylinder{ID: node.Generate(), Number: 2, IsActive: true}

	entries := []consumptiondomain.ConsumptionLog{
		entryOn(dateonly.New(2024, time.June, 15), 840, 40),
		entryOn(dateonly.New(2024, time.June, 3), 1000, 50),
		// Previous month, outside this_month aggregates.
		entryOn(dateonly.New(2024, time.May, 28), 455, 20),
	}
	svc := setupAnalyticsService(t, now, entries, active, 45)

	summary, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	if summary.TodayConsumptionML != 840 {
		t.Fatalf("expected today 840, got %v", summary.TodayConsumptionML)
	}
	if summary.ThisMonthCost != 90 {
		t.Fatalf("expected month cost 90, got %v", summary.ThisMonthCost)
	}
	wantSavings := 1840*45.0/500 - 90
	if !almostEqual(summary.SavingsVsRetail, wantSavings) {
		t.Fatalf("expected savings %v, got %v", wantSavings, summary.SavingsVsRetail)
	}
	if summary.ActiveCylinder == nil || summary.ActiveCylinder.Number != 2 {
		t.Fatalf("expected active cylinder 2, got %+v", summary.ActiveCylinder)
	}
	// May 28 falls inside the trailing 30 days even though it is out of
	// the month-to-date aggregates.
	if len(summary.RecentConsumptionData) != 3 {
		t.Fatalf("expected 3 recent buckets, got %d", len(summary.RecentConsumptionData))
	}
}
