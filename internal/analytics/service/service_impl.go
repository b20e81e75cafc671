package service

import (
	"context"
	"sort"

	analyticsdomain "github.com/fizzlog/fizzlog/internal/analytics/domain"
	"github.com/fizzlog/fizzlog/internal/clock"
	consumptiondomain "github.com/fizzlog/fizzlog/internal/consumption/domain"
	cylinderdomain "github.com/fizzlog/fizzlog/internal/cylinder/domain"
	settingsdomain "github.com/fizzlog/fizzlog/internal/settings/domain"
	"github.com/fizzlog/fizzlog/pkg/dateonly"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// mlPerRetailUnit is the reference volume the retail price is quoted
// against (a 500 mL store-bought bottle).
const mlPerRetailUnit = 500

type ServiceParam struct {
	fx.In

	Log            *zap.Logger
	Clock          clock.Clock
	ConsumptionSvc consumptiondomain.Service
	CylinderSvc    cylinderdomain.Service
	SettingsSvc    settingsdomain.Service
}

type Service struct {
	log         *zap.Logger
	clock       clock.Clock
	consumption consumptiondomain.Service
	cylinders   cylinderdomain.Service
	settings    settingsdomain.Service
}

func NewService(p ServiceParam) analyticsdomain.Service {
	return &Service{
		log:         p.Log.Named("analytics.service"),
		clock:       p.Clock,
		consumption: p.ConsumptionSvc,
		cylinders:   p.CylinderSvc,
		settings:    p.SettingsSvc,
	}
}

func (s *Service) Period(ctx context.Context, period analyticsdomain.Period) (*analyticsdomain.PeriodAnalytics, error) {
	days := period.Days()
	if days == 0 {
		return nil, analyticsdomain.ErrInvalidPeriod
	}

	today := clock.Today(s.clock)
	start := dateonly.FromTime(today).AddDays(-days)

	entries, err := s.consumption.List(ctx, consumptiondomain.ListFilter{
		From: start,
		To:   dateonly.FromTime(today),
	})
	if err != nil {
		return nil, err
	}

	retailPrice, err := s.settings.Float(ctx, settingsdomain.KeyRetailPricePer500ML)
	if err != nil {
		return nil, err
	}

	var totalVolume, totalCost float64
	for _, entry := range entries {
		totalVolume += entry.VolumeML
		totalCost += entry.TotalCost
	}

	costPerLiter := 0.0
	if totalVolume > 0 {
		costPerLiter = totalCost / (totalVolume / 1000)
	}

	return &analyticsdomain.PeriodAnalytics{
		TotalConsumptionML:        totalVolume,
		AverageDailyConsumptionML: totalVolume / float64(days),
		TotalCost:                 totalCost,
		CostPerLiter:              costPerLiter,
		PeriodDays:                days,
		ConsumptionData:           buildDailyBuckets(entries, retailPrice),
	}, nil
}

func (s *Service) Dashboard(ctx context.Context) (*analyticsdomain.DashboardSummary, error) {
	today := dateonly.FromTime(clock.Today(s.clock))
	monthStart := today.MonthStart()

	monthEntries, err := s.consumption.List(ctx, consumptiondomain.ListFilter{
		From: monthStart,
		To:   today,
	})
	if err != nil {
		return nil, err
	}

	retailPrice, err := s.settings.Float(ctx, settingsdomain.KeyRetailPricePer500ML)
	if err != nil {
		return nil, err
	}

	var todayVolume, monthVolume, monthCost float64
	for _, entry := range monthEntries {
		monthVolume += entry.VolumeML
		monthCost += entry.TotalCost
		if entry.Date.Equal(today) {
			todayVolume += entry.VolumeML
		}
	}

	// Savings compare the month-to-date volume against buying the same
	// amount of sparkling water at retail; the volume set matches the
	// one behind this_month_cost.
	savings := monthVolume*retailPrice/mlPerRetailUnit - monthCost

	active, err := s.cylinders.Active(ctx)
	if err != nil {
		return nil, err
	}

	recentEntries, err := s.consumption.List(ctx, consumptiondomain.ListFilter{
		From: today.AddDays(-30),
		To:   today,
	})
	if err != nil {
		return nil, err
	}

	return &analyticsdomain.DashboardSummary{
		TodayConsumptionML:    todayVolume,
		ThisMonthCost:         monthCost,
		SavingsVsRetail:       savings,
		ActiveCylinder:        active,
		RecentConsumptionData: buildDailyBuckets(recentEntries, retailPrice),
	}, nil
}

// buildDailyBuckets groups entries by calendar day, sums within each
// day first, then walks the days in ascending order accumulating
// volume. Input order is irrelevant.
func buildDailyBuckets(entries []consumptiondomain.ConsumptionLog, retailPrice float64) []analyticsdomain.DailyBucket {
	byDay := make(map[string]*analyticsdomain.DailyBucket)
	for _, entry := range entries {
		key := entry.Date.String()
		bucket, ok := byDay[key]
		if !ok {
			bucket = &analyticsdomain.DailyBucket{Date: entry.Date}
			byDay[key] = bucket
		}
		bucket.VolumeML += entry.VolumeML
		bucket.CO2Cost += entry.CO2Cost
		bucket.TotalCost += entry.TotalCost
	}

	buckets := make([]analyticsdomain.DailyBucket, 0, len(byDay))
	for _, bucket := range byDay {
		bucket.RetailCost = bucket.VolumeML * retailPrice / mlPerRetailUnit
		buckets = append(buckets, *bucket)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Date.Before(buckets[j].Date)
	})

	var cumulative float64
	for i := range buckets {
		cumulative += buckets[i].VolumeML
		buckets[i].CumulativeVolumeML = cumulative
	}
	return buckets
}
