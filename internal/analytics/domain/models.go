// Package domain contains the analytics aggregation types.
package domain

import (
	"errors"

	cylinderdomain "github.com/fizzlog/fizzlog/internal/cylinder/domain"
	"github.com/fizzlog/fizzlog/pkg/dateonly"
)

// Period is one of the fixed lookback windows measured backward from
// the current date.
type Period string

const (
	Period30d  Period = "30d"
	Period90d  Period = "90d"
	Period180d Period = "180d"
	Period365d Period = "365d"
)

var ErrInvalidPeriod = errors.New("invalid_period")

func ParsePeriod(raw string) (Period, error) {
	switch Period(raw) {
	case Period30d, Period90d, Period180d, Period365d:
		return Period(raw), nil
	default:
		return "", ErrInvalidPeriod
	}
}

func (p Period) Days() int {
	switch p {
	case Period30d:
		return 30
	case Period90d:
		return 90
	case Period180d:
		return 180
	case Period365d:
		return 365
	default:
		return 0
	}
}

// DailyBucket aggregates all entries of one calendar day. Only days
// with at least one log produce a bucket.
type DailyBucket struct {
	Date               dateonly.Date `json:"date"`
	VolumeML           float64       `json:"volume_ml"`
	CO2Cost            float64       `json:"co2_cost"`
	TotalCost          float64       `json:"total_cost"`
	RetailCost         float64       `json:"retail_cost"`
	CumulativeVolumeML float64       `json:"cumulative_volume_ml"`
}

type PeriodAnalytics struct {
	TotalConsumptionML        float64       `json:"total_consumption_ml"`
	AverageDailyConsumptionML float64       `json:"average_daily_consumption_ml"`
	TotalCost                 float64       `json:"total_cost"`
	CostPerLiter              float64       `json:"cost_per_liter"`
	PeriodDays                int           `json:"period_days"`
	ConsumptionData           []DailyBucket `json:"consumption_data"`
}

type DashboardSummary struct {
	TodayConsumptionML    float64                   `json:"today_consumption_ml"`
	ThisMonthCost         float64                   `json:"this_month_cost"`
	SavingsVsRetail       float64                   `json:"savings_vs_retail"`
	ActiveCylinder        *cylinderdomain.Cylinder  `json:"active_cylinder"`
	RecentConsumptionData []DailyBucket             `json:"recent_consumption_data"`
}
