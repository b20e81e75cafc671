package domain

import "context"

type Service interface {
	Period(ctx context.Context, period Period) (*PeriodAnalytics, error)
	Dashboard(ctx context.Context) (*DashboardSummary, error)
}
