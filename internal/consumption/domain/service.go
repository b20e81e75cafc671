package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*ConsumptionLog, error)
	Update(ctx context.Context, req UpdateRequest) (*ConsumptionLog, error)
	Delete(ctx context.Context, id snowflake.ID) error
	Get(ctx context.Context, id snowflake.ID) (*ConsumptionLog, error)

	// List returns entries ordered by date descending for display;
	// aggregation consumers must sort for themselves.
	List(ctx context.Context, filter ListFilter) ([]ConsumptionLog, error)
}
