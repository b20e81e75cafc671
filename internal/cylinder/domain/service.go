package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Cylinder, error)
	Update(ctx context.Context, req UpdateRequest) (*Cylinder, error)
	Delete(ctx context.Context, id snowflake.ID) error

	// SetActive atomically makes id the single active cylinder.
	SetActive(ctx context.Context, id snowflake.ID) (*Cylinder, error)

	List(ctx context.Context) ([]Cylinder, error)
	GetByID(ctx context.Context, id snowflake.ID) (*Cylinder, error)
	GetByNumber(ctx context.Context, number int) (*Cylinder, error)

	// Active returns the currently active cylinder, or nil when the
	// registry has never had one activated.
	Active(ctx context.Context) (*Cylinder, error)

	UsageSummary(ctx context.Context, id snowflake.ID) (*UsageSummary, error)
}
