package domain

import "context"

type Service interface {
	List(ctx context.Context) ([]Setting, error)
	Get(ctx context.Context, key string) (*Setting, error)
	Put(ctx context.Context, key, value string) (*Setting, error)

	// Float and Int read a setting as a number, falling back to the
	// key's default when the row is absent or unparsable.
	Float(ctx context.Context, key string) (float64, error)
	Int(ctx context.Context, key string) (int, error)
}
