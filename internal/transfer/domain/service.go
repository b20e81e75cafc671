package domain

import "context"

type Service interface {
	// Import creates one ledger entry per row, best-effort: a failing
	// row lands in the error list and the rest are committed anyway.
	Import(ctx context.Context, rows []Row) (*ImportResult, error)

	// Export serializes every ledger entry in the import row shape so
	// an export can be re-imported against the same cylinders.
	Export(ctx context.Context) ([]Row, error)

	// Sample returns fixture rows documenting the expected import shape.
	Sample() []Row
}
