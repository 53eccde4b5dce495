package payrollbasis

import "context"

type PayrollBasisService interface {
	// Refresh recomputes and replaces every result for the company and period.
	Refresh(ctx context.Context, req RefreshRequest) (RefreshResponse, error)

	ListResults(ctx context.Context, req ListResultsRequest) ([]ResultResponse, error)
}
