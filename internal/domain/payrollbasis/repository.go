package payrollbasis

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SessionRepository lists work sessions overlapping [from, to] for a company.
// An empty personIDs slice means every person with activity in the window.
// Open sessions may be returned; the engine filters them out.
type SessionRepository interface {
	ListSessions(ctx context.Context, companyID string, from, to time.Time, personIDs []string) ([]RawSession, error)
}

// RulesRepository returns ErrRulesNotFound when a company has no rules row.
type RulesRepository interface {
	GetRules(ctx context.Context, companyID string) (PayrollRules, error)
}

// SalaryRepository maps person IDs to hourly wages. Persons without a wage
// on file are simply absent from the map.
type SalaryRepository interface {
	GetHourlyWages(ctx context.Context, companyID string, personIDs []string) (map[string]decimal.Decimal, error)
}

// ResultRepository stores payroll basis rows. Rows are scoped by company and
// the exact period window.
type ResultRepository interface {
	DeleteResults(ctx context.Context, companyID string, periodStart, periodEnd time.Time) error
	InsertResults(ctx context.Context, results []PayrollBasisResult) error
	ListResults(ctx context.Context, companyID string, periodStart, periodEnd time.Time) ([]PayrollBasisResult, error)
}

// Transactor runs fn so that repository calls made with the context it
// receives share one unit of work.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CompanyRepository feeds the scheduled refresh with companies that recorded
// any work time since the given instant.
type CompanyRepository interface {
	ListActiveCompanyIDs(ctx context.Context, since time.Time) ([]string, error)
}
