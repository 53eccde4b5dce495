// Package cache holds in-memory decorators over the PostgreSQL repositories.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-basis-go/internal/domain/payrollbasis"
	"github.com/maypok86/otter/v2"
)

const maxCachedCompanies = 10_000

type rulesRepository struct {
	next   payrollbasis.RulesRepository
	cache  *otter.Cache[string, payrollbasis.PayrollRules]
	logger *slog.Logger
}

// NewRulesRepository caches successful rule lookups per company for ttl.
// Errors, including ErrRulesNotFound, are passed through uncached. A ttl of
// zero or less disables caching and returns next unchanged.
func NewRulesRepository(next payrollbasis.RulesRepository, ttl time.Duration, logger *slog.Logger) payrollbasis.RulesRepository {
	if ttl <= 0 {
		return next
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &rulesRepository{
		next: next,
		cache: otter.Must(&otter.Options[string, payrollbasis.PayrollRules]{
			MaximumSize:      maxCachedCompanies,
			ExpiryCalculator: otter.ExpiryWriting[string, payrollbasis.PayrollRules](ttl),
		}),
		logger: logger,
	}
}

func (r *rulesRepository) GetRules(ctx context.Context, companyID string) (payrollbasis.PayrollRules, error) {
	if rules, ok := r.cache.GetIfPresent(companyID); ok {
		r.logger.Debug("payroll rules cache hit", "company_id", companyID)
		return rules, nil
	}

	rules, err := r.next.GetRules(ctx, companyID)
	if err != nil {
		return payrollbasis.PayrollRules{}, err
	}
	r.cache.Set(companyID, rules)
	return rules, nil
}
