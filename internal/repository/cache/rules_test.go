package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-basis-go/internal/domain/payrollbasis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRulesRepo struct {
	calls int
	err   error
}

func (c *countingRulesRepo) GetRules(ctx context.Context, companyID string) (payrollbasis.PayrollRules, error) {
	c.calls++
	if c.err != nil {
		return payrollbasis.PayrollRules{}, c.err
	}
	rules := payrollbasis.DefaultRules(companyID)
	rules.WeeklyNormalHoursThreshold = 38
	return rules, nil
}

func TestRulesRepository_CachesPerCompany(t *testing.T) {
	ctx := context.Background()
	next := &countingRulesRepo{}
	repo := NewRulesRepository(next, time.Minute, nil)

	first, err := repo.GetRules(ctx, "company-1")
	require.NoError(t, err)
	second, err := repo.GetRules(ctx, "company-1")
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, 38.0, second.WeeklyNormalHoursThreshold)
	assert.Equal(t, first.CompanyID, second.CompanyID)

	_, err = repo.GetRules(ctx, "company-2")
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestRulesRepository_DoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	next := &countingRulesRepo{err: payrollbasis.ErrRulesNotFound}
	repo := NewRulesRepository(next, time.Minute, nil)

	_, err := repo.GetRules(ctx, "company-1")
	assert.True(t, errors.Is(err, payrollbasis.ErrRulesNotFound))

	next.err = nil
	rules, err := repo.GetRules(ctx, "company-1")
	require.NoError(t, err)
	assert.Equal(t, "company-1", rules.CompanyID)
	assert.Equal(t, 2, next.calls)
}

func TestRulesRepository_DisabledWithoutTTL(t *testing.T) {
	next := &countingRulesRepo{}
	repo := NewRulesRepository(next, 0, nil)

	assert.Same(t, next, repo)
}
