package payrollbasis

import "errors"

var (
	ErrNoData             = errors.New("no closed work sessions in payroll period")
	ErrPersistenceFailure = errors.New("failed to persist payroll basis results")
	ErrInvalidPeriod      = errors.New("invalid payroll period")
	ErrCompanyRequired    = errors.New("company ID is required")
	ErrRulesNotFound      = errors.New("payroll rules not found")
)
