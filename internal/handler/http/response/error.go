package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/payroll-basis-go/internal/domain/payrollbasis"
	"github.com/cmlabs-hris/payroll-basis-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-basis-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")

	// Payroll basis domain errors
	case errors.Is(err, payrollbasis.ErrCompanyRequired):
		Forbidden(w, "Company context required")
	case errors.Is(err, payrollbasis.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)
	case errors.Is(err, payrollbasis.ErrNoData):
		NotFound(w, err.Error())
	case errors.Is(err, payrollbasis.ErrPersistenceFailure):
		InternalServerError(w, "Failed to store payroll basis results")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
