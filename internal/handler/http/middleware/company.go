package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/payroll-basis-go/internal/domain/payrollbasis"
	"github.com/cmlabs-hris/payroll-basis-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

type companyIDKey struct{}

// RequireCompany rejects tokens without a company_id claim and stores the
// company for handlers to read with CompanyID.
func RequireCompany(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, payrollbasis.ErrCompanyRequired)
			return
		}

		companyID, ok := claims["company_id"].(string)
		if !ok || companyID == "" {
			response.HandleError(w, payrollbasis.ErrCompanyRequired)
			return
		}

		ctx := context.WithValue(r.Context(), companyIDKey{}, companyID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CompanyID returns the company stored by RequireCompany
func CompanyID(ctx context.Context) string {
	companyID, _ := ctx.Value(companyIDKey{}).(string)
	return companyID
}
