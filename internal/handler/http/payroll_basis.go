package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/payroll-basis-go/internal/domain/payrollbasis"
	"github.com/cmlabs-hris/payroll-basis-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-basis-go/internal/handler/http/response"
)

type PayrollBasisHandler interface {
	Refresh(w http.ResponseWriter, r *http.Request)
	ListResults(w http.ResponseWriter, r *http.Request)
}

type payrollBasisHandlerImpl struct {
	payrollBasisService payrollbasis.PayrollBasisService
}

func NewPayrollBasisHandler(payrollBasisService payrollbasis.PayrollBasisService) PayrollBasisHandler {
	return &payrollBasisHandlerImpl{payrollBasisService: payrollBasisService}
}

// Refresh recomputes the payroll basis of the caller's company for a period.
// The company always comes from the token, never from the body.
func (h *payrollBasisHandlerImpl) Refresh(w http.ResponseWriter, r *http.Request) {
	var req payrollbasis.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.CompanyID = middleware.CompanyID(r.Context())

	result, err := h.payrollBasisService.Refresh(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll basis refreshed", result)
}

func (h *payrollBasisHandlerImpl) ListResults(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := payrollbasis.ListResultsRequest{
		CompanyID:   middleware.CompanyID(r.Context()),
		PeriodStart: query.Get("period_start"),
		PeriodEnd:   query.Get("period_end"),
	}

	results, err := h.payrollBasisService.ListResults(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}
