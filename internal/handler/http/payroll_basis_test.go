package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/payroll-basis-go/internal/domain/payrollbasis"
	"github.com/cmlabs-hris/payroll-basis-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-basis-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-basis-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestAccessExp = "1h"
	handlerTestSecret    = "test-secret-key-for-jwt"
)

type fakePayrollBasisService struct {
	refreshErr error
	listErr    error
	lastReq    payrollbasis.RefreshRequest
	lastList   payrollbasis.ListResultsRequest
}

func (f *fakePayrollBasisService) Refresh(ctx context.Context, req payrollbasis.RefreshRequest) (payrollbasis.RefreshResponse, error) {
	f.lastReq = req
	if f.refreshErr != nil {
		return payrollbasis.RefreshResponse{State: payrollbasis.StateFailed}, f.refreshErr
	}
	return payrollbasis.RefreshResponse{
		CompanyID:       req.CompanyID,
		PeriodStart:     req.PeriodStart,
		PeriodEnd:       req.PeriodEnd,
		State:           payrollbasis.StateDone,
		PersonsComputed: 1,
		Results:         []payrollbasis.ResultResponse{{EmployeeID: "emp-1", TotalHours: 8}},
	}, nil
}

func (f *fakePayrollBasisService) ListResults(ctx context.Context, req payrollbasis.ListResultsRequest) ([]payrollbasis.ResultResponse, error) {
	f.lastList = req
	if f.listErr != nil {
		return nil, f.listErr
	}
	return []payrollbasis.ResultResponse{{EmployeeID: "emp-1", TotalHours: 8}}, nil
}

func newTestRouter(t *testing.T, svc payrollbasis.PayrollBasisService) (*chi.Mux, jwt.Service) {
	t.Helper()
	jwtSvc := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp)
	router := NewRouter(jwtSvc, RouterOptions{
		AllowedOrigins: []string{"http://localhost:3000"},
		Env:            "test",
		LogLevel:       slog.LevelError,
	}, NewPayrollBasisHandler(svc))
	return router, jwtSvc
}

func bearer(t *testing.T, jwtSvc jwt.Service, companyID string, role user.Role) string {
	t.Helper()
	token, _, err := jwtSvc.GenerateAccessToken("user-1", companyID, role)
	require.NoError(t, err)
	return "Bearer " + token
}

func doRequest(router http.Handler, method, target, auth string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

// ===== REFRESH =====

func TestPayrollBasisHandler_Refresh_Success(t *testing.T) {
	svc := &fakePayrollBasisService{}
	router, jwtSvc := newTestRouter(t, svc)

	body := []byte(`{"period_start":"2024-01-01","period_end":"2024-01-31","employee_ids":["emp-1"],"company_id":"other"}`)
	w := doRequest(router, http.MethodPost, "/api/v1/payroll-basis/refresh", bearer(t, jwtSvc, "company-1", user.RoleManager), body)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.True(t, resp["success"].(bool))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "DONE", data["state"])

	assert.Equal(t, "company-1", svc.lastReq.CompanyID)
	assert.Equal(t, []string{"emp-1"}, svc.lastReq.EmployeeIDs)
}

func TestPayrollBasisHandler_Refresh_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{
			name:   "validation",
			err:    fmt.Errorf("%w: %w", payrollbasis.ErrInvalidPeriod, validator.ValidationErrors{{Field: "period_end", Message: "is required"}}),
			status: http.StatusUnprocessableEntity,
			code:   "VALIDATION_ERROR",
		},
		{
			name:   "no data",
			err:    fmt.Errorf("%w: 2024-01-01 to 2024-01-31", payrollbasis.ErrNoData),
			status: http.StatusNotFound,
			code:   "NOT_FOUND",
		},
		{
			name:   "persistence",
			err:    fmt.Errorf("%w: %w", payrollbasis.ErrPersistenceFailure, errors.New("deadlock detected")),
			status: http.StatusInternalServerError,
			code:   "INTERNAL_SERVER_ERROR",
		},
		{
			name:   "unexpected",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			code:   "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, jwtSvc := newTestRouter(t, &fakePayrollBasisService{refreshErr: tt.err})

			body := []byte(`{"period_start":"2024-01-01","period_end":"2024-01-31"}`)
			w := doRequest(router, http.MethodPost, "/api/v1/payroll-basis/refresh", bearer(t, jwtSvc, "company-1", user.RoleOwner), body)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeBody(t, w)
			assert.False(t, resp["success"].(bool))
			assert.Equal(t, tt.code, resp["error"].(map[string]interface{})["code"])
		})
	}
}

func TestPayrollBasisHandler_Refresh_InvalidJSON(t *testing.T) {
	router, jwtSvc := newTestRouter(t, &fakePayrollBasisService{})

	w := doRequest(router, http.MethodPost, "/api/v1/payroll-basis/refresh", bearer(t, jwtSvc, "company-1", user.RoleOwner), []byte("invalid json"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ===== ACCESS CONTROL =====

func TestPayrollBasisHandler_AccessControl(t *testing.T) {
	svc := &fakePayrollBasisService{}
	router, jwtSvc := newTestRouter(t, svc)
	body := []byte(`{"period_start":"2024-01-01","period_end":"2024-01-31"}`)

	t.Run("missing token", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/v1/payroll-basis/refresh", "", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := jwt.NewJWTService("another-secret", handlerTestAccessExp)
		w := doRequest(router, http.MethodPost, "/api/v1/payroll-basis/refresh", bearer(t, other, "company-1", user.RoleOwner), body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("employee role", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/v1/payroll-basis/refresh", bearer(t, jwtSvc, "company-1", user.RoleEmployee), body)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("no company claim", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/v1/payroll-basis/refresh", bearer(t, jwtSvc, "", user.RoleOwner), body)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	assert.Empty(t, svc.lastReq.CompanyID)
}

// ===== LIST =====

func TestPayrollBasisHandler_ListResults(t *testing.T) {
	svc := &fakePayrollBasisService{}
	router, jwtSvc := newTestRouter(t, svc)

	w := doRequest(router, http.MethodGet, "/api/v1/payroll-basis?period_start=2024-01-01&period_end=2024-01-31", bearer(t, jwtSvc, "company-1", user.RoleManager), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	data := resp["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "emp-1", data[0].(map[string]interface{})["employee_id"])

	assert.Equal(t, "company-1", svc.lastList.CompanyID)
	assert.Equal(t, "2024-01-01", svc.lastList.PeriodStart)
	assert.Equal(t, "2024-01-31", svc.lastList.PeriodEnd)
}

func TestPayrollBasisHandler_ListResults_BadPeriod(t *testing.T) {
	svc := &fakePayrollBasisService{listErr: fmt.Errorf("%w: %w", payrollbasis.ErrInvalidPeriod, validator.ValidationErrors{{Field: "period_start", Message: "is required"}})}
	router, jwtSvc := newTestRouter(t, svc)

	w := doRequest(router, http.MethodGet, "/api/v1/payroll-basis", bearer(t, jwtSvc, "company-1", user.RoleOwner), nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
