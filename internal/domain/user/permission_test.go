package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role       Role
		permission Permission
		want       bool
	}{
		{RoleOwner, PermissionPayrollBasisRefresh, true},
		{RoleManager, PermissionPayrollBasisRefresh, true},
		{RoleManager, PermissionPayrollBasisView, true},
		{RoleEmployee, PermissionPayrollBasisView, false},
		{RolePending, PermissionPayrollBasisRefresh, false},
		{Role("intern"), PermissionPayrollBasisView, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.permission), func(t *testing.T) {
			assert.Equal(t, tt.want, HasPermission(tt.role, tt.permission))
		})
	}
}
