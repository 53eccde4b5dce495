package user

type Permission string

const (
	// Payroll Basis
	PermissionPayrollBasisView    Permission = "payroll_basis.view"
	PermissionPayrollBasisRefresh Permission = "payroll_basis.refresh"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionPayrollBasisView,
		PermissionPayrollBasisRefresh,
	},
	RoleManager: {
		PermissionPayrollBasisView,
		PermissionPayrollBasisRefresh,
	},
	RoleEmployee: {
		// Employees see their own pay elsewhere
	},
	RolePending: {
		// Pending role has no permissions
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
