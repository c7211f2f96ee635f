package rbac

// System roles always exist and are valid even when the permission store is
// unreachable. Custom roles are additive on top of this list.
const (
	RoleAdmin             = "ADMIN"
	RoleCEO               = "CEO"
	RoleIncubationManager = "INCUBATION_MANAGER"
	RoleAccountant        = "ACCOUNTANT"
	RoleOfficerInCharge   = "OFFICER_IN_CHARGE"
	RoleFacultyInCharge   = "FACULTY_IN_CHARGE"
	RoleEmployee          = "EMPLOYEE"
)

var SystemRoles = []string{
	RoleAdmin,
	RoleCEO,
	RoleIncubationManager,
	RoleAccountant,
	RoleOfficerInCharge,
	RoleFacultyInCharge,
	RoleEmployee,
}

// Management roles may run payroll aggregation and save remuneration.
var ManagementRoles = []string{
	RoleAdmin,
	RoleCEO,
	RoleIncubationManager,
	RoleAccountant,
}

// Oversight roles are excluded from payroll computation entirely.
var OversightRoles = []string{
	RoleFacultyInCharge,
	RoleOfficerInCharge,
}

// IsSystemRole is the narrow synchronous check used at data-entry time. It
// only consults the static list; IsValidRole covers custom roles as well.
func IsSystemRole(role string) bool {
	for _, candidate := range SystemRoles {
		if candidate == role {
			return true
		}
	}
	return false
}

func IsManagementRole(role string) bool {
	for _, candidate := range ManagementRoles {
		if candidate == role {
			return true
		}
	}
	return false
}

func IsOversightRole(role string) bool {
	for _, candidate := range OversightRoles {
		if candidate == role {
			return true
		}
	}
	return false
}

func IsAdminOrCEO(role string) bool {
	return role == RoleAdmin || role == RoleCEO
}

// Feature ids referenced by handlers.
const (
	FeatureLeaveApprove   = "leave.approve"
	FeatureLeaveApply     = "leave.apply"
	FeatureAttendanceMark = "attendance.mark"
	FeatureSalaryViewAll  = "salary.viewAll"
	FeatureSalaryViewOwn  = "salary.viewOwn"
)

// Component ids seeded for every role.
const (
	ComponentDashboard    = "dashboard"
	ComponentEmployees    = "employees"
	ComponentAttendance   = "attendance"
	ComponentLeave        = "leave"
	ComponentSalary       = "salary"
	ComponentEFiling      = "efiling"
	ComponentRemuneration = "remuneration"
	ComponentAdmin        = "admin"
)
