package rbac

// componentNames and featureNames give the seeded entries human labels.
var componentNames = map[string]string{
	ComponentDashboard:    "Dashboard",
	ComponentEmployees:    "Employees",
	ComponentAttendance:   "Attendance",
	ComponentLeave:        "Leave",
	ComponentSalary:       "Salary",
	ComponentEFiling:      "E-Filing",
	ComponentRemuneration: "Remuneration",
	ComponentAdmin:        "Admin Panel",
}

var featureNames = map[string]string{
	FeatureLeaveApprove:   "Approve Leave",
	FeatureLeaveApply:     "Apply for Leave",
	FeatureAttendanceMark: "Mark Attendance",
	FeatureSalaryViewAll:  "View All Salaries",
	FeatureSalaryViewOwn:  "View Own Salary",
}

func components(granted ...string) []ComponentAccess {
	set := make(map[string]struct{}, len(granted))
	for _, id := range granted {
		set[id] = struct{}{}
	}
	out := make([]ComponentAccess, 0, len(componentNames))
	for _, id := range []string{
		ComponentDashboard, ComponentEmployees, ComponentAttendance, ComponentLeave,
		ComponentSalary, ComponentEFiling, ComponentRemuneration, ComponentAdmin,
	} {
		_, has := set[id]
		out = append(out, ComponentAccess{ComponentID: id, ComponentName: componentNames[id], HasAccess: has})
	}
	return out
}

func features(granted ...string) []FeatureAccess {
	set := make(map[string]struct{}, len(granted))
	for _, id := range granted {
		set[id] = struct{}{}
	}
	out := make([]FeatureAccess, 0, len(featureNames))
	for _, id := range []string{
		FeatureLeaveApprove, FeatureLeaveApply, FeatureAttendanceMark,
		FeatureSalaryViewAll, FeatureSalaryViewOwn,
	} {
		_, has := set[id]
		out = append(out, FeatureAccess{FeatureID: id, FeatureName: featureNames[id], HasAccess: has})
	}
	return out
}

// DefaultRolePermissions are the permission documents seeded for the system
// roles on first boot. Admins can tune them afterwards; the seeder never
// overwrites an existing row.
func DefaultRolePermissions() []RolePermission {
	all := []string{
		ComponentDashboard, ComponentEmployees, ComponentAttendance, ComponentLeave,
		ComponentSalary, ComponentEFiling, ComponentRemuneration, ComponentAdmin,
	}

	return []RolePermission{
		{
			RoleID:          RoleAdmin,
			DisplayName:     "Administrator",
			HierarchyLevel:  1,
			Description:     "Full access to every component and feature.",
			ComponentAccess: components(all...),
			FeatureAccess:   features(FeatureLeaveApprove, FeatureLeaveApply, FeatureAttendanceMark, FeatureSalaryViewAll, FeatureSalaryViewOwn),
			IsActive:        true,
			IsSystemRole:    true,
		},
		{
			RoleID:          RoleCEO,
			DisplayName:     "Chief Executive Officer",
			HierarchyLevel:  2,
			Description:     "Full access, mirrors the administrator.",
			ComponentAccess: components(all...),
			FeatureAccess:   features(FeatureLeaveApprove, FeatureLeaveApply, FeatureAttendanceMark, FeatureSalaryViewAll, FeatureSalaryViewOwn),
			IsActive:        true,
			IsSystemRole:    true,
		},
		{
			RoleID:          RoleIncubationManager,
			DisplayName:     "Incubation Manager",
			HierarchyLevel:  3,
			Description:     "Runs day-to-day operations and approves leave.",
			ComponentAccess: components(ComponentDashboard, ComponentEmployees, ComponentAttendance, ComponentLeave, ComponentEFiling, ComponentRemuneration),
			FeatureAccess:   features(FeatureLeaveApprove, FeatureLeaveApply, FeatureAttendanceMark, FeatureSalaryViewOwn),
			IsActive:        true,
			IsSystemRole:    true,
		},
		{
			RoleID:          RoleAccountant,
			DisplayName:     "Accountant",
			HierarchyLevel:  4,
			Description:     "Prepares payroll and views every salary.",
			ComponentAccess: components(ComponentDashboard, ComponentAttendance, ComponentLeave, ComponentSalary, ComponentEFiling, ComponentRemuneration),
			FeatureAccess:   features(FeatureLeaveApply, FeatureAttendanceMark, FeatureSalaryViewAll, FeatureSalaryViewOwn),
			IsActive:        true,
			IsSystemRole:    true,
		},
		{
			RoleID:          RoleOfficerInCharge,
			DisplayName:     "Officer In Charge",
			HierarchyLevel:  5,
			Description:     "Oversight role, outside payroll.",
			ComponentAccess: components(ComponentDashboard, ComponentAttendance, ComponentLeave, ComponentEFiling),
			FeatureAccess:   features(FeatureLeaveApprove, FeatureLeaveApply, FeatureAttendanceMark),
			IsActive:        true,
			IsSystemRole:    true,
		},
		{
			RoleID:          RoleFacultyInCharge,
			DisplayName:     "Faculty In Charge",
			HierarchyLevel:  5,
			Description:     "Oversight role, outside payroll.",
			ComponentAccess: components(ComponentDashboard, ComponentAttendance, ComponentLeave, ComponentEFiling),
			FeatureAccess:   features(FeatureLeaveApprove, FeatureLeaveApply, FeatureAttendanceMark),
			IsActive:        true,
			IsSystemRole:    true,
		},
		{
			RoleID:          RoleEmployee,
			DisplayName:     "Employee",
			HierarchyLevel:  10,
			Description:     "Standard staff access.",
			ComponentAccess: components(ComponentDashboard, ComponentAttendance, ComponentLeave, ComponentEFiling),
			FeatureAccess:   features(FeatureLeaveApply, FeatureAttendanceMark, FeatureSalaryViewOwn),
			IsActive:        true,
			IsSystemRole:    true,
		},
	}
}
