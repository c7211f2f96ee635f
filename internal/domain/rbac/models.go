package rbac

import "time"

type ComponentAccess struct {
	ComponentID   string `json:"componentId"`
	ComponentName string `json:"componentName"`
	HasAccess     bool   `json:"hasAccess"`
}

type FeatureAccess struct {
	FeatureID   string `json:"featureId"`
	FeatureName string `json:"featureName"`
	HasAccess   bool   `json:"hasAccess"`
}

type RolePermission struct {
	RoleID          string            `json:"roleId"`
	DisplayName     string            `json:"displayName"`
	HierarchyLevel  int               `json:"hierarchyLevel"`
	Description     string            `json:"description"`
	ComponentAccess []ComponentAccess `json:"componentAccess"`
	FeatureAccess   []FeatureAccess   `json:"featureAccess"`
	IsActive        bool              `json:"isActive"`
	IsSystemRole    bool              `json:"isSystemRole"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// HasFeature reports whether the flag list grants the feature id.
func (r RolePermission) HasFeature(featureID string) bool {
	for _, f := range r.FeatureAccess {
		if f.FeatureID == featureID {
			return f.HasAccess
		}
	}
	return false
}

// HasComponent reports whether the flag list grants the component id.
func (r RolePermission) HasComponent(componentID string) bool {
	for _, c := range r.ComponentAccess {
		if c.ComponentID == componentID {
			return c.HasAccess
		}
	}
	return false
}
