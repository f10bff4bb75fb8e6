package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Wildcard is the permission that grants every permission, including
// cross-tenant access. A role holding it is a super admin.
const Wildcard = "*"

// PermissionSet is an ordered set of permission strings stored as jsonb.
// Membership is exact-string only; the wildcard is the single exception
// and is checked explicitly, never by prefix matching.
type PermissionSet []string

// Has reports whether the set contains the exact permission or the wildcard.
func (ps PermissionSet) Has(permission string) bool {
	for _, p := range ps {
		if p == Wildcard || p == permission {
			return true
		}
	}
	return false
}

// HasWildcard reports whether the set grants everything.
func (ps PermissionSet) HasWildcard() bool {
	for _, p := range ps {
		if p == Wildcard {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer, serializing the set to jsonb.
func (ps PermissionSet) Value() (driver.Value, error) {
	if ps == nil {
		ps = PermissionSet{}
	}
	return json.Marshal(ps)
}

// Scan implements sql.Scanner, deserializing the set from jsonb.
func (ps *PermissionSet) Scan(value interface{}) error {
	if value == nil {
		*ps = PermissionSet{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for PermissionSet: %T", value)
	}
	return json.Unmarshal(data, ps)
}

// Role represents a named permission set owned by one organization.
// The distinguished super admin role lives in the sentinel system
// organization and carries the wildcard permission.
type Role struct {
	BaseModel
	OrganizationID uuid.UUID     `json:"organization_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_roles_org_name"`
	Name           string        `json:"name" gorm:"not null;size:100;uniqueIndex:idx_roles_org_name" validate:"required,min=1,max=100"`
	Description    string        `json:"description" gorm:"type:text"`
	Permissions    PermissionSet `json:"permissions" gorm:"type:jsonb;not null"`
	IsDefault      bool          `json:"is_default" gorm:"not null;default:false"`

	// Relationships
	Organization *Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
	Users        []User        `json:"users,omitempty" gorm:"foreignKey:RoleID"`
}

// TableName returns the table name for Role
func (Role) TableName() string {
	return "roles"
}

// IsSuperAdmin reports whether the role grants cross-tenant access.
func (r *Role) IsSuperAdmin() bool {
	return r.Permissions.HasWildcard()
}
