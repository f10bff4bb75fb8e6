package models

// OrganizationTypeSystem marks the sentinel organization that owns the
// super admin role. It is created once by the seed script and never
// listed alongside regular communities.
const OrganizationTypeSystem = "System"

// Organization represents the root entity for multi-tenancy. Every scoped
// entity carries an OrganizationID foreign key pointing here.
type Organization struct {
	BaseModel
	Name       string `json:"name" gorm:"uniqueIndex;not null;size:100" validate:"required,min=1,max=100"`
	Type       string `json:"type" gorm:"not null;size:50" validate:"required,max=50"`
	Description string `json:"description" gorm:"type:text"`
	ThemeColor string `json:"theme_color" gorm:"size:20"`
	Place      string `json:"place" gorm:"size:200"`

	// Relationships
	Roles []Role `json:"roles,omitempty" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
	Users []User `json:"users,omitempty" gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Organization
func (Organization) TableName() string {
	return "organizations"
}

// IsSystem reports whether this is the sentinel system organization.
func (o *Organization) IsSystem() bool {
	return o.Type == OrganizationTypeSystem
}
