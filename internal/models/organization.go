package models

import (
	"time"

	"gorm.io/gorm"
)

// Organization is an external org a user can hold a role in. Posts may carry a
// contextual title resolved from the author's role at creation/edit time.
type Organization struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// OrgMembership links a user to an organization with a role label.
// The combination of UserID and OrganizationID is unique.
type OrgMembership struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	UserID         uint         `gorm:"not null;uniqueIndex:idx_org_member" json:"user_id"`
	OrganizationID uint         `gorm:"not null;uniqueIndex:idx_org_member" json:"organization_id"`
	Role           string       `gorm:"not null" json:"role"`
	Organization   Organization `gorm:"foreignKey:OrganizationID" json:"organization"`
	CreatedAt      time.Time    `json:"created_at"`
}
