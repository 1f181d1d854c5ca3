package model

import (
	"encoding/json"

	"github.com/SreeGowri/webutils/pkg/types"
	"gorm.io/datatypes"
)

// User is an authentication-bearing tracked entity.
//
// Username is a pointer so that soft-deleting a user can clear it to NULL,
// freeing the (space, username) uniqueness slot for re-registration. Password
// holds only the bcrypt hash; the plain text is never persisted or compared
// directly. BaseEntityType/BaseEntityID reference the business entity this
// user authenticates for and are immutable after creation.
type User struct {
	Tracked

	Username      *string `gorm:"type:varchar(50);index:idx_users_space_uname,unique" json:"username,omitempty"`
	Password      string  `gorm:"type:varchar(500);not null" json:"-"`
	DisplayName   string  `gorm:"type:varchar(500);not null" json:"display_name"`
	SpaceIdentity string  `gorm:"type:varchar(200);not null;default:'';index:idx_users_space_uname,unique" json:"space_identity"`

	BaseEntityType string `gorm:"type:varchar(200)" json:"base_entity_type,omitempty"`
	BaseEntityID   *uint  `json:"base_entity_id,omitempty"`

	Roles datatypes.JSON `json:"roles"`

	// AccessToken is nullable so revoking it on soft delete does not collide
	// with the unique index.
	AccessToken *string `gorm:"type:varchar(100);uniqueIndex" json:"-"`

	// Deleted implements soft delete; rows are never physically removed
	// through the user service.
	Deleted bool `gorm:"not null;default:false" json:"deleted"`
}

// RoleSet decodes the stored roles. A user with no roles gets an empty set.
func (u *User) RoleSet() []types.UserRole {
	if len(u.Roles) == 0 {
		return nil
	}
	var roles []types.UserRole
	if err := json.Unmarshal(u.Roles, &roles); err != nil {
		return nil
	}
	return roles
}
