package model

import "gorm.io/datatypes"

// Extension keeps track of the schema-less extensions of other entities.
// Custom attributes are stored as one opaque JSON document; this layer does not
// validate their schema.
//
// At most one extension record may exist per
// (target entity, owner entity type, owner id) triple.
type Extension struct {
	Tracked

	TargetEntity    string `gorm:"type:varchar(500);not null;index:idx_extension_owner,unique" json:"target_entity"`
	OwnerEntityType string `gorm:"type:varchar(500);not null;index:idx_extension_owner,unique" json:"owner_entity_type"`
	OwnerID         uint   `gorm:"not null;index:idx_extension_owner,unique" json:"owner_id"`

	// Name is an optional free-text label, not part of the uniqueness key.
	Name       string         `gorm:"type:varchar(255)" json:"name,omitempty"`
	Attributes datatypes.JSON `gorm:"column:custom_attr" json:"attributes"`
}
