package model

import "time"

// Tracked is the embeddable base for audit-bearing entities. It carries the
// server-assigned identity, an optimistic version counter and the
// creator/updater audit fields.
//
// CreatedBy/CreatedOn are written once, at first save, and never mutated
// afterwards. UpdatedBy/UpdatedOn are rewritten and Version incremented on
// every successful mutation.
type Tracked struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Version   int       `gorm:"not null;default:1" json:"version"`
	CreatedBy uint      `gorm:"column:created_by_id" json:"created_by"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedBy uint      `gorm:"column:updated_by_id" json:"updated_by"`
	UpdatedOn time.Time `json:"updated_on"`
}

// Audit exposes the tracked fields to the generic CRUD service.
func (t *Tracked) Audit() *Tracked {
	return t
}

// StampCreate fills the audit fields for a first save.
func (t *Tracked) StampCreate(actor uint, now time.Time) {
	t.Version = 1
	t.CreatedBy = actor
	t.CreatedOn = now
	t.UpdatedBy = actor
	t.UpdatedOn = now
}

// StampUpdate fills the audit fields for a mutation and bumps the version.
func (t *Tracked) StampUpdate(actor uint, now time.Time) {
	t.Version++
	t.UpdatedBy = actor
	t.UpdatedOn = now
}
