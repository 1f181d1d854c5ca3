// Package crud provides a reusable create/update/delete/find service over any
// tracked gorm model. It owns the audit bookkeeping and the optimistic-version
// check consumed by the services built on top of it.
package crud

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SreeGowri/webutils/internal/model"
	"github.com/SreeGowri/webutils/pkg/logger"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrStaleVersion is returned when a write presents a version that no
	// longer matches the stored row. The caller must re-read and retry;
	// the stored record is left unchanged.
	ErrStaleVersion = errors.New("record was modified concurrently")
)

// TrackedEntity is implemented by every model embedding model.Tracked.
type TrackedEntity interface {
	Audit() *model.Tracked
}

// Service is a generic CRUD service over one entity type and its backing table.
type Service[E any, PE interface {
	*E
	TrackedEntity
}] struct {
	db  *gorm.DB
	log logger.Logger
}

func NewService[E any, PE interface {
	*E
	TrackedEntity
}](db *gorm.DB, log logger.Logger) *Service[E, PE] {
	return &Service[E, PE]{db: db, log: log}
}

// Save persists the entity. On first save it assigns the identity and the
// creation audit fields. On subsequent saves it bumps the version and rewrites
// the update audit fields; the write is guarded by the version the entity was
// loaded with, so a concurrent mutation surfaces as ErrStaleVersion.
func (s *Service[E, PE]) Save(ctx context.Context, entity PE, actor uint) (uint, error) {
	a := entity.Audit()
	now := time.Now().UTC()

	if a.ID == 0 {
		a.StampCreate(actor, now)
		if err := s.db.WithContext(ctx).Create(entity).Error; err != nil {
			return 0, fmt.Errorf("failed to create record: %w", err)
		}
		return a.ID, nil
	}

	expected := a.Version
	a.StampUpdate(actor, now)
	res := s.db.WithContext(ctx).
		Model(entity).
		Select("*").
		Omit("id", "created_by_id", "created_on").
		Where("version = ?", expected).
		Updates(entity)
	if res.Error != nil {
		a.Version = expected
		return 0, fmt.Errorf("failed to update record %d: %w", a.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		a.Version = expected
		var probe E
		err := s.db.WithContext(ctx).First(&probe, a.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: id %d", ErrNotFound, a.ID)
		}
		return 0, fmt.Errorf("%w: id %d, version %d", ErrStaleVersion, a.ID, expected)
	}
	return a.ID, nil
}

// FindByID loads the record with the given identity.
func (s *Service[E, PE]) FindByID(ctx context.Context, id uint) (PE, error) {
	var e E
	if err := s.db.WithContext(ctx).First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to fetch record %d: %w", id, err)
	}
	return PE(&e), nil
}

// FindAll loads every record in persistence-layer order.
func (s *Service[E, PE]) FindAll(ctx context.Context) ([]E, error) {
	var out []E
	if err := s.db.WithContext(ctx).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return out, nil
}

// DeleteByID physically removes the record with the given identity.
// Entities that favor soft delete (users) go through their own service instead.
func (s *Service[E, PE]) DeleteByID(ctx context.Context, id uint) error {
	var e E
	res := s.db.WithContext(ctx).Delete(&e, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete record %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return nil
}

// DeleteAll removes every record unconditionally. Intended for test and
// cleanup flows only; its action binding must declare an explicit role.
func (s *Service[E, PE]) DeleteAll(ctx context.Context) error {
	var e E
	err := s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&e).Error
	if err != nil {
		return fmt.Errorf("failed to delete all records: %w", err)
	}
	return nil
}
