// Package extension persists arbitrary named attributes against an owner
// entity instance without altering the owner's schema.
package extension

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SreeGowri/webutils/internal/model"
	"github.com/SreeGowri/webutils/internal/service/crud"
	"github.com/SreeGowri/webutils/pkg/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateExtension is returned when an extension record already
	// exists for the (target entity, owner entity type, owner id) triple.
	ErrDuplicateExtension = errors.New("extension already exists for owner")

	// ErrConcurrentModification is returned when an update presents a stale
	// version. The stored record is left unchanged; the caller must re-read
	// the current version before retrying.
	ErrConcurrentModification = errors.New("extension was modified concurrently")

	// ErrExtensionNotFound is returned when the referenced extension record
	// does not exist.
	ErrExtensionNotFound = errors.New("extension not found")
)

// Service is the extension attribute store.
type Service struct {
	db   *gorm.DB
	crud *crud.Service[model.Extension, *model.Extension]
	log  logger.Logger
}

func NewService(db *gorm.DB, log logger.Logger) *Service {
	return &Service{
		db:   db,
		crud: crud.NewService[model.Extension, *model.Extension](db, log),
		log:  log,
	}
}

// Create stores a new extension record for the owner triple and returns its
// identity. The acting user is recorded as creator and first updater.
func (s *Service) Create(ctx context.Context, targetEntity, ownerEntityType string, ownerID uint, name string, attributes map[string]any, actor uint) (uint, error) {
	existing, err := s.FindByOwner(ctx, targetEntity, ownerEntityType, ownerID)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, fmt.Errorf("%w: %s/%s/%d", ErrDuplicateExtension, targetEntity, ownerEntityType, ownerID)
	}

	attrJSON, err := marshalAttributes(attributes)
	if err != nil {
		return 0, err
	}
	ext := &model.Extension{
		TargetEntity:    targetEntity,
		OwnerEntityType: ownerEntityType,
		OwnerID:         ownerID,
		Name:            name,
		Attributes:      attrJSON,
	}
	id, err := s.crud.Save(ctx, ext, actor)
	if err != nil {
		return 0, fmt.Errorf("failed to create extension: %w", err)
	}
	return id, nil
}

// Update replaces the attributes of an existing extension record and returns
// the new version. The update is rejected when expectedVersion does not match
// the stored version.
func (s *Service) Update(ctx context.Context, id uint, attributes map[string]any, expectedVersion int, actor uint) (int, error) {
	ext, err := s.crud.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, crud.ErrNotFound) {
			return 0, fmt.Errorf("%w: id %d", ErrExtensionNotFound, id)
		}
		return 0, err
	}
	if ext.Version != expectedVersion {
		return 0, fmt.Errorf("%w: id %d, stored version %d, presented %d",
			ErrConcurrentModification, id, ext.Version, expectedVersion)
	}

	attrJSON, err := marshalAttributes(attributes)
	if err != nil {
		return 0, err
	}
	ext.Attributes = attrJSON
	if _, err := s.crud.Save(ctx, ext, actor); err != nil {
		if errors.Is(err, crud.ErrStaleVersion) {
			return 0, fmt.Errorf("%w: id %d", ErrConcurrentModification, id)
		}
		if errors.Is(err, crud.ErrNotFound) {
			return 0, fmt.Errorf("%w: id %d", ErrExtensionNotFound, id)
		}
		return 0, err
	}
	return ext.Version, nil
}

// FindByID loads an extension record by identity.
func (s *Service) FindByID(ctx context.Context, id uint) (*model.Extension, error) {
	ext, err := s.crud.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, crud.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrExtensionNotFound, id)
		}
		return nil, err
	}
	return ext, nil
}

// FindByOwner returns the extension record for the owner triple, or nil when
// none exists.
func (s *Service) FindByOwner(ctx context.Context, targetEntity, ownerEntityType string, ownerID uint) (*model.Extension, error) {
	var ext model.Extension
	err := s.db.WithContext(ctx).
		Where("target_entity = ? AND owner_entity_type = ? AND owner_id = ?", targetEntity, ownerEntityType, ownerID).
		First(&ext).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch extension for %s/%s/%d: %w", targetEntity, ownerEntityType, ownerID, err)
	}
	return &ext, nil
}

// Attributes decodes the stored attribute document of a record.
func Attributes(ext *model.Extension) (map[string]any, error) {
	if len(ext.Attributes) == 0 {
		return nil, nil
	}
	var out map[string]any
	if err := json.Unmarshal(ext.Attributes, &out); err != nil {
		return nil, fmt.Errorf("failed to decode extension attributes: %w", err)
	}
	return out, nil
}

func marshalAttributes(attributes map[string]any) (datatypes.JSON, error) {
	if attributes == nil {
		attributes = map[string]any{}
	}
	b, err := json.Marshal(attributes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode extension attributes: %w", err)
	}
	return datatypes.JSON(b), nil
}
