package types

// SaveExtensionRequest creates a new extension record holding custom attributes
// for an owner entity instance, without touching the owner's own schema.
type SaveExtensionRequest struct {
	TargetEntity    string         `json:"target_entity" validate:"required"`
	OwnerEntityType string         `json:"owner_entity_type" validate:"required"`
	OwnerID         uint           `json:"owner_id" validate:"required,gt=0"`
	Name            string         `json:"name,omitempty"`
	Attributes      map[string]any `json:"attributes"`
}

// UpdateExtensionRequest replaces the attributes of an existing extension record.
// Version must match the currently stored version or the update is rejected.
type UpdateExtensionRequest struct {
	Attributes map[string]any `json:"attributes"`
	Version    int            `json:"version" validate:"required,gt=0"`
}

// FetchExtensionQuery identifies the owner triple whose extension record is
// requested. It is sent as query parameters, not as a body.
type FetchExtensionQuery struct {
	TargetEntity    string `json:"-" schema:"target_entity"`
	OwnerEntityType string `json:"-" schema:"owner_entity_type"`
	OwnerID         uint   `json:"-" schema:"owner_id"`
}

// ExtensionResponse is returned by the extension read and mutation endpoints.
type ExtensionResponse struct {
	BaseResponse
	ID         uint           `json:"id,omitempty"`
	Name       string         `json:"name,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
	Version    int            `json:"version,omitempty"`
}
