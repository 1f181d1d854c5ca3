package types

// UserRole represents a security role held by an authenticated user.
// Actions may require one or more roles; a caller holding any one of the
// declared roles is allowed through.
type UserRole string

const (
	UserRoleAdmin       UserRole = "admin"
	UserRoleClientAdmin UserRole = "client_admin"
	UserRoleUser        UserRole = "user"
)

// User represents an authenticated, human user of the service.
type User struct {
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	Roles       []UserRole `json:"roles"`
}

// CreateUserRequest is the payload for registering a new user.
type CreateUserRequest struct {
	Username    string     `json:"username" validate:"required"`
	Password    string     `json:"password" validate:"required,min=8"`
	DisplayName string     `json:"display_name" validate:"required"`
	Roles       []UserRole `json:"roles,omitempty"`
}

// CreateUserResponse echoes the created user along with their access token.
type CreateUserResponse struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AccessToken string `json:"access_token"`
}

// LoginRequest exchanges credentials for an access token.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the access token to be sent in the
// `Authorization: Bearer {token}` header on subsequent requests.
type LoginResponse struct {
	BaseResponse
	AccessToken string `json:"access_token"`
}

// UserConfig describes the JSON configuration for declaring a user in the
// auto-synced config directory.
type UserConfig struct {
	Username    string     `json:"username"`
	Password    string     `json:"password"`
	DisplayName string     `json:"display_name"`
	Roles       []UserRole `json:"roles,omitempty"`
}
