package action

import (
	"errors"
	"fmt"
	"slices"

	"github.com/SreeGowri/webutils/pkg/types"
)

// ErrUnauthorized is returned when the caller's roles do not satisfy an
// action's declared requirements. It is surfaced to clients with the
// dedicated authentication-error response code, never the generic one.
var ErrUnauthorized = errors.New("caller is not authorized for action")

// Authorize checks the caller's role set against the action's declared roles.
// An action declaring no roles is open to every caller. An action declaring
// one or more roles admits a caller holding any one of them.
//
// Authorize is pure and must run strictly before the bound operation; a denied
// call produces no side effects.
func Authorize(d *Descriptor, callerRoles []types.UserRole) error {
	if len(d.RequiredRoles) == 0 {
		return nil
	}
	for _, r := range callerRoles {
		if slices.Contains(d.RequiredRoles, r) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnauthorized, d.Name)
}
