package api

import (
	"github.com/SreeGowri/webutils/internal/model"
	"github.com/SreeGowri/webutils/internal/service/action"
	"github.com/SreeGowri/webutils/pkg/types"
	"github.com/gin-gonic/gin"
)

func (s *Server) saveUserHandler(d *action.Descriptor) gin.HandlerFunc {
	return dispatch(s, d, func(c *gin.Context, caller *model.User, req *types.CreateUserRequest) (any, error) {
		u, err := s.userService.Create(c.Request.Context(), req, "", nil, actor(caller))
		if err != nil {
			return nil, err
		}
		resp := types.CreateUserResponse{DisplayName: u.DisplayName}
		if u.Username != nil {
			resp.Username = *u.Username
		}
		if u.AccessToken != nil {
			resp.AccessToken = *u.AccessToken
		}
		return resp, nil
	})
}

// deleteUserHandler soft-deletes the user: the row stays for audit history but
// its username and token slots are released.
func (s *Server) deleteUserHandler(d *action.Descriptor) gin.HandlerFunc {
	return dispatch(s, d, func(c *gin.Context, caller *model.User, _ *struct{}) (any, error) {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return nil, err
		}
		if err := s.userService.SoftDelete(c.Request.Context(), id, actor(caller)); err != nil {
			return nil, err
		}
		return types.NewSuccessResponse("user deleted"), nil
	})
}
