package api

import (
	"github.com/SreeGowri/webutils/internal/model"
	"github.com/SreeGowri/webutils/internal/service/action"
	"github.com/SreeGowri/webutils/pkg/types"
	"github.com/gin-gonic/gin"
)

// loginHandler exchanges a username/password pair for the user's access token.
func (s *Server) loginHandler(d *action.Descriptor) gin.HandlerFunc {
	return dispatch(s, d, func(c *gin.Context, caller *model.User, req *types.LoginRequest) (any, error) {
		u, err := s.userService.Authenticate(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			return nil, err
		}
		resp := types.LoginResponse{
			BaseResponse: types.NewSuccessResponse("authenticated"),
		}
		if u.AccessToken != nil {
			resp.AccessToken = *u.AccessToken
		}
		return resp, nil
	})
}

// testHandler echoes the validated payload name. It backs the open test.test
// action as well as the role-gated secured variants; the authorization
// difference lives entirely in the descriptors.
func (s *Server) testHandler(d *action.Descriptor) gin.HandlerFunc {
	return dispatch(s, d, func(c *gin.Context, caller *model.User, req *types.TestModel) (any, error) {
		return types.NewSuccessResponse("Success - " + req.Name), nil
	})
}
