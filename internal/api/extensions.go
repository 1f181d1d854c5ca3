package api

import (
	"fmt"

	"github.com/SreeGowri/webutils/internal/model"
	"github.com/SreeGowri/webutils/internal/service/action"
	"github.com/SreeGowri/webutils/internal/service/extension"
	"github.com/SreeGowri/webutils/pkg/types"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/schema"
)

// queryDecoder maps declared request parameters onto query structs.
var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

func (s *Server) saveExtensionHandler(d *action.Descriptor) gin.HandlerFunc {
	return dispatch(s, d, func(c *gin.Context, caller *model.User, req *types.SaveExtensionRequest) (any, error) {
		id, err := s.extensionService.Create(c.Request.Context(),
			req.TargetEntity, req.OwnerEntityType, req.OwnerID, req.Name, req.Attributes, actor(caller))
		if err != nil {
			return nil, err
		}
		return types.ExtensionResponse{
			BaseResponse: types.NewSuccessResponse("extension saved"),
			ID:           id,
			Name:         req.Name,
			Attributes:   req.Attributes,
			Version:      1,
		}, nil
	})
}

func (s *Server) updateExtensionHandler(d *action.Descriptor) gin.HandlerFunc {
	return dispatch(s, d, func(c *gin.Context, caller *model.User, req *types.UpdateExtensionRequest) (any, error) {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return nil, err
		}
		version, err := s.extensionService.Update(c.Request.Context(), id, req.Attributes, req.Version, actor(caller))
		if err != nil {
			return nil, err
		}
		return types.ExtensionResponse{
			BaseResponse: types.NewSuccessResponse("extension updated"),
			ID:           id,
			Attributes:   req.Attributes,
			Version:      version,
		}, nil
	})
}

// fetchExtensionHandler resolves the extension record for an owner triple
// identified by query parameters. A missing record is a not-found error, not
// an empty success.
func (s *Server) fetchExtensionHandler(d *action.Descriptor) gin.HandlerFunc {
	return dispatch(s, d, func(c *gin.Context, caller *model.User, _ *struct{}) (any, error) {
		var q types.FetchExtensionQuery
		if err := queryDecoder.Decode(&q, c.Request.URL.Query()); err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrInvalidParameter, err)
		}
		if q.TargetEntity == "" || q.OwnerEntityType == "" || q.OwnerID == 0 {
			return nil, fmt.Errorf("%w: target_entity, owner_entity_type and owner_id are required", types.ErrInvalidParameter)
		}

		ext, err := s.extensionService.FindByOwner(c.Request.Context(), q.TargetEntity, q.OwnerEntityType, q.OwnerID)
		if err != nil {
			return nil, err
		}
		if ext == nil {
			return nil, fmt.Errorf("%w: %s/%s/%d", extension.ErrExtensionNotFound, q.TargetEntity, q.OwnerEntityType, q.OwnerID)
		}
		attrs, err := extension.Attributes(ext)
		if err != nil {
			return nil, err
		}
		return types.ExtensionResponse{
			BaseResponse: types.NewSuccessResponse(""),
			ID:           ext.ID,
			Name:         ext.Name,
			Attributes:   attrs,
			Version:      ext.Version,
		}, nil
	})
}
