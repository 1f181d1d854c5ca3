package api

import (
	"fmt"
	"strconv"

	"github.com/SreeGowri/webutils/internal/model"
	"github.com/SreeGowri/webutils/internal/service/action"
	"github.com/SreeGowri/webutils/pkg/types"
	"github.com/gin-gonic/gin"
)

// parseIDParam reads a positive numeric identity from a url parameter.
func parseIDParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", types.ErrInvalidParameter, name, raw)
	}
	return uint(id), nil
}

func (s *Server) saveEmployeeHandler(d *action.Descriptor) gin.HandlerFunc {
	return dispatch(s, d, func(c *gin.Context, caller *model.User, req *types.EmployeeModel) (any, error) {
		emp := &model.Employee{Name: req.Name, Salary: req.Salary}
		id, err := s.employeeService.Save(c.Request.Context(), emp, actor(caller))
		if err != nil {
			return nil, err
		}
		return types.BasicSaveResponse{
			BaseResponse: types.NewSuccessResponse("employee saved"),
			ID:           id,
		}, nil
	})
}

func (s *Server) fetchEmployeeHandler(d *action.Descriptor) gin.HandlerFunc {
	return dispatch(s, d, func(c *gin.Context, caller *model.User, _ *struct{}) (any, error) {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return nil, err
		}
		emp, err := s.employeeService.FindByID(c.Request.Context(), id)
		if err != nil {
			return nil, err
		}
		return types.EmployeeResponse{
			BaseResponse: types.NewSuccessResponse(""),
			ID:           emp.ID,
			Name:         emp.Name,
			Salary:       emp.Salary,
		}, nil
	})
}

// deleteAllEmployeesHandler removes every employee row. It exists for test
// and cleanup flows; the binding gates it behind the admin role.
func (s *Server) deleteAllEmployeesHandler(d *action.Descriptor) gin.HandlerFunc {
	return dispatch(s, d, func(c *gin.Context, caller *model.User, _ *struct{}) (any, error) {
		if err := s.employeeService.DeleteAll(c.Request.Context()); err != nil {
			return nil, err
		}
		return types.NewSuccessResponse("all employees deleted"), nil
	})
}

// uploadEmployeePhotoHandler accepts the "photo" attachment declared by the
// employee.uploadPhoto action and records its metadata as an extension of the
// employee row.
func (s *Server) uploadEmployeePhotoHandler(d *action.Descriptor) gin.HandlerFunc {
	return dispatch(s, d, func(c *gin.Context, caller *model.User, _ *struct{}) (any, error) {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return nil, err
		}
		if _, err := s.employeeService.FindByID(c.Request.Context(), id); err != nil {
			return nil, err
		}
		file, err := c.FormFile("photo")
		if err != nil {
			return nil, fmt.Errorf("%w: attachment part %q is missing", types.ErrInvalidParameter, "photo")
		}

		attrs := map[string]any{
			"photo_name": file.Filename,
			"photo_size": file.Size,
		}
		ctx := c.Request.Context()
		existing, err := s.extensionService.FindByOwner(ctx, "employeePhoto", "employee", id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			if _, err := s.extensionService.Create(ctx, "employeePhoto", "employee", id, file.Filename, attrs, actor(caller)); err != nil {
				return nil, err
			}
		} else {
			if _, err := s.extensionService.Update(ctx, existing.ID, attrs, existing.Version, actor(caller)); err != nil {
				return nil, err
			}
		}
		return types.NewSuccessResponse(fmt.Sprintf("received %s (%d bytes)", file.Filename, file.Size)), nil
	})
}
