package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/SreeGowri/webutils/internal/model"
	"github.com/SreeGowri/webutils/internal/service/action"
	"github.com/SreeGowri/webutils/internal/service/crud"
	"github.com/SreeGowri/webutils/internal/service/extension"
	"github.com/SreeGowri/webutils/internal/service/lov"
	"github.com/SreeGowri/webutils/internal/service/user"
	"github.com/SreeGowri/webutils/internal/telemetry"
	"github.com/SreeGowri/webutils/pkg/logger"
	"github.com/SreeGowri/webutils/pkg/types"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// binding ties one action descriptor to its bound operation. The table of
// bindings is the explicit, startup-time replacement for annotation scanning:
// what gets registered is exactly what is listed, nothing is discovered at
// runtime.
type binding struct {
	descriptor *action.Descriptor
	handler    func(*action.Descriptor) gin.HandlerFunc
}

// dispatch wraps a bound operation with the per-request pipeline:
// authorization first, then payload binding and validation, then the
// operation itself. A denied or invalid call never reaches the operation and
// produces no side effects. Unexpected failures are logged in full but
// surfaced to the caller only as an opaque generic code.
func dispatch[Req any](s *Server, d *action.Descriptor, fn func(c *gin.Context, caller *model.User, req *Req) (any, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		caller := callerFrom(c)

		var roles []types.UserRole
		if caller != nil {
			roles = caller.RoleSet()
		}
		if err := action.Authorize(d, roles); err != nil {
			s.metrics.RecordActionInvocation(ctx, d.Name, telemetry.OutcomeUnauthorized)
			c.JSON(http.StatusUnauthorized, types.BaseResponse{
				Code:    types.ResponseCodeAuthenticationError,
				Message: "caller is not authorized for action " + d.Name,
			})
			return
		}

		var req Req
		if d.BodyExpected {
			if err := c.ShouldBindJSON(&req); err != nil {
				s.metrics.RecordActionInvocation(ctx, d.Name, telemetry.OutcomeValidation)
				c.JSON(http.StatusBadRequest, types.BaseResponse{
					Code:    types.ResponseCodeInvalidRequest,
					Message: "malformed request body",
				})
				return
			}
			if fieldErrors := s.validatePayload(&req); len(fieldErrors) > 0 {
				s.metrics.RecordActionInvocation(ctx, d.Name, telemetry.OutcomeValidation)
				c.JSON(http.StatusBadRequest, types.ValidationResponse{
					BaseResponse: types.BaseResponse{
						Code:    types.ResponseCodeInvalidRequest,
						Message: "request validation failed",
					},
					FieldErrors: fieldErrors,
				})
				return
			}
		}

		result, err := fn(c, caller, &req)
		if err != nil {
			s.respondError(c, d, err)
			return
		}
		s.metrics.RecordActionInvocation(ctx, d.Name, telemetry.OutcomeSuccess)
		c.JSON(http.StatusOK, result)
	}
}

// validatePayload runs the structural field validation and flattens the
// outcome into wire-level field errors.
func (s *Server) validatePayload(payload any) []types.FieldError {
	err := s.validate.Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []types.FieldError{{Field: "", Message: err.Error()}}
	}
	out := make([]types.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, types.FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: "failed on rule: " + fe.Tag(),
		})
	}
	return out
}

// respondError maps service failures onto the response-code taxonomy.
// Reference errors become not-found, state conflicts become conflict, bad
// credentials become authentication errors, and everything else is an opaque
// internal error.
func (s *Server) respondError(c *gin.Context, d *action.Descriptor, err error) {
	ctx := c.Request.Context()
	switch {
	case errors.Is(err, crud.ErrNotFound),
		errors.Is(err, extension.ErrExtensionNotFound),
		errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, lov.ErrUnknownLovType),
		errors.Is(err, lov.ErrUnknownLovName):
		s.metrics.RecordActionInvocation(ctx, d.Name, telemetry.OutcomeNotFound)
		c.JSON(http.StatusNotFound, types.BaseResponse{
			Code:    types.ResponseCodeNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, extension.ErrDuplicateExtension),
		errors.Is(err, extension.ErrConcurrentModification),
		errors.Is(err, crud.ErrStaleVersion),
		errors.Is(err, user.ErrDuplicateUsername):
		s.metrics.RecordActionInvocation(ctx, d.Name, telemetry.OutcomeConflict)
		c.JSON(http.StatusConflict, types.BaseResponse{
			Code:    types.ResponseCodeConflict,
			Message: err.Error(),
		})
	case errors.Is(err, user.ErrInvalidCredentials):
		s.metrics.RecordActionInvocation(ctx, d.Name, telemetry.OutcomeUnauthorized)
		c.JSON(http.StatusUnauthorized, types.BaseResponse{
			Code:    types.ResponseCodeAuthenticationError,
			Message: "invalid credentials",
		})
	case errors.Is(err, types.ErrInvalidParameter):
		s.metrics.RecordActionInvocation(ctx, d.Name, telemetry.OutcomeValidation)
		c.JSON(http.StatusBadRequest, types.BaseResponse{
			Code:    types.ResponseCodeInvalidRequest,
			Message: err.Error(),
		})
	default:
		s.log.Error("action failed",
			logger.Field{Key: "action", Value: d.Name},
			logger.Field{Key: "error", Value: err.Error()},
		)
		s.metrics.RecordActionInvocation(ctx, d.Name, telemetry.OutcomeError)
		c.JSON(http.StatusInternalServerError, types.BaseResponse{
			Code:    types.ResponseCodeUnhandledError,
			Message: "internal server error",
		})
	}
}

// actor returns the audit identity of the caller, 0 for anonymous requests.
func actor(caller *model.User) uint {
	if caller == nil {
		return 0
	}
	return caller.ID
}
