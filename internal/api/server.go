// Package api exposes the action-dispatch HTTP surface: the action catalog,
// the bound operations, the LOV endpoints and the extension endpoints.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
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
	"gorm.io/gorm"
)

// APIPathPrefix is the prefix under which all actions are routed.
const APIPathPrefix = "/api"

// EmployeeLovName is the dynamic LOV source backed by the employee table.
const EmployeeLovName = "employeeLov"

// LovTypeName is the built-in static LOV enumerating the LovType members.
const LovTypeName = "LovType"

// ServerOptions bundles the collaborators the API server dispatches to.
type ServerOptions struct {
	Registry         *action.Registry
	LovService       *lov.Service
	ExtensionService *extension.Service
	UserService      *user.Service
	EmployeeService  *crud.Service[model.Employee, *model.Employee]
	Metrics          telemetry.CustomMetrics
	Logger           logger.Logger
}

// Server routes incoming requests to bound operations after running the
// authorization guard and pre-invocation validation.
type Server struct {
	registry         *action.Registry
	lovService       *lov.Service
	extensionService *extension.Service
	userService      *user.Service
	employeeService  *crud.Service[model.Employee, *model.Employee]
	metrics          telemetry.CustomMetrics
	log              logger.Logger

	validate *validator.Validate
	router   *gin.Engine
}

// NewServer builds the server, registers every action binding in the registry
// and wires the corresponding routes. A duplicate action name is a fatal
// configuration error surfaced here, before the server starts serving.
func NewServer(opts *ServerOptions) (*Server, error) {
	s := &Server{
		registry:         opts.Registry,
		lovService:       opts.LovService,
		extensionService: opts.ExtensionService,
		userService:      opts.UserService,
		employeeService:  opts.EmployeeService,
		metrics:          opts.Metrics,
		log:              opts.Logger,
		validate:         validator.New(),
	}
	if s.registry == nil {
		s.registry = action.NewRegistry()
	}
	if s.metrics == nil {
		s.metrics = telemetry.NewNoopCustomMetrics()
	}
	if s.log == nil {
		s.log = logger.NewNop()
	}

	router, err := s.setupRouter()
	if err != nil {
		return nil, err
	}
	s.router = router
	return s, nil
}

// Router returns the configured gin engine.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) setupRouter() (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.authMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if err := s.registerLovSources(); err != nil {
		return nil, err
	}
	for _, b := range s.bindings() {
		if err := s.registerAction(router, b); err != nil {
			return nil, err
		}
	}
	return router, nil
}

// registerAction adds the binding's descriptor to the registry and mounts its
// route. Registry rejection aborts boot.
func (s *Server) registerAction(router *gin.Engine, b binding) error {
	if err := s.registry.Register(b.descriptor); err != nil {
		return fmt.Errorf("failed to register action: %w", err)
	}
	router.Handle(string(b.descriptor.Method), ginPath(b.descriptor.URL), b.handler(b.descriptor))
	return nil
}

// ginPath converts a descriptor URL template ("/api/employee/fetch/{id}") to
// gin's parameter syntax ("/api/employee/fetch/:id").
func ginPath(url string) string {
	parts := strings.Split(url, "/")
	for i, p := range parts {
		if strings.HasPrefix(p, "{") && strings.HasSuffix(p, "}") {
			parts[i] = ":" + p[1:len(p)-1]
		}
	}
	return strings.Join(parts, "/")
}

// registerLovSources binds the built-in LOV sources: the static LovType
// enumeration and the dynamic employee source.
func (s *Server) registerLovSources() error {
	if s.lovService == nil {
		return nil
	}
	staticEntries := make([]types.ValueLabel, 0, 2)
	for _, v := range types.LovTypeValues() {
		staticEntries = append(staticEntries, types.ValueLabel{Value: string(v)})
	}
	if err := s.lovService.RegisterStaticType(LovTypeName, staticEntries); err != nil {
		return err
	}
	return s.lovService.RegisterDynamicSource(EmployeeLovName, employeeLovQuery)
}

// employeeLovQuery yields one entry per employee row, in persistence-layer
// order, with the row id as value and the name as label.
func employeeLovQuery(ctx context.Context, db *gorm.DB) ([]types.ValueLabel, error) {
	var employees []model.Employee
	if err := db.WithContext(ctx).Find(&employees).Error; err != nil {
		return nil, err
	}
	out := make([]types.ValueLabel, 0, len(employees))
	for _, e := range employees {
		out = append(out, types.ValueLabel{
			Value: strconv.FormatUint(uint64(e.ID), 10),
			Label: e.Name,
		})
	}
	return out, nil
}

const callerContextKey = "caller"

// authMiddleware resolves the bearer token, if any, to the calling user.
// Requests without an Authorization header proceed anonymously; role checks
// happen per action at dispatch time.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || s.userService == nil {
			c.Next()
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
		u, err := s.userService.VerifyToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, types.BaseResponse{
				Code:    types.ResponseCodeAuthenticationError,
				Message: "invalid access token",
			})
			return
		}
		c.Set(callerContextKey, u)
		c.Next()
	}
}

// callerFrom returns the authenticated user for the request, or nil for
// anonymous callers.
func callerFrom(c *gin.Context) *model.User {
	v, ok := c.Get(callerContextKey)
	if !ok {
		return nil
	}
	u, ok := v.(*model.User)
	if !ok {
		return nil
	}
	return u
}
