package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SreeGowri/webutils/internal/migrations"
	"github.com/SreeGowri/webutils/internal/model"
	"github.com/SreeGowri/webutils/internal/service/action"
	"github.com/SreeGowri/webutils/internal/service/crud"
	"github.com/SreeGowri/webutils/internal/service/extension"
	"github.com/SreeGowri/webutils/internal/service/lov"
	"github.com/SreeGowri/webutils/internal/service/user"
	"github.com/SreeGowri/webutils/internal/telemetry"
	"github.com/SreeGowri/webutils/pkg/logger"
	"github.com/SreeGowri/webutils/pkg/testhelpers"
	"github.com/SreeGowri/webutils/pkg/types"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T) (*Server, *user.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := migrations.Migrate(db); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}

	log := logger.NewNop()
	userService := user.NewService(db, log)
	server, err := NewServer(&ServerOptions{
		Registry:         action.NewRegistry(),
		LovService:       lov.NewService(db, log),
		ExtensionService: extension.NewService(db, log),
		UserService:      userService,
		EmployeeService:  crud.NewService[model.Employee, *model.Employee](db, log),
		Metrics:          telemetry.NewNoopCustomMetrics(),
		Logger:           log,
	})
	testhelpers.AssertNoError(t, err)
	testhelpers.AssertNotNil(t, server)
	return server, userService
}

// createUserWithRoles registers a user directly through the service and
// returns their access token.
func createUserWithRoles(t *testing.T, svc *user.Service, username string, roles ...types.UserRole) string {
	t.Helper()
	u, err := svc.Create(t.Context(), &types.CreateUserRequest{
		Username:    username,
		Password:    "password-123",
		DisplayName: username,
		Roles:       roles,
	}, "", nil, 0)
	testhelpers.AssertNoError(t, err)
	testhelpers.AssertNotNil(t, u.AccessToken)
	return *u.AccessToken
}

// doJSON performs a request against the server router, with an optional JSON
// body and bearer token, and decodes the response body into out.
func doJSON(t *testing.T, s *Server, method, path string, payload any, token string, out any) int {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		testhelpers.AssertNoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
		}
	}
	return w.Code
}

func TestNewServer_AppliesDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	server, err := NewServer(&ServerOptions{})
	testhelpers.AssertNoError(t, err)
	testhelpers.AssertNotNil(t, server)
	testhelpers.AssertNotNil(t, server.registry)
	testhelpers.AssertNotNil(t, server.metrics)
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t)
	code := doJSON(t, server, http.MethodGet, "/health", nil, "", nil)
	testhelpers.AssertEqual(t, http.StatusOK, code)
}

func TestAuthMiddlewareRejectsUnknownToken(t *testing.T) {
	server, _ := newTestServer(t)
	var resp types.BaseResponse
	code := doJSON(t, server, http.MethodGet, "/health", nil, "bogus-token", &resp)
	testhelpers.AssertEqual(t, http.StatusUnauthorized, code)
	testhelpers.AssertEqual(t, types.ResponseCodeAuthenticationError, resp.Code)
}

func TestFetchActionsCatalog(t *testing.T) {
	server, _ := newTestServer(t)

	var resp types.FetchActionsResponse
	code := doJSON(t, server, http.MethodGet, "/api/actions/fetch", nil, "", &resp)
	testhelpers.AssertEqual(t, http.StatusOK, code)
	testhelpers.AssertEqual(t, types.ResponseCodeSuccess, resp.Code)
	testhelpers.AssertTrue(t, len(resp.Actions) > 0, "expected a non-empty catalog")

	byName := make(map[string]types.ActionModel, len(resp.Actions))
	for _, a := range resp.Actions {
		byName[a.Name] = a
	}
	save, ok := byName["employee.save"]
	testhelpers.AssertTrue(t, ok, "expected employee.save in the catalog")
	testhelpers.AssertEqual(t, types.MethodPost, save.Method)
	testhelpers.AssertTrue(t, save.BodyExpected, "employee.save declares a body")

	fetch, ok := byName["employee.fetch"]
	testhelpers.AssertTrue(t, ok, "expected employee.fetch in the catalog")
	testhelpers.AssertEqual(t, "/api/employee/fetch/{id}", fetch.URL)
	testhelpers.AssertEqual(t, 1, len(fetch.URLParameters))
}

func TestEmployeeSaveAndFetch(t *testing.T) {
	server, _ := newTestServer(t)

	var saved types.BasicSaveResponse
	code := doJSON(t, server, http.MethodPost, "/api/employee/save",
		types.EmployeeModel{Name: "alice", Salary: 1000}, "", &saved)
	testhelpers.AssertEqual(t, http.StatusOK, code)
	testhelpers.AssertEqual(t, types.ResponseCodeSuccess, saved.Code)
	testhelpers.AssertTrue(t, saved.ID > 0, "expected a positive identity")

	var fetched types.EmployeeResponse
	code = doJSON(t, server, http.MethodGet, fmt.Sprintf("/api/employee/fetch/%d", saved.ID), nil, "", &fetched)
	testhelpers.AssertEqual(t, http.StatusOK, code)
	testhelpers.AssertEqual(t, "alice", fetched.Name)
	testhelpers.AssertEqual(t, int64(1000), fetched.Salary)

	var notFound types.BaseResponse
	code = doJSON(t, server, http.MethodGet, "/api/employee/fetch/99999", nil, "", &notFound)
	testhelpers.AssertEqual(t, http.StatusNotFound, code)
	testhelpers.AssertEqual(t, types.ResponseCodeNotFound, notFound.Code)

	var badParam types.BaseResponse
	code = doJSON(t, server, http.MethodGet, "/api/employee/fetch/abc", nil, "", &badParam)
	testhelpers.AssertEqual(t, http.StatusBadRequest, code)
	testhelpers.AssertEqual(t, types.ResponseCodeInvalidRequest, badParam.Code)
}

func TestValidationRunsBeforeInvocation(t *testing.T) {
	server, _ := newTestServer(t)

	var resp types.ValidationResponse
	code := doJSON(t, server, http.MethodPost, "/api/test/test", types.TestModel{
		Name:            "x",
		Age:             55, // above the allowed range
		Password:        "a",
		ConfirmPassword: "b", // does not match
	}, "", &resp)
	testhelpers.AssertEqual(t, http.StatusBadRequest, code)
	testhelpers.AssertEqual(t, types.ResponseCodeInvalidRequest, resp.Code)
	testhelpers.AssertEqual(t, 2, len(resp.FieldErrors))

	var ok types.BaseResponse
	code = doJSON(t, server, http.MethodPost, "/api/test/test", types.TestModel{
		Name:            "x",
		Age:             25,
		Password:        "a",
		ConfirmPassword: "a",
	}, "", &ok)
	testhelpers.AssertEqual(t, http.StatusOK, code)
	testhelpers.AssertEqual(t, "Success - x", ok.Message)
}

func TestMalformedBodyIsRejected(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/test/test", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	testhelpers.AssertEqual(t, http.StatusBadRequest, w.Code)
	var resp types.BaseResponse
	testhelpers.AssertNoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	testhelpers.AssertEqual(t, types.ResponseCodeInvalidRequest, resp.Code)
}

func TestSecuredActionRoleChecks(t *testing.T) {
	server, userService := newTestServer(t)
	userToken := createUserWithRoles(t, userService, "plain", types.UserRoleUser)
	adminToken := createUserWithRoles(t, userService, "boss", types.UserRoleAdmin)
	clientAdminToken := createUserWithRoles(t, userService, "clientboss", types.UserRoleClientAdmin)

	payload := types.TestModel{Name: "x", Age: 25, Password: "a", ConfirmPassword: "a"}

	// anonymous and under-privileged callers are denied before invocation
	var resp types.BaseResponse
	code := doJSON(t, server, http.MethodPost, "/api/test/secured1", payload, "", &resp)
	testhelpers.AssertEqual(t, http.StatusUnauthorized, code)
	testhelpers.AssertEqual(t, types.ResponseCodeAuthenticationError, resp.Code)

	code = doJSON(t, server, http.MethodPost, "/api/test/secured1", payload, userToken, &resp)
	testhelpers.AssertEqual(t, http.StatusUnauthorized, code)

	code = doJSON(t, server, http.MethodPost, "/api/test/secured1", payload, adminToken, &resp)
	testhelpers.AssertEqual(t, http.StatusOK, code)

	// secured2 declares two roles; holding either one admits the caller
	code = doJSON(t, server, http.MethodPost, "/api/test/secured2", payload, clientAdminToken, &resp)
	testhelpers.AssertEqual(t, http.StatusOK, code)
	code = doJSON(t, server, http.MethodPost, "/api/test/secured2", payload, userToken, &resp)
	testhelpers.AssertEqual(t, http.StatusUnauthorized, code)
}

func TestDeniedMutationHasNoSideEffects(t *testing.T) {
	server, userService := newTestServer(t)
	adminToken := createUserWithRoles(t, userService, "boss", types.UserRoleAdmin)

	var saved types.BasicSaveResponse
	code := doJSON(t, server, http.MethodPost, "/api/employee/save",
		types.EmployeeModel{Name: "keep-me", Salary: 1}, "", &saved)
	testhelpers.AssertEqual(t, http.StatusOK, code)

	// anonymous deleteAll is refused and must leave the row intact
	var denied types.BaseResponse
	code = doJSON(t, server, http.MethodDelete, "/api/employee/deleteAll", nil, "", &denied)
	testhelpers.AssertEqual(t, http.StatusUnauthorized, code)

	var fetched types.EmployeeResponse
	code = doJSON(t, server, http.MethodGet, fmt.Sprintf("/api/employee/fetch/%d", saved.ID), nil, "", &fetched)
	testhelpers.AssertEqual(t, http.StatusOK, code)

	// the admin goes through
	code = doJSON(t, server, http.MethodDelete, "/api/employee/deleteAll", nil, adminToken, &denied)
	testhelpers.AssertEqual(t, http.StatusOK, code)
	code = doJSON(t, server, http.MethodGet, fmt.Sprintf("/api/employee/fetch/%d", saved.ID), nil, "", &fetched)
	testhelpers.AssertEqual(t, http.StatusNotFound, code)
}

func TestLoginFlow(t *testing.T) {
	server, userService := newTestServer(t)
	token := createUserWithRoles(t, userService, "carol", types.UserRoleUser)

	var resp types.LoginResponse
	code := doJSON(t, server, http.MethodPost, "/api/auth/login",
		types.LoginRequest{Username: "carol", Password: "password-123"}, "", &resp)
	testhelpers.AssertEqual(t, http.StatusOK, code)
	testhelpers.AssertEqual(t, token, resp.AccessToken)

	var denied types.BaseResponse
	code = doJSON(t, server, http.MethodPost, "/api/auth/login",
		types.LoginRequest{Username: "carol", Password: "wrong-password"}, "", &denied)
	testhelpers.AssertEqual(t, http.StatusUnauthorized, code)
	testhelpers.AssertEqual(t, types.ResponseCodeAuthenticationError, denied.Code)
}

func TestExtensionLifecycle(t *testing.T) {
	server, _ := newTestServer(t)

	var saved types.ExtensionResponse
	code := doJSON(t, server, http.MethodPost, "/api/extensions/save", types.SaveExtensionRequest{
		TargetEntity:    "customerExt",
		OwnerEntityType: "customer",
		OwnerID:         7,
		Name:            "primary",
		Attributes:      map[string]any{"tier": "gold"},
	}, "", &saved)
	testhelpers.AssertEqual(t, http.StatusOK, code)
	testhelpers.AssertEqual(t, 1, saved.Version)
	testhelpers.AssertTrue(t, saved.ID > 0, "expected a positive identity")

	// a second record for the same owner triple is a conflict
	var conflict types.BaseResponse
	code = doJSON(t, server, http.MethodPost, "/api/extensions/save", types.SaveExtensionRequest{
		TargetEntity:    "customerExt",
		OwnerEntityType: "customer",
		OwnerID:         7,
		Attributes:      map[string]any{"tier": "silver"},
	}, "", &conflict)
	testhelpers.AssertEqual(t, http.StatusConflict, code)
	testhelpers.AssertEqual(t, types.ResponseCodeConflict, conflict.Code)

	var updated types.ExtensionResponse
	code = doJSON(t, server, http.MethodPut, fmt.Sprintf("/api/extensions/update/%d", saved.ID),
		types.UpdateExtensionRequest{Attributes: map[string]any{"tier": "platinum"}, Version: 1}, "", &updated)
	testhelpers.AssertEqual(t, http.StatusOK, code)
	testhelpers.AssertEqual(t, 2, updated.Version)

	// replaying the consumed version is rejected and changes nothing
	code = doJSON(t, server, http.MethodPut, fmt.Sprintf("/api/extensions/update/%d", saved.ID),
		types.UpdateExtensionRequest{Attributes: map[string]any{"tier": "tin"}, Version: 1}, "", &conflict)
	testhelpers.AssertEqual(t, http.StatusConflict, code)

	var fetched types.ExtensionResponse
	code = doJSON(t, server, http.MethodGet,
		"/api/extensions/fetch?target_entity=customerExt&owner_entity_type=customer&owner_id=7", nil, "", &fetched)
	testhelpers.AssertEqual(t, http.StatusOK, code)
	testhelpers.AssertEqual(t, 2, fetched.Version)
	testhelpers.AssertEqual(t, "platinum", fetched.Attributes["tier"])

	// an incomplete owner triple is an invalid request
	var bad types.BaseResponse
	code = doJSON(t, server, http.MethodGet, "/api/extensions/fetch?target_entity=customerExt", nil, "", &bad)
	testhelpers.AssertEqual(t, http.StatusBadRequest, code)
	testhelpers.AssertEqual(t, types.ResponseCodeInvalidRequest, bad.Code)

	// an absent owner triple is not found
	code = doJSON(t, server, http.MethodGet,
		"/api/extensions/fetch?target_entity=customerExt&owner_entity_type=customer&owner_id=999", nil, "", &bad)
	testhelpers.AssertEqual(t, http.StatusNotFound, code)
}

func TestUserSaveAndDelete(t *testing.T) {
	server, userService := newTestServer(t)
	adminToken := createUserWithRoles(t, userService, "boss", types.UserRoleAdmin)

	// user.save is admin-gated
	var denied types.BaseResponse
	code := doJSON(t, server, http.MethodPost, "/api/user/save", types.CreateUserRequest{
		Username:    "newbie",
		Password:    "password-123",
		DisplayName: "Newbie",
	}, "", &denied)
	testhelpers.AssertEqual(t, http.StatusUnauthorized, code)

	var created types.CreateUserResponse
	code = doJSON(t, server, http.MethodPost, "/api/user/save", types.CreateUserRequest{
		Username:    "newbie",
		Password:    "password-123",
		DisplayName: "Newbie",
	}, adminToken, &created)
	testhelpers.AssertEqual(t, http.StatusOK, code)
	testhelpers.AssertEqual(t, "newbie", created.Username)
	testhelpers.AssertTrue(t, created.AccessToken != "", "expected an access token")

	// a short password fails validation before the service is invoked
	var invalid types.ValidationResponse
	code = doJSON(t, server, http.MethodPost, "/api/user/save", types.CreateUserRequest{
		Username:    "short",
		Password:    "tiny",
		DisplayName: "Short",
	}, adminToken, &invalid)
	testhelpers.AssertEqual(t, http.StatusBadRequest, code)
	testhelpers.AssertEqual(t, 1, len(invalid.FieldErrors))
	testhelpers.AssertEqual(t, "password", invalid.FieldErrors[0].Field)

	u, err := userService.GetByUsername(t.Context(), "newbie")
	testhelpers.AssertNoError(t, err)
	var resp types.BaseResponse
	code = doJSON(t, server, http.MethodDelete, fmt.Sprintf("/api/user/delete/%d", u.ID), nil, adminToken, &resp)
	testhelpers.AssertEqual(t, http.StatusOK, code)

	// the deleted user's token no longer authenticates
	code = doJSON(t, server, http.MethodGet, "/health", nil, created.AccessToken, &resp)
	testhelpers.AssertEqual(t, http.StatusUnauthorized, code)
}

func TestStaticAndDynamicLovEndpoints(t *testing.T) {
	server, _ := newTestServer(t)

	var static types.LovListResponse
	code := doJSON(t, server, http.MethodGet, "/api/lov/static/"+LovTypeName, nil, "", &static)
	testhelpers.AssertEqual(t, http.StatusOK, code)
	testhelpers.AssertEqual(t, 2, len(static.Values))
	testhelpers.AssertEqual(t, string(types.LovTypeStatic), static.Values[0].Value)

	var missing types.BaseResponse
	code = doJSON(t, server, http.MethodGet, "/api/lov/static/nope", nil, "", &missing)
	testhelpers.AssertEqual(t, http.StatusNotFound, code)

	// the dynamic employee source reflects saved rows
	var saved types.BasicSaveResponse
	code = doJSON(t, server, http.MethodPost, "/api/employee/save",
		types.EmployeeModel{Name: "dana", Salary: 500}, "", &saved)
	testhelpers.AssertEqual(t, http.StatusOK, code)

	var dynamic types.LovListResponse
	code = doJSON(t, server, http.MethodGet, "/api/lov/dynamic/"+EmployeeLovName, nil, "", &dynamic)
	testhelpers.AssertEqual(t, http.StatusOK, code)
	testhelpers.AssertEqual(t, 1, len(dynamic.Values))
	testhelpers.AssertEqual(t, "dana", dynamic.Values[0].Label)
}
