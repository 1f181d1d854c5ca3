package api

import (
	"github.com/SreeGowri/webutils/internal/service/action"
	"github.com/SreeGowri/webutils/pkg/types"
)

// bindings is the declarative action table consumed at startup. Every entry
// pairs a descriptor with its bound operation; the registry and the router
// are both populated from this single list.
func (s *Server) bindings() []binding {
	return []binding{
		{
			descriptor: &action.Descriptor{
				Name:   "actions.fetch",
				URL:    APIPathPrefix + "/actions/fetch",
				Method: types.MethodGet,
			},
			handler: s.fetchActionsHandler,
		},
		{
			descriptor: &action.Descriptor{
				Name:         "auth.login",
				URL:          APIPathPrefix + "/auth/login",
				Method:       types.MethodPost,
				BodyExpected: true,
			},
			handler: s.loginHandler,
		},
		{
			descriptor: &action.Descriptor{
				Name:         "test.test",
				URL:          APIPathPrefix + "/test/test",
				Method:       types.MethodPost,
				BodyExpected: true,
			},
			handler: s.testHandler,
		},
		{
			descriptor: &action.Descriptor{
				Name:          "test.secured1",
				URL:           APIPathPrefix + "/test/secured1",
				Method:        types.MethodPost,
				BodyExpected:  true,
				RequiredRoles: []types.UserRole{types.UserRoleAdmin},
			},
			handler: s.testHandler,
		},
		{
			descriptor: &action.Descriptor{
				Name:          "test.secured2",
				URL:           APIPathPrefix + "/test/secured2",
				Method:        types.MethodPost,
				BodyExpected:  true,
				RequiredRoles: []types.UserRole{types.UserRoleAdmin, types.UserRoleClientAdmin},
			},
			handler: s.testHandler,
		},
		{
			descriptor: &action.Descriptor{
				Name:         "employee.save",
				URL:          APIPathPrefix + "/employee/save",
				Method:       types.MethodPost,
				BodyExpected: true,
			},
			handler: s.saveEmployeeHandler,
		},
		{
			descriptor: &action.Descriptor{
				Name:          "employee.fetch",
				URL:           APIPathPrefix + "/employee/fetch/{id}",
				Method:        types.MethodGet,
				URLParameters: []string{"id"},
			},
			handler: s.fetchEmployeeHandler,
		},
		{
			descriptor: &action.Descriptor{
				Name:          "employee.deleteAll",
				URL:           APIPathPrefix + "/employee/deleteAll",
				Method:        types.MethodDelete,
				RequiredRoles: []types.UserRole{types.UserRoleAdmin},
			},
			handler: s.deleteAllEmployeesHandler,
		},
		{
			descriptor: &action.Descriptor{
				Name:                "employee.uploadPhoto",
				URL:                 APIPathPrefix + "/employee/photo/{id}",
				Method:              types.MethodPost,
				URLParameters:       []string{"id"},
				AttachmentsExpected: true,
				FileFields:          []string{"photo"},
			},
			handler: s.uploadEmployeePhotoHandler,
		},
		{
			descriptor: &action.Descriptor{
				Name:          "lov.fetchStatic",
				URL:           APIPathPrefix + "/lov/static/{name}",
				Method:        types.MethodGet,
				URLParameters: []string{"name"},
			},
			handler: s.staticLovHandler,
		},
		{
			descriptor: &action.Descriptor{
				Name:          "lov.fetchDynamic",
				URL:           APIPathPrefix + "/lov/dynamic/{name}",
				Method:        types.MethodGet,
				URLParameters: []string{"name"},
			},
			handler: s.dynamicLovHandler,
		},
		{
			descriptor: &action.Descriptor{
				Name:         "extensions.save",
				URL:          APIPathPrefix + "/extensions/save",
				Method:       types.MethodPost,
				BodyExpected: true,
			},
			handler: s.saveExtensionHandler,
		},
		{
			descriptor: &action.Descriptor{
				Name:          "extensions.update",
				URL:           APIPathPrefix + "/extensions/update/{id}",
				Method:        types.MethodPut,
				BodyExpected:  true,
				URLParameters: []string{"id"},
			},
			handler: s.updateExtensionHandler,
		},
		{
			descriptor: &action.Descriptor{
				Name:              "extensions.fetch",
				URL:               APIPathPrefix + "/extensions/fetch",
				Method:            types.MethodGet,
				RequestParameters: []string{"target_entity", "owner_entity_type", "owner_id"},
			},
			handler: s.fetchExtensionHandler,
		},
		{
			descriptor: &action.Descriptor{
				Name:          "user.save",
				URL:           APIPathPrefix + "/user/save",
				Method:        types.MethodPost,
				BodyExpected:  true,
				RequiredRoles: []types.UserRole{types.UserRoleAdmin},
			},
			handler: s.saveUserHandler,
		},
		{
			descriptor: &action.Descriptor{
				Name:          "user.delete",
				URL:           APIPathPrefix + "/user/delete/{id}",
				Method:        types.MethodDelete,
				URLParameters: []string{"id"},
				RequiredRoles: []types.UserRole{types.UserRoleAdmin},
			},
			handler: s.deleteUserHandler,
		},
	}
}
