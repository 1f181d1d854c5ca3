package types

import (
	"encoding/json"
	"testing"
)

func TestValidateHTTPMethod(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"GET", "POST", "PUT", "DELETE"} {
		m, err := ValidateHTTPMethod(valid)
		if err != nil {
			t.Errorf("Expected no error for %q, got %v", valid, err)
		}
		if string(m) != valid {
			t.Errorf("Expected method %q, got %q", valid, m)
		}
	}

	for _, invalid := range []string{"", "get", "PATCH", "HEAD", "OPTIONS"} {
		_, err := ValidateHTTPMethod(invalid)
		if err == nil {
			t.Errorf("Expected error for %q, got none", invalid)
		}
	}
}

func TestActionModelJSONMarshaling(t *testing.T) {
	t.Parallel()

	action := ActionModel{
		Name:          "employee.fetch",
		URL:           "/api/employee/fetch/{id}",
		Method:        MethodGet,
		URLParameters: []string{"id"},
	}

	data, err := json.Marshal(action)
	if err != nil {
		t.Fatalf("Failed to marshal ActionModel: %v", err)
	}

	expected := `{"name":"employee.fetch","url":"/api/employee/fetch/{id}","method":"GET","body_expected":false,"url_parameters":["id"],"attachments_expected":false}`
	if string(data) != expected {
		t.Errorf("Expected JSON %s, got %s", expected, string(data))
	}
}

func TestLovTypeValuesOrder(t *testing.T) {
	t.Parallel()

	values := LovTypeValues()
	if len(values) != 2 {
		t.Fatalf("Expected 2 LovType members, got %d", len(values))
	}
	if values[0] != LovTypeStatic || values[1] != LovTypeDynamic {
		t.Errorf("Expected [STATIC_TYPE DYNAMIC_TYPE], got %v", values)
	}
}

func TestNewSuccessResponse(t *testing.T) {
	t.Parallel()

	resp := NewSuccessResponse("done")
	if resp.Code != ResponseCodeSuccess {
		t.Errorf("Expected code %d, got %d", ResponseCodeSuccess, resp.Code)
	}
	if resp.Message != "done" {
		t.Errorf("Expected message 'done', got %q", resp.Message)
	}
}
