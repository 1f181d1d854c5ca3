package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SreeGowri/webutils/pkg/client"
	"github.com/SreeGowri/webutils/pkg/types"
	"github.com/spf13/cobra"
)

func TestRunListActions_PrintsCatalog(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/actions/fetch":
			_ = json.NewEncoder(w).Encode(types.FetchActionsResponse{
				Code: types.ResponseCodeSuccess,
				Actions: []types.ActionModel{
					{
						Name:         "employee.save",
						URL:          "/api/employee/save",
						Method:       types.MethodPost,
						BodyExpected: true,
					},
					{
						Name:          "employee.fetch",
						URL:           "/api/employee/fetch/{id}",
						Method:        types.MethodGet,
						URLParameters: []string{"id"},
					},
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":4404,"message":"not found"}`))
		}
	}))
	defer server.Close()

	origClient := apiClient
	defer func() { apiClient = origClient }()
	apiClient = client.New(server.URL, "", http.DefaultClient)

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := runListActions(cmd, nil); err != nil {
		t.Fatalf("runListActions returned error: %v", err)
	}

	output := out.String()
	if !bytes.Contains([]byte(output), []byte("employee.save")) {
		t.Fatalf("expected output to contain employee.save, got: %s", output)
	}
	if !bytes.Contains([]byte(output), []byte("POST /api/employee/save")) {
		t.Fatalf("expected output to contain the HTTP binding, got: %s", output)
	}
	if !bytes.Contains([]byte(output), []byte("expects a JSON body")) {
		t.Fatalf("expected output to mention the JSON body, got: %s", output)
	}
}

func TestRunListActions_EmptyCatalog(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(types.FetchActionsResponse{Code: types.ResponseCodeSuccess})
	}))
	defer server.Close()

	origClient := apiClient
	defer func() { apiClient = origClient }()
	apiClient = client.New(server.URL, "", http.DefaultClient)

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := runListActions(cmd, nil); err != nil {
		t.Fatalf("runListActions returned error: %v", err)
	}
	if !bytes.Contains(out.Bytes(), []byte("no actions")) {
		t.Fatalf("expected empty-catalog message, got: %s", out.String())
	}
}
