package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/SreeGowri/webutils/pkg/types"
	"github.com/gorilla/schema"
)

// Attachment is one file part of a multipart action invocation.
type Attachment struct {
	Filename string
	Content  []byte
}

// MissingParameterError is returned when a parameter or attachment declared by
// the action model is not supplied. Parameters are checked in the order the
// model declares them, so the first missing one is reported.
type MissingParameterError struct {
	Action    string
	Parameter string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("action %s: required parameter %q is missing", e.Action, e.Parameter)
}

// paramEncoder flattens payload structs into query values using the same
// schema tags the server reads.
var paramEncoder = schema.NewEncoder()

// BuildRequest assembles an HTTP request for the action purely from its wire
// model: the URL template is expanded from urlParams, declared request
// parameters are lifted from the payload into the query string, the payload
// becomes a JSON body only when the model says one is expected, and declared
// file fields become multipart parts. Anything the model does not declare is
// dropped.
func BuildRequest(ctx context.Context, baseURL string, action types.ActionModel, payload any, urlParams map[string]string, attachments map[string]Attachment) (*http.Request, error) {
	path, err := expandURL(action, urlParams)
	if err != nil {
		return nil, err
	}
	reqURL := strings.TrimRight(baseURL, "/") + path

	if len(action.RequestParameters) > 0 {
		query, err := encodeRequestParameters(action, payload)
		if err != nil {
			return nil, err
		}
		if len(query) > 0 {
			reqURL += "?" + query.Encode()
		}
	}

	var body io.Reader = http.NoBody
	contentType := ""
	switch {
	case action.AttachmentsExpected:
		b, ct, err := encodeMultipart(action, payload, attachments)
		if err != nil {
			return nil, err
		}
		body, contentType = b, ct
	case action.BodyExpected:
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode body for action %s: %w", action.Name, err)
		}
		body, contentType = bytes.NewReader(buf), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, string(action.Method), reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for action %s: %w", action.Name, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// expandURL substitutes every {param} placeholder of the action URL template.
func expandURL(action types.ActionModel, urlParams map[string]string) (string, error) {
	path := action.URL
	for _, name := range action.URLParameters {
		value, ok := urlParams[name]
		if !ok || value == "" {
			return "", &MissingParameterError{Action: action.Name, Parameter: name}
		}
		path = strings.ReplaceAll(path, "{"+name+"}", url.PathEscape(value))
	}
	return path, nil
}

// encodeRequestParameters flattens the payload and keeps only the query
// parameters the action declares.
func encodeRequestParameters(action types.ActionModel, payload any) (url.Values, error) {
	flat := url.Values{}
	if payload != nil {
		if err := paramEncoder.Encode(payload, flat); err != nil {
			return nil, fmt.Errorf("failed to encode parameters for action %s: %w", action.Name, err)
		}
	}
	out := url.Values{}
	for _, name := range action.RequestParameters {
		if vs, ok := flat[name]; ok {
			out[name] = vs
		}
	}
	return out, nil
}

// encodeMultipart builds the multipart body: one part per declared file field
// plus, when a body is also expected, a JSON part named "request".
func encodeMultipart(action types.ActionModel, payload any, attachments map[string]Attachment) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, field := range action.FileFields {
		att, ok := attachments[field]
		if !ok {
			return nil, "", &MissingParameterError{Action: action.Name, Parameter: field}
		}
		part, err := w.CreateFormFile(field, att.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to add attachment %q for action %s: %w", field, action.Name, err)
		}
		if _, err := part.Write(att.Content); err != nil {
			return nil, "", fmt.Errorf("failed to write attachment %q for action %s: %w", field, action.Name, err)
		}
	}

	if action.BodyExpected && payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode body for action %s: %w", action.Name, err)
		}
		if err := w.WriteField("request", string(b)); err != nil {
			return nil, "", fmt.Errorf("failed to write body part for action %s: %w", action.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body for action %s: %w", action.Name, err)
	}
	return &buf, w.FormDataContentType(), nil
}
