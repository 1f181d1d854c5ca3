package types

// HTTPMethod is the HTTP verb an action is bound to.
type HTTPMethod string

const (
	MethodGet    HTTPMethod = "GET"
	MethodPost   HTTPMethod = "POST"
	MethodPut    HTTPMethod = "PUT"
	MethodDelete HTTPMethod = "DELETE"
)

// ValidateHTTPMethod checks that the given string is one of the supported verbs.
func ValidateHTTPMethod(m string) (HTTPMethod, error) {
	switch HTTPMethod(m) {
	case MethodGet, MethodPost, MethodPut, MethodDelete:
		return HTTPMethod(m), nil
	default:
		return "", &InvalidHTTPMethodError{Method: m}
	}
}

// InvalidHTTPMethodError is returned when an action declares an unsupported verb.
type InvalidHTTPMethodError struct {
	Method string
}

func (e *InvalidHTTPMethodError) Error() string {
	return "unsupported http method: " + e.Method
}

// ActionModel describes one server action that can be invoked by name from a client.
// It is the wire representation of an action descriptor, served by the action
// catalog endpoint. Authorization requirements are deliberately not exposed here;
// they are enforced server-side only.
type ActionModel struct {
	Name                string     `json:"name"`
	URL                 string     `json:"url"`
	Method              HTTPMethod `json:"method"`
	BodyExpected        bool       `json:"body_expected"`
	RequestParameters   []string   `json:"request_parameters,omitempty"`
	URLParameters       []string   `json:"url_parameters,omitempty"`
	AttachmentsExpected bool       `json:"attachments_expected"`
	FileFields          []string   `json:"file_fields,omitempty"`
}

// FetchActionsResponse is the payload of the action catalog endpoint.
type FetchActionsResponse struct {
	Code    int           `json:"code"`
	Actions []ActionModel `json:"actions"`
}
