// Package httpevent defines the HTTP-shaped request and response structures
// every handler consumes and produces, independent of the host that
// delivers them (Lambda, the local gin server, or the CLI).
package httpevent

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Request is an inbound invocation event.
type Request struct {
	HTTPMethod      string            `json:"httpMethod"`
	PathParams      map[string]string `json:"pathParams,omitempty"`
	QueryParams     map[string]string `json:"queryStringParameters,omitempty"`
	Headers         map[string]string `json:"headers,omitempty"`
	Body            string            `json:"body"`
	IsBase64Encoded bool              `json:"isBase64Encoded"`
}

// Response is the outbound result of a handler.
type Response struct {
	StatusCode      int               `json:"statusCode"`
	Headers         map[string]string `json:"headers"`
	Body            string            `json:"body"`
	IsBase64Encoded bool              `json:"isBase64Encoded"`
}

// Method returns the request method, or fallback when the event carries none.
func (r Request) Method(fallback string) string {
	if r.HTTPMethod == "" {
		return fallback
	}
	return strings.ToUpper(r.HTTPMethod)
}

// Header looks up a header by name, ignoring case. Event sources disagree on
// header casing, so an exact map lookup is not enough.
func (r Request) Header(name string) string {
	if v, ok := r.Headers[name]; ok {
		return v
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// PathParam returns a path parameter, or "" when absent.
func (r Request) PathParam(name string) string {
	return r.PathParams[name]
}

// RawBody returns the body bytes with any transport-level base64 removed.
func (r Request) RawBody() ([]byte, error) {
	if !r.IsBase64Encoded {
		return []byte(r.Body), nil
	}
	data, err := base64.StdEncoding.DecodeString(r.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding base64 body: %w", err)
	}
	return data, nil
}

const (
	headerAllowOrigin  = "Access-Control-Allow-Origin"
	headerAllowMethods = "Access-Control-Allow-Methods"
	headerAllowHeaders = "Access-Control-Allow-Headers"
	headerMaxAge       = "Access-Control-Max-Age"
	headerContentType  = "Content-Type"
)

// Preflight answers a CORS OPTIONS probe advertising the given methods,
// e.g. "GET, OPTIONS".
func Preflight(allowMethods string) Response {
	return Response{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			headerAllowOrigin:  "*",
			headerAllowMethods: allowMethods,
			headerAllowHeaders: "Content-Type",
			headerMaxAge:       "86400",
		},
		Body: "",
	}
}

// JSON builds a response with v encoded as the body.
func JSON(status int, v any) (Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return Response{}, fmt.Errorf("encoding response body: %w", err)
	}
	return Response{
		StatusCode: status,
		Headers: map[string]string{
			headerContentType: "application/json",
			headerAllowOrigin: "*",
		},
		Body: string(body),
	}, nil
}

// Error builds a JSON response of the form {"error": msg}.
func Error(status int, msg string) Response {
	// Marshaling a map of strings cannot fail.
	resp, _ := JSON(status, map[string]string{"error": msg})
	return resp
}

// MethodNotAllowed is the shared 405 response.
func MethodNotAllowed() Response {
	return Error(http.StatusMethodNotAllowed, "Method not allowed")
}
