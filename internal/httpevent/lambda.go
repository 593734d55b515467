package httpevent

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/lambda"
)

// Handler is the signature shared by every function in this service.
type Handler func(ctx context.Context, req Request) (Response, error)

// NewLambdaHandler decodes invocation payloads straight into Request and
// encodes the Response as the result. A non-nil error from h goes back to
// the runtime untouched, which the gateway reports as a 500.
func NewLambdaHandler(h Handler) lambda.Handler {
	return lambda.NewHandler(func(ctx context.Context, req Request) (Response, error) {
		return h(ctx, req)
	})
}

// UnmarshalJSON accepts both "pathParams" and the API Gateway spelling
// "pathParameters". An absent or null body reads as "{}"; a present empty
// body is kept empty.
func (r *Request) UnmarshalJSON(data []byte) error {
	type plain Request
	aux := struct {
		*plain
		PathParameters map[string]string `json:"pathParameters"`
		Body           *string           `json:"body"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if r.PathParams == nil {
		r.PathParams = aux.PathParameters
	}

	r.Body = "{}"
	if aux.Body != nil {
		r.Body = *aux.Body
	}
	return nil
}
