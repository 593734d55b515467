// Package imagebody extracts the raw image bytes from an upload request.
//
// Two body formats are accepted and chosen by the request's content type:
//
//	multipart/form-data  → Multipart: the first part declaring an image/* type
//	anything else        → JSONBase64: {"image": "<base64 or data URL>"}
//
// Every error returned by a Decoder describes a client mistake and should be
// reported as a 400.
package imagebody

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"github.com/fleveque/giftshop-functions/internal/httpevent"
)

// Error messages are part of the HTTP contract and are returned verbatim
// in the response body, hence the capitalization.
var (
	ErrNoBoundary  = errors.New("No boundary in content-type") //nolint:staticcheck
	ErrNoImagePart = errors.New("No image data found")         //nolint:staticcheck
	ErrNoImageData = errors.New("No image data")               //nolint:staticcheck
)

// ParseError wraps a malformed body (bad JSON, bad base64).
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "Parse error: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Decoder turns an upload request into image bytes.
type Decoder interface {
	Decode(req httpevent.Request) ([]byte, error)
}

// For picks the decoder matching a content-type header value.
func For(contentType string) Decoder {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "multipart/form-data") {
		return Multipart{}
	}
	return JSONBase64{}
}

// Decode resolves the decoder from the request's content-type and runs it.
func Decode(req httpevent.Request) ([]byte, error) {
	return For(req.Header("Content-Type")).Decode(req)
}

// JSONBase64 decodes a JSON body carrying the image as a base64 string in
// its "image" field. A data URL prefix ("data:image/jpeg;base64,") is
// dropped before decoding.
type JSONBase64 struct{}

type jsonUpload struct {
	Image string `json:"image"`
}

func (JSONBase64) Decode(req httpevent.Request) ([]byte, error) {
	raw, err := req.RawBody()
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	var body jsonUpload
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, &ParseError{Err: err}
	}
	if body.Image == "" {
		return nil, ErrNoImageData
	}

	encoded := body.Image
	if strings.Contains(encoded, ",") {
		encoded = strings.Split(encoded, ",")[1]
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return data, nil
}

// Multipart decodes a raw multipart/form-data body.
type Multipart struct{}

func (Multipart) Decode(req httpevent.Request) ([]byte, error) {
	contentType := req.Header("Content-Type")
	// The boundary is checked before touching the body.
	if _, ok := boundary(contentType); !ok {
		return nil, ErrNoBoundary
	}

	raw, err := req.RawBody()
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return ParseMultipart(raw, contentType)
}
