package imagebody

import (
	"bytes"
	"strings"
)

var headerSeparator = []byte("\r\n\r\n")

// ParseMultipart returns the payload of the first part in body whose headers
// declare an image/* content type. contentType is the request's
// Content-Type header and must carry a boundary parameter.
//
// Trailing '\r', '\n' and '-' bytes are stripped from the payload as a set,
// in any order and count. A binary payload that really ends in one of those
// bytes loses them. Previously stored images were cut the same way, so the
// behaviour is kept as is.
func ParseMultipart(body []byte, contentType string) ([]byte, error) {
	b, ok := boundary(contentType)
	if !ok {
		return nil, ErrNoBoundary
	}

	for _, part := range bytes.Split(body, []byte("--"+b)) {
		head, payload, found := bytes.Cut(part, headerSeparator)
		if !found || !declaresImage(head) {
			continue
		}
		return bytes.TrimRight(payload, "\r\n-"), nil
	}
	return nil, ErrNoImagePart
}

// boundary extracts the boundary= parameter of a content type. Surrounding
// quotes and any parameters that follow are dropped.
func boundary(contentType string) (string, bool) {
	const param = "boundary="
	idx := indexASCIIFold(contentType, param)
	if idx < 0 {
		return "", false
	}
	b := contentType[idx+len(param):]
	if semi := strings.IndexByte(b, ';'); semi >= 0 {
		b = b[:semi]
	}
	b = strings.Trim(strings.TrimSpace(b), `"`)
	return b, b != ""
}

// indexASCIIFold is strings.Index ignoring ASCII case. It compares bytes in
// place, so the offset is valid in s whatever else s contains.
func indexASCIIFold(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		match := true
		for j := 0; j < len(substr); j++ {
			if lowerASCII(s[i+j]) != lowerASCII(substr[j]) {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// declaresImage reports whether a part's header block has a
// Content-Type: image/* line.
func declaresImage(head []byte) bool {
	for _, line := range strings.Split(string(head), "\r\n") {
		name, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "content-type") {
			continue
		}
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(value)), "image/") {
			return true
		}
	}
	return false
}
