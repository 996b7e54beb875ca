package http

import (
	"strings"
)

const (
	MethodGet     = "GET"
	MethodHead    = "HEAD"
	MethodPost    = "POST"
	MethodPut     = "PUT"
	MethodPatch   = "PATCH"
	MethodDelete  = "DELETE"
	MethodOptions = "OPTIONS"
	MethodTrace   = "TRACE"
)

// NormalizeMethod uppercases m. An empty method, or one that is not a valid HTTP token,
// is treated as GET
func NormalizeMethod(m string) string {
	m = strings.ToUpper(m)
	if !ValidMethod(m) {
		return MethodGet
	}
	return m
}

// ValidMethod reports whether m is a non empty RFC 7230 token
func ValidMethod(m string) bool {
	if len(m) == 0 {
		return false
	}
	for i := 0; i < len(m); i++ {
		if !isTokenChar(m[i]) {
			return false
		}
	}
	return true
}

func isTokenChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("!#$%&'*+-.^_`|~", c) >= 0
}
