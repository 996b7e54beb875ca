package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
)

func TestRequest_ContentType(t *testing.T) {
	tests := []struct {
		name     string
		headers  Headers
		expected string
	}{
		{"none", nil, ""},
		{"lowercased", Headers{{"Content-Type", "Multipart/Form-Data; boundary=X"}}, "multipart/form-data; boundary=x"},
		{"case insensitive key", Headers{{"content-TYPE", "text/plain"}}, "text/plain"},
		{"first wins", Headers{{"Content-Type", "a/b"}, {"Content-Type", "c/d"}}, "a/b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Request{Headers: tt.headers}
			assert.Equal(t, tt.expected, r.ContentType())
		})
	}
}

func TestRequest_String(t *testing.T) {
	assert.Equal(t, "{ request GET http://a/ }", Request{URL: "http://a/"}.String())
	assert.Equal(t, "{ request PUT http://a/ }", Request{URL: "http://a/", Method: "put"}.String())
}

func TestFromFastHTTP(t *testing.T) {
	src := &fasthttp.Request{}
	src.SetRequestURI("http://example.com/a?b=c")
	src.Header.SetMethod("POST")
	src.Header.Set("X-A", "1")
	src.Header.SetContentType("Application/JSON")
	src.SetBodyString(`{"a":1}`)

	got := FromFastHTTP(src)
	assert.Equal(t, "http://example.com/a?b=c", got.URL)
	assert.Equal(t, "POST", got.Method)
	assert.Contains(t, got.Headers, Header{"X-A", "1"})
	assert.Equal(t, "application/json", got.ContentType())
	assert.Equal(t, BodyBytes, got.Body.Kind())
	assert.Equal(t, `{"a":1}`, string(got.Body.Bytes()))

	// the body must not alias the fasthttp buffer
	src.SetBodyString("changed")
	assert.Equal(t, `{"a":1}`, string(got.Body.Bytes()))
}

func TestFromFastHTTP_NoBody(t *testing.T) {
	src := &fasthttp.Request{}
	src.SetRequestURI("http://example.com/")

	got := FromFastHTTP(src)
	assert.Equal(t, "GET", got.Method)
	assert.Equal(t, BodyAbsent, got.Body.Kind())
	assert.True(t, got.Body.IsEmpty())
}
