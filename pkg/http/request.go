package http

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// Request is a fully constructed, protocol agnostic description of a http request.
// It is treated as read only once handed to option derivation
type Request struct {
	URL     string
	Method  string // an empty Method is treated as GET
	Headers Headers
	Body    Body
}

func (r Request) String() string {
	return fmt.Sprintf("{ request %s %s }", NormalizeMethod(r.Method), r.URL)
}

func (r Request) MarshalZerologObject(e *zerolog.Event) {
	e.Str("method", r.Method).
		Str("url", r.URL).
		Array("headers", r.Headers).
		Str("body", r.Body.Kind().String())
}

// ContentType returns the lowercased value of the first Content-Type header, or "" if there is none
func (r Request) ContentType() string {
	v, _ := r.Headers.Get("Content-Type")
	return strings.ToLower(v)
}

// FromFastHTTP snapshots a fasthttp request into a Request. Headers are visited in the order fasthttp
// stores them. A body stream attached to src is drained by fasthttp into memory, so the
// resulting body is always bytes or absent. The body is copied since fasthttp reuses its buffers
func FromFastHTTP(src *fasthttp.Request) Request {
	ret := Request{
		URL:    src.URI().String(),
		Method: string(src.Header.Method()),
	}

	src.Header.VisitAll(func(k, v []byte) {
		ret.Headers = append(ret.Headers, Header{Key: string(k), Value: string(v)})
	})

	if b := src.Body(); len(b) > 0 {
		ret.Body = BytesBody(append([]byte{}, b...))
	}
	return ret
}
