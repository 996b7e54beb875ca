package transport

import (
	"bytes"
	"fmt"

	"github.com/assetnote/kitecurl/pkg/http"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

type Response struct {
	StatusCode int
	Words      int
	Lines      int
	BodyLength int

	Headers http.Headers
	Body    []byte

	// URI is the location that led to this response. It is empty for the first response in the chain
	URI string

	Next  *Response
	Error error
}

type Responses []*Response

func (rr Responses) MarshalZerologArray(a *zerolog.Array) {
	for _, u := range rr {
		a.Object(u)
	}
}

// Flatten returns every response in the redirect chain, starting with r
func (r *Response) Flatten() (ret Responses) {
	for v := r; v != nil; v = v.Next {
		ret = append(ret, v)
	}
	return ret
}

// Last returns the final response of the redirect chain
func (r *Response) Last() *Response {
	v := r
	for v.Next != nil {
		v = v.Next
	}
	return v
}

func (r Response) MarshalZerologObject(e *zerolog.Event) {
	e.Str("uri", r.URI).
		Int("sc", r.StatusCode).
		Int("len", r.BodyLength).
		Int("words", r.Words).
		Int("lines", r.Lines)
	if r.Error != nil {
		e.AnErr("error", r.Error)
	}
}

func (r *Response) AppendRedirectChain(b []byte) []byte {
	if r == nil {
		return b
	}

	b = append(b, "-> "...)
	b = append(b, r.URI...)
	b = append(b, " "...)
	return r.Next.AppendRedirectChain(b)
}

func (r *Response) String() string {
	if r == nil {
		return ""
	}

	uri := r.URI
	maxlen := 96
	if len(uri) > maxlen {
		uri = uri[0:maxlen] + "..."
	}
	if r.Next != nil {
		if len(uri) == 0 {
			return fmt.Sprintf("(%d) %d -> %s", r.BodyLength, r.StatusCode, r.Next)
		}
		return fmt.Sprintf("%s (%d) %d -> %s", uri, r.BodyLength, r.StatusCode, r.Next)
	}
	if len(uri) == 0 {
		return fmt.Sprintf("(%d) %d", r.BodyLength, r.StatusCode)
	}
	return fmt.Sprintf("%s (%d) %d", uri, r.BodyLength, r.StatusCode)
}

// fill copies the status, headers and body out of the pooled fasthttp response
func (r *Response) fill(fresp *fasthttp.Response) {
	r.StatusCode = fresp.StatusCode()

	b := fresp.Body()
	r.BodyLength = len(b)
	r.Words = bytes.Count(b, []byte(" "))
	r.Lines = bytes.Count(b, []byte("\n"))
	// address off by 1 if its non-0
	if len(b) > 0 {
		r.Words++
		r.Lines++
	}
	r.Body = append(r.Body[:0], b...)

	r.Headers = r.Headers[:0]
	fresp.Header.VisitAll(func(k, v []byte) {
		r.Headers = append(r.Headers, http.Header{Key: string(k), Value: string(v)})
	})
}
