package http

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/valyala/bytebufferpool"
)

// Header encapsulates a header key value entry. Keys are kept exactly as supplied,
// no canonicalisation is performed
type Header struct {
	Key   string
	Value string
}

// Headers is an ordered list of headers. Duplicate keys are permitted and kept in order
type Headers []Header

func (rr Headers) MarshalZerologArray(a *zerolog.Array) {
	for _, u := range rr {
		a.Object(u)
	}
}

func (h Header) MarshalZerologObject(e *zerolog.Event) {
	e.Str("k", h.Key).
		Str("v", h.Value)
}

// Get returns the value of the first header matching key, compared case insensitively
func (rr Headers) Get(key string) (string, bool) {
	for _, v := range rr {
		if strings.EqualFold(v.Key, key) {
			return v.Value, true
		}
	}
	return "", false
}

// AppendBytes will append "Key: Value" to b
func (h *Header) AppendBytes(b []byte) []byte {
	b = append(b, h.Key...)
	b = append(b, ": "...)
	b = append(b, h.Value...)
	return b
}

func (h *Header) Write(buf io.Writer) (int, error) {
	w := bytebufferpool.Get()
	w.B = h.AppendBytes(w.B)
	n, err := buf.Write(w.B)
	bytebufferpool.Put(w)
	return n, err
}

// String returns the header in its "Key: Value" line form
func (h *Header) String() string {
	w := bytebufferpool.Get()
	ret := string(h.AppendBytes(w.B))
	bytebufferpool.Put(w)
	return ret
}

// Lines returns every header as a "Key: Value" string in the order supplied
func (rr Headers) Lines() []string {
	ret := make([]string, 0, len(rr))
	for i := range rr {
		ret = append(ret, rr[i].String())
	}
	return ret
}

// HeaderFromString splits a "Key: Value" line at the first colon. The value has
// leading and trailing whitespace removed. ok is false if there is no colon
func HeaderFromString(line string) (h Header, ok bool) {
	i := strings.IndexByte(line, ':')
	if i < 0 {
		return h, false
	}
	h.Key = line[:i]
	h.Value = strings.TrimSpace(line[i+1:])
	return h, true
}
