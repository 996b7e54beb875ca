package curlopt

import (
	"fmt"
	"io"
	"strconv"

	"github.com/francoispqt/gojay"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/valyala/bytebufferpool"
)

// ReadFunc is the read callback handed to the transport for streaming uploads.
// It has the same contract as io.Reader.Read
type ReadFunc func(p []byte) (int, error)

// Read lets a ReadFunc be used wherever an io.Reader is expected
func (f ReadFunc) Read(p []byte) (int, error) {
	return f(p)
}

// Sink receives directives. A transport engine implements this to be configured from a Set
type Sink interface {
	SetOpt(opt Option, value interface{}) error
}

type directive struct {
	opt   Option
	value interface{}
}

// patch is the partial result of a single derivation step
type patch []directive

// Set is the result of a derivation. Options are unique and iterate in the order they were first set.
// A later assignment to an option replaces the value but keeps its position.
//
// When the body is streamed, the Set owns the reader the ReadFunction directive reads from.
// Keep the Set alive until the transport is done with the request.
type Set struct {
	order  []Option
	values map[Option]interface{}
	stream io.Reader
}

func newSet() *Set {
	return &Set{
		values: make(map[Option]interface{}, numOptions),
	}
}

func (s *Set) set(opt Option, v interface{}) {
	if _, ok := s.values[opt]; !ok {
		s.order = append(s.order, opt)
	}
	s.values[opt] = v
}

func (s *Set) merge(p patch) {
	for _, d := range p {
		s.set(d.opt, d.value)
	}
}

// Get returns the value for opt
func (s *Set) Get(opt Option) (interface{}, bool) {
	v, ok := s.values[opt]
	return v, ok
}

// Has reports whether opt is present
func (s *Set) Has(opt Option) bool {
	_, ok := s.values[opt]
	return ok
}

// Str returns a string valued option, or "" if opt is missing or not a string
func (s *Set) Str(opt Option) string {
	v, _ := s.values[opt].(string)
	return v
}

// Int returns an integer valued option. ok is false if opt is missing or not an integer
func (s *Set) Int(opt Option) (int64, bool) {
	v, ok := s.values[opt].(int64)
	return v, ok
}

func (s *Set) Len() int {
	return len(s.order)
}

// Options returns the options in the set in iteration order
func (s *Set) Options() []Option {
	return append([]Option{}, s.order...)
}

// Stream returns the reader backing a streaming upload, nil if the body is not streamed
func (s *Set) Stream() io.Reader {
	return s.stream
}

// Each calls fn for every directive in order
func (s *Set) Each(fn func(opt Option, value interface{})) {
	for _, o := range s.order {
		fn(o, s.values[o])
	}
}

// Apply hands every directive to sink in order. All directives are attempted, failures
// are returned together as a *multierror.Error
func (s *Set) Apply(sink Sink) error {
	var merr *multierror.Error
	for _, o := range s.order {
		if err := sink.SetOpt(o, s.values[o]); err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	return merr.ErrorOrNil()
}

// FormatValue renders a directive value for display. Byte bodies are rendered as text
// and read callbacks as a placeholder
func FormatValue(v interface{}) string {
	switch vv := v.(type) {
	case string:
		return vv
	case int64:
		return strconv.FormatInt(vv, 10)
	case bool:
		return strconv.FormatBool(vv)
	case []byte:
		return string(vv)
	case []string:
		return fmt.Sprintf("%q", vv)
	case ReadFunc:
		return "<read callback>"
	}
	return fmt.Sprintf("%v", v)
}

// AppendBytes appends one "NAME: value" line per directive
func (s *Set) AppendBytes(b []byte) []byte {
	for _, o := range s.order {
		b = append(b, o.String()...)
		b = append(b, ": "...)
		b = append(b, FormatValue(s.values[o])...)
		b = append(b, '\n')
	}
	return b
}

// Bytes is the rendering used to compare two sets
func (s *Set) Bytes() []byte {
	w := bytebufferpool.Get()
	ret := append([]byte{}, s.AppendBytes(w.B)...)
	bytebufferpool.Put(w)
	return ret
}

func (s *Set) MarshalZerologObject(e *zerolog.Event) {
	for _, o := range s.order {
		e.Str(o.String(), FormatValue(s.values[o]))
	}
}

func (s *Set) MarshalJSONObject(enc *gojay.Encoder) {
	for _, o := range s.order {
		switch v := s.values[o].(type) {
		case int64:
			enc.Int64Key(o.String(), v)
		case bool:
			enc.BoolKey(o.String(), v)
		case []string:
			enc.ArrayKey(o.String(), stringArray(v))
		default:
			enc.StringKey(o.String(), FormatValue(v))
		}
	}
}

func (s *Set) IsNil() bool {
	return s == nil
}

type stringArray []string

func (a stringArray) MarshalJSONArray(enc *gojay.Encoder) {
	for _, v := range a {
		enc.String(v)
	}
}

func (a stringArray) IsNil() bool {
	return len(a) == 0
}
