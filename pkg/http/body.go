package http

import (
	"fmt"
	"io"
)

// BodyKind classifies a request body. The request builder is expected to pick the kind,
// option derivation never inspects the body value to work it out
type BodyKind int

const (
	BodyAbsent BodyKind = iota
	BodyText
	BodyBytes
	BodyStream
)

func (k BodyKind) String() string {
	switch k {
	case BodyAbsent:
		return "absent"
	case BodyText:
		return "text"
	case BodyBytes:
		return "bytes"
	case BodyStream:
		return "stream"
	}
	return fmt.Sprintf("BodyKind(%d)", int(k))
}

// Body is a tagged union over the supported body representations. The zero value is an absent body.
// Use NoBody, TextBody, BytesBody or StreamBody to construct one
type Body struct {
	kind   BodyKind
	text   string
	data   []byte
	stream io.Reader
}

func NoBody() Body {
	return Body{}
}

func TextBody(s string) Body {
	return Body{kind: BodyText, text: s}
}

func BytesBody(b []byte) Body {
	return Body{kind: BodyBytes, data: b}
}

// StreamBody wraps r. The reader is used as is, it is never copied or buffered
func StreamBody(r io.Reader) Body {
	if r == nil {
		return Body{}
	}
	return Body{kind: BodyStream, stream: r}
}

func (b Body) Kind() BodyKind {
	return b.kind
}

func (b Body) Text() string {
	return b.text
}

func (b Body) Bytes() []byte {
	return b.data
}

func (b Body) Stream() io.Reader {
	return b.stream
}

// Len returns the in memory size of the body. Streams report -1
func (b Body) Len() int {
	switch b.kind {
	case BodyText:
		return len(b.text)
	case BodyBytes:
		return len(b.data)
	case BodyStream:
		return -1
	}
	return 0
}

// IsEmpty reports whether there is nothing to send. An empty text or bytes body counts as empty,
// a stream is never empty since we can't know until it is read
func (b Body) IsEmpty() bool {
	return b.Len() == 0
}
