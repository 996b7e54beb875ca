package http

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBody(t *testing.T) {
	r := strings.NewReader("x")
	tests := []struct {
		name  string
		body  Body
		kind  BodyKind
		len   int
		empty bool
	}{
		{"absent", NoBody(), BodyAbsent, 0, true},
		{"zero value", Body{}, BodyAbsent, 0, true},
		{"text", TextBody("abc"), BodyText, 3, false},
		{"empty text", TextBody(""), BodyText, 0, true},
		{"bytes", BytesBody([]byte("ab")), BodyBytes, 2, false},
		{"nil bytes", BytesBody(nil), BodyBytes, 0, true},
		{"stream", StreamBody(r), BodyStream, -1, false},
		{"nil stream", StreamBody(nil), BodyAbsent, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.body.Kind())
			assert.Equal(t, tt.len, tt.body.Len())
			assert.Equal(t, tt.empty, tt.body.IsEmpty())
		})
	}

	assert.Equal(t, io.Reader(r), StreamBody(r).Stream())
	assert.Nil(t, TextBody("a").Stream())
	assert.Equal(t, "stream", BodyStream.String())
}
