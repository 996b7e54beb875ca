package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMethod(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", MethodGet},
		{"get", MethodGet},
		{"post", MethodPost},
		{"Head", MethodHead},
		{"PROPFIND", "PROPFIND"},
		{"m-search", "M-SEARCH"},
		{"GE T", MethodGet},
		{"GET\n", MethodGet},
		{"caf\xc3\xa9", MethodGet},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeMethod(tt.in))
		})
	}
}
