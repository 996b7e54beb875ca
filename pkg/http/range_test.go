package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangesFromString(t *testing.T) {
	tests := []struct {
		in      string
		want    Ranges
		wantErr bool
	}{
		{"404", Ranges{{404, 404}}, false},
		{"400-499", Ranges{{400, 499}}, false},
		{"400-499, 503", Ranges{{400, 499}, {503, 503}}, false},
		{"", nil, false},
		{"500-400", nil, true},
		{"abc", nil, true},
		{"1-b", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := RangesFromString(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRanges_Contains(t *testing.T) {
	rr := Ranges{{400, 499}, {503, 503}}
	assert.True(t, rr.Contains(400))
	assert.True(t, rr.Contains(499))
	assert.True(t, rr.Contains(503))
	assert.False(t, rr.Contains(502))
	assert.False(t, rr.Contains(200))
	assert.False(t, Ranges{}.Contains(200))

	assert.Equal(t, "400-499", rr[0].String())
	assert.Equal(t, "503", rr[1].String())
}
