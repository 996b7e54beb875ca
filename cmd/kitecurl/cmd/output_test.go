package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/assetnote/kitecurl/pkg/curlopt"
	"github.com/assetnote/kitecurl/pkg/http"
	"github.com/assetnote/kitecurl/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSet(t *testing.T) *curlopt.Set {
	t.Helper()
	set, err := curlopt.Derive(http.Request{
		URL:     "http://example.com/",
		Method:  "POST",
		Headers: http.Headers{{Key: "X-A", Value: "1"}, {Key: "X-B", Value: "2"}},
		Body:    http.TextBody("a=b"),
	}, curlopt.Policy{})
	require.NoError(t, err)
	return set
}

func TestWriteSet(t *testing.T) {
	set := testSet(t)

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeSet(&buf, set, "text"))
		assert.Equal(t, string(set.Bytes()), buf.String())
		assert.Contains(t, buf.String(), "CURLOPT_CUSTOMREQUEST: POST\n")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeSet(&buf, set, "json"))
		out := buf.String()
		assert.True(t, strings.HasPrefix(out, "{"))
		assert.True(t, strings.HasSuffix(out, "}\n"))
		assert.Contains(t, out, `"CURLOPT_HTTPHEADER":["X-A: 1","X-B: 2"]`)
		assert.Contains(t, out, `"CURLOPT_POSTFIELDS":"a=b"`)
	})

	t.Run("pretty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeSet(&buf, set, "pretty"))
		out := buf.String()
		assert.Contains(t, out, "CURLOPT_URL")
		assert.Contains(t, out, "http://example.com/")
		assert.Contains(t, out, "X-A: 1")
		assert.Contains(t, out, "X-B: 2")
	})
}

func TestWriteResponse(t *testing.T) {
	resp := &transport.Response{
		StatusCode: 302,
		Headers:    http.Headers{{Key: "Location", Value: "/next"}},
		Next: &transport.Response{
			StatusCode: 200,
			URI:        "/next",
			BodyLength: 4,
			Headers:    http.Headers{{Key: "Content-Type", Value: "text/plain"}},
			Body:       []byte("done"),
		},
	}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeResponse(&buf, resp, "text", false))
		assert.Equal(t, "< 302 -\n< 200 /next\n\ndone", buf.String())
	})

	t.Run("headers", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeResponse(&buf, resp, "pretty", true))
		assert.Equal(t, "< 302 -\n< Location: /next\n< 200 /next\n< Content-Type: text/plain\n\ndone", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeResponse(&buf, resp, "json", false))
		out := buf.String()
		assert.Contains(t, out, `"sc":200`)
		assert.Contains(t, out, `"body":"done"`)
		assert.Contains(t, out, `"uri":"/next"`)
	})
}
