package curlopt

import (
	"strings"
	"sync"
	"testing"

	"github.com/assetnote/kitecurl/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivation_Memoizes(t *testing.T) {
	req := http.Request{URL: "http://example.com/", Method: "post", Body: http.TextBody("x=1")}
	d := NewDerivation(req, Policy{})
	assert.NotEmpty(t, d.ID)
	assert.Equal(t, req, d.Request())

	first, err := d.Options()
	require.NoError(t, err)
	second, err := d.Options()
	require.NoError(t, err)

	assert.True(t, first == second)
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestDerivation_StreamOwnedByResult(t *testing.T) {
	r := strings.NewReader("body")
	d := NewDerivation(http.Request{URL: "http://example.com/", Method: "PUT", Body: http.StreamBody(r)}, Policy{})

	s, err := d.Options()
	require.NoError(t, err)
	again, err := d.Options()
	require.NoError(t, err)
	assert.True(t, s.Stream() == again.Stream())
}

func TestDerivation_CachesError(t *testing.T) {
	d := NewDerivation(http.Request{URL: "https://example.com/"}, Policy{Verify: VerifyWith("bad\x00path")})
	_, err1 := d.Options()
	_, err2 := d.Options()
	require.Error(t, err1)
	assert.Equal(t, err1, err2)
}

func TestDerivation_ConcurrentOptions(t *testing.T) {
	d := NewDerivation(http.Request{URL: "http://example.com/"}, Policy{Timeout: TimeoutAfter(1)})

	var (
		wg   sync.WaitGroup
		sets = make([]*Set, 8)
	)
	for i := range sets {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sets[i], _ = d.Options()
		}(i)
	}
	wg.Wait()

	for _, s := range sets {
		assert.True(t, s == sets[0])
	}
}

func TestDerivation_IndependentInstances(t *testing.T) {
	req := http.Request{
		URL:     "http://example.com/",
		Method:  "POST",
		Headers: http.Headers{{Key: "Content-Type", Value: "multipart/form-data; boundary=b"}},
		Body:    http.BytesBody([]byte("--b--")),
	}
	a, err := NewDerivation(req, Policy{}).Options()
	require.NoError(t, err)
	b, err := NewDerivation(req, Policy{}).Options()
	require.NoError(t, err)

	// each derivation allocates its own buffer for the upload
	assert.False(t, a.Stream() == b.Stream())
	assert.Equal(t, a.Bytes(), b.Bytes())
}
