package transport

import (
	"net"
	"testing"

	"github.com/assetnote/kitecurl/pkg/curlopt"
	"github.com/assetnote/kitecurl/pkg/http"
	"github.com/assetnote/kitecurl/pkg/log"
)

func benchEngine(b *testing.B, url string) *Engine {
	ln := memoryServer()
	b.Cleanup(func() { ln.Close() })

	set, err := curlopt.Derive(http.Request{URL: url}, curlopt.Policy{Timeout: curlopt.TimeoutAfter(1)})
	if err != nil {
		b.Fatal("failed to derive", err)
	}
	e, err := Configure(set)
	if err != nil {
		b.Fatal("failed to configure", err)
	}
	e.Client.Dial = func(addr string) (net.Conn, error) {
		return ln.Dial()
	}
	return e
}

func BenchmarkMemoryRequest(b *testing.B) {
	b.ReportAllocs()
	e := benchEngine(b, "http://example.com/echo")
	defer e.Release()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res, err := e.Do()
		if err != nil {
			b.Fatal("bad err", err)
		}
		if res.StatusCode != 200 {
			b.Fatal("bad status", res.StatusCode)
		}
	}
}

func BenchmarkMemoryRedirectRequest(b *testing.B) {
	log.SetLevelString("error")
	b.ReportAllocs()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		e := benchEngine(b, "http://example.com/redirect")
		b.StartTimer()

		res, err := e.Do()
		if err != nil {
			b.Fatal("bad err", err)
		}
		if res.Next == nil {
			b.Fatal("redirect not followed")
		}
		e.Release()
	}
}
