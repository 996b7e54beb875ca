package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/assetnote/kitecurl/pkg/curlopt"
	errors2 "github.com/assetnote/kitecurl/pkg/errors"
	"github.com/assetnote/kitecurl/pkg/http"
	"github.com/assetnote/kitecurl/pkg/log"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// DefaultMaxRedirects matches the libcurl default when following locations
const DefaultMaxRedirects = 16

// Engine is a fasthttp backed transport configured from a directive set. It implements curlopt.Sink.
//
// Directives that fasthttp has no equivalent for (HTTP/2, ALPS, certificate compression, pseudo header
// order, NPN, cookie jar) are accepted and ignored.
//
// The Engine borrows the read callback of a streamed upload. The Set it was configured from must stay alive
// until Do returns.
type Engine struct {
	Client  *fasthttp.Client
	Request *fasthttp.Request
	TLS     *tls.Config

	MaxRedirects   int
	Timeout        time.Duration
	ConnectTimeout time.Duration
	Follow         bool
	Verbose        bool
	SkipBody       bool

	uploading  bool
	upload     io.Reader
	verifyHost bool
	verifyPeer bool
	certPath   string
	keyPath    string

	// DefaultCABundle is the bundle a missing CAInfo falls back to the system roots for
	DefaultCABundle string

	log zerolog.Logger
}

// NewEngine returns an engine with verification enabled and no request configured
func NewEngine() *Engine {
	tlsConfig := &tls.Config{}
	e := &Engine{
		Client: &fasthttp.Client{
			TLSConfig:                tlsConfig,
			NoDefaultUserAgentHeader: true,
		},
		Request:         fasthttp.AcquireRequest(),
		TLS:             tlsConfig,
		MaxRedirects:    DefaultMaxRedirects,
		DefaultCABundle: curlopt.DefaultCABundlePath,
		verifyHost:      true,
		verifyPeer:      true,
		log:             log.Component("transport"),
	}
	// header names are sent exactly as supplied
	e.Request.Header.DisableNormalizing()
	return e
}

// Configure creates an engine and applies every directive in set. All directives are attempted, the
// returned error aggregates each failure as an *errors.DirectiveError. The engine is returned even on
// error so the caller can inspect what was applied
func Configure(set *curlopt.Set) (*Engine, error) {
	e := NewEngine()

	var merr *multierror.Error
	if err := set.Apply(e); err != nil {
		merr = multierror.Append(merr, err)
	}
	if err := e.finish(); err != nil {
		merr = multierror.Append(merr, err)
	}
	return e, merr.ErrorOrNil()
}

// Release returns the underlying request to the fasthttp pool. The engine must not be used afterwards
func (e *Engine) Release() {
	if e.Request != nil {
		fasthttp.ReleaseRequest(e.Request)
		e.Request = nil
	}
}

func directiveError(opt curlopt.Option, value interface{}, context string, err error) error {
	return &errors2.DirectiveError{
		Option:  opt.String(),
		Value:   curlopt.FormatValue(value),
		Context: context,
		Err:     err,
	}
}

func typeError(opt curlopt.Option, value interface{}) error {
	return directiveError(opt, value, fmt.Sprintf("unexpected value type %T", value), nil)
}

// SetOpt applies a single directive. Method implying directives follow libcurl: PostFields switches to
// POST, Upload to PUT and NoBody to HEAD, and a later CustomRequest overrides any of them
func (e *Engine) SetOpt(opt curlopt.Option, value interface{}) error {
	switch opt {
	case curlopt.URL:
		v, ok := value.(string)
		if !ok {
			return typeError(opt, value)
		}
		e.Request.SetRequestURI(v)

	case curlopt.HTTPHeader:
		v, ok := value.([]string)
		if !ok {
			return typeError(opt, value)
		}
		for _, line := range v {
			h, ok := http.HeaderFromString(line)
			if !ok {
				return directiveError(opt, line, "header is missing a colon", nil)
			}
			e.addHeader(h)
		}

	case curlopt.CustomRequest:
		v, ok := value.(string)
		if !ok {
			return typeError(opt, value)
		}
		e.Request.Header.SetMethod(v)

	case curlopt.PostFields:
		v, ok := value.([]byte)
		if !ok {
			return typeError(opt, value)
		}
		e.Request.Header.SetMethod(http.MethodPost)
		e.Request.SetBody(v)

	case curlopt.Upload:
		v, ok := value.(bool)
		if !ok {
			return typeError(opt, value)
		}
		e.uploading = v
		if v {
			e.Request.Header.SetMethod(http.MethodPut)
		}

	case curlopt.ReadFunction:
		v, ok := value.(curlopt.ReadFunc)
		if !ok {
			return typeError(opt, value)
		}
		e.upload = v

	case curlopt.NoBody:
		v, ok := value.(bool)
		if !ok {
			return typeError(opt, value)
		}
		e.SkipBody = v
		if v {
			e.Request.Header.SetMethod(http.MethodHead)
		}

	case curlopt.TimeoutMS:
		v, ok := value.(int64)
		if !ok {
			return typeError(opt, value)
		}
		e.Timeout = time.Duration(v) * time.Millisecond
		e.Client.ReadTimeout = e.Timeout
		e.Client.WriteTimeout = e.Timeout

	case curlopt.ConnectTimeoutMS:
		v, ok := value.(int64)
		if !ok {
			return typeError(opt, value)
		}
		e.ConnectTimeout = time.Duration(v) * time.Millisecond
		timeout := e.ConnectTimeout
		e.Client.Dial = func(addr string) (net.Conn, error) {
			return fasthttp.DialTimeout(addr, timeout)
		}

	case curlopt.FollowLocation:
		v, ok := value.(int64)
		if !ok {
			return typeError(opt, value)
		}
		e.Follow = v != 0

	case curlopt.Verbose:
		v, ok := value.(int64)
		if !ok {
			return typeError(opt, value)
		}
		e.Verbose = v != 0

	case curlopt.SSLVersion:
		v, ok := value.(int64)
		if !ok {
			return typeError(opt, value)
		}
		min, err := tlsVersion(v)
		if err != nil {
			return directiveError(opt, value, "unsupported tls version", err)
		}
		e.TLS.MinVersion = min

	case curlopt.SSLCipherList:
		v, ok := value.(string)
		if !ok {
			return typeError(opt, value)
		}
		suites, err := cipherSuites(v)
		if err != nil {
			return directiveError(opt, value, "no usable cipher suites", err)
		}
		e.TLS.CipherSuites = suites

	case curlopt.SSLVerifyHost:
		v, ok := value.(int64)
		if !ok {
			return typeError(opt, value)
		}
		e.verifyHost = v != 0

	case curlopt.SSLVerifyPeer:
		v, ok := value.(int64)
		if !ok {
			return typeError(opt, value)
		}
		e.verifyPeer = v != 0

	case curlopt.CAInfo:
		v, ok := value.(string)
		if !ok {
			return typeError(opt, value)
		}
		pool, err := loadCAFile(v)
		if os.IsNotExist(err) && v == e.DefaultCABundle {
			e.log.Debug().Str("cainfo", v).Msg("default ca bundle not found. using the system roots")
			e.TLS.RootCAs = nil
			return nil
		}
		if err != nil {
			return directiveError(opt, value, "failed to load ca bundle", err)
		}
		e.TLS.RootCAs = pool

	case curlopt.CAPath:
		v, ok := value.(string)
		if !ok {
			return typeError(opt, value)
		}
		pool, err := loadCADir(v)
		if err != nil {
			return directiveError(opt, value, "failed to load ca directory", err)
		}
		e.TLS.RootCAs = pool

	case curlopt.SSLCert:
		v, ok := value.(string)
		if !ok {
			return typeError(opt, value)
		}
		e.certPath = v

	case curlopt.SSLKey:
		v, ok := value.(string)
		if !ok {
			return typeError(opt, value)
		}
		e.keyPath = v

	case curlopt.HTTPVersion,
		curlopt.SSLEnableALPS,
		curlopt.SSLCertCompression,
		curlopt.HTTP2PseudoHeadersOrder,
		curlopt.SSLEnableNPN:
		e.log.Trace().Str("option", opt.String()).Str("value", curlopt.FormatValue(value)).Msg("not supported by fasthttp. ignoring")

	case curlopt.CookieJar:
		if v, _ := value.(string); v != "" {
			e.log.Debug().Str("cookiejar", v).Msg("cookie jar is not supported by fasthttp. cookies will not be persisted")
		}

	default:
		return directiveError(opt, value, "unknown option", nil)
	}
	return nil
}

// addHeader uses Set for the headers fasthttp tracks separately so they aren't sent twice
func (e *Engine) addHeader(h http.Header) {
	switch strings.ToLower(h.Key) {
	case "host", "content-type", "user-agent", "content-length":
		e.Request.Header.Set(h.Key, h.Value)
	default:
		e.Request.Header.Add(h.Key, h.Value)
	}
}

// finish applies the directives that depend on more than one option
func (e *Engine) finish() error {
	var merr *multierror.Error

	if e.uploading {
		if e.upload == nil {
			merr = multierror.Append(merr, directiveError(curlopt.Upload, true, "upload without a read function", nil))
		} else {
			// -1 sends the body chunked since the size is unknown
			e.Request.SetBodyStream(e.upload, -1)
		}
	}

	if e.certPath != "" {
		key := e.keyPath
		if key == "" {
			key = e.certPath
		}
		cert, err := tls.LoadX509KeyPair(e.certPath, key)
		if err != nil {
			merr = multierror.Append(merr, directiveError(curlopt.SSLCert, e.certPath, "failed to load client certificate", err))
		} else {
			e.TLS.Certificates = []tls.Certificate{cert}
		}
	}

	e.applyVerification()
	return merr.ErrorOrNil()
}

// Do executes the configured request. When FollowLocation was set, redirects are followed up to MaxRedirects
// and every hop is appended to the returned response chain. A chain that ends on a missing location or too
// many redirects is not an error, the final response carries it in Response.Error
func (e *Engine) Do() (Response, error) {
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)
	resp.SkipBody = e.SkipBody

	if e.Verbose {
		e.log.Debug().
			Bytes("method", e.Request.Header.Method()).
			Str("uri", e.Request.URI().String()).
			Bytes("headers", e.Request.Header.RawHeaders()).
			Bool("follow", e.Follow).
			Dur("timeout", e.Timeout).
			Msg("sending request")
	}

	ret, err := e.doFollowRedirects(resp)
	if err != nil &&
		err != fasthttp.ErrTooManyRedirects &&
		err != fasthttp.ErrMissingLocation {
		return ret, err
	}

	if e.Verbose {
		e.log.Debug().Object("response", ret).Int("hops", len(ret.Flatten())).Msg("received response")
	}
	return ret, nil
}

// DoContext is Do that stops waiting once ctx is done. fasthttp cannot abort a request in flight, so it
// carries on in the background until it completes or times out. The engine must not be released in that case
func (e *Engine) DoContext(ctx context.Context) (Response, error) {
	type result struct {
		resp Response
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		resp, err := e.Do()
		ch <- result{resp, err}
	}()

	select {
	case <-ctx.Done():
		return Response{}, ctx.Err()
	case r := <-ch:
		return r.resp, r.err
	}
}

// do relies on the client read and write timeouts for streamed uploads
func (e *Engine) do(resp *fasthttp.Response) error {
	if e.Timeout > 0 && !e.streaming() {
		return e.Client.DoTimeout(e.Request, resp, e.Timeout)
	}
	return e.Client.Do(e.Request, resp)
}

// doFollowRedirects performs the request and walks the redirect chain. fasthttp.Client picks the host client
// from the request uri so a redirect to another host needs no special handling
func (e *Engine) doFollowRedirects(fresp *fasthttp.Response) (ret Response, err error) {
	redirects := 0
	resp := &ret
	for {
		if err = e.do(fresp); err != nil {
			return ret, err
		}
		resp.fill(fresp)

		if !e.Follow || !StatusCodeIsRedirect(resp.StatusCode) {
			break
		}

		redirects++
		if redirects > e.MaxRedirects {
			e.log.Trace().Msg("bailing out. reached max redirects")
			err = fasthttp.ErrTooManyRedirects
			resp.Error = err
			break
		}

		location := fresp.Header.Peek(fasthttp.HeaderLocation)
		if len(location) == 0 {
			e.log.Trace().Msg("bailing out. missing location header")
			err = fasthttp.ErrMissingLocation
			resp.Error = err
			break
		}

		if !e.prepareRedirect(resp.StatusCode) {
			e.log.Debug().Bytes("location", location).Msg("streamed body cannot be replayed. not following redirect")
			break
		}

		resp.Next = &Response{URI: string(location)}
		resp = resp.Next
		e.Request.URI().UpdateBytes(location)

		e.log.Trace().Bytes("location", location).Msg("following redirect")
	}
	return ret, err
}

// prepareRedirect rewrites the request for the next hop. 303, and 301/302 after a POST, continue as a
// bodiless GET. Other redirects resend the same request, which is impossible once a stream was consumed
func (e *Engine) prepareRedirect(statusCode int) bool {
	method := string(e.Request.Header.Method())
	if statusCode == fasthttp.StatusSeeOther ||
		(method == http.MethodPost && (statusCode == fasthttp.StatusMovedPermanently || statusCode == fasthttp.StatusFound)) {
		if method != http.MethodHead {
			e.Request.Header.SetMethod(http.MethodGet)
		}
		e.Request.ResetBody()
		e.uploading = false
		return true
	}
	// fasthttp closes the stream once written
	return !e.streaming()
}

func (e *Engine) streaming() bool {
	return e.uploading && e.upload != nil
}

// StatusCodeIsRedirect returns true if the status code indicates a redirect.
func StatusCodeIsRedirect(statusCode int) bool {
	return statusCode == fasthttp.StatusMovedPermanently ||
		statusCode == fasthttp.StatusFound ||
		statusCode == fasthttp.StatusSeeOther ||
		statusCode == fasthttp.StatusTemporaryRedirect ||
		statusCode == fasthttp.StatusPermanentRedirect
}
